// Package aggregation implements grouped SUM/AVG/MIN/MAX/COUNT over
// integer fields and COUNT over string fields.
//
// Grounded on the donor's pkg/execution/aggregation/aggregator_iterator.go
// and pkg/execution/aggregation/base_aggr.go (a calculator-per-group
// accumulator, drained fully
// before any result is emitted), but fixing a bug present there: the
// donor always emits the group key as a StringField regardless of the
// grouped column's real type. Here the group key is reparsed back into
// the grouped column's own type when a result row is produced — that
// reparsing is implemented in Results.
package aggregation

import (
	"fmt"
	"math"
	"strconv"

	"heapbase/pkg/dberrors"
	"heapbase/pkg/tuple"
	"heapbase/pkg/types"
)

// Op is the aggregate function applied within each group.
type Op int

const (
	Min Op = iota
	Max
	Sum
	Avg
	Count
)

func (op Op) String() string {
	switch op {
	case Min:
		return "min"
	case Max:
		return "max"
	case Sum:
		return "sum"
	case Avg:
		return "avg"
	case Count:
		return "count"
	default:
		return "unknown"
	}
}

// NoGrouping marks an aggregate with no GROUP BY column: every tuple
// merges into a single implicit group.
const NoGrouping = -1

type groupState struct {
	count int64
	sum   int64
	min   int64
	max   int64
}

// Aggregator accumulates one (optionally grouped) aggregate over a
// stream of tuples merged in one at a time, then produces the result
// rows once the stream is exhausted.
type Aggregator struct {
	groupField     int
	groupFieldType types.Type
	aggField       int
	op             Op

	groups map[string]*groupState
	order  []string
}

func New(groupField int, groupFieldType types.Type, aggField int, op Op) *Aggregator {
	return &Aggregator{
		groupField:     groupField,
		groupFieldType: groupFieldType,
		aggField:       aggField,
		op:             op,
		groups:         make(map[string]*groupState),
	}
}

// Merge folds one tuple into its group's running aggregate.
func (a *Aggregator) Merge(t *tuple.Tuple) error {
	key := ""
	if a.groupField != NoGrouping {
		gf, err := t.Field(a.groupField)
		if err != nil {
			return err
		}
		key = gf.String()
	}

	st, ok := a.groups[key]
	if !ok {
		st = &groupState{min: math.MaxInt64, max: math.MinInt64}
		a.groups[key] = st
		a.order = append(a.order, key)
	}

	af, err := t.Field(a.aggField)
	if err != nil {
		return err
	}

	switch v := af.(type) {
	case *types.IntField:
		val := int64(v.Value)
		st.count++
		st.sum += val
		if val < st.min {
			st.min = val
		}
		if val > st.max {
			st.max = val
		}
	case *types.StringField:
		if a.op != Count {
			return dberrors.New(dberrors.Unsupported, fmt.Sprintf("aggregation: %s is not supported on string fields", a.op))
		}
		st.count++
	default:
		return fmt.Errorf("aggregation: unsupported field type %T", af)
	}
	return nil
}

// Results builds the output tuples — one per group, in first-seen
// order — and the TupleDescription describing them: [groupType,
// IntType]["groupval","aggval"] when grouped, or just
// [IntType]["aggval"] otherwise.
func (a *Aggregator) Results() ([]*tuple.Tuple, *tuple.TupleDescription, error) {
	var td *tuple.TupleDescription
	var err error
	if a.groupField == NoGrouping {
		td, err = tuple.New([]types.Type{types.IntType}, []string{"aggval"})
	} else {
		td, err = tuple.New(
			[]types.Type{a.groupFieldType, types.IntType},
			[]string{"groupval", "aggval"},
		)
	}
	if err != nil {
		return nil, nil, err
	}

	results := make([]*tuple.Tuple, 0, len(a.order))
	for _, key := range a.order {
		st := a.groups[key]
		aggVal, err := a.finalize(st)
		if err != nil {
			return nil, nil, err
		}

		out := tuple.NewTuple(td)
		idx := 0
		if a.groupField != NoGrouping {
			groupField, err := reparseGroupKey(key, a.groupFieldType)
			if err != nil {
				return nil, nil, err
			}
			if err := out.SetField(0, groupField); err != nil {
				return nil, nil, err
			}
			idx = 1
		}
		if err := out.SetField(idx, types.NewIntField(aggVal)); err != nil {
			return nil, nil, err
		}
		results = append(results, out)
	}
	return results, td, nil
}

func (a *Aggregator) finalize(st *groupState) (int32, error) {
	switch a.op {
	case Min:
		return int32(st.min), nil
	case Max:
		return int32(st.max), nil
	case Sum:
		return int32(st.sum), nil
	case Avg:
		return int32(st.sum / st.count), nil // truncating integer division
	case Count:
		return int32(st.count), nil
	default:
		return 0, fmt.Errorf("aggregation: unknown op %d", a.op)
	}
}

func reparseGroupKey(key string, t types.Type) (types.Field, error) {
	if t == types.IntType {
		v, err := strconv.ParseInt(key, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("aggregation: reparse group key %q as int: %w", key, err)
		}
		return types.NewIntField(int32(v)), nil
	}
	return types.NewStringField(key), nil
}

// Package catalogtext loads the catalog schema grammar:
//
//	name(colName type [pk], colName type [pk], ...)
//
// one table per line, type in {int, string} case-insensitive, an
// optional third "pk" token naming the primary key column. The
// backing data file for a table named "foo" is <baseFolder>/foo.dat.
//
// This is deliberately a thin, non-hardened wrapper: catalog loading
// isn't a hardened surface in this engine, but the format is fully
// specified so it gets a concrete, if minimal, implementation rather
// than being left undocumented in the tree. The donor Go codebase has
// no equivalent of this exact line grammar, so parsing here favors Go's
// explicit error returns over a fatal exit on a malformed line.
package catalogtext

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"heapbase/pkg/catalog"
	"heapbase/pkg/storage/heap"
	"heapbase/pkg/tuple"
	"heapbase/pkg/types"
)

// Load parses catalogFile and registers every table it describes into
// cat, backed by a HeapFile in baseFolder (the catalog file's own
// directory). It returns the number of tables registered.
func Load(catalogFile string, cat *catalog.Catalog) (int, error) {
	f, err := os.Open(catalogFile)
	if err != nil {
		return 0, fmt.Errorf("catalogtext: open %q: %w", catalogFile, err)
	}
	defer f.Close()

	baseFolder := filepath.Dir(catalogFile)

	count := 0
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if err := loadLine(line, baseFolder, cat); err != nil {
			return count, fmt.Errorf("catalogtext: line %d: %w", lineNo, err)
		}
		count++
	}
	if err := scanner.Err(); err != nil && err != io.EOF {
		return count, fmt.Errorf("catalogtext: read %q: %w", catalogFile, err)
	}
	return count, nil
}

func loadLine(line, baseFolder string, cat *catalog.Catalog) error {
	open := strings.Index(line, "(")
	close := strings.LastIndex(line, ")")
	if open < 0 || close < 0 || close < open {
		return fmt.Errorf("invalid catalog entry %q: missing parentheses", line)
	}

	name := strings.TrimSpace(line[:open])
	if name == "" {
		return fmt.Errorf("invalid catalog entry %q: empty table name", line)
	}

	cols := strings.Split(line[open+1:close], ",")
	fieldTypes := make([]types.Type, 0, len(cols))
	fieldNames := make([]string, 0, len(cols))
	primaryKey := ""

	for _, col := range cols {
		tokens := strings.Fields(col)
		if len(tokens) < 2 {
			return fmt.Errorf("invalid column definition %q", strings.TrimSpace(col))
		}

		colName := tokens[0]
		fieldType, err := parseType(tokens[1])
		if err != nil {
			return err
		}
		fieldNames = append(fieldNames, colName)
		fieldTypes = append(fieldTypes, fieldType)

		if len(tokens) == 3 {
			if !strings.EqualFold(tokens[2], "pk") {
				return fmt.Errorf("unknown column annotation %q", tokens[2])
			}
			primaryKey = colName
		}
	}

	td, err := tuple.New(fieldTypes, fieldNames)
	if err != nil {
		return fmt.Errorf("build schema for table %q: %w", name, err)
	}

	dataPath := filepath.Join(baseFolder, name+".dat")
	hf, err := heap.NewHeapFile(dataPath, td)
	if err != nil {
		return fmt.Errorf("open heap file for table %q: %w", name, err)
	}

	cat.AddTable(hf, name, primaryKey)
	return nil
}

func parseType(token string) (types.Type, error) {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "int":
		return types.IntType, nil
	case "string":
		return types.StringType, nil
	default:
		return 0, fmt.Errorf("unknown type %q", token)
	}
}

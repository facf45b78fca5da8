package transaction

import (
	"sync"
	"testing"
)

func TestNew_NeverZero(t *testing.T) {
	tid := New()
	if tid.Raw() == 0 {
		t.Errorf("expected a nonzero transaction id, got %d", tid.Raw())
	}
}

func TestNew_Unique(t *testing.T) {
	seen := make(map[int64]bool)
	for i := 0; i < 1000; i++ {
		tid := New()
		if seen[tid.Raw()] {
			t.Fatalf("duplicate transaction id %d issued", tid.Raw())
		}
		seen[tid.Raw()] = true
	}
}

func TestNew_ConcurrentUnique(t *testing.T) {
	const n = 200
	ids := make([]int64, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ids[i] = New().Raw()
		}(i)
	}
	wg.Wait()

	seen := make(map[int64]bool, n)
	for _, id := range ids {
		if seen[id] {
			t.Fatalf("concurrent New() calls produced duplicate id %d", id)
		}
		seen[id] = true
	}
}

func TestTransactionID_Equals(t *testing.T) {
	a := New()
	b := New()

	if !a.Equals(a) {
		t.Error("expected a transaction id to equal itself")
	}
	if a.Equals(b) {
		t.Error("expected two distinct ids to not be equal")
	}
}

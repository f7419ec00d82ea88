package parallel

import (
	"errors"
	"fmt"
	"runtime"
	"sync/atomic"
	"testing"
)

func TestForEachVisitsEveryIndexOnce(t *testing.T) {
	tests := []struct {
		name      string
		n         int
		threshold int
	}{
		{"empty", 0, 1},
		{"serial", 10, 100},
		{"forced serial", 5000, -1},
		{"parallel", 5000, 1},
		{"fewer items than workers", 3, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hits := make([]int32, tt.n)
			err := ForEach(tt.n, tt.threshold, func(i int) error {
				atomic.AddInt32(&hits[i], 1)
				return nil
			})
			if err != nil {
				t.Fatalf("ForEach() error: %v", err)
			}
			for i, h := range hits {
				if h != 1 {
					t.Fatalf("index %d visited %d times", i, h)
				}
			}
		})
	}
}

func TestForEachReturnsLowestIndexError(t *testing.T) {
	old := runtime.GOMAXPROCS(4)
	defer runtime.GOMAXPROCS(old)

	for _, threshold := range []int{1, 1 << 20} {
		err := ForEach(1000, threshold, func(i int) error {
			if i == 120 || i == 900 {
				return fmt.Errorf("item %d", i)
			}
			return nil
		})
		if err == nil || err.Error() != "item 120" {
			t.Errorf("threshold %d: error = %v, want item 120", threshold, err)
		}
	}
}

func TestMapPreservesOrder(t *testing.T) {
	in := make([]int, 4096)
	for i := range in {
		in[i] = i
	}
	out, err := Map(in, 1, func(v int) (int, error) { return v * 2, nil })
	if err != nil {
		t.Fatalf("Map() error: %v", err)
	}
	for i, v := range out {
		if v != i*2 {
			t.Fatalf("out[%d] = %d, want %d", i, v, i*2)
		}
	}
}

func TestMapError(t *testing.T) {
	sentinel := errors.New("boom")
	out, err := Map([]int{1, 2, 3}, DefaultThreshold, func(v int) (int, error) {
		if v == 2 {
			return 0, sentinel
		}
		return v, nil
	})
	if !errors.Is(err, sentinel) {
		t.Errorf("Map() error = %v, want sentinel", err)
	}
	if out != nil {
		t.Errorf("Map() out = %v, want nil on error", out)
	}
}

package parallel

import (
	"fmt"
	"sync/atomic"
	"testing"
)

func TestParallelize_CoversAllItems(t *testing.T) {
	for _, items := range []int{0, 1, 7, 1000} {
		t.Run(fmt.Sprintf("items=%d", items), func(t *testing.T) {
			seen := make([]int32, items)
			Parallelize(items, func(start, end int) {
				for i := start; i < end; i++ {
					atomic.AddInt32(&seen[i], 1)
				}
			})
			for i, c := range seen {
				if c != 1 {
					t.Fatalf("item %d visited %d times", i, c)
				}
			}
		})
	}
}

func TestParallelizeWithThreshold_Sequential(t *testing.T) {
	calls := 0
	ParallelizeWithThreshold(10, 100, func(start, end int) {
		calls++
		if start != 0 || end != 10 {
			t.Errorf("expected single chunk [0,10), got [%d,%d)", start, end)
		}
	})
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestForEach_CollectsErrorsByIndex(t *testing.T) {
	errs := ForEach(5, 2, func(i int) error {
		if i%2 == 1 {
			return fmt.Errorf("client %d failed", i)
		}
		return nil
	})

	if len(errs) != 5 {
		t.Fatalf("expected 5 results, got %d", len(errs))
	}
	for i, err := range errs {
		if (err != nil) != (i%2 == 1) {
			t.Errorf("errs[%d] = %v", i, err)
		}
	}
}

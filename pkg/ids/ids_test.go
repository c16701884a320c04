package ids

import (
	"sync"
	"testing"
	"time"
)

func fixedClock(ms int64) func() time.Time {
	return func() time.Time { return time.UnixMilli(ms) }
}

func TestNext(t *testing.T) {
	t.Run("uses the clock when ahead", func(t *testing.T) {
		g := NewGeneratorWithClock(fixedClock(1000))
		if got := g.Next(0); got != 1000 {
			t.Fatalf("expected 1000, got %d", got)
		}
	})

	t.Run("monotonic on a frozen clock", func(t *testing.T) {
		g := NewGeneratorWithClock(fixedClock(1000))
		a, b, c := g.Next(0), g.Next(0), g.Next(0)
		if !(a < b && b < c) {
			t.Fatalf("expected strictly increasing ids, got %d %d %d", a, b, c)
		}
	})

	t.Run("respects floor", func(t *testing.T) {
		g := NewGeneratorWithClock(fixedClock(1000))
		if got := g.Next(5000); got != 5001 {
			t.Fatalf("expected 5001, got %d", got)
		}
	})
}

func TestNext_Concurrent(t *testing.T) {
	g := NewGenerator()
	const n = 200
	seen := make(chan int64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			seen <- g.Next(0)
		}()
	}
	wg.Wait()
	close(seen)

	unique := make(map[int64]bool, n)
	for id := range seen {
		if unique[id] {
			t.Fatalf("duplicate id %d", id)
		}
		unique[id] = true
	}
}

func TestMax(t *testing.T) {
	type rec struct{ id int64 }
	if got := Max([]rec{{3}, {9}, {1}}, func(r rec) int64 { return r.id }); got != 9 {
		t.Fatalf("expected 9, got %d", got)
	}
	if got := Max([]rec(nil), func(r rec) int64 { return r.id }); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
}

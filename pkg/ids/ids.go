// Package ids issues the integer identifiers of products, sales and users.
// Identifiers are derived from the wall clock in milliseconds, like the
// documents this system reads, and are strictly increasing per Generator.
package ids

import (
	"sync"
	"time"
)

// Generator is safe for concurrent use.
type Generator struct {
	mu   sync.Mutex
	now  func() time.Time
	last int64
}

// NewGenerator returns a Generator reading the system clock.
func NewGenerator() *Generator {
	return &Generator{now: time.Now}
}

// NewGeneratorWithClock returns a Generator reading now. Used by tests.
func NewGeneratorWithClock(now func() time.Time) *Generator {
	return &Generator{now: now}
}

// Next returns an id greater than floor and greater than every id g issued
// before. Callers pass the largest id already stored so imported documents
// with future timestamps can never collide.
func (g *Generator) Next(floor int64) int64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := g.now().UnixMilli()
	if id <= floor {
		id = floor + 1
	}
	if id <= g.last {
		id = g.last + 1
	}
	g.last = id
	return id
}

// Max returns the largest id among items, or 0 when there are none.
func Max[T any](items []T, id func(T) int64) int64 {
	var m int64
	for _, it := range items {
		if v := id(it); v > m {
			m = v
		}
	}
	return m
}

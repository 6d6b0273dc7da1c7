package testfixtures

import (
	"fmt"
	"sync"
)

// IDGenerator produces deterministic identifiers for tests.
type IDGenerator struct {
	mu      sync.Mutex
	prefix  string
	counter uint64
}

func NewIDGenerator(prefix string) *IDGenerator {
	if prefix == "" {
		prefix = "id"
	}
	return &IDGenerator{prefix: prefix}
}

func (g *IDGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.counter++
	return fmt.Sprintf("%s-%d", g.prefix, g.counter)
}

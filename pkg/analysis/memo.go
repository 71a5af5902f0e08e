package analysis

import (
	"sort"
	"strings"
	"sync"

	"github.com/aretw0/interleave/pkg/domain"
)

// memo is a read-through cache owned by one analyzer. The zero value is ready to use.
type memo[T any] struct {
	mu sync.Mutex
	m  map[string]T
}

// get returns the value cached under key, computing it on a miss.
// compute runs without the lock held so it may consult other caches.
func (c *memo[T]) get(key string, compute func() T) T {
	c.mu.Lock()
	if v, ok := c.m[key]; ok {
		c.mu.Unlock()
		return v
	}
	c.mu.Unlock()

	v := compute()

	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.m[key]; ok {
		return existing
	}
	if c.m == nil {
		c.m = make(map[string]T)
	}
	c.m[key] = v
	return v
}

func memoKey(parts ...string) string {
	return strings.Join(parts, "\x1d")
}

// nodesKey is order independent.
func nodesKey(nodes []domain.Node) string {
	names := make([]string, len(nodes))
	for i, n := range nodes {
		names[i] = n.Mnemonic()
	}
	sort.Strings(names)
	return strings.Join(names, "\x1e")
}

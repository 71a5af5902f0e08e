package reports

import (
	"context"
	"fmt"
	"testing"

	"github.com/aretw0/interleave/pkg/adapters/memory"
)

func TestManager_LockLifecycle(t *testing.T) {
	mgr := NewManager(memory.NewLoader(), memory.NewStore())
	ctx := context.Background()

	for i := 0; i < 1000; i++ {
		key := fmt.Sprintf("model-%d", i)
		_ = mgr.WithLock(ctx, key, func(context.Context) error { return nil })
	}

	if n := len(mgr.locks); n != 0 {
		t.Errorf("Memory Leak Detected: %d locks remaining in memory", n)
	}
}

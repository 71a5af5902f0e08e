package ports

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aretw0/interleave"
	"github.com/aretw0/interleave/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contractReport(model string) *interleave.Report {
	return &interleave.Report{
		Model:       model,
		Digest:      "sha256:" + model,
		GeneratedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		States:      6,
		Transitions: 8,
		Processes: []interleave.ProcessSummary{
			{Name: "A", Entry: "idle", Nodes: []string{"idle", "sent"}, Active: []string{"idle", "sent"}},
		},
		Segments: [][]interleave.LocalState{
			{{Process: "A", Node: "sent"}, {Process: "B", Node: "wait"}},
		},
		Invariants: []interleave.InvariantSummary{},
		Groups:     [][]interleave.TransitionRef{},
	}
}

// RunReportStoreContract runs a suite of tests to verify that a ReportStore
// implementation adheres to the defined interface contract.
func RunReportStoreContract(t *testing.T, store ReportStore) {
	ctx := context.Background()
	key := "contract-report-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		report := contractReport("ping-pong")
		require.NoError(t, store.Save(ctx, key, report), "Save should not return error")

		loaded, err := store.Load(ctx, key)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, report.Model, loaded.Model)
		assert.Equal(t, report.States, loaded.States)
		assert.Equal(t, report.Segments, loaded.Segments)
		assert.True(t, report.GeneratedAt.Equal(loaded.GeneratedAt))
	})

	t.Run("Save overwrites", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, key, contractReport("first")))
		require.NoError(t, store.Save(ctx, key, contractReport("second")))

		loaded, err := store.Load(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, "second", loaded.Model)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+key)
		assert.ErrorIs(t, err, domain.ErrReportNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, key, contractReport("ping-pong")))
		require.NoError(t, store.Delete(ctx, key), "Delete should not return error")

		_, err := store.Load(ctx, key)
		assert.ErrorIs(t, err, domain.ErrReportNotFound, "Load after Delete should return ErrReportNotFound")
		assert.NoError(t, store.Delete(ctx, key), "Deleting twice is not an error")
	})

	t.Run("List", func(t *testing.T) {
		id1 := key + "-1"
		id2 := key + "-2"
		require.NoError(t, store.Save(ctx, id1, contractReport("one")))
		require.NoError(t, store.Save(ctx, id2, contractReport("two")))
		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		keys, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, keys, id1)
		assert.Contains(t, keys, id2)
	})
}

// RunLockerContract verifies that a DistributedLocker provides mutual exclusion.
func RunLockerContract(t *testing.T, locker DistributedLocker) {
	ctx := context.Background()
	key := "contract-lock-" + time.Now().Format("20060102150405")

	t.Run("Exclusive", func(t *testing.T) {
		var inside, overlaps atomic.Int32
		var wg sync.WaitGroup
		for i := 0; i < 4; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				unlock, err := locker.Lock(ctx, key, 5*time.Second)
				if !assert.NoError(t, err) {
					return
				}
				if inside.Add(1) > 1 {
					overlaps.Add(1)
				}
				time.Sleep(10 * time.Millisecond)
				inside.Add(-1)
				assert.NoError(t, unlock(ctx))
			}()
		}
		wg.Wait()
		assert.Zero(t, overlaps.Load())
	})

	t.Run("Context cancellation", func(t *testing.T) {
		unlock, err := locker.Lock(ctx, key+"-held", 5*time.Second)
		require.NoError(t, err)
		defer func() { _ = unlock(ctx) }()

		waitCtx, cancel := context.WithTimeout(ctx, 150*time.Millisecond)
		defer cancel()
		_, err = locker.Lock(waitCtx, key+"-held", 5*time.Second)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

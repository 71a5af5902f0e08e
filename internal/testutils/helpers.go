package testutils

import (
	"context"
	"testing"

	"github.com/aretw0/interleave/pkg/process"
	"github.com/stretchr/testify/require"
)

// Explore computes the full state space of set and fails the test on error.
func Explore(t *testing.T, set *process.Set, opts ...process.Option) *process.StateSpace {
	t.Helper()

	space, err := set.StateSpace(context.Background(), opts...)
	require.NoError(t, err, "Failed to explore state space")
	return space
}

// MustProcess looks a process up by name and fails the test if it is missing.
func MustProcess(t *testing.T, set *process.Set, name string) *process.Process {
	t.Helper()

	p, err := set.Process(name)
	require.NoError(t, err)
	return p
}

package interleave

import (
	"context"
	"fmt"

	"github.com/aretw0/interleave/pkg/analysis"
	"github.com/aretw0/interleave/pkg/domain"
	"github.com/aretw0/interleave/pkg/process"
)

// ConcurrentSpaceOf computes, from the graphs alone, the local states every
// other process may occupy while the named process sits at the named node.
// The state space is never explored, so this is cheap on large models.
// Metrics and invariant options are ignored.
func ConcurrentSpaceOf(ctx context.Context, set *process.Set, processName, nodeName string, opts ...Option) (*ConcurrentSpace, error) {
	o := newOptions(opts)
	logger := o.log()

	p, err := set.Process(processName)
	if err != nil {
		return nil, err
	}
	var node domain.Node
	for _, n := range p.Nodes() {
		if n.Mnemonic() == nodeName {
			node = n
			break
		}
	}
	if node == nil {
		return nil, &domain.UnknownNodeError{ID: nodeName}
	}

	analyzer := analysis.NewAnalyzer(set, o.analysisOptions(logger, o.hooks)...)
	concurrent, err := analyzer.ConcurrentSpace(ctx, p, node)
	if err != nil {
		return nil, fmt.Errorf("failed to compute concurrent space of %s at %s: %w", p, nodeName, err)
	}

	var r Report
	r.addConcurrentSpace(set, p, node, concurrent)
	return &r.Spaces[0], nil
}

package validator

import (
	"testing"

	"github.com/aretw0/interleave/internal/testutils"
	"github.com/aretw0/interleave/pkg/domain"
	"github.com/aretw0/interleave/pkg/dsl"
	"github.com/aretw0/interleave/pkg/process"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSet_CleanModels(t *testing.T) {
	assert.Empty(t, ValidateSet(testutils.PingPong(t)))
	assert.False(t, HasErrors(ValidateSet(testutils.NewDriverClient(t, 2).Set)))
}

func TestValidateSet_Issues(t *testing.T) {
	b := dsl.New()
	ping := b.Message("ping")
	ghost := b.Message("ghost")

	b.Add("start").Go("end", b.Action("send", domain.Send(domain.To("Nobody"), ping)))
	b.Add("end").On(ghost, "start", b.Action("noop"))
	b.Add("idle").Loop(b.Action("tick"))
	g, err := b.Build()
	require.NoError(t, err)

	set := process.NewSet()
	_, err = set.AddProcess("P", g.MustNode("start"))
	require.NoError(t, err)

	issues := ValidateSet(set)
	require.True(t, HasErrors(issues))

	details := make(map[string]Severity)
	for _, i := range issues {
		details[i.Detail] = i.Severity
	}
	assert.Equal(t, SeverityError, details["action send sends ping to unknown process Nobody"])
	assert.Equal(t, SeverityWarning, details["trigger ghost is never sent"])
	assert.Equal(t, SeverityWarning, details["message ping is never consumed"])
}

func TestValidateSet_Sink(t *testing.T) {
	b := dsl.New()
	b.Add("start").Go("stuck", b.Action("go"))
	b.Add("stuck")
	g, err := b.Build()
	require.NoError(t, err)

	set := process.NewSet()
	_, err = set.AddProcess("P", g.MustNode("start"))
	require.NoError(t, err)

	issues := ValidateSet(set)
	require.Len(t, issues, 1)
	assert.Equal(t, Issue{
		Severity: SeverityWarning,
		Process:  "P",
		Node:     "stuck",
		Detail:   "node has no outgoing edges",
	}, issues[0])
	assert.Equal(t, "warning: P@stuck: node has no outgoing edges", issues[0].String())
}

/*
Package analysis derives concurrency facts from a set of communicating processes.

Three analyses are provided:

	MutualExclusion  lock scopes inferred from an explored state space
	Concurrency      which transitions of different processes may interleave
	Analyzer         a static over-approximation of concurrent local states,
	                 computed from the graphs and their message synchronizations

Every iterate-to-convergence loop is bounded by WithMaxIterations and checks
its context, returning a domain.NonTerminationError or the context error.
*/
package analysis

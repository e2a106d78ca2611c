// Package strategy implements the scrub methods tried against an input
// document.
//
// Each strategy is one way of producing a candidate output file from an
// input file. They differ in aggressiveness and in what they preserve:
// full reconstruction discards everything but the page graph, the
// structural clear edits the existing graph in place, and the minimal
// rewrite only passes the pages through a fresh writer. Strategies are
// tried in that order; the first candidate that validates clean wins.
//
// Design decision: Strategies do not validate their own output. A
// strategy reports only whether it produced a candidate file; judging
// that candidate is the validator's job, and the orchestrator owns the
// loop between them. Keeping strategies blind to validation means a
// new strategy cannot accidentally weaken the acceptance criteria.
package strategy

// Package testcase holds the test case model shared by every stage of a run:
// the declarative Definition read from YAML, the runtime TestCase with its
// lifecycle state, and the Arena that owns all cases of one run and issues
// their identifiers.
//
// A TestCase moves through the states
//
//	Pending -> Suite | Valid | Invalid
//	Valid   -> Finished
//
// and never goes back. Invalid cases carry exactly one non-empty reason and
// are never executed.
package testcase

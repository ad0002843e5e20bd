// Package reconcile compares what the validator reported with what a test expected.
//
// ParseReport reads the OperationOutcome (or Bundle of OperationOutcomes)
// written by the validator into flat Issues. Reconcile then matches the
// expected codes of each severity bucket against those issues, infers the
// overall status and decides the verdict. Reconcile has no side effects and
// returns the same Record for the same input.
package reconcile

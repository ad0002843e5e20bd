package testcase

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// State is the lifecycle state of a TestCase.
type State int

const (
	StatePending State = iota
	StateSuite
	StateValid
	StateInvalid
	StateFinished
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateSuite:
		return "suite"
	case StateValid:
		return "valid"
	case StateInvalid:
		return "invalid"
	case StateFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// ErrIllegalTransition is returned when a state change would move a case backwards or skip a stage.
var ErrIllegalTransition = errors.New("illegal test case state transition")

// TestCase is one runnable test. It is owned by an Arena.
type TestCase struct {
	ID      int
	Source  string
	Ordinal int
	Parent  int

	Definition   Definition
	Expectations Expectations
	InstancePath string
	Args         []string

	ReportPath string
	Duration   time.Duration

	state  State
	reason string
}

// Name is the human readable identity: the source path, plus "#n" for suite members.
func (tc *TestCase) Name() string {
	if tc.Ordinal > 0 {
		return fmt.Sprintf("%s#%d", tc.Source, tc.Ordinal)
	}
	return tc.Source
}

// State returns the current lifecycle state.
func (tc *TestCase) State() State { return tc.state }

// Reason returns why the case is Invalid, or "".
func (tc *TestCase) Reason() string { return tc.reason }

// ArgString renders the checker arguments as one space-separated string.
func (tc *TestCase) ArgString() string {
	return strings.Join(tc.Args, " ")
}

// MarkSuite records that the case is a container expanded into its members.
func (tc *TestCase) MarkSuite() error {
	return tc.transition(StatePending, StateSuite)
}

// MarkValid records that the definition passed schema validation and its instance was found.
func (tc *TestCase) MarkValid() error {
	return tc.transition(StatePending, StateValid)
}

// MarkInvalid records the single reason the case cannot run.
func (tc *TestCase) MarkInvalid(reason string) error {
	if reason == "" {
		return fmt.Errorf("%w: empty invalidity reason", ErrIllegalTransition)
	}
	if err := tc.transition(StatePending, StateInvalid); err != nil {
		return err
	}
	tc.reason = reason
	return nil
}

// MarkFinished records the checker output of a Valid case.
func (tc *TestCase) MarkFinished(reportPath string, d time.Duration) error {
	if err := tc.transition(StateValid, StateFinished); err != nil {
		return err
	}
	tc.ReportPath = reportPath
	tc.Duration = d
	return nil
}

// Executable reports whether the case reached Valid or Finished, i.e. it was structurally sound.
func (tc *TestCase) Executable() bool {
	return tc.state == StateValid || tc.state == StateFinished
}

func (tc *TestCase) transition(from, to State) error {
	if tc.state != from {
		return fmt.Errorf("%w: %s -> %s for %s", ErrIllegalTransition, tc.state, to, tc.Name())
	}
	tc.state = to
	return nil
}

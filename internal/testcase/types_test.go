package testcase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLifecycle_ValidToFinished(t *testing.T) {
	arena := NewArena()
	tc := arena.New("patient.yaml")

	assert.Equal(t, StatePending, tc.State())
	require.NoError(t, tc.MarkValid())
	require.NoError(t, tc.MarkFinished("out/patient_0.json", 2*time.Second))

	assert.Equal(t, StateFinished, tc.State())
	assert.Equal(t, "out/patient_0.json", tc.ReportPath)
	assert.Equal(t, 2*time.Second, tc.Duration)
	assert.Empty(t, tc.Reason())
	assert.True(t, tc.Executable())
}

func TestLifecycle_InvalidNeverFinishes(t *testing.T) {
	tc := NewArena().New("broken.yaml")

	require.NoError(t, tc.MarkInvalid("instance file not found"))
	assert.Equal(t, "instance file not found", tc.Reason())

	err := tc.MarkFinished("x.json", time.Second)
	assert.ErrorIs(t, err, ErrIllegalTransition)
	assert.Equal(t, StateInvalid, tc.State())
	assert.False(t, tc.Executable())
}

func TestLifecycle_ReasonSetOnce(t *testing.T) {
	tc := NewArena().New("broken.yaml")

	require.NoError(t, tc.MarkInvalid("first"))
	assert.ErrorIs(t, tc.MarkInvalid("second"), ErrIllegalTransition)
	assert.Equal(t, "first", tc.Reason())
}

func TestLifecycle_EmptyReasonRejected(t *testing.T) {
	tc := NewArena().New("broken.yaml")

	assert.ErrorIs(t, tc.MarkInvalid(""), ErrIllegalTransition)
	assert.Equal(t, StatePending, tc.State())
}

func TestLifecycle_NoSkippingValid(t *testing.T) {
	tc := NewArena().New("t.yaml")
	assert.ErrorIs(t, tc.MarkFinished("x", 0), ErrIllegalTransition)

	require.NoError(t, tc.MarkSuite())
	assert.ErrorIs(t, tc.MarkValid(), ErrIllegalTransition)
}

func TestArena_MonotonicIDs(t *testing.T) {
	arena := NewArena()
	suite := arena.New("suite.yaml")
	a := arena.NewMember(suite, 1)
	b := arena.NewMember(suite, 2)

	assert.Equal(t, 1, suite.ID)
	assert.Equal(t, 2, a.ID)
	assert.Equal(t, 3, b.ID)
	assert.Equal(t, suite.ID, a.Parent)
	assert.Equal(t, "suite.yaml#2", b.Name())
	assert.Equal(t, "suite.yaml", suite.Name())
	assert.Equal(t, 3, arena.Len())

	got, ok := arena.Get(3)
	require.True(t, ok)
	assert.Same(t, b, got)
	_, ok = arena.Get(42)
	assert.False(t, ok)
}

func TestArgString(t *testing.T) {
	tc := &TestCase{Args: []string{"-ig", "hl7.fhir.br.core", "-profile", "http://x/p"}}
	assert.Equal(t, "-ig hl7.fhir.br.core -profile http://x/p", tc.ArgString())
	assert.Equal(t, "", (&TestCase{}).ArgString())
}

func TestNewExpectations(t *testing.T) {
	e := NewExpectations(ExpectedResults{
		Status:  " Error ",
		Error:   []string{"Invalid", "", "  structure "},
		Warning: nil,
	})

	assert.Equal(t, "error", e.Status)
	assert.Equal(t, []string{"invalid", "structure"}, e.Codes[SeverityError])
	assert.Empty(t, e.Codes[SeverityWarning])
	assert.Equal(t, 2, e.Count())

	assert.Equal(t, StatusSuccess, NewExpectations(ExpectedResults{}).Status)
}

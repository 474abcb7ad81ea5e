package returns

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHappyPathTransitions(t *testing.T) {
	path := []struct {
		action Action
		want   StatusValue
	}{
		{ActionApprove, StatusApproved},
		{ActionSchedulePickup, StatusPickupScheduled},
		{ActionMarkPickedUp, StatusPickedUp},
		{ActionBeginInspection, StatusInspection},
		{ActionComplete, StatusCompleted},
	}

	current := StatusRequested
	for _, step := range path {
		next, err := Next(current, step.action)
		require.NoError(t, err, "action %s from %s", step.action, current)
		assert.Equal(t, step.want, next)
		current = next
	}
	assert.True(t, current.Terminal())
}

func TestRejectOnlyBeforePickup(t *testing.T) {
	for _, from := range []StatusValue{StatusRequested, StatusApproved} {
		next, err := Next(from, ActionReject)
		require.NoError(t, err)
		assert.Equal(t, StatusRejected, next)
	}

	for _, from := range []StatusValue{StatusPickupScheduled, StatusPickedUp, StatusInspection} {
		_, err := Next(from, ActionReject)
		assert.Error(t, err, "reject must be illegal from %s", from)
	}
}

func TestCancelOnlyWhileRequested(t *testing.T) {
	next, err := Next(StatusRequested, ActionCancel)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, next)

	for _, from := range []StatusValue{StatusApproved, StatusPickupScheduled, StatusPickedUp, StatusInspection} {
		_, err := Next(from, ActionCancel)
		assert.Error(t, err, "cancel must be illegal from %s", from)
	}
}

func TestCannotSkipAhead(t *testing.T) {
	// Completing a freshly requested return must be rejected
	_, err := Next(StatusRequested, ActionComplete)
	assert.Error(t, err)

	_, err = Next(StatusApproved, ActionMarkPickedUp)
	assert.Error(t, err)
}

func TestApprovedRequestCanCompleteWithoutPickup(t *testing.T) {
	next, err := Next(StatusRequested, ActionApprove)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, next)

	next, err = Next(next, ActionComplete)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, next)
}

func TestTerminalStatesHaveNoTransitions(t *testing.T) {
	for _, terminal := range []StatusValue{StatusCompleted, StatusRejected, StatusCancelled} {
		assert.True(t, terminal.Terminal())
		for _, action := range []Action{ActionApprove, ActionReject, ActionCancel, ActionSchedulePickup, ActionMarkPickedUp, ActionBeginInspection, ActionComplete} {
			_, err := Next(terminal, action)
			assert.Error(t, err, "action %s from terminal %s", action, terminal)
		}
	}
}

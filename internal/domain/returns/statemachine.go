// internal/domain/returns/statemachine.go
package returns

import (
	"fmt"
)

// StatusValue is a state of the return/replace workflow
type StatusValue string

const (
	StatusRequested       StatusValue = "requested"
	StatusApproved        StatusValue = "approved"
	StatusPickupScheduled StatusValue = "pickup_scheduled"
	StatusPickedUp        StatusValue = "picked_up"
	StatusInspection      StatusValue = "inspection"
	StatusCompleted       StatusValue = "completed"
	StatusRejected        StatusValue = "rejected"
	StatusCancelled       StatusValue = "cancelled"
)

// Action is a named transition of the workflow
type Action string

const (
	ActionApprove         Action = "approve"
	ActionReject          Action = "reject"
	ActionCancel          Action = "cancel"
	ActionSchedulePickup  Action = "schedule_pickup"
	ActionMarkPickedUp    Action = "mark_picked_up"
	ActionBeginInspection Action = "begin_inspection"
	ActionComplete        Action = "complete"
)

// transitions is the full transition table: fromState x action -> toState.
// Anything not listed is an illegal transition. Rejection is only possible
// before the item is picked up; cancellation only while still requested.
// An approved request may complete directly, skipping logistics, for cases
// settled without a physical pickup; a requested one may not.
var transitions = map[StatusValue]map[Action]StatusValue{
	StatusRequested: {
		ActionApprove: StatusApproved,
		ActionReject:  StatusRejected,
		ActionCancel:  StatusCancelled,
	},
	StatusApproved: {
		ActionSchedulePickup: StatusPickupScheduled,
		ActionReject:         StatusRejected,
		ActionComplete:       StatusCompleted,
	},
	StatusPickupScheduled: {
		ActionMarkPickedUp: StatusPickedUp,
	},
	StatusPickedUp: {
		ActionBeginInspection: StatusInspection,
	},
	StatusInspection: {
		ActionComplete: StatusCompleted,
	},
}

// Next resolves a transition, rejecting anything outside the table
func Next(current StatusValue, action Action) (StatusValue, error) {
	allowed, ok := transitions[current]
	if !ok {
		return "", fmt.Errorf("no transitions from terminal status %q", current)
	}
	next, ok := allowed[action]
	if !ok {
		return "", fmt.Errorf("action %q is not allowed in status %q", action, current)
	}
	return next, nil
}

// Terminal reports whether no further transition is defined for the status
func (s StatusValue) Terminal() bool {
	switch s {
	case StatusCompleted, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

// Valid reports whether the value is a known workflow status
func (s StatusValue) Valid() bool {
	switch s {
	case StatusRequested, StatusApproved, StatusPickupScheduled,
		StatusPickedUp, StatusInspection, StatusCompleted,
		StatusRejected, StatusCancelled:
		return true
	}
	return false
}

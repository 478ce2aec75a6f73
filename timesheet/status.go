package timesheet

import (
	"fmt"
	"time"

	"github.com/warp/timesheet-engine/generic"
)

// StatusRecord is the last-write status metadata of a month. Earlier
// transitions are not kept.
type StatusRecord struct {
	Status    Status
	UpdatedBy string
	UpdatedAt time.Time
	Comment   string
}

// Action is a workflow move on a month's status.
type Action string

const (
	ActionSubmit  Action = "submit"
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
)

// Transition returns the status reached by applying action to from.
//
//	draft/rejected --submit--> pending
//	pending --approve--> approved
//	pending --reject--> rejected
func Transition(from Status, action Action) (Status, error) {
	switch action {
	case ActionSubmit:
		if from == StatusDraft || from == StatusRejected {
			return StatusPending, nil
		}
	case ActionApprove:
		if from == StatusPending {
			return StatusApproved, nil
		}
	case ActionReject:
		if from == StatusPending {
			return StatusRejected, nil
		}
	}
	return from, fmt.Errorf("%w: cannot %s a %s timesheet", generic.ErrInvalidStatusTransition, action, from)
}

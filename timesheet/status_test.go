package timesheet_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/warp/timesheet-engine/generic"
	"github.com/warp/timesheet-engine/timesheet"
)

func TestTransition(t *testing.T) {
	tests := []struct {
		from   timesheet.Status
		action timesheet.Action
		want   timesheet.Status
		ok     bool
	}{
		{timesheet.StatusDraft, timesheet.ActionSubmit, timesheet.StatusPending, true},
		{timesheet.StatusRejected, timesheet.ActionSubmit, timesheet.StatusPending, true},
		{timesheet.StatusPending, timesheet.ActionApprove, timesheet.StatusApproved, true},
		{timesheet.StatusPending, timesheet.ActionReject, timesheet.StatusRejected, true},
		{timesheet.StatusPending, timesheet.ActionSubmit, timesheet.StatusPending, false},
		{timesheet.StatusApproved, timesheet.ActionSubmit, timesheet.StatusApproved, false},
		{timesheet.StatusApproved, timesheet.ActionReject, timesheet.StatusApproved, false},
		{timesheet.StatusDraft, timesheet.ActionApprove, timesheet.StatusDraft, false},
		{timesheet.StatusNA, timesheet.ActionSubmit, timesheet.StatusNA, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"/"+string(tt.action), func(t *testing.T) {
			got, err := timesheet.Transition(tt.from, tt.action)
			assert.Equal(t, tt.want, got)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, generic.ErrInvalidStatusTransition)
			}
		})
	}
}

package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckAppointmentTransition(t *testing.T) {
	tests := []struct {
		from, to Status
		err      error
	}{
		{StatusPending, StatusLate, nil},
		{StatusPending, StatusCompleted, nil},
		{StatusLate, StatusCompleted, nil},
		{StatusLate, StatusPending, nil},
		{StatusCompleted, StatusCompleted, nil},
		{StatusCompleted, StatusLate, ErrTerminalStatus},
		{StatusCompleted, StatusPending, ErrTerminalStatus},
		{StatusPending, StatusSkipped, ErrInvalidStatus},
		{StatusPending, "archived", ErrInvalidStatus},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			err := CheckAppointmentTransition(tt.from, tt.to)
			if tt.err == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestCheckAlertTransition(t *testing.T) {
	assert.NoError(t, CheckAlertTransition(StatusPending, StatusSkipped))
	assert.NoError(t, CheckAlertTransition(StatusSkipped, StatusSkipped))
	assert.ErrorIs(t, CheckAlertTransition(StatusSkipped, StatusPending), ErrTerminalStatus)
	assert.ErrorIs(t, CheckAlertTransition(StatusCompleted, StatusSkipped), ErrTerminalStatus)
	assert.ErrorIs(t, CheckAlertTransition(StatusPending, ""), ErrInvalidStatus)
}

package model

import (
	"errors"
	"fmt"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusLate      Status = "late"
	StatusSkipped   Status = "skipped" // alerts only
)

var (
	ErrInvalidStatus  = errors.New("invalid status")
	ErrTerminalStatus = errors.New("status is terminal")
)

// ValidAppointmentStatus reports whether s is a status an appointment can hold.
func ValidAppointmentStatus(s Status) bool {
	switch s {
	case StatusPending, StatusCompleted, StatusLate:
		return true
	}
	return false
}

// ValidAlertStatus reports whether s is a status an alert can hold.
func ValidAlertStatus(s Status) bool {
	return ValidAppointmentStatus(s) || s == StatusSkipped
}

// Terminal reports whether no user transition may leave s.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusSkipped
}

// CheckTransition applies the user-driven transition policy shared by
// appointments and alerts. Re-applying the current status is allowed.
func CheckTransition(from, to Status) error {
	if from == to {
		return nil
	}
	if from.Terminal() {
		return fmt.Errorf("%w: cannot move from %s to %s", ErrTerminalStatus, from, to)
	}
	return nil
}

// CheckAppointmentTransition validates to and applies CheckTransition.
func CheckAppointmentTransition(from, to Status) error {
	if !ValidAppointmentStatus(to) {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, to)
	}
	return CheckTransition(from, to)
}

// CheckAlertTransition validates to and applies CheckTransition.
func CheckAlertTransition(from, to Status) error {
	if !ValidAlertStatus(to) {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, to)
	}
	return CheckTransition(from, to)
}

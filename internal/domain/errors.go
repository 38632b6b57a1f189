package domain

import "errors"

var (
	ErrEventNotFound        = errors.New("event not found")
	ErrParticipantNotFound  = errors.New("participant not found")
	ErrAttendanceNotFound   = errors.New("attendance not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrAttendeeUnresolvable = errors.New("attendee requires a participant id or a name")
	ErrDuplicateAttendance  = errors.New("attendance already recorded for this event and participant")
	ErrEventNameRequired    = errors.New("event name required")
	ErrNameRequired         = errors.New("participant name required")
	ErrInvalidCategory      = errors.New("invalid event category")
	ErrInvalidDate          = errors.New("invalid date")
	ErrInvalidMonth         = errors.New("invalid month")
	ErrInvalidID            = errors.New("invalid id")
	ErrEmailTaken           = errors.New("email already in use")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrCredentialsRequired  = errors.New("email and password are required")
)

package domain

import "time"

// Attendance records one participant's presence status for one event. At most
// one row exists per (EventID, ParticipantID); duplicate inserts are dropped,
// never overwritten (first write wins).
type Attendance struct {
	ID            string
	EventID       string
	ParticipantID string
	Present       bool
	CreatedAt     time.Time
}

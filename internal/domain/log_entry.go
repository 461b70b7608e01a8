package domain

import "time"

// LogEntry is an immutable audit record. Exactly one entry is written per
// accepted transition, in the same transaction as the state change. Status
// holds the state the complaint (or its escalation track) transitioned into.
type LogEntry struct {
	ID            string
	ComplaintID   string
	Status        ComplaintStatus
	Comment       *string
	ChangedByName string
	TimeStamp     time.Time
}

package domain

import "time"

// Team is a group of workers that owns complaints. Ownership changes only
// through forwarding.
type Team struct {
	ID        string
	Name      string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

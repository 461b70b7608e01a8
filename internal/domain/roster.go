package domain

// WorkerStatus is the roster feed's availability flag.
type WorkerStatus string

const (
	WorkerStatusAvailable WorkerStatus = "available"
	WorkerStatusBusy      WorkerStatus = "busy"
)

// WorkerRosterEntry is a read-only view of one worker supplied by the
// external roster feed. The engine only reads it to rank candidates.
type WorkerRosterEntry struct {
	WorkerID   string       `json:"worker_id"`
	WorkerName string       `json:"worker_name"`
	TeamID     string       `json:"team_id"`
	Status     WorkerStatus `json:"status"`
	Near       bool         `json:"near"`
	QueueCount int          `json:"queue_count"`
}

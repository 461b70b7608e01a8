package dto

import (
	"time"

	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/ranking"
)

// AssignWorkersRequest is the manager's initial assignment payload.
type AssignWorkersRequest struct {
	WorkerIDs []string `json:"worker_ids" validate:"required,min=1,dive,required"`
}

// AddWorkerRequest attaches one more worker.
type AddWorkerRequest struct {
	WorkerID string `json:"worker_id" validate:"required"`
}

// AssignmentResponse is one worker-complaint link.
type AssignmentResponse struct {
	ID         string                  `json:"id"`
	WorkerID   string                  `json:"worker_id"`
	WorkerName string                  `json:"worker_name"`
	Status     domain.AssignmentStatus `json:"status"`
	CreatedAt  time.Time               `json:"created_at"`
	UpdatedAt  time.Time               `json:"updated_at"`
}

// RankedWorkerResponse is one classified roster row.
type RankedWorkerResponse struct {
	WorkerID   string              `json:"worker_id"`
	WorkerName string              `json:"worker_name"`
	Status     domain.WorkerStatus `json:"status"`
	Near       bool                `json:"near"`
	QueueCount int                 `json:"queue_count"`
	Class      ranking.Class       `json:"class"`
}

// RankedRosterResponse is the assignment picker view.
type RankedRosterResponse struct {
	Workers    []RankedWorkerResponse `json:"workers"`
	Selectable []RankedWorkerResponse `json:"selectable"`
}

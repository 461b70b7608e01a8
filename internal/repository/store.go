package repository

import (
	"context"
	"errors"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// ErrVersionConflict is returned when an optimistic update loses the race:
// the stored version no longer matches the one the caller read.
var ErrVersionConflict = errors.New("complaint version conflict")

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// ComplaintFilter captures listing parameters.
type ComplaintFilter struct {
	EmployeeID *string
	TeamID     *string
	Statuses   []domain.ComplaintStatus
	Limit      int
	Offset     int
}

// ComplaintRepository encapsulates complaint persistence.
type ComplaintRepository interface {
	Create(ctx context.Context, complaint *domain.Complaint) error
	GetByID(ctx context.Context, id string) (*domain.Complaint, error)
	ListWithFilter(ctx context.Context, filter ComplaintFilter) ([]domain.Complaint, error)
	// Update commits only when the stored version equals complaint.Version
	// (compare-and-swap); on success the version is bumped in place.
	// Returns ErrVersionConflict when a concurrent writer got there first.
	Update(ctx context.Context, complaint *domain.Complaint) error
	// Delete removes a complaint with the same version guard as Update.
	Delete(ctx context.Context, id string, version int64) error
}

// AssignmentRepository owns the complaint-worker relation. Rows are never
// physically deleted.
type AssignmentRepository interface {
	// Create inserts unless a row for (complaint, worker) already exists.
	// The bool reports whether a new row was inserted, making concurrent
	// adds of the same worker idempotent.
	Create(ctx context.Context, assignment *domain.Assignment) (bool, error)
	GetByComplaintAndWorker(ctx context.Context, complaintID, workerID string) (*domain.Assignment, error)
	ListByComplaint(ctx context.Context, complaintID string) ([]domain.Assignment, error)
	UpdateStatus(ctx context.Context, id string, status domain.AssignmentStatus) error
}

// LogRepository stores the append-only audit trail.
type LogRepository interface {
	Create(ctx context.Context, entry *domain.LogEntry) error
	ListByComplaint(ctx context.Context, complaintID string) ([]domain.LogEntry, error)
}

// TeamRepository reads the team registry.
type TeamRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Team, error)
	ListActive(ctx context.Context) ([]domain.Team, error)
}

// CategoryRepository validates the three-level classification hierarchy.
type CategoryRepository interface {
	// ValidatePath checks that the issue option belongs to the sub-category
	// and the sub-category to the category. Returns ErrNotFound when any
	// link in the chain is missing or inactive.
	ValidatePath(ctx context.Context, class domain.Classification) error
}

// Store bundles the engine's repositories behind one transactional boundary.
// WithinTx runs fn against repositories bound to a single transaction; the
// state mutation and its log row commit together or not at all.
type Store interface {
	Complaints() ComplaintRepository
	Assignments() AssignmentRepository
	Logs() LogRepository
	Teams() TeamRepository
	Categories() CategoryRepository
	WithinTx(ctx context.Context, fn func(Store) error) error
}

package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/events"
	"github.com/spec-kit/complaint-service/internal/observability"
	"github.com/spec-kit/complaint-service/internal/ranking"
	"github.com/spec-kit/complaint-service/internal/repository"
	apperrors "github.com/spec-kit/complaint-service/pkg/util"
)

// AssignmentService attaches workers to complaints. Worker eligibility is
// judged against the live roster of the complaint's current team; the
// per-worker assignment status follows the ranking class at attach time.
type AssignmentService struct {
	store      repository.Store
	roster     repository.RosterProvider
	dispatcher events.Dispatcher
	logger     *zap.Logger
	metrics    *observability.Metrics
}

// AssignmentDependencies bundles collaborators.
type AssignmentDependencies struct {
	Store      repository.Store
	Roster     repository.RosterProvider
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
	Metrics    *observability.Metrics
}

// NewAssignmentService constructs the service.
func NewAssignmentService(deps AssignmentDependencies) *AssignmentService {
	return &AssignmentService{
		store:      deps.Store,
		roster:     deps.Roster,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
		metrics:    deps.Metrics,
	}
}

// AssignInitial commits the first batch of workers to a waiting complaint
// and moves it to assigned. Available workers attach active, recommended
// ones attach queued.
func (s *AssignmentService) AssignInitial(ctx context.Context, actor events.Actor, complaintID string, workerIDs []string) (*domain.Complaint, []domain.Assignment, error) {
	if len(workerIDs) == 0 {
		return nil, nil, apperrors.NewValidationError("at least one worker is required", nil)
	}

	var complaint *domain.Complaint
	var created []domain.Assignment

	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		var err error
		complaint, err = s.fetchComplaint(ctx, tx, complaintID)
		if err != nil {
			return err
		}
		if !domain.CanApply(domain.EventAssignWorkers, complaint.Status) {
			return apperrors.NewInvalidTransition(string(domain.EventAssignWorkers), string(complaint.Status))
		}

		roster, err := s.teamRoster(ctx, complaint.TeamID)
		if err != nil {
			return err
		}
		existing, err := tx.Assignments().ListByComplaint(ctx, complaintID)
		if err != nil {
			return apperrors.MapError(err)
		}
		assignedSet := assignedWorkerSet(existing)

		for _, workerID := range workerIDs {
			entry, ok := roster[workerID]
			if !ok {
				return apperrors.NewInvalidWorker(workerID, complaint.TeamID)
			}
			if assignedSet[workerID] {
				return apperrors.NewAlreadyAssigned(complaintID, workerID)
			}
			class := ranking.Classify(entry, false)
			if class == ranking.ClassUnavailable {
				return apperrors.NewConflict("worker is busy and not near the site", map[string]any{
					"worker_id": workerID,
				})
			}
			assignment := &domain.Assignment{
				ComplaintID: complaintID,
				WorkerID:    workerID,
				WorkerName:  entry.WorkerName,
				Status:      ranking.AssignmentStatusFor(class),
			}
			inserted, err := tx.Assignments().Create(ctx, assignment)
			if err != nil {
				return apperrors.MapError(err)
			}
			if !inserted {
				return apperrors.NewAlreadyAssigned(complaintID, workerID)
			}
			assignedSet[workerID] = true
			created = append(created, *assignment)
		}

		next, _ := domain.NextStatus(complaint.Status, domain.EventAssignWorkers)
		complaint.Status = next
		if err := s.commitComplaint(ctx, tx, complaint); err != nil {
			return err
		}

		comment := "Assigned to " + joinWorkerNames(created)
		return s.appendLog(ctx, tx, complaintID, complaint.Status, &comment, actor.Name)
	})
	if err != nil {
		return nil, nil, err
	}

	s.recordAssignment("initial")
	if s.metrics != nil {
		s.metrics.RecordTransition(string(domain.EventAssignWorkers), string(complaint.Status))
	}
	s.publishAssigned(ctx, actor, complaint, workerIDs)
	return complaint, created, nil
}

// AddWorker attaches one more worker to an already-assigned complaint. A
// worker who is already on the complaint is a successful no-op.
func (s *AssignmentService) AddWorker(ctx context.Context, actor events.Actor, complaintID, workerID string) (*domain.Assignment, error) {
	var complaint *domain.Complaint
	var assignment *domain.Assignment
	var inserted bool

	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		var err error
		complaint, err = s.fetchComplaint(ctx, tx, complaintID)
		if err != nil {
			return err
		}
		if !domain.CanAddWorker(complaint.Status) {
			return apperrors.NewInvalidTransition(string(domain.EventAddWorker), string(complaint.Status))
		}

		roster, err := s.teamRoster(ctx, complaint.TeamID)
		if err != nil {
			return err
		}
		entry, ok := roster[workerID]
		if !ok {
			return apperrors.NewInvalidWorker(workerID, complaint.TeamID)
		}

		existing, err := tx.Assignments().GetByComplaintAndWorker(ctx, complaintID, workerID)
		if err == nil {
			assignment = existing
			return nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return apperrors.MapError(err)
		}

		class := ranking.Classify(entry, false)
		if class == ranking.ClassUnavailable {
			return apperrors.NewConflict("worker is busy and not near the site", map[string]any{
				"worker_id": workerID,
			})
		}
		candidate := &domain.Assignment{
			ComplaintID: complaintID,
			WorkerID:    workerID,
			WorkerName:  entry.WorkerName,
			Status:      ranking.AssignmentStatusFor(class),
		}
		inserted, err = tx.Assignments().Create(ctx, candidate)
		if err != nil {
			return apperrors.MapError(err)
		}
		if !inserted {
			// Raced with a concurrent add of the same worker; treat as the
			// no-op path and read back the winning row.
			assignment, err = tx.Assignments().GetByComplaintAndWorker(ctx, complaintID, workerID)
			if err != nil {
				return apperrors.MapError(err)
			}
			return nil
		}
		assignment = candidate
		if err := s.commitComplaint(ctx, tx, complaint); err != nil {
			return err
		}
		comment := "Added worker " + candidate.WorkerName
		return s.appendLog(ctx, tx, complaintID, complaint.Status, &comment, actor.Name)
	})
	if err != nil {
		return nil, err
	}

	if inserted {
		s.recordAssignment("add")
		s.publishAssigned(ctx, actor, complaint, []string{workerID})
	}
	return assignment, nil
}

// ListAssignments returns the assignment rows of a complaint.
func (s *AssignmentService) ListAssignments(ctx context.Context, complaintID string) ([]domain.Assignment, error) {
	if _, err := s.store.Complaints().GetByID(ctx, complaintID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("complaint", map[string]any{"complaint_id": complaintID})
		}
		return nil, apperrors.MapError(err)
	}
	assignments, err := s.store.Assignments().ListByComplaint(ctx, complaintID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return assignments, nil
}

// RankedRoster classifies every worker on the complaint's team roster for
// the manager's assignment picker.
func (s *AssignmentService) RankedRoster(ctx context.Context, complaintID string) (ranking.Result, error) {
	complaint, err := s.store.Complaints().GetByID(ctx, complaintID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ranking.Result{}, apperrors.NewNotFound("complaint", map[string]any{"complaint_id": complaintID})
		}
		return ranking.Result{}, apperrors.MapError(err)
	}
	assignments, err := s.store.Assignments().ListByComplaint(ctx, complaintID)
	if err != nil {
		return ranking.Result{}, apperrors.MapError(err)
	}
	roster, err := s.roster.ListByTeam(ctx, complaint.TeamID)
	if err != nil {
		return ranking.Result{}, apperrors.MapError(err)
	}
	return ranking.RankWorkers(roster, assignedWorkerSet(assignments)), nil
}

func (s *AssignmentService) fetchComplaint(ctx context.Context, tx repository.Store, complaintID string) (*domain.Complaint, error) {
	complaint, err := tx.Complaints().GetByID(ctx, complaintID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("complaint", map[string]any{"complaint_id": complaintID})
		}
		return nil, apperrors.MapError(err)
	}
	return complaint, nil
}

func (s *AssignmentService) commitComplaint(ctx context.Context, tx repository.Store, complaint *domain.Complaint) error {
	if err := tx.Complaints().Update(ctx, complaint); err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			return apperrors.NewConcurrencyConflict(complaint.ID)
		}
		return apperrors.MapError(err)
	}
	return nil
}

func (s *AssignmentService) appendLog(ctx context.Context, tx repository.Store, complaintID string, status domain.ComplaintStatus, comment *string, actorName string) error {
	entry := &domain.LogEntry{
		ComplaintID:   complaintID,
		Status:        status,
		Comment:       comment,
		ChangedByName: actorName,
	}
	if err := tx.Logs().Create(ctx, entry); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

func (s *AssignmentService) teamRoster(ctx context.Context, teamID string) (map[string]domain.WorkerRosterEntry, error) {
	entries, err := s.roster.ListByTeam(ctx, teamID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	roster := make(map[string]domain.WorkerRosterEntry, len(entries))
	for _, entry := range entries {
		if entry.TeamID == teamID {
			roster[entry.WorkerID] = entry
		}
	}
	return roster, nil
}

func (s *AssignmentService) recordAssignment(kind string) {
	if s.metrics != nil {
		s.metrics.RecordAssignment(kind)
	}
}

func (s *AssignmentService) publishAssigned(ctx context.Context, actor events.Actor, complaint *domain.Complaint, workerIDs []string) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:          uuid.NewString(),
		Type:        events.EventComplaintAssigned,
		ComplaintID: complaint.ID,
		Actor:       actor,
		Timestamp:   time.Now(),
		Payload: events.ComplaintAssignedPayload{
			WorkerIDs: workerIDs,
			Status:    complaint.Status,
		},
	})
}

func assignedWorkerSet(assignments []domain.Assignment) map[string]bool {
	set := make(map[string]bool, len(assignments))
	for _, assignment := range assignments {
		set[assignment.WorkerID] = true
	}
	return set
}

func joinWorkerNames(assignments []domain.Assignment) string {
	names := make([]string, 0, len(assignments))
	for _, assignment := range assignments {
		names = append(names, assignment.WorkerName)
	}
	return strings.Join(names, ", ")
}

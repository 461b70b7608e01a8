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
	"github.com/spec-kit/complaint-service/internal/repository"
	apperrors "github.com/spec-kit/complaint-service/pkg/util"
)

// LifecycleService owns the complaint status field and its legal
// transitions. Every mutating operation runs read-validate-write inside one
// transaction so the status change and its log row commit together.
type LifecycleService struct {
	store      repository.Store
	dispatcher events.Dispatcher
	logger     *zap.Logger
	metrics    *observability.Metrics
}

// LifecycleDependencies bundles collaborators.
type LifecycleDependencies struct {
	Store      repository.Store
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
	Metrics    *observability.Metrics
}

// NewLifecycleService constructs the service.
func NewLifecycleService(deps LifecycleDependencies) *LifecycleService {
	return &LifecycleService{
		store:      deps.Store,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
		metrics:    deps.Metrics,
	}
}

// CreateComplaintInput describes a new complaint.
type CreateComplaintInput struct {
	Title                string
	CustomDescription    string
	Device               string
	Classification       domain.Classification
	Priority             domain.ComplaintPriority
	SubmissionPreference domain.SubmissionPreference
	TeamID               string
}

// CreateComplaint registers a complaint in waiting_assignment.
func (s *LifecycleService) CreateComplaint(ctx context.Context, actor events.Actor, input CreateComplaintInput) (*domain.Complaint, error) {
	complaint := &domain.Complaint{
		Title:                strings.TrimSpace(input.Title),
		CustomDescription:    strings.TrimSpace(input.CustomDescription),
		Device:               strings.TrimSpace(input.Device),
		CategoryID:           input.Classification.CategoryID,
		SubCategoryID:        input.Classification.SubCategoryID,
		IssueOptionID:        input.Classification.IssueOptionID,
		Priority:             input.Priority,
		Status:               domain.ComplaintStatusWaitingAssignment,
		SubmissionPreference: input.SubmissionPreference,
		EmployeeID:           actor.UserID,
		TeamID:               input.TeamID,
	}
	if complaint.Priority == "" {
		complaint.Priority = domain.ComplaintPriorityMedium
	}

	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		if err := tx.Categories().ValidatePath(ctx, input.Classification); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return apperrors.NewValidationError("invalid classification path", map[string]any{
					"category_id":     input.Classification.CategoryID,
					"sub_category_id": input.Classification.SubCategoryID,
					"issue_option_id": input.Classification.IssueOptionID,
				})
			}
			return apperrors.MapError(err)
		}
		team, err := tx.Teams().GetByID(ctx, input.TeamID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return apperrors.NewNotFound("team", map[string]any{"team_id": input.TeamID})
			}
			return apperrors.MapError(err)
		}
		if !team.IsActive {
			return apperrors.NewConflict("team inactive", map[string]any{"team_id": team.ID})
		}
		if err := tx.Complaints().Create(ctx, complaint); err != nil {
			return apperrors.MapError(err)
		}
		return s.appendLog(ctx, tx, complaint.ID, complaint.Status, nil, actor.Name)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:        events.EventComplaintCreated,
		ComplaintID: complaint.ID,
		Actor:       actor,
		Payload: events.ComplaintCreatedPayload{
			TeamID:   complaint.TeamID,
			Priority: complaint.Priority,
			Title:    complaint.Title,
		},
	})
	return complaint, nil
}

// GetComplaint returns a complaint with its assignments and timeline.
func (s *LifecycleService) GetComplaint(ctx context.Context, id string) (*domain.Complaint, []domain.Assignment, []domain.LogEntry, error) {
	complaint, err := s.store.Complaints().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, nil, apperrors.NewNotFound("complaint", map[string]any{"complaint_id": id})
		}
		return nil, nil, nil, apperrors.MapError(err)
	}
	assignments, err := s.store.Assignments().ListByComplaint(ctx, id)
	if err != nil {
		return nil, nil, nil, apperrors.MapError(err)
	}
	logs, err := s.store.Logs().ListByComplaint(ctx, id)
	if err != nil {
		return nil, nil, nil, apperrors.MapError(err)
	}
	return complaint, assignments, logs, nil
}

// ListComplaints returns complaints matching the filter.
func (s *LifecycleService) ListComplaints(ctx context.Context, filter repository.ComplaintFilter) ([]domain.Complaint, error) {
	complaints, err := s.store.Complaints().ListWithFilter(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return complaints, nil
}

// StartWork moves an assigned complaint into in_progress when one of its
// workers picks it up. The worker's own assignment row becomes active.
func (s *LifecycleService) StartWork(ctx context.Context, actor events.Actor, complaintID string) (*domain.Complaint, error) {
	var complaint *domain.Complaint
	var oldStatus domain.ComplaintStatus

	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		var err error
		complaint, err = s.fetch(ctx, tx, complaintID)
		if err != nil {
			return err
		}
		assignment, err := tx.Assignments().GetByComplaintAndWorker(ctx, complaintID, actor.UserID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return apperrors.NewForbidden("worker is not assigned to this complaint")
			}
			return apperrors.MapError(err)
		}

		oldStatus = complaint.Status
		next, ok := domain.NextStatus(complaint.Status, domain.EventStartWork)
		if !ok {
			return apperrors.NewInvalidTransition(string(domain.EventStartWork), string(complaint.Status))
		}
		complaint.Status = next
		if err := s.commit(ctx, tx, complaint); err != nil {
			return err
		}
		if assignment.Status != domain.AssignmentStatusActive {
			if err := tx.Assignments().UpdateStatus(ctx, assignment.ID, domain.AssignmentStatusActive); err != nil {
				return apperrors.MapError(err)
			}
		}
		return s.appendLog(ctx, tx, complaint.ID, complaint.Status, nil, actor.Name)
	})
	if err != nil {
		return nil, err
	}

	s.recordTransition(domain.EventStartWork, complaint.Status)
	s.publishStatusEvent(ctx, actor, complaint.ID, oldStatus, complaint.Status, "")
	return complaint, nil
}

// ResolveWork marks the calling worker's portion resolved. When the last
// open assignment resolves, the complaint itself transitions to resolved in
// the same transaction.
func (s *LifecycleService) ResolveWork(ctx context.Context, actor events.Actor, complaintID string) (*domain.Complaint, error) {
	var complaint *domain.Complaint
	var oldStatus domain.ComplaintStatus
	var resolvedComplaint bool

	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		var err error
		complaint, err = s.fetch(ctx, tx, complaintID)
		if err != nil {
			return err
		}
		if !domain.CanApply(domain.EventMarkResolved, complaint.Status) {
			return apperrors.NewInvalidTransition(string(domain.EventMarkResolved), string(complaint.Status))
		}
		assignment, err := tx.Assignments().GetByComplaintAndWorker(ctx, complaintID, actor.UserID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return apperrors.NewForbidden("worker is not assigned to this complaint")
			}
			return apperrors.MapError(err)
		}
		if assignment.Status != domain.AssignmentStatusResolved {
			if err := tx.Assignments().UpdateStatus(ctx, assignment.ID, domain.AssignmentStatusResolved); err != nil {
				return apperrors.MapError(err)
			}
		}

		remaining, err := tx.Assignments().ListByComplaint(ctx, complaintID)
		if err != nil {
			return apperrors.MapError(err)
		}
		open := 0
		for _, a := range remaining {
			if a.WorkerID == actor.UserID {
				continue
			}
			if a.Status != domain.AssignmentStatusResolved {
				open++
			}
		}

		oldStatus = complaint.Status
		if open == 0 {
			next, _ := domain.NextStatus(complaint.Status, domain.EventMarkResolved)
			complaint.Status = next
			resolvedComplaint = true
		}
		if err := s.commit(ctx, tx, complaint); err != nil {
			return err
		}
		comment := actor.Name + " resolved their portion"
		return s.appendLog(ctx, tx, complaint.ID, complaint.Status, &comment, actor.Name)
	})
	if err != nil {
		return nil, err
	}

	if resolvedComplaint {
		s.recordTransition(domain.EventMarkResolved, complaint.Status)
		s.publishStatusEvent(ctx, actor, complaint.ID, oldStatus, complaint.Status, "")
	}
	return complaint, nil
}

// CloseWithFeedback settles a resolved complaint: a satisfied employee
// closes it, an unsatisfied one reopens it.
func (s *LifecycleService) CloseWithFeedback(ctx context.Context, actor events.Actor, complaintID string, satisfied bool, comment string) (*domain.Complaint, error) {
	if !satisfied {
		return s.Reopen(ctx, actor, complaintID, comment)
	}

	var complaint *domain.Complaint
	var oldStatus domain.ComplaintStatus

	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		var err error
		complaint, err = s.fetch(ctx, tx, complaintID)
		if err != nil {
			return err
		}
		oldStatus = complaint.Status
		next, ok := domain.NextStatus(complaint.Status, domain.EventCloseWithFeedback)
		if !ok {
			return apperrors.NewInvalidTransition(string(domain.EventCloseWithFeedback), string(complaint.Status))
		}
		complaint.Status = next
		if err := s.commit(ctx, tx, complaint); err != nil {
			return err
		}
		return s.appendLog(ctx, tx, complaint.ID, complaint.Status, optionalComment(comment), actor.Name)
	})
	if err != nil {
		return nil, err
	}

	s.recordTransition(domain.EventCloseWithFeedback, complaint.Status)
	s.publishStatusEvent(ctx, actor, complaint.ID, oldStatus, complaint.Status, comment)
	return complaint, nil
}

// Reopen returns a resolved complaint to in_progress, or a closed one to
// the worker queue. Escalation level is preserved: urgency history stays
// informative across reopens.
func (s *LifecycleService) Reopen(ctx context.Context, actor events.Actor, complaintID string, comment string) (*domain.Complaint, error) {
	var complaint *domain.Complaint
	var oldStatus domain.ComplaintStatus

	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		var err error
		complaint, err = s.fetch(ctx, tx, complaintID)
		if err != nil {
			return err
		}
		oldStatus = complaint.Status
		next, ok := domain.NextStatus(complaint.Status, domain.EventReopen)
		if !ok {
			return apperrors.NewInvalidTransition(string(domain.EventReopen), string(complaint.Status))
		}
		complaint.Status = next
		if err := s.commit(ctx, tx, complaint); err != nil {
			return err
		}

		// Workers who had settled their portion get it back: active when
		// work continues immediately, queued when the complaint re-enters
		// the queue after closure.
		revertTo := domain.AssignmentStatusActive
		if next == domain.ComplaintStatusInQueue {
			revertTo = domain.AssignmentStatusInQueue
		}
		assignments, err := tx.Assignments().ListByComplaint(ctx, complaintID)
		if err != nil {
			return apperrors.MapError(err)
		}
		for _, assignment := range assignments {
			if assignment.Status == domain.AssignmentStatusResolved {
				if err := tx.Assignments().UpdateStatus(ctx, assignment.ID, revertTo); err != nil {
					return apperrors.MapError(err)
				}
			}
		}
		return s.appendLog(ctx, tx, complaint.ID, complaint.Status, optionalComment(comment), actor.Name)
	})
	if err != nil {
		return nil, err
	}

	s.recordTransition(domain.EventReopen, complaint.Status)
	s.publishStatusEvent(ctx, actor, complaint.ID, oldStatus, complaint.Status, comment)
	return complaint, nil
}

// Escalate bumps the urgency track one level. The primary status is
// untouched so an escalated complaint can still be assigned and worked;
// the log records the escalation state entered.
func (s *LifecycleService) Escalate(ctx context.Context, actor events.Actor, complaintID string) (*domain.Complaint, error) {
	var complaint *domain.Complaint

	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		var err error
		complaint, err = s.fetch(ctx, tx, complaintID)
		if err != nil {
			return err
		}
		if !domain.CanEscalate(complaint) {
			return apperrors.NewInvalidTransition(string(domain.EventEscalate), string(complaint.Status))
		}
		complaint.EscalationLevel++
		if err := s.commit(ctx, tx, complaint); err != nil {
			return err
		}
		return s.appendLog(ctx, tx, complaint.ID, complaint.EscalationStatus(), nil, actor.Name)
	})
	if err != nil {
		return nil, err
	}

	s.recordTransition(domain.EventEscalate, complaint.EscalationStatus())
	s.publishEvent(ctx, events.Event{
		Type:        events.EventComplaintEscalated,
		ComplaintID: complaint.ID,
		Actor:       actor,
		Payload: events.ComplaintEscalatedPayload{
			Level:           complaint.EscalationLevel,
			EscalationState: complaint.EscalationStatus(),
		},
	})
	return complaint, nil
}

// DeleteComplaint removes an unassigned complaint. Once any worker has been
// committed the record must persist for audit.
func (s *LifecycleService) DeleteComplaint(ctx context.Context, actor events.Actor, complaintID string) error {
	var teamID string

	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		complaint, err := s.fetch(ctx, tx, complaintID)
		if err != nil {
			return err
		}
		if complaint.EmployeeID != actor.UserID {
			return apperrors.NewForbidden("only the reporting employee may delete a complaint")
		}
		if !domain.CanApply(domain.EventDelete, complaint.Status) {
			return apperrors.NewInvalidTransition(string(domain.EventDelete), string(complaint.Status))
		}
		assignments, err := tx.Assignments().ListByComplaint(ctx, complaintID)
		if err != nil {
			return apperrors.MapError(err)
		}
		if len(assignments) > 0 {
			return apperrors.NewInvalidTransition(string(domain.EventDelete), string(complaint.Status))
		}
		teamID = complaint.TeamID
		if err := tx.Complaints().Delete(ctx, complaintID, complaint.Version); err != nil {
			if errors.Is(err, repository.ErrVersionConflict) {
				return apperrors.NewConcurrencyConflict(complaintID)
			}
			return apperrors.MapError(err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.recordTransition(domain.EventDelete, "")
	s.publishEvent(ctx, events.Event{
		Type:        events.EventComplaintDeleted,
		ComplaintID: complaintID,
		Actor:       actor,
		Payload:     events.ComplaintDeletedPayload{TeamID: teamID},
	})
	return nil
}

func (s *LifecycleService) fetch(ctx context.Context, tx repository.Store, complaintID string) (*domain.Complaint, error) {
	complaint, err := tx.Complaints().GetByID(ctx, complaintID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("complaint", map[string]any{"complaint_id": complaintID})
		}
		return nil, apperrors.MapError(err)
	}
	return complaint, nil
}

func (s *LifecycleService) commit(ctx context.Context, tx repository.Store, complaint *domain.Complaint) error {
	if err := tx.Complaints().Update(ctx, complaint); err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			return apperrors.NewConcurrencyConflict(complaint.ID)
		}
		return apperrors.MapError(err)
	}
	return nil
}

func (s *LifecycleService) appendLog(ctx context.Context, tx repository.Store, complaintID string, status domain.ComplaintStatus, comment *string, actorName string) error {
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

func (s *LifecycleService) recordTransition(event domain.LifecycleEvent, status domain.ComplaintStatus) {
	if s.metrics != nil {
		s.metrics.RecordTransition(string(event), string(status))
	}
}

func (s *LifecycleService) publishStatusEvent(ctx context.Context, actor events.Actor, complaintID string, oldStatus, newStatus domain.ComplaintStatus, comment string) {
	s.publishEvent(ctx, events.Event{
		Type:        events.EventComplaintStatus,
		ComplaintID: complaintID,
		Actor:       actor,
		Payload: events.ComplaintStatusPayload{
			OldStatus: oldStatus,
			NewStatus: newStatus,
			Comment:   comment,
		},
	})
}

func (s *LifecycleService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func optionalComment(comment string) *string {
	trimmed := strings.TrimSpace(comment)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

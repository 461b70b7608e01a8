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

// ForwardingService reroutes unassigned complaints between teams. Forwarding
// and assignment are mutually exclusive: once any worker is committed the
// complaint stays with its team.
type ForwardingService struct {
	store      repository.Store
	dispatcher events.Dispatcher
	logger     *zap.Logger
	metrics    *observability.Metrics
}

// ForwardingDependencies bundles collaborators.
type ForwardingDependencies struct {
	Store      repository.Store
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
	Metrics    *observability.Metrics
}

// NewForwardingService constructs the service.
func NewForwardingService(deps ForwardingDependencies) *ForwardingService {
	return &ForwardingService{
		store:      deps.Store,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
		metrics:    deps.Metrics,
	}
}

// Forward moves a waiting complaint to another team. The comment is
// mandatory: the receiving team needs to know why the complaint landed on
// their queue. Status is unchanged; the move is visible in the timeline.
func (s *ForwardingService) Forward(ctx context.Context, actor events.Actor, complaintID, targetTeamID, comment string) (*domain.Complaint, error) {
	trimmed := strings.TrimSpace(comment)
	if trimmed == "" {
		return nil, apperrors.NewValidationError("forward comment is required", nil)
	}

	var complaint *domain.Complaint
	var fromTeamID string

	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		var err error
		complaint, err = tx.Complaints().GetByID(ctx, complaintID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return apperrors.NewNotFound("complaint", map[string]any{"complaint_id": complaintID})
			}
			return apperrors.MapError(err)
		}
		if !domain.CanApply(domain.EventForward, complaint.Status) {
			return apperrors.NewInvalidTransition(string(domain.EventForward), string(complaint.Status))
		}
		assignments, err := tx.Assignments().ListByComplaint(ctx, complaintID)
		if err != nil {
			return apperrors.MapError(err)
		}
		if len(assignments) > 0 {
			return apperrors.NewInvalidTransition(string(domain.EventForward), string(complaint.Status))
		}
		if targetTeamID == complaint.TeamID {
			return apperrors.NewNoOpForward(targetTeamID)
		}
		team, err := tx.Teams().GetByID(ctx, targetTeamID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return apperrors.NewNotFound("team", map[string]any{"team_id": targetTeamID})
			}
			return apperrors.MapError(err)
		}
		if !team.IsActive {
			return apperrors.NewConflict("target team inactive", map[string]any{"team_id": team.ID})
		}

		fromTeamID = complaint.TeamID
		complaint.TeamID = targetTeamID
		if err := tx.Complaints().Update(ctx, complaint); err != nil {
			if errors.Is(err, repository.ErrVersionConflict) {
				return apperrors.NewConcurrencyConflict(complaintID)
			}
			return apperrors.MapError(err)
		}

		entry := &domain.LogEntry{
			ComplaintID:   complaintID,
			Status:        complaint.Status,
			Comment:       &trimmed,
			ChangedByName: actor.Name,
		}
		if err := tx.Logs().Create(ctx, entry); err != nil {
			return apperrors.MapError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordTransition(string(domain.EventForward), string(complaint.Status))
	}
	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:          uuid.NewString(),
			Type:        events.EventComplaintForwarded,
			ComplaintID: complaintID,
			Actor:       actor,
			Timestamp:   time.Now(),
			Payload: events.ComplaintForwardedPayload{
				FromTeamID: fromTeamID,
				ToTeamID:   targetTeamID,
				Comment:    trimmed,
			},
		})
	}
	return complaint, nil
}

// ForwardTargets lists the active teams a complaint could be forwarded to,
// excluding its current team.
func (s *ForwardingService) ForwardTargets(ctx context.Context, complaintID string) ([]domain.Team, error) {
	complaint, err := s.store.Complaints().GetByID(ctx, complaintID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("complaint", map[string]any{"complaint_id": complaintID})
		}
		return nil, apperrors.MapError(err)
	}
	teams, err := s.store.Teams().ListActive(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	targets := make([]domain.Team, 0, len(teams))
	for _, team := range teams {
		if team.ID != complaint.TeamID {
			targets = append(targets, team)
		}
	}
	return targets, nil
}

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// Drives one complaint through its whole life: misrouted at creation,
// forwarded, escalated while waiting, assigned to two workers, worked,
// resolved, bounced by employee feedback, resolved again, and closed.
func TestComplaintEndToEndJourney(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	complaint, err := f.lifecycle.CreateComplaint(ctx, employeeActor, CreateComplaintInput{
		Title:             "Access badge rejected at the server room",
		CustomDescription: "Badge reader flashes red since this morning",
		Classification: domain.Classification{
			CategoryID:    "cat-1",
			SubCategoryID: "sub-1",
			IssueOptionID: "opt-1",
		},
		Priority:             domain.ComplaintPriorityUrgent,
		SubmissionPreference: domain.SubmissionPreferenceOnSite,
		TeamID:               testTeamB,
	})
	require.NoError(t, err)
	require.Equal(t, domain.ComplaintStatusWaitingAssignment, complaint.Status)

	// Wrong team; networking sends it to facilities with a reason.
	complaint, err = f.forwarding.Forward(ctx, managerActor, complaint.ID, testTeamA, "badge hardware, not network")
	require.NoError(t, err)
	require.Equal(t, testTeamA, complaint.TeamID)

	// Still waiting, the team manager escalates once.
	complaint, err = f.lifecycle.Escalate(ctx, managerActor, complaint.ID)
	require.NoError(t, err)
	require.Equal(t, 1, complaint.EscalationLevel)
	require.Equal(t, domain.ComplaintStatusWaitingAssignment, complaint.Status)

	// Manager picks from the ranked roster and commits two workers.
	ranked, err := f.assignments.RankedRoster(ctx, complaint.ID)
	require.NoError(t, err)
	require.NotEmpty(t, ranked.Selectable)
	require.Equal(t, "w-alpha", ranked.Selectable[0].WorkerID)

	complaint, _, err = f.assignments.AssignInitial(ctx, managerActor, complaint.ID, []string{"w-alpha", "w-bravo"})
	require.NoError(t, err)
	require.Equal(t, domain.ComplaintStatusAssigned, complaint.Status)

	complaint, err = f.lifecycle.StartWork(ctx, workerAlpha, complaint.ID)
	require.NoError(t, err)
	require.Equal(t, domain.ComplaintStatusInProgress, complaint.Status)

	// Forwarding the complaint is off the table once workers are committed.
	_, err = f.forwarding.Forward(ctx, managerActor, complaint.ID, testTeamB, "second thoughts")
	require.Error(t, err)

	complaint, err = f.lifecycle.ResolveWork(ctx, workerAlpha, complaint.ID)
	require.NoError(t, err)
	require.Equal(t, domain.ComplaintStatusInProgress, complaint.Status)

	complaint, err = f.lifecycle.ResolveWork(ctx, workerBravo, complaint.ID)
	require.NoError(t, err)
	require.Equal(t, domain.ComplaintStatusResolved, complaint.Status)

	// Employee is not satisfied; work resumes with the same crew.
	complaint, err = f.lifecycle.CloseWithFeedback(ctx, employeeActor, complaint.ID, false, "reader still red")
	require.NoError(t, err)
	require.Equal(t, domain.ComplaintStatusInProgress, complaint.Status)
	require.Equal(t, 1, complaint.EscalationLevel)

	complaint, err = f.lifecycle.ResolveWork(ctx, workerAlpha, complaint.ID)
	require.NoError(t, err)
	complaint, err = f.lifecycle.ResolveWork(ctx, workerBravo, complaint.ID)
	require.NoError(t, err)
	require.Equal(t, domain.ComplaintStatusResolved, complaint.Status)

	complaint, err = f.lifecycle.CloseWithFeedback(ctx, employeeActor, complaint.ID, true, "works now, thanks")
	require.NoError(t, err)
	require.Equal(t, domain.ComplaintStatusClosed, complaint.Status)

	// The timeline kept one row per accepted action, oldest first.
	logs, err := f.store.Logs().ListByComplaint(ctx, complaint.ID)
	require.NoError(t, err)
	statuses := make([]domain.ComplaintStatus, 0, len(logs))
	for _, entry := range logs {
		statuses = append(statuses, entry.Status)
	}
	assert.Equal(t, []domain.ComplaintStatus{
		domain.ComplaintStatusWaitingAssignment, // created
		domain.ComplaintStatusWaitingAssignment, // forwarded
		domain.ComplaintStatusEscalatedLevel1,
		domain.ComplaintStatusAssigned,
		domain.ComplaintStatusInProgress, // startWork
		domain.ComplaintStatusInProgress, // alpha resolved their portion
		domain.ComplaintStatusResolved,   // bravo resolved, complaint resolved
		domain.ComplaintStatusInProgress, // reopened by feedback
		domain.ComplaintStatusInProgress, // alpha resolved again
		domain.ComplaintStatusResolved,
		domain.ComplaintStatusClosed,
	}, statuses)

	// Audit survives closure.
	err = f.lifecycle.DeleteComplaint(ctx, employeeActor, complaint.ID)
	require.Error(t, err)
}

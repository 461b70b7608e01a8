package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/repository"
	apperrors "github.com/spec-kit/complaint-service/pkg/util"
)

func TestCreateComplaintStartsWaiting(t *testing.T) {
	f := newFixture(t)

	complaint := f.createComplaint(t)

	assert.Equal(t, domain.ComplaintStatusWaitingAssignment, complaint.Status)
	assert.Equal(t, 0, complaint.EscalationLevel)
	assert.Equal(t, int64(1), complaint.Version)
	assert.Equal(t, employeeActor.UserID, complaint.EmployeeID)
	assert.Equal(t, domain.ComplaintPriorityHigh, complaint.Priority)

	logs, err := f.store.Logs().ListByComplaint(context.Background(), complaint.ID)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, domain.ComplaintStatusWaitingAssignment, logs[0].Status)
	assert.Equal(t, employeeActor.Name, logs[0].ChangedByName)
}

func TestCreateComplaintRejectsUnknownClassification(t *testing.T) {
	f := newFixture(t)

	_, err := f.lifecycle.CreateComplaint(context.Background(), employeeActor, CreateComplaintInput{
		Title: "Broken chair",
		Classification: domain.Classification{
			CategoryID:    "cat-1",
			SubCategoryID: "sub-1",
			IssueOptionID: "opt-unknown",
		},
		TeamID: testTeamA,
	})
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, "VALIDATION_FAILED"))

	complaints, listErr := f.store.Complaints().ListWithFilter(context.Background(), repository.ComplaintFilter{})
	require.NoError(t, listErr)
	assert.Empty(t, complaints)
}

func TestCreateComplaintRejectsUnknownTeam(t *testing.T) {
	f := newFixture(t)

	_, err := f.lifecycle.CreateComplaint(context.Background(), employeeActor, CreateComplaintInput{
		Title: "Flickering lights",
		Classification: domain.Classification{
			CategoryID:    "cat-1",
			SubCategoryID: "sub-1",
			IssueOptionID: "opt-1",
		},
		TeamID: "team-missing",
	})
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, "NOT_FOUND"))
}

func TestStartWorkRequiresAssignment(t *testing.T) {
	f := newFixture(t)
	complaint := f.createComplaint(t)

	_, _, err := f.assignments.AssignInitial(context.Background(), managerActor, complaint.ID, []string{workerAlpha.UserID})
	require.NoError(t, err)

	_, err = f.lifecycle.StartWork(context.Background(), workerBravo, complaint.ID)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, "FORBIDDEN"))
}

func TestStartWorkMovesToInProgress(t *testing.T) {
	f := newFixture(t)
	complaint := f.createComplaint(t)

	_, _, err := f.assignments.AssignInitial(context.Background(), managerActor, complaint.ID, []string{workerAlpha.UserID})
	require.NoError(t, err)

	updated, err := f.lifecycle.StartWork(context.Background(), workerAlpha, complaint.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ComplaintStatusInProgress, updated.Status)
	assert.Equal(t, domain.AssignmentStatusActive, f.assignmentByWorker(t, complaint.ID, workerAlpha.UserID).Status)

	// create + assign + start
	assert.Equal(t, 3, f.logCount(t, complaint.ID))
}

func TestStartWorkRejectedTwice(t *testing.T) {
	f := newFixture(t)
	complaint := f.createComplaint(t)

	_, _, err := f.assignments.AssignInitial(context.Background(), managerActor, complaint.ID, []string{workerAlpha.UserID})
	require.NoError(t, err)
	_, err = f.lifecycle.StartWork(context.Background(), workerAlpha, complaint.ID)
	require.NoError(t, err)

	_, err = f.lifecycle.StartWork(context.Background(), workerAlpha, complaint.ID)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidTransition))
}

func TestResolveWorkWaitsForLastWorker(t *testing.T) {
	f := newFixture(t)
	complaint := f.createComplaint(t)

	_, _, err := f.assignments.AssignInitial(context.Background(), managerActor, complaint.ID, []string{workerAlpha.UserID, workerBravo.UserID})
	require.NoError(t, err)
	_, err = f.lifecycle.StartWork(context.Background(), workerAlpha, complaint.ID)
	require.NoError(t, err)

	partial, err := f.lifecycle.ResolveWork(context.Background(), workerAlpha, complaint.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ComplaintStatusInProgress, partial.Status)
	assert.Equal(t, domain.AssignmentStatusResolved, f.assignmentByWorker(t, complaint.ID, workerAlpha.UserID).Status)

	final, err := f.lifecycle.ResolveWork(context.Background(), workerBravo, complaint.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ComplaintStatusResolved, final.Status)
	assert.Equal(t, domain.AssignmentStatusResolved, f.assignmentByWorker(t, complaint.ID, workerBravo.UserID).Status)
}

func TestResolveWorkRejectedBeforeStart(t *testing.T) {
	f := newFixture(t)
	complaint := f.createComplaint(t)

	_, _, err := f.assignments.AssignInitial(context.Background(), managerActor, complaint.ID, []string{workerAlpha.UserID})
	require.NoError(t, err)

	_, err = f.lifecycle.ResolveWork(context.Background(), workerAlpha, complaint.ID)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidTransition))
}

func TestCloseWithFeedbackSatisfied(t *testing.T) {
	f := newFixture(t)
	complaint := resolveComplaint(t, f)

	closed, err := f.lifecycle.CloseWithFeedback(context.Background(), employeeActor, complaint.ID, true, "all good")
	require.NoError(t, err)
	assert.Equal(t, domain.ComplaintStatusClosed, closed.Status)

	logs, err := f.store.Logs().ListByComplaint(context.Background(), complaint.ID)
	require.NoError(t, err)
	last := logs[len(logs)-1]
	assert.Equal(t, domain.ComplaintStatusClosed, last.Status)
	require.NotNil(t, last.Comment)
	assert.Equal(t, "all good", *last.Comment)
}

func TestCloseWithFeedbackUnsatisfiedReopens(t *testing.T) {
	f := newFixture(t)
	complaint := resolveComplaint(t, f)

	reopened, err := f.lifecycle.CloseWithFeedback(context.Background(), employeeActor, complaint.ID, false, "still broken")
	require.NoError(t, err)
	assert.Equal(t, domain.ComplaintStatusInProgress, reopened.Status)
	assert.Equal(t, domain.AssignmentStatusActive, f.assignmentByWorker(t, complaint.ID, workerAlpha.UserID).Status)
}

func TestReopenClosedEntersQueue(t *testing.T) {
	f := newFixture(t)
	complaint := resolveComplaint(t, f)

	_, err := f.lifecycle.CloseWithFeedback(context.Background(), employeeActor, complaint.ID, true, "thanks")
	require.NoError(t, err)

	reopened, err := f.lifecycle.Reopen(context.Background(), employeeActor, complaint.ID, "came back this morning")
	require.NoError(t, err)
	assert.Equal(t, domain.ComplaintStatusInQueue, reopened.Status)
	assert.Equal(t, domain.AssignmentStatusInQueue, f.assignmentByWorker(t, complaint.ID, workerAlpha.UserID).Status)

	// A queued complaint can be picked up again.
	restarted, err := f.lifecycle.StartWork(context.Background(), workerAlpha, complaint.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ComplaintStatusInProgress, restarted.Status)
}

func TestReopenRejectedWhileInProgress(t *testing.T) {
	f := newFixture(t)
	complaint := f.createComplaint(t)

	_, _, err := f.assignments.AssignInitial(context.Background(), managerActor, complaint.ID, []string{workerAlpha.UserID})
	require.NoError(t, err)
	_, err = f.lifecycle.StartWork(context.Background(), workerAlpha, complaint.ID)
	require.NoError(t, err)

	_, err = f.lifecycle.Reopen(context.Background(), employeeActor, complaint.ID, "nope")
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidTransition))
}

func TestEscalateLeavesPrimaryStatusAlone(t *testing.T) {
	f := newFixture(t)
	complaint := f.createComplaint(t)

	escalated, err := f.lifecycle.Escalate(context.Background(), managerActor, complaint.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, escalated.EscalationLevel)
	assert.Equal(t, domain.ComplaintStatusWaitingAssignment, escalated.Status)

	// Escalation never blocks assignment.
	assigned, _, err := f.assignments.AssignInitial(context.Background(), managerActor, complaint.ID, []string{workerAlpha.UserID})
	require.NoError(t, err)
	assert.Equal(t, domain.ComplaintStatusAssigned, assigned.Status)
	assert.Equal(t, 1, assigned.EscalationLevel)
}

func TestEscalateCapsAtLevelTwo(t *testing.T) {
	f := newFixture(t)
	complaint := f.createComplaint(t)

	_, err := f.lifecycle.Escalate(context.Background(), managerActor, complaint.ID)
	require.NoError(t, err)
	second, err := f.lifecycle.Escalate(context.Background(), managerActor, complaint.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, second.EscalationLevel)

	_, err = f.lifecycle.Escalate(context.Background(), managerActor, complaint.ID)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidTransition))

	logs, err := f.store.Logs().ListByComplaint(context.Background(), complaint.ID)
	require.NoError(t, err)
	statuses := make([]domain.ComplaintStatus, 0, len(logs))
	for _, entry := range logs {
		statuses = append(statuses, entry.Status)
	}
	assert.Contains(t, statuses, domain.ComplaintStatusEscalatedLevel1)
	assert.Contains(t, statuses, domain.ComplaintStatusEscalatedLevel2)
}

func TestEscalateRejectedOnceResolved(t *testing.T) {
	f := newFixture(t)
	complaint := resolveComplaint(t, f)

	_, err := f.lifecycle.Escalate(context.Background(), managerActor, complaint.ID)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidTransition))
}

func TestEscalationLevelSurvivesReopen(t *testing.T) {
	f := newFixture(t)
	complaint := f.createComplaint(t)

	_, err := f.lifecycle.Escalate(context.Background(), managerActor, complaint.ID)
	require.NoError(t, err)
	_, _, err = f.assignments.AssignInitial(context.Background(), managerActor, complaint.ID, []string{workerAlpha.UserID})
	require.NoError(t, err)
	_, err = f.lifecycle.StartWork(context.Background(), workerAlpha, complaint.ID)
	require.NoError(t, err)
	_, err = f.lifecycle.ResolveWork(context.Background(), workerAlpha, complaint.ID)
	require.NoError(t, err)

	reopened, err := f.lifecycle.Reopen(context.Background(), employeeActor, complaint.ID, "again")
	require.NoError(t, err)
	assert.Equal(t, 1, reopened.EscalationLevel)
}

func TestDeleteOnlyBeforeAssignment(t *testing.T) {
	f := newFixture(t)
	complaint := f.createComplaint(t)

	require.NoError(t, f.lifecycle.DeleteComplaint(context.Background(), employeeActor, complaint.ID))

	_, err := f.store.Complaints().GetByID(context.Background(), complaint.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDeleteRejectedAfterAssignment(t *testing.T) {
	f := newFixture(t)
	complaint := f.createComplaint(t)

	_, _, err := f.assignments.AssignInitial(context.Background(), managerActor, complaint.ID, []string{workerAlpha.UserID})
	require.NoError(t, err)

	err = f.lifecycle.DeleteComplaint(context.Background(), employeeActor, complaint.ID)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidTransition))

	_, getErr := f.store.Complaints().GetByID(context.Background(), complaint.ID)
	assert.NoError(t, getErr)
}

func TestDeleteRequiresReportingEmployee(t *testing.T) {
	f := newFixture(t)
	complaint := f.createComplaint(t)

	err := f.lifecycle.DeleteComplaint(context.Background(), workerAlpha, complaint.ID)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, "FORBIDDEN"))
}

func TestGetComplaintReturnsTimeline(t *testing.T) {
	f := newFixture(t)
	complaint := f.createComplaint(t)

	_, _, err := f.assignments.AssignInitial(context.Background(), managerActor, complaint.ID, []string{workerAlpha.UserID})
	require.NoError(t, err)

	fetched, assignments, logs, err := f.lifecycle.GetComplaint(context.Background(), complaint.ID)
	require.NoError(t, err)
	assert.Equal(t, complaint.ID, fetched.ID)
	assert.Len(t, assignments, 1)
	assert.Len(t, logs, 2)
}

// resolveComplaint drives a fresh complaint through assign, start, resolve.
func resolveComplaint(t *testing.T, f *fixture) *domain.Complaint {
	t.Helper()

	complaint := f.createComplaint(t)
	_, _, err := f.assignments.AssignInitial(context.Background(), managerActor, complaint.ID, []string{workerAlpha.UserID})
	require.NoError(t, err)
	_, err = f.lifecycle.StartWork(context.Background(), workerAlpha, complaint.ID)
	require.NoError(t, err)
	resolved, err := f.lifecycle.ResolveWork(context.Background(), workerAlpha, complaint.ID)
	require.NoError(t, err)
	require.Equal(t, domain.ComplaintStatusResolved, resolved.Status)
	return resolved
}

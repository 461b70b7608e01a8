package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/complaint-service/internal/domain"
)

func seedComplaint(t *testing.T, store *MemoryStore) *domain.Complaint {
	t.Helper()

	complaint := &domain.Complaint{
		Title:      "Printer jams on duplex",
		Status:     domain.ComplaintStatusWaitingAssignment,
		Priority:   domain.ComplaintPriorityMedium,
		EmployeeID: "emp-1",
		TeamID:     "team-a",
	}
	require.NoError(t, store.Complaints().Create(context.Background(), complaint))
	return complaint
}

func TestComplaintUpdateBumpsVersion(t *testing.T) {
	store := NewMemoryStore()
	complaint := seedComplaint(t, store)
	require.Equal(t, int64(1), complaint.Version)

	complaint.Status = domain.ComplaintStatusAssigned
	require.NoError(t, store.Complaints().Update(context.Background(), complaint))
	assert.Equal(t, int64(2), complaint.Version)

	stored, err := store.Complaints().GetByID(context.Background(), complaint.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ComplaintStatusAssigned, stored.Status)
	assert.Equal(t, int64(2), stored.Version)
}

func TestComplaintUpdateRejectsStaleVersion(t *testing.T) {
	store := NewMemoryStore()
	complaint := seedComplaint(t, store)

	stale := *complaint
	complaint.Status = domain.ComplaintStatusAssigned
	require.NoError(t, store.Complaints().Update(context.Background(), complaint))

	stale.TeamID = "team-b"
	err := store.Complaints().Update(context.Background(), &stale)
	assert.ErrorIs(t, err, ErrVersionConflict)

	// The losing write left no trace.
	stored, getErr := store.Complaints().GetByID(context.Background(), complaint.ID)
	require.NoError(t, getErr)
	assert.Equal(t, "team-a", stored.TeamID)
}

func TestComplaintDeleteRejectsStaleVersion(t *testing.T) {
	store := NewMemoryStore()
	complaint := seedComplaint(t, store)

	complaint.Status = domain.ComplaintStatusAssigned
	require.NoError(t, store.Complaints().Update(context.Background(), complaint))

	err := store.Complaints().Delete(context.Background(), complaint.ID, 1)
	assert.ErrorIs(t, err, ErrVersionConflict)

	require.NoError(t, store.Complaints().Delete(context.Background(), complaint.ID, complaint.Version))
	_, getErr := store.Complaints().GetByID(context.Background(), complaint.ID)
	assert.ErrorIs(t, getErr, ErrNotFound)
}

func TestAssignmentCreateIsIdempotent(t *testing.T) {
	store := NewMemoryStore()
	complaint := seedComplaint(t, store)

	first := &domain.Assignment{ComplaintID: complaint.ID, WorkerID: "w-1", WorkerName: "Alex", Status: domain.AssignmentStatusActive}
	inserted, err := store.Assignments().Create(context.Background(), first)
	require.NoError(t, err)
	assert.True(t, inserted)

	duplicate := &domain.Assignment{ComplaintID: complaint.ID, WorkerID: "w-1", WorkerName: "Alex", Status: domain.AssignmentStatusActive}
	inserted, err = store.Assignments().Create(context.Background(), duplicate)
	require.NoError(t, err)
	assert.False(t, inserted)

	rows, err := store.Assignments().ListByComplaint(context.Background(), complaint.ID)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestWithinTxRollsBackOnError(t *testing.T) {
	store := NewMemoryStore()
	complaint := seedComplaint(t, store)
	sentinel := errors.New("boom")

	err := store.WithinTx(context.Background(), func(tx Store) error {
		complaint.Status = domain.ComplaintStatusAssigned
		if err := tx.Complaints().Update(context.Background(), complaint); err != nil {
			return err
		}
		if err := tx.Logs().Create(context.Background(), &domain.LogEntry{
			ComplaintID:   complaint.ID,
			Status:        domain.ComplaintStatusAssigned,
			ChangedByName: "Morgan",
		}); err != nil {
			return err
		}
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)

	stored, getErr := store.Complaints().GetByID(context.Background(), complaint.ID)
	require.NoError(t, getErr)
	assert.Equal(t, domain.ComplaintStatusWaitingAssignment, stored.Status)
	assert.Equal(t, int64(1), stored.Version)

	logs, logErr := store.Logs().ListByComplaint(context.Background(), complaint.ID)
	require.NoError(t, logErr)
	assert.Empty(t, logs)
}

func TestWithinTxCommitsStateAndLogTogether(t *testing.T) {
	store := NewMemoryStore()
	complaint := seedComplaint(t, store)

	err := store.WithinTx(context.Background(), func(tx Store) error {
		complaint.Status = domain.ComplaintStatusAssigned
		if err := tx.Complaints().Update(context.Background(), complaint); err != nil {
			return err
		}
		return tx.Logs().Create(context.Background(), &domain.LogEntry{
			ComplaintID:   complaint.ID,
			Status:        domain.ComplaintStatusAssigned,
			ChangedByName: "Morgan",
		})
	})
	require.NoError(t, err)

	stored, getErr := store.Complaints().GetByID(context.Background(), complaint.ID)
	require.NoError(t, getErr)
	assert.Equal(t, domain.ComplaintStatusAssigned, stored.Status)

	logs, logErr := store.Logs().ListByComplaint(context.Background(), complaint.ID)
	require.NoError(t, logErr)
	require.Len(t, logs, 1)
	assert.Equal(t, domain.ComplaintStatusAssigned, logs[0].Status)
}

func TestListWithFilter(t *testing.T) {
	store := NewMemoryStore()
	first := seedComplaint(t, store)
	second := &domain.Complaint{
		Title:      "VPN drops hourly",
		Status:     domain.ComplaintStatusWaitingAssignment,
		Priority:   domain.ComplaintPriorityHigh,
		EmployeeID: "emp-2",
		TeamID:     "team-b",
	}
	require.NoError(t, store.Complaints().Create(context.Background(), second))

	teamA := "team-a"
	byTeam, err := store.Complaints().ListWithFilter(context.Background(), ComplaintFilter{TeamID: &teamA})
	require.NoError(t, err)
	require.Len(t, byTeam, 1)
	assert.Equal(t, first.ID, byTeam[0].ID)

	emp2 := "emp-2"
	byEmployee, err := store.Complaints().ListWithFilter(context.Background(), ComplaintFilter{EmployeeID: &emp2})
	require.NoError(t, err)
	require.Len(t, byEmployee, 1)
	assert.Equal(t, second.ID, byEmployee[0].ID)

	byStatus, err := store.Complaints().ListWithFilter(context.Background(), ComplaintFilter{
		Statuses: []domain.ComplaintStatus{domain.ComplaintStatusAssigned},
	})
	require.NoError(t, err)
	assert.Empty(t, byStatus)
}

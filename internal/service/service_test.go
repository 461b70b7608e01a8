package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/events"
	"github.com/spec-kit/complaint-service/internal/repository"
)

const (
	testTeamA = "team-a"
	testTeamB = "team-b"
)

var (
	employeeActor = events.Actor{UserID: "emp-1", Name: "Dana Employee", Role: domain.RoleEmployee}
	managerActor  = events.Actor{UserID: "mgr-1", Name: "Morgan Manager", Role: domain.RoleManager}
	workerAlpha   = events.Actor{UserID: "w-alpha", Name: "Alex Alpha", Role: domain.RoleWorker}
	workerBravo   = events.Actor{UserID: "w-bravo", Name: "Blake Bravo", Role: domain.RoleWorker}
)

type fixture struct {
	store       *repository.MemoryStore
	roster      *repository.StaticRosterProvider
	lifecycle   *LifecycleService
	assignments *AssignmentService
	forwarding  *ForwardingService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := repository.NewMemoryStore()
	store.SeedTeam(domain.Team{ID: testTeamA, Name: "Facilities", IsActive: true})
	store.SeedTeam(domain.Team{ID: testTeamB, Name: "Networking", IsActive: true})
	store.SeedTeam(domain.Team{ID: "team-retired", Name: "Legacy", IsActive: false})
	store.SeedCategoryPath(domain.Classification{
		CategoryID:    "cat-1",
		SubCategoryID: "sub-1",
		IssueOptionID: "opt-1",
	})

	roster := &repository.StaticRosterProvider{
		Entries: map[string][]domain.WorkerRosterEntry{
			testTeamA: {
				{WorkerID: "w-alpha", WorkerName: "Alex Alpha", TeamID: testTeamA, Status: domain.WorkerStatusAvailable, Near: true, QueueCount: 0},
				{WorkerID: "w-bravo", WorkerName: "Blake Bravo", TeamID: testTeamA, Status: domain.WorkerStatusBusy, Near: true, QueueCount: 2},
				{WorkerID: "w-charlie", WorkerName: "Casey Charlie", TeamID: testTeamA, Status: domain.WorkerStatusBusy, Near: false, QueueCount: 1},
				{WorkerID: "w-delta", WorkerName: "Drew Delta", TeamID: testTeamA, Status: domain.WorkerStatusAvailable, Near: false, QueueCount: 0},
			},
			testTeamB: {
				{WorkerID: "w-echo", WorkerName: "Emery Echo", TeamID: testTeamB, Status: domain.WorkerStatusAvailable, Near: true, QueueCount: 0},
			},
		},
	}

	logger := zap.NewNop()
	dispatcher := events.NewInMemoryDispatcher()

	return &fixture{
		store:  store,
		roster: roster,
		lifecycle: NewLifecycleService(LifecycleDependencies{
			Store:      store,
			Dispatcher: dispatcher,
			Logger:     logger,
		}),
		assignments: NewAssignmentService(AssignmentDependencies{
			Store:      store,
			Roster:     roster,
			Dispatcher: dispatcher,
			Logger:     logger,
		}),
		forwarding: NewForwardingService(ForwardingDependencies{
			Store:      store,
			Dispatcher: dispatcher,
			Logger:     logger,
		}),
	}
}

func (f *fixture) createComplaint(t *testing.T) *domain.Complaint {
	t.Helper()

	complaint, err := f.lifecycle.CreateComplaint(context.Background(), employeeActor, CreateComplaintInput{
		Title:             "Projector keeps rebooting",
		CustomDescription: "Reboots mid-meeting every ten minutes",
		Device:            "projector-12",
		Classification: domain.Classification{
			CategoryID:    "cat-1",
			SubCategoryID: "sub-1",
			IssueOptionID: "opt-1",
		},
		Priority:             domain.ComplaintPriorityHigh,
		SubmissionPreference: domain.SubmissionPreferenceOnSite,
		TeamID:               testTeamA,
	})
	require.NoError(t, err)
	return complaint
}

func (f *fixture) logCount(t *testing.T, complaintID string) int {
	t.Helper()

	logs, err := f.store.Logs().ListByComplaint(context.Background(), complaintID)
	require.NoError(t, err)
	return len(logs)
}

func (f *fixture) assignmentByWorker(t *testing.T, complaintID, workerID string) domain.Assignment {
	t.Helper()

	assignment, err := f.store.Assignments().GetByComplaintAndWorker(context.Background(), complaintID, workerID)
	require.NoError(t, err)
	return *assignment
}

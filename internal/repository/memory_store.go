package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// MemoryStore is a mutex-guarded Store used by tests and as the fallback
// when no Postgres DSN is configured. It honors the same contracts as the
// Postgres store: version compare-and-swap on complaints, idempotent
// assignment insert, and all-or-nothing WithinTx.
type MemoryStore struct {
	mu   sync.Mutex
	data *memoryData
	inTx bool
}

type memoryData struct {
	complaints  map[string]*domain.Complaint
	assignments map[string]*domain.Assignment
	logs        []domain.LogEntry
	teams       map[string]*domain.Team
	paths       map[string]domain.Classification
}

// NewMemoryStore builds an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: &memoryData{
		complaints:  map[string]*domain.Complaint{},
		assignments: map[string]*domain.Assignment{},
		teams:       map[string]*domain.Team{},
		paths:       map[string]domain.Classification{},
	}}
}

// SeedTeam registers a team.
func (s *MemoryStore) SeedTeam(team domain.Team) {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := team
	s.data.teams[team.ID] = &copied
}

// SeedCategoryPath registers a valid classification chain.
func (s *MemoryStore) SeedCategoryPath(class domain.Classification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.paths[class.IssueOptionID] = class
}

func (s *MemoryStore) Complaints() ComplaintRepository   { return &memComplaintRepo{store: s} }
func (s *MemoryStore) Assignments() AssignmentRepository { return &memAssignmentRepo{store: s} }
func (s *MemoryStore) Logs() LogRepository               { return &memLogRepo{store: s} }
func (s *MemoryStore) Teams() TeamRepository             { return &memTeamRepo{store: s} }
func (s *MemoryStore) Categories() CategoryRepository    { return &memCategoryRepo{store: s} }

// WithinTx serializes against all other access and restores the previous
// state when fn fails, so partial effects never leak.
func (s *MemoryStore) WithinTx(_ context.Context, fn func(Store) error) error {
	if s.inTx {
		return fn(s)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.data.clone()
	txStore := &MemoryStore{data: s.data, inTx: true}
	if err := fn(txStore); err != nil {
		*s.data = *snapshot
		return err
	}
	return nil
}

func (s *MemoryStore) run(fn func(*memoryData) error) error {
	if s.inTx {
		return fn(s.data)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.data)
}

func (d *memoryData) clone() *memoryData {
	out := &memoryData{
		complaints:  make(map[string]*domain.Complaint, len(d.complaints)),
		assignments: make(map[string]*domain.Assignment, len(d.assignments)),
		logs:        append([]domain.LogEntry{}, d.logs...),
		teams:       make(map[string]*domain.Team, len(d.teams)),
		paths:       make(map[string]domain.Classification, len(d.paths)),
	}
	for id, c := range d.complaints {
		copied := *c
		out.complaints[id] = &copied
	}
	for id, a := range d.assignments {
		copied := *a
		out.assignments[id] = &copied
	}
	for id, t := range d.teams {
		copied := *t
		out.teams[id] = &copied
	}
	for id, p := range d.paths {
		out.paths[id] = p
	}
	return out
}

type memComplaintRepo struct {
	store *MemoryStore
}

func (r *memComplaintRepo) Create(_ context.Context, complaint *domain.Complaint) error {
	return r.store.run(func(d *memoryData) error {
		now := time.Now()
		complaint.ID = uuid.NewString()
		complaint.Version = 1
		complaint.CreatedAt = now
		complaint.UpdatedAt = now
		copied := *complaint
		d.complaints[complaint.ID] = &copied
		return nil
	})
}

func (r *memComplaintRepo) GetByID(_ context.Context, id string) (*domain.Complaint, error) {
	var result *domain.Complaint
	err := r.store.run(func(d *memoryData) error {
		stored, ok := d.complaints[id]
		if !ok {
			return ErrNotFound
		}
		copied := *stored
		result = &copied
		return nil
	})
	return result, err
}

func (r *memComplaintRepo) ListWithFilter(_ context.Context, filter ComplaintFilter) ([]domain.Complaint, error) {
	var result []domain.Complaint
	err := r.store.run(func(d *memoryData) error {
		for _, stored := range d.complaints {
			if filter.EmployeeID != nil && stored.EmployeeID != *filter.EmployeeID {
				continue
			}
			if filter.TeamID != nil && stored.TeamID != *filter.TeamID {
				continue
			}
			if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, stored.Status) {
				continue
			}
			result = append(result, *stored)
		}
		sort.Slice(result, func(i, j int) bool {
			return result[i].UpdatedAt.After(result[j].UpdatedAt)
		})
		return nil
	})
	return result, err
}

func (r *memComplaintRepo) Update(_ context.Context, complaint *domain.Complaint) error {
	return r.store.run(func(d *memoryData) error {
		stored, ok := d.complaints[complaint.ID]
		if !ok || stored.Version != complaint.Version {
			return ErrVersionConflict
		}
		complaint.Version++
		complaint.UpdatedAt = time.Now()
		copied := *complaint
		d.complaints[complaint.ID] = &copied
		return nil
	})
}

func (r *memComplaintRepo) Delete(_ context.Context, id string, version int64) error {
	return r.store.run(func(d *memoryData) error {
		stored, ok := d.complaints[id]
		if !ok || stored.Version != version {
			return ErrVersionConflict
		}
		delete(d.complaints, id)
		return nil
	})
}

type memAssignmentRepo struct {
	store *MemoryStore
}

func (r *memAssignmentRepo) Create(_ context.Context, assignment *domain.Assignment) (bool, error) {
	inserted := false
	err := r.store.run(func(d *memoryData) error {
		for _, existing := range d.assignments {
			if existing.ComplaintID == assignment.ComplaintID && existing.WorkerID == assignment.WorkerID {
				return nil
			}
		}
		now := time.Now()
		assignment.ID = uuid.NewString()
		assignment.CreatedAt = now
		assignment.UpdatedAt = now
		copied := *assignment
		d.assignments[assignment.ID] = &copied
		inserted = true
		return nil
	})
	return inserted, err
}

func (r *memAssignmentRepo) GetByComplaintAndWorker(_ context.Context, complaintID, workerID string) (*domain.Assignment, error) {
	var result *domain.Assignment
	err := r.store.run(func(d *memoryData) error {
		for _, stored := range d.assignments {
			if stored.ComplaintID == complaintID && stored.WorkerID == workerID {
				copied := *stored
				result = &copied
				return nil
			}
		}
		return ErrNotFound
	})
	return result, err
}

func (r *memAssignmentRepo) ListByComplaint(_ context.Context, complaintID string) ([]domain.Assignment, error) {
	var result []domain.Assignment
	err := r.store.run(func(d *memoryData) error {
		for _, stored := range d.assignments {
			if stored.ComplaintID == complaintID {
				result = append(result, *stored)
			}
		}
		sort.Slice(result, func(i, j int) bool {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		})
		return nil
	})
	return result, err
}

func (r *memAssignmentRepo) UpdateStatus(_ context.Context, id string, status domain.AssignmentStatus) error {
	return r.store.run(func(d *memoryData) error {
		stored, ok := d.assignments[id]
		if !ok {
			return ErrNotFound
		}
		stored.Status = status
		stored.UpdatedAt = time.Now()
		return nil
	})
}

type memLogRepo struct {
	store *MemoryStore
}

func (r *memLogRepo) Create(_ context.Context, entry *domain.LogEntry) error {
	return r.store.run(func(d *memoryData) error {
		entry.ID = uuid.NewString()
		entry.TimeStamp = time.Now()
		d.logs = append(d.logs, *entry)
		return nil
	})
}

func (r *memLogRepo) ListByComplaint(_ context.Context, complaintID string) ([]domain.LogEntry, error) {
	var result []domain.LogEntry
	err := r.store.run(func(d *memoryData) error {
		for _, entry := range d.logs {
			if entry.ComplaintID == complaintID {
				result = append(result, entry)
			}
		}
		sort.Slice(result, func(i, j int) bool {
			return result[i].TimeStamp.Before(result[j].TimeStamp)
		})
		return nil
	})
	return result, err
}

type memTeamRepo struct {
	store *MemoryStore
}

func (r *memTeamRepo) GetByID(_ context.Context, id string) (*domain.Team, error) {
	var result *domain.Team
	err := r.store.run(func(d *memoryData) error {
		stored, ok := d.teams[id]
		if !ok {
			return ErrNotFound
		}
		copied := *stored
		result = &copied
		return nil
	})
	return result, err
}

func (r *memTeamRepo) ListActive(_ context.Context) ([]domain.Team, error) {
	var result []domain.Team
	err := r.store.run(func(d *memoryData) error {
		for _, team := range d.teams {
			if team.IsActive {
				result = append(result, *team)
			}
		}
		sort.Slice(result, func(i, j int) bool {
			return result[i].Name < result[j].Name
		})
		return nil
	})
	return result, err
}

type memCategoryRepo struct {
	store *MemoryStore
}

func (r *memCategoryRepo) ValidatePath(_ context.Context, class domain.Classification) error {
	return r.store.run(func(d *memoryData) error {
		valid, ok := d.paths[class.IssueOptionID]
		if !ok || valid != class {
			return ErrNotFound
		}
		return nil
	})
}

func containsStatus(statuses []domain.ComplaintStatus, status domain.ComplaintStatus) bool {
	for _, candidate := range statuses {
		if candidate == status {
			return true
		}
	}
	return false
}

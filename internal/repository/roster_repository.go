package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// RosterProvider supplies the per-team worker feed with live status, queue
// counts, and proximity. The feed is owned externally; the engine only reads
// a fresh snapshot per request.
type RosterProvider interface {
	ListByTeam(ctx context.Context, teamID string) ([]domain.WorkerRosterEntry, error)
}

type redisRosterProvider struct {
	client *redis.Client
}

// NewRedisRosterProvider reads roster snapshots from the hash the external
// roster feed maintains at roster:<teamID>, one JSON entry per worker.
func NewRedisRosterProvider(client *redis.Client) RosterProvider {
	return &redisRosterProvider{client: client}
}

func (p *redisRosterProvider) ListByTeam(ctx context.Context, teamID string) ([]domain.WorkerRosterEntry, error) {
	fields, err := p.client.HGetAll(ctx, rosterKey(teamID)).Result()
	if err != nil {
		return nil, fmt.Errorf("read roster for team %s: %w", teamID, err)
	}

	entries := make([]domain.WorkerRosterEntry, 0, len(fields))
	for workerID, raw := range fields {
		var entry domain.WorkerRosterEntry
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			return nil, fmt.Errorf("decode roster entry %s: %w", workerID, err)
		}
		if entry.WorkerID == "" {
			entry.WorkerID = workerID
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func rosterKey(teamID string) string {
	return "roster:" + teamID
}

// StaticRosterProvider serves a fixed snapshot. Used in tests and when no
// Redis feed is configured.
type StaticRosterProvider struct {
	Entries map[string][]domain.WorkerRosterEntry
}

func (p *StaticRosterProvider) ListByTeam(_ context.Context, teamID string) ([]domain.WorkerRosterEntry, error) {
	return p.Entries[teamID], nil
}

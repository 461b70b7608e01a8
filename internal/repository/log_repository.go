package repository

import (
	"context"

	"github.com/spec-kit/complaint-service/internal/domain"
)

type logRepository struct {
	db DBTX
}

func (r *logRepository) Create(ctx context.Context, entry *domain.LogEntry) error {
	const query = `
        INSERT INTO complaint_logs (complaint_id, status, comment, changed_by_name)
        VALUES ($1,$2,$3,$4)
        RETURNING id, time_stamp`
	return r.db.QueryRow(ctx, query,
		entry.ComplaintID,
		entry.Status,
		entry.Comment,
		entry.ChangedByName,
	).Scan(&entry.ID, &entry.TimeStamp)
}

// ListByComplaint returns the timeline oldest-first, the order the UI
// renders it.
func (r *logRepository) ListByComplaint(ctx context.Context, complaintID string) ([]domain.LogEntry, error) {
	const query = `
        SELECT id, complaint_id, status, comment, changed_by_name, time_stamp
        FROM complaint_logs WHERE complaint_id=$1 ORDER BY time_stamp ASC`
	rows, err := r.db.Query(ctx, query, complaintID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.LogEntry
	for rows.Next() {
		var entry domain.LogEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.ComplaintID,
			&entry.Status,
			&entry.Comment,
			&entry.ChangedByName,
			&entry.TimeStamp,
		); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}

package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/complaint-service/internal/domain"
)

type assignmentRepository struct {
	db DBTX
}

// Create inserts an assignment row. The unique index on
// (complaint_id, worker_id) makes concurrent adds of the same worker settle
// on exactly one row; ON CONFLICT DO NOTHING turns the loser into a no-op.
func (r *assignmentRepository) Create(ctx context.Context, assignment *domain.Assignment) (bool, error) {
	const query = `
        INSERT INTO assignments (complaint_id, worker_id, worker_name, status)
        VALUES ($1,$2,$3,$4)
        ON CONFLICT (complaint_id, worker_id) DO NOTHING
        RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(ctx, query,
		assignment.ComplaintID,
		assignment.WorkerID,
		assignment.WorkerName,
		assignment.Status,
	).Scan(&assignment.ID, &assignment.CreatedAt, &assignment.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *assignmentRepository) GetByComplaintAndWorker(ctx context.Context, complaintID, workerID string) (*domain.Assignment, error) {
	const query = `
        SELECT id, complaint_id, worker_id, worker_name, status, created_at, updated_at
        FROM assignments WHERE complaint_id=$1 AND worker_id=$2`
	var assignment domain.Assignment
	err := r.db.QueryRow(ctx, query, complaintID, workerID).Scan(
		&assignment.ID,
		&assignment.ComplaintID,
		&assignment.WorkerID,
		&assignment.WorkerName,
		&assignment.Status,
		&assignment.CreatedAt,
		&assignment.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *assignmentRepository) ListByComplaint(ctx context.Context, complaintID string) ([]domain.Assignment, error) {
	const query = `
        SELECT id, complaint_id, worker_id, worker_name, status, created_at, updated_at
        FROM assignments WHERE complaint_id=$1 ORDER BY created_at ASC`
	rows, err := r.db.Query(ctx, query, complaintID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Assignment
	for rows.Next() {
		var assignment domain.Assignment
		if err := rows.Scan(
			&assignment.ID,
			&assignment.ComplaintID,
			&assignment.WorkerID,
			&assignment.WorkerName,
			&assignment.Status,
			&assignment.CreatedAt,
			&assignment.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, assignment)
	}
	return result, rows.Err()
}

func (r *assignmentRepository) UpdateStatus(ctx context.Context, id string, status domain.AssignmentStatus) error {
	cmd, err := r.db.Exec(ctx,
		`UPDATE assignments SET status=$1, updated_at=NOW() WHERE id=$2`, status, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

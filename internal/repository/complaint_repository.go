package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/complaint-service/internal/domain"
)

type complaintRepository struct {
	db DBTX
}

const complaintColumns = `id, title, custom_description, device, category_id, sub_category_id,
               issue_option_id, priority, status, escalation_level, submission_preference,
               employee_id, team_id, version, created_at, updated_at`

func (r *complaintRepository) Create(ctx context.Context, complaint *domain.Complaint) error {
	const query = `
        INSERT INTO complaints (title, custom_description, device, category_id, sub_category_id,
            issue_option_id, priority, status, escalation_level, submission_preference, employee_id, team_id, version)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,1)
        RETURNING id, version, created_at, updated_at`
	return r.db.QueryRow(ctx, query,
		complaint.Title,
		complaint.CustomDescription,
		complaint.Device,
		complaint.CategoryID,
		complaint.SubCategoryID,
		complaint.IssueOptionID,
		complaint.Priority,
		complaint.Status,
		complaint.EscalationLevel,
		complaint.SubmissionPreference,
		complaint.EmployeeID,
		complaint.TeamID,
	).Scan(&complaint.ID, &complaint.Version, &complaint.CreatedAt, &complaint.UpdatedAt)
}

func (r *complaintRepository) GetByID(ctx context.Context, id string) (*domain.Complaint, error) {
	query := fmt.Sprintf(`SELECT %s FROM complaints WHERE id=$1`, complaintColumns)
	var complaint domain.Complaint
	if err := scanComplaint(r.db.QueryRow(ctx, query, id), &complaint); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &complaint, nil
}

func (r *complaintRepository) ListWithFilter(ctx context.Context, filter ComplaintFilter) ([]domain.Complaint, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.EmployeeID != nil {
		args = append(args, *filter.EmployeeID)
		clauses = append(clauses, fmt.Sprintf("employee_id=$%d", len(args)))
	}
	if filter.TeamID != nil {
		args = append(args, *filter.TeamID)
		clauses = append(clauses, fmt.Sprintf("team_id=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM complaints WHERE %s ORDER BY updated_at DESC LIMIT %d OFFSET %d`,
		complaintColumns, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Complaint
	for rows.Next() {
		var complaint domain.Complaint
		if err := scanComplaint(rows, &complaint); err != nil {
			return nil, err
		}
		result = append(result, complaint)
	}
	return result, rows.Err()
}

// Update writes the complaint only if nobody changed it since the caller's
// read. The WHERE version=$n clause is the optimistic lock.
func (r *complaintRepository) Update(ctx context.Context, complaint *domain.Complaint) error {
	const query = `
        UPDATE complaints SET status=$1, escalation_level=$2, team_id=$3,
            version=version+1, updated_at=NOW()
        WHERE id=$4 AND version=$5`
	cmd, err := r.db.Exec(ctx, query,
		complaint.Status,
		complaint.EscalationLevel,
		complaint.TeamID,
		complaint.ID,
		complaint.Version,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrVersionConflict
	}
	complaint.Version++
	return nil
}

func (r *complaintRepository) Delete(ctx context.Context, id string, version int64) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM complaints WHERE id=$1 AND version=$2`, id, version)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrVersionConflict
	}
	return nil
}

func scanComplaint(row pgx.Row, complaint *domain.Complaint) error {
	return row.Scan(
		&complaint.ID,
		&complaint.Title,
		&complaint.CustomDescription,
		&complaint.Device,
		&complaint.CategoryID,
		&complaint.SubCategoryID,
		&complaint.IssueOptionID,
		&complaint.Priority,
		&complaint.Status,
		&complaint.EscalationLevel,
		&complaint.SubmissionPreference,
		&complaint.EmployeeID,
		&complaint.TeamID,
		&complaint.Version,
		&complaint.CreatedAt,
		&complaint.UpdatedAt,
	)
}

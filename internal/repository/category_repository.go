package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/complaint-service/internal/domain"
)

type categoryRepository struct {
	db DBTX
}

// ValidatePath walks issue option -> sub-category -> category in one query
// and confirms each child references the claimed parent.
func (r *categoryRepository) ValidatePath(ctx context.Context, class domain.Classification) error {
	const query = `
        SELECT io.sub_category_id, sc.category_id
        FROM issue_options io
        JOIN sub_categories sc ON sc.id = io.sub_category_id
        JOIN categories c ON c.id = sc.category_id
        WHERE io.id=$1 AND io.is_active=TRUE AND sc.is_active=TRUE AND c.is_active=TRUE`
	var subCategoryID, categoryID string
	err := r.db.QueryRow(ctx, query, class.IssueOptionID).Scan(&subCategoryID, &categoryID)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if subCategoryID != class.SubCategoryID || categoryID != class.CategoryID {
		return ErrNotFound
	}
	return nil
}

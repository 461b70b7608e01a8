package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DBTX is the querying surface shared by pgxpool.Pool and pgx.Tx, so the
// same repository code runs inside and outside a transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type postgresStore struct {
	pool *pgxpool.Pool
	db   DBTX
}

// NewPostgresStore builds the Store over a pgx connection pool.
func NewPostgresStore(pool *pgxpool.Pool) Store {
	return &postgresStore{pool: pool, db: pool}
}

func (s *postgresStore) Complaints() ComplaintRepository   { return &complaintRepository{db: s.db} }
func (s *postgresStore) Assignments() AssignmentRepository { return &assignmentRepository{db: s.db} }
func (s *postgresStore) Logs() LogRepository               { return &logRepository{db: s.db} }
func (s *postgresStore) Teams() TeamRepository             { return &teamRepository{db: s.db} }
func (s *postgresStore) Categories() CategoryRepository    { return &categoryRepository{db: s.db} }

func (s *postgresStore) WithinTx(ctx context.Context, fn func(Store) error) error {
	if s.pool == nil {
		return fmt.Errorf("no database pool configured")
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	txStore := &postgresStore{pool: s.pool, db: tx}
	if err := fn(txStore); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

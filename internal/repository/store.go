package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// Store hands out a UserStore bound to a single transaction.
type Store interface {
	WithinTx(ctx context.Context, fn func(UserStore) error) error
}

// SQLStore is the database/sql implementation of Store.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

// WithinTx commits when fn returns nil and rolls back otherwise.
func (s *SQLStore) WithinTx(ctx context.Context, fn func(UserStore) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(NewUserRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

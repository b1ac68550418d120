package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
)

// Store defines the database operations used by the bot.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// AddContact inserts a known contact or updates its note.
	AddContact(ctx context.Context, contact *Contact) error

	// RemoveContact deletes a known contact and reports whether it existed.
	RemoveContact(ctx context.Context, userID int64) (bool, error)

	// IsContact reports whether userID is a known contact.
	IsContact(ctx context.Context, userID int64) (bool, error)

	// ListContacts returns all known contacts ordered by user ID.
	ListContacts(ctx context.Context) ([]Contact, error)

	// RunSQLMaintenance runs VACUUM.
	RunSQLMaintenance(ctx context.Context) error
}

type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore returns a Store backed by db.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "store"),
	}
}

func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *sqlxStore) AddContact(ctx context.Context, contact *Contact) error {
	if contact == nil {
		return errors.New("contact cannot be nil")
	}
	if contact.UserID == 0 {
		return errors.New("user_id cannot be zero")
	}
	if contact.CreatedAt.IsZero() {
		contact.CreatedAt = time.Now().UTC()
	}

	query := `INSERT INTO contacts (user_id, note, created_at) VALUES (:user_id, :note, :created_at)
	          ON CONFLICT(user_id) DO UPDATE SET note = excluded.note`
	if _, err := s.db.NamedExecContext(ctx, query, contact); err != nil {
		s.logger.ErrorContext(ctx, "Failed to save contact", "user_id", contact.UserID, "error", err)
		return fmt.Errorf("failed to save contact %d: %w", contact.UserID, err)
	}

	s.logger.DebugContext(ctx, "Contact saved", "user_id", contact.UserID)
	return nil
}

func (s *sqlxStore) RemoveContact(ctx context.Context, userID int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM contacts WHERE user_id = ?`, userID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to delete contact", "user_id", userID, "error", err)
		return false, fmt.Errorf("failed to delete contact %d: %w", userID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return affected > 0, nil
}

func (s *sqlxStore) IsContact(ctx context.Context, userID int64) (bool, error) {
	var one int
	err := s.db.GetContext(ctx, &one, `SELECT 1 FROM contacts WHERE user_id = ?`, userID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("failed to look up contact %d: %w", userID, err)
	}
	return true, nil
}

func (s *sqlxStore) ListContacts(ctx context.Context) ([]Contact, error) {
	var contacts []Contact
	err := s.db.SelectContext(ctx, &contacts, `SELECT user_id, note, created_at FROM contacts ORDER BY user_id`)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to list contacts", "error", err)
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	return contacts, nil
}

// RunSQLMaintenance executes VACUUM, which SQLite runs outside a transaction.
func (s *sqlxStore) RunSQLMaintenance(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	s.logger.InfoContext(ctx, "Starting database maintenance (VACUUM)")
	_, err := s.db.ExecContext(ctx, "VACUUM;")
	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		s.logger.WarnContext(ctx, "VACUUM timed out or was cancelled", "error", err)
		return fmt.Errorf("database maintenance (VACUUM) timed out: %w", err)
	case err != nil:
		s.logger.ErrorContext(ctx, "Database maintenance (VACUUM) failed", "error", err)
		return fmt.Errorf("failed to execute VACUUM: %w", err)
	}

	s.logger.InfoContext(ctx, "Database maintenance (VACUUM) completed")
	return nil
}

package workflow

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"tourism-portal/events-portal-backend/internal/status"
)

// TransitionFunc decides the outcome of a transition while the event row is
// locked. It returns the fully built history entry to append, or an error to
// abort with nothing written.
type TransitionFunc func(current status.Code, lastChanged time.Time) (*StatusHistoryEntry, error)

// Repository defines the persistence operations of the workflow core.
type Repository interface {
	// Transition runs decide against the event's current status and, if it
	// succeeds, atomically updates the event row and appends the returned
	// history entry. It reports the previous last-status-changed timestamp
	// for duration accounting.
	Transition(ctx context.Context, eventID uuid.UUID, decide TransitionFunc) (*StatusHistoryEntry, time.Time, error)

	// History returns all entries for an event, oldest first.
	History(ctx context.Context, eventID uuid.UUID) ([]StatusHistoryEntry, error)

	// CurrentStatus returns the event's status and last change timestamp.
	CurrentStatus(ctx context.Context, eventID uuid.UUID) (status.Code, time.Time, error)
}

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository.
func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// EnsureSchema creates the append-only history table.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS status_history (
			id              uuid PRIMARY KEY,
			event_id        uuid NOT NULL,
			previous_status text,
			new_status      text NOT NULL,
			actor_id        uuid NOT NULL,
			actor_role      text NOT NULL,
			reason          text,
			comments        text,
			created_at      timestamptz NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_status_history_event ON status_history (event_id, created_at);
	`)
	if err != nil {
		return &StorageError{Op: "ensure history schema", Err: err}
	}
	return nil
}

type eventStatusRow struct {
	StatusCode          string    `db:"status_code"`
	LastStatusChangedAt time.Time `db:"last_status_changed_at"`
}

func (r *PostgresRepository) Transition(ctx context.Context, eventID uuid.UUID, decide TransitionFunc) (*StatusHistoryEntry, time.Time, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, time.Time{}, &StorageError{Op: "begin transition", Err: err}
	}
	defer tx.Rollback()

	// FOR UPDATE serializes concurrent transitions against the same event.
	var row eventStatusRow
	err = tx.GetContext(ctx, &row,
		`SELECT status_code, last_status_changed_at FROM events WHERE id = $1 FOR UPDATE`, eventID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, time.Time{}, &NotFoundError{EventID: eventID}
	}
	if err != nil {
		return nil, time.Time{}, &StorageError{Op: "load event status", Err: err}
	}

	entry, err := decide(status.Code(row.StatusCode), row.LastStatusChangedAt)
	if err != nil {
		// Business denial, nothing is written.
		return nil, time.Time{}, err
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE events SET status_code = $1, last_status_changed_at = $2, updated_at = $2 WHERE id = $3`,
		string(entry.NewStatus), entry.CreatedAt, eventID)
	if err != nil {
		return nil, time.Time{}, &StorageError{Op: "update event status", Err: err}
	}

	if err := insertHistoryEntry(ctx, tx, entry); err != nil {
		return nil, time.Time{}, err
	}

	if err := tx.Commit(); err != nil {
		return nil, time.Time{}, &StorageError{Op: "commit transition", Err: err}
	}
	return entry, row.LastStatusChangedAt, nil
}

func insertHistoryEntry(ctx context.Context, e sqlx.ExtContext, entry *StatusHistoryEntry) error {
	var prev *string
	if entry.PreviousStatus != nil {
		s := string(*entry.PreviousStatus)
		prev = &s
	}
	_, err := e.ExecContext(ctx,
		`INSERT INTO status_history (id, event_id, previous_status, new_status, actor_id, actor_role, reason, comments, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		entry.ID, entry.EventID, prev, string(entry.NewStatus),
		entry.ActorID, entry.ActorRole, entry.Reason, entry.Comments, entry.CreatedAt)
	if err != nil {
		return &StorageError{Op: "append history entry", Err: err}
	}
	return nil
}

func (r *PostgresRepository) History(ctx context.Context, eventID uuid.UUID) ([]StatusHistoryEntry, error) {
	var entries []StatusHistoryEntry
	err := r.db.SelectContext(ctx, &entries,
		`SELECT id, event_id, previous_status, new_status, actor_id, actor_role, reason, comments, created_at
		 FROM status_history WHERE event_id = $1 ORDER BY created_at, id`, eventID)
	if err != nil {
		return nil, &StorageError{Op: "read history", Err: err}
	}
	return entries, nil
}

func (r *PostgresRepository) CurrentStatus(ctx context.Context, eventID uuid.UUID) (status.Code, time.Time, error) {
	var row eventStatusRow
	err := r.db.GetContext(ctx, &row,
		`SELECT status_code, last_status_changed_at FROM events WHERE id = $1`, eventID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", time.Time{}, &NotFoundError{EventID: eventID}
	}
	if err != nil {
		return "", time.Time{}, &StorageError{Op: "load event status", Err: err}
	}
	return status.Code(row.StatusCode), row.LastStatusChangedAt, nil
}

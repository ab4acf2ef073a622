package history

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kptbarbarossa/validationly-sub003/internal/domain"
	"github.com/kptbarbarossa/validationly-sub003/pkg/errors"
	"go.uber.org/zap"
)

// Entry is one recorded validation.
type Entry struct {
	ID          uuid.UUID
	RequestID   string
	Idea        string
	Language    domain.LanguageCode
	DemandScore int
	Degraded    bool
	Sections    []string
	Elapsed     time.Duration
	CreatedAt   time.Time
}

// Recorder persists validation outcomes. Implementations must be safe for concurrent use.
type Recorder interface {
	Record(ctx context.Context, entry Entry) error
}

// NopRecorder discards every entry.
type NopRecorder struct{}

func (NopRecorder) Record(context.Context, Entry) error { return nil }

// Execer is the subset of *sql.DB the Postgres recorder needs.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS validation_history (
	id              UUID PRIMARY KEY,
	request_id      TEXT NOT NULL DEFAULT '',
	idea            TEXT NOT NULL,
	language        VARCHAR(8) NOT NULL,
	demand_score    INTEGER NOT NULL,
	degraded        BOOLEAN NOT NULL DEFAULT FALSE,
	degraded_parts  TEXT NOT NULL DEFAULT '',
	elapsed_ms      BIGINT NOT NULL DEFAULT 0,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

const insertSQL = `
INSERT INTO validation_history
	(id, request_id, idea, language, demand_score, degraded, degraded_parts, elapsed_ms, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

type PostgresRecorder struct {
	db     Execer
	logger *zap.Logger
}

func NewPostgresRecorder(db Execer, logger *zap.Logger) *PostgresRecorder {
	return &PostgresRecorder{db: db, logger: logger}
}

// EnsureSchema creates the history table when missing.
func (r *PostgresRecorder) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schemaSQL); err != nil {
		return errors.NewServiceError("failed to create history table", "postgres", "migrate", err)
	}
	return nil
}

func (r *PostgresRecorder) Record(ctx context.Context, entry Entry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, insertSQL,
		entry.ID.String(),
		entry.RequestID,
		entry.Idea,
		string(entry.Language),
		entry.DemandScore,
		entry.Degraded,
		strings.Join(entry.Sections, ","),
		entry.Elapsed.Milliseconds(),
		entry.CreatedAt,
	)
	if err != nil {
		return errors.NewServiceError("failed to record validation", "postgres", "insert", err)
	}

	r.logger.Debug("Validation recorded",
		zap.String("id", entry.ID.String()),
		zap.Bool("degraded", entry.Degraded),
	)
	return nil
}

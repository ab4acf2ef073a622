package history

import (
	"context"
	"database/sql"
	stderrors "errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kptbarbarossa/validationly-sub003/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type execCall struct {
	query string
	args  []any
}

type fakeExecer struct {
	calls []execCall
	err   error
}

func (f *fakeExecer) ExecContext(_ context.Context, query string, args ...any) (sql.Result, error) {
	f.calls = append(f.calls, execCall{query: query, args: args})
	if f.err != nil {
		return nil, f.err
	}
	return driverResult(1), nil
}

type driverResult int64

func (r driverResult) LastInsertId() (int64, error) { return 0, nil }
func (r driverResult) RowsAffected() (int64, error) { return int64(r), nil }

func TestRecordInsertsRow(t *testing.T) {
	db := &fakeExecer{}
	rec := NewPostgresRecorder(db, zap.NewNop())

	err := rec.Record(context.Background(), Entry{
		RequestID:   "req-1",
		Idea:        "AI meal planner",
		Language:    domain.LanguageEnglish,
		DemandScore: 72,
		Degraded:    true,
		Sections:    []string{"reddit", "overall"},
		Elapsed:     1500 * time.Millisecond,
	})
	require.NoError(t, err)

	require.Len(t, db.calls, 1)
	call := db.calls[0]
	assert.True(t, strings.Contains(call.query, "INSERT INTO validation_history"))
	require.Len(t, call.args, 9)

	_, parseErr := uuid.Parse(call.args[0].(string))
	assert.NoError(t, parseErr)
	assert.Equal(t, "req-1", call.args[1])
	assert.Equal(t, "en", call.args[3])
	assert.Equal(t, 72, call.args[4])
	assert.Equal(t, true, call.args[5])
	assert.Equal(t, "reddit,overall", call.args[6])
	assert.Equal(t, int64(1500), call.args[7])
}

func TestRecordWrapsErrors(t *testing.T) {
	rec := NewPostgresRecorder(&fakeExecer{err: stderrors.New("connection reset")}, zap.NewNop())

	err := rec.Record(context.Background(), Entry{Idea: "x", Language: domain.LanguageTurkish})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to record validation")
}

func TestEnsureSchema(t *testing.T) {
	db := &fakeExecer{}
	require.NoError(t, NewPostgresRecorder(db, zap.NewNop()).EnsureSchema(context.Background()))
	require.Len(t, db.calls, 1)
	assert.Contains(t, db.calls[0].query, "CREATE TABLE IF NOT EXISTS validation_history")
}

func TestNopRecorder(t *testing.T) {
	var r Recorder = NopRecorder{}
	assert.NoError(t, r.Record(context.Background(), Entry{}))
}

package testutil

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/jmoiron/sqlx"

	"libraryManagement/internal/db"
)

var dbSeq atomic.Int64

// OpenInMemoryDB opens a fresh in-memory SQLite database with all migrations applied.
// Each call gets its own database; it is closed via t.Cleanup.
func OpenInMemoryDB(t *testing.T) *sqlx.DB {
	t.Helper()
	name := strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
			return r
		}
		return '_'
	}, t.Name())
	// We use a shared cache memory database so that every pooled connection sees the same data.
	d, err := db.Open(db.DriverSQLite, fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, dbSeq.Add(1)))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	return d
}

// LogSpy is a slog.Handler that captures records for assertions.
type LogSpy struct {
	mu      sync.Mutex
	records []slog.Record
}

// NewLogger returns a logger writing into a fresh spy.
func NewLogger() (*slog.Logger, *LogSpy) {
	spy := &LogSpy{}
	return slog.New(spy), spy
}

func (s *LogSpy) Handle(_ context.Context, r slog.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, r)
	return nil
}

func (s *LogSpy) Enabled(context.Context, slog.Level) bool { return true }

func (s *LogSpy) WithAttrs([]slog.Attr) slog.Handler { return s }

func (s *LogSpy) WithGroup(string) slog.Handler { return s }

// Records returns a copy of all captured records.
func (s *LogSpy) Records() []slog.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]slog.Record, len(s.records))
	copy(out, s.records)
	return out
}

// Has reports whether a record with the given level and message was captured.
func (s *LogSpy) Has(level slog.Level, msg string) bool {
	for _, r := range s.Records() {
		if r.Level == level && r.Message == msg {
			return true
		}
	}
	return false
}

// Levels returns the levels of all records, in order.
func (s *LogSpy) Levels() []slog.Level {
	recs := s.Records()
	out := make([]slog.Level, len(recs))
	for i, r := range recs {
		out[i] = r.Level
	}
	return out
}

func (s *LogSpy) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = nil
}

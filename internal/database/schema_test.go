package database

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

type recordingExecer struct {
	stmts  []string
	failAt int
}

func (r *recordingExecer) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	r.stmts = append(r.stmts, sql)
	if len(r.stmts)-1 == r.failAt {
		return pgconn.CommandTag{}, errors.New("permission denied")
	}
	return pgconn.NewCommandTag("CREATE TABLE"), nil
}

func TestEnsureSchema(t *testing.T) {
	db := &recordingExecer{failAt: -1}
	if err := EnsureSchema(context.Background(), db); err != nil {
		t.Fatalf("EnsureSchema() error = %v", err)
	}
	if len(db.stmts) != len(Schema) {
		t.Errorf("executed %d statements, want %d", len(db.stmts), len(Schema))
	}
	for _, stmt := range db.stmts {
		if !strings.Contains(stmt, "IF NOT EXISTS") {
			t.Errorf("statement is not idempotent: %s", stmt)
		}
	}
}

func TestEnsureSchema_StopsOnError(t *testing.T) {
	db := &recordingExecer{failAt: 1}
	err := EnsureSchema(context.Background(), db)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "statement 1") {
		t.Errorf("error = %q, want statement index", err)
	}
	if len(db.stmts) != 2 {
		t.Errorf("executed %d statements, want 2", len(db.stmts))
	}
}

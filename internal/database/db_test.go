package database

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestConnect_Validation(t *testing.T) {
	if _, err := Connect(context.Background(), ""); err == nil {
		t.Fatalf("expected error for empty dsn")
	}

	if _, err := Connect(context.Background(), "invalid-dsn"); err == nil {
		t.Fatalf("expected error for invalid dsn")
	}
}

type execFunc func(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)

func (f execFunc) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return f(ctx, sql, args...)
}

func TestMigrate(t *testing.T) {
	var applied string
	err := Migrate(context.Background(), execFunc(func(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
		applied = sql
		return pgconn.CommandTag{}, nil
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(applied, "CREATE TABLE IF NOT EXISTS leads") {
		t.Fatalf("expected leads table ddl, got %s", applied)
	}

	boom := errors.New("boom")
	err = Migrate(context.Background(), execFunc(func(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
		return pgconn.CommandTag{}, boom
	}))
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped exec error, got %v", err)
	}
}

package pg

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"compsync/internal/platform/testkit"
)

func TestOpenParseError(t *testing.T) {
	if _, err := Open(context.Background(), Config{URL: "://bad"}, nil, nil); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestOpenNewPoolError(t *testing.T) {
	testkit.Swap(t, &newPool, func(context.Context, *pgxpool.Config) (*pgxpool.Pool, error) {
		return nil, errors.New("boom")
	})
	if _, err := Open(context.Background(), Config{URL: "postgres://u:p@h:5432/db"}, nil, nil); err == nil {
		t.Fatal("expected pool error")
	}
}

func TestOpenAppliesConfig(t *testing.T) {
	var seen *pgxpool.Config
	testkit.Swap(t, &newPool, func(_ context.Context, c *pgxpool.Config) (*pgxpool.Pool, error) {
		seen = c
		return &pgxpool.Pool{}, nil
	})

	cfg := Config{
		URL:         "postgres://u:p@h:5432/db?sslmode=disable",
		MaxConns:    7,
		SlowMs:      150,
		StmtTimeout: 30 * time.Second,
		AppName:     "compsync-test",
	}
	mutated := false
	p, err := Open(context.Background(), cfg, nil, func(*pgxpool.Config) { mutated = true })
	if err != nil {
		t.Fatal(err)
	}
	if !mutated || seen == nil {
		t.Fatal("mutator or pool factory not invoked")
	}
	if seen.MaxConns != 7 {
		t.Fatalf("MaxConns = %d", seen.MaxConns)
	}
	rp := seen.ConnConfig.RuntimeParams
	if rp["application_name"] != "compsync-test" || rp["statement_timeout"] != "30s" {
		t.Fatalf("runtime params = %v", rp)
	}
	if p.SlowMs != 150 {
		t.Fatalf("SlowMs = %d", p.SlowMs)
	}
}

func TestCloseNilSafe(t *testing.T) {
	var p *PG
	p.Close()
	(&PG{}).Close()
}

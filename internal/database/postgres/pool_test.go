package postgres

import (
	"bytes"
	"context"
	"errors"
	"log"
	"strings"
	"testing"
	"time"

	"hirehub/internal/config"
	"hirehub/internal/database"

	"github.com/jackc/pgx/v5"
)

func TestDSN_EscapesCredentials(t *testing.T) {
	dsn := DSN(config.DatabaseConfig{
		DBHost: " db ", DBPort: "5432", DBName: "hirehub", DBUser: "app", DBPassword: "p@ss word", DBSSLMode: "disable",
	})
	want := "postgres://app:p%40ss%20word@db:5432/hirehub?sslmode=disable"
	if dsn != want {
		t.Fatalf("expected %q, got %q", want, dsn)
	}
}

func TestPoolConfig_AppliesLimitsAndTracer(t *testing.T) {
	cfg := config.DatabaseConfig{
		DBHost: "localhost", DBPort: "5432", DBName: "hirehub", DBUser: "app",
		PoolMaxConns: 8, PoolMinConns: 20, ConnectTimeout: 3 * time.Second, SlowQueryThreshold: time.Second,
	}
	pcfg, err := poolConfig(cfg, log.New(&bytes.Buffer{}, "", 0))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if pcfg.MaxConns != 8 {
		t.Fatalf("expected MaxConns 8, got %d", pcfg.MaxConns)
	}
	if pcfg.MinConns == 20 {
		t.Fatalf("MinConns above MaxConns must be ignored")
	}
	if pcfg.ConnConfig.ConnectTimeout != 3*time.Second {
		t.Fatalf("unexpected connect timeout %s", pcfg.ConnConfig.ConnectTimeout)
	}
	if _, ok := pcfg.ConnConfig.Tracer.(*slowQueryTracer); !ok {
		t.Fatalf("expected slow query tracer")
	}

	pcfg, err = poolConfig(cfg, nil)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if pcfg.ConnConfig.Tracer != nil {
		t.Fatalf("expected no tracer without logger")
	}
}

func TestSlowQueryTracer_LogsOnlyAboveThreshold(t *testing.T) {
	var buf bytes.Buffer
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tr := &slowQueryTracer{threshold: 100 * time.Millisecond, logger: log.New(&buf, "", 0), now: func() time.Time { return clock }}

	ctx := tr.TraceQueryStart(context.Background(), nil, pgx.TraceQueryStartData{SQL: "SELECT 1"})
	clock = clock.Add(10 * time.Millisecond)
	tr.TraceQueryEnd(ctx, nil, pgx.TraceQueryEndData{})
	if buf.Len() != 0 {
		t.Fatalf("fast query logged: %s", buf.String())
	}

	ctx = tr.TraceQueryStart(context.Background(), nil, pgx.TraceQueryStartData{SQL: "SELECT *\n\tFROM jobs"})
	clock = clock.Add(250 * time.Millisecond)
	tr.TraceQueryEnd(ctx, nil, pgx.TraceQueryEndData{Err: errors.New("boom")})
	out := buf.String()
	if !strings.Contains(out, "duration=250ms") || !strings.Contains(out, "status=error") || !strings.Contains(out, `"SELECT * FROM jobs"`) {
		t.Fatalf("unexpected log %q", out)
	}
}

func TestNilPool_ReturnsErrNilDB(t *testing.T) {
	var p *Pool
	if err := p.Ping(context.Background()); !errors.Is(err, database.ErrNilDB) {
		t.Fatalf("expected ErrNilDB, got %v", err)
	}
	var id int
	if err := p.QueryRow(context.Background(), "SELECT 1").Scan(&id); !errors.Is(err, database.ErrNilDB) {
		t.Fatalf("expected ErrNilDB from QueryRow, got %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("close nil pool: %v", err)
	}
}

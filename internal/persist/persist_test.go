package persist

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/l1jgo/breathing/internal/breath"
	"github.com/l1jgo/breathing/internal/config"
)

func newSQLiteRepo(t *testing.T) *SQLiteBreathRepo {
	t.Helper()
	ctx := context.Background()
	db, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "db", "breath.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := RunSQLiteMigrations(ctx, db); err != nil {
		t.Fatalf("RunSQLiteMigrations: %v", err)
	}
	return NewSQLiteBreathRepo(db)
}

func TestSQLiteBreathRepoRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := newSQLiteRepo(t)

	under := breath.State{IsBreathing: false, StartTime: 0, EndTime: 10000, NextDamageTime: 12000}
	if err := repo.Save(ctx, "diver", under); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := repo.Load(ctx, "diver")
	if err != nil || got == nil || *got != under {
		t.Fatalf("expected %+v, got %+v (%v)", under, got, err)
	}

	up := breath.State{IsBreathing: true, StartTime: 2500, EndTime: 7500, NextDamageTime: breath.Never}
	if err := repo.Save(ctx, "diver", up); err != nil {
		t.Fatalf("Save upsert: %v", err)
	}
	got, err = repo.Load(ctx, "diver")
	if err != nil || *got != up {
		t.Fatalf("expected never-damage state to survive NULL, got %+v (%v)", got, err)
	}

	if err := repo.Save(ctx, "fish", under); err != nil {
		t.Fatalf("Save fish: %v", err)
	}
	all, err := repo.LoadAll(ctx)
	if err != nil || len(all) != 2 || all["fish"] != under {
		t.Fatalf("LoadAll: %+v (%v)", all, err)
	}

	if err := repo.Delete(ctx, "diver"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	got, err = repo.Load(ctx, "diver")
	if err != nil || got != nil {
		t.Fatalf("expected no row after delete, got %+v (%v)", got, err)
	}
}

func TestRunSQLiteMigrationsTwice(t *testing.T) {
	ctx := context.Background()
	db, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "m.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer db.Close()
	for i := 0; i < 2; i++ {
		if err := RunSQLiteMigrations(ctx, db); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
	}
}

func TestAuditLogWritesZstdJSONL(t *testing.T) {
	dir := t.TempDir()
	l, err := OpenAuditLog(dir, "breath", time.Unix(1700000000, 0))
	if err != nil {
		t.Fatalf("OpenAuditLog: %v", err)
	}
	yes := true
	start, end := int64(0), int64(10000)
	if err := l.Write(AuditRecord{NowMs: 0, Kind: "breath", Entity: "diver", IsBreathing: &yes, StartMs: &start, EndMs: &end}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := l.Write(AuditRecord{NowMs: 12001, Kind: "damage", Entity: "diver", Amount: 5, Medium: "water"}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := l.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := l.Write(AuditRecord{}); err == nil {
		t.Fatalf("expected write after close to fail")
	}

	if filepath.Base(l.Path()) != "breath-1700000000.jsonl.zst" {
		t.Fatalf("unexpected path %s", l.Path())
	}
	recs, err := ReadAuditLog(l.Path())
	if err != nil {
		t.Fatalf("ReadAuditLog: %v", err)
	}
	if len(recs) != 2 || recs[1].Amount != 5 || recs[1].Medium != "water" || *recs[0].EndMs != 10000 {
		t.Fatalf("unexpected records %+v", recs)
	}
}

func TestPoolConfigSizing(t *testing.T) {
	cfg := config.DatabaseConfig{
		DSN:          "postgres://breathd:pw@db.local:5432/breath?sslmode=disable",
		MaxOpenConns: 0,
		MaxIdleConns: 3,
	}
	pc, err := poolConfig(cfg)
	if err != nil {
		t.Fatalf("poolConfig: %v", err)
	}
	if pc.MaxConns != 1 || pc.MinConns != 1 {
		t.Fatalf("expected 1/1 connections, got max=%d min=%d", pc.MaxConns, pc.MinConns)
	}
	if pc.ConnConfig.Database != "breath" || pc.ConnConfig.Host != "db.local" {
		t.Fatalf("unexpected target %s@%s", pc.ConnConfig.Database, pc.ConnConfig.Host)
	}

	cfg.MaxOpenConns, cfg.MaxIdleConns, cfg.ConnMaxLifetime = 4, -1, time.Minute
	if pc, err = poolConfig(cfg); err != nil {
		t.Fatalf("poolConfig: %v", err)
	}
	if pc.MaxConns != 4 || pc.MinConns != 0 || pc.MaxConnLifetime != time.Minute {
		t.Fatalf("unexpected sizing max=%d min=%d lifetime=%s", pc.MaxConns, pc.MinConns, pc.MaxConnLifetime)
	}

	cfg.DSN = "postgres://%zz"
	if _, err := poolConfig(cfg); err == nil || !strings.Contains(err.Error(), "breath store") {
		t.Fatalf("expected dsn error naming the breath store, got %v", err)
	}
}

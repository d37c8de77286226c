package persist

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/l1jgo/breathing/internal/breath"
)

type SQLiteBreathRepo struct {
	db *sql.DB
}

func NewSQLiteBreathRepo(db *sql.DB) *SQLiteBreathRepo {
	return &SQLiteBreathRepo{db: db}
}

func (r *SQLiteBreathRepo) Save(ctx context.Context, key string, s breath.State) error {
	var next sql.NullInt64
	if p := nextDamageColumn(s); p != nil {
		next = sql.NullInt64{Int64: *p, Valid: true}
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO breath_states (entity_key, is_breathing, start_ms, end_ms, next_damage_ms, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (entity_key) DO UPDATE SET
		     is_breathing = excluded.is_breathing,
		     start_ms = excluded.start_ms,
		     end_ms = excluded.end_ms,
		     next_damage_ms = excluded.next_damage_ms,
		     updated_at = excluded.updated_at`,
		key, s.IsBreathing, s.StartTime, s.EndTime, next, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("save breath %s: %w", key, err)
	}
	return nil
}

func (r *SQLiteBreathRepo) Delete(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM breath_states WHERE entity_key = ?`, key); err != nil {
		return fmt.Errorf("delete breath %s: %w", key, err)
	}
	return nil
}

func (r *SQLiteBreathRepo) Load(ctx context.Context, key string) (*breath.State, error) {
	var (
		isBreathing    bool
		startMs, endMs int64
		next           sql.NullInt64
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT is_breathing, start_ms, end_ms, next_damage_ms
		 FROM breath_states WHERE entity_key = ?`, key,
	).Scan(&isBreathing, &startMs, &endMs, &next)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load breath %s: %w", key, err)
	}
	s := stateFromColumns(isBreathing, startMs, endMs, nullable(next))
	return &s, nil
}

func (r *SQLiteBreathRepo) LoadAll(ctx context.Context) (map[string]breath.State, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT entity_key, is_breathing, start_ms, end_ms, next_damage_ms FROM breath_states`)
	if err != nil {
		return nil, fmt.Errorf("load breath states: %w", err)
	}
	defer rows.Close()

	out := make(map[string]breath.State)
	for rows.Next() {
		var (
			key            string
			isBreathing    bool
			startMs, endMs int64
			next           sql.NullInt64
		)
		if err := rows.Scan(&key, &isBreathing, &startMs, &endMs, &next); err != nil {
			return nil, fmt.Errorf("scan breath state: %w", err)
		}
		out[key] = stateFromColumns(isBreathing, startMs, endMs, nullable(next))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load breath states: %w", err)
	}
	return out, nil
}

func nullable(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	return &v.Int64
}

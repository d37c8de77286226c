package persist

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/l1jgo/breathing/internal/breath"
)

type PostgresBreathRepo struct {
	db *DB
}

func NewPostgresBreathRepo(db *DB) *PostgresBreathRepo {
	return &PostgresBreathRepo{db: db}
}

func (r *PostgresBreathRepo) Save(ctx context.Context, key string, s breath.State) error {
	_, err := r.db.Pool.Exec(ctx,
		`INSERT INTO breath_states (entity_key, is_breathing, start_ms, end_ms, next_damage_ms, updated_at)
		 VALUES ($1, $2, $3, $4, $5, now())
		 ON CONFLICT (entity_key) DO UPDATE SET
		     is_breathing = EXCLUDED.is_breathing,
		     start_ms = EXCLUDED.start_ms,
		     end_ms = EXCLUDED.end_ms,
		     next_damage_ms = EXCLUDED.next_damage_ms,
		     updated_at = now()`,
		key, s.IsBreathing, s.StartTime, s.EndTime, nextDamageColumn(s),
	)
	if err != nil {
		return fmt.Errorf("save breath %s: %w", key, err)
	}
	return nil
}

func (r *PostgresBreathRepo) Delete(ctx context.Context, key string) error {
	if _, err := r.db.Pool.Exec(ctx, `DELETE FROM breath_states WHERE entity_key = $1`, key); err != nil {
		return fmt.Errorf("delete breath %s: %w", key, err)
	}
	return nil
}

func (r *PostgresBreathRepo) Load(ctx context.Context, key string) (*breath.State, error) {
	var (
		isBreathing    bool
		startMs, endMs int64
		nextDamage     *int64
	)
	err := r.db.Pool.QueryRow(ctx,
		`SELECT is_breathing, start_ms, end_ms, next_damage_ms
		 FROM breath_states WHERE entity_key = $1`, key,
	).Scan(&isBreathing, &startMs, &endMs, &nextDamage)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load breath %s: %w", key, err)
	}
	s := stateFromColumns(isBreathing, startMs, endMs, nextDamage)
	return &s, nil
}

func (r *PostgresBreathRepo) LoadAll(ctx context.Context) (map[string]breath.State, error) {
	rows, err := r.db.Pool.Query(ctx,
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
			nextDamage     *int64
		)
		if err := rows.Scan(&key, &isBreathing, &startMs, &endMs, &nextDamage); err != nil {
			return nil, fmt.Errorf("scan breath state: %w", err)
		}
		out[key] = stateFromColumns(isBreathing, startMs, endMs, nextDamage)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load breath states: %w", err)
	}
	return out, nil
}

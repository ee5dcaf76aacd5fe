package persist

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Combat event kinds stored in combat_events.kind.
const (
	KindCast      = "cast"
	KindDamage    = "damage"
	KindDestroyed = "destroyed"
)

// CombatEvent is one row of the combat log.
type CombatEvent struct {
	Tick      uint64
	Kind      string
	Slot      int
	Structure string
	Amount    int
	Remaining int
	X, Z      float64
	At        time.Time
}

// MatchInfo describes one simulation run.
type MatchInfo struct {
	ID         uuid.UUID
	ServerName string
	Layout     string
	Structures int
	StartedAt  time.Time
}

type CombatLogRepo struct {
	db *DB
}

func NewCombatLogRepo(db *DB) *CombatLogRepo {
	return &CombatLogRepo{db: db}
}

// StartMatch records the match header row.
func (r *CombatLogRepo) StartMatch(ctx context.Context, m MatchInfo) error {
	_, err := r.db.Pool.Exec(ctx,
		`INSERT INTO matches (id, server_name, layout, structures, started_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		m.ID, m.ServerName, m.Layout, m.Structures, m.StartedAt,
	)
	if err != nil {
		return fmt.Errorf("start match: %w", err)
	}
	return nil
}

// WriteBatch atomically writes a batch of combat events in a single transaction.
func (r *CombatLogRepo) WriteBatch(ctx context.Context, matchID uuid.UUID, events []CombatEvent) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("combat log begin: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, e := range events {
		if _, err := tx.Exec(ctx,
			`INSERT INTO combat_events (match_id, tick, kind, slot, structure, amount, remaining, pos_x, pos_z, at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			matchID, int64(e.Tick), e.Kind, e.Slot, e.Structure, e.Amount, e.Remaining, e.X, e.Z, e.At,
		); err != nil {
			return fmt.Errorf("combat log insert: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// EndMatch stamps the end time and tick count.
func (r *CombatLogRepo) EndMatch(ctx context.Context, matchID uuid.UUID, ticks uint64, at time.Time) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE matches SET ended_at = $2, ticks = $3 WHERE id = $1`,
		matchID, at, int64(ticks),
	)
	if err != nil {
		return fmt.Errorf("end match: %w", err)
	}
	return nil
}

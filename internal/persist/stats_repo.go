package persist

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// TickStats is one row of per-tick pipeline statistics.
type TickStats struct {
	Tick              uint32
	Entities          int
	CreepsDeleted     int
	MissionsDeleted   int
	OperationsDeleted int
	CleanupSkipped    int
	CascadeIterations int
	CascadeCapReached bool
	Spawned           int
	Renewed           int
	SpawnRejected     int
	SpawnBlocked      int
	SpawnFailed       int
	QueueDepth        uint32
	EnergySpent       uint64
}

type StatsRepo struct {
	db    *DB
	runID uuid.UUID
}

// NewStatsRepo returns a repo stamping every row with runID.
func NewStatsRepo(db *DB, runID uuid.UUID) *StatsRepo {
	return &StatsRepo{db: db, runID: runID}
}

func (r *StatsRepo) RunID() uuid.UUID { return r.runID }

// WriteStats inserts a batch of rows in a single transaction. A re-flushed
// tick overwrites the earlier row.
func (r *StatsRepo) WriteStats(ctx context.Context, rows []TickStats) error {
	if len(rows) == 0 {
		return nil
	}
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("stats begin: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, s := range rows {
		if _, err := tx.Exec(ctx,
			`INSERT INTO tick_stats (run_id, tick, entities, creeps_deleted, missions_deleted, operations_deleted,
			     cleanup_skipped, cascade_iterations, cascade_cap_reached, spawned, renewed,
			     spawn_rejected, spawn_blocked, spawn_failed, queue_depth, energy_spent)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
			 ON CONFLICT (run_id, tick) DO UPDATE SET
			     entities = EXCLUDED.entities,
			     creeps_deleted = EXCLUDED.creeps_deleted,
			     missions_deleted = EXCLUDED.missions_deleted,
			     operations_deleted = EXCLUDED.operations_deleted,
			     cleanup_skipped = EXCLUDED.cleanup_skipped,
			     cascade_iterations = EXCLUDED.cascade_iterations,
			     cascade_cap_reached = EXCLUDED.cascade_cap_reached,
			     spawned = EXCLUDED.spawned,
			     renewed = EXCLUDED.renewed,
			     spawn_rejected = EXCLUDED.spawn_rejected,
			     spawn_blocked = EXCLUDED.spawn_blocked,
			     spawn_failed = EXCLUDED.spawn_failed,
			     queue_depth = EXCLUDED.queue_depth,
			     energy_spent = EXCLUDED.energy_spent`,
			r.runID, int32(s.Tick), s.Entities, s.CreepsDeleted, s.MissionsDeleted, s.OperationsDeleted,
			s.CleanupSkipped, s.CascadeIterations, s.CascadeCapReached, s.Spawned, s.Renewed,
			s.SpawnRejected, s.SpawnBlocked, s.SpawnFailed, int32(s.QueueDepth), int64(s.EnergySpent),
		); err != nil {
			return fmt.Errorf("stats insert tick %d: %w", s.Tick, err)
		}
	}

	return tx.Commit(ctx)
}

// CountTicks returns how many ticks have been recorded for this run.
func (r *StatsRepo) CountTicks(ctx context.Context) (int, error) {
	var n int
	err := r.db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM tick_stats WHERE run_id = $1`, r.runID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count ticks: %w", err)
	}
	return n, nil
}

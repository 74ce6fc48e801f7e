package system

import (
	"context"
	"sort"
	"time"

	"github.com/ibexsim/colony/internal/core/event"
	coresys "github.com/ibexsim/colony/internal/core/system"
	"github.com/ibexsim/colony/internal/persist"
	"go.uber.org/zap"
)

// DefaultMaxPendingStats bounds the rows held while the writer keeps failing.
const DefaultMaxPendingStats = 1024

// StatsWriter persists flushed rows. *persist.StatsRepo implements it.
type StatsWriter interface {
	WriteStats(ctx context.Context, rows []persist.TickStats) error
}

// StatsSource supplies the tick counter and world size.
type StatsSource interface {
	Tick() uint32
	EntityCount() int
}

// StatsSystem aggregates cleanup and spawn events into per-tick rows and
// flushes completed rows every interval ticks. Phase 8 (Persist).
//
// Events of tick N arrive during tick N+1, so a row is only flushed once the
// current tick has moved past it.
type StatsSystem struct {
	source    StatsSource
	writer    StatsWriter // nil keeps totals only
	log       *zap.Logger
	interval  int
	timeout   time.Duration
	tickCount int
	maxRows   int

	rows    map[uint32]*persist.TickStats
	totals  persist.TickStats
	dropped int
}

func NewStatsSystem(bus *event.Bus, source StatsSource, writer StatsWriter, log *zap.Logger, intervalTicks int, timeout time.Duration, maxPending int) *StatsSystem {
	if maxPending < 1 {
		maxPending = DefaultMaxPendingStats
	}
	s := &StatsSystem{
		source:   source,
		writer:   writer,
		log:      log,
		interval: intervalTicks,
		timeout:  timeout,
		maxRows:  maxPending,
		rows:     make(map[uint32]*persist.TickStats),
	}
	event.Subscribe(bus, s.onCleanup)
	event.Subscribe(bus, s.onSpawn)
	event.Subscribe(bus, s.onUnitSpawned)
	return s
}

func (s *StatsSystem) Phase() coresys.Phase { return coresys.PhasePersist }

func (s *StatsSystem) Update(_ time.Duration) {
	s.row(s.source.Tick()).Entities = s.source.EntityCount()

	s.tickCount++
	if s.tickCount < s.interval {
		return
	}
	s.tickCount = 0
	s.flush(func(tick uint32) bool { return tick < s.source.Tick() })
}

// Flush writes every pending row, complete or not. Called on shutdown after
// the final event dispatch.
func (s *StatsSystem) Flush() {
	s.flush(func(uint32) bool { return true })
}

// Totals returns the run-wide sums of every recorded row.
func (s *StatsSystem) Totals() persist.TickStats { return s.totals }

// Pending returns the number of rows not yet flushed.
func (s *StatsSystem) Pending() int { return len(s.rows) }

func (s *StatsSystem) flush(ready func(tick uint32) bool) {
	var batch []persist.TickStats
	for tick, r := range s.rows {
		if ready(tick) {
			batch = append(batch, *r)
		}
	}
	if len(batch) == 0 {
		return
	}
	sort.Slice(batch, func(i, j int) bool { return batch[i].Tick < batch[j].Tick })

	if s.writer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		if err := s.writer.WriteStats(ctx, batch); err != nil {
			// rows stay pending and are retried on the next flush
			s.log.Error("stats flush failed", zap.Int("rows", len(batch)), zap.Error(err))
			s.dropOldest(batch)
			return
		}
	}
	for _, r := range batch {
		delete(s.rows, r.Tick)
	}
	s.log.Debug("stats flushed", zap.Int("rows", len(batch)), zap.Uint32("last_tick", batch[len(batch)-1].Tick))
}

// dropOldest discards the oldest rows of a failed batch once more than
// maxRows are pending. batch is sorted by tick.
func (s *StatsSystem) dropOldest(batch []persist.TickStats) {
	excess := len(s.rows) - s.maxRows
	if excess <= 0 {
		return
	}
	excess = min(excess, len(batch))
	for _, r := range batch[:excess] {
		delete(s.rows, r.Tick)
	}
	s.dropped += excess
	s.log.Warn("stats rows dropped",
		zap.Int("rows", excess),
		zap.Uint32("first_tick", batch[0].Tick),
		zap.Uint32("last_tick", batch[excess-1].Tick),
		zap.Int("dropped_total", s.dropped))
}

// Dropped returns how many rows were discarded unwritten.
func (s *StatsSystem) Dropped() int { return s.dropped }

func (s *StatsSystem) row(tick uint32) *persist.TickStats {
	r, ok := s.rows[tick]
	if !ok {
		r = &persist.TickStats{Tick: tick}
		s.rows[tick] = r
	}
	return r
}

func (s *StatsSystem) onCleanup(e event.CleanupProcessed) {
	r := s.row(e.Tick)
	for _, t := range []*persist.TickStats{r, &s.totals} {
		t.CreepsDeleted += e.Report.Creeps
		t.MissionsDeleted += e.Report.Missions
		t.OperationsDeleted += e.Report.Operations
		t.CleanupSkipped += e.Report.Skipped
		t.CascadeIterations += e.Report.CascadeIterations
		t.CascadeCapReached = t.CascadeCapReached || e.Report.CapReached
	}
}

func (s *StatsSystem) onSpawn(e event.SpawnProcessed) {
	r := s.row(e.Tick)
	for _, t := range []*persist.TickStats{r, &s.totals} {
		t.Spawned += e.Report.Spawned
		t.Renewed += e.Report.Renewed
		t.SpawnRejected += e.Report.Rejected
		t.SpawnBlocked += e.Report.Blocked
		t.SpawnFailed += e.Report.Failed
		t.QueueDepth += e.Snapshot.Total
	}
}

func (s *StatsSystem) onUnitSpawned(e event.UnitSpawned) {
	s.row(e.Tick).EnergySpent += uint64(e.Cost)
	s.totals.EnergySpent += uint64(e.Cost)
}

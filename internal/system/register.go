package system

import (
	"time"

	"github.com/ibexsim/colony/internal/cleanup"
	"github.com/ibexsim/colony/internal/core/command"
	"github.com/ibexsim/colony/internal/core/event"
	coresys "github.com/ibexsim/colony/internal/core/system"
	"github.com/ibexsim/colony/internal/mission"
	"github.com/ibexsim/colony/internal/spawn"
	"github.com/ibexsim/colony/internal/world"
	"go.uber.org/zap"
)

// Deps bundles everything the tick pipeline shares. Queues are owned here
// and passed by reference into each system.
type Deps struct {
	World    *world.State
	Bus      *event.Bus
	Cleanup  *cleanup.Queue
	Spawn    *spawn.Queue
	Commands *command.Queue[mission.Host]
	Policy   mission.Policy // nil falls back to the built-in priorities
	Log      *zap.Logger

	MaxCascadeIterations int
	SpawnSettings        SpawnSettings

	Stats           StatsWriter // nil keeps totals only
	StatsInterval   int
	StatsTimeout    time.Duration
	StatsMaxPending int
}

// Pipeline exposes the systems main needs after registration.
type Pipeline struct {
	Cleanup *EntityCleanupSystem
	Spawn   *SpawnQueueSystem
	Stats   *StatsSystem
}

// NewDeps returns Deps with fresh queues and bus for ws.
func NewDeps(ws *world.State, log *zap.Logger) *Deps {
	return &Deps{
		World:                ws,
		Bus:                  event.NewBus(),
		Cleanup:              cleanup.NewQueue(),
		Spawn:                spawn.NewQueue(),
		Commands:             command.NewQueue[mission.Host](),
		Log:                  log,
		MaxCascadeIterations: DefaultMaxCascadeIterations,
		StatsInterval:        1,
		StatsTimeout:         5 * time.Second,
		StatsMaxPending:      DefaultMaxPendingStats,
	}
}

// RegisterAll builds the full tick pipeline on r.
func RegisterAll(r *coresys.Runner, d *Deps) *Pipeline {
	ws := d.World
	p := &Pipeline{}

	r.Register(NewEventDispatchSystem(d.Bus))

	r.Register(NewRegionUpkeepSystem(ws))
	r.Register(NewCreepLifetimeSystem(ws, d.Cleanup, d.Log))
	r.Register(NewEntityCleanupSystem(coresys.PhasePrepass, "prepass", ws, d.Cleanup, d.Bus, d.Log, d.MaxCascadeIterations))

	r.Register(NewRunOperationSystem(ws, d.Cleanup, d.Commands, d.Log))
	r.Register(NewRunMissionSystem(ws, d.Spawn, d.Cleanup, d.Commands, d.Policy, d.SpawnSettings.TimePerPart, d.Log))
	r.Register(NewRunJobSystem(ws))

	p.Cleanup = NewEntityCleanupSystem(coresys.PhaseCleanup, "main", ws, d.Cleanup, d.Bus, d.Log, d.MaxCascadeIterations)
	r.Register(p.Cleanup)

	p.Spawn = NewSpawnQueueSystem(d.Spawn, ws, ws, d.Bus, d.Log, d.SpawnSettings)
	r.Register(p.Spawn)

	r.Register(NewCommandSystem(ws, d.Commands, d.Log))

	interval := d.StatsInterval
	if interval < 1 {
		interval = 1
	}
	p.Stats = NewStatsSystem(d.Bus, ws, d.Stats, d.Log, interval, d.StatsTimeout, d.StatsMaxPending)
	r.Register(p.Stats)

	return p
}

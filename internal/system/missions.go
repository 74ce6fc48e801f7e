package system

import (
	"time"

	"github.com/ibexsim/colony/internal/cleanup"
	"github.com/ibexsim/colony/internal/core/command"
	"github.com/ibexsim/colony/internal/core/ecs"
	coresys "github.com/ibexsim/colony/internal/core/system"
	"github.com/ibexsim/colony/internal/mission"
	"github.com/ibexsim/colony/internal/spawn"
	"github.com/ibexsim/colony/internal/world"
	"go.uber.org/zap"
)

// RunMissionSystem runs every mission. Missions enqueue production on the
// spawn queue and deletions on the cleanup queue, never acting directly.
// Phase 3 (Missions).
type RunMissionSystem struct {
	world     *world.State
	spawn     *spawn.Queue
	cleanup   *cleanup.Queue
	commands  *command.Queue[mission.Host]
	policy    mission.Policy
	spawnTime int
	log       *zap.Logger
}

func NewRunMissionSystem(ws *world.State, sq *spawn.Queue, cq *cleanup.Queue, commands *command.Queue[mission.Host], policy mission.Policy, spawnTime int, log *zap.Logger) *RunMissionSystem {
	return &RunMissionSystem{
		world:     ws,
		spawn:     sq,
		cleanup:   cq,
		commands:  commands,
		policy:    policy,
		spawnTime: spawnTime,
		log:       log,
	}
}

func (s *RunMissionSystem) Phase() coresys.Phase { return coresys.PhaseMissions }

func (s *RunMissionSystem) Update(_ time.Duration) {
	s.world.Missions().Each(func(id ecs.EntityID, m mission.Mission) {
		ctx := &mission.Context{
			Entity:    id,
			Tick:      s.world.Tick(),
			World:     s.world,
			Spawn:     s.spawn,
			Cleanup:   s.cleanup,
			Commands:  s.commands,
			Policy:    s.policy,
			SpawnTime: s.spawnTime,
			Log:       s.log,
		}
		result, err := m.Run(ctx)
		switch {
		case err != nil:
			s.log.Info("mission failed, cleaning up", zap.Stringer("mission", id), zap.String("state", m.Describe()), zap.Error(err))
			mission.Abort(s.cleanup, id, m)
		case result == mission.Success:
			s.log.Info("mission complete", zap.Stringer("mission", id), zap.String("state", m.Describe()))
			mission.Abort(s.cleanup, id, m)
		}
	})
}

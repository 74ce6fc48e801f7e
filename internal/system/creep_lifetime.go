package system

import (
	"time"

	"github.com/ibexsim/colony/internal/cleanup"
	"github.com/ibexsim/colony/internal/core/ecs"
	coresys "github.com/ibexsim/colony/internal/core/system"
	"github.com/ibexsim/colony/internal/job"
	"github.com/ibexsim/colony/internal/world"
	"go.uber.org/zap"
)

// CreepLifetimeSystem queues units whose life ended or whose owning mission
// is gone. Phase 1 (Prepass), ahead of the cleanup prepass.
type CreepLifetimeSystem struct {
	world *world.State
	queue *cleanup.Queue
	log   *zap.Logger
}

func NewCreepLifetimeSystem(ws *world.State, queue *cleanup.Queue, log *zap.Logger) *CreepLifetimeSystem {
	return &CreepLifetimeSystem{world: ws, queue: queue, log: log}
}

func (s *CreepLifetimeSystem) Phase() coresys.Phase { return coresys.PhasePrepass }

func (s *CreepLifetimeSystem) Update(_ time.Duration) {
	s.world.Jobs().Each(func(id ecs.EntityID, j *job.Job) {
		switch {
		case j.Expired():
			s.queue.DeleteCreep(id)
		case j.Orphaned() || !s.world.Alive(j.Owner()):
			s.log.Debug("recycling orphaned unit", zap.String("name", j.Name), zap.Stringer("creep", id))
			s.queue.DeleteCreep(id)
		}
	})
}

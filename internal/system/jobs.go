package system

import (
	"time"

	"github.com/ibexsim/colony/internal/core/ecs"
	coresys "github.com/ibexsim/colony/internal/core/system"
	"github.com/ibexsim/colony/internal/job"
	"github.com/ibexsim/colony/internal/world"
)

// RunJobSystem ages every unit and lets active harvesters deposit energy in
// their home room. Phase 4 (Jobs).
type RunJobSystem struct {
	world *world.State
}

func NewRunJobSystem(ws *world.State) *RunJobSystem {
	return &RunJobSystem{world: ws}
}

func (s *RunJobSystem) Phase() coresys.Phase { return coresys.PhaseJobs }

func (s *RunJobSystem) Update(_ time.Duration) {
	s.world.Jobs().Each(func(_ ecs.EntityID, j *job.Job) {
		j.Age()
		if out := j.Output(); out > 0 {
			if room, ok := s.world.Room(j.HomeRoom); ok {
				room.Deposit(out)
			}
		}
	})
}

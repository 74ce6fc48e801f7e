package system

import (
	"time"

	"github.com/ibexsim/colony/internal/core/ecs"
	coresys "github.com/ibexsim/colony/internal/core/system"
	"github.com/ibexsim/colony/internal/region"
	"github.com/ibexsim/colony/internal/world"
)

// RegionUpkeepSystem applies passive income and advances facility build
// timers. Phase 1 (Prepass), before anything reads region budgets.
type RegionUpkeepSystem struct {
	world *world.State
}

func NewRegionUpkeepSystem(ws *world.State) *RegionUpkeepSystem {
	return &RegionUpkeepSystem{world: ws}
}

func (s *RegionUpkeepSystem) Phase() coresys.Phase { return coresys.PhasePrepass }

func (s *RegionUpkeepSystem) Update(_ time.Duration) {
	s.world.Rooms().Each(func(_ ecs.EntityID, r *region.Room) {
		r.Upkeep()
	})
}

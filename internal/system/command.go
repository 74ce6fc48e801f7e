package system

import (
	"time"

	"github.com/ibexsim/colony/internal/core/command"
	coresys "github.com/ibexsim/colony/internal/core/system"
	"github.com/ibexsim/colony/internal/mission"
	"github.com/ibexsim/colony/internal/world"
	"go.uber.org/zap"
)

// CommandSystem applies deferred commands (new missions, freshly produced
// units) after the spawn queue has run. Phase 7 (Commands).
type CommandSystem struct {
	world    *world.State
	commands *command.Queue[mission.Host]
	log      *zap.Logger
}

func NewCommandSystem(ws *world.State, commands *command.Queue[mission.Host], log *zap.Logger) *CommandSystem {
	return &CommandSystem{world: ws, commands: commands, log: log}
}

func (s *CommandSystem) Phase() coresys.Phase { return coresys.PhaseCommands }

func (s *CommandSystem) Update(_ time.Duration) {
	if n := s.commands.Flush(s.world); n > 0 {
		s.log.Debug("applied deferred commands", zap.Int("count", n), zap.Uint32("tick", s.world.Tick()))
	}
}

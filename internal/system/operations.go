package system

import (
	"time"

	"github.com/ibexsim/colony/internal/cleanup"
	"github.com/ibexsim/colony/internal/core/command"
	"github.com/ibexsim/colony/internal/core/ecs"
	coresys "github.com/ibexsim/colony/internal/core/system"
	"github.com/ibexsim/colony/internal/mission"
	"github.com/ibexsim/colony/internal/operation"
	"github.com/ibexsim/colony/internal/world"
	"go.uber.org/zap"
)

// RunOperationSystem runs every operation and queues finished or failed
// ones for cleanup. Phase 2 (Operations).
type RunOperationSystem struct {
	world    *world.State
	cleanup  *cleanup.Queue
	commands *command.Queue[mission.Host]
	log      *zap.Logger
}

func NewRunOperationSystem(ws *world.State, cq *cleanup.Queue, commands *command.Queue[mission.Host], log *zap.Logger) *RunOperationSystem {
	return &RunOperationSystem{world: ws, cleanup: cq, commands: commands, log: log}
}

func (s *RunOperationSystem) Phase() coresys.Phase { return coresys.PhaseOperations }

func (s *RunOperationSystem) Update(_ time.Duration) {
	s.world.Operations().Each(func(id ecs.EntityID, o operation.Operation) {
		ctx := &operation.Context{
			Entity:   id,
			Tick:     s.world.Tick(),
			World:    s.world,
			Cleanup:  s.cleanup,
			Commands: s.commands,
			Log:      s.log,
		}
		result, err := o.Run(ctx)
		switch {
		case err != nil:
			s.log.Info("operation failed, cleaning up", zap.Stringer("operation", id), zap.String("state", o.Describe()), zap.Error(err))
			operation.Abort(s.cleanup, id, o)
		case result == operation.Success:
			s.log.Info("operation complete", zap.Stringer("operation", id), zap.String("state", o.Describe()))
			operation.Abort(s.cleanup, id, o)
		}
	})
}

// Package operation holds the closed set of top-level strategies. An
// operation owns missions and is usually itself unowned.
package operation

import (
	"github.com/ibexsim/colony/internal/cleanup"
	"github.com/ibexsim/colony/internal/core/command"
	"github.com/ibexsim/colony/internal/core/ecs"
	"github.com/ibexsim/colony/internal/mission"
	"github.com/ibexsim/colony/internal/ownership"
	"go.uber.org/zap"
)

type Result int

const (
	Running Result = iota
	Success
)

// Operation is implemented by ColonyOperation and ScoutOperation.
type Operation interface {
	ownership.Node
	Run(ctx *Context) (Result, error)
	Describe() string
	isOperation()
}

// Context is passed to Run.
type Context struct {
	Entity   ecs.EntityID
	Tick     uint32
	World    mission.World
	Cleanup  *cleanup.Queue
	Commands *command.Queue[mission.Host]
	Log      *zap.Logger
}

// Abort queues the operation for cleanup.
func Abort(q *cleanup.Queue, entity ecs.EntityID, o Operation) {
	q.DeleteOperation(cleanup.ExtractOperation(entity, o))
}

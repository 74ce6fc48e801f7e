// Package mission holds the closed set of persistent goal-directed units.
// Every mission implements ownership.Node; missions producing units list
// those units among their children.
package mission

import (
	"github.com/ibexsim/colony/internal/cleanup"
	"github.com/ibexsim/colony/internal/core/command"
	"github.com/ibexsim/colony/internal/core/ecs"
	"github.com/ibexsim/colony/internal/job"
	"github.com/ibexsim/colony/internal/ownership"
	"github.com/ibexsim/colony/internal/region"
	"github.com/ibexsim/colony/internal/scripting"
	"github.com/ibexsim/colony/internal/spawn"
	"go.uber.org/zap"
)

// Result of one mission run.
type Result int

const (
	Running Result = iota
	Success
)

// Mission is implemented by ColonyMission, LocalSupplyMission and ScoutMission.
type Mission interface {
	ownership.Node
	Room() ecs.EntityID
	// RemoveCreep forgets a unit that is about to be deleted.
	RemoveCreep(creep ecs.EntityID)
	Run(ctx *Context) (Result, error)
	Describe() string
	isMission()
}

// World is the read side missions see during a run.
type World interface {
	Alive(id ecs.EntityID) bool
	Room(id ecs.EntityID) (*region.Room, bool)
	Job(id ecs.EntityID) (*job.Job, bool)
}

// Host is the target of deferred commands.
type Host interface {
	World
	// CreateMission allocates an entity for m and attaches it to m's room.
	CreateMission(m Mission) ecs.EntityID
	// CreateCreep allocates an entity for a freshly produced unit.
	CreateCreep(name string, j *job.Job) ecs.EntityID
}

// Policy answers spawn sizing and priority questions. scripting.Engine
// implements it.
type Policy interface {
	CalcSpawnPriority(ctx scripting.PriorityContext) float32
	DesiredHarvesters(energyCapacity int, fallback int) int
}

type defaultPolicy struct{}

func (defaultPolicy) CalcSpawnPriority(ctx scripting.PriorityContext) float32 {
	return scripting.DefaultSpawnPriority(ctx)
}

func (defaultPolicy) DesiredHarvesters(_ int, fallback int) int { return fallback }

// Context is passed to Run. All queues are this tick's.
type Context struct {
	Entity    ecs.EntityID
	Tick      uint32
	World     World
	Spawn     *spawn.Queue
	Cleanup   *cleanup.Queue
	Commands  *command.Queue[Host]
	Policy    Policy // nil = built-in defaults
	SpawnTime int    // ticks per body part
	Log       *zap.Logger
}

func (ctx *Context) policy() Policy {
	if ctx.Policy == nil {
		return defaultPolicy{}
	}
	return ctx.Policy
}

// Abort queues the mission for cleanup with a snapshot of its current links.
func Abort(q *cleanup.Queue, entity ecs.EntityID, m Mission) {
	q.DeleteMission(cleanup.ExtractMission(entity, m))
}

// base carries the owner, room and produced units every mission has.
type base struct {
	ownership.OwnerRef
	room   ecs.EntityID
	creeps ownership.ChildList
}

func newBase(owner, room ecs.EntityID) base {
	return base{OwnerRef: ownership.NewOwnerRef(owner), room: room}
}

func (b *base) Room() ecs.EntityID { return b.room }

func (b *base) Children() []ecs.EntityID { return b.creeps.IDs() }

func (b *base) ChildComplete(child ecs.EntityID) { b.creeps.Remove(child) }

func (b *base) RemoveCreep(creep ecs.EntityID) { b.creeps.Remove(creep) }

// Creeps returns the units this mission tracks.
func (b *base) Creeps() []ecs.EntityID { return b.creeps.IDs() }

// AddCreep records a unit produced for this mission.
func (b *base) AddCreep(creep ecs.EntityID) { b.creeps.Add(creep) }

// pruneCreeps drops handles to units that no longer exist.
func (b *base) pruneCreeps(w World) {
	for _, id := range b.creeps.IDs() {
		if !w.Alive(id) {
			b.creeps.Remove(id)
		}
	}
}

// spawnCreep builds the callback that attaches job state to a produced unit.
// The mission pointer is captured; liveness of self is rechecked when the
// command runs.
func spawnCreep(ctx *Context, self ecs.EntityID, b *base, kind job.Kind, home ecs.EntityID, body []spawn.Part, dock string) spawn.Callback {
	commands := ctx.Commands
	spawnTicks := len(body) * ctx.SpawnTime
	return func(name string) {
		commands.Push(func(h Host) {
			owner := self
			if !h.Alive(self) {
				owner = ecs.None
			}
			j := job.New(kind, owner, home, name, body, spawnTicks)
			j.Dock = dock
			id := h.CreateCreep(name, j)
			if !owner.IsZero() {
				b.AddCreep(id)
			}
		})
	}
}

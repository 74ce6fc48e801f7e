package operation

import (
	"fmt"

	"github.com/ibexsim/colony/internal/core/ecs"
	"github.com/ibexsim/colony/internal/mission"
	"github.com/ibexsim/colony/internal/ownership"
)

// ScoutTarget is one room to explore and the rooms allowed to send scouts.
type ScoutTarget struct {
	Room    string
	Homes   []ecs.EntityID
	Urgency float64
}

// ScoutOperation runs one ScoutMission per target and succeeds once every
// target's mission has finished.
type ScoutOperation struct {
	ownership.OwnerRef

	targets  []ScoutTarget
	missions map[string]ecs.EntityID
	pending  map[string]bool
	done     map[string]bool
}

func NewScoutOperation(targets []ScoutTarget) *ScoutOperation {
	t := make([]ScoutTarget, len(targets))
	copy(t, targets)
	return &ScoutOperation{
		targets:  t,
		missions: make(map[string]ecs.EntityID),
		pending:  make(map[string]bool),
		done:     make(map[string]bool),
	}
}

func (o *ScoutOperation) isOperation() {}

func (o *ScoutOperation) Describe() string {
	return fmt.Sprintf("Scout - Targets: %d - Done: %d", len(o.targets), len(o.done))
}

// Done reports whether target's mission has completed.
func (o *ScoutOperation) Done(target string) bool { return o.done[target] }

func (o *ScoutOperation) Children() []ecs.EntityID {
	out := make([]ecs.EntityID, 0, len(o.missions))
	for _, t := range o.targets {
		if m, ok := o.missions[t.Room]; ok {
			out = append(out, m)
		}
	}
	return out
}

func (o *ScoutOperation) ChildComplete(child ecs.EntityID) {
	for room, m := range o.missions {
		if m == child {
			delete(o.missions, room)
			o.done[room] = true
		}
	}
}

func (o *ScoutOperation) Run(ctx *Context) (Result, error) {
	if len(o.done) >= len(o.targets) {
		return Success, nil
	}
	self := ctx.Entity
	for _, t := range o.targets {
		if o.done[t.Room] || o.pending[t.Room] {
			continue
		}
		if m, ok := o.missions[t.Room]; ok && ctx.World.Alive(m) {
			continue
		}
		o.pending[t.Room] = true
		t := t
		ctx.Commands.Push(func(h mission.Host) {
			delete(o.pending, t.Room)
			if !h.Alive(self) {
				return
			}
			o.missions[t.Room] = h.CreateMission(mission.NewScoutMission(self, t.Room, t.Homes, t.Urgency))
		})
	}
	return Running, nil
}

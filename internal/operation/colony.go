package operation

import (
	"errors"
	"fmt"

	"github.com/ibexsim/colony/internal/core/ecs"
	"github.com/ibexsim/colony/internal/mission"
	"github.com/ibexsim/colony/internal/ownership"
)

var errNoRooms = errors.New("colony operation has no rooms left")

// ColonyOperation runs one ColonyMission per owned room.
type ColonyOperation struct {
	ownership.OwnerRef

	rooms    []ecs.EntityID
	missions map[ecs.EntityID]ecs.EntityID // room → colony mission
	pending  map[ecs.EntityID]bool
}

func NewColonyOperation(rooms []ecs.EntityID) *ColonyOperation {
	r := make([]ecs.EntityID, len(rooms))
	copy(r, rooms)
	return &ColonyOperation{
		rooms:    r,
		missions: make(map[ecs.EntityID]ecs.EntityID, len(rooms)),
		pending:  make(map[ecs.EntityID]bool, len(rooms)),
	}
}

func (o *ColonyOperation) isOperation() {}

func (o *ColonyOperation) Describe() string {
	return fmt.Sprintf("Colony - Rooms: %d - Missions: %d", len(o.rooms), len(o.missions))
}

// Mission returns the colony mission for room, if any.
func (o *ColonyOperation) Mission(room ecs.EntityID) (ecs.EntityID, bool) {
	m, ok := o.missions[room]
	return m, ok
}

func (o *ColonyOperation) Children() []ecs.EntityID {
	out := make([]ecs.EntityID, 0, len(o.missions))
	for _, room := range o.rooms {
		if m, ok := o.missions[room]; ok {
			out = append(out, m)
		}
	}
	return out
}

func (o *ColonyOperation) ChildComplete(child ecs.EntityID) {
	for room, m := range o.missions {
		if m == child {
			delete(o.missions, room)
		}
	}
}

func (o *ColonyOperation) Run(ctx *Context) (Result, error) {
	live := o.rooms[:0]
	for _, room := range o.rooms {
		if _, ok := ctx.World.Room(room); ok {
			live = append(live, room)
		} else {
			delete(o.missions, room)
		}
	}
	o.rooms = live
	if len(o.rooms) == 0 {
		return Running, errNoRooms
	}

	self := ctx.Entity
	for _, room := range o.rooms {
		if m, ok := o.missions[room]; ok && ctx.World.Alive(m) {
			continue
		}
		delete(o.missions, room)
		if o.pending[room] {
			continue
		}
		o.pending[room] = true
		room := room
		ctx.Commands.Push(func(h mission.Host) {
			delete(o.pending, room)
			if !h.Alive(self) {
				return
			}
			o.missions[room] = h.CreateMission(mission.NewColonyMission(self, room))
		})
	}
	return Running, nil
}

package mission

import (
	"fmt"

	"github.com/ibexsim/colony/internal/core/ecs"
)

// ColonyMission keeps an owned room staffed. It owns one LocalSupplyMission.
type ColonyMission struct {
	base

	supply  ecs.EntityID
	pending bool // supply creation command queued
}

func NewColonyMission(owner, room ecs.EntityID) *ColonyMission {
	return &ColonyMission{base: newBase(owner, room)}
}

func (m *ColonyMission) isMission() {}

// Supply returns the child supply mission, if any.
func (m *ColonyMission) Supply() ecs.EntityID { return m.supply }

func (m *ColonyMission) Children() []ecs.EntityID {
	children := m.base.Children()
	if !m.supply.IsZero() {
		children = append(children, m.supply)
	}
	return children
}

func (m *ColonyMission) ChildComplete(child ecs.EntityID) {
	if child == m.supply {
		m.supply = ecs.None
		return
	}
	m.base.ChildComplete(child)
}

func (m *ColonyMission) Describe() string {
	return fmt.Sprintf("Colony - Supply: %s", m.supply)
}

func (m *ColonyMission) Run(ctx *Context) (Result, error) {
	if _, ok := ctx.World.Room(m.room); !ok {
		return Running, fmt.Errorf("colony %s: room %s gone", ctx.Entity, m.room)
	}
	if !m.supply.IsZero() && !ctx.World.Alive(m.supply) {
		m.supply = ecs.None
	}
	if m.supply.IsZero() && !m.pending {
		m.pending = true
		self := ctx.Entity
		room := m.room
		ctx.Commands.Push(func(h Host) {
			if !h.Alive(self) {
				return
			}
			m.supply = h.CreateMission(NewLocalSupplyMission(self, room))
			m.pending = false
		})
	}
	return Running, nil
}

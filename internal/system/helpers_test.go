package system

import (
	"testing"

	"github.com/ibexsim/colony/internal/cleanup"
	"github.com/ibexsim/colony/internal/core/ecs"
	"github.com/ibexsim/colony/internal/core/event"
	coresys "github.com/ibexsim/colony/internal/core/system"
	"github.com/ibexsim/colony/internal/mission"
	"github.com/ibexsim/colony/internal/ownership"
	"github.com/ibexsim/colony/internal/region"
	"github.com/ibexsim/colony/internal/world"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// linkedMission is a local supply mission with extra mission children, used
// to build arbitrary (including cyclic) ownership graphs.
type linkedMission struct {
	*mission.LocalSupplyMission
	links    ownership.ChildList
	notified *[]string
	name     string
}

func (m *linkedMission) Children() []ecs.EntityID {
	return append(m.LocalSupplyMission.Children(), m.links.IDs()...)
}

func (m *linkedMission) ChildComplete(child ecs.EntityID) {
	*m.notified = append(*m.notified, "child_complete:"+m.name)
	if !m.links.Remove(child) {
		m.LocalSupplyMission.ChildComplete(child)
	}
}

func (m *linkedMission) OwnerComplete(owner ecs.EntityID) error {
	*m.notified = append(*m.notified, "owner_complete:"+m.name)
	return m.LocalSupplyMission.OwnerComplete(owner)
}

type cleanupFixture struct {
	ws       *world.State
	room     ecs.EntityID
	queue    *cleanup.Queue
	bus      *event.Bus
	sys      *EntityCleanupSystem
	logs     *observer.ObservedLogs
	notified []string
}

func newCleanupFixture(t *testing.T) *cleanupFixture {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	ws := world.NewState(3)
	f := &cleanupFixture{
		ws:    ws,
		room:  ws.CreateRoom(region.NewRoom("W1N1", 300)),
		queue: cleanup.NewQueue(),
		bus:   event.NewBus(),
		logs:  logs,
	}
	f.sys = NewEntityCleanupSystem(coresys.PhaseCleanup, "main", ws, f.queue, f.bus, zap.New(core), DefaultMaxCascadeIterations)
	return f
}

// linked creates a linkedMission owned by owner (None for a root).
func (f *cleanupFixture) linked(t *testing.T, name string, owner ecs.EntityID) (ecs.EntityID, *linkedMission) {
	t.Helper()
	m := &linkedMission{
		LocalSupplyMission: mission.NewLocalSupplyMission(owner, f.room),
		notified:           &f.notified,
		name:               name,
	}
	id := f.ws.CreateMission(m)
	if !owner.IsZero() {
		parent, ok := f.ws.Mission(owner)
		require.True(t, ok)
		parent.(*linkedMission).links.Add(id)
	}
	return id, m
}

func (f *cleanupFixture) abort(t *testing.T, id ecs.EntityID) {
	t.Helper()
	m, ok := f.ws.Mission(id)
	require.True(t, ok)
	mission.Abort(f.queue, id, m)
}

// deletedMissions returns mission handles in deletion order.
func (f *cleanupFixture) deletedMissions() []string {
	var out []string
	for _, e := range f.logs.FilterMessage("mission deleted").All() {
		out = append(out, e.ContextMap()["mission"].(string))
	}
	return out
}

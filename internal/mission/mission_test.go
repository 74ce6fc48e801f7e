package mission_test

import (
	"testing"

	"github.com/ibexsim/colony/internal/cleanup"
	"github.com/ibexsim/colony/internal/core/command"
	"github.com/ibexsim/colony/internal/core/ecs"
	"github.com/ibexsim/colony/internal/job"
	"github.com/ibexsim/colony/internal/mission"
	"github.com/ibexsim/colony/internal/region"
	"github.com/ibexsim/colony/internal/spawn"
	"github.com/ibexsim/colony/internal/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixture struct {
	ws       *world.State
	room     ecs.EntityID
	spawn    *spawn.Queue
	cleanup  *cleanup.Queue
	commands *command.Queue[mission.Host]
}

func newFixture(t *testing.T, capacity, available uint32) *fixture {
	t.Helper()
	ws := world.NewState(3)
	r := region.NewRoom("W1N1", capacity)
	r.EnergyAvailable = available
	room := ws.CreateRoom(r)
	_, err := ws.AddSpawner(room, "Spawn1")
	require.NoError(t, err)
	return &fixture{
		ws:       ws,
		room:     room,
		spawn:    spawn.NewQueue(),
		cleanup:  cleanup.NewQueue(),
		commands: command.NewQueue[mission.Host](),
	}
}

func (f *fixture) ctx(entity ecs.EntityID) *mission.Context {
	return &mission.Context{
		Entity:    entity,
		Tick:      f.ws.Tick(),
		World:     f.ws,
		Spawn:     f.spawn,
		Cleanup:   f.cleanup,
		Commands:  f.commands,
		SpawnTime: 3,
		Log:       zap.NewNop(),
	}
}

func TestLocalSupplyRequestsHarvester(t *testing.T) {
	f := newFixture(t, 550, 300)
	m := mission.NewLocalSupplyMission(ecs.None, f.room)
	id := f.ws.CreateMission(m)

	res, err := m.Run(f.ctx(id))
	require.NoError(t, err)
	assert.Equal(t, mission.Running, res)

	reqs := f.spawn.Requests(f.room)
	require.Len(t, reqs, 1)
	req := reqs[0]
	assert.Equal(t, "Harvester - Room: W1N1", req.Description())
	assert.Equal(t, spawn.PriorityCritical, req.Priority())
	// sized to what the room holds when nothing is alive
	assert.Equal(t, []spawn.Part{spawn.Work, spawn.Carry, spawn.Move}, req.Body())

	req.Complete("0-0")
	assert.Empty(t, m.Children(), "unit attaches only when commands flush")
	assert.Equal(t, 1, f.commands.Flush(f.ws))

	children := m.Children()
	require.Len(t, children, 1)
	j, ok := f.ws.Job(children[0])
	require.True(t, ok)
	assert.Equal(t, id, j.Owner())
	assert.Equal(t, f.room, j.HomeRoom)
	assert.Equal(t, "Spawn1", j.Dock)
	assert.Equal(t, 9, j.SpawnTicks)
	assert.Equal(t, job.Harvest, j.Kind)
}

func TestLocalSupplyRequestsRenewForDyingUnits(t *testing.T) {
	f := newFixture(t, 550, 550)
	m := mission.NewLocalSupplyMission(ecs.None, f.room)
	id := f.ws.CreateMission(m)

	body := []spawn.Part{spawn.Work, spawn.Carry, spawn.Move}
	for i, ttl := range []uint32{100, 1000} {
		j := job.New(job.Harvest, id, f.room, string(rune('a'+i)), body, 0)
		j.TicksToLive = ttl
		j.Dock = "Spawn1"
		m.AddCreep(f.ws.CreateCreep(j.Name, j))
	}

	_, err := m.Run(f.ctx(id))
	require.NoError(t, err)

	renews := f.spawn.Renews(f.room)
	require.Len(t, renews, 1)
	assert.Equal(t, uint32(100), renews[0].TicksToLive)
	assert.Equal(t, uint32(200), renews[0].BodyCost)
	assert.Equal(t, "Spawn1", renews[0].Facility)
	assert.Empty(t, f.spawn.Requests(f.room), "two harvesters is enough")
}

func TestSpawnedUnitOfDeadMissionIsOrphaned(t *testing.T) {
	f := newFixture(t, 550, 300)
	m := mission.NewLocalSupplyMission(ecs.None, f.room)
	id := f.ws.CreateMission(m)
	_, err := m.Run(f.ctx(id))
	require.NoError(t, err)

	f.spawn.Requests(f.room)[0].Complete("0-0")
	require.NoError(t, f.ws.DeleteEntity(id))
	f.commands.Flush(f.ws)

	var orphans int
	f.ws.Jobs().Each(func(_ ecs.EntityID, j *job.Job) {
		if j.Orphaned() {
			orphans++
		}
	})
	assert.Equal(t, 1, orphans)
	assert.Empty(t, m.Children())
}

func TestLocalSupplyFailsWithoutRoom(t *testing.T) {
	f := newFixture(t, 550, 300)
	m := mission.NewLocalSupplyMission(ecs.None, f.room)
	id := f.ws.CreateMission(m)
	require.NoError(t, f.ws.DeleteEntity(f.room))

	_, err := m.Run(f.ctx(id))
	assert.Error(t, err)
}

func TestColonyMissionCreatesSupply(t *testing.T) {
	f := newFixture(t, 550, 300)
	m := mission.NewColonyMission(ecs.None, f.room)
	id := f.ws.CreateMission(m)

	_, err := m.Run(f.ctx(id))
	require.NoError(t, err)
	_, err = m.Run(f.ctx(id))
	require.NoError(t, err)
	assert.Equal(t, 1, f.commands.Flush(f.ws), "one creation queued while pending")

	supply := m.Supply()
	require.False(t, supply.IsZero())
	assert.Equal(t, []ecs.EntityID{supply}, m.Children())
	child, ok := f.ws.Mission(supply)
	require.True(t, ok)
	assert.Equal(t, id, child.Owner())

	r, _ := f.ws.Room(f.room)
	assert.True(t, r.HasMission(id))
	assert.True(t, r.HasMission(supply))

	m.ChildComplete(supply)
	assert.True(t, m.Supply().IsZero())
	assert.Empty(t, m.Children())
}

func TestScoutMissionSharesTokenAcrossHomes(t *testing.T) {
	f := newFixture(t, 550, 300)
	other := f.ws.CreateRoom(region.NewRoom("W2N1", 300))
	m := mission.NewScoutMission(ecs.None, "W3N1", []ecs.EntityID{f.room, other}, 0.95)
	id := f.ws.CreateMission(m)
	assert.Equal(t, f.room, m.Room())

	_, err := m.Run(f.ctx(id))
	require.NoError(t, err)

	a, b := f.spawn.Requests(f.room), f.spawn.Requests(other)
	require.Len(t, a, 1)
	require.Len(t, b, 1)
	ta, okA := a[0].Token()
	tb, okB := b[0].Token()
	assert.True(t, okA && okB)
	assert.Equal(t, ta, tb)
	assert.Equal(t, spawn.PriorityHigh, a[0].Priority())
	assert.Equal(t, []spawn.Part{spawn.Move}, a[0].Body())
}

func TestScoutMissionSucceedsAfterObserving(t *testing.T) {
	f := newFixture(t, 550, 300)
	m := mission.NewScoutMission(ecs.None, "W3N1", []ecs.EntityID{f.room}, 0.5)
	id := f.ws.CreateMission(m)

	j := job.New(job.Scout, id, f.room, "scout", []spawn.Part{spawn.Move}, 0)
	m.AddCreep(f.ws.CreateCreep(j.Name, j))

	for i := 1; i < mission.ScoutTicks; i++ {
		res, err := m.Run(f.ctx(id))
		require.NoError(t, err)
		require.Equal(t, mission.Running, res)
	}
	res, err := m.Run(f.ctx(id))
	require.NoError(t, err)
	assert.Equal(t, mission.Success, res)
	assert.Zero(t, f.spawn.Len(), "no requests while a scout is out")
	assert.Contains(t, m.Describe(), "W3N1")
}

func TestScoutMissionWithoutHomesFails(t *testing.T) {
	f := newFixture(t, 550, 300)
	m := mission.NewScoutMission(ecs.None, "W3N1", nil, 1)
	_, err := m.Run(f.ctx(ecs.NewEntityID(99, 0)))
	assert.Error(t, err)
}

func TestAbortSnapshotsMission(t *testing.T) {
	f := newFixture(t, 550, 300)
	owner := ecs.NewEntityID(42, 0)
	m := mission.NewLocalSupplyMission(owner, f.room)
	id := f.ws.CreateMission(m)

	mission.Abort(f.cleanup, id, m)
	entries := f.cleanup.Drain()
	require.Len(t, entries, 1)
	mc, ok := entries[0].(cleanup.MissionCleanup)
	require.True(t, ok)
	assert.Equal(t, id, mc.Entity)
	assert.Equal(t, owner, mc.Owner)
	assert.Equal(t, f.room, mc.Room)
}

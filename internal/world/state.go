package world

import (
	"errors"
	"fmt"

	"github.com/ibexsim/colony/internal/core/ecs"
	"github.com/ibexsim/colony/internal/job"
	"github.com/ibexsim/colony/internal/mission"
	"github.com/ibexsim/colony/internal/operation"
	"github.com/ibexsim/colony/internal/ownership"
	"github.com/ibexsim/colony/internal/region"
	"github.com/ibexsim/colony/internal/spawn"
)

var (
	ErrUnknownRoom = errors.New("unknown room")
	ErrNoJob       = errors.New("entity has no job")
	ErrWrongKind   = errors.New("entity is not of the expected kind")
)

// Component kinds, as registered with the entity registry.
const (
	KindRoom      = "room"
	KindMission   = "mission"
	KindOperation = "operation"
	KindCreep     = "creep"
)

// State holds the simulated world: the entity arena, component stores and
// the unit name registry. Accessed only from the game loop goroutine, no
// locks needed.
type State struct {
	ecs  *ecs.World
	tick uint32

	rooms      *ecs.Store[*region.Room]
	missions   *ecs.Store[mission.Mission]
	operations *ecs.Store[operation.Operation]
	jobs       *ecs.Store[*job.Job]

	roomNames map[string]ecs.EntityID
	names     map[string]ecs.EntityID // unit name → creep; None while in production
	spawnTime int
}

// NewState creates an empty world. spawnTimePerPart sets facility build time.
func NewState(spawnTimePerPart int) *State {
	s := &State{
		ecs:        ecs.NewWorld(),
		rooms:      ecs.NewStore[*region.Room](),
		missions:   ecs.NewStore[mission.Mission](),
		operations: ecs.NewStore[operation.Operation](),
		jobs:       ecs.NewStore[*job.Job](),
		roomNames:  make(map[string]ecs.EntityID),
		names:      make(map[string]ecs.EntityID),
		spawnTime:  spawnTimePerPart,
	}
	reg := s.ecs.Registry()
	reg.Register(KindRoom, s.rooms)
	reg.Register(KindMission, s.missions)
	reg.Register(KindOperation, s.operations)
	reg.Register(KindCreep, s.jobs)
	return s
}

func (s *State) Tick() uint32 { return s.tick }

// Advance moves to the next tick.
func (s *State) Advance() { s.tick++ }

func (s *State) Alive(id ecs.EntityID) bool { return s.ecs.Alive(id) }

// EntityCount returns the number of live entities.
func (s *State) EntityCount() int { return s.ecs.Pool().Len() }

func (s *State) Rooms() *ecs.Store[*region.Room]             { return s.rooms }
func (s *State) Missions() *ecs.Store[mission.Mission]       { return s.missions }
func (s *State) Operations() *ecs.Store[operation.Operation] { return s.operations }
func (s *State) Jobs() *ecs.Store[*job.Job]                  { return s.jobs }

// ── Rooms ─────────────────────────────────────────────────────────

// CreateRoom registers a room entity.
func (s *State) CreateRoom(r *region.Room) ecs.EntityID {
	id := s.ecs.CreateEntity()
	s.rooms.Set(id, r)
	s.roomNames[r.Name] = id
	return id
}

// AddSpawner attaches a new simulated facility to room.
func (s *State) AddSpawner(room ecs.EntityID, name string) (*region.Spawner, error) {
	r, ok := s.rooms.Get(room)
	if !ok {
		return nil, fmt.Errorf("add spawner %s to %s: %w", name, room, ErrUnknownRoom)
	}
	sp := region.NewSpawner(name, s, s, s.spawnTime)
	r.AddSpawner(sp)
	return sp, nil
}

func (s *State) Room(id ecs.EntityID) (*region.Room, bool) { return s.rooms.Get(id) }

func (s *State) RoomByName(name string) (ecs.EntityID, bool) {
	id, ok := s.roomNames[name]
	if !ok || !s.Alive(id) {
		return ecs.None, false
	}
	return id, true
}

// RegionSnapshot implements spawn.Registry.
func (s *State) RegionSnapshot(room ecs.EntityID) (spawn.RegionSnapshot, error) {
	r, ok := s.rooms.Get(room)
	if !ok {
		return spawn.RegionSnapshot{}, fmt.Errorf("region snapshot %s: %w", room, ErrUnknownRoom)
	}
	idle := r.IdleSpawners()
	facilities := make([]spawn.Facility, len(idle))
	for i, sp := range idle {
		facilities[i] = sp
	}
	return spawn.RegionSnapshot{
		Name:            r.Name,
		Facilities:      facilities,
		EnergyAvailable: r.EnergyAvailable,
		EnergyCapacity:  r.EnergyCapacity,
		StoredEnergy:    r.StoredEnergy,
	}, nil
}

// ── Missions / operations ─────────────────────────────────────────

// CreateMission implements mission.Host.
func (s *State) CreateMission(m mission.Mission) ecs.EntityID {
	id := s.ecs.CreateEntity()
	s.missions.Set(id, m)
	if r, ok := s.rooms.Get(m.Room()); ok {
		r.AddMission(id)
	}
	return id
}

func (s *State) CreateOperation(o operation.Operation) ecs.EntityID {
	id := s.ecs.CreateEntity()
	s.operations.Set(id, o)
	return id
}

func (s *State) Mission(id ecs.EntityID) (mission.Mission, bool) { return s.missions.Get(id) }

func (s *State) Operation(id ecs.EntityID) (operation.Operation, bool) {
	return s.operations.Get(id)
}

// Node returns the owner/children view of a mission or operation.
func (s *State) Node(id ecs.EntityID) (ownership.Node, bool) {
	if o, ok := s.operations.Get(id); ok {
		return o, true
	}
	if m, ok := s.missions.Get(id); ok {
		return m, true
	}
	return nil, false
}

// Owned returns the owner view of an operation, mission or job.
func (s *State) Owned(id ecs.EntityID) (ownership.Owned, bool) {
	if n, ok := s.Node(id); ok {
		return n, true
	}
	if j, ok := s.jobs.Get(id); ok {
		return j, true
	}
	return nil, false
}

// ── Units ─────────────────────────────────────────────────────────

// CreateCreep implements mission.Host.
func (s *State) CreateCreep(name string, j *job.Job) ecs.EntityID {
	id := s.ecs.CreateEntity()
	s.jobs.Set(id, j)
	s.names[name] = id
	return id
}

func (s *State) Job(id ecs.EntityID) (*job.Job, bool) { return s.jobs.Get(id) }

// NameTaken implements region.Names.
func (s *State) NameTaken(name string) bool {
	_, ok := s.names[name]
	return ok
}

// ReserveName implements region.Names.
func (s *State) ReserveName(name string) {
	if _, ok := s.names[name]; !ok {
		s.names[name] = ecs.None
	}
}

// ExtendLife implements region.LifeExtender.
func (s *State) ExtendLife(creep ecs.EntityID) error {
	j, ok := s.jobs.Get(creep)
	if !ok {
		return fmt.Errorf("extend life %s: %w", creep, ErrNoJob)
	}
	j.Extend()
	return nil
}

// Is reports whether id carries a component of kind.
func (s *State) Is(id ecs.EntityID, kind string) bool { return s.ecs.Registry().Is(id, kind) }

// Kinds lists the component kinds id carries.
func (s *State) Kinds(id ecs.EntityID) []string { return s.ecs.Registry().Kinds(id) }

// ComponentsRemoved is the running total of components stripped by deletes.
func (s *State) ComponentsRemoved() int { return s.ecs.Registry().Removed() }

// DeleteEntityOf removes id only if it carries a component of kind. A live
// entity of another kind is left untouched and ErrWrongKind is returned.
func (s *State) DeleteEntityOf(id ecs.EntityID, kind string) error {
	if s.Alive(id) && !s.Is(id, kind) {
		return fmt.Errorf("delete %s as %s (has %v): %w", id, kind, s.Kinds(id), ErrWrongKind)
	}
	return s.DeleteEntity(id)
}

// DeleteEntity removes id and every component it carries.
func (s *State) DeleteEntity(id ecs.EntityID) error {
	if j, ok := s.jobs.Get(id); ok && s.names[j.Name] == id {
		delete(s.names, j.Name)
	}
	if r, ok := s.rooms.Get(id); ok && s.roomNames[r.Name] == id {
		delete(s.roomNames, r.Name)
	}
	return s.ecs.DeleteEntity(id)
}

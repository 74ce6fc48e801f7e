package region

import "github.com/ibexsim/colony/internal/core/ecs"

// Room is the per-region component: the missions attached to it, the energy
// budget production draws from, and its facilities.
type Room struct {
	Name            string
	EnergyAvailable uint32
	EnergyCapacity  uint32
	StoredEnergy    uint32
	Income          uint32 // passive energy per tick

	missions []ecs.EntityID
	spawners []*Spawner
}

func NewRoom(name string, capacity uint32) *Room {
	return &Room{Name: name, EnergyCapacity: capacity}
}

// Missions returns a copy of the attached mission handles.
func (r *Room) Missions() []ecs.EntityID {
	out := make([]ecs.EntityID, len(r.missions))
	copy(out, r.missions)
	return out
}

func (r *Room) AddMission(mission ecs.EntityID) {
	r.missions = append(r.missions, mission)
}

func (r *Room) RemoveMission(mission ecs.EntityID) {
	n := 0
	for _, m := range r.missions {
		if m != mission {
			r.missions[n] = m
			n++
		}
	}
	r.missions = r.missions[:n]
}

func (r *Room) HasMission(mission ecs.EntityID) bool {
	for _, m := range r.missions {
		if m == mission {
			return true
		}
	}
	return false
}

func (r *Room) AddSpawner(s *Spawner) {
	s.room = r
	r.spawners = append(r.spawners, s)
}

func (r *Room) Spawners() []*Spawner { return r.spawners }

// IdleSpawners lists spawners free to start production this tick.
func (r *Room) IdleSpawners() []*Spawner {
	out := make([]*Spawner, 0, len(r.spawners))
	for _, s := range r.spawners {
		if s.Idle() {
			out = append(out, s)
		}
	}
	return out
}

// Deposit adds energy to the spawn budget, overflowing into storage.
func (r *Room) Deposit(amount uint32) {
	space := r.EnergyCapacity - min(r.EnergyAvailable, r.EnergyCapacity)
	fill := min(amount, space)
	r.EnergyAvailable += fill
	r.StoredEnergy += amount - fill
}

// Upkeep applies passive income and advances facilities one tick.
func (r *Room) Upkeep() {
	r.Deposit(r.Income)
	for _, s := range r.spawners {
		s.tick()
	}
}

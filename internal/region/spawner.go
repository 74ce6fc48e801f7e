package region

import (
	"fmt"

	"github.com/ibexsim/colony/internal/core/ecs"
	"github.com/ibexsim/colony/internal/spawn"
)

// MaxBodyParts caps the size of a produced unit.
const MaxBodyParts = 50

// Names tracks unit names so production can refuse duplicates.
type Names interface {
	NameTaken(name string) bool
	ReserveName(name string)
}

// LifeExtender applies a successful renew to a unit.
type LifeExtender interface {
	ExtendLife(creep ecs.EntityID) error
}

// Spawner is a simulated production facility. It implements spawn.Facility.
type Spawner struct {
	name        string
	room        *Room
	names       Names
	lives       LifeExtender
	timePerPart int

	spawning  string
	remaining int
}

func NewSpawner(name string, names Names, lives LifeExtender, timePerPart int) *Spawner {
	if timePerPart <= 0 {
		timePerPart = 1
	}
	return &Spawner{name: name, names: names, lives: lives, timePerPart: timePerPart}
}

func (s *Spawner) Name() string { return s.name }

func (s *Spawner) Idle() bool { return s.remaining == 0 }

// Spawning returns the unit in production and the ticks left.
func (s *Spawner) Spawning() (string, int) { return s.spawning, s.remaining }

func (s *Spawner) Spawn(body []spawn.Part, name string) error {
	if !s.Idle() {
		return fmt.Errorf("%s: %w", s.name, spawn.ErrBusy)
	}
	if len(body) == 0 || len(body) > MaxBodyParts {
		return fmt.Errorf("%s: %d parts: %w", s.name, len(body), spawn.ErrInvalidBody)
	}
	if s.room == nil {
		return fmt.Errorf("%s: not attached to a room", s.name)
	}
	cost := spawn.BodyCost(body)
	if cost > s.room.EnergyAvailable {
		return fmt.Errorf("%s: need %d have %d: %w", s.name, cost, s.room.EnergyAvailable, spawn.ErrNotEnoughEnergy)
	}
	if s.names != nil {
		if s.names.NameTaken(name) {
			return fmt.Errorf("%s: %q: %w", s.name, name, spawn.ErrNameExists)
		}
		s.names.ReserveName(name)
	}
	s.room.EnergyAvailable -= cost
	s.spawning = name
	s.remaining = len(body) * s.timePerPart
	return nil
}

func (s *Spawner) Renew(creep ecs.EntityID, cost uint32) error {
	if !s.Idle() {
		return fmt.Errorf("%s: %w", s.name, spawn.ErrBusy)
	}
	if s.room == nil || cost > s.room.EnergyAvailable {
		return fmt.Errorf("%s: renew: %w", s.name, spawn.ErrNotEnoughEnergy)
	}
	if s.lives != nil {
		if err := s.lives.ExtendLife(creep); err != nil {
			return fmt.Errorf("%s: renew %s: %w", s.name, creep, err)
		}
	}
	s.room.EnergyAvailable -= cost
	return nil
}

func (s *Spawner) tick() {
	if s.remaining == 0 {
		return
	}
	s.remaining--
	if s.remaining == 0 {
		s.spawning = ""
	}
}

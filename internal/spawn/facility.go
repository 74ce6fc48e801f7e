package spawn

import (
	"errors"

	"github.com/ibexsim/colony/internal/core/ecs"
)

var (
	ErrNotEnoughEnergy = errors.New("not enough energy")
	ErrNameExists      = errors.New("name already exists")
	ErrBusy            = errors.New("facility busy")
	ErrNotInRange      = errors.New("unit not in range")
	ErrInvalidBody     = errors.New("invalid body")
)

// Facility is one production structure.
type Facility interface {
	Name() string
	// Spawn starts producing body under name.
	Spawn(body []Part, name string) error
	// Renew extends creep's lifetime at cost energy.
	Renew(creep ecs.EntityID, cost uint32) error
}

// RegionSnapshot is the region state a spawn pass works from. Facilities
// holds only idle facilities.
type RegionSnapshot struct {
	Name            string
	Facilities      []Facility
	EnergyAvailable uint32
	EnergyCapacity  uint32
	StoredEnergy    uint32
}

// Registry supplies tick-start region snapshots.
type Registry interface {
	RegionSnapshot(room ecs.EntityID) (RegionSnapshot, error)
}

// Report summarizes one spawn pass.
type Report struct {
	Spawned   int
	Renewed   int
	Rejected  int // cost above the region's maximum budget
	Blocked   int // regions halted on available budget
	Failed    int // non-budget production errors
	Remaining int // requests left unfulfilled
}

package event

import (
	"github.com/ibexsim/colony/internal/cleanup"
	"github.com/ibexsim/colony/internal/core/ecs"
	"github.com/ibexsim/colony/internal/spawn"
)

// CleanupProcessed is emitted after every non-empty cleanup pass.
type CleanupProcessed struct {
	Tick   uint32
	Pass   string // "prepass" or "main"
	Report cleanup.Report
}

// SpawnProcessed is emitted once per tick by the spawn queue system.
type SpawnProcessed struct {
	Tick     uint32
	Report   spawn.Report
	Snapshot spawn.QueueSnapshot
}

// UnitSpawned is emitted for each produced unit.
type UnitSpawned struct {
	Tick        uint32
	Room        ecs.EntityID
	Name        string
	Description string
	Cost        uint32
}

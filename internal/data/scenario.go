package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RoomEntry defines a region and the production facilities it starts with.
type RoomEntry struct {
	Name            string   `yaml:"name"`
	EnergyAvailable uint32   `yaml:"energy_available"`
	EnergyCapacity  uint32   `yaml:"energy_capacity"`
	StoredEnergy    uint32   `yaml:"stored_energy"`
	Income          uint32   `yaml:"income"`
	Spawns          []string `yaml:"spawns"`
}

// ScoutEntry requests vision of Target, produced from any of Homes.
type ScoutEntry struct {
	Target  string   `yaml:"target"`
	Homes   []string `yaml:"homes"`
	Urgency float64  `yaml:"urgency"`
}

// Scenario is the initial world layout loaded from scenario.yaml.
type Scenario struct {
	Rooms    []RoomEntry  `yaml:"rooms"`
	Colonies []string     `yaml:"colonies"`
	Scouts   []ScoutEntry `yaml:"scouts"`

	byName map[string]*RoomEntry
}

// LoadScenario loads and validates scenario.yaml.
func LoadScenario(path string) (*Scenario, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	s, err := ParseScenario(raw)
	if err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	return s, nil
}

func ParseScenario(raw []byte) (*Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return nil, err
	}
	s.byName = make(map[string]*RoomEntry, len(s.Rooms))
	for i := range s.Rooms {
		r := &s.Rooms[i]
		if r.Name == "" {
			return nil, fmt.Errorf("room %d: missing name", i)
		}
		if _, dup := s.byName[r.Name]; dup {
			return nil, fmt.Errorf("room %s: defined twice", r.Name)
		}
		if r.EnergyAvailable > r.EnergyCapacity {
			r.EnergyAvailable = r.EnergyCapacity
		}
		s.byName[r.Name] = r
	}
	for _, name := range s.Colonies {
		if s.byName[name] == nil {
			return nil, fmt.Errorf("colony %s: unknown room", name)
		}
	}
	for _, sc := range s.Scouts {
		if s.byName[sc.Target] == nil {
			return nil, fmt.Errorf("scout target %s: unknown room", sc.Target)
		}
		if len(sc.Homes) == 0 {
			return nil, fmt.Errorf("scout target %s: no home rooms", sc.Target)
		}
		for _, h := range sc.Homes {
			if s.byName[h] == nil {
				return nil, fmt.Errorf("scout target %s: unknown home room %s", sc.Target, h)
			}
		}
	}
	return &s, nil
}

// Room returns the room definition by name, or nil if none.
func (s *Scenario) Room(name string) *RoomEntry {
	return s.byName[name]
}

// SpawnCount returns the total number of facilities across all rooms.
func (s *Scenario) SpawnCount() int {
	n := 0
	for _, r := range s.Rooms {
		n += len(r.Spawns)
	}
	return n
}

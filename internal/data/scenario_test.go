package data

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
rooms:
  - name: W1N1
    energy_available: 900
    energy_capacity: 550
    income: 5
    spawns: [Spawn1, Spawn2]
  - name: W2N1
    energy_capacity: 300
colonies: [W1N1]
scouts:
  - target: W2N1
    homes: [W1N1]
    urgency: 0.5
`

func TestParseScenario(t *testing.T) {
	s, err := ParseScenario([]byte(sample))
	require.NoError(t, err)

	require.Len(t, s.Rooms, 2)
	r := s.Room("W1N1")
	require.NotNil(t, r)
	assert.Equal(t, uint32(550), r.EnergyAvailable, "available is clamped to capacity")
	assert.Equal(t, 2, s.SpawnCount())
	assert.Equal(t, []string{"W1N1"}, s.Colonies)
	require.Len(t, s.Scouts, 1)
	assert.InDelta(t, 0.5, s.Scouts[0].Urgency, 1e-9)
	assert.Nil(t, s.Room("E1S1"))
}

func TestParseScenarioRejectsUnknownRooms(t *testing.T) {
	cases := map[string]string{
		"colony":    "rooms: [{name: A}]\ncolonies: [B]\n",
		"target":    "rooms: [{name: A}]\nscouts: [{target: B, homes: [A]}]\n",
		"home":      "rooms: [{name: A}]\nscouts: [{target: A, homes: [B]}]\n",
		"no homes":  "rooms: [{name: A}]\nscouts: [{target: A}]\n",
		"duplicate": "rooms: [{name: A}, {name: A}]\n",
		"unnamed":   "rooms: [{energy_capacity: 10}]\n",
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseScenario([]byte(raw))
			assert.Error(t, err)
		})
	}
}

func TestLoadScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	s, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Len(t, s.Rooms, 2)

	_, err = LoadScenario(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

package spawn

import "fmt"

// Part is one body component of a produced unit.
type Part uint8

const (
	Move Part = iota
	Work
	Carry
	Attack
	RangedAttack
	Heal
	Claim
	Tough
)

var partNames = [...]string{"move", "work", "carry", "attack", "ranged_attack", "heal", "claim", "tough"}

var partCosts = [...]uint32{50, 100, 50, 80, 150, 250, 600, 10}

// Cost is the energy needed to produce one part.
func (p Part) Cost() uint32 {
	if int(p) >= len(partCosts) {
		return 0
	}
	return partCosts[p]
}

func (p Part) String() string {
	if int(p) >= len(partNames) {
		return fmt.Sprintf("part(%d)", uint8(p))
	}
	return partNames[p]
}

// ParsePart maps a part name back to its Part.
func ParsePart(name string) (Part, error) {
	for i, n := range partNames {
		if n == name {
			return Part(i), nil
		}
	}
	return 0, fmt.Errorf("unknown body part %q", name)
}

// BodyCost sums the cost of every part.
func BodyCost(body []Part) uint32 {
	var total uint32
	for _, p := range body {
		total += p.Cost()
	}
	return total
}

package spawn

import "errors"

// ErrBodyTooExpensive is returned when a body definition cannot be satisfied
// within its energy ceiling.
var ErrBodyTooExpensive = errors.New("body exceeds energy ceiling")

// BodyDefinition describes a scalable body: fixed pre/post parts around a
// repeated segment sized to the energy ceiling.
type BodyDefinition struct {
	MaximumEnergy uint32
	MinimumRepeat int // 0 = no minimum
	MaximumRepeat int // 0 = unbounded
	PreBody       []Part
	RepeatBody    []Part
	PostBody      []Part
}

// CreateBody builds the largest body the definition allows.
func CreateBody(def BodyDefinition) ([]Part, error) {
	fixed := BodyCost(def.PreBody) + BodyCost(def.PostBody)
	if fixed > def.MaximumEnergy {
		return nil, ErrBodyTooExpensive
	}

	repeat := 0
	if repeatCost := BodyCost(def.RepeatBody); repeatCost > 0 {
		repeat = int((def.MaximumEnergy - fixed) / repeatCost)
	}
	if def.MinimumRepeat > 0 && repeat < def.MinimumRepeat {
		return nil, ErrBodyTooExpensive
	}
	if def.MaximumRepeat > 0 && repeat > def.MaximumRepeat {
		repeat = def.MaximumRepeat
	}

	body := make([]Part, 0, len(def.PreBody)+repeat*len(def.RepeatBody)+len(def.PostBody))
	body = append(body, def.PreBody...)
	for i := 0; i < repeat; i++ {
		body = append(body, def.RepeatBody...)
	}
	body = append(body, def.PostBody...)
	return body, nil
}

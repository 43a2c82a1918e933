package dataset

import "math/rand/v2"

var regionStates = map[string][]string{
	"new england":     {"ME", "NH", "VT", "MA", "RI", "CT"},
	"middle atlantic": {"NY", "PA", "NJ"},
	"e. nor. central": {"OH", "MI", "IN", "IL", "WI"},
	"w. nor. central": {"MN", "IA", "MO", "ND", "SD", "NE", "KS"},
	"south atlantic":  {"DE", "MD", "DC", "VA", "WV", "NC", "SC", "GA", "FL"},
	"e. sou. central": {"KY", "TN", "MS", "AL"},
	"w. sou. central": {"AR", "LA", "OK", "TX"},
	"mountain":        {"MT", "ID", "WY", "NV", "UT", "CO", "AZ", "NM"},
	"pacific":         {"WA", "OR", "CA", "AK", "HI"},
}

// stateAssigner picks a random state within a census region.
// The same seed yields the same assignment sequence.
type stateAssigner struct {
	rng *rand.Rand
}

func newStateAssigner(seed uint64) *stateAssigner {
	return &stateAssigner{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (s *stateAssigner) assign(region string) string {
	states, ok := regionStates[region]
	if !ok {
		return ""
	}
	return states[s.rng.IntN(len(states))]
}

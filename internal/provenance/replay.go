package provenance

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Replay is the persisted encoding of one prior call: the action reference
// and its arguments as an ordered list of single-key records. Keyed
// collection arguments may themselves be re-encoded as lists of single-key
// records; the fingerprinting layer normalizes that shape.
type Replay struct {
	Action    string           `yaml:"action"`
	Arguments []map[string]any `yaml:"arguments"`
}

// DecodeReplay parses a persisted action record. Each argument entry must be
// a mapping with exactly one key.
func DecodeReplay(data []byte) (*Replay, error) {
	var r Replay
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decode replay record: %w", err)
	}
	if r.Action == "" {
		return nil, fmt.Errorf("replay record is missing an action reference")
	}
	for i, arg := range r.Arguments {
		if len(arg) != 1 {
			return nil, fmt.Errorf("replay argument %d must have exactly one key, got %d", i, len(arg))
		}
	}
	return &r, nil
}

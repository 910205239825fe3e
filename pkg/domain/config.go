package domain

import (
	"encoding/json"
	"fmt"
)

// Config selects what a run does. End is only consulted in StopAtEnd mode,
// and NoVertex means no destination. The zero value of End is vertex 0, so
// callers without a destination should start from NewConfig.
type Config struct {
	Algorithm Algorithm    `json:"algorithm" yaml:"algorithm" mapstructure:"algorithm"`
	Start     Vertex       `json:"start" yaml:"start" mapstructure:"start"`
	End       Vertex       `json:"end" yaml:"end" mapstructure:"end"`
	Mode      StoppingMode `json:"mode" yaml:"mode" mapstructure:"mode"`
	// Seed feeds the random frontier. Other algorithms ignore it.
	Seed uint64 `json:"seed,omitempty" yaml:"seed,omitempty" mapstructure:"seed"`
}

// NewConfig returns a configuration for alg from start with no destination.
func NewConfig(alg Algorithm, start Vertex) Config {
	return Config{Algorithm: alg, Start: start, End: NoVertex}
}

// UnmarshalJSON decodes a configuration, leaving End at NoVertex when it is absent.
func (c *Config) UnmarshalJSON(data []byte) error {
	type plain Config
	cfg := plain{End: NoVertex}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return err
	}
	*c = Config(cfg)
	return nil
}

// Validate checks the configuration against the algorithm's capabilities and a graph
// of vertexCount vertices. The returned config has End cleared when it is not used.
func (c Config) Validate(vertexCount int) (Config, Capabilities, error) {
	caps, err := CapabilitiesOf(c.Algorithm)
	if err != nil {
		return c, caps, err
	}
	if c.Mode == "" {
		c.Mode = FindReachable
		if caps.RequiresEnd {
			c.Mode = StopAtEnd
		}
	}
	if !caps.Supports(c.Mode) {
		return c, caps, fmt.Errorf("%w: %s does not support mode %s", ErrInvalidConfiguration, c.Algorithm, c.Mode)
	}
	if vertexCount <= 0 {
		return c, caps, fmt.Errorf("%w: graph has no vertices", ErrInvalidConfiguration)
	}
	if c.Start < 0 || int(c.Start) >= vertexCount {
		return c, caps, fmt.Errorf("%w: start vertex %d out of range [0,%d)", ErrInvalidConfiguration, c.Start, vertexCount)
	}
	if c.Mode == StopAtEnd || caps.RequiresEnd {
		if c.End == NoVertex {
			return c, caps, fmt.Errorf("%w: end vertex required for %s in %s mode", ErrInvalidConfiguration, c.Algorithm, c.Mode)
		}
		if c.End < 0 || int(c.End) >= vertexCount {
			return c, caps, fmt.Errorf("%w: end vertex %d out of range [0,%d)", ErrInvalidConfiguration, c.End, vertexCount)
		}
	} else {
		c.End = NoVertex
	}
	return c, caps, nil
}

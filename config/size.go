package config

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"
)

// Size is a byte count that reads and writes human-readable sizes such as
// "64MiB" or "1.5 GB". Plain integers are bytes.
type Size int64

// ParseSize parses a human-readable byte size.
func ParseSize(s string) (Size, error) {
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, fmt.Errorf("config: invalid size %q: %w", s, err)
	}
	if n > math.MaxInt64 {
		return 0, fmt.Errorf("config: size %q out of range", s)
	}
	return Size(n), nil
}

// Int returns s as an int, saturating at the platform's maximum.
func (s Size) Int() int {
	if int64(s) > int64(math.MaxInt) {
		return math.MaxInt
	}
	return int(s)
}

func (s Size) String() string {
	if s < 0 {
		return fmt.Sprintf("%d", int64(s))
	}
	return humanize.IBytes(uint64(s))
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *Size) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("config: line %d: size must be a scalar", node.Line)
	}
	v, err := ParseSize(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*s = v
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (s Size) MarshalYAML() (any, error) {
	return s.String(), nil
}

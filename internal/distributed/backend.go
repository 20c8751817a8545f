// Package distributed tracks the distributed run of the current process and
// implements the collective operations (all-reduce, barrier) on top of the
// tensor backends' collective primitives.
package distributed

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Backend identifies the transport that connects the processes of a run.
type Backend int

// Supported transports.
const (
	Gloo Backend = iota
	NCCL
	Stub
	InProcess
)

// String returns the lower-case transport name.
func (b Backend) String() string {
	switch b {
	case Gloo:
		return "gloo"
	case NCCL:
		return "nccl"
	case Stub:
		return "stub"
	case InProcess:
		return "inprocess"
	default:
		return "unknown"
	}
}

// ParseBackend parses a transport name case-insensitively.
func ParseBackend(s string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "gloo":
		return Gloo, nil
	case "nccl":
		return NCCL, nil
	case "stub":
		return Stub, nil
	case "inprocess", "in-process":
		return InProcess, nil
	default:
		return 0, fmt.Errorf("unknown distributed backend %q", s)
	}
}

// MarshalYAML encodes the backend by name.
func (b Backend) MarshalYAML() (any, error) {
	return b.String(), nil
}

// UnmarshalYAML decodes a backend name.
func (b *Backend) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseBackend(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*b = parsed
	return nil
}

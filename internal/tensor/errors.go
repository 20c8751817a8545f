package tensor

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors reported by this package.
var (
	// ErrInvalidArgument marks errors caused by malformed caller input.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNoDefaultBackend is returned when a default-constructed tensor is
	// requested before any backend has been registered.
	ErrNoDefaultBackend = errors.New("no default tensor backend registered")
)

// BackendMismatchError reports a multi-tensor operation whose operands live
// on different backends. It matches ErrInvalidArgument with errors.Is.
type BackendMismatchError struct {
	Op    string        // Name of the rejected operation.
	Types []BackendType // Backend types of the operands, in call order.
}

// Error implements error.
func (e *BackendMismatchError) Error() string {
	names := make([]string, len(e.Types))
	for i, bt := range e.Types {
		names[i] = bt.String()
	}
	return fmt.Sprintf("%s called with tensors of different backends [%s]", e.Op, strings.Join(names, ", "))
}

// Is reports whether target is ErrInvalidArgument.
func (e *BackendMismatchError) Is(target error) bool {
	return target == ErrInvalidArgument
}

// CheckBackends verifies that all operands share one backend type.
// op names the calling operation in the returned error.
func CheckBackends(op string, operands ...*Tensor) error {
	types := make([]BackendType, len(operands))
	for i, t := range operands {
		if t == nil || t.impl == nil {
			return fmt.Errorf("%s: operand %d is nil: %w", op, i, ErrInvalidArgument)
		}
		types[i] = t.BackendType()
	}
	for _, bt := range types[1:] {
		if bt != types[0] {
			return &BackendMismatchError{Op: op, Types: types}
		}
	}
	return nil
}

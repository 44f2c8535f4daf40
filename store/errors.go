package store

import "errors"

var (
	// An animation track carries a different number of time keys and
	// transform values.
	ErrKeyCountMismatch = errors.New("store: number of time keys does not match number of transform values")

	// An animation track uses a movement type outside of the known set.
	ErrUnknownMovementType = errors.New("store: unknown movement type")

	// An animation track's flattened value array is not a multiple of the
	// movement type arity.
	ErrBadValueLayout = errors.New("store: transform values do not align with the movement type arity")

	// A container was written by an incompatible format revision.
	ErrUnsupportedVersion = errors.New("store: unsupported container version")

	// A group reference does not resolve inside the container.
	ErrUnknownGroup = errors.New("store: unknown group")
)

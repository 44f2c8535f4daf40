package store

import "fmt"

// The movement types an animation track can target.
const (
	MovementTranslation uint32 = 1
	MovementRotation    uint32 = 2
	MovementScale       uint32 = 3
)

// Interpolation modes for animation tracks. Only linear interpolation is
// defined by the container format.
const InterpolationLinear uint32 = 0

// The serialized size of the fixed animation header. Readers use it to
// detect tracks written by incompatible revisions.
const animationStructSize uint32 = 48

// The number of floats a single transform value occupies for a movement
// type: translation and scale pack 3 components, rotation packs a
// quaternion as (x, y, z, w).
func MovementDataSize(movementType uint32) (int, bool) {
	switch movementType {
	case MovementTranslation, MovementScale:
		return 3, true
	case MovementRotation:
		return 4, true
	}
	return 0, false
}

// Animation is a baked transform track attached to a group. Time keys are
// expressed in seconds; transform values are flattened so that value i
// starts at TransformValues[i*arity].
type Animation struct {
	StructSize        uint32
	GroupName         string
	MovementType      uint32
	InterpolationType uint32

	NbTimeKeys        uint32
	NbTransformValues uint32

	TimeKeys        []float32
	TransformValues []float32
}

// Create an animation track, validating the key/value layout.
func NewAnimation(groupName string, movementType uint32, timeKeys, transformValues []float32) (*Animation, error) {
	arity, known := MovementDataSize(movementType)
	if !known {
		return nil, fmt.Errorf("%w %d", ErrUnknownMovementType, movementType)
	}
	if len(transformValues)%arity != 0 {
		return nil, fmt.Errorf("%w: %d values for arity %d", ErrBadValueLayout, len(transformValues), arity)
	}

	nbValues := len(transformValues) / arity
	if nbValues != len(timeKeys) {
		return nil, fmt.Errorf("%w: %d time keys, %d transform values", ErrKeyCountMismatch, len(timeKeys), nbValues)
	}

	return &Animation{
		StructSize:        animationStructSize,
		GroupName:         groupName,
		MovementType:      movementType,
		InterpolationType: InterpolationLinear,
		NbTimeKeys:        uint32(len(timeKeys)),
		NbTransformValues: uint32(nbValues),
		TimeKeys:          timeKeys,
		TransformValues:   transformValues,
	}, nil
}

// Validate re-checks the track invariants. Containers read from disk run
// through this before their tracks are trusted.
func (a *Animation) Validate() error {
	if a.StructSize != animationStructSize {
		return fmt.Errorf("%w: animation struct size %d", ErrUnsupportedVersion, a.StructSize)
	}
	arity, known := MovementDataSize(a.MovementType)
	if !known {
		return fmt.Errorf("%w %d", ErrUnknownMovementType, a.MovementType)
	}
	if int(a.NbTimeKeys) != len(a.TimeKeys) || int(a.NbTransformValues)*arity != len(a.TransformValues) {
		return fmt.Errorf("%w: header counts do not match payload", ErrBadValueLayout)
	}
	if a.NbTimeKeys != a.NbTransformValues {
		return fmt.Errorf("%w: %d time keys, %d transform values", ErrKeyCountMismatch, a.NbTimeKeys, a.NbTransformValues)
	}
	return nil
}

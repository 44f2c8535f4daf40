package scene

import (
	"fmt"

	"github.com/achilleasa/aurora/types"
)

// World carries the environment lighting settings of the document.
type World struct {
	Color    types.Vec3
	Strength float32
}

// Scene is the host-side document that sync and export runs consume. The
// document carries a single evaluation clock; SetFrame re-evaluates every
// entity world matrix at the new frame time.
type Scene struct {
	Name string

	FrameStart float32
	FrameEnd   float32
	FPS        float32

	ResolutionX       int
	ResolutionY       int
	ResolutionPercent int

	// Enables motion blur evaluation during sync.
	MotionBlur bool

	// Ray recursion limit forwarded to the renderer context.
	MaxRayDepth int

	// Name of the active camera entity.
	CameraName string

	World    *World
	Entities []*Entity

	frame    float32
	subframe float32
	evalGen  uint64
	index    map[string]*Entity
}

// Validate resolves parent references, orders animation curves and
// evaluates the document at its start frame. It must be called once
// before the document is used.
func (s *Scene) Validate() error {
	if s.FPS <= 0 {
		return fmt.Errorf("scene: fps must be positive; got %g", s.FPS)
	}
	if s.FrameEnd < s.FrameStart {
		return fmt.Errorf("scene: frame range end %g precedes start %g", s.FrameEnd, s.FrameStart)
	}
	if s.ResolutionPercent <= 0 {
		s.ResolutionPercent = 100
	}
	if s.MaxRayDepth <= 0 {
		s.MaxRayDepth = 8
	}

	s.index = make(map[string]*Entity, len(s.Entities))
	for _, ent := range s.Entities {
		if _, exists := s.index[ent.Name]; exists {
			return fmt.Errorf("%w %q", ErrDuplicateEntity, ent.Name)
		}
		s.index[ent.Name] = ent
	}

	for _, ent := range s.Entities {
		if ent.ParentName == "" {
			ent.Parent = nil
			continue
		}
		parent, exists := s.index[ent.ParentName]
		if !exists {
			return fmt.Errorf("%w %q referenced by %q", ErrUnknownParent, ent.ParentName, ent.Name)
		}
		ent.Parent = parent
	}

	for _, ent := range s.Entities {
		if err := s.checkParentChain(ent); err != nil {
			return err
		}

		if ent.Action == nil {
			continue
		}
		for _, curve := range ent.Action.Curves {
			if err := validateCurve(ent, curve); err != nil {
				return err
			}
			curve.sortKeyframes()
		}
	}

	if s.CameraName != "" {
		cam, exists := s.index[s.CameraName]
		if !exists || cam.Type != CameraEntity {
			return fmt.Errorf("%w: %q", ErrInvalidCamera, s.CameraName)
		}
	}

	s.SetFrame(s.FrameStart, 0)
	return nil
}

func (s *Scene) checkParentChain(ent *Entity) error {
	slow, fast := ent, ent
	for fast != nil && fast.Parent != nil {
		slow = slow.Parent
		fast = fast.Parent.Parent
		if slow == fast {
			return fmt.Errorf("%w at %q", ErrParentCycle, ent.Name)
		}
	}
	return nil
}

func validateCurve(ent *Entity, curve *Curve) error {
	var maxIndex int
	switch curve.Path {
	case CurveTranslation, CurveScale:
		maxIndex = 2
	case CurveRotation:
		maxIndex = 3
	default:
		return fmt.Errorf("scene: entity %q: unsupported curve path %q", ent.Name, curve.Path)
	}
	if curve.Index < 0 || curve.Index > maxIndex {
		return fmt.Errorf("scene: entity %q: curve index %d out of range for %q", ent.Name, curve.Index, curve.Path)
	}
	if len(curve.Keyframes) == 0 {
		return fmt.Errorf("scene: entity %q: curve for %q has no keyframes", ent.Name, curve.Path)
	}
	return nil
}

// Look up an entity by name.
func (s *Scene) Entity(name string) (*Entity, bool) {
	ent, exists := s.index[name]
	return ent, exists
}

// The active camera entity or nil when the document does not name one.
func (s *Scene) Camera() *Entity {
	if s.CameraName == "" {
		return nil
	}
	return s.index[s.CameraName]
}

// Objects returns the renderable entities of the document in document
// order. Empty entities only contribute transforms and are skipped;
// cameras are included on request.
func (s *Scene) Objects(withCamera bool) []*Entity {
	out := make([]*Entity, 0, len(s.Entities))
	for _, ent := range s.Entities {
		switch ent.Type {
		case MeshEntity, LightEntity, CurveEntity, VolumeEntity:
			out = append(out, ent)
		case CameraEntity:
			if withCamera {
				out = append(out, ent)
			}
		}
	}
	return out
}

// The effective output resolution after applying the resolution percent.
func (s *Scene) Resolution() (int, int) {
	return s.ResolutionX * s.ResolutionPercent / 100,
		s.ResolutionY * s.ResolutionPercent / 100
}

// The frame time the document was last evaluated at.
func (s *Scene) CurrentFrame() (frame, subframe float32) {
	return s.frame, s.subframe
}

// SetFrame moves the evaluation clock and recomputes all entity world
// matrices. Frames outside of the document range are allowed; curves
// hold their boundary values there.
func (s *Scene) SetFrame(frame, subframe float32) {
	s.frame = frame
	s.subframe = subframe
	s.evalGen++
	for _, ent := range s.Entities {
		s.evalWorld(ent)
	}
}

func (s *Scene) evalWorld(ent *Entity) types.Mat4 {
	if ent.evalGen == s.evalGen {
		return ent.world
	}
	ent.evalGen = s.evalGen

	ent.local = ent.localAt(s.frame + s.subframe)
	if ent.Parent != nil {
		ent.world = s.evalWorld(ent.Parent).Mul4(ent.local)
	} else {
		ent.world = ent.local
	}
	return ent.world
}

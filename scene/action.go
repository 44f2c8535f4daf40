package scene

import "sort"

// The transform channels that animation curves can target.
const (
	CurveTranslation = "translation"
	CurveRotation    = "rotation"
	CurveScale       = "scale"
)

// Action groups the animation curves attached to an entity.
type Action struct {
	Name   string
	Curves []*Curve
}

// Curve animates a single component of a transform channel. Translation
// and scale curves use component indices 0 to 2; rotation curves animate
// the quaternion components (x, y, z, w) via indices 0 to 3.
type Curve struct {
	Path  string
	Index int

	// Keyframes ordered by ascending frame time.
	Keyframes []Keyframe
}

// Keyframe pins a channel component value at a frame time.
type Keyframe struct {
	Frame float32
	Value float32
}

// Sample the curve at frame time t using linear interpolation. Times
// outside of the keyed range hold the first/last keyframe value.
func (c *Curve) Sample(t float32) float32 {
	keys := c.Keyframes
	if len(keys) == 0 {
		return 0
	}
	if t <= keys[0].Frame {
		return keys[0].Value
	}
	last := len(keys) - 1
	if t >= keys[last].Frame {
		return keys[last].Value
	}

	// Locate the first keyframe at or after t.
	hi := sort.Search(len(keys), func(i int) bool { return keys[i].Frame >= t })
	lo := hi - 1
	span := keys[hi].Frame - keys[lo].Frame
	if span <= 0 {
		return keys[hi].Value
	}
	alpha := (t - keys[lo].Frame) / span
	return keys[lo].Value + (keys[hi].Value-keys[lo].Value)*alpha
}

func (c *Curve) sortKeyframes() {
	sort.SliceStable(c.Keyframes, func(i, j int) bool {
		return c.Keyframes[i].Frame < c.Keyframes[j].Frame
	})
}

package render

import "github.com/achilleasa/aurora/types"

// Object is the base contract shared by all synced renderer objects.
type Object interface {
	Key() SceneKey
	Name() string
	SetName(name string)
	SetTransform(m types.Mat4) error
	Release()
}

// Material carries the synced surface settings of a shape.
type Material struct {
	BaseColor        types.Vec3
	Metalness        float32
	Roughness        float32
	EmissionColor    types.Vec3
	EmissionStrength float32

	// Optional path to a texture file referenced by the material.
	Texture string
}

// Shape is a renderable mesh-like object or an instanced copy of one.
type Shape interface {
	Object
	SetVisibility(visible bool) error
	SetMaterial(mat Material) error
	SetGeometry(vertices, triangles int) error
}

// Light emits radiance into the scene.
type Light interface {
	Object
	SetRadiantPower(power types.Vec3) error
}

// Camera is the observer of the scene.
type Camera interface {
	Object
	SetLens(focalLength, sensorWidth float32) error
	SetClipPlanes(near, far float32) error
	SetExposure(exposure float32) error
}

// The kinds of lights a backend can create.
type LightKind uint8

const (
	PointLight LightKind = iota
	AreaLight
	SpotLight
	DirectionalLight
)

// MotionSetter is implemented by objects that accept decomposed motion
// deltas for motion blur.
type MotionSetter interface {
	SetLinearMotion(x, y, z float32) error
	SetAngularMotion(x, y, z, angle float32) error
	SetScaleMotion(x, y, z float32) error
}

// MotionTransformSetter is implemented by objects that accept a full
// previous-frame transform for motion blur, superseding decomposed
// deltas.
type MotionTransformSetter interface {
	SetMotionTransform(m types.Mat4) error
}

// GroupAssignable is implemented by objects that can join a named
// transform group inside a scene container.
type GroupAssignable interface {
	AssignToGroup(name string) error
}

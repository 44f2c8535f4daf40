package store

import (
	"github.com/achilleasa/aurora/render"
	"github.com/achilleasa/aurora/types"
)

// MaterialRecord is the serialized surface state of a shape.
type MaterialRecord struct {
	BaseColor        types.Vec3
	Metalness        float32
	Roughness        float32
	EmissionColor    types.Vec3
	EmissionStrength float32
	Texture          string
}

// ShapeRecord is the serialized state of a synced shape or instance.
type ShapeRecord struct {
	Key  render.SceneKey
	Name string

	// Set when this record is an instanced copy of another shape.
	Master render.SceneKey

	Transform types.Mat4
	Visible   bool
	Group     string

	Vertices  int
	Triangles int
	Material  *MaterialRecord

	LinearMotion    *types.Vec3
	AngularMotion   *[4]float32
	ScaleMotion     *types.Vec3
	MotionTransform *types.Mat4
}

// LightRecord is the serialized state of a synced light.
type LightRecord struct {
	Key  render.SceneKey
	Name string

	Kind         render.LightKind
	Transform    types.Mat4
	RadiantPower types.Vec3
	Group        string

	LinearMotion  *types.Vec3
	AngularMotion *[4]float32
	ScaleMotion   *types.Vec3
}

// CameraRecord is the serialized state of a synced camera.
type CameraRecord struct {
	Key  render.SceneKey
	Name string

	Transform   types.Mat4
	FocalLength float32
	SensorWidth float32
	ClipNear    float32
	ClipFar     float32
	Exposure    float32
	Group       string

	LinearMotion  *types.Vec3
	AngularMotion *[4]float32
}

// Shape is the live handle of a shape record inside a scene store.
type Shape struct {
	st  *SceneStore
	rec ShapeRecord
}

func (s *Shape) Key() render.SceneKey { return s.rec.Key }
func (s *Shape) Name() string         { return s.rec.Name }
func (s *Shape) SetName(name string)  { s.rec.Name = name }

func (s *Shape) SetTransform(m types.Mat4) error {
	s.rec.Transform = m
	return nil
}

func (s *Shape) SetVisibility(visible bool) error {
	s.rec.Visible = visible
	return nil
}

func (s *Shape) SetMaterial(mat render.Material) error {
	s.rec.Material = &MaterialRecord{
		BaseColor:        mat.BaseColor,
		Metalness:        mat.Metalness,
		Roughness:        mat.Roughness,
		EmissionColor:    mat.EmissionColor,
		EmissionStrength: mat.EmissionStrength,
		Texture:          mat.Texture,
	}
	return nil
}

func (s *Shape) SetGeometry(vertices, triangles int) error {
	s.rec.Vertices = vertices
	s.rec.Triangles = triangles
	return nil
}

func (s *Shape) SetMotionTransform(m types.Mat4) error {
	s.rec.MotionTransform = &m
	return nil
}

func (s *Shape) SetLinearMotion(x, y, z float32) error {
	s.rec.LinearMotion = &types.Vec3{x, y, z}
	return nil
}

func (s *Shape) SetAngularMotion(x, y, z, angle float32) error {
	s.rec.AngularMotion = &[4]float32{x, y, z, angle}
	return nil
}

func (s *Shape) SetScaleMotion(x, y, z float32) error {
	s.rec.ScaleMotion = &types.Vec3{x, y, z}
	return nil
}

func (s *Shape) AssignToGroup(name string) error {
	s.st.ensureGroup(name)
	s.rec.Group = name
	return nil
}

func (s *Shape) Release() {
	s.st.forget(s.rec.Key)
}

// Light is the live handle of a light record inside a scene store.
type Light struct {
	st  *SceneStore
	rec LightRecord
}

func (l *Light) Key() render.SceneKey { return l.rec.Key }
func (l *Light) Name() string         { return l.rec.Name }
func (l *Light) SetName(name string)  { l.rec.Name = name }

func (l *Light) SetTransform(m types.Mat4) error {
	l.rec.Transform = m
	return nil
}

func (l *Light) SetRadiantPower(power types.Vec3) error {
	l.rec.RadiantPower = power
	return nil
}

func (l *Light) AssignToGroup(name string) error {
	l.st.ensureGroup(name)
	l.rec.Group = name
	return nil
}

func (l *Light) Release() {
	l.st.forget(l.rec.Key)
}

// AreaLight extends a light handle with motion deltas. Only area lights
// sweep geometry through the frame, so only they accept motion.
type AreaLight struct {
	*Light
}

func (l *AreaLight) SetLinearMotion(x, y, z float32) error {
	l.rec.LinearMotion = &types.Vec3{x, y, z}
	return nil
}

func (l *AreaLight) SetAngularMotion(x, y, z, angle float32) error {
	l.rec.AngularMotion = &[4]float32{x, y, z, angle}
	return nil
}

func (l *AreaLight) SetScaleMotion(x, y, z float32) error {
	l.rec.ScaleMotion = &types.Vec3{x, y, z}
	return nil
}

// Camera is the live handle of a camera record inside a scene store.
type Camera struct {
	st  *SceneStore
	rec CameraRecord
}

func (c *Camera) Key() render.SceneKey { return c.rec.Key }
func (c *Camera) Name() string         { return c.rec.Name }
func (c *Camera) SetName(name string)  { c.rec.Name = name }

func (c *Camera) SetTransform(m types.Mat4) error {
	c.rec.Transform = m
	return nil
}

func (c *Camera) SetLens(focalLength, sensorWidth float32) error {
	c.rec.FocalLength = focalLength
	c.rec.SensorWidth = sensorWidth
	return nil
}

func (c *Camera) SetClipPlanes(near, far float32) error {
	c.rec.ClipNear = near
	c.rec.ClipFar = far
	return nil
}

func (c *Camera) SetExposure(exposure float32) error {
	c.rec.Exposure = exposure
	return nil
}

func (c *Camera) SetLinearMotion(x, y, z float32) error {
	c.rec.LinearMotion = &types.Vec3{x, y, z}
	return nil
}

func (c *Camera) SetAngularMotion(x, y, z, angle float32) error {
	c.rec.AngularMotion = &[4]float32{x, y, z, angle}
	return nil
}

// Cameras carry no scale component; the value is discarded.
func (c *Camera) SetScaleMotion(x, y, z float32) error {
	return nil
}

func (c *Camera) AssignToGroup(name string) error {
	c.st.ensureGroup(name)
	c.rec.Group = name
	return nil
}

func (c *Camera) Release() {
	c.st.forget(c.rec.Key)
}

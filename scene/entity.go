package scene

import "github.com/achilleasa/aurora/types"

type EntityType uint8

// Supported entity types.
const (
	MeshEntity EntityType = iota
	LightEntity
	CameraEntity
	CurveEntity
	VolumeEntity
	EmptyEntity
)

// Implements Stringer.
func (t EntityType) String() string {
	switch t {
	case MeshEntity:
		return "mesh"
	case LightEntity:
		return "light"
	case CameraEntity:
		return "camera"
	case CurveEntity:
		return "curve"
	case VolumeEntity:
		return "volume"
	case EmptyEntity:
		return "empty"
	}
	return "unknown"
}

// The kinds of light entities a document can carry.
type LightKind string

const (
	PointLight       LightKind = "point"
	AreaLight        LightKind = "area"
	SpotLight        LightKind = "spot"
	DirectionalLight LightKind = "sun"
)

// CameraProps carries the lens settings of a camera entity.
type CameraProps struct {
	// Focal length and sensor width in mm.
	FocalLength float32
	SensorWidth float32

	ClipStart float32
	ClipEnd   float32

	// Shutter exposure in frames. Motion blur is a no-op when zero.
	Exposure float32
}

// Create camera props with the common 35mm defaults.
func DefaultCameraProps() *CameraProps {
	return &CameraProps{
		FocalLength: 50,
		SensorWidth: 36,
		ClipStart:   0.1,
		ClipEnd:     1000,
		Exposure:    1,
	}
}

// LightProps carries the emission settings of a light entity.
type LightProps struct {
	Kind  LightKind
	Color types.Vec3
	Power float32
}

// MeshProps carries the geometry book-keeping of a mesh entity. Vertex
// streams live outside of the document and are resolved by the renderer.
type MeshProps struct {
	Vertices  int
	Triangles int
}

// Material carries the surface settings of a mesh entity.
type Material struct {
	BaseColor        types.Vec3
	Metalness        float32
	Roughness        float32
	EmissionColor    types.Vec3
	EmissionStrength float32

	// Optional path to a texture file referenced by the material.
	Texture string
}

// Entity is a single node in the scene document. Its world transform is
// derived from the parent chain each time the document is evaluated at a
// frame.
type Entity struct {
	Name string
	Type EntityType

	// Name of the parent entity; resolved into Parent by Validate.
	ParentName string
	Parent     *Entity

	// The parent-relative transform before animation is applied.
	Rest types.Transform

	// Optional animation overriding rest transform channels.
	Action *Action

	Visible    bool
	MotionBlur bool

	Camera   *CameraProps
	Light    *LightProps
	Mesh     *MeshProps
	Material *Material

	// Parent-relative transforms for instanced copies of this entity.
	Instances []types.Mat4

	local   types.Mat4
	world   types.Mat4
	evalGen uint64
}

// Create a visible, motion-blur-enabled entity with an identity rest
// transform.
func NewEntity(name string, entType EntityType) *Entity {
	return &Entity{
		Name:       name,
		Type:       entType,
		Rest:       types.TransformIdent(),
		Visible:    true,
		MotionBlur: true,
	}
}

// Returns true if the entity carries animation curves.
func (e *Entity) HasAnimation() bool {
	return e.Action != nil && len(e.Action.Curves) > 0
}

// The parent-relative matrix at the last evaluated frame.
func (e *Entity) LocalMatrix() types.Mat4 {
	return e.local
}

// The world matrix at the last evaluated frame.
func (e *Entity) WorldMatrix() types.Mat4 {
	return e.world
}

// The world matrix of instance copy i at the last evaluated frame.
func (e *Entity) InstanceWorld(i int) types.Mat4 {
	return e.world.Mul4(e.Instances[i])
}

// Evaluate the parent-relative matrix at frame time t by overriding rest
// transform channels with sampled curve values.
func (e *Entity) localAt(t float32) types.Mat4 {
	tr := e.Rest
	if !e.HasAnimation() {
		return tr.Mat4()
	}

	rot := tr.Rotation.Vec4()
	for _, curve := range e.Action.Curves {
		val := curve.Sample(t)
		switch curve.Path {
		case CurveTranslation:
			tr.Translation[curve.Index] = val
		case CurveRotation:
			rot[curve.Index] = val
		case CurveScale:
			tr.Scale[curve.Index] = val
		}
	}
	tr.Rotation = types.QuatFromVec4(rot).Normalize()

	return tr.Mat4()
}

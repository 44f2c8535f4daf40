package store

import (
	"fmt"

	"github.com/achilleasa/aurora/log"
	"github.com/achilleasa/aurora/render"
	"github.com/achilleasa/aurora/types"
)

// WorldRecord is the serialized environment lighting state.
type WorldRecord struct {
	Color    types.Vec3
	Strength float32
}

// SceneStore is an in-process render backend that records every synced
// object so the scene can be exported into a portable container. It
// implements render.Backend for sync and adds the container surface:
// groups, animation tracks, custom parameters and the Export call.
type SceneStore struct {
	logger log.Logger

	name   string
	width  int
	height int

	objects map[render.SceneKey]render.Object
	order   []render.SceneKey

	world        *WorldRecord
	activeCamera render.SceneKey

	groups     map[string]*GroupRecord
	groupOrder []string
	animations []*Animation

	aovs      map[render.AOV]bool
	aovImages map[render.AOV]*render.Image

	customInts   map[string]int32
	customFloats map[string]float32
}

// Create an empty scene store.
func NewSceneStore() *SceneStore {
	return &SceneStore{
		logger:       log.New("scene store"),
		objects:      make(map[render.SceneKey]render.Object),
		groups:       make(map[string]*GroupRecord),
		aovs:         make(map[render.AOV]bool),
		aovImages:    make(map[render.AOV]*render.Image),
		customInts:   make(map[string]int32),
		customFloats: make(map[string]float32),
	}
}

func (st *SceneStore) track(key render.SceneKey, obj render.Object) {
	st.objects[key] = obj
	st.order = append(st.order, key)
}

func (st *SceneStore) forget(key render.SceneKey) {
	if _, exists := st.objects[key]; !exists {
		return
	}
	delete(st.objects, key)
	for i, cur := range st.order {
		if cur == key {
			st.order = append(st.order[:i], st.order[i+1:]...)
			break
		}
	}
}

// Implements render.Backend.
func (st *SceneStore) NewShape(key render.SceneKey, name string) (render.Shape, error) {
	shape := &Shape{
		st: st,
		rec: ShapeRecord{
			Key:       key,
			Name:      name,
			Transform: types.Ident4(),
			Visible:   true,
		},
	}
	st.track(key, shape)
	return shape, nil
}

// Implements render.Backend.
func (st *SceneStore) NewInstance(key render.SceneKey, name string, master render.Shape) (render.Shape, error) {
	masterShape, isStoreShape := master.(*Shape)
	if !isStoreShape {
		return nil, fmt.Errorf("store: instance master for %q is not a store shape", key)
	}

	inst := &Shape{
		st: st,
		rec: ShapeRecord{
			Key:       key,
			Name:      name,
			Master:    masterShape.Key(),
			Transform: types.Ident4(),
			Visible:   true,
		},
	}
	st.track(key, inst)
	return inst, nil
}

// Implements render.Backend.
func (st *SceneStore) NewLight(key render.SceneKey, name string, kind render.LightKind) (render.Light, error) {
	light := &Light{
		st: st,
		rec: LightRecord{
			Key:       key,
			Name:      name,
			Kind:      kind,
			Transform: types.Ident4(),
		},
	}
	st.track(key, light)

	if kind == render.AreaLight {
		return &AreaLight{Light: light}, nil
	}
	return light, nil
}

// Implements render.Backend.
func (st *SceneStore) NewCamera(key render.SceneKey, name string) (render.Camera, error) {
	camera := &Camera{
		st: st,
		rec: CameraRecord{
			Key:       key,
			Name:      name,
			Transform: types.Ident4(),
		},
	}
	st.track(key, camera)
	return camera, nil
}

// Implements render.Backend.
func (st *SceneStore) SetWorld(color types.Vec3, strength float32) error {
	st.world = &WorldRecord{Color: color, Strength: strength}
	return nil
}

// Implements render.Backend.
func (st *SceneStore) EnableAOV(aov render.AOV) error {
	st.aovs[aov] = true
	return nil
}

// Implements render.Backend. The store has no device to resolve from;
// it serves the last uploaded framebuffer for the AOV and falls back to
// a zero image.
func (st *SceneStore) ReadAOV(aov render.AOV, width, height int) (*render.Image, error) {
	if img, exists := st.aovImages[aov]; exists && img.Width == width && img.Height == height {
		return img.Clone(), nil
	}
	return render.NewImage(width, height, 4), nil
}

// Upload a resolved framebuffer for an AOV.
func (st *SceneStore) SetAOVImage(aov render.AOV, img *render.Image) {
	st.aovImages[aov] = img
}

// Record the scene name and output resolution.
func (st *SceneStore) SetSceneInfo(name string, width, height int) {
	st.name = name
	st.width = width
	st.height = height
}

// Record the container's active camera.
func (st *SceneStore) SetActiveCamera(key render.SceneKey) {
	st.activeCamera = key
}

// Attach a validated animation track to its group.
func (st *SceneStore) AddAnimation(anim *Animation) error {
	if err := anim.Validate(); err != nil {
		return err
	}
	st.ensureGroup(anim.GroupName)
	st.animations = append(st.animations, anim)
	return nil
}

// The attached animation tracks in attachment order.
func (st *SceneStore) Animations() []*Animation {
	return st.animations
}

// Record a custom integer parameter saved with the container.
func (st *SceneStore) SetCustomInt(name string, value int32) {
	st.customInts[name] = value
}

// Record a custom float parameter saved with the container.
func (st *SceneStore) SetCustomFloat(name string, value float32) {
	st.customFloats[name] = value
}

// The number of live objects in the store.
func (st *SceneStore) ObjectCount() int {
	return len(st.objects)
}

// Write the store into a portable scene container at path. The flags
// control how referenced images travel with the container.
func (st *SceneStore) Export(path string, flags ExportFlag) error {
	return newContainerWriter(st, path, flags).Write()
}

// Snapshot the store into its serializable container form.
func (st *SceneStore) Snapshot() *Container {
	container := &Container{
		FormatVersion: containerFormatVersion,
		Name:          st.name,
		Width:         st.width,
		Height:        st.height,
		World:         st.world,
		ActiveCamera:  st.activeCamera,
		Animations:    st.animations,
		CustomInts:    st.customInts,
		CustomFloats:  st.customFloats,
	}

	for _, rec := range st.shapeRecords() {
		container.Shapes = append(container.Shapes, *rec)
	}
	for _, rec := range st.lightRecords() {
		container.Lights = append(container.Lights, *rec)
	}
	for _, rec := range st.cameraRecords() {
		container.Cameras = append(container.Cameras, *rec)
	}
	for _, group := range st.Groups() {
		container.Groups = append(container.Groups, *group)
	}

	return container
}

func (st *SceneStore) shapeRecords() []*ShapeRecord {
	out := make([]*ShapeRecord, 0, len(st.order))
	for _, key := range st.order {
		if shape, isShape := st.objects[key].(*Shape); isShape {
			out = append(out, &shape.rec)
		}
	}
	return out
}

func (st *SceneStore) lightRecords() []*LightRecord {
	out := make([]*LightRecord, 0, len(st.order))
	for _, key := range st.order {
		if light, isLight := st.objects[key].(*Light); isLight {
			out = append(out, &light.rec)
		}
	}
	return out
}

func (st *SceneStore) cameraRecords() []*CameraRecord {
	out := make([]*CameraRecord, 0, len(st.order))
	for _, key := range st.order {
		if camera, isCamera := st.objects[key].(*Camera); isCamera {
			out = append(out, &camera.rec)
		}
	}
	return out
}

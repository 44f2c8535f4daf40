package render

import (
	"fmt"

	"github.com/achilleasa/aurora/log"
	"github.com/achilleasa/aurora/types"
)

// Well known context parameter names.
const (
	ParamPreview     = "preview"
	ParamYFlip       = "yflip"
	ParamMaxRayDepth = "ray.maxdepth"
)

// Context tracks the objects synced into a renderer backend. It owns the
// scene key space; creating two objects with the same key is treated as a
// host configuration error.
type Context struct {
	logger  log.Logger
	backend Backend

	sceneName string
	width     int
	height    int

	objects   map[SceneKey]Object
	syncOrder []SceneKey
	aovs      map[AOV]bool
	params    map[string]interface{}
	camera    Camera
	released  bool
}

// Create a render context on top of a backend.
func NewContext(backend Backend) *Context {
	return &Context{
		logger:  log.New("render context"),
		backend: backend,
		objects: make(map[SceneKey]Object),
		aovs:    make(map[AOV]bool),
		params:  make(map[string]interface{}),
	}
}

// Set the name of the synced scene.
func (c *Context) SetSceneName(name string) {
	c.sceneName = name
}

// The name of the synced scene.
func (c *Context) SceneName() string {
	return c.sceneName
}

// Set the framebuffer resolution.
func (c *Context) SetResolution(width, height int) {
	c.width = width
	c.height = height
}

// The framebuffer resolution.
func (c *Context) Resolution() (width, height int) {
	return c.width, c.height
}

// Look up a synced object by key.
func (c *Context) Object(key SceneKey) (Object, bool) {
	obj, exists := c.objects[key]
	return obj, exists
}

// The synced objects in sync order.
func (c *Context) Objects() []Object {
	out := make([]Object, 0, len(c.syncOrder))
	for _, key := range c.syncOrder {
		out = append(out, c.objects[key])
	}
	return out
}

// The number of synced objects.
func (c *Context) ObjectCount() int {
	return len(c.objects)
}

func (c *Context) track(key SceneKey, obj Object) {
	c.objects[key] = obj
	c.syncOrder = append(c.syncOrder, key)
}

func (c *Context) checkKey(key SceneKey) error {
	if c.released {
		return ErrContextReleased
	}
	if _, exists := c.objects[key]; exists {
		return fmt.Errorf("%w %q", ErrDuplicateSceneKey, key)
	}
	return nil
}

// Create and track a shape.
func (c *Context) CreateShape(key SceneKey, name string) (Shape, error) {
	if err := c.checkKey(key); err != nil {
		return nil, err
	}
	shape, err := c.backend.NewShape(key, name)
	if err != nil {
		return nil, err
	}
	c.track(key, shape)
	return shape, nil
}

// Create and track an instanced copy of master.
func (c *Context) CreateInstance(key SceneKey, name string, master Shape) (Shape, error) {
	if err := c.checkKey(key); err != nil {
		return nil, err
	}
	inst, err := c.backend.NewInstance(key, name, master)
	if err != nil {
		return nil, err
	}
	c.track(key, inst)
	return inst, nil
}

// Create and track a light.
func (c *Context) CreateLight(key SceneKey, name string, kind LightKind) (Light, error) {
	if err := c.checkKey(key); err != nil {
		return nil, err
	}
	light, err := c.backend.NewLight(key, name, kind)
	if err != nil {
		return nil, err
	}
	c.track(key, light)
	return light, nil
}

// Create and track a camera.
func (c *Context) CreateCamera(key SceneKey, name string) (Camera, error) {
	if err := c.checkKey(key); err != nil {
		return nil, err
	}
	camera, err := c.backend.NewCamera(key, name)
	if err != nil {
		return nil, err
	}
	c.track(key, camera)
	return camera, nil
}

// Set the active camera.
func (c *Context) SetCamera(camera Camera) {
	c.camera = camera
}

// The active camera or nil if none was set.
func (c *Context) Camera() Camera {
	return c.camera
}

// Set the environment lighting.
func (c *Context) SetWorld(color types.Vec3, strength float32) error {
	return c.backend.SetWorld(color, strength)
}

// Enable resolving of an AOV framebuffer.
func (c *Context) EnableAOV(aov AOV) error {
	if err := c.backend.EnableAOV(aov); err != nil {
		return err
	}
	c.aovs[aov] = true
	return nil
}

// Returns true if the AOV was enabled on this context.
func (c *Context) IsAOVEnabled(aov AOV) bool {
	return c.aovs[aov]
}

// Read back the resolved framebuffer of an enabled AOV.
func (c *Context) GetImage(aov AOV) (*Image, error) {
	if !c.aovs[aov] {
		return nil, fmt.Errorf("%w: %s", ErrAOVNotEnabled, aov)
	}
	return c.backend.ReadAOV(aov, c.width, c.height)
}

// Set a renderer parameter.
func (c *Context) SetParameter(name string, value interface{}) {
	c.params[name] = value
}

// Look up a renderer parameter.
func (c *Context) Parameter(name string) (interface{}, bool) {
	value, exists := c.params[name]
	return value, exists
}

// Release all synced objects. The context cannot be reused afterwards.
func (c *Context) Release() {
	if c.released {
		return
	}
	c.released = true

	c.logger.Debugf("releasing %d synced objects", len(c.objects))
	for _, key := range c.syncOrder {
		c.objects[key].Release()
	}
	c.objects = make(map[SceneKey]Object)
	c.syncOrder = nil
	c.camera = nil
}

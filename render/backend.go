package render

import "github.com/achilleasa/aurora/types"

// Backend abstracts the renderer that scene objects are synced into. A
// backend owns object storage and framebuffer resolves; the context owns
// key bookkeeping and sync state on top of it.
type Backend interface {
	// Create a new shape keyed by key.
	NewShape(key SceneKey, name string) (Shape, error)

	// Create an instanced copy of master keyed by key.
	NewInstance(key SceneKey, name string, master Shape) (Shape, error)

	// Create a new light of the given kind keyed by key.
	NewLight(key SceneKey, name string, kind LightKind) (Light, error)

	// Create a new camera keyed by key.
	NewCamera(key SceneKey, name string) (Camera, error)

	// Set the environment lighting.
	SetWorld(color types.Vec3, strength float32) error

	// Ask the backend to resolve an AOV framebuffer.
	EnableAOV(aov AOV) error

	// Read back the resolved framebuffer of an AOV.
	ReadAOV(aov AOV, width, height int) (*Image, error)
}

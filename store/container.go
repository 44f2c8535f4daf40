package store

import "github.com/achilleasa/aurora/render"

const (
	// The container format revision this package writes.
	containerFormatVersion uint32 = 1

	// The name of the scene data entry inside a container.
	sceneDataFile = "scene.bin"

	// The entry prefix for embedded images.
	imageEntryPrefix = "images/"
)

// ExportFlag controls how images referenced by the scene travel with an
// exported container. Without any flag set, images are omitted.
type ExportFlag uint32

const (
	// Copy referenced images next to the container instead of embedding
	// them.
	ExportImagesExternal ExportFlag = 1 << iota

	// Embed referenced images byte-for-byte.
	ExportImagesLossless

	// Embed referenced images recompressed with a lossy codec.
	ExportImagesLossy
)

// ImageRecord describes one image that travels with a container.
type ImageRecord struct {
	// The container entry name, or the external file name for images
	// stored next to the container.
	Name string

	// The path of the source file the image came from.
	SourcePath string

	External bool
	Lossy    bool
	Size     int64
}

// Container is the serialized form of a scene store. It is the payload
// of the scene data entry inside an exported container file.
type Container struct {
	FormatVersion uint32

	Name   string
	Width  int
	Height int

	World        *WorldRecord
	ActiveCamera render.SceneKey

	Shapes  []ShapeRecord
	Lights  []LightRecord
	Cameras []CameraRecord

	Groups     []GroupRecord
	Animations []*Animation

	CustomInts   map[string]int32
	CustomFloats map[string]float32

	Images []ImageRecord

	// Embedded image payloads keyed by entry name. Populated by the
	// container reader; never serialized with the scene data entry.
	ImageData map[string][]byte
}

// Look up a group record by name.
func (c *Container) Group(name string) (*GroupRecord, bool) {
	for i := range c.Groups {
		if c.Groups[i].Name == name {
			return &c.Groups[i], true
		}
	}
	return nil, false
}

// The animation tracks attached to a group.
func (c *Container) GroupAnimations(name string) []*Animation {
	var out []*Animation
	for _, anim := range c.Animations {
		if anim.GroupName == name {
			out = append(out, anim)
		}
	}
	return out
}

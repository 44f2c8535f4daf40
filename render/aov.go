package render

// AOV enumerates the framebuffer channels a renderer can resolve.
type AOV uint32

const (
	AOVColor AOV = iota
	AOVOpacity
	AOVDepth
	AOVObjectID
	AOVWorldCoordinate
	AOVShadingNormal
	AOVDiffuseAlbedo
)

// Implements Stringer.
func (a AOV) String() string {
	switch a {
	case AOVColor:
		return "Color"
	case AOVOpacity:
		return "Opacity"
	case AOVDepth:
		return "Depth"
	case AOVObjectID:
		return "Object ID"
	case AOVWorldCoordinate:
		return "World Coordinate"
	case AOVShadingNormal:
		return "Shading Normal"
	case AOVDiffuseAlbedo:
		return "Albedo"
	}
	return "unknown"
}

// Render pass names with special composition rules.
const (
	PassCombined = "Combined"
	PassColor    = "Color"
)

// Pass describes one output pass requested by a result sink.
type Pass struct {
	Name     string
	Channels int
}

var aovByPassName = map[string]AOV{
	"Color":            AOVColor,
	"Opacity":          AOVOpacity,
	"Depth":            AOVDepth,
	"Object ID":        AOVObjectID,
	"World Coordinate": AOVWorldCoordinate,
	"Shading Normal":   AOVShadingNormal,
	"Albedo":           AOVDiffuseAlbedo,
}

// Look up the AOV backing a named render pass.
func PassAOV(name string) (AOV, bool) {
	aov, exists := aovByPassName[name]
	return aov, exists
}

package reader

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/achilleasa/aurora/log"
	"github.com/achilleasa/aurora/scene"
	"github.com/achilleasa/aurora/types"
)

// The JSON wire form of a scene document.
type sceneDocument struct {
	Name              string       `json:"name"`
	FrameStart        *float32     `json:"frame_start"`
	FrameEnd          *float32     `json:"frame_end"`
	FPS               *float32     `json:"fps"`
	Resolution        *[2]int      `json:"resolution"`
	ResolutionPercent *int         `json:"resolution_percent"`
	MotionBlur        bool         `json:"motion_blur"`
	MaxRayDepth       int          `json:"max_ray_depth"`
	Camera            string       `json:"camera"`
	World             *docWorld    `json:"world"`
	Entities          []*docEntity `json:"entities"`
}

type docWorld struct {
	Color    [3]float32 `json:"color"`
	Strength *float32   `json:"strength"`
}

type docEntity struct {
	Name   string `json:"name"`
	Type   string `json:"type"`
	Parent string `json:"parent"`

	docTransform

	// Both default to true when absent.
	Visible    *bool `json:"visible"`
	MotionBlur *bool `json:"motion_blur"`

	Camera   *docCamera      `json:"camera"`
	Light    *docLight       `json:"light"`
	Mesh     *docMesh        `json:"mesh"`
	Material *docMaterial    `json:"material"`
	Action   *docAction      `json:"action"`
	Instance []*docTransform `json:"instances"`
}

type docTransform struct {
	Translation *[3]float32 `json:"translation"`
	Rotation    *[4]float32 `json:"rotation"`
	Scale       *[3]float32 `json:"scale"`
}

type docCamera struct {
	FocalLength *float32 `json:"focal_length"`
	SensorWidth *float32 `json:"sensor_width"`
	ClipStart   *float32 `json:"clip_start"`
	ClipEnd     *float32 `json:"clip_end"`
	Exposure    *float32 `json:"exposure"`
}

type docLight struct {
	Kind  string      `json:"kind"`
	Color *[3]float32 `json:"color"`
	Power *float32    `json:"power"`
}

type docMesh struct {
	Vertices  int `json:"vertices"`
	Triangles int `json:"triangles"`
}

type docMaterial struct {
	BaseColor        *[3]float32 `json:"base_color"`
	Metalness        float32     `json:"metalness"`
	Roughness        float32     `json:"roughness"`
	EmissionColor    *[3]float32 `json:"emission_color"`
	EmissionStrength float32     `json:"emission_strength"`
	Texture          string      `json:"texture"`
}

type docAction struct {
	Name   string      `json:"name"`
	Curves []*docCurve `json:"curves"`
}

type docCurve struct {
	Path      string       `json:"path"`
	Index     int          `json:"index"`
	Keyframes [][2]float32 `json:"keyframes"`
}

type documentReader struct {
	logger log.Logger
}

// Create a JSON scene document reader.
func newDocumentReader() *documentReader {
	return &documentReader{
		logger: log.New("scene document reader"),
	}
}

// Read scene document.
func (r *documentReader) Read(res *Resource) (*scene.Scene, error) {
	r.logger.Noticef(`parsing scene document from "%s"`, res.Path())
	start := time.Now()

	var doc sceneDocument
	dec := json.NewDecoder(res)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("document: could not parse %s: %s", res.Path(), err.Error())
	}

	sc, err := r.buildScene(&doc)
	if err != nil {
		return nil, err
	}

	r.logger.Noticef("parsed %d entities in %d ms", len(sc.Entities), time.Since(start).Nanoseconds()/1e6)
	return sc, nil
}

func (r *documentReader) buildScene(doc *sceneDocument) (*scene.Scene, error) {
	sc := &scene.Scene{
		Name:              doc.Name,
		FrameStart:        floatOrDefault(doc.FrameStart, 1),
		FrameEnd:          floatOrDefault(doc.FrameEnd, 1),
		FPS:               floatOrDefault(doc.FPS, 24),
		ResolutionX:       1920,
		ResolutionY:       1080,
		ResolutionPercent: 100,
		MotionBlur:        doc.MotionBlur,
		MaxRayDepth:       doc.MaxRayDepth,
		CameraName:        doc.Camera,
	}
	if doc.Resolution != nil {
		sc.ResolutionX, sc.ResolutionY = doc.Resolution[0], doc.Resolution[1]
	}
	if doc.ResolutionPercent != nil {
		sc.ResolutionPercent = *doc.ResolutionPercent
	}
	if doc.World != nil {
		sc.World = &scene.World{
			Color:    types.Vec3(doc.World.Color),
			Strength: floatOrDefault(doc.World.Strength, 1),
		}
	}

	for _, docEnt := range doc.Entities {
		ent, err := r.buildEntity(docEnt)
		if err != nil {
			return nil, err
		}
		sc.Entities = append(sc.Entities, ent)
	}

	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return sc, nil
}

func (r *documentReader) buildEntity(docEnt *docEntity) (*scene.Entity, error) {
	if docEnt.Name == "" {
		return nil, fmt.Errorf("document: entity without a name")
	}

	entType, err := parseEntityType(docEnt.Type)
	if err != nil {
		return nil, fmt.Errorf("document: entity %q: %s", docEnt.Name, err.Error())
	}

	ent := scene.NewEntity(docEnt.Name, entType)
	ent.ParentName = docEnt.Parent
	ent.Rest = docEnt.docTransform.transform()
	if docEnt.Visible != nil {
		ent.Visible = *docEnt.Visible
	}
	if docEnt.MotionBlur != nil {
		ent.MotionBlur = *docEnt.MotionBlur
	}

	switch entType {
	case scene.CameraEntity:
		props := scene.DefaultCameraProps()
		if doc := docEnt.Camera; doc != nil {
			applyFloat(&props.FocalLength, doc.FocalLength)
			applyFloat(&props.SensorWidth, doc.SensorWidth)
			applyFloat(&props.ClipStart, doc.ClipStart)
			applyFloat(&props.ClipEnd, doc.ClipEnd)
			applyFloat(&props.Exposure, doc.Exposure)
		}
		ent.Camera = props
	case scene.LightEntity:
		props := &scene.LightProps{
			Kind:  scene.PointLight,
			Color: types.Vec3{1, 1, 1},
			Power: 100,
		}
		if doc := docEnt.Light; doc != nil {
			if doc.Kind != "" {
				props.Kind, err = parseLightKind(doc.Kind)
				if err != nil {
					return nil, fmt.Errorf("document: entity %q: %s", docEnt.Name, err.Error())
				}
			}
			if doc.Color != nil {
				props.Color = types.Vec3(*doc.Color)
			}
			applyFloat(&props.Power, doc.Power)
		}
		ent.Light = props
	}

	if docEnt.Mesh != nil {
		ent.Mesh = &scene.MeshProps{
			Vertices:  docEnt.Mesh.Vertices,
			Triangles: docEnt.Mesh.Triangles,
		}
	}
	if doc := docEnt.Material; doc != nil {
		mat := &scene.Material{
			BaseColor:        types.Vec3{0.8, 0.8, 0.8},
			Metalness:        doc.Metalness,
			Roughness:        doc.Roughness,
			EmissionStrength: doc.EmissionStrength,
			Texture:          doc.Texture,
		}
		if doc.BaseColor != nil {
			mat.BaseColor = types.Vec3(*doc.BaseColor)
		}
		if doc.EmissionColor != nil {
			mat.EmissionColor = types.Vec3(*doc.EmissionColor)
		}
		ent.Material = mat
	}

	if doc := docEnt.Action; doc != nil {
		action := &scene.Action{Name: doc.Name}
		for _, docCurve := range doc.Curves {
			curve := &scene.Curve{
				Path:  docCurve.Path,
				Index: docCurve.Index,
			}
			for _, key := range docCurve.Keyframes {
				curve.Keyframes = append(curve.Keyframes, scene.Keyframe{
					Frame: key[0],
					Value: key[1],
				})
			}
			action.Curves = append(action.Curves, curve)
		}
		ent.Action = action
	}

	for _, docInst := range docEnt.Instance {
		ent.Instances = append(ent.Instances, docInst.transform().Mat4())
	}

	return ent, nil
}

// Convert the wire transform into a TRS triplet defaulting to identity.
func (dt docTransform) transform() types.Transform {
	tr := types.TransformIdent()
	if dt.Translation != nil {
		tr.Translation = types.Vec3(*dt.Translation)
	}
	if dt.Rotation != nil {
		tr.Rotation = types.QuatFromVec4(types.Vec4(*dt.Rotation)).Normalize()
	}
	if dt.Scale != nil {
		tr.Scale = types.Vec3(*dt.Scale)
	}
	return tr
}

func parseEntityType(value string) (scene.EntityType, error) {
	switch value {
	case "mesh":
		return scene.MeshEntity, nil
	case "light":
		return scene.LightEntity, nil
	case "camera":
		return scene.CameraEntity, nil
	case "curve":
		return scene.CurveEntity, nil
	case "volume":
		return scene.VolumeEntity, nil
	case "empty", "":
		return scene.EmptyEntity, nil
	}
	return 0, fmt.Errorf("unsupported entity type %q", value)
}

func parseLightKind(value string) (scene.LightKind, error) {
	switch kind := scene.LightKind(value); kind {
	case scene.PointLight, scene.AreaLight, scene.SpotLight, scene.DirectionalLight:
		return kind, nil
	}
	return "", fmt.Errorf("unsupported light kind %q", value)
}

func floatOrDefault(value *float32, fallback float32) float32 {
	if value != nil {
		return *value
	}
	return fallback
}

func applyFloat(dst *float32, value *float32) {
	if value != nil {
		*dst = *value
	}
}

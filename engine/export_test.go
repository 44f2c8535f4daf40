package engine

import (
	"path/filepath"
	"testing"

	"github.com/achilleasa/aurora/render"
	"github.com/achilleasa/aurora/scene"
	"github.com/achilleasa/aurora/store"
	"github.com/achilleasa/aurora/types"
)

func TestGroupNames(t *testing.T) {
	torso := scene.NewEntity("Torso", scene.MeshEntity)
	body := scene.NewEntity("Body", scene.MeshEntity)
	body.Parent = torso
	leg := scene.NewEntity("Leg", scene.MeshEntity)
	leg.Parent = body
	sun := scene.NewEntity("Sun", scene.LightEntity)

	type spec struct {
		ent       *scene.Entity
		expGroup  string
		expParent string
	}

	specs := []spec{
		{sun, "Root.Sun", "Root"},
		{torso, "Root.Torso", "Root"},
		{body, "Torso.Body", "Root.Torso"},
		{leg, "Body.Leg", "Torso.Body"},
	}

	for specIndex, spec := range specs {
		group, parent := GroupNames(spec.ent)
		if group != spec.expGroup || parent != spec.expParent {
			t.Fatalf("[spec %d] expected groups (%q, %q) for %q; got (%q, %q)",
				specIndex, spec.expGroup, spec.expParent, spec.ent.Name, group, parent)
		}
	}
}

func TestExportEngineSync(t *testing.T) {
	sc := makeExportScene(t)

	x := NewExportEngine()
	if err := x.Sync(sc); err != nil {
		t.Fatal(err)
	}

	if frame, _ := sc.CurrentFrame(); frame != 1 {
		t.Fatalf("expected evaluation clock at the start frame after sync; got %g", frame)
	}

	snapshot := x.Store().Snapshot()

	if snapshot.Name != "orbit" {
		t.Fatalf("expected scene name orbit; got %q", snapshot.Name)
	}
	if snapshot.Width != 320 || snapshot.Height != 240 {
		t.Fatalf("expected resolution percentage to apply (320x240); got %dx%d", snapshot.Width, snapshot.Height)
	}
	if snapshot.World == nil || !vec3ApproxEq(snapshot.World.Color, types.Vec3{0.05, 0.05, 0.1}) {
		t.Fatalf("expected world record; got %+v", snapshot.World)
	}

	// rig, cube, the cube instance and the hidden ghost.
	if len(snapshot.Shapes) != 4 {
		t.Fatalf("expected 4 shape records; got %d", len(snapshot.Shapes))
	}

	rig := findShape(t, snapshot, "rig")
	if rig.Transform != types.Ident4() {
		t.Fatal("expected objects to sync with an identity transform")
	}
	if !rig.Visible {
		t.Fatal("expected the rig to be visible")
	}
	if rig.Group != "Root.rig" {
		t.Fatalf("expected rig group Root.rig; got %q", rig.Group)
	}
	if rig.Material == nil || !vec3ApproxEq(rig.Material.BaseColor, types.Vec3{0.8, 0.2, 0.2}) {
		t.Fatalf("expected rig material; got %+v", rig.Material)
	}
	if rig.Vertices != 8 || rig.Triangles != 12 {
		t.Fatalf("expected rig geometry bookkeeping; got %d/%d", rig.Vertices, rig.Triangles)
	}

	ghost := findShape(t, snapshot, "ghost")
	if ghost.Visible {
		t.Fatal("expected the ghost to stay hidden")
	}

	// Instances carry their static world matrix and no group.
	inst := findShape(t, snapshot, render.InstanceKey("cube", 0))
	if inst.Master != "cube" {
		t.Fatalf("expected instance master cube; got %q", inst.Master)
	}
	if got := inst.Transform.Translation(); !vec3ApproxEq(got, types.Vec3{0, 1, 5}) {
		t.Fatalf("expected instance world translation {0 1 5}; got %v", got)
	}
	if inst.Group != "" {
		t.Fatalf("expected instances to stay ungrouped; got %q", inst.Group)
	}

	if len(snapshot.Lights) != 1 {
		t.Fatalf("expected 1 light record; got %d", len(snapshot.Lights))
	}
	sun := snapshot.Lights[0]
	if sun.Kind != render.DirectionalLight {
		t.Fatalf("expected a directional light; got %d", sun.Kind)
	}
	if !vec3ApproxEq(sun.RadiantPower, types.Vec3{2, 2, 2}) {
		t.Fatalf("expected radiant power {2 2 2}; got %v", sun.RadiantPower)
	}

	// Group forest: parented entities hang under their parent group.
	cubeGroup, exists := snapshot.Group("rig.cube")
	if !exists || cubeGroup.Parent != "Root.rig" {
		t.Fatalf("expected group rig.cube under Root.rig; got %+v", cubeGroup)
	}
	if !cubeGroup.HasTransform || !approxEq(cubeGroup.Transform[1], 1) {
		t.Fatalf("expected the cube local offset in its group transform; got %v", cubeGroup.Transform)
	}

	// Baked animation: one track per movement type with seconds for
	// time keys.
	tracks := snapshot.GroupAnimations("Root.rig")
	if len(tracks) != 3 {
		t.Fatalf("expected 3 animation tracks; got %d", len(tracks))
	}
	translation := tracks[0]
	if translation.MovementType != store.MovementTranslation {
		t.Fatalf("expected the first track to be translation; got %d", translation.MovementType)
	}
	expTimes := []float32{1.0 / 24, 11.0 / 24}
	if len(translation.TimeKeys) != len(expTimes) {
		t.Fatalf("expected %d time keys; got %d", len(expTimes), len(translation.TimeKeys))
	}
	for i := range expTimes {
		if !approxEq(translation.TimeKeys[i], expTimes[i]) {
			t.Fatalf("expected time keys %v seconds; got %v", expTimes, translation.TimeKeys)
		}
	}
	if !approxEq(translation.TransformValues[3], 10) {
		t.Fatalf("expected x translation 10 at the second key; got %v", translation.TransformValues)
	}

	// Camera: active, grouped, carrying its full world transform.
	if snapshot.ActiveCamera != "cam" {
		t.Fatalf("expected active camera cam; got %q", snapshot.ActiveCamera)
	}
	if len(snapshot.Cameras) != 1 {
		t.Fatalf("expected 1 camera record; got %d", len(snapshot.Cameras))
	}
	cam := snapshot.Cameras[0]
	if cam.FocalLength != 50 || cam.SensorWidth != 36 {
		t.Fatalf("expected default lens settings; got %g/%g", cam.FocalLength, cam.SensorWidth)
	}
	if cam.Group != "rig.cam" {
		t.Fatalf("expected camera group rig.cam; got %q", cam.Group)
	}
	if got := cam.Transform.Translation(); !vec3ApproxEq(got, types.Vec3{0, -3, 1}) {
		t.Fatalf("expected camera world translation {0 -3 1}; got %v", got)
	}

	// Motion blur ran: the animated rig captured its previous frame
	// matrix and the camera its decomposed motion plus exposure.
	if rig.MotionTransform == nil {
		t.Fatal("expected motion transform on the rig")
	}
	if cam.LinearMotion == nil || cam.Exposure != 1 {
		t.Fatalf("expected camera motion and exposure 1; got %v/%g", cam.LinearMotion, cam.Exposure)
	}

	if got := snapshot.CustomFloats["scene.fps"]; got != 24 {
		t.Fatalf("expected scene.fps 24; got %g", got)
	}
	if snapshot.CustomInts["scene.frame_start"] != 1 || snapshot.CustomInts["scene.frame_end"] != 20 {
		t.Fatalf("expected frame range params; got %v", snapshot.CustomInts)
	}

	// Context state: final render parameters and the color AOV.
	if v, _ := x.Context().Parameter(render.ParamPreview); v != false {
		t.Fatalf("expected preview mode off; got %v", v)
	}
	if v, _ := x.Context().Parameter(render.ParamYFlip); v != true {
		t.Fatalf("expected y-flip on; got %v", v)
	}
	if v, _ := x.Context().Parameter(render.ParamMaxRayDepth); v != 8 {
		t.Fatalf("expected default ray depth 8; got %v", v)
	}
	if !x.Context().IsAOVEnabled(render.AOVColor) {
		t.Fatal("expected the color AOV to be enabled")
	}
}

func TestExportEngineMotionBlurGate(t *testing.T) {
	type spec struct {
		descr      string
		motionBlur bool
		exposure   float32
		expMotion  bool
	}

	specs := []spec{
		{"enabled with exposure", true, 1, true},
		{"zero exposure", true, 0, false},
		{"disabled", false, 1, false},
	}

	for specIndex, spec := range specs {
		sc := makeExportScene(t)
		sc.MotionBlur = spec.motionBlur
		cam := sc.Camera()
		cam.Camera.Exposure = spec.exposure

		x := NewExportEngine()
		if err := x.Sync(sc); err != nil {
			t.Fatalf("[spec %d] %s: %v", specIndex, spec.descr, err)
		}

		snapshot := x.Store().Snapshot()
		rig := findShape(t, snapshot, "rig")
		if gotMotion := rig.MotionTransform != nil; gotMotion != spec.expMotion {
			t.Fatalf("[spec %d] %s: expected motion=%t; got %t", specIndex, spec.descr, spec.expMotion, gotMotion)
		}
		if gotExposure := snapshot.Cameras[0].Exposure; (gotExposure != 0) != spec.expMotion {
			t.Fatalf("[spec %d] %s: expected exposure set=%t; got %g", specIndex, spec.descr, spec.expMotion, gotExposure)
		}
	}
}

func TestExportEngineSyncWithoutCamera(t *testing.T) {
	sc := makeExportScene(t)
	sc.CameraName = ""
	if err := sc.Validate(); err != nil {
		t.Fatal(err)
	}

	x := NewExportEngine()
	if err := x.Sync(sc); err != nil {
		t.Fatal(err)
	}

	snapshot := x.Store().Snapshot()
	if snapshot.ActiveCamera != "" {
		t.Fatalf("expected no active camera; got %q", snapshot.ActiveCamera)
	}
	if got := findShape(t, snapshot, "rig").MotionTransform; got != nil {
		t.Fatalf("expected no motion blur without a camera; got %v", got)
	}
}

func TestExportEngineRoundTrip(t *testing.T) {
	sc := makeExportScene(t)

	x := NewExportEngine()
	if err := x.Sync(sc); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "orbit.arsb")
	if err := x.ExportToFile(path, 0); err != nil {
		t.Fatal(err)
	}

	container, err := store.ReadContainer(path)
	if err != nil {
		t.Fatal(err)
	}
	if container.Name != "orbit" || len(container.Shapes) != 4 {
		t.Fatalf("expected the exported scene to read back; got %q with %d shapes", container.Name, len(container.Shapes))
	}
	if got := len(container.GroupAnimations("Root.rig")); got != 3 {
		t.Fatalf("expected 3 animation tracks after the round trip; got %d", got)
	}
}

func makeExportScene(t *testing.T) *scene.Scene {
	rig := scene.NewEntity("rig", scene.MeshEntity)
	rig.Mesh = &scene.MeshProps{Vertices: 8, Triangles: 12}
	rig.Material = &scene.Material{BaseColor: types.Vec3{0.8, 0.2, 0.2}, Roughness: 0.5}
	rig.Action = &scene.Action{
		Name: "rig-slide",
		Curves: []*scene.Curve{
			{
				Path:  scene.CurveTranslation,
				Index: 0,
				Keyframes: []scene.Keyframe{
					{Frame: 1, Value: 0},
					{Frame: 11, Value: 10},
				},
			},
		},
	}

	cube := scene.NewEntity("cube", scene.MeshEntity)
	cube.ParentName = "rig"
	cube.Rest.Translation = types.Vec3{0, 1, 0}
	cube.Mesh = &scene.MeshProps{Vertices: 8, Triangles: 12}
	cube.Instances = []types.Mat4{types.Translate4(types.Vec3{0, 0, 5})}

	sun := scene.NewEntity("sun", scene.LightEntity)
	sun.Light = &scene.LightProps{Kind: scene.DirectionalLight, Color: types.Vec3{1, 1, 1}, Power: 2}

	ghost := scene.NewEntity("ghost", scene.MeshEntity)
	ghost.Visible = false

	cam := scene.NewEntity("cam", scene.CameraEntity)
	cam.ParentName = "rig"
	cam.Rest.Translation = types.Vec3{0, -3, 1}
	cam.Camera = scene.DefaultCameraProps()

	sc := &scene.Scene{
		Name:              "orbit",
		FrameStart:        1,
		FrameEnd:          20,
		FPS:               24,
		ResolutionX:       640,
		ResolutionY:       480,
		ResolutionPercent: 50,
		MotionBlur:        true,
		CameraName:        "cam",
		World:             &scene.World{Color: types.Vec3{0.05, 0.05, 0.1}, Strength: 1},
		Entities:          []*scene.Entity{rig, cube, sun, ghost, cam},
	}
	if err := sc.Validate(); err != nil {
		t.Fatal(err)
	}
	return sc
}

package engine

import (
	"fmt"
	"time"

	"github.com/chewxy/math32"

	"github.com/achilleasa/aurora/imagefilter"
	"github.com/achilleasa/aurora/render"
	"github.com/achilleasa/aurora/scene"
	"github.com/achilleasa/aurora/store"
	"github.com/achilleasa/aurora/types"
)

// ExportEngine drives a full document sync against a scene store and
// writes the result out as a portable scene container.
type ExportEngine struct {
	*Engine

	st *store.SceneStore
}

// Create an export engine over a fresh scene store. Filters run on a
// banded executor that rebalances across runs.
func NewExportEngine() *ExportEngine {
	st := store.NewSceneStore()
	return &ExportEngine{
		Engine: New(render.NewContext(st), imagefilter.NewParallelExecutor(0, imagefilter.NewAdaptiveScheduler())),
		st:     st,
	}
}

// The scene store backing the export engine.
func (x *ExportEngine) Store() *store.SceneStore {
	return x.st
}

// Sync pushes the full document into the scene store: world settings,
// objects with their transform groups and baked animation tracks,
// instanced copies, the active camera and motion blur data.
func (x *ExportEngine) Sync(sc *scene.Scene) error {
	start := time.Now()
	ev := scene.NewEvalContext(sc)

	x.ctx.SetSceneName(sc.Name)
	width, height := sc.Resolution()
	x.ctx.SetResolution(width, height)
	x.st.SetSceneInfo(sc.Name, width, height)

	if sc.World != nil {
		if err := x.ctx.SetWorld(sc.World.Color, sc.World.Strength); err != nil {
			return err
		}
	}

	keyframes := CollectKeyframes(sc)
	animation := CollectAnimationData(ev, keyframes)

	for _, ent := range sc.Objects(false) {
		if err := x.syncObject(sc, ent, keyframes, animation); err != nil {
			return fmt.Errorf("engine: sync %q: %w", ent.Name, err)
		}
	}

	x.ctx.SetParameter(render.ParamPreview, false)
	x.ctx.SetParameter(render.ParamMaxRayDepth, sc.MaxRayDepth)

	camera, err := x.syncCamera(sc)
	if err != nil {
		return err
	}

	if sc.MotionBlur && camera != nil {
		exposure := cameraExposure(sc.Camera())
		if math32.Abs(exposure) > exposureEpsilon {
			if err = x.SyncMotionBlur(ev); err != nil {
				return err
			}
			if err = camera.SetExposure(exposure); err != nil {
				return err
			}
		}
	}

	if err = x.ctx.EnableAOV(render.AOVColor); err != nil {
		return err
	}
	x.ctx.SetParameter(render.ParamYFlip, true)

	x.st.SetCustomFloat("scene.fps", sc.FPS)
	x.st.SetCustomInt("scene.frame_start", int32(sc.FrameStart))
	x.st.SetCustomInt("scene.frame_end", int32(sc.FrameEnd))

	x.logger.Noticef("synced scene %q (%d objects) in %d ms",
		sc.Name, x.ctx.ObjectCount(), time.Since(start).Nanoseconds()/1e6)
	return nil
}

// ExportToFile writes the synced store into a container file at path.
func (x *ExportEngine) ExportToFile(path string, flags store.ExportFlag) error {
	return x.st.Export(path, flags)
}

// Shutter exposures below this are treated as motion blur disabled.
const exposureEpsilon = 1e-9

func cameraExposure(ent *scene.Entity) float32 {
	if ent == nil || ent.Camera == nil {
		return scene.DefaultCameraProps().Exposure
	}
	return ent.Camera.Exposure
}

// Sync one object: create its renderer counterpart with an identity
// transform and route its local matrix and animation through its
// transform group. Instanced copies are synced with their static world
// matrices; containers do not group instances.
func (x *ExportEngine) syncObject(sc *scene.Scene, ent *scene.Entity, keyframes map[string][]float32, animation map[string]*AnimationSamples) error {
	obj, err := x.createObject(ent)
	if err != nil {
		return err
	}
	if obj == nil {
		x.logger.Debugf("skipping unsupported %s entity %q", ent.Type, ent.Name)
		return nil
	}

	obj.SetName(ent.Name)
	if err = obj.SetTransform(types.Ident4()); err != nil {
		return err
	}

	groupName, parentGroupName := GroupNames(ent)
	if assignable, canGroup := obj.(render.GroupAssignable); canGroup {
		if err = assignable.AssignToGroup(groupName); err != nil {
			return err
		}
	}
	if ent.Parent != nil {
		if err = x.st.AssignParentGroup(groupName, parentGroupName); err != nil {
			return err
		}
	}
	x.st.SetGroupTransform(groupName, types.TransformFromMat4(ent.LocalMatrix()).Floats())

	if err = x.applyObjectAnimation(sc, ent.Name, groupName, keyframes, animation); err != nil {
		return err
	}

	master, isShape := obj.(render.Shape)
	if !isShape {
		return nil
	}
	for i := range ent.Instances {
		inst, err := x.ctx.CreateInstance(render.InstanceKey(ent.Name, i), ent.Name, master)
		if err != nil {
			return err
		}
		if err = inst.SetTransform(ent.InstanceWorld(i)); err != nil {
			return err
		}
	}
	return nil
}

// Create the renderer object backing an entity. Entity types the store
// cannot represent yield nil.
func (x *ExportEngine) createObject(ent *scene.Entity) (render.Object, error) {
	key := render.ObjectKey(ent.Name)

	switch ent.Type {
	case scene.MeshEntity, scene.CurveEntity, scene.VolumeEntity:
		shape, err := x.ctx.CreateShape(key, ent.Name)
		if err != nil {
			return nil, err
		}
		if err = shape.SetVisibility(ent.Visible); err != nil {
			return nil, err
		}
		if ent.Mesh != nil {
			if err = shape.SetGeometry(ent.Mesh.Vertices, ent.Mesh.Triangles); err != nil {
				return nil, err
			}
		}
		if ent.Material != nil {
			if err = shape.SetMaterial(renderMaterial(ent.Material)); err != nil {
				return nil, err
			}
		}
		return shape, nil

	case scene.LightEntity:
		props := ent.Light
		if props == nil {
			props = &scene.LightProps{Kind: scene.PointLight, Color: types.Vec3{1, 1, 1}, Power: 1}
		}
		light, err := x.ctx.CreateLight(key, ent.Name, renderLightKind(props.Kind))
		if err != nil {
			return nil, err
		}
		if err = light.SetRadiantPower(props.Color.Mul(props.Power)); err != nil {
			return nil, err
		}
		return light, nil
	}
	return nil, nil
}

func renderMaterial(mat *scene.Material) render.Material {
	return render.Material{
		BaseColor:        mat.BaseColor,
		Metalness:        mat.Metalness,
		Roughness:        mat.Roughness,
		EmissionColor:    mat.EmissionColor,
		EmissionStrength: mat.EmissionStrength,
		Texture:          mat.Texture,
	}
}

func renderLightKind(kind scene.LightKind) render.LightKind {
	switch kind {
	case scene.AreaLight:
		return render.AreaLight
	case scene.SpotLight:
		return render.SpotLight
	case scene.DirectionalLight:
		return render.DirectionalLight
	}
	return render.PointLight
}

// Sync the active camera. Unlike other objects the camera carries its
// full world transform directly in addition to its group transform.
// Documents without a camera export none.
func (x *ExportEngine) syncCamera(sc *scene.Scene) (render.Camera, error) {
	ent := sc.Camera()
	if ent == nil {
		x.logger.Warningf("document defines no active camera; container will carry none")
		return nil, nil
	}

	camera, err := x.ctx.CreateCamera(render.ObjectKey(ent.Name), ent.Name)
	if err != nil {
		return nil, err
	}
	camera.SetName(ent.Name)
	x.ctx.SetCamera(camera)
	x.st.SetActiveCamera(camera.Key())

	groupName, parentGroupName := GroupNames(ent)
	if assignable, canGroup := camera.(render.GroupAssignable); canGroup {
		if err = assignable.AssignToGroup(groupName); err != nil {
			return nil, err
		}
	}
	if ent.Parent != nil {
		if err = x.st.AssignParentGroup(groupName, parentGroupName); err != nil {
			return nil, err
		}
	}
	x.st.SetGroupTransform(groupName, types.TransformFromMat4(ent.LocalMatrix()).Floats())

	props := ent.Camera
	if props == nil {
		props = scene.DefaultCameraProps()
	}
	if err = camera.SetLens(props.FocalLength, props.SensorWidth); err != nil {
		return nil, err
	}
	if err = camera.SetClipPlanes(props.ClipStart, props.ClipEnd); err != nil {
		return nil, err
	}
	if err = camera.SetTransform(ent.WorldMatrix()); err != nil {
		return nil, err
	}
	return camera, nil
}

// Attach the baked animation tracks of an entity to its group. Entities
// without collected samples are skipped. Key times are converted from
// frames to seconds using the document frame rate.
func (x *ExportEngine) applyObjectAnimation(sc *scene.Scene, name, groupName string, keyframes map[string][]float32, animation map[string]*AnimationSamples) error {
	samples, exists := animation[name]
	if !exists {
		return nil
	}

	times := make([]float32, len(keyframes[name]))
	for i, frame := range keyframes[name] {
		times[i] = frame / sc.FPS
	}

	tracks := []struct {
		movementType uint32
		values       []float32
	}{
		{store.MovementTranslation, samples.Translation},
		{store.MovementRotation, samples.Rotation},
		{store.MovementScale, samples.Scale},
	}
	for _, track := range tracks {
		anim, err := store.NewAnimation(groupName, track.movementType, times, track.values)
		if err != nil {
			return err
		}
		if err = x.st.AddAnimation(anim); err != nil {
			return err
		}
	}
	return nil
}

// GroupNames derives the transform group of an entity and the group of
// its parent. Group names nest at most one parent segment; the parent
// group reaches one level further up before collapsing into Root.
func GroupNames(ent *scene.Entity) (groupName, parentGroupName string) {
	if ent.Parent == nil {
		return fmt.Sprintf("Root.%s", ent.Name), "Root"
	}

	groupName = fmt.Sprintf("%s.%s", ent.Parent.Name, ent.Name)
	if ent.Parent.Parent != nil {
		parentGroupName = fmt.Sprintf("%s.%s", ent.Parent.Parent.Name, ent.Parent.Name)
	} else {
		parentGroupName = fmt.Sprintf("Root.%s", ent.Parent.Name)
	}
	return groupName, parentGroupName
}

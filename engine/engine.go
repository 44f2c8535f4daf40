// Package engine drives scene synchronization between a host document
// and a renderer context, including motion blur evaluation, post
// process filter management and render result composition.
package engine

import (
	"fmt"

	"github.com/achilleasa/aurora/imagefilter"
	"github.com/achilleasa/aurora/log"
	"github.com/achilleasa/aurora/render"
	"github.com/achilleasa/aurora/scene"
	"github.com/achilleasa/aurora/types"
)

// Engine owns a renderer context and the post process filter slots
// layered on top of it.
type Engine struct {
	logger log.Logger

	ctx  *render.Context
	exec imagefilter.Executor

	imageFilter      *imagefilter.Filter
	backgroundFilter *imagefilter.Filter
	upscaleFilter    *imagefilter.Filter
}

// Create an engine on top of a renderer context. Filters constructed by
// the engine evaluate on exec.
func New(ctx *render.Context, exec imagefilter.Executor) *Engine {
	return &Engine{
		logger: log.New("engine"),
		ctx:    ctx,
		exec:   exec,
	}
}

// The renderer context driven by this engine.
func (e *Engine) Context() *render.Context {
	return e.ctx
}

// StopRender releases the renderer context and drops all filter slots.
func (e *Engine) StopRender() {
	e.ctx.Release()
	e.imageFilter = nil
	e.backgroundFilter = nil
	e.upscaleFilter = nil
}

// SyncMotionBlur pushes per-object motion data into the renderer by
// stepping the evaluation clock one frame back. Only entities flagged
// for motion blur and backed by a motion capable renderer object take
// part. The evaluation clock is restored even when a setter fails.
func (e *Engine) SyncMotionBlur(ev *scene.EvalContext) error {
	sc := ev.Scene()

	type capture struct {
		obj      render.Object
		ent      *scene.Entity
		instance int
		cur      types.Mat4
	}

	var captured []capture
	for _, ent := range sc.Objects(true) {
		if !ent.MotionBlur {
			continue
		}

		if obj, exists := e.ctx.Object(render.ObjectKey(ent.Name)); exists && motionCapable(obj) {
			captured = append(captured, capture{obj: obj, ent: ent, instance: -1, cur: ent.WorldMatrix()})
		}
		for i := range ent.Instances {
			obj, exists := e.ctx.Object(render.InstanceKey(ent.Name, i))
			if !exists || !motionCapable(obj) {
				continue
			}
			captured = append(captured, capture{obj: obj, ent: ent, instance: i, cur: ent.InstanceWorld(i)})
		}
	}
	if len(captured) == 0 {
		return nil
	}

	frame, _ := sc.CurrentFrame()
	e.logger.Debugf("syncing motion blur for %d objects against frame %g", len(captured), frame-1)

	return ev.WithFrame(frame-1, func() error {
		for _, mc := range captured {
			prev := mc.ent.WorldMatrix()
			if mc.instance >= 0 {
				prev = mc.ent.InstanceWorld(mc.instance)
			}
			if err := setMotionBlur(mc.obj, prev, mc.cur); err != nil {
				return fmt.Errorf("engine: motion blur for %q: %w", mc.obj.Key(), err)
			}
		}
		return nil
	})
}

func motionCapable(obj render.Object) bool {
	if _, ok := obj.(render.MotionTransformSetter); ok {
		return true
	}
	_, ok := obj.(render.MotionSetter)
	return ok
}

// Push the previous-to-current frame motion onto a renderer object.
// Objects accepting a full motion transform receive the previous frame
// matrix as is; everything else receives decomposed linear, angular and
// scale deltas. A rotation too small to recover an axis from falls back
// to a zero turn around the x axis.
func setMotionBlur(obj render.Object, prev, cur types.Mat4) error {
	if setter, ok := obj.(render.MotionTransformSetter); ok {
		return setter.SetMotionTransform(prev)
	}

	setter, ok := obj.(render.MotionSetter)
	if !ok {
		return nil
	}

	velocity := prev.Translation().Sub(cur.Translation())
	if err := setter.SetLinearMotion(velocity[0], velocity[1], velocity[2]); err != nil {
		return err
	}

	mulDiff := prev.Mul4(cur.Inv())
	axis, angle := mulDiff.Rotation().AxisAngle()
	if axis.Len() > 0.5 {
		if err := setter.SetAngularMotion(axis[0], axis[1], axis[2], angle); err != nil {
			return err
		}
	} else {
		if err := setter.SetAngularMotion(1, 0, 0, 0); err != nil {
			return err
		}
	}

	// Cameras only support linear and angular motion.
	if _, isCamera := obj.(render.Camera); isCamera {
		return nil
	}
	scale := mulDiff.ScalePart().Sub(types.Vec3{1, 1, 1})
	return setter.SetScaleMotion(scale[0], scale[1], scale[2])
}

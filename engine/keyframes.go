package engine

import (
	"sort"

	"github.com/achilleasa/aurora/scene"
	"github.com/achilleasa/aurora/types"
)

// CollectKeyframes gathers the union of curve key times for each
// animated entity, clamped to the playback range, deduplicated and
// sorted ascending. Entities without an action are absent from the
// result.
func CollectKeyframes(sc *scene.Scene) map[string][]float32 {
	keyframes := make(map[string][]float32)

	for _, ent := range sc.Entities {
		if !ent.HasAnimation() {
			continue
		}

		seen := make(map[float32]bool)
		var times []float32
		for _, curve := range ent.Action.Curves {
			for _, key := range curve.Keyframes {
				t := key.Frame
				if t < sc.FrameStart {
					t = sc.FrameStart
				}
				if t > sc.FrameEnd {
					t = sc.FrameEnd
				}
				if !seen[t] {
					seen[t] = true
					times = append(times, t)
				}
			}
		}

		sort.Slice(times, func(i, j int) bool { return times[i] < times[j] })
		keyframes[ent.Name] = times
	}
	return keyframes
}

// AnimationSamples holds the local transform channels of one entity
// sampled at its collected keyframe times.
type AnimationSamples struct {
	// Three values per key.
	Translation []float32

	// Quaternion (x, y, z, w) per key.
	Rotation []float32

	// Three values per key.
	Scale []float32
}

// CollectAnimationData samples the local transform of each animated
// entity at its keyframe times by stepping the evaluation clock through
// them. The clock is restored to its previous frame before returning.
func CollectAnimationData(ev *scene.EvalContext, keyframes map[string][]float32) map[string]*AnimationSamples {
	sc := ev.Scene()
	frame, subframe := sc.CurrentFrame()
	defer ev.SetFrame(frame, subframe)

	// Deterministic entity order keeps the sampling sequence stable.
	names := make([]string, 0, len(keyframes))
	for name := range keyframes {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make(map[string]*AnimationSamples, len(keyframes))
	for _, name := range names {
		ent, exists := sc.Entity(name)
		if !exists {
			continue
		}

		samples := &AnimationSamples{}
		for _, t := range keyframes[name] {
			ev.SetFrame(t, 0)

			tr := types.TransformFromMat4(ent.LocalMatrix())
			samples.Translation = append(samples.Translation,
				tr.Translation[0], tr.Translation[1], tr.Translation[2])
			samples.Rotation = append(samples.Rotation,
				tr.Rotation.V[0], tr.Rotation.V[1], tr.Rotation.V[2], tr.Rotation.W)
			samples.Scale = append(samples.Scale,
				tr.Scale[0], tr.Scale[1], tr.Scale[2])
		}
		out[name] = samples
	}
	return out
}

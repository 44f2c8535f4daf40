package imagefilter

import (
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/achilleasa/aurora/render"
)

// ParallelExecutor produces the same output as CPUExecutor but splits
// the row-independent kernels into horizontal bands that run
// concurrently. Band heights come from the attached scheduler which
// receives per band timing feedback after every run.
type ParallelExecutor struct {
	inner *CPUExecutor
	sch   Scheduler

	workers      int
	lastBandTime []time.Duration
}

// Create a parallel filter executor. A non-positive worker count uses
// one worker per logical CPU; a nil scheduler defaults to the uniform
// one.
func NewParallelExecutor(workers int, sch Scheduler) *ParallelExecutor {
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	if sch == nil {
		sch = NewUniformScheduler()
	}

	return &ParallelExecutor{
		inner:   NewCPUExecutor(),
		sch:     sch,
		workers: workers,
	}
}

// Implements Executor.
func (e *ParallelExecutor) Run(f *Filter) (*render.Image, error) {
	switch f.Settings().Type {
	case Bilateral:
		return e.denoise(f, int(f.Param(ParamRadius)),
			e.inner.guides(f, InputColor, InputNormal, InputWorldCoordinate, InputObjectID))
	case EAW:
		return e.denoise(f, 1,
			e.inner.guides(f, InputColor, InputNormal, InputDepth, InputTrans))
	case LWR:
		color, _ := f.Input(InputColor)
		return e.denoise(f, int(f.Param(ParamHalfWindow)),
			[]guide{{img: color, sigma: f.Param(ParamBandwidth)}})
	case Upscale:
		return e.upscale(f)
	}

	// The remaining filter types are single-pass copies; banding them
	// costs more than it saves.
	return e.inner.Run(f)
}

func (e *ParallelExecutor) denoise(f *Filter, radius int, guides []guide) (*render.Image, error) {
	color, _ := f.Input(InputColor)
	if color.Channels < 3 {
		return nil, fmt.Errorf("imagefilter: color input carries %d channels; need at least 3", color.Channels)
	}
	if radius < 1 {
		radius = 1
	}

	out := color.Clone()
	e.runBands(color.Height, func(yMin, yMax int) {
		denoiseRows(color, out, radius, guides, yMin, yMax)
	})
	return out, nil
}

func (e *ParallelExecutor) upscale(f *Filter) (*render.Image, error) {
	color, _ := f.Input(InputColor)

	out := render.NewImage(color.Width*2, color.Height*2, color.Channels)
	e.runBands(out.Height, func(yMin, yMax int) {
		upscaleRows(color, out, yMin, yMax)
	})
	return out, nil
}

// Split height rows into scheduled bands and evaluate them
// concurrently, recording per band times as feedback for the next
// schedule.
func (e *ParallelExecutor) runBands(height int, body func(yMin, yMax int)) {
	bands := e.sch.Schedule(e.workers, height, e.lastBandTime)
	e.lastBandTime = make([]time.Duration, len(bands))

	var wg sync.WaitGroup
	yMin := 0
	for idx, bandH := range bands {
		wg.Add(1)
		go func(idx, yMin, yMax int) {
			defer wg.Done()

			start := time.Now()
			body(yMin, yMax)
			e.lastBandTime[idx] = time.Since(start)
		}(idx, yMin, yMin+bandH)
		yMin += bandH
	}
	wg.Wait()
}

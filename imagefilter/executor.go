package imagefilter

import (
	"fmt"

	"github.com/chewxy/math32"

	"github.com/achilleasa/aurora/render"
)

// Executor runs a constructed filter over its bound inputs and
// produces the output image.
type Executor interface {
	Run(f *Filter) (*render.Image, error)
}

// CPUExecutor evaluates filters on the host without device
// acceleration. Denoise variants reduce to edge-weighted window
// averages; the machine-learning variant passes color through
// unchanged.
type CPUExecutor struct{}

// Create a host-side filter executor.
func NewCPUExecutor() *CPUExecutor {
	return &CPUExecutor{}
}

// Implements Executor.
func (e *CPUExecutor) Run(f *Filter) (*render.Image, error) {
	switch f.Settings().Type {
	case Bilateral:
		return e.denoise(f, int(f.Param(ParamRadius)),
			e.guides(f, InputColor, InputNormal, InputWorldCoordinate, InputObjectID))
	case EAW:
		return e.denoise(f, 1,
			e.guides(f, InputColor, InputNormal, InputDepth, InputTrans))
	case LWR:
		color, _ := f.Input(InputColor)
		return e.denoise(f, int(f.Param(ParamHalfWindow)),
			[]guide{{img: color, sigma: f.Param(ParamBandwidth)}})
	case ML:
		return e.passthrough(f)
	case Background:
		return e.composite(f)
	case Upscale:
		return e.upscale(f)
	}
	return nil, fmt.Errorf("%w %d", ErrUnknownType, f.Settings().Type)
}

// guide is one edge-stopping term of a denoise window.
type guide struct {
	img   *render.Image
	sigma float32
}

func (e *CPUExecutor) guides(f *Filter, ids ...Input) []guide {
	out := make([]guide, 0, len(ids))
	for _, id := range ids {
		img, _ := f.Input(id)
		out = append(out, guide{img: img, sigma: f.Sigma(id)})
	}
	return out
}

// Weighted window average of the color input. Denoisers resolve alpha
// to a constant 1; callers restore the rendered alpha.
func (e *CPUExecutor) denoise(f *Filter, radius int, guides []guide) (*render.Image, error) {
	color, _ := f.Input(InputColor)
	if color.Channels < 3 {
		return nil, fmt.Errorf("imagefilter: color input carries %d channels; need at least 3", color.Channels)
	}
	if radius < 1 {
		radius = 1
	}

	out := color.Clone()
	denoiseRows(color, out, radius, guides, 0, color.Height)
	return out, nil
}

// Evaluate the denoise window for output rows [yMin, yMax). Each row
// reads only from the inputs so disjoint ranges can run concurrently.
func denoiseRows(color, out *render.Image, radius int, guides []guide, yMin, yMax int) {
	for y := yMin; y < yMax; y++ {
		for x := 0; x < color.Width; x++ {
			var sum [3]float32
			var weightSum float32

			for dy := -radius; dy <= radius; dy++ {
				for dx := -radius; dx <= radius; dx++ {
					nx, ny := x+dx, y+dy
					if nx < 0 || ny < 0 || nx >= color.Width || ny >= color.Height {
						continue
					}

					weight := float32(1)
					for _, g := range guides {
						weight *= edgeWeight(g.img, x, y, nx, ny, g.sigma)
					}

					idx := color.Index(nx, ny)
					sum[0] += weight * color.Pix[idx]
					sum[1] += weight * color.Pix[idx+1]
					sum[2] += weight * color.Pix[idx+2]
					weightSum += weight
				}
			}

			idx := out.Index(x, y)
			if weightSum > 0 {
				out.Pix[idx] = sum[0] / weightSum
				out.Pix[idx+1] = sum[1] / weightSum
				out.Pix[idx+2] = sum[2] / weightSum
			}
			if out.Channels > 3 {
				out.Pix[idx+3] = 1
			}
		}
	}
}

// The Gaussian edge-stopping weight between two pixels of a guide
// image. Non-positive sigmas disable the term.
func edgeWeight(img *render.Image, x, y, nx, ny int, sigma float32) float32 {
	if sigma <= 0 {
		return 1
	}

	channels := img.Channels
	if channels > 3 {
		channels = 3
	}

	var dist2 float32
	a, b := img.Index(x, y), img.Index(nx, ny)
	for c := 0; c < channels; c++ {
		d := img.Pix[a+c] - img.Pix[b+c]
		dist2 += d * d
	}
	return math32.Exp(-dist2 / (2 * sigma * sigma))
}

func (e *CPUExecutor) passthrough(f *Filter) (*render.Image, error) {
	color, _ := f.Input(InputColor)
	out := color.Clone()
	if out.Channels > 3 {
		for p := 3; p < len(out.Pix); p += out.Channels {
			out.Pix[p] = 1
		}
	}
	return out, nil
}

// Composite the rendered color over a transparent background by
// replacing alpha with the opacity buffer.
func (e *CPUExecutor) composite(f *Filter) (*render.Image, error) {
	color, _ := f.Input(InputColor)
	opacity, _ := f.Input(InputOpacity)

	if color.Channels < 4 {
		return nil, fmt.Errorf("imagefilter: background composite needs an alpha channel; color carries %d channels", color.Channels)
	}

	out := color.Clone()
	if err := out.CopyChannel(3, opacity, 0); err != nil {
		return nil, err
	}
	return out, nil
}

// Nearest-neighbor 2x upscale.
func (e *CPUExecutor) upscale(f *Filter) (*render.Image, error) {
	color, _ := f.Input(InputColor)

	out := render.NewImage(color.Width*2, color.Height*2, color.Channels)
	upscaleRows(color, out, 0, out.Height)
	return out, nil
}

// Fill output rows [yMin, yMax) of a 2x nearest-neighbor upscale.
func upscaleRows(color, out *render.Image, yMin, yMax int) {
	for y := yMin; y < yMax; y++ {
		for x := 0; x < out.Width; x++ {
			src := color.Index(x/2, y/2)
			dst := out.Index(x, y)
			copy(out.Pix[dst:dst+out.Channels], color.Pix[src:src+color.Channels])
		}
	}
}

package imagefilter

import (
	"fmt"

	"github.com/achilleasa/aurora/render"
)

// Type enumerates the post-process filters the pipeline can build.
type Type uint8

const (
	Bilateral Type = iota
	EAW
	LWR
	ML
	Background
	Upscale
)

// Implements Stringer.
func (t Type) String() string {
	switch t {
	case Bilateral:
		return "bilateral"
	case EAW:
		return "eaw"
	case LWR:
		return "lwr"
	case ML:
		return "ml"
	case Background:
		return "background"
	case Upscale:
		return "upscale"
	}
	return "unknown"
}

// Input identifies one image slot a filter reads from.
type Input string

const (
	InputColor           Input = "color"
	InputNormal          Input = "normal"
	InputDepth           Input = "depth"
	InputTrans           Input = "trans"
	InputWorldCoordinate Input = "world_coordinate"
	InputObjectID        Input = "object_id"
	InputAlbedo          Input = "albedo"
	InputOpacity         Input = "opacity"
)

// Tunable parameter names.
const (
	ParamRadius     = "radius"
	ParamSamples    = "samples"
	ParamHalfWindow = "halfWindow"
	ParamBandwidth  = "bandwidth"
)

// Spec is the configuration record for one filter slot. Specs compare
// with == so slot state machines can detect unchanged configurations.
type Spec struct {
	Enable bool
	Type   Type

	Width  int
	Height int

	ColorSigma  float32
	NormalSigma float32
	PSigma      float32
	DepthSigma  float32
	TransSigma  float32

	Radius     int
	Samples    int
	HalfWindow int
	Bandwidth  float32

	// Machine-learning denoiser options. A color-only filter skips
	// the guide inputs; FP16 halves the compute precision.
	MLColorOnly bool
	MLUseFP16   bool
}

// RequiredInputs lists the image slots a filter of the given spec
// consumes. Returns nil for unknown types.
func RequiredInputs(spec Spec) []Input {
	switch spec.Type {
	case Bilateral:
		return []Input{InputColor, InputNormal, InputWorldCoordinate, InputObjectID}
	case EAW, LWR:
		return []Input{InputColor, InputNormal, InputDepth, InputTrans, InputWorldCoordinate, InputObjectID}
	case ML:
		if spec.MLColorOnly {
			return []Input{InputColor}
		}
		return []Input{InputColor, InputNormal, InputDepth, InputAlbedo}
	case Background:
		return []Input{InputColor, InputOpacity}
	case Upscale:
		return []Input{InputColor}
	}
	return nil
}

// The per-input edge-stopping sigmas of a freshly built filter.
func sigmasFor(spec Spec) map[Input]float32 {
	switch spec.Type {
	case Bilateral:
		return map[Input]float32{
			InputColor:           spec.ColorSigma,
			InputNormal:          spec.NormalSigma,
			InputWorldCoordinate: spec.PSigma,
			InputObjectID:        spec.TransSigma,
		}
	case EAW:
		return map[Input]float32{
			InputColor:  spec.ColorSigma,
			InputNormal: spec.NormalSigma,
			InputDepth:  spec.DepthSigma,
			InputTrans:  spec.TransSigma,
		}
	}
	return map[Input]float32{}
}

// The tunable parameters of a freshly built filter.
func paramsFor(spec Spec) map[string]float32 {
	switch spec.Type {
	case Bilateral:
		return map[string]float32{ParamRadius: float32(spec.Radius)}
	case LWR:
		return map[string]float32{
			ParamSamples:    float32(spec.Samples),
			ParamHalfWindow: float32(spec.HalfWindow),
			ParamBandwidth:  spec.Bandwidth,
		}
	}
	return map[string]float32{}
}

// Filter is one constructed post-process filter instance. Inputs are
// bound per tile before Run; the executor consumes them and produces
// the output returned by GetData.
type Filter struct {
	spec     Spec
	required []Input

	inputs map[Input]*render.Image
	sigmas map[Input]float32
	params map[string]float32

	exec   Executor
	output *render.Image
}

// Construct a filter for the given spec.
func New(spec Spec, exec Executor) (*Filter, error) {
	required := RequiredInputs(spec)
	if required == nil {
		return nil, fmt.Errorf("%w %d", ErrUnknownType, spec.Type)
	}
	if spec.Width <= 0 || spec.Height <= 0 {
		return nil, fmt.Errorf("imagefilter: invalid resolution %dx%d", spec.Width, spec.Height)
	}

	return &Filter{
		spec:     spec,
		required: required,
		inputs:   make(map[Input]*render.Image, len(required)),
		sigmas:   sigmasFor(spec),
		params:   paramsFor(spec),
		exec:     exec,
	}, nil
}

// The spec the filter was last configured with.
func (f *Filter) Settings() Spec {
	return f.spec
}

// Refresh the stored spec after an in-place parameter update.
func (f *Filter) SetSettings(spec Spec) {
	f.spec = spec
}

// The declared input slots of the filter.
func (f *Filter) RequiredInputs() []Input {
	return f.required
}

func (f *Filter) requires(id Input) bool {
	for _, cur := range f.required {
		if cur == id {
			return true
		}
	}
	return false
}

// UpdateInput blits img into the input slot placing its origin at
// tilePos. The full-resolution input buffer is allocated on first use.
func (f *Filter) UpdateInput(id Input, img *render.Image, tilePos [2]int) error {
	if !f.requires(id) {
		return fmt.Errorf("%w %q for %s filter", ErrUnknownInput, id, f.spec.Type)
	}

	dst, exists := f.inputs[id]
	if !exists {
		dst = render.NewImage(f.spec.Width, f.spec.Height, img.Channels)
		f.inputs[id] = dst
	}
	return dst.WriteTile(img, tilePos[0], tilePos[1])
}

// UpdateSigma adjusts the edge-stopping sigma of one input in place.
func (f *Filter) UpdateSigma(id Input, sigma float32) error {
	if !f.requires(id) {
		return fmt.Errorf("%w %q for %s filter", ErrUnknownInput, id, f.spec.Type)
	}
	f.sigmas[id] = sigma
	return nil
}

// UpdateParam adjusts a tunable parameter in place.
func (f *Filter) UpdateParam(name string, value float32) {
	f.params[name] = value
}

// The bound image for an input slot.
func (f *Filter) Input(id Input) (*render.Image, bool) {
	img, exists := f.inputs[id]
	return img, exists
}

// The current sigma of an input slot.
func (f *Filter) Sigma(id Input) float32 {
	return f.sigmas[id]
}

// The current value of a tunable parameter.
func (f *Filter) Param(name string) float32 {
	return f.params[name]
}

// Run executes the filter over its bound inputs.
func (f *Filter) Run() error {
	for _, id := range f.required {
		if _, exists := f.inputs[id]; !exists {
			return fmt.Errorf("%w %q for %s filter", ErrMissingInput, id, f.spec.Type)
		}
	}

	output, err := f.exec.Run(f)
	if err != nil {
		return err
	}
	f.output = output
	return nil
}

// GetData returns a copy of the last Run output, or nil if the filter
// has not been run yet.
func (f *Filter) GetData() *render.Image {
	if f.output == nil {
		return nil
	}
	return f.output.Clone()
}

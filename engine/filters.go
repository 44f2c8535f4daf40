package engine

import (
	"fmt"

	"github.com/achilleasa/aurora/imagefilter"
	"github.com/achilleasa/aurora/render"
)

// The denoise filter slot or nil if none is configured.
func (e *Engine) ImageFilter() *imagefilter.Filter {
	return e.imageFilter
}

// The background composite filter slot or nil if none is configured.
func (e *Engine) BackgroundFilter() *imagefilter.Filter {
	return e.backgroundFilter
}

// The upscale filter slot or nil if none is configured.
func (e *Engine) UpscaleFilter() *imagefilter.Filter {
	return e.upscaleFilter
}

// SetupImageFilter applies the requested denoise settings to the filter
// slot and reports whether the slot changed. A parameter only change on
// a filter of the same type and resolution updates it in place; anything
// else rebuilds the filter. Machine learning filters are always rebuilt
// as their internals cannot be retuned after construction.
func (e *Engine) SetupImageFilter(spec imagefilter.Spec) (bool, error) {
	if e.imageFilter != nil && e.imageFilter.Settings() == spec {
		return false, nil
	}

	switch {
	case !spec.Enable:
		if e.imageFilter == nil {
			return false, nil
		}
		e.logger.Debugf("disabling %s image filter", e.imageFilter.Settings().Type)
		e.imageFilter = nil

	case e.imageFilter == nil:
		filter, err := e.enableImageFilter(spec)
		if err != nil {
			return false, err
		}
		e.imageFilter = filter

	case sameResolution(e.imageFilter.Settings(), spec) &&
		e.imageFilter.Settings().Type == spec.Type &&
		spec.Type != imagefilter.ML:
		if err := e.updateImageFilter(spec); err != nil {
			return false, err
		}

	default:
		e.imageFilter = nil
		filter, err := e.enableImageFilter(spec)
		if err != nil {
			return false, err
		}
		e.imageFilter = filter
	}
	return true, nil
}

// Create the denoise filter after enabling the AOVs its type pulls
// inputs from.
func (e *Engine) enableImageFilter(spec imagefilter.Spec) (*imagefilter.Filter, error) {
	aovs := []render.AOV{render.AOVColor}
	switch spec.Type {
	case imagefilter.Bilateral:
		aovs = append(aovs, render.AOVWorldCoordinate, render.AOVObjectID, render.AOVShadingNormal)
	case imagefilter.EAW, imagefilter.LWR:
		aovs = append(aovs, render.AOVWorldCoordinate, render.AOVObjectID, render.AOVDepth, render.AOVShadingNormal)
	case imagefilter.ML:
		if !spec.MLColorOnly {
			aovs = append(aovs, render.AOVDepth, render.AOVDiffuseAlbedo, render.AOVShadingNormal)
		}
	}
	for _, aov := range aovs {
		if err := e.ctx.EnableAOV(aov); err != nil {
			return nil, err
		}
	}

	e.logger.Debugf("enabling %s image filter at %dx%d", spec.Type, spec.Width, spec.Height)
	return imagefilter.New(spec, e.exec)
}

// Retune a compatible filter in place without recreating it.
func (e *Engine) updateImageFilter(spec imagefilter.Spec) error {
	filter := e.imageFilter
	filter.SetSettings(spec)

	sigmas := make(map[imagefilter.Input]float32)
	params := make(map[string]float32)
	switch spec.Type {
	case imagefilter.Bilateral:
		sigmas[imagefilter.InputColor] = spec.ColorSigma
		sigmas[imagefilter.InputNormal] = spec.NormalSigma
		sigmas[imagefilter.InputWorldCoordinate] = spec.PSigma
		sigmas[imagefilter.InputObjectID] = spec.TransSigma
		params[imagefilter.ParamRadius] = float32(spec.Radius)
	case imagefilter.EAW:
		sigmas[imagefilter.InputColor] = spec.ColorSigma
		sigmas[imagefilter.InputNormal] = spec.NormalSigma
		sigmas[imagefilter.InputDepth] = spec.DepthSigma
		sigmas[imagefilter.InputTrans] = spec.TransSigma
	case imagefilter.LWR:
		params[imagefilter.ParamSamples] = float32(spec.Samples)
		params[imagefilter.ParamHalfWindow] = float32(spec.HalfWindow)
		params[imagefilter.ParamBandwidth] = spec.Bandwidth
	}

	for id, sigma := range sigmas {
		if err := filter.UpdateSigma(id, sigma); err != nil {
			return err
		}
	}
	for name, value := range params {
		filter.UpdateParam(name, value)
	}
	return nil
}

// SetupBackgroundFilter applies the requested background composite
// settings and reports whether the slot changed. The filter has no
// tunable parameters; only a resolution change forces a rebuild.
func (e *Engine) SetupBackgroundFilter(spec imagefilter.Spec) (bool, error) {
	spec.Type = imagefilter.Background

	if e.backgroundFilter != nil && e.backgroundFilter.Settings() == spec {
		return false, nil
	}

	switch {
	case !spec.Enable:
		if e.backgroundFilter == nil {
			return false, nil
		}
		e.backgroundFilter = nil

	case e.backgroundFilter == nil:
		filter, err := e.enableBackgroundFilter(spec)
		if err != nil {
			return false, err
		}
		e.backgroundFilter = filter

	case sameResolution(e.backgroundFilter.Settings(), spec):
		return false, nil

	default:
		e.backgroundFilter = nil
		filter, err := e.enableBackgroundFilter(spec)
		if err != nil {
			return false, err
		}
		e.backgroundFilter = filter
	}
	return true, nil
}

func (e *Engine) enableBackgroundFilter(spec imagefilter.Spec) (*imagefilter.Filter, error) {
	for _, aov := range []render.AOV{render.AOVColor, render.AOVOpacity} {
		if err := e.ctx.EnableAOV(aov); err != nil {
			return nil, err
		}
	}

	e.logger.Debugf("enabling background filter at %dx%d", spec.Width, spec.Height)
	return imagefilter.New(spec, e.exec)
}

// SetupUpscaleFilter applies the requested upscale settings and reports
// whether the slot changed. Like the background slot, only a resolution
// change forces a rebuild.
func (e *Engine) SetupUpscaleFilter(spec imagefilter.Spec) (bool, error) {
	spec.Type = imagefilter.Upscale

	if e.upscaleFilter != nil && e.upscaleFilter.Settings() == spec {
		return false, nil
	}

	switch {
	case !spec.Enable:
		if e.upscaleFilter == nil {
			return false, nil
		}
		e.upscaleFilter = nil

	case e.upscaleFilter == nil:
		filter, err := e.enableUpscaleFilter(spec)
		if err != nil {
			return false, err
		}
		e.upscaleFilter = filter

	case sameResolution(e.upscaleFilter.Settings(), spec):
		return false, nil

	default:
		e.upscaleFilter = nil
		filter, err := e.enableUpscaleFilter(spec)
		if err != nil {
			return false, err
		}
		e.upscaleFilter = filter
	}
	return true, nil
}

func (e *Engine) enableUpscaleFilter(spec imagefilter.Spec) (*imagefilter.Filter, error) {
	if err := e.ctx.EnableAOV(render.AOVColor); err != nil {
		return nil, err
	}

	e.logger.Debugf("enabling upscale filter at %dx%d", spec.Width, spec.Height)
	return imagefilter.New(spec, e.exec)
}

func sameResolution(a, b imagefilter.Spec) bool {
	return a.Width == b.Width && a.Height == b.Height
}

// UpdateImageFilterInputs feeds the denoise filter from the AOVs its
// type declares, placing each image at the given tile position. The
// trans input mirrors the object id AOV.
func (e *Engine) UpdateImageFilterInputs(tilePos [2]int) error {
	if e.imageFilter == nil {
		return ErrFilterNotEnabled
	}

	color, err := e.ctx.GetImage(render.AOVColor)
	if err != nil {
		return err
	}
	if err = e.imageFilter.UpdateInput(imagefilter.InputColor, color, tilePos); err != nil {
		return err
	}

	switch spec := e.imageFilter.Settings(); spec.Type {
	case imagefilter.Bilateral:
		return e.bindAOVInputs(e.imageFilter, tilePos, map[imagefilter.Input]render.AOV{
			imagefilter.InputNormal:          render.AOVShadingNormal,
			imagefilter.InputWorldCoordinate: render.AOVWorldCoordinate,
			imagefilter.InputObjectID:        render.AOVObjectID,
		})

	case imagefilter.EAW, imagefilter.LWR:
		return e.bindAOVInputs(e.imageFilter, tilePos, map[imagefilter.Input]render.AOV{
			imagefilter.InputNormal:          render.AOVShadingNormal,
			imagefilter.InputDepth:           render.AOVDepth,
			imagefilter.InputTrans:           render.AOVObjectID,
			imagefilter.InputWorldCoordinate: render.AOVWorldCoordinate,
			imagefilter.InputObjectID:        render.AOVObjectID,
		})

	case imagefilter.ML:
		if spec.MLColorOnly {
			return nil
		}
		return e.bindAOVInputs(e.imageFilter, tilePos, map[imagefilter.Input]render.AOV{
			imagefilter.InputNormal: render.AOVShadingNormal,
			imagefilter.InputDepth:  render.AOVDepth,
			imagefilter.InputAlbedo: render.AOVDiffuseAlbedo,
		})
	}
	return fmt.Errorf("%w: %s", imagefilter.ErrUnknownType, e.imageFilter.Settings().Type)
}

func (e *Engine) bindAOVInputs(filter *imagefilter.Filter, tilePos [2]int, inputs map[imagefilter.Input]render.AOV) error {
	for id, aov := range inputs {
		img, err := e.ctx.GetImage(aov)
		if err != nil {
			return err
		}
		if err = filter.UpdateInput(id, img, tilePos); err != nil {
			return err
		}
	}
	return nil
}

// UpdateBackgroundFilterInputs feeds the background composite filter.
// Passing nil for color or opacity pulls the matching AOV from the
// renderer context instead.
func (e *Engine) UpdateBackgroundFilterInputs(tilePos [2]int, color, opacity *render.Image) error {
	if e.backgroundFilter == nil {
		return ErrFilterNotEnabled
	}

	var err error
	if color == nil {
		if color, err = e.ctx.GetImage(render.AOVColor); err != nil {
			return err
		}
	}
	if opacity == nil {
		if opacity, err = e.ctx.GetImage(render.AOVOpacity); err != nil {
			return err
		}
	}

	if err = e.backgroundFilter.UpdateInput(imagefilter.InputColor, color, tilePos); err != nil {
		return err
	}
	return e.backgroundFilter.UpdateInput(imagefilter.InputOpacity, opacity, tilePos)
}

// UpdateUpscaleFilterInputs feeds the upscale filter. Passing nil for
// color pulls the color AOV from the renderer context instead.
func (e *Engine) UpdateUpscaleFilterInputs(tilePos [2]int, color *render.Image) error {
	if e.upscaleFilter == nil {
		return ErrFilterNotEnabled
	}

	var err error
	if color == nil {
		if color, err = e.ctx.GetImage(render.AOVColor); err != nil {
			return err
		}
	}
	return e.upscaleFilter.UpdateInput(imagefilter.InputColor, color, tilePos)
}

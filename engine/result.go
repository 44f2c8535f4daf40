package engine

import "github.com/achilleasa/aurora/render"

// ResultSink receives composed render passes for a region of the frame.
// Begin reports the passes the sink wants filled for the region; End
// delivers the flattened pass rectangles back to back in the order that
// Begin returned them.
type ResultSink interface {
	Begin(tilePos, tileSize [2]int, layer string) []render.Pass
	End(rect []float32) error
}

// UpdateRenderResult asks the sink for the passes of a frame region,
// composes them from the renderer AOVs and the configured filters and
// hands the result back to the sink.
func (e *Engine) UpdateRenderResult(sink ResultSink, tilePos, tileSize [2]int, layer string, applyFilter bool) error {
	passes := sink.Begin(tilePos, tileSize, layer)
	rect, err := e.SetRenderResult(passes, applyFilter)
	if err != nil {
		return err
	}
	return sink.End(rect)
}

// SetRenderResult composes the requested passes. The returned buffer
// concatenates the flattened pass rectangles in input order, with each
// pass trimmed or zero padded to its requested channel count.
func (e *Engine) SetRenderResult(passes []render.Pass, applyFilter bool) ([]float32, error) {
	var out []float32
	for _, pass := range passes {
		image, err := e.composePass(pass, applyFilter)
		if err != nil {
			return nil, err
		}
		out = append(out, image.Flatten(pass.Channels)...)
	}
	return out, nil
}

func (e *Engine) composePass(pass render.Pass, applyFilter bool) (*render.Image, error) {
	switch pass.Name {
	case render.PassCombined:
		return e.composeCombined(applyFilter)
	case render.PassColor:
		return e.ctx.GetImage(render.AOVColor)
	}

	if aov, known := render.PassAOV(pass.Name); known && e.ctx.IsAOVEnabled(aov) {
		return e.ctx.GetImage(aov)
	}

	width, height := e.ctx.Resolution()
	e.logger.Warningf("no enabled AOV backs render pass %q; substituting zeros", pass.Name)
	return render.NewImage(width, height, pass.Channels), nil
}

// Compose the combined pass: denoised color when a filter applies, with
// the background composite layered on top when configured.
func (e *Engine) composeCombined(applyFilter bool) (*render.Image, error) {
	raw, err := e.ctx.GetImage(render.AOVColor)
	if err != nil {
		return nil, err
	}

	if applyFilter && e.imageFilter != nil {
		image := e.imageFilter.GetData()
		if image == nil {
			e.logger.Warningf("denoise filter holds no output yet; using the rendered image")
			return raw, nil
		}

		if e.backgroundFilter != nil {
			return e.runBackgroundComposite(image)
		}

		// The denoiser resolves alpha to a constant; restore the
		// rendered alpha channel.
		if err = image.CopyChannel(3, raw, 3); err != nil {
			return nil, err
		}
		return image, nil
	}

	if e.backgroundFilter != nil {
		return e.runBackgroundComposite(nil)
	}
	return raw, nil
}

func (e *Engine) runBackgroundComposite(color *render.Image) (*render.Image, error) {
	if err := e.UpdateBackgroundFilterInputs([2]int{0, 0}, color, nil); err != nil {
		return nil, err
	}
	if err := e.backgroundFilter.Run(); err != nil {
		return nil, err
	}
	return e.backgroundFilter.GetData(), nil
}

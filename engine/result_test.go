package engine

import (
	"errors"
	"testing"

	"github.com/achilleasa/aurora/imagefilter"
	"github.com/achilleasa/aurora/render"
	"github.com/achilleasa/aurora/store"
)

func TestSetRenderResultRawCombined(t *testing.T) {
	e, st := newResultEngine(t)
	raw := solid(2, 2, 0.2, 0.4, 0.6, 0.25)
	st.SetAOVImage(render.AOVColor, raw)

	rect, err := e.SetRenderResult([]render.Pass{{Name: render.PassCombined, Channels: 4}}, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(rect) != 2*2*4 {
		t.Fatalf("expected 16 floats; got %d", len(rect))
	}
	for p := 0; p < 4; p++ {
		if !approxEq(rect[p*4], 0.2) || !approxEq(rect[p*4+3], 0.25) {
			t.Fatalf("expected raw color at pixel %d; got %v", p, rect[p*4:p*4+4])
		}
	}
}

func TestSetRenderResultRestoresRenderedAlpha(t *testing.T) {
	e, st := newResultEngine(t)
	st.SetAOVImage(render.AOVColor, solid(2, 2, 0.2, 0.4, 0.6, 0.25))

	spec := imagefilter.Spec{
		Enable:     true,
		Type:       imagefilter.Bilateral,
		Width:      2,
		Height:     2,
		ColorSigma: 100,
		Radius:     1,
	}
	if _, err := e.SetupImageFilter(spec); err != nil {
		t.Fatal(err)
	}
	if err := e.UpdateImageFilterInputs([2]int{0, 0}); err != nil {
		t.Fatal(err)
	}
	if err := e.ImageFilter().Run(); err != nil {
		t.Fatal(err)
	}

	rect, err := e.SetRenderResult([]render.Pass{{Name: render.PassCombined, Channels: 4}}, true)
	if err != nil {
		t.Fatal(err)
	}

	// The denoiser resolves alpha to 1; composition must restore the
	// rendered 0.25.
	for p := 0; p < 4; p++ {
		if !approxEq(rect[p*4], 0.2) {
			t.Fatalf("expected denoised rgb 0.2 at pixel %d; got %g", p, rect[p*4])
		}
		if !approxEq(rect[p*4+3], 0.25) {
			t.Fatalf("expected rendered alpha 0.25 at pixel %d; got %g", p, rect[p*4+3])
		}
	}

	// Without applyFilter the raw image is served even though a filter
	// is configured.
	rect, err = e.SetRenderResult([]render.Pass{{Name: render.PassCombined, Channels: 4}}, false)
	if err != nil {
		t.Fatal(err)
	}
	if !approxEq(rect[3], 0.25) {
		t.Fatalf("expected raw alpha 0.25; got %g", rect[3])
	}
}

func TestSetRenderResultFilterWithoutOutputFallsBack(t *testing.T) {
	e, st := newResultEngine(t)
	st.SetAOVImage(render.AOVColor, solid(2, 2, 0.3, 0.3, 0.3, 0.5))

	spec := imagefilter.Spec{Enable: true, Type: imagefilter.Bilateral, Width: 2, Height: 2, Radius: 1}
	if _, err := e.SetupImageFilter(spec); err != nil {
		t.Fatal(err)
	}

	// The filter never ran; composition falls back to the raw image.
	rect, err := e.SetRenderResult([]render.Pass{{Name: render.PassCombined, Channels: 4}}, true)
	if err != nil {
		t.Fatal(err)
	}
	if !approxEq(rect[0], 0.3) || !approxEq(rect[3], 0.5) {
		t.Fatalf("expected raw pixel values; got %v", rect[:4])
	}
}

func TestSetRenderResultBackgroundComposite(t *testing.T) {
	e, st := newResultEngine(t)
	st.SetAOVImage(render.AOVColor, solid(2, 2, 0.2, 0.4, 0.6, 0))
	st.SetAOVImage(render.AOVOpacity, solid(2, 2, 0.75))

	if _, err := e.SetupBackgroundFilter(imagefilter.Spec{Enable: true, Width: 2, Height: 2}); err != nil {
		t.Fatal(err)
	}

	rect, err := e.SetRenderResult([]render.Pass{{Name: render.PassCombined, Channels: 4}}, false)
	if err != nil {
		t.Fatal(err)
	}
	for p := 0; p < 4; p++ {
		if !approxEq(rect[p*4], 0.2) || !approxEq(rect[p*4+3], 0.75) {
			t.Fatalf("expected composited alpha 0.75 at pixel %d; got %v", p, rect[p*4:p*4+4])
		}
	}
}

func TestSetRenderResultNamedPasses(t *testing.T) {
	e, st := newResultEngine(t)
	st.SetAOVImage(render.AOVColor, solid(2, 2, 0.2, 0.4, 0.6, 1))
	st.SetAOVImage(render.AOVDepth, solid(2, 2, 3, 0, 0, 0))
	if err := e.Context().EnableAOV(render.AOVDepth); err != nil {
		t.Fatal(err)
	}

	// An enabled AOV pass is trimmed to its requested channel count.
	rect, err := e.SetRenderResult([]render.Pass{{Name: "Depth", Channels: 1}}, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(rect) != 4 {
		t.Fatalf("expected 4 floats for a single channel pass; got %d", len(rect))
	}
	for p, v := range rect {
		if !approxEq(v, 3) {
			t.Fatalf("expected depth 3 at pixel %d; got %g", p, v)
		}
	}

	// A pass without a backing AOV resolves to zeros.
	rect, err = e.SetRenderResult([]render.Pass{{Name: "Mist", Channels: 2}}, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(rect) != 2*2*2 {
		t.Fatalf("expected 8 floats; got %d", len(rect))
	}
	for p, v := range rect {
		if v != 0 {
			t.Fatalf("expected zero fill at index %d; got %g", p, v)
		}
	}

	// Multiple passes concatenate in input order.
	rect, err = e.SetRenderResult([]render.Pass{
		{Name: render.PassCombined, Channels: 4},
		{Name: "Depth", Channels: 1},
	}, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(rect) != 2*2*4+2*2 {
		t.Fatalf("expected 20 floats; got %d", len(rect))
	}
	if !approxEq(rect[0], 0.2) || !approxEq(rect[16], 3) {
		t.Fatalf("expected combined data followed by depth data; got head %g tail %g", rect[0], rect[16])
	}
}

func TestSetRenderResultColorPassBypassesFilters(t *testing.T) {
	e, st := newResultEngine(t)
	st.SetAOVImage(render.AOVColor, solid(2, 2, 0.2, 0.4, 0.6, 0.25))

	spec := imagefilter.Spec{Enable: true, Type: imagefilter.Bilateral, Width: 2, Height: 2, Radius: 1}
	if _, err := e.SetupImageFilter(spec); err != nil {
		t.Fatal(err)
	}
	if err := e.UpdateImageFilterInputs([2]int{0, 0}); err != nil {
		t.Fatal(err)
	}
	if err := e.ImageFilter().Run(); err != nil {
		t.Fatal(err)
	}

	rect, err := e.SetRenderResult([]render.Pass{{Name: render.PassColor, Channels: 4}}, true)
	if err != nil {
		t.Fatal(err)
	}
	if !approxEq(rect[3], 0.25) {
		t.Fatalf("expected the color pass to carry the raw alpha; got %g", rect[3])
	}
}

func TestUpdateRenderResult(t *testing.T) {
	e, st := newResultEngine(t)
	st.SetAOVImage(render.AOVColor, solid(2, 2, 0.2, 0.4, 0.6, 1))

	sink := &mockSink{passes: []render.Pass{{Name: render.PassCombined, Channels: 4}}}
	if err := e.UpdateRenderResult(sink, [2]int{0, 0}, [2]int{2, 2}, "View Layer", false); err != nil {
		t.Fatal(err)
	}
	if sink.layer != "View Layer" {
		t.Fatalf("expected layer to be forwarded to the sink; got %q", sink.layer)
	}
	if len(sink.rect) != 16 {
		t.Fatalf("expected 16 floats delivered to the sink; got %d", len(sink.rect))
	}

	sink.endErr = errors.New("sink closed")
	err := e.UpdateRenderResult(sink, [2]int{0, 0}, [2]int{2, 2}, "View Layer", false)
	if err == nil || err.Error() != "sink closed" {
		t.Fatalf("expected sink error to propagate; got %v", err)
	}
}

func newResultEngine(t *testing.T) (*Engine, *store.SceneStore) {
	st := store.NewSceneStore()
	ctx := render.NewContext(st)
	ctx.SetResolution(2, 2)
	if err := ctx.EnableAOV(render.AOVColor); err != nil {
		t.Fatal(err)
	}
	return New(ctx, imagefilter.NewCPUExecutor()), st
}

type mockSink struct {
	passes []render.Pass
	endErr error

	layer string
	rect  []float32
}

func (s *mockSink) Begin(tilePos, tileSize [2]int, layer string) []render.Pass {
	s.layer = layer
	return s.passes
}

func (s *mockSink) End(rect []float32) error {
	if s.endErr != nil {
		return s.endErr
	}
	s.rect = rect
	return nil
}

func solid(width, height int, values ...float32) *render.Image {
	img := render.NewImage(width, height, len(values))
	for p := 0; p < width*height; p++ {
		copy(img.Pix[p*len(values):(p+1)*len(values)], values)
	}
	return img
}

func approxEq(a, b float32) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff < 1e-3
}

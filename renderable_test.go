package kiln

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

func TestNewRenderableErrors(t *testing.T) {
	p := NewSoftwarePresenter(1, 1)
	var re *ResourceError
	if _, err := NewRenderable(p, nil, nil); !errors.As(err, &re) {
		t.Errorf("nil surface err = %v, want *ResourceError", err)
	}
	if _, err := NewRenderable(p, image.NewNRGBA(image.Rect(0, 0, 0, 0)), nil); !errors.As(err, &re) {
		t.Errorf("empty surface err = %v, want *ResourceError", err)
	}
}

func TestNewRenderableDefaults(t *testing.T) {
	p := NewSoftwarePresenter(1, 1)
	r := newSoftRenderable(t, p, solidImage(7, 3, opaqueRed))
	if r.Width() != 7 || r.Height() != 3 {
		t.Errorf("size = %dx%d, want 7x3", r.Width(), r.Height())
	}
	if r.Modulation() != DefaultModulation {
		t.Errorf("Modulation = %+v, want %+v", r.Modulation(), DefaultModulation)
	}
}

func TestChromaKey(t *testing.T) {
	p := NewSoftwarePresenter(1, 1)
	src := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	src.SetNRGBA(0, 0, color.NRGBA{0, 255, 255, 255})
	src.SetNRGBA(1, 0, opaqueRed)
	r, err := NewRenderable(p, src, &color.RGBA{0, 255, 255, 255})
	if err != nil {
		t.Fatal(err)
	}
	img, err := r.Texture().Image()
	if err != nil {
		t.Fatal(err)
	}
	assertPixel(t, img, 0, 0, color.NRGBA{})
	assertPixel(t, img, 1, 0, opaqueRed)
	// The source surface is not modified.
	if src.NRGBAAt(0, 0).A != 255 {
		t.Error("chroma key modified the source image")
	}
}

func TestRenderMatchesRenderTransformedIdentity(t *testing.T) {
	clip := &Rect{0, 1, 2, 1}
	draw := func(fn func(r *Renderable, p *SoftwarePresenter) error) *image.NRGBA {
		p := NewSoftwarePresenter(6, 6)
		p.Clear(color.NRGBA{10, 20, 30, 255})
		r := newSoftRenderable(t, p, quadImage())
		r.SetColorModulation(200, 255, 100)
		r.SetAlphaModulation(180)
		if err := fn(r, p); err != nil {
			t.Fatal(err)
		}
		return p.BackBuffer()
	}
	for _, c := range []*Rect{nil, clip} {
		a := draw(func(r *Renderable, p *SoftwarePresenter) error {
			return r.Render(p, Point{3, 2}, c)
		})
		b := draw(func(r *Renderable, p *SoftwarePresenter) error {
			return r.RenderTransformed(p, Point{3, 2}, c, 0, nil, FlipNone)
		})
		if !samePixels(a, b) {
			t.Errorf("clip %v: Render and RenderTransformed(0, nil, FlipNone) differ", c)
		}
	}
}

func TestRenderIssuesOneDraw(t *testing.T) {
	p := newRecordingPresenter(100, 100)
	r, _ := NewRenderable(p, solidImage(8, 4, opaqueRed), nil)
	if err := r.Render(p, Point{5, 6}, nil); err != nil {
		t.Fatal(err)
	}
	if err := r.Render(p, Point{1, 2}, &Rect{2, 0, 3, 4}); err != nil {
		t.Fatal(err)
	}
	if len(p.calls) != 2 {
		t.Fatalf("draws = %d, want 2", len(p.calls))
	}
	if got, want := p.calls[0].dst, (Rect{5, 6, 8, 4}); got != want {
		t.Errorf("full dst = %+v, want %+v", got, want)
	}
	if got, want := p.calls[1].dst, (Rect{1, 2, 3, 4}); got != want {
		t.Errorf("clipped dst = %+v, want %+v", got, want)
	}
	if p.calls[0].src != nil {
		t.Errorf("full render src = %+v, want nil", p.calls[0].src)
	}
}

func TestClipPastTextureEdge(t *testing.T) {
	// Columns are red, green, blue, white from left to right.
	src := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	cols := []color.NRGBA{opaqueRed, opaqueGreen, opaqueBlue, opaqueWhite}
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			src.SetNRGBA(x, y, cols[x])
		}
	}
	bg := color.NRGBA{10, 20, 30, 255}
	tests := []struct {
		name string
		flip Flip
		want []color.NRGBA
	}{
		{"unflipped", FlipNone, []color.NRGBA{opaqueBlue, opaqueWhite, bg, bg}},
		{"flipped", FlipHorizontal, []color.NRGBA{bg, bg, opaqueWhite, opaqueBlue}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewSoftwarePresenter(6, 4)
			p.Clear(bg)
			r := newSoftRenderable(t, p, src)
			if err := r.RenderTransformed(p, Point{}, &Rect{2, 0, 4, 4}, 0, nil, tt.flip); err != nil {
				t.Fatal(err)
			}
			for x, want := range tt.want {
				assertPixel(t, p.BackBuffer(), x, 1, want)
			}
		})
	}
}

func TestClipOutsideTextureDrawsNothing(t *testing.T) {
	p := newRecordingPresenter(10, 10)
	r, _ := NewRenderable(p, solidImage(4, 4, opaqueWhite), nil)
	if err := r.Render(p, Point{}, &Rect{4, 0, 2, 2}); err != nil {
		t.Fatal(err)
	}
	if len(p.calls) != 0 {
		t.Errorf("draws = %d, want 0", len(p.calls))
	}
}

func TestModulationAppliesToLaterDraws(t *testing.T) {
	p := newRecordingPresenter(10, 10)
	r, _ := NewRenderable(p, solidImage(1, 1, opaqueWhite), nil)
	r.Render(p, Point{}, nil)
	r.SetColorModulation(1, 2, 3)
	r.SetAlphaModulation(4)
	r.SetBlendMode(BlendAdditive)
	r.Render(p, Point{}, nil)

	if got := p.calls[0].opts.Mod; got != DefaultModulation {
		t.Errorf("first draw mod = %+v, want default", got)
	}
	want := Modulation{R: 1, G: 2, B: 3, A: 4, Blend: BlendAdditive}
	if got := p.calls[1].opts.Mod; got != want {
		t.Errorf("second draw mod = %+v, want %+v", got, want)
	}
}

func TestSetBlendModeInvalidFallsBack(t *testing.T) {
	p := newRecordingPresenter(1, 1)
	r, _ := NewRenderable(p, solidImage(1, 1, opaqueWhite), nil)
	r.SetBlendMode(BlendModulate)
	r.SetBlendMode(BlendMode(99))
	if got := r.Modulation().Blend; got != BlendAlpha {
		t.Errorf("Blend = %v, want alpha", got)
	}
}

func TestRenderTransformedOptions(t *testing.T) {
	p := newRecordingPresenter(10, 10)
	r, _ := NewRenderable(p, solidImage(4, 4, opaqueWhite), nil)
	pivot := &Point{1, 1}
	r.RenderTransformed(p, Point{2, 2}, nil, 45, pivot, FlipVertical)
	o := p.calls[0].opts
	if o.Rotation != 45 || o.Pivot != pivot || o.FlipH || !o.FlipV {
		t.Errorf("opts = %+v", o)
	}
}

func TestRenderOnLostSurface(t *testing.T) {
	p := NewSoftwarePresenter(4, 4)
	r := newSoftRenderable(t, p, solidImage(1, 1, opaqueRed))
	p.SetLost(true)
	err := r.Render(p, Point{}, nil)
	var re *RenderError
	if !errors.As(err, &re) || !errors.Is(err, ErrSurfaceLost) {
		t.Errorf("err = %v, want *RenderError wrapping ErrSurfaceLost", err)
	}
}

func TestRenderAfterClose(t *testing.T) {
	p := NewSoftwarePresenter(4, 4)
	r := newSoftRenderable(t, p, solidImage(1, 1, opaqueRed))
	r.Close()
	r.Close()
	if err := r.Render(p, Point{}, nil); !errors.Is(err, ErrTextureReleased) {
		t.Errorf("err = %v, want ErrTextureReleased", err)
	}
}

func TestRenderTransformedPixels(t *testing.T) {
	p := NewSoftwarePresenter(4, 4)
	r := newSoftRenderable(t, p, quadImage())
	if err := r.RenderTransformed(p, Point{2, 2}, nil, 90, nil, FlipHorizontal); err != nil {
		t.Fatal(err)
	}
	// Flip first, G R / W B, then rotate clockwise: W G / B R.
	img := p.BackBuffer()
	assertPixel(t, img, 2, 2, opaqueWhite)
	assertPixel(t, img, 3, 2, opaqueGreen)
	assertPixel(t, img, 2, 3, opaqueBlue)
	assertPixel(t, img, 3, 3, opaqueRed)
	assertPixel(t, img, 1, 1, color.NRGBA{})
}

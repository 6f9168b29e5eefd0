package kiln

import (
	"image"
	"image/color"
	"testing"
)

var (
	opaqueRed   = color.NRGBA{255, 0, 0, 255}
	opaqueGreen = color.NRGBA{0, 255, 0, 255}
	opaqueBlue  = color.NRGBA{0, 0, 255, 255}
	opaqueWhite = color.NRGBA{255, 255, 255, 255}
)

type drawCall struct {
	tex  *Texture
	src  *Rect
	dst  Rect
	opts DrawOptions
}

// recordingPresenter records draw calls without compositing anything.
type recordingPresenter struct {
	w, h      int
	calls     []drawCall
	clears    int
	err       error // returned by every Draw when set
	maxTarget int
}

type fakeNative struct{ disposed bool }

func (n *fakeNative) dispose()                        { n.disposed = true }
func (n *fakeNative) snapshot() (*image.NRGBA, error) { return nil, ErrForeignTexture }

func newRecordingPresenter(w, h int) *recordingPresenter {
	return &recordingPresenter{w: w, h: h}
}

func (p *recordingPresenter) NewTexture(img image.Image) (*Texture, error) {
	b := img.Bounds()
	return newTexture(b.Dx(), b.Dy(), &fakeNative{}, false), nil
}

func (p *recordingPresenter) NewTarget(w, h int) (*Texture, error) {
	return newTexture(w, h, &fakeNative{}, true), nil
}

func (p *recordingPresenter) MaxTargetSize() int { return p.maxTarget }

func (p *recordingPresenter) Draw(tex *Texture, src *Rect, dst Rect, opts DrawOptions) error {
	if p.err != nil {
		return p.err
	}
	var s *Rect
	if src != nil {
		c := *src
		s = &c
	}
	p.calls = append(p.calls, drawCall{tex: tex, src: s, dst: dst, opts: opts})
	return nil
}

func (p *recordingPresenter) RenderToTarget(target *Texture, fn func(Presenter) error) error {
	return fn(&recordingPresenter{w: target.Width(), h: target.Height()})
}

func (p *recordingPresenter) Clear(color.Color) { p.clears++ }
func (p *recordingPresenter) Present() error    { return nil }
func (p *recordingPresenter) Size() (int, int)  { return p.w, p.h }

// solidImage returns a w×h image filled with c.
func solidImage(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

// gridAtlas returns an opaque atlas of cols×rows tiles, each tile a distinct
// color with a one-pixel marker in its top-left corner.
func gridAtlas(cols, rows, tw, th int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, cols*tw, rows*th))
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			fill := color.NRGBA{uint8(40 * c), uint8(40 * r), 200, 255}
			for y := 0; y < th; y++ {
				for x := 0; x < tw; x++ {
					img.SetNRGBA(c*tw+x, r*th+y, fill)
				}
			}
			img.SetNRGBA(c*tw, r*th, color.NRGBA{255, 255, 255, 255})
		}
	}
	return img
}

func newSoftRenderable(t testing.TB, p *SoftwarePresenter, img image.Image) *Renderable {
	t.Helper()
	r, err := NewRenderable(p, img, nil)
	if err != nil {
		t.Fatalf("NewRenderable: %v", err)
	}
	return r
}

func assertPixel(t *testing.T, img *image.NRGBA, x, y int, want color.NRGBA) {
	t.Helper()
	if got := img.NRGBAAt(x, y); got != want {
		t.Errorf("pixel (%d,%d) = %v, want %v", x, y, got, want)
	}
}

func samePixels(a, b *image.NRGBA) bool {
	if a.Rect != b.Rect {
		return false
	}
	for i := range a.Pix {
		if a.Pix[i] != b.Pix[i] {
			return false
		}
	}
	return true
}

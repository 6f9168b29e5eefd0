package kiln

import (
	"fmt"
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// ebitenTexture is GPU storage managed by Ebitengine.
type ebitenTexture struct {
	img *ebiten.Image
}

func (t *ebitenTexture) dispose() {
	if t.img != nil {
		t.img.Deallocate()
		t.img = nil
	}
}

// snapshot reads the pixels back and converts premultiplied RGBA to
// straight-alpha NRGBA. Only valid while the game loop is running.
func (t *ebitenTexture) snapshot() (*image.NRGBA, error) {
	if t.img == nil {
		return nil, ErrTextureReleased
	}
	b := t.img.Bounds()
	w, h := b.Dx(), b.Dy()
	pixels := make([]byte, 4*w*h)
	t.img.ReadPixels(pixels)

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(pixels); i += 4 {
		r, g, bl, a := pixels[i], pixels[i+1], pixels[i+2], pixels[i+3]
		if a > 0 && a < 255 {
			r = uint8(min(int(r)*255/int(a), 255))
			g = uint8(min(int(g)*255/int(a), 255))
			bl = uint8(min(int(bl)*255/int(a), 255))
		}
		img.Pix[i] = r
		img.Pix[i+1] = g
		img.Pix[i+2] = bl
		img.Pix[i+3] = a
	}
	return img, nil
}

// EbitenPresenter issues draws to an *ebiten.Image. The screen is only
// available between Begin and Present, i.e. inside ebiten.Game.Draw.
type EbitenPresenter struct {
	dst   *ebiten.Image
	stats *FrameStats
	child bool
	op    ebiten.DrawImageOptions
}

// NewEbitenPresenter creates a presenter with no destination. Call Begin
// with the screen at the start of each frame.
func NewEbitenPresenter() *EbitenPresenter {
	return &EbitenPresenter{stats: &FrameStats{}}
}

// Begin sets the frame's destination.
func (p *EbitenPresenter) Begin(screen *ebiten.Image) {
	p.dst = screen
}

// Screen returns the frame's destination, or nil outside a frame.
func (p *EbitenPresenter) Screen() *ebiten.Image { return p.dst }

// NewTexture uploads img to the GPU.
func (p *EbitenPresenter) NewTexture(img image.Image) (*Texture, error) {
	if img == nil {
		return nil, fmt.Errorf("kiln: nil image")
	}
	b := img.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("kiln: empty image %v", b)
	}
	eimg := ebiten.NewImageFromImage(img)
	return newTexture(b.Dx(), b.Dy(), &ebitenTexture{img: eimg}, false), nil
}

// maxTargetSize bounds offscreen targets to what desktop GPUs reliably
// allocate as one texture.
const maxTargetSize = 8192

// MaxTargetSize returns the largest target width or height NewTarget accepts.
func (p *EbitenPresenter) MaxTargetSize() int { return maxTargetSize }

// NewTarget creates an offscreen GPU image.
func (p *EbitenPresenter) NewTarget(w, h int) (*Texture, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("kiln: invalid target size %dx%d", w, h)
	}
	if w > maxTargetSize || h > maxTargetSize {
		return nil, fmt.Errorf("kiln: target %dx%d exceeds %d", w, h, maxTargetSize)
	}
	img := ebiten.NewImage(w, h)
	return newTexture(w, h, &ebitenTexture{img: img}, true), nil
}

// Size returns the destination size, or zero outside a frame.
func (p *EbitenPresenter) Size() (int, int) {
	if p.dst == nil {
		return 0, 0
	}
	b := p.dst.Bounds()
	return b.Dx(), b.Dy()
}

// Clear fills the destination with c.
func (p *EbitenPresenter) Clear(c color.Color) {
	if p.dst == nil {
		return
	}
	p.dst.Fill(c)
}

// Draw draws src of tex into dst.
func (p *EbitenPresenter) Draw(tex *Texture, src *Rect, dst Rect, opts DrawOptions) error {
	if p.dst == nil {
		return renderErr("draw", ErrSurfaceLost)
	}
	if tex == nil || !tex.Alive() {
		return renderErr("draw", ErrTextureReleased)
	}
	et, ok := tex.native.(*ebitenTexture)
	if !ok || et.img == nil {
		return renderErr("draw", ErrForeignTexture)
	}
	s := resolveSrc(tex, src)
	if s.Empty() || dst.Empty() {
		return nil
	}

	img := et.img
	if s != tex.Bounds() {
		img = et.img.SubImage(s.image()).(*ebiten.Image)
	}

	m := quadTransform(s.Width, s.Height, dst, opts)
	op := &p.op
	op.GeoM.Reset()
	op.GeoM.SetElement(0, 0, m[0])
	op.GeoM.SetElement(1, 0, m[1])
	op.GeoM.SetElement(0, 1, m[2])
	op.GeoM.SetElement(1, 1, m[3])
	op.GeoM.SetElement(0, 2, m[4])
	op.GeoM.SetElement(1, 2, m[5])
	op.ColorScale.Reset()
	op.ColorScale.Scale(opts.Mod.colorScale())
	op.Blend = opts.Mod.Blend.EbitenBlend()
	op.Filter = ebiten.FilterNearest

	p.dst.DrawImage(img, op)
	p.stats.Draws++
	return nil
}

// RenderToTarget redirects the draws made by fn into target.
func (p *EbitenPresenter) RenderToTarget(target *Texture, fn func(Presenter) error) error {
	if target == nil || !target.Alive() {
		return renderErr("render to target", ErrTextureReleased)
	}
	et, ok := target.native.(*ebitenTexture)
	if !ok || et.img == nil || !target.IsTarget() {
		return renderErr("render to target", ErrForeignTexture)
	}
	sub := &EbitenPresenter{dst: et.img, stats: p.stats, child: true}
	return fn(sub)
}

// Present ends the frame. Ebitengine flips the screen itself after
// Game.Draw returns; this releases the destination so stray draws outside
// the frame fail with ErrSurfaceLost.
func (p *EbitenPresenter) Present() error {
	if p.child {
		return nil
	}
	if p.dst == nil {
		return renderErr("present", ErrSurfaceLost)
	}
	p.dst = nil
	p.stats.LastDraws = p.stats.Draws
	p.stats.Draws = 0
	p.stats.Frames++
	return nil
}

// Stats returns draw counters.
func (p *EbitenPresenter) Stats() FrameStats {
	return *p.stats
}

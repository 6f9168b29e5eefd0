package kiln

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
)

// softTexture is CPU pixel storage in straight (non-premultiplied) alpha.
type softTexture struct {
	img *image.NRGBA
}

func (t *softTexture) dispose() { t.img = nil }

func (t *softTexture) snapshot() (*image.NRGBA, error) {
	if t.img == nil {
		return nil, ErrTextureReleased
	}
	out := image.NewNRGBA(t.img.Rect)
	copy(out.Pix, t.img.Pix)
	return out, nil
}

// SoftwarePresenter composites on the CPU into an image.NRGBA using the
// classic straight-alpha blend equations. It needs no GPU or window, which
// makes it the presenter for headless baking and for pixel-exact checks.
type SoftwarePresenter struct {
	back  *image.NRGBA
	front *image.NRGBA
	dst   *image.NRGBA
	stats *FrameStats
	child bool
	lost  bool

	maxTarget int
}

// NewSoftwarePresenter creates a presenter with a w×h back buffer.
func NewSoftwarePresenter(w, h int) *SoftwarePresenter {
	back := image.NewNRGBA(image.Rect(0, 0, w, h))
	return &SoftwarePresenter{
		back:  back,
		front: image.NewNRGBA(back.Rect),
		dst:   back,
		stats: &FrameStats{},
	}
}

// NewTexture copies img into a new CPU texture.
func (p *SoftwarePresenter) NewTexture(img image.Image) (*Texture, error) {
	if img == nil {
		return nil, fmt.Errorf("kiln: nil image")
	}
	b := img.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("kiln: empty image %v", b)
	}
	nrgba := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(nrgba, nrgba.Rect, img, b.Min, draw.Src)
	return newTexture(b.Dx(), b.Dy(), &softTexture{img: nrgba}, false), nil
}

// NewTarget creates a transparent CPU texture that can be rendered into.
func (p *SoftwarePresenter) NewTarget(w, h int) (*Texture, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("kiln: invalid target size %dx%d", w, h)
	}
	if p.maxTarget > 0 && (w > p.maxTarget || h > p.maxTarget) {
		return nil, fmt.Errorf("kiln: target %dx%d exceeds %d", w, h, p.maxTarget)
	}
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	return newTexture(w, h, &softTexture{img: img}, true), nil
}

// SetMaxTargetSize caps the width and height of new targets, matching a GPU
// backend's limit. Zero removes the cap.
func (p *SoftwarePresenter) SetMaxTargetSize(n int) { p.maxTarget = max(n, 0) }

// MaxTargetSize returns the target cap, or zero when there is none.
func (p *SoftwarePresenter) MaxTargetSize() int { return p.maxTarget }

// Size returns the current destination size.
func (p *SoftwarePresenter) Size() (int, int) {
	if p.dst == nil {
		return 0, 0
	}
	return p.dst.Rect.Dx(), p.dst.Rect.Dy()
}

// SetLost simulates losing (or regaining) the destination surface.
func (p *SoftwarePresenter) SetLost(lost bool) {
	p.lost = lost
}

// Clear fills the destination with c.
func (p *SoftwarePresenter) Clear(c color.Color) {
	if p.dst == nil || p.lost {
		return
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	pix := p.dst.Pix
	for i := 0; i < len(pix); i += 4 {
		pix[i], pix[i+1], pix[i+2], pix[i+3] = n.R, n.G, n.B, n.A
	}
}

// Draw composites src of tex into dst.
func (p *SoftwarePresenter) Draw(tex *Texture, src *Rect, dst Rect, opts DrawOptions) error {
	if p.dst == nil || p.lost {
		return renderErr("draw", ErrSurfaceLost)
	}
	if tex == nil || !tex.Alive() {
		return renderErr("draw", ErrTextureReleased)
	}
	st, ok := tex.native.(*softTexture)
	if !ok {
		return renderErr("draw", ErrForeignTexture)
	}
	s := resolveSrc(tex, src)
	if s.Empty() || dst.Empty() {
		return nil
	}
	p.stats.Draws++
	m := quadTransform(s.Width, s.Height, dst, opts)
	composite(p.dst, st.img, s, m, opts.Mod)
	return nil
}

// RenderToTarget redirects the draws made by fn into target.
func (p *SoftwarePresenter) RenderToTarget(target *Texture, fn func(Presenter) error) error {
	if p.lost {
		return renderErr("render to target", ErrSurfaceLost)
	}
	if target == nil || !target.Alive() {
		return renderErr("render to target", ErrTextureReleased)
	}
	st, ok := target.native.(*softTexture)
	if !ok || !target.IsTarget() {
		return renderErr("render to target", ErrForeignTexture)
	}
	sub := &SoftwarePresenter{dst: st.img, stats: p.stats, child: true}
	return fn(sub)
}

// Present copies the back buffer to the front buffer and resets the draw
// counter. Presenting inside RenderToTarget is a no-op.
func (p *SoftwarePresenter) Present() error {
	if p.child {
		return nil
	}
	if p.lost {
		return renderErr("present", ErrSurfaceLost)
	}
	copy(p.front.Pix, p.back.Pix)
	p.stats.LastDraws = p.stats.Draws
	p.stats.Draws = 0
	p.stats.Frames++
	return nil
}

// Frame returns the last presented frame. The image is reused by the next
// Present.
func (p *SoftwarePresenter) Frame() *image.NRGBA {
	return p.front
}

// BackBuffer returns the image currently being drawn.
func (p *SoftwarePresenter) BackBuffer() *image.NRGBA {
	return p.back
}

// Stats returns draw counters.
func (p *SoftwarePresenter) Stats() FrameStats {
	return *p.stats
}

// composite maps every destination pixel inside the quad's bounding box back
// into the source with the inverse of m and blends the nearest source texel.
func composite(dst, src *image.NRGBA, s Rect, m [6]float64, mod Modulation) {
	inv, ok := invertAffine(m)
	if !ok {
		return
	}
	box := transformedBounds(m, s.Width, s.Height).Intersect(Rect{0, 0, dst.Rect.Dx(), dst.Rect.Dy()})
	if box.Empty() {
		return
	}
	sw, sh := float64(s.Width), float64(s.Height)
	for y := box.Y; y < box.Y+box.Height; y++ {
		row := dst.Pix[y*dst.Stride:]
		for x := box.X; x < box.X+box.Width; x++ {
			u, v := transformPoint(inv, float64(x)+0.5, float64(y)+0.5)
			if u < 0 || v < 0 || u >= sw || v >= sh {
				continue
			}
			iu, iv := int(math.Floor(u)), int(math.Floor(v))
			si := (s.Y+iv)*src.Stride + (s.X+iu)*4
			di := x * 4
			blendPixel(row[di:di+4:di+4], src.Pix[si:si+4:si+4], mod)
		}
	}
}

// mul255 returns x*y/255 rounded.
func mul255(x, y uint32) uint32 {
	return (x*y + 127) / 255
}

func blendPixel(d, s []uint8, mod Modulation) {
	sr := mul255(uint32(s[0]), uint32(mod.R))
	sg := mul255(uint32(s[1]), uint32(mod.G))
	sb := mul255(uint32(s[2]), uint32(mod.B))
	sa := mul255(uint32(s[3]), uint32(mod.A))
	dr, dg, db, da := uint32(d[0]), uint32(d[1]), uint32(d[2]), uint32(d[3])

	switch mod.Blend {
	case BlendReplace:
		dr, dg, db, da = sr, sg, sb, sa
	case BlendAdditive:
		dr = min(dr+mul255(sr, sa), 255)
		dg = min(dg+mul255(sg, sa), 255)
		db = min(db+mul255(sb, sa), 255)
	case BlendModulate:
		dr = mul255(sr, dr)
		dg = mul255(sg, dg)
		db = mul255(sb, db)
	default:
		// Straight-alpha over: den is the result alpha scaled by 255.
		inv := 255 - sa
		den := sa*255 + da*inv
		if den == 0 {
			dr, dg, db, da = 0, 0, 0, 0
			break
		}
		ws, wd := sa*255, da*inv
		dr = (sr*ws + dr*wd + den/2) / den
		dg = (sg*ws + dg*wd + den/2) / den
		db = (sb*ws + db*wd + den/2) / den
		da = (den + 127) / 255
	}
	d[0], d[1], d[2], d[3] = uint8(dr), uint8(dg), uint8(db), uint8(da)
}

package kiln

import (
	"errors"
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// Renderable owns one texture and the modulation state applied when it is
// drawn. Setters only change what the next draw uses.
type Renderable struct {
	tex *Texture
	w   int
	h   int
	mod Modulation
}

// NewRenderable converts src into a texture through f. When key is non-nil,
// every pixel whose color exactly matches key (ignoring alpha) becomes fully
// transparent.
func NewRenderable(f TextureFactory, src image.Image, key *color.RGBA) (*Renderable, error) {
	if src == nil {
		return nil, &ResourceError{Op: "create renderable", Err: errors.New("nil surface")}
	}
	if src.Bounds().Empty() {
		return nil, &ResourceError{Op: "create renderable", Err: errors.New("empty surface")}
	}
	img := src
	if key != nil {
		img = applyChromaKey(src, *key)
	}
	tex, err := f.NewTexture(img)
	if err != nil {
		return nil, &ResourceError{Op: "create renderable", Err: err}
	}
	return newRenderable(tex), nil
}

// NewRenderableFromTexture creates a Renderable sharing tex. It takes its own
// reference, so the caller may release theirs independently.
func NewRenderableFromTexture(tex *Texture) *Renderable {
	return newRenderable(tex.Retain())
}

func newRenderable(tex *Texture) *Renderable {
	return &Renderable{
		tex: tex,
		w:   tex.Width(),
		h:   tex.Height(),
		mod: DefaultModulation,
	}
}

// applyChromaKey returns an NRGBA copy of src with key-colored pixels
// cleared.
func applyChromaKey(src image.Image, key color.RGBA) *image.NRGBA {
	b := src.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Rect, src, b.Min, draw.Src)
	pix := out.Pix
	for i := 0; i < len(pix); i += 4 {
		if pix[i] == key.R && pix[i+1] == key.G && pix[i+2] == key.B {
			pix[i], pix[i+1], pix[i+2], pix[i+3] = 0, 0, 0, 0
		}
	}
	return out
}

// Width returns the texture width in pixels.
func (r *Renderable) Width() int { return r.w }

// Height returns the texture height in pixels.
func (r *Renderable) Height() int { return r.h }

// Texture returns the underlying texture handle.
func (r *Renderable) Texture() *Texture { return r.tex }

// Modulation returns the state the next draw will use.
func (r *Renderable) Modulation() Modulation { return r.mod }

// SetColorModulation sets the color multipliers.
func (r *Renderable) SetColorModulation(red, green, blue uint8) {
	r.mod.R, r.mod.G, r.mod.B = red, green, blue
}

// SetAlphaModulation sets the alpha multiplier.
func (r *Renderable) SetAlphaModulation(a uint8) {
	r.mod.A = a
}

// SetBlendMode sets the blend mode. Unknown modes fall back to BlendAlpha.
func (r *Renderable) SetBlendMode(m BlendMode) {
	if !m.Valid() {
		m = BlendAlpha
	}
	r.mod.Blend = m
}

// Render draws the whole texture, or clip, unscaled at pos.
func (r *Renderable) Render(dst Presenter, pos Point, clip *Rect) error {
	return r.RenderTransformed(dst, pos, clip, 0, nil, FlipNone)
}

// RenderTransformed draws like Render, then rotates the destination quad by
// degrees clockwise about pivot (nil: the quad's centre) and mirrors it per
// flip. The source texture is never modified. The part of clip outside the
// texture is left undrawn.
func (r *Renderable) RenderTransformed(dst Presenter, pos Point, clip *Rect, degrees float64, pivot *Point, flip Flip) error {
	if r.tex == nil {
		return renderErr("render", ErrTextureReleased)
	}
	w, h := r.w, r.h
	fh, fv := flip.Axes()
	if clip != nil {
		c := clip.Intersect(Rect{0, 0, r.w, r.h})
		if c.Empty() {
			return nil
		}
		if c != *clip {
			// Draw only the part of clip inside the texture, where it would
			// have landed had the whole clip been drawn.
			dx, dy := c.X-clip.X, c.Y-clip.Y
			if fh {
				dx = clip.X + clip.Width - c.X - c.Width
			}
			if fv {
				dy = clip.Y + clip.Height - c.Y - c.Height
			}
			if degrees != 0 {
				pv := Point{clip.Width / 2, clip.Height / 2}
				if pivot != nil {
					pv = *pivot
				}
				pivot = &Point{pv.X - dx, pv.Y - dy}
			}
			pos.X += dx
			pos.Y += dy
			clip = &c
		}
		w, h = clip.Width, clip.Height
	}
	return dst.Draw(r.tex, clip, Rect{pos.X, pos.Y, w, h}, DrawOptions{
		Rotation: degrees,
		Pivot:    pivot,
		FlipH:    fh,
		FlipV:    fv,
		Mod:      r.mod,
	})
}

// Close releases the Renderable's texture reference. The Renderable must not
// be drawn afterwards.
func (r *Renderable) Close() {
	if r.tex != nil {
		r.tex.Release()
		r.tex = nil
	}
}

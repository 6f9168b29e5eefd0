package kiln

import (
	"image"
	"image/color"
)

// DrawOptions carries the per-draw transform and modulation. The presenter
// copies what it needs; later changes to the caller's state never affect a
// draw that was already issued.
type DrawOptions struct {
	// Rotation in degrees, clockwise.
	Rotation float64
	// Pivot is the rotation origin relative to the destination rectangle's
	// top-left. Nil means the centre of the destination rectangle.
	Pivot *Point
	// FlipH and FlipV mirror the quad about its vertical and horizontal axes.
	FlipH, FlipV bool
	// Mod is the color/alpha modulation and blend mode.
	Mod Modulation
}

// Presenter is the frame buffer that receives draw calls. Calls are made from
// a single goroutine: Clear, any number of Draws, then Present.
type Presenter interface {
	// Draw copies src (nil means the whole texture) of tex into dst.
	Draw(tex *Texture, src *Rect, dst Rect, opts DrawOptions) error
	// RenderToTarget redirects draws made by fn into target.
	RenderToTarget(target *Texture, fn func(Presenter) error) error
	// Clear fills the current destination with c.
	Clear(c color.Color)
	// Present finishes the frame.
	Present() error
	// Size returns the destination size in pixels.
	Size() (w, h int)
}

// TextureFactory creates textures native to a presenter backend.
type TextureFactory interface {
	// NewTexture uploads img as a drawable texture.
	NewTexture(img image.Image) (*Texture, error)
	// NewTarget creates a transparent texture that can be rendered into.
	NewTarget(w, h int) (*Texture, error)
}

// Backend is a presenter that can also create its own textures.
type Backend interface {
	Presenter
	TextureFactory
}

// FrameStats counts the draws issued since the last Present.
type FrameStats struct {
	Draws     int
	LastDraws int
	Frames    uint64
}

// resolveSrc returns the source rectangle clipped to the texture.
func resolveSrc(tex *Texture, src *Rect) Rect {
	if src == nil {
		return tex.Bounds()
	}
	return src.Intersect(tex.Bounds())
}

package kiln

import (
	"image"
	"sync/atomic"
)

// nativeTexture is the backend-specific pixel storage behind a Texture.
type nativeTexture interface {
	dispose()
	// snapshot copies the pixels into straight-alpha NRGBA.
	snapshot() (*image.NRGBA, error)
}

// Texture is a reference-counted handle to backend pixel storage. Several
// owners (Renderables sharing a sprite sheet, a TileField and its atlas) may
// hold one texture; the storage is disposed when the last reference is
// released.
type Texture struct {
	w, h   int
	native nativeTexture
	target bool
	refs   atomic.Int32
}

func newTexture(w, h int, native nativeTexture, target bool) *Texture {
	t := &Texture{w: w, h: h, native: native, target: target}
	t.refs.Store(1)
	return t
}

// Width returns the texture width in pixels.
func (t *Texture) Width() int { return t.w }

// Height returns the texture height in pixels.
func (t *Texture) Height() int { return t.h }

// Bounds returns the full texture rectangle.
func (t *Texture) Bounds() Rect { return Rect{0, 0, t.w, t.h} }

// IsTarget reports whether the texture can be rendered into.
func (t *Texture) IsTarget() bool { return t.target }

// Retain adds a reference and returns t.
func (t *Texture) Retain() *Texture {
	t.refs.Add(1)
	return t
}

// Release drops a reference. The storage is disposed when the count reaches
// zero; further releases are ignored.
func (t *Texture) Release() {
	for {
		n := t.refs.Load()
		if n <= 0 {
			return
		}
		if t.refs.CompareAndSwap(n, n-1) {
			if n == 1 {
				t.native.dispose()
			}
			return
		}
	}
}

// Refs returns the current reference count.
func (t *Texture) Refs() int { return int(t.refs.Load()) }

// Alive reports whether the texture still has owners.
func (t *Texture) Alive() bool { return t.refs.Load() > 0 }

// Image copies the texture into a straight-alpha image. GPU-backed textures
// can only be read while the game loop is running.
func (t *Texture) Image() (*image.NRGBA, error) {
	if !t.Alive() {
		return nil, ErrTextureReleased
	}
	return t.native.snapshot()
}

package kiln

import (
	"image"
	"sync/atomic"

	"golang.org/x/image/draw"
)

// TargetSizeLimiter is implemented by texture factories that cap the width
// and height of one offscreen target. Zero means no cap.
type TargetSizeLimiter interface {
	MaxTargetSize() int
}

// TileCache is the baked image of a TileField. A field that fits in one
// target is a single chunk; larger fields are split row-major into chunks
// no bigger than the factory's target limit, so the cache works for fields
// of any size.
type TileCache struct {
	w, h   int
	chunks []cacheChunk
	refs   atomic.Int32
}

type cacheChunk struct {
	rect Rect // field space
	tex  *Texture
}

func newTileCache(tf TextureFactory, w, h int) (*TileCache, error) {
	step := max(w, h)
	if l, ok := tf.(TargetSizeLimiter); ok && l.MaxTargetSize() > 0 {
		step = min(step, l.MaxTargetSize())
	}
	c := &TileCache{w: w, h: h}
	for y := 0; y < h; y += step {
		for x := 0; x < w; x += step {
			r := Rect{x, y, min(step, w-x), min(step, h-y)}
			tex, err := tf.NewTarget(r.Width, r.Height)
			if err != nil {
				c.dispose()
				return nil, err
			}
			c.chunks = append(c.chunks, cacheChunk{rect: r, tex: tex})
		}
	}
	c.refs.Store(1)
	return c, nil
}

// Width returns the cache width in pixels.
func (c *TileCache) Width() int { return c.w }

// Height returns the cache height in pixels.
func (c *TileCache) Height() int { return c.h }

// Bounds returns the area the cache covers in field space.
func (c *TileCache) Bounds() Rect { return Rect{0, 0, c.w, c.h} }

// Chunks returns the number of targets backing the cache.
func (c *TileCache) Chunks() int { return len(c.chunks) }

// Chunk returns the field-space rectangle and texture of chunk i.
func (c *TileCache) Chunk(i int) (Rect, *Texture) {
	return c.chunks[i].rect, c.chunks[i].tex
}

// Retain adds a reference and returns c.
func (c *TileCache) Retain() *TileCache {
	c.refs.Add(1)
	return c
}

// Release drops a reference. The chunk textures are released with the last
// one; further releases are ignored.
func (c *TileCache) Release() {
	for {
		n := c.refs.Load()
		if n <= 0 {
			return
		}
		if c.refs.CompareAndSwap(n, n-1) {
			if n == 1 {
				c.dispose()
			}
			return
		}
	}
}

func (c *TileCache) dispose() {
	for _, ch := range c.chunks {
		ch.tex.Release()
	}
}

// Alive reports whether the cache still has owners.
func (c *TileCache) Alive() bool { return c.refs.Load() > 0 }

// Image stitches the chunks into one straight-alpha image. GPU-backed caches
// can only be read while the game loop is running.
func (c *TileCache) Image() (*image.NRGBA, error) {
	if !c.Alive() {
		return nil, ErrTextureReleased
	}
	out := image.NewNRGBA(image.Rect(0, 0, c.w, c.h))
	for _, ch := range c.chunks {
		img, err := ch.tex.Image()
		if err != nil {
			return nil, err
		}
		r := ch.rect
		draw.Draw(out, image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height), img, image.Point{}, draw.Src)
	}
	return out, nil
}

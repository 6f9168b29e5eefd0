package kiln

import (
	"fmt"
)

// Tile is one cell of a TileField: where it sits in field space and which
// rectangle of the shared atlas it shows.
type Tile struct {
	Position Point
	Clip     Rect
}

// TileFieldConfig describes the field grid and the atlas it walks.
type TileFieldConfig struct {
	Rows, Cols int // field size in tiles
	TileWidth  int // tile width in pixels
	TileHeight int // tile height in pixels

	// AtlasColumns is the number of tiles per atlas row; the atlas column
	// cursor wraps to the next atlas row after this many steps.
	AtlasColumns int
	// AtlasRows is the number of tile rows in the atlas; the atlas row
	// cursor wraps back to zero after this many rows.
	AtlasRows int
}

// Validate reports the first invalid field.
func (c TileFieldConfig) Validate() error {
	switch {
	case c.Rows <= 0 || c.Cols <= 0:
		return fmt.Errorf("kiln: tile field needs positive rows and cols, got %dx%d", c.Rows, c.Cols)
	case c.TileWidth <= 0 || c.TileHeight <= 0:
		return fmt.Errorf("kiln: tile size must be positive, got %dx%d", c.TileWidth, c.TileHeight)
	case c.AtlasColumns <= 0 || c.AtlasRows <= 0:
		return fmt.Errorf("kiln: atlas grid must be positive, got %dx%d", c.AtlasColumns, c.AtlasRows)
	}
	return nil
}

// TileField is a fixed grid of tiles drawn from one atlas. It renders either
// tile by tile with viewport culling or as blits from a baked cache.
// The cache is rebuilt only by BakeToCache; changing tiles does not mark it
// stale.
type TileField struct {
	atlas *Renderable
	cfg   TileFieldConfig
	tiles []Tile // row-major, len = Rows*Cols

	cache *TileCache
	baked bool
}

// BuildTileField fills the field in row-major order, assigning atlas clips
// by a raster walk over the atlas grid.
func BuildTileField(atlas *Renderable, cfg TileFieldConfig) (*TileField, error) {
	if atlas == nil {
		return nil, fmt.Errorf("kiln: tile field needs an atlas")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	tiles := make([]Tile, 0, cfg.Rows*cfg.Cols)
	clipCol, clipRow := 0, 0
	for row := 0; row < cfg.Rows; row++ {
		for col := 0; col < cfg.Cols; col++ {
			tiles = append(tiles, Tile{
				Position: Point{col * cfg.TileWidth, row * cfg.TileHeight},
				Clip:     Rect{clipCol * cfg.TileWidth, clipRow * cfg.TileHeight, cfg.TileWidth, cfg.TileHeight},
			})
			clipCol++
			if clipCol == cfg.AtlasColumns {
				clipCol = 0
				clipRow++
			}
			if clipRow == cfg.AtlasRows {
				clipRow = 0
			}
		}
	}
	return &TileField{atlas: atlas, cfg: cfg, tiles: tiles}, nil
}

// Len returns the number of tiles, always Rows*Cols.
func (f *TileField) Len() int { return len(f.tiles) }

// Config returns the configuration the field was built with.
func (f *TileField) Config() TileFieldConfig { return f.cfg }

// Tile returns the tile at row, col.
func (f *TileField) Tile(row, col int) (Tile, error) {
	if row < 0 || row >= f.cfg.Rows || col < 0 || col >= f.cfg.Cols {
		return Tile{}, ErrOutOfRange
	}
	return f.tiles[row*f.cfg.Cols+col], nil
}

// Tiles returns a copy of every tile in raster order.
func (f *TileField) Tiles() []Tile {
	out := make([]Tile, len(f.tiles))
	copy(out, f.tiles)
	return out
}

// Bounds returns the field's extent in pixels.
func (f *TileField) Bounds() Rect {
	return Rect{0, 0, f.cfg.Cols * f.cfg.TileWidth, f.cfg.Rows * f.cfg.TileHeight}
}

// SetClip changes which atlas rectangle a tile shows. A baked cache keeps
// showing the old content until BakeToCache runs again.
func (f *TileField) SetClip(row, col int, clip Rect) error {
	if row < 0 || row >= f.cfg.Rows || col < 0 || col >= f.cfg.Cols {
		return ErrOutOfRange
	}
	f.tiles[row*f.cfg.Cols+col].Clip = clip
	return nil
}

// VisibleRange returns the half-open row and column ranges whose tiles fall
// inside a viewW×viewH viewport at offset, padded by one tile on every side.
// A tile is inside when its screen position p satisfies
// -tileW <= p.X < viewW+tileW and -tileH <= p.Y < viewH+tileH.
func (f *TileField) VisibleRange(offset Point, viewW, viewH int) (row0, row1, col0, col1 int) {
	tw, th := f.cfg.TileWidth, f.cfg.TileHeight
	col0 = clampInt(ceilDiv(offset.X-tw, tw), 0, f.cfg.Cols)
	col1 = clampInt(ceilDiv(offset.X+viewW+tw, tw), 0, f.cfg.Cols)
	row0 = clampInt(ceilDiv(offset.Y-th, th), 0, f.cfg.Rows)
	row1 = clampInt(ceilDiv(offset.Y+viewH+th, th), 0, f.cfg.Rows)
	return row0, row1, col0, col1
}

// RenderViewport draws the field at offset and returns the number of draws
// issued. With renderAll every tile is drawn; otherwise only tiles inside
// the padded viewport, found without visiting the rest of the grid.
func (f *TileField) RenderViewport(dst Presenter, offset Point, renderAll bool) (int, error) {
	if renderAll {
		for i := range f.tiles {
			t := &f.tiles[i]
			if err := f.atlas.Render(dst, t.Position.Sub(offset), &t.Clip); err != nil {
				return i, err
			}
		}
		return len(f.tiles), nil
	}

	w, h := dst.Size()
	row0, row1, col0, col1 := f.VisibleRange(offset, w, h)
	drawn := 0
	for row := row0; row < row1; row++ {
		base := row * f.cfg.Cols
		for col := col0; col < col1; col++ {
			t := &f.tiles[base+col]
			if err := f.atlas.Render(dst, t.Position.Sub(offset), &t.Clip); err != nil {
				return drawn, err
			}
			drawn++
		}
	}
	return drawn, nil
}

// NewCache creates offscreen targets covering the whole field and keeps them
// as the field's cache. When tf implements TargetSizeLimiter the cache is
// split into chunks that respect the limit. Any previous cache is released.
// The field owns the returned cache; Retain it to keep it past Close.
func (f *TileField) NewCache(tf TextureFactory) (*TileCache, error) {
	b := f.Bounds()
	cache, err := newTileCache(tf, b.Width, b.Height)
	if err != nil {
		return nil, &ResourceError{Op: "create tile cache", Err: err}
	}
	f.setCache(cache)
	return cache, nil
}

func (f *TileField) setCache(c *TileCache) {
	if f.cache == c {
		return
	}
	if f.cache != nil {
		f.cache.Release()
	}
	f.cache = c
	f.baked = false
}

// Cache returns the cache, or nil if none was created.
func (f *TileField) Cache() *TileCache { return f.cache }

// Baked reports whether the cache holds a rendered field.
func (f *TileField) Baked() bool { return f.baked }

// BakeToCache renders the entire field at offset (0,0) into cache through
// dst. The field takes a reference to cache if it is not already its cache.
func (f *TileField) BakeToCache(dst Presenter, cache *TileCache) error {
	if cache == nil || !cache.Alive() {
		return renderErr("bake tile field", ErrTextureReleased)
	}
	if cache != f.cache {
		f.setCache(cache.Retain())
	}
	single := len(cache.chunks) == 1
	for _, ch := range cache.chunks {
		origin := Point{ch.rect.X, ch.rect.Y}
		err := dst.RenderToTarget(ch.tex, func(t Presenter) error {
			t.Clear(ColorTransparent)
			_, err := f.RenderViewport(t, origin, single)
			return err
		})
		if err != nil {
			f.baked = false
			return err
		}
	}
	f.baked = true
	return nil
}

// RenderCache blits the part of the baked cache visible at offset, one draw
// per chunk the viewport touches.
func (f *TileField) RenderCache(dst Presenter, offset Point) error {
	if f.cache == nil || !f.baked {
		return renderErr("render tile cache", ErrCacheNotBaked)
	}
	w, h := dst.Size()
	view := Rect{offset.X, offset.Y, w, h}
	for _, ch := range f.cache.chunks {
		vis := view.Intersect(ch.rect)
		if vis.Empty() {
			continue
		}
		src := Rect{vis.X - ch.rect.X, vis.Y - ch.rect.Y, vis.Width, vis.Height}
		err := dst.Draw(ch.tex, &src, Rect{vis.X - offset.X, vis.Y - offset.Y, vis.Width, vis.Height}, DrawOptions{
			Mod: DefaultModulation,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// Close releases the cache. The atlas belongs to the caller.
func (f *TileField) Close() {
	if f.cache != nil {
		f.cache.Release()
		f.cache = nil
	}
	f.baked = false
}

// floorDiv divides rounding toward negative infinity; b must be positive.
func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && a < 0 {
		q--
	}
	return q
}

func ceilDiv(a, b int) int {
	return floorDiv(a+b-1, b)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

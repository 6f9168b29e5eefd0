package kiln

import (
	"errors"
	"fmt"
)

var (
	// ErrSurfaceLost is returned when a presenter has no destination for the
	// current frame.
	ErrSurfaceLost = errors.New("kiln: destination surface unavailable")
	// ErrTextureReleased is returned when drawing a texture whose last
	// reference has been released.
	ErrTextureReleased = errors.New("kiln: texture released")
	// ErrForeignTexture is returned when a texture created by one backend is
	// handed to another.
	ErrForeignTexture = errors.New("kiln: texture belongs to a different presenter")
	// ErrCacheNotBaked is returned by TileField.RenderCache before the first
	// BakeToCache.
	ErrCacheNotBaked = errors.New("kiln: tile field cache not baked")
	// ErrOutOfRange reports a row/column outside a tile field.
	ErrOutOfRange = errors.New("kiln: index out of range")
)

// ResourceError reports an asset that could not be loaded or converted into a
// drawable resource. It is fatal at startup; nothing partially initialized is
// returned alongside it.
type ResourceError struct {
	Op   string
	Path string
	Err  error
}

func (e *ResourceError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("kiln: %s %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("kiln: %s: %v", e.Op, e.Err)
}

func (e *ResourceError) Unwrap() error { return e.Err }

// RenderError reports a draw that could not be issued this frame. It is
// transient: the frame's remaining draws are skipped and the next frame
// proceeds normally.
type RenderError struct {
	Op  string
	Err error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("kiln: %s: %v", e.Op, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// IsRenderError reports whether err is, or wraps, a *RenderError.
func IsRenderError(err error) bool {
	var re *RenderError
	return errors.As(err, &re)
}

func renderErr(op string, err error) error {
	return &RenderError{Op: op, Err: err}
}

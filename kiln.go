package kiln

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// Point is an integer 2D position in pixels. The origin is the top-left of the
// destination, with Y increasing downward.
type Point struct {
	X, Y int
}

// Sub returns p-q.
func (p Point) Sub(q Point) Point {
	return Point{p.X - q.X, p.Y - q.Y}
}

// Rect is an axis-aligned integer rectangle with unsigned extent.
type Rect struct {
	X, Y          int
	Width, Height int
}

// Contains reports whether (x, y) lies inside the rectangle. The right and
// bottom edges are exclusive.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width &&
		y >= r.Y && y < r.Y+r.Height
}

// Intersects reports whether r and other share at least one pixel.
func (r Rect) Intersects(other Rect) bool {
	return r.X < other.X+other.Width &&
		r.X+r.Width > other.X &&
		r.Y < other.Y+other.Height &&
		r.Y+r.Height > other.Y
}

// Intersect returns the overlap of r and other. The result is empty (zero
// width or height) when they do not overlap.
func (r Rect) Intersect(other Rect) Rect {
	ir := r.image().Intersect(other.image())
	return Rect{ir.Min.X, ir.Min.Y, ir.Dx(), ir.Dy()}
}

// Empty reports whether the rectangle covers no pixels.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

func (r Rect) image() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

// BlendMode selects how source pixels are combined with the destination.
type BlendMode uint8

const (
	BlendReplace    BlendMode = iota // dst = src
	BlendAlpha                       // dst = src*srcA + dst*(1-srcA)
	BlendAdditive                    // dst = src*srcA + dst, dst alpha kept
	BlendModulate                    // dst = src*dst, dst alpha kept
	blendModeCount
)

var blendModeNames = [blendModeCount]string{"replace", "alpha", "additive", "modulate"}

func (b BlendMode) String() string {
	if b < blendModeCount {
		return blendModeNames[b]
	}
	return "unknown"
}

// Valid reports whether b is one of the defined blend modes.
func (b BlendMode) Valid() bool {
	return b < blendModeCount
}

// EbitenBlend returns the ebiten.Blend value for this mode. Source colors are
// premultiplied by the modulated alpha before they reach the GPU, so the
// additive and modulate factors operate on premultiplied values.
func (b BlendMode) EbitenBlend() ebiten.Blend {
	switch b {
	case BlendReplace:
		return ebiten.BlendCopy
	case BlendAdditive:
		return ebiten.Blend{
			BlendFactorSourceRGB:        ebiten.BlendFactorOne,
			BlendFactorSourceAlpha:      ebiten.BlendFactorZero,
			BlendFactorDestinationRGB:   ebiten.BlendFactorOne,
			BlendFactorDestinationAlpha: ebiten.BlendFactorOne,
			BlendOperationRGB:           ebiten.BlendOperationAdd,
			BlendOperationAlpha:         ebiten.BlendOperationAdd,
		}
	case BlendModulate:
		return ebiten.Blend{
			BlendFactorSourceRGB:        ebiten.BlendFactorDestinationColor,
			BlendFactorSourceAlpha:      ebiten.BlendFactorZero,
			BlendFactorDestinationRGB:   ebiten.BlendFactorZero,
			BlendFactorDestinationAlpha: ebiten.BlendFactorOne,
			BlendOperationRGB:           ebiten.BlendOperationAdd,
			BlendOperationAlpha:         ebiten.BlendOperationAdd,
		}
	default:
		return ebiten.BlendSourceOver
	}
}

// Flip mirrors a draw about the destination rectangle's axes.
type Flip uint8

const (
	FlipNone Flip = iota
	FlipHorizontal
	FlipVertical
)

// Axes returns which axes the flip mirrors.
func (f Flip) Axes() (horizontal, vertical bool) {
	switch f {
	case FlipHorizontal:
		return true, false
	case FlipVertical:
		return false, true
	}
	return false, false
}

// Modulation is the per-draw color, alpha and blend state. Channels are
// multipliers in 0-255 where 255 leaves the source unchanged.
type Modulation struct {
	R, G, B uint8
	A       uint8
	Blend   BlendMode
}

// DefaultModulation leaves colors untouched and alpha blends.
var DefaultModulation = Modulation{R: 255, G: 255, B: 255, A: 255, Blend: BlendAlpha}

// colorScale returns the premultiplied float scale used by GPU backends.
func (m Modulation) colorScale() (r, g, b, a float32) {
	a = float32(m.A) / 255
	return float32(m.R) / 255 * a, float32(m.G) / 255 * a, float32(m.B) / 255 * a, a
}

// ColorTransparent clears a target to transparent black.
var ColorTransparent = color.NRGBA{}

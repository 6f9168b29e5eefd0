package kiln

import "math"

// Affine matrices use the layout [a, b, c, d, tx, ty]:
//
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
var identityTransform = [6]float64{1, 0, 0, 1, 0, 0}

// multiplyAffine returns p * c, i.e. c is applied first.
func multiplyAffine(p, c [6]float64) [6]float64 {
	return [6]float64{
		p[0]*c[0] + p[2]*c[1],
		p[1]*c[0] + p[3]*c[1],
		p[0]*c[2] + p[2]*c[3],
		p[1]*c[2] + p[3]*c[3],
		p[0]*c[4] + p[2]*c[5] + p[4],
		p[1]*c[4] + p[3]*c[5] + p[5],
	}
}

// invertAffine computes the inverse of a 2D affine matrix.
// Returns ok=false if the matrix is singular.
func invertAffine(m [6]float64) (inv [6]float64, ok bool) {
	det := m[0]*m[3] - m[2]*m[1]
	if det > -1e-12 && det < 1e-12 {
		return identityTransform, false
	}
	invDet := 1.0 / det
	a := m[3] * invDet
	b := -m[1] * invDet
	c := -m[2] * invDet
	d := m[0] * invDet
	return [6]float64{
		a, b, c, d,
		-(a*m[4] + c*m[5]),
		-(b*m[4] + d*m[5]),
	}, true
}

func transformPoint(m [6]float64, x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

func translateAffine(tx, ty float64) [6]float64 {
	return [6]float64{1, 0, 0, 1, tx, ty}
}

func scaleAffine(sx, sy float64) [6]float64 {
	return [6]float64{sx, 0, 0, sy, 0, 0}
}

// rotateAffine rotates clockwise on a Y-down surface.
func rotateAffine(rad float64) [6]float64 {
	sin, cos := math.Sincos(rad)
	return [6]float64{cos, sin, -sin, cos, 0, 0}
}

// quadTransform maps a source rectangle whose top-left is at (0,0) onto the
// destination.
//
// Composition order:
//
//	Flip (texture-local) -> Scale to dst size -> Rotate about pivot -> Translate(dst)
//
// The pivot is relative to the destination rectangle's top-left; nil means
// its centre.
func quadTransform(srcW, srcH int, dst Rect, opts DrawOptions) [6]float64 {
	m := identityTransform
	sw, sh := float64(srcW), float64(srcH)
	if opts.FlipH {
		m = multiplyAffine([6]float64{-1, 0, 0, 1, sw, 0}, m)
	}
	if opts.FlipV {
		m = multiplyAffine([6]float64{1, 0, 0, -1, 0, sh}, m)
	}
	if srcW != dst.Width || srcH != dst.Height {
		m = multiplyAffine(scaleAffine(float64(dst.Width)/sw, float64(dst.Height)/sh), m)
	}
	if opts.Rotation != 0 {
		px, py := float64(dst.Width)/2, float64(dst.Height)/2
		if opts.Pivot != nil {
			px, py = float64(opts.Pivot.X), float64(opts.Pivot.Y)
		}
		m = multiplyAffine(translateAffine(-px, -py), m)
		m = multiplyAffine(rotateAffine(opts.Rotation*math.Pi/180), m)
		m = multiplyAffine(translateAffine(px, py), m)
	}
	return multiplyAffine(translateAffine(float64(dst.X), float64(dst.Y)), m)
}

// transformedBounds returns the integer bounding box of a w×h quad under m.
func transformedBounds(m [6]float64, w, h int) Rect {
	xs := [4]float64{0, float64(w), 0, float64(w)}
	ys := [4]float64{0, 0, float64(h), float64(h)}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for i := range xs {
		x, y := transformPoint(m, xs[i], ys[i])
		minX = math.Min(minX, x)
		minY = math.Min(minY, y)
		maxX = math.Max(maxX, x)
		maxY = math.Max(maxY, y)
	}
	x0, y0 := int(math.Floor(minX)), int(math.Floor(minY))
	x1, y1 := int(math.Ceil(maxX)), int(math.Ceil(maxY))
	return Rect{x0, y0, x1 - x0, y1 - y0}
}

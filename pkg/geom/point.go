package geom

import "honnef.co/go/curve"

// Point and Vec2 are the curve package's types; the engine only adds
// segments on top of them.
type (
	Point = curve.Point
	Vec2  = curve.Vec2
)

// Pt returns the point (x, y).
func Pt(x, y float64) Point { return curve.Pt(x, y) }

// Vec returns the vector ⟨x, y⟩.
func Vec(x, y float64) Vec2 { return curve.Vec(x, y) }

// Finite reports whether neither coordinate of p is NaN or infinite.
func Finite(p Point) bool {
	return !p.IsNaN() && !p.IsInf()
}

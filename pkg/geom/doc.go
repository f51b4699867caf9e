// Package geom provides straight segments for the bundling engine.
//
// Points and vectors come from honnef.co/go/curve: subtracting two points
// yields a [Vec2] and translating a point by a vector yields a [Point].
// This package adds [Segment] with its length, midpoint, projection and
// degeneracy test.
package geom

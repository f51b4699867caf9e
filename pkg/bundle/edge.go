package bundle

import (
	"encoding/json"

	"github.com/matzehuels/edgebundle/pkg/geom"
)

// Edge is a straight input edge with an optional weight.
//
// Weight 0 is a real weight: it sorts below every other edge when weights
// are normalized. A composite literal that leaves Weight out therefore gets
// the lightest weight, not the default; use [NewEdge] for weight 1. Decoding
// from JSON or CSV applies the default when the weight is missing.
type Edge struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	XEnd   float64 `json:"xend"`
	YEnd   float64 `json:"yend"`
	Weight float64 `json:"weight"`
}

// NewEdge returns an edge of weight 1.
func NewEdge(x, y, xend, yend float64) Edge {
	return Edge{X: x, Y: y, XEnd: xend, YEnd: yend, Weight: 1}
}

// Segment returns the edge geometry.
func (e Edge) Segment() geom.Segment {
	return geom.Seg(e.X, e.Y, e.XEnd, e.YEnd)
}

// UnmarshalJSON decodes an edge, defaulting a missing weight to 1.
func (e *Edge) UnmarshalJSON(data []byte) error {
	type plain Edge
	p := plain{Weight: 1}
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*e = Edge(p)
	return nil
}

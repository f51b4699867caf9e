// Package table flattens bundled polylines into the long-format table the
// bundler returns: one row per control point, tagged with its position
// along the edge and the edge it belongs to.
package table

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
	"math"

	"github.com/matzehuels/edgebundle/pkg/geom"
)

// Row is one control point of one edge.
type Row struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Index float64 `json:"index"` // k/(n−1), 0 at the source and 1 at the target
	Group int     `json:"group"` // 0-based input position of the edge
}

// Table holds rows grouped by edge in input order, points in path order.
type Table struct {
	Rows []Row `json:"rows"`
}

// Assemble reshapes polylines into a Table. It performs no geometry.
func Assemble(polylines [][]geom.Point) *Table {
	total := 0
	for _, line := range polylines {
		total += len(line)
	}
	t := &Table{Rows: make([]Row, 0, total)}
	for g, line := range polylines {
		n := len(line)
		for k, pt := range line {
			idx := 0.0
			if n > 1 {
				idx = float64(k) / float64(n-1)
			}
			t.Rows = append(t.Rows, Row{X: pt.X, Y: pt.Y, Index: idx, Group: g})
		}
	}
	return t
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.Rows) }

// Groups returns the number of distinct edges.
func (t *Table) Groups() int {
	if len(t.Rows) == 0 {
		return 0
	}
	return t.Rows[len(t.Rows)-1].Group + 1
}

// Polyline returns the points of edge g, or nil if g has no rows.
func (t *Table) Polyline(g int) []geom.Point {
	var pts []geom.Point
	for _, r := range t.Rows {
		if r.Group == g {
			pts = append(pts, geom.Pt(r.X, r.Y))
		} else if r.Group > g {
			break
		}
	}
	return pts
}

// MarshalBinary encodes the table for cache storage. Unlike JSON the
// encoding keeps NaN and infinite coordinates.
func (t *Table) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(gobTable{Rows: t.Rows}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary decodes a table written by MarshalBinary.
func (t *Table) UnmarshalBinary(data []byte) error {
	var g gobTable
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&g); err != nil {
		return err
	}
	if g.Rows == nil {
		g.Rows = []Row{}
	}
	t.Rows = g.Rows
	return nil
}

type gobTable struct{ Rows []Row }

type jsonRow struct {
	X     *float64 `json:"x"`
	Y     *float64 `json:"y"`
	Index float64  `json:"index"`
	Group int      `json:"group"`
}

// MarshalJSON writes non-finite coordinates, which only degenerate edges
// produce, as null.
func (r Row) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonRow{X: finite(r.X), Y: finite(r.Y), Index: r.Index, Group: r.Group})
}

// UnmarshalJSON reads null coordinates back as NaN.
func (r *Row) UnmarshalJSON(data []byte) error {
	var j jsonRow
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	*r = Row{X: orNaN(j.X), Y: orNaN(j.Y), Index: j.Index, Group: j.Group}
	return nil
}

func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func orNaN(p *float64) float64 {
	if p == nil {
		return math.NaN()
	}
	return *p
}

package compat

// Entry is one compatible partner of an edge.
type Entry struct {
	J     int
	Score float64
}

// Matrix is a sparse symmetric compatibility structure.
type Matrix struct {
	n        int
	scores   map[pairKey]float64
	partners [][]Entry
}

type pairKey struct{ i, j int }

func key(i, j int) pairKey {
	if i > j {
		i, j = j, i
	}
	return pairKey{i, j}
}

// newMatrix builds a Matrix from upper-triangle rows. rows[i] holds the
// entries (j > i) of row i in ascending j order.
func newMatrix(n int, rows [][]Entry) *Matrix {
	m := &Matrix{
		n:        n,
		scores:   make(map[pairKey]float64),
		partners: make([][]Entry, n),
	}
	// Ascending i keeps every partners list sorted by J: lower partners of j
	// arrive while i < j, higher ones when i == j.
	for i, row := range rows {
		for _, e := range row {
			m.scores[key(i, e.J)] = e.Score
			m.partners[i] = append(m.partners[i], e)
			m.partners[e.J] = append(m.partners[e.J], Entry{J: i, Score: e.Score})
		}
	}
	return m
}

// Len returns the number of edges the matrix was computed for.
func (m *Matrix) Len() int { return m.n }

// Pairs returns the number of materialised unordered pairs.
func (m *Matrix) Pairs() int { return len(m.scores) }

// Score returns the compatibility of edges i and j, or 0 if the pair was
// not materialised (including i == j).
func (m *Matrix) Score(i, j int) float64 {
	if i == j {
		return 0
	}
	return m.scores[key(i, j)]
}

// Partners returns the compatible partners of edge i ordered by index.
// The returned slice must not be modified.
func (m *Matrix) Partners(i int) []Entry {
	if i < 0 || i >= m.n {
		return nil
	}
	return m.partners[i]
}

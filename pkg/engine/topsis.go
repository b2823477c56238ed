package engine

import (
	"math"

	"github.com/pkg/errors"
)

const (
	// normFloor substitutes for a zero column norm so constant columns
	// stay finite instead of dividing by zero.
	normFloor = 1e-10

	// closenessEpsilon keeps the closeness ratio defined when a row
	// coincides with both reference points.
	closenessEpsilon = 1e-9
)

// Outcome holds every intermediate of a TOPSIS scoring pass so the result
// assembler can report factors, separations and contributions without
// re-deriving them.
type Outcome struct {
	Normalized [][]float64
	Weighted   [][]float64
	Ideal      []float64
	AntiIdeal  []float64
	SPlus      []float64
	SMinus     []float64
	Scores     []float64
}

// Score runs the TOPSIS pipeline over a decision matrix: vector
// normalization, weighting, ideal/anti-ideal reference points, Euclidean
// separations, and the closeness score S-/(S+ + S-).
func Score(matrix [][]float64, w Weights, criteria []Criterion) (*Outcome, error) {
	if len(matrix) == 0 {
		return nil, errors.New("empty decision matrix")
	}
	cols := len(criteria)
	if cols == 0 {
		return nil, errors.New("no criteria")
	}
	if len(w) != cols {
		return nil, errors.Errorf("weight vector has %d entries for %d criteria", len(w), cols)
	}
	for i, row := range matrix {
		if len(row) != cols {
			return nil, errors.Errorf("row %d has %d columns, expected %d", i, len(row), cols)
		}
	}

	o := &Outcome{
		Normalized: normalizeColumns(matrix),
		Ideal:      make([]float64, cols),
		AntiIdeal:  make([]float64, cols),
	}

	o.Weighted = make([][]float64, len(matrix))
	for i, row := range o.Normalized {
		wr := make([]float64, cols)
		for j, v := range row {
			wr[j] = v * w[j]
		}
		o.Weighted[i] = wr
	}

	for j, c := range criteria {
		lo, hi := columnRange(o.Weighted, j)
		if c.Kind == Benefit {
			o.Ideal[j], o.AntiIdeal[j] = hi, lo
		} else {
			o.Ideal[j], o.AntiIdeal[j] = lo, hi
		}
	}

	o.SPlus = separations(o.Weighted, o.Ideal)
	o.SMinus = separations(o.Weighted, o.AntiIdeal)

	o.Scores = make([]float64, len(matrix))
	for i := range matrix {
		o.Scores[i] = o.SMinus[i] / (o.SPlus[i] + o.SMinus[i] + closenessEpsilon)
	}

	return o, nil
}

// normalizeColumns divides each entry by its column's Euclidean norm.
func normalizeColumns(matrix [][]float64) [][]float64 {
	rows := len(matrix)
	cols := len(matrix[0])

	norms := make([]float64, cols)
	for j := 0; j < cols; j++ {
		var ss float64
		for i := 0; i < rows; i++ {
			ss += matrix[i][j] * matrix[i][j]
		}
		norms[j] = math.Sqrt(ss)
		if norms[j] == 0 {
			norms[j] = normFloor
		}
	}

	out := make([][]float64, rows)
	for i := 0; i < rows; i++ {
		row := make([]float64, cols)
		for j := 0; j < cols; j++ {
			row[j] = matrix[i][j] / norms[j]
		}
		out[i] = row
	}
	return out
}

func columnRange(matrix [][]float64, j int) (lo, hi float64) {
	lo, hi = matrix[0][j], matrix[0][j]
	for _, row := range matrix[1:] {
		if row[j] < lo {
			lo = row[j]
		}
		if row[j] > hi {
			hi = row[j]
		}
	}
	return lo, hi
}

// separations computes the Euclidean distance of every row from a
// reference point.
func separations(matrix [][]float64, ref []float64) []float64 {
	out := make([]float64, len(matrix))
	for i, row := range matrix {
		var ss float64
		for j, v := range row {
			d := v - ref[j]
			ss += d * d
		}
		out[i] = math.Sqrt(ss)
	}
	return out
}

// Contributions attributes row i's score to individual criteria:
// d-(j) / (d-(j) + d+(j)) on squared component distances.
func (o *Outcome) Contributions(i int) []float64 {
	row := o.Weighted[i]
	out := make([]float64, len(row))
	for j, v := range row {
		dp := (v - o.Ideal[j]) * (v - o.Ideal[j])
		dm := (v - o.AntiIdeal[j]) * (v - o.AntiIdeal[j])
		if dp+dm > 0 {
			out[j] = dm / (dp + dm)
		}
	}
	return out
}

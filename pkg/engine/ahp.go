package engine

import "github.com/pkg/errors"

// DeriveWeights converts a pairwise-comparison matrix into a normalized
// priority vector using the AHP method: normalize each column by its sum,
// average each row of the normalized matrix, renormalize. Entries must be
// positive; reciprocal symmetry is conventional, not enforced.
func DeriveWeights(matrix [][]float64) (Weights, error) {
	n := len(matrix)
	if n == 0 {
		return nil, errors.New("empty pairwise matrix")
	}
	for i, row := range matrix {
		if len(row) != n {
			return nil, errors.Errorf("pairwise matrix is not square: row %d has %d entries, expected %d", i, len(row), n)
		}
		for j, v := range row {
			if v <= 0 {
				return nil, errors.Errorf("non-positive pairwise entry at [%d][%d]: %f", i, j, v)
			}
		}
	}

	colSums := make([]float64, n)
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			colSums[j] += matrix[i][j]
		}
	}

	w := make(Weights, n)
	for i := 0; i < n; i++ {
		var rowSum float64
		for j := 0; j < n; j++ {
			rowSum += matrix[i][j] / colSums[j]
		}
		w[i] = rowSum / float64(n)
	}

	return w.Normalize(), nil
}

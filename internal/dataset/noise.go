package dataset

import "math/rand"

const (
	// DefaultNoiseFraction is the share of cells perturbed before cross-validation.
	DefaultNoiseFraction = 0.03
	// DefaultNoiseSeed keeps training runs reproducible.
	DefaultNoiseSeed int64 = 42

	noiseStdDev = 0.2
)

// InjectNoise returns a perturbed copy of m. floor(fraction*n*m) cells are drawn
// uniformly with replacement: all row indices first, then all column indices.
// A selected 0 or 1 is flipped, any other value gets N(0, 0.2) added. Cells
// drawn twice are perturbed twice. m is not modified.
func InjectNoise(m *FeatureMatrix, fraction float64, seed int64) *FeatureMatrix {
	out := m.Clone()
	n, cols := m.NumRows(), m.NumCols()
	if n == 0 || cols == 0 || fraction <= 0 {
		return out
	}

	count := int(fraction * float64(n) * float64(cols))
	rng := rand.New(rand.NewSource(seed))

	rows := make([]int, count)
	for i := range rows {
		rows[i] = rng.Intn(n)
	}
	columns := make([]int, count)
	for i := range columns {
		columns[i] = rng.Intn(cols)
	}

	for i := 0; i < count; i++ {
		v := out.Rows[rows[i]][columns[i]]
		if v == 0 || v == 1 {
			out.Rows[rows[i]][columns[i]] = 1 - v
			continue
		}
		out.Rows[rows[i]][columns[i]] = v + rng.NormFloat64()*noiseStdDev
	}
	return out
}

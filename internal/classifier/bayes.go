package classifier

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

const varSmoothing = 1e-9

// GaussianNB is Gaussian naive Bayes with variance smoothing relative to the
// largest feature variance.
type GaussianNB struct {
	Prior    []float64   `json:"prior"`
	Mean     [][]float64 `json:"mean"`
	Variance [][]float64 `json:"variance"`
}

func NewGaussianNB() *GaussianNB { return &GaussianNB{} }

func (nb *GaussianNB) Fit(x [][]float64, y []int, nClasses int) error {
	if err := checkFit(x, y, nClasses); err != nil {
		return err
	}
	n, m := len(x), len(x[0])

	counts := make([]float64, nClasses)
	nb.Mean = make([][]float64, nClasses)
	nb.Variance = make([][]float64, nClasses)
	for c := 0; c < nClasses; c++ {
		nb.Mean[c] = make([]float64, m)
		nb.Variance[c] = make([]float64, m)
	}
	for i, row := range x {
		counts[y[i]]++
		for j, v := range row {
			nb.Mean[y[i]][j] += v
		}
	}
	for c := range nb.Mean {
		if counts[c] == 0 {
			continue
		}
		for j := range nb.Mean[c] {
			nb.Mean[c][j] /= counts[c]
		}
	}
	for i, row := range x {
		for j, v := range row {
			d := v - nb.Mean[y[i]][j]
			nb.Variance[y[i]][j] += d * d
		}
	}

	epsilon := varSmoothing * maxColumnVariance(x)
	if epsilon == 0 {
		epsilon = varSmoothing
	}
	nb.Prior = make([]float64, nClasses)
	for c := range nb.Variance {
		nb.Prior[c] = counts[c] / float64(n)
		for j := range nb.Variance[c] {
			if counts[c] > 0 {
				nb.Variance[c][j] /= counts[c]
			}
			nb.Variance[c][j] += epsilon
		}
	}
	return nil
}

func (nb *GaussianNB) PredictProba(x []float64) []float64 {
	scores := make([]float64, len(nb.Prior))
	for c, prior := range nb.Prior {
		if prior == 0 {
			scores[c] = math.Inf(-1)
			continue
		}
		s := math.Log(prior)
		for j, v := range x {
			variance := nb.Variance[c][j]
			d := v - nb.Mean[c][j]
			s -= 0.5*math.Log(2*math.Pi*variance) + d*d/(2*variance)
		}
		scores[c] = s
	}
	return softmax(scores)
}

func maxColumnVariance(x [][]float64) float64 {
	col := make([]float64, len(x))
	best := 0.0
	for j := range x[0] {
		for i, row := range x {
			col[i] = row[j]
		}
		if _, v := stat.PopMeanVariance(col, nil); v > best {
			best = v
		}
	}
	return best
}

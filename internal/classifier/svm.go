package classifier

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

// SVM approximates an RBF-kernel support vector machine: inputs are mapped
// through random Fourier features, then one linear hinge-loss classifier per
// class is trained with Pegasos. Probabilities are a softmax over the scaled
// decision values.
type SVM struct {
	Components int         `json:"components"`
	Epochs     int         `json:"epochs"`
	Seed       int64       `json:"seed"`
	ProbScale  float64     `json:"prob_scale"`
	Gamma      float64     `json:"gamma"`
	Omega      [][]float64 `json:"omega"`
	Phase      []float64   `json:"phase"`
	Weights    [][]float64 `json:"weights"`
}

func NewSVM() *SVM {
	return &SVM{Components: 200, Epochs: 10, Seed: 42, ProbScale: 5}
}

func (s *SVM) Fit(x [][]float64, y []int, nClasses int) error {
	if err := checkFit(x, y, nClasses); err != nil {
		return err
	}
	n, m := len(x), len(x[0])
	rng := rand.New(rand.NewSource(s.Seed))

	// gamma = 1 / (n_features * Var(X)), the "scale" heuristic.
	s.Gamma = 1.0
	if v := totalVariance(x); v > 0 {
		s.Gamma = 1 / (float64(m) * v)
	}
	std := math.Sqrt(2 * s.Gamma)
	s.Omega = make([][]float64, s.Components)
	s.Phase = make([]float64, s.Components)
	for d := range s.Omega {
		s.Omega[d] = make([]float64, m)
		for j := range s.Omega[d] {
			s.Omega[d][j] = rng.NormFloat64() * std
		}
		s.Phase[d] = rng.Float64() * 2 * math.Pi
	}

	z := make([][]float64, n)
	for i, row := range x {
		z[i] = s.features(row)
	}

	lambda := 1 / float64(n)
	radius := 1 / math.Sqrt(lambda)
	s.Weights = make([][]float64, nClasses)
	for c := range s.Weights {
		s.Weights[c] = make([]float64, s.Components+1)
	}

	t := 0
	for epoch := 0; epoch < s.Epochs; epoch++ {
		for _, i := range rng.Perm(n) {
			t++
			eta := 1 / (lambda * float64(t))
			for c, w := range s.Weights {
				target := -1.0
				if y[i] == c {
					target = 1
				}
				margin := target * floats.Dot(w, z[i])
				floats.Scale(1-eta*lambda, w)
				if margin < 1 {
					floats.AddScaled(w, eta*target, z[i])
				}
				if norm := floats.Norm(w, 2); norm > radius {
					floats.Scale(radius/norm, w)
				}
			}
		}
	}
	return nil
}

// features maps x to sqrt(2/D)*cos(omega.x + phase) with a trailing bias term.
func (s *SVM) features(x []float64) []float64 {
	sp := toSparse(x)
	z := make([]float64, s.Components+1)
	scale := math.Sqrt(2 / float64(s.Components))
	for d, omega := range s.Omega {
		dot := s.Phase[d]
		for k, j := range sp.idx {
			dot += omega[j] * sp.val[k]
		}
		z[d] = scale * math.Cos(dot)
	}
	z[s.Components] = 1
	return z
}

func (s *SVM) PredictProba(x []float64) []float64 {
	z := s.features(x)
	scores := make([]float64, len(s.Weights))
	for c, w := range s.Weights {
		scores[c] = s.ProbScale * floats.Dot(w, z)
	}
	return softmax(scores)
}

func totalVariance(x [][]float64) float64 {
	count, mean := 0.0, 0.0
	for _, row := range x {
		for _, v := range row {
			count++
			mean += v
		}
	}
	mean /= count
	v := 0.0
	for _, row := range x {
		for _, val := range row {
			d := val - mean
			v += d * d
		}
	}
	return v / count
}

package classifier

import "gonum.org/v1/gonum/floats"

// LogisticRegression is multinomial (softmax) regression trained by full-batch
// gradient descent with L2 regularisation.
type LogisticRegression struct {
	LearningRate float64     `json:"learning_rate"`
	Iterations   int         `json:"iterations"`
	L2           float64     `json:"l2"`
	Weights      [][]float64 `json:"weights"`
	Bias         []float64   `json:"bias"`
}

func NewLogisticRegression() *LogisticRegression {
	return &LogisticRegression{LearningRate: 0.5, Iterations: 300, L2: 1e-3}
}

func (lr *LogisticRegression) Fit(x [][]float64, y []int, nClasses int) error {
	if err := checkFit(x, y, nClasses); err != nil {
		return err
	}
	n, m := len(x), len(x[0])

	rows := make([]sparseRow, n)
	for i, row := range x {
		rows[i] = toSparse(row)
	}

	lr.Weights = make([][]float64, nClasses)
	grad := make([][]float64, nClasses)
	for c := range lr.Weights {
		lr.Weights[c] = make([]float64, m)
		grad[c] = make([]float64, m)
	}
	lr.Bias = make([]float64, nClasses)
	gradBias := make([]float64, nClasses)
	scores := make([]float64, nClasses)
	inv := 1 / float64(n)

	for it := 0; it < lr.Iterations; it++ {
		for c := range grad {
			for j := range grad[c] {
				grad[c][j] = 0
			}
			gradBias[c] = 0
		}
		for i, r := range rows {
			lr.logits(r, scores)
			softmax(scores)
			scores[y[i]] -= 1
			for c, g := range scores {
				gradBias[c] += g
				for k, j := range r.idx {
					grad[c][j] += g * r.val[k]
				}
			}
		}
		for c := range lr.Weights {
			// w -= lr * (grad/n + l2*w)
			floats.Scale(1-lr.LearningRate*lr.L2, lr.Weights[c])
			floats.AddScaled(lr.Weights[c], -lr.LearningRate*inv, grad[c])
			lr.Bias[c] -= lr.LearningRate * inv * gradBias[c]
		}
	}
	return nil
}

func (lr *LogisticRegression) logits(r sparseRow, out []float64) {
	for c, w := range lr.Weights {
		s := lr.Bias[c]
		for k, j := range r.idx {
			s += w[j] * r.val[k]
		}
		out[c] = s
	}
}

func (lr *LogisticRegression) PredictProba(x []float64) []float64 {
	scores := make([]float64, len(lr.Weights))
	lr.logits(toSparse(x), scores)
	return softmax(scores)
}

// Package classifier holds the fixed registry of classifier families compared
// during model selection. Hyperparameters are fixed per family.
package classifier

import (
	"encoding/json"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Classifier is a trainable multi-class probabilistic model.
type Classifier interface {
	// Fit trains on rows x with encoded labels y in [0, nClasses).
	Fit(x [][]float64, y []int, nClasses int) error
	// PredictProba returns one probability per class, summing to 1.
	PredictProba(x []float64) []float64
}

// Family names, in registry order.
const (
	FamilySVM                = "svm"
	FamilyRandomForest       = "random_forest"
	FamilyNaiveBayes         = "naive_bayes"
	FamilyKNN                = "knn"
	FamilyLogisticRegression = "logistic_regression"
	FamilyDecisionTree       = "decision_tree"
)

// Family is a named classifier constructor.
type Family struct {
	Name string
	New  func() Classifier
}

var registry = []Family{
	{Name: FamilySVM, New: func() Classifier { return NewSVM() }},
	{Name: FamilyRandomForest, New: func() Classifier { return NewRandomForest() }},
	{Name: FamilyNaiveBayes, New: func() Classifier { return NewGaussianNB() }},
	{Name: FamilyKNN, New: func() Classifier { return NewKNN() }},
	{Name: FamilyLogisticRegression, New: func() Classifier { return NewLogisticRegression() }},
	{Name: FamilyDecisionTree, New: func() Classifier { return NewDecisionTree() }},
}

// Registry returns the families in selection order.
func Registry() []Family {
	return append([]Family(nil), registry...)
}

// Lookup finds a family by name.
func Lookup(name string) (Family, bool) {
	for _, f := range registry {
		if f.Name == name {
			return f, true
		}
	}
	return Family{}, false
}

// Model is a fitted classifier tagged with its family so it can be persisted.
type Model struct {
	Family     string
	Classifier Classifier
}

type modelEnvelope struct {
	Family string          `json:"family"`
	State  json.RawMessage `json:"state"`
}

func (m Model) MarshalJSON() ([]byte, error) {
	state, err := json.Marshal(m.Classifier)
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", m.Family, err)
	}
	return json.Marshal(modelEnvelope{Family: m.Family, State: state})
}

func (m *Model) UnmarshalJSON(data []byte) error {
	var env modelEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}
	family, ok := Lookup(env.Family)
	if !ok {
		return fmt.Errorf("unknown classifier family %q", env.Family)
	}
	c := family.New()
	if err := json.Unmarshal(env.State, c); err != nil {
		return fmt.Errorf("unmarshal %s: %w", env.Family, err)
	}
	m.Family = env.Family
	m.Classifier = c
	return nil
}

func checkFit(x [][]float64, y []int, nClasses int) error {
	if len(x) == 0 {
		return fmt.Errorf("no training rows")
	}
	if len(x) != len(y) {
		return fmt.Errorf("%d rows but %d labels", len(x), len(y))
	}
	if nClasses < 1 {
		return fmt.Errorf("nClasses must be positive")
	}
	width := len(x[0])
	if width == 0 {
		return fmt.Errorf("no feature columns")
	}
	for i, row := range x {
		if len(row) != width {
			return fmt.Errorf("row %d has %d features, want %d", i, len(row), width)
		}
		if y[i] < 0 || y[i] >= nClasses {
			return fmt.Errorf("label %d out of range [0,%d)", y[i], nClasses)
		}
	}
	return nil
}

// softmax converts scores in place into probabilities. Entries set to -Inf get 0.
func softmax(scores []float64) []float64 {
	lse := floats.LogSumExp(scores)
	for i, s := range scores {
		if math.IsInf(s, -1) {
			scores[i] = 0
			continue
		}
		scores[i] = math.Exp(s - lse)
	}
	return scores
}

func uniform(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 1 / float64(n)
	}
	return out
}

// sparseRow lists the non-zero entries of a dense row.
type sparseRow struct {
	idx []int
	val []float64
}

func toSparse(row []float64) sparseRow {
	var s sparseRow
	for j, v := range row {
		if v != 0 {
			s.idx = append(s.idx, j)
			s.val = append(s.val, v)
		}
	}
	return s
}

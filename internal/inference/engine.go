// Package inference ranks diseases for a set of free-text symptom names using
// the published training bundle.
package inference

import (
	"context"
	"sort"
	"strings"

	"github.com/Skufu/symptomdx/internal/artifact"
)

// DefaultTopK is the number of ranked diseases returned.
const DefaultTopK = 5

// Prediction is one ranked disease.
type Prediction struct {
	Disease     string  `json:"disease"`
	Probability float64 `json:"prob"`
}

type Engine struct {
	store artifact.Store
	topK  int
}

func NewEngine(store artifact.Store, topK int) *Engine {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &Engine{store: store, topK: topK}
}

// Predict returns up to topK diseases, most probable first. Probability ties go
// to the lower encoded class index. Unknown symptoms are ignored; no symptoms
// at all still yields a ranking.
func (e *Engine) Predict(ctx context.Context, symptoms []string) ([]Prediction, error) {
	bundle, err := e.store.Get(ctx)
	if err != nil {
		return nil, err
	}
	if err := bundle.Ready(); err != nil {
		return nil, err
	}

	probs := bundle.Model.Classifier.PredictProba(BuildVector(bundle.Columns, symptoms))

	order := make([]int, len(probs))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return probs[order[a]] > probs[order[b]]
	})

	k := e.topK
	if k > len(order) {
		k = len(order)
	}
	out := make([]Prediction, k)
	for i, idx := range order[:k] {
		out[i] = Prediction{Disease: bundle.Labels.Decode(idx), Probability: probs[idx]}
	}
	return out, nil
}

// BuildVector sets 1 for every column a symptom resolves to. A symptom is
// trimmed and lowercased, matched case-insensitively against the columns, then
// retried with spaces replaced by underscores.
func BuildVector(columns []string, symptoms []string) []float64 {
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		key := strings.ToLower(c)
		if _, dup := index[key]; !dup {
			index[key] = i
		}
	}

	vec := make([]float64, len(columns))
	for _, s := range symptoms {
		key := strings.ToLower(strings.TrimSpace(s))
		if key == "" {
			continue
		}
		if i, ok := index[key]; ok {
			vec[i] = 1
			continue
		}
		if i, ok := index[strings.ReplaceAll(key, " ", "_")]; ok {
			vec[i] = 1
		}
	}
	return vec
}

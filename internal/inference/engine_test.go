package inference

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skufu/symptomdx/internal/apperr"
	"github.com/Skufu/symptomdx/internal/artifact"
	"github.com/Skufu/symptomdx/internal/classifier"
	"github.com/Skufu/symptomdx/internal/dataset"
)

type memStore struct{ b *artifact.Bundle }

func (m *memStore) Put(_ context.Context, b *artifact.Bundle) error {
	m.b = b
	return nil
}

func (m *memStore) Get(context.Context) (*artifact.Bundle, error) {
	if m.b == nil {
		return nil, apperr.NewArtifactMissing("model")
	}
	return m.b, nil
}

// fixed returns the same distribution for every input and records the last input.
type fixed struct {
	probs []float64
	last  []float64
}

func (f *fixed) Fit([][]float64, []int, int) error { return nil }

func (f *fixed) PredictProba(x []float64) []float64 {
	f.last = x
	return append([]float64(nil), f.probs...)
}

func bundleWith(c classifier.Classifier, columns, labels []string) *artifact.Bundle {
	return &artifact.Bundle{
		Version: "test",
		Model:   classifier.Model{Family: "fixed", Classifier: c},
		Columns: columns,
		Labels:  dataset.FitLabels(labels),
	}
}

func TestBuildVectorNormalization(t *testing.T) {
	columns := []string{"Fever", "high_fever", "cough"}

	for _, s := range []string{"Fever", "fever", "  FEVER "} {
		assert.Equal(t, []float64{1, 0, 0}, BuildVector(columns, []string{s}), s)
	}
	for _, s := range []string{"high fever", "high_fever", "High Fever"} {
		assert.Equal(t, []float64{0, 1, 0}, BuildVector(columns, []string{s}), s)
	}
}

func TestBuildVectorIgnoresUnknownSymptoms(t *testing.T) {
	columns := []string{"fever", "cough"}
	assert.Equal(t,
		BuildVector(columns, []string{"cough"}),
		BuildVector(columns, []string{"cough", "xyzzy", ""}),
	)
	assert.Equal(t, []float64{0, 0}, BuildVector(columns, nil))
}

func TestPredictBeforeTraining(t *testing.T) {
	e := NewEngine(&memStore{}, DefaultTopK)
	_, err := e.Predict(context.Background(), []string{"fever"})
	assert.True(t, apperr.Is(err, apperr.KindArtifactMissing), "got %v", err)
}

func TestPredictIncompleteBundle(t *testing.T) {
	b := bundleWith(&fixed{probs: []float64{1}}, nil, []string{"Flu"})
	e := NewEngine(&memStore{b: b}, DefaultTopK)
	_, err := e.Predict(context.Background(), nil)
	assert.True(t, apperr.Is(err, apperr.KindArtifactMissing))
	assert.Contains(t, apperr.MessageOf(err), "column order")
}

func TestPredictTopKWithTies(t *testing.T) {
	labels := []string{"a", "b", "c", "d", "e", "f", "g"}
	model := &fixed{probs: []float64{0.2, 0.3, 0.3, 0.1, 0.05, 0.05, 0.0}}
	e := NewEngine(&memStore{b: bundleWith(model, []string{"fever", "cough"}, labels)}, DefaultTopK)

	preds, err := e.Predict(context.Background(), []string{"Cough", "xyzzy"})
	require.NoError(t, err)

	var got []string
	for _, p := range preds {
		got = append(got, p.Disease)
	}
	assert.Equal(t, []string{"b", "c", "a", "d", "e"}, got)
	assert.Equal(t, 0.3, preds[0].Probability)
	assert.Equal(t, []float64{0, 1}, model.last)
}

func TestPredictEmptySymptomsStillRanks(t *testing.T) {
	model := &fixed{probs: []float64{0.4, 0.6}}
	e := NewEngine(&memStore{b: bundleWith(model, []string{"fever"}, []string{"Anemia", "Flu"})}, 0)

	preds, err := e.Predict(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, preds, 2)
	assert.Equal(t, "Flu", preds[0].Disease)
	assert.Equal(t, []float64{0}, model.last)
}

package training

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skufu/symptomdx/internal/apperr"
	"github.com/Skufu/symptomdx/internal/artifact"
	"github.com/Skufu/symptomdx/internal/classifier"
	"github.com/Skufu/symptomdx/internal/dataset"
)

func fluAnemiaCSV(repeat int) string {
	var b strings.Builder
	b.WriteString("fever,cough,fatigue,prognosis\n")
	for i := 0; i < repeat; i++ {
		b.WriteString("1,1,0,Flu\n")
		b.WriteString("0,0,1,Anemia\n")
	}
	return b.String()
}

func mustDataset(t *testing.T, csv string) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.ReadCSV(strings.NewReader(csv))
	require.NoError(t, err)
	return ds
}

func newTestTrainer(t *testing.T) (*Trainer, *artifact.FileStore) {
	t.Helper()
	store, err := artifact.NewFileStore(t.TempDir())
	require.NoError(t, err)
	return NewTrainer(store, DefaultOptions(), zerolog.Nop()), store
}

func TestStratifiedFolds(t *testing.T) {
	y := []int{0, 1, 0, 1, 0, 1, 0, 1, 0, 1, 2, 2}
	folds, err := StratifiedFolds(y, 3, 5)
	require.NoError(t, err)
	require.Len(t, folds, 5)

	seen := map[int]bool{}
	for _, f := range folds {
		assert.NotEmpty(t, f)
		assert.LessOrEqual(t, len(f), 3)
		for _, i := range f {
			assert.False(t, seen[i], "row %d in two folds", i)
			seen[i] = true
		}
	}
	assert.Len(t, seen, len(y))
	// class 0 rows are dealt first, one per fold
	assert.Equal(t, 0, folds[0][0])
	assert.Equal(t, 2, folds[1][0])
}

func TestStratifiedFoldsInfeasible(t *testing.T) {
	_, err := StratifiedFolds([]int{0, 1, 0}, 2, 5)
	assert.Error(t, err)

	_, err = StratifiedFolds([]int{0, 0, 0, 1, 1, 1}, 2, 5)
	assert.Error(t, err, "no class reaches 5 rows")

	_, err = StratifiedFolds([]int{0, 1}, 2, 1)
	assert.Error(t, err)
}

func TestTrainFluAnemia(t *testing.T) {
	trainer, store := newTestTrainer(t)

	bundle, err := trainer.Train(context.Background(), mustDataset(t, fluAnemiaCSV(10)))
	require.NoError(t, err)

	assert.Equal(t, []string{"fever", "cough", "fatigue"}, bundle.Columns)
	assert.Equal(t, []string{"Anemia", "Flu"}, bundle.Labels.Classes())
	assert.Len(t, bundle.Scores.Accuracies, len(classifier.Registry()))
	assert.Equal(t, bundle.Model.Family, bundle.Scores.BestModel)
	assert.Equal(t, bundle.Scores.Accuracies[bundle.Scores.BestModel], bundle.Scores.BestAccuracy)
	for family, acc := range bundle.Scores.Accuracies {
		assert.GreaterOrEqual(t, acc, 0.0, family)
		assert.LessOrEqual(t, acc, 1.0, family)
	}
	assert.NotEmpty(t, bundle.Version)

	stored, err := store.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, bundle.Version, stored.Version)

	flu, _ := bundle.Labels.Encode("Flu")
	probs := stored.Model.Classifier.PredictProba([]float64{1, 1, 0})
	assert.Greater(t, probs[flu], probs[1-flu])
}

func TestTrainColumnCountMatchesEngineeredColumns(t *testing.T) {
	trainer, _ := newTestTrainer(t)

	var b strings.Builder
	b.WriteString("fever,onset,prognosis\n")
	for i := 0; i < 6; i++ {
		b.WriteString("yes,sudden,Flu\n")
		b.WriteString("no,gradual,Anemia\n")
		b.WriteString("no,none,Anemia\n")
	}
	bundle, err := trainer.Train(context.Background(), mustDataset(t, b.String()))
	require.NoError(t, err)
	assert.Equal(t, []string{"fever", "onset_gradual", "onset_none", "onset_sudden"}, bundle.Columns)
}

func TestTrainSingleLabel(t *testing.T) {
	trainer, store := newTestTrainer(t)

	_, err := trainer.Train(context.Background(), mustDataset(t, "fever,prognosis\n1,Flu\n0,Flu\n"))
	assert.True(t, apperr.Is(err, apperr.KindTraining), "got %v", err)

	_, err = store.Get(context.Background())
	assert.True(t, apperr.Is(err, apperr.KindArtifactMissing))
}

func TestTrainTooFewRowsKeepsPreviousArtifact(t *testing.T) {
	trainer, store := newTestTrainer(t)
	first, err := trainer.Train(context.Background(), mustDataset(t, fluAnemiaCSV(10)))
	require.NoError(t, err)

	_, err = trainer.Train(context.Background(), mustDataset(t, fluAnemiaCSV(1)))
	assert.True(t, apperr.Is(err, apperr.KindTraining), "got %v", err)

	stored, err := store.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first.Version, stored.Version)
}

// majority always predicts class 0.
type majority struct{ n int }

func (m *majority) Fit(_ [][]float64, _ []int, nClasses int) error {
	m.n = nClasses
	return nil
}

func (m *majority) PredictProba(_ []float64) []float64 {
	p := make([]float64, m.n)
	p[0] = 1
	return p
}

func TestTrainTieGoesToFirstRegistered(t *testing.T) {
	trainer, _ := newTestTrainer(t)
	trainer.families = []classifier.Family{
		{Name: classifier.FamilyKNN, New: func() classifier.Classifier { return classifier.NewKNN() }},
		{Name: "majority_a", New: func() classifier.Classifier { return &majority{} }},
		{Name: classifier.FamilyNaiveBayes, New: func() classifier.Classifier { return classifier.NewGaussianNB() }},
	}
	trainer.opts.NoiseFraction = 0

	bundle, err := trainer.Train(context.Background(), mustDataset(t, fluAnemiaCSV(10)))
	require.NoError(t, err)
	assert.Equal(t, 1.0, bundle.Scores.Accuracies[classifier.FamilyKNN])
	assert.Equal(t, 1.0, bundle.Scores.Accuracies[classifier.FamilyNaiveBayes])
	assert.InDelta(t, 0.5, bundle.Scores.Accuracies["majority_a"], 1e-9)
	assert.Equal(t, classifier.FamilyKNN, bundle.Scores.BestModel)
}

func TestCrossValidatePropagatesFitErrors(t *testing.T) {
	failing := classifier.Family{Name: "broken", New: func() classifier.Classifier { return failingClassifier{} }}
	folds, err := StratifiedFolds([]int{0, 1, 0, 1, 0, 1}, 2, 2)
	require.NoError(t, err)

	x := [][]float64{{1}, {0}, {1}, {0}, {1}, {0}}
	_, err = CrossValidate(failing, x, []int{0, 1, 0, 1, 0, 1}, 2, folds)
	assert.ErrorContains(t, err, "broken fold 0")
}

type failingClassifier struct{}

func (failingClassifier) Fit([][]float64, []int, int) error { return fmt.Errorf("boom") }
func (failingClassifier) PredictProba([]float64) []float64 { return nil }

// Package artifact persists the output of a training run. The model, column
// order, label encoding and score report travel together as one Bundle and are
// published in a single write, so readers never see parts of two runs.
package artifact

import (
	"context"
	"time"

	"github.com/Skufu/symptomdx/internal/apperr"
	"github.com/Skufu/symptomdx/internal/classifier"
	"github.com/Skufu/symptomdx/internal/dataset"
)

// ScoreReport holds the mean cross-validated accuracy of every family and the
// family that was selected.
type ScoreReport struct {
	BestModel    string             `json:"best_model"`
	BestAccuracy float64            `json:"best_accuracy"`
	Accuracies   map[string]float64 `json:"accuracies"`
}

// Bundle is everything a training run produces.
type Bundle struct {
	Version   string                `json:"version"`
	TrainedAt time.Time             `json:"trained_at"`
	Model     classifier.Model      `json:"model"`
	Columns   []string              `json:"columns"`
	Labels    *dataset.LabelEncoder `json:"labels"`
	Scores    ScoreReport           `json:"scores"`
}

// Store publishes and reads bundles. Get fails with apperr.KindArtifactMissing
// until the first Put.
type Store interface {
	Put(ctx context.Context, b *Bundle) error
	Get(ctx context.Context) (*Bundle, error)
}

// Columns returns the persisted feature column order.
func Columns(ctx context.Context, s Store) ([]string, error) {
	b, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	if len(b.Columns) == 0 {
		return nil, apperr.NewArtifactMissing("column order")
	}
	return b.Columns, nil
}

// Scores returns the persisted score report.
func Scores(ctx context.Context, s Store) (ScoreReport, error) {
	b, err := s.Get(ctx)
	if err != nil {
		return ScoreReport{}, err
	}
	if b.Scores.BestModel == "" {
		return ScoreReport{}, apperr.NewArtifactMissing("score report")
	}
	return b.Scores, nil
}

// Ready fails with apperr.KindArtifactMissing naming the first part inference
// needs that b lacks.
func (b *Bundle) Ready() error {
	switch {
	case b.Model.Classifier == nil:
		return apperr.NewArtifactMissing("model")
	case len(b.Columns) == 0:
		return apperr.NewArtifactMissing("column order")
	case b.Labels == nil || b.Labels.Len() == 0:
		return apperr.NewArtifactMissing("label encoder")
	}
	return nil
}

func complete(b *Bundle) bool {
	return b.Ready() == nil
}

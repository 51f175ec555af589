// Package training cross-validates every registered classifier family on a
// noise-augmented copy of the dataset, refits the best one on all rows and
// publishes the result.
package training

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Skufu/symptomdx/internal/apperr"
	"github.com/Skufu/symptomdx/internal/artifact"
	"github.com/Skufu/symptomdx/internal/classifier"
	"github.com/Skufu/symptomdx/internal/dataset"
)

// Options are the fixed knobs of a training run.
type Options struct {
	NoiseFraction float64
	NoiseSeed     int64
	Folds         int
}

func DefaultOptions() Options {
	return Options{
		NoiseFraction: dataset.DefaultNoiseFraction,
		NoiseSeed:     dataset.DefaultNoiseSeed,
		Folds:         5,
	}
}

// Trainer runs training synchronously. Concurrent Train calls are serialized.
type Trainer struct {
	store    artifact.Store
	families []classifier.Family
	opts     Options
	logger   zerolog.Logger
	now      func() time.Time

	mu sync.Mutex
}

func NewTrainer(store artifact.Store, opts Options, logger zerolog.Logger) *Trainer {
	return &Trainer{
		store:    store,
		families: classifier.Registry(),
		opts:     opts,
		logger:   logger,
		now:      time.Now,
	}
}

// Train fits and publishes a new bundle. Nothing is published on error. A run
// cannot be aborted once started; ctx only bounds the final publish.
func (t *Trainer) Train(ctx context.Context, ds *dataset.Dataset) (*artifact.Bundle, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	labels := dataset.FitLabels(ds.Labels())
	if labels.Len() < 2 {
		return nil, apperr.NewTrainingError("dataset needs at least 2 distinct prognosis labels", nil)
	}

	matrix, raw := dataset.Encode(ds)
	if matrix.NumCols() == 0 {
		return nil, apperr.NewDataError("dataset has no symptom columns", nil)
	}
	y, err := labels.EncodeAll(raw)
	if err != nil {
		return nil, apperr.NewInternalError("encode labels", err)
	}

	noisy := dataset.InjectNoise(matrix, t.opts.NoiseFraction, t.opts.NoiseSeed)

	folds, err := StratifiedFolds(y, labels.Len(), t.opts.Folds)
	if err != nil {
		return nil, apperr.NewTrainingError("cross-validation not possible", err)
	}
	t.warnSmallClasses(labels, y)

	report := artifact.ScoreReport{Accuracies: make(map[string]float64, len(t.families))}
	var best classifier.Family
	bestAcc := -1.0
	for _, family := range t.families {
		start := time.Now()
		acc, err := CrossValidate(family, noisy.Rows, y, labels.Len(), folds)
		if err != nil {
			return nil, apperr.NewTrainingError("cross-validation failed", err)
		}
		report.Accuracies[family.Name] = acc
		t.logger.Info().
			Str("family", family.Name).
			Float64("accuracy", acc).
			Dur("elapsed", time.Since(start)).
			Msg("cross-validated classifier family")

		if acc > bestAcc {
			best, bestAcc = family, acc
		}
	}
	report.BestModel = best.Name
	report.BestAccuracy = bestAcc

	model := best.New()
	if err := model.Fit(noisy.Rows, y, labels.Len()); err != nil {
		return nil, apperr.NewTrainingError("refit "+best.Name, err)
	}

	bundle := &artifact.Bundle{
		Version:   uuid.NewString(),
		TrainedAt: t.now().UTC(),
		Model:     classifier.Model{Family: best.Name, Classifier: model},
		Columns:   noisy.Columns,
		Labels:    labels,
		Scores:    report,
	}
	if err := t.store.Put(ctx, bundle); err != nil {
		return nil, apperr.NewInternalError("publish artifact", err)
	}

	t.logger.Info().
		Str("version", bundle.Version).
		Str("best_model", best.Name).
		Float64("best_accuracy", bestAcc).
		Int("columns", len(bundle.Columns)).
		Int("classes", labels.Len()).
		Msg("training complete")
	return bundle, nil
}

func (t *Trainer) warnSmallClasses(labels *dataset.LabelEncoder, y []int) {
	counts := make([]int, labels.Len())
	for _, c := range y {
		counts[c]++
	}
	for c, n := range counts {
		if n < t.opts.Folds {
			t.logger.Warn().
				Str("label", labels.Decode(c)).
				Int("rows", n).
				Int("folds", t.opts.Folds).
				Msg("class has fewer rows than folds")
		}
	}
}

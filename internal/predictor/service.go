// Package predictor wires the dataset, trainer, artifact store, inference
// engine and metadata index into the operations exposed over HTTP and the CLI.
package predictor

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/Skufu/symptomdx/internal/apperr"
	"github.com/Skufu/symptomdx/internal/artifact"
	"github.com/Skufu/symptomdx/internal/dataset"
	"github.com/Skufu/symptomdx/internal/inference"
	"github.com/Skufu/symptomdx/internal/metadata"
	"github.com/Skufu/symptomdx/internal/rawrows"
	"github.com/Skufu/symptomdx/internal/training"
)

type TrainResponse struct {
	BestModel    string             `json:"best_model"`
	BestAccuracy float64            `json:"best_accuracy"`
	Accuracies   map[string]float64 `json:"accuracies"`
}

type PredictionResult struct {
	Disease     string   `json:"disease"`
	Probability float64  `json:"prob"`
	Tests       []string `json:"tests"`
	Medicines   []string `json:"medicines"`
	Emergency   bool     `json:"emergency"`
}

type PredictResponse struct {
	Predictions      []PredictionResult `json:"predictions"`
	AggTests         []string           `json:"agg_tests"`
	AggMedicines     []string           `json:"agg_medicines"`
	Emergency        bool               `json:"emergency"`
	EmergencyReasons []string           `json:"emergency_reasons"`
}

type Symptom struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type Service struct {
	datasetPath string
	store       artifact.Store
	trainer     *training.Trainer
	engine      *inference.Engine
	rows        rawrows.Store
	logger      zerolog.Logger
}

// Options configures a Service. Rows may be nil when no database is configured.
type Options struct {
	DatasetPath string
	Store       artifact.Store
	Training    training.Options
	TopK        int
	Rows        rawrows.Store
	Logger      zerolog.Logger
}

func NewService(opts Options) *Service {
	return &Service{
		datasetPath: opts.DatasetPath,
		store:       opts.Store,
		trainer:     training.NewTrainer(opts.Store, opts.Training, opts.Logger),
		engine:      inference.NewEngine(opts.Store, opts.TopK),
		rows:        opts.Rows,
		logger:      opts.Logger,
	}
}

// Train loads the dataset and replaces the published model.
func (s *Service) Train(ctx context.Context) (*TrainResponse, error) {
	ds, err := dataset.LoadCSV(s.datasetPath)
	if err != nil {
		return nil, err
	}
	bundle, err := s.trainer.Train(ctx, ds)
	if err != nil {
		return nil, err
	}
	return &TrainResponse{
		BestModel:    bundle.Scores.BestModel,
		BestAccuracy: bundle.Scores.BestAccuracy,
		Accuracies:   bundle.Scores.Accuracies,
	}, nil
}

// Predict ranks diseases for symptoms and attaches their annotations. An
// unreadable dataset only empties the annotations.
func (s *Service) Predict(ctx context.Context, symptoms []string) (*PredictResponse, error) {
	preds, err := s.engine.Predict(ctx, symptoms)
	if err != nil {
		return nil, err
	}

	meta := metadata.Load(s.datasetPath)
	if meta.Status == metadata.Unavailable {
		s.logger.Warn().Err(meta.Reason).Msg("disease annotations unavailable, serving without them")
	}

	diseases := make([]string, len(preds))
	for i, p := range preds {
		diseases[i] = p.Disease
	}
	entries, summary := meta.Aggregate(diseases)

	resp := &PredictResponse{
		Predictions:      make([]PredictionResult, len(preds)),
		AggTests:         summary.Tests,
		AggMedicines:     summary.Medicines,
		Emergency:        summary.Emergency,
		EmergencyReasons: summary.EmergencyReasons,
	}
	for i, p := range preds {
		resp.Predictions[i] = PredictionResult{
			Disease:     p.Disease,
			Probability: p.Probability,
			Tests:       entries[i].Tests,
			Medicines:   entries[i].Medicines,
			Emergency:   entries[i].Emergency,
		}
	}
	return resp, nil
}

// Symptoms lists the known symptom columns, preferring the trained column
// order, then the dataset header, then the keys of imported rows.
func (s *Service) Symptoms(ctx context.Context) ([]Symptom, error) {
	names, err := artifact.Columns(ctx, s.store)
	if err != nil && !apperr.Is(err, apperr.KindArtifactMissing) {
		s.logger.Warn().Err(err).Msg("artifact store unreadable, falling back to dataset columns")
	}

	if len(names) == 0 {
		if ds, err := dataset.LoadCSV(s.datasetPath); err == nil {
			names = ds.Columns
		}
	}

	if len(names) == 0 && s.rows != nil {
		cols, err := s.rows.Columns(ctx)
		if err != nil {
			return nil, apperr.NewInternalError("list imported columns", err)
		}
		for _, c := range cols {
			if !isReserved(c) {
				names = append(names, c)
			}
		}
	}

	out := make([]Symptom, len(names))
	for i, n := range names {
		out[i] = Symptom{ID: i + 1, Name: n}
	}
	return out, nil
}

// Scores returns the last published score report.
func (s *Service) Scores(ctx context.Context) (*artifact.ScoreReport, error) {
	report, err := artifact.Scores(ctx, s.store)
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// ImportRows replaces the imported rows with the current dataset.
func (s *Service) ImportRows(ctx context.Context) (int, error) {
	if s.rows == nil {
		return 0, apperr.NewUnavailableError("database is disabled")
	}
	ds, err := dataset.LoadCSV(s.datasetPath)
	if err != nil {
		return 0, err
	}

	records := make([]rawrows.Record, len(ds.Rows))
	for i, r := range ds.Rows {
		records[i] = rawrows.Record{Prognosis: r.Prognosis, Raw: r.Raw()}
	}
	n, err := s.rows.ReplaceAll(ctx, records)
	if err != nil {
		return 0, apperr.NewInternalError("import rows", err)
	}
	s.logger.Info().Int("rows", n).Msg("imported dataset rows")
	return n, nil
}

func isReserved(column string) bool {
	switch column {
	case dataset.LabelColumn, dataset.TestsColumn, dataset.MedicinesColumn, dataset.EmergencyColumn:
		return true
	}
	return false
}

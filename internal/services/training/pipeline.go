// Package training builds a dataset from exchange history, fits the GBDT
// model on it and stores both next to each other.
package training

import (
	"context"
	"math/rand"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/vadiminshakov/gbdtbot/internal/clients/mexc"
	"github.com/vadiminshakov/gbdtbot/internal/dataset"
	"github.com/vadiminshakov/gbdtbot/internal/domain"
	"github.com/vadiminshakov/gbdtbot/internal/features"
	"github.com/vadiminshakov/gbdtbot/internal/model/gbdt"
)

type klineSource interface {
	Klines(ctx context.Context, req mexc.KlinesRequest) ([]domain.Candle, error)
}

// Config parameters of one training run.
type Config struct {
	Pair      domain.Pair
	Interval  domain.Interval
	Limit     int
	Lags      int
	SMAPeriod int
	Lookahead int
	Format    string
	TrainPath string
	ModelPath string
	Params    gbdt.Params
}

// Result summary of a finished training run.
type Result struct {
	Examples int
	Trees    int
	MSE      float64
	Model    *gbdt.Model
}

type Pipeline struct {
	cfg     Config
	klines  klineSource
	builder features.Builder
	l       *zap.Logger
}

// NewPipeline creates new training pipeline.
func NewPipeline(l *zap.Logger, cfg Config, klines klineSource) (*Pipeline, error) {
	if cfg.Limit <= 0 {
		return nil, errors.Errorf("train limit must be positive, got %d", cfg.Limit)
	}
	if cfg.Lookahead < 1 {
		return nil, errors.Errorf("lookahead must be positive, got %d", cfg.Lookahead)
	}
	if cfg.TrainPath == "" || cfg.ModelPath == "" {
		return nil, errors.New("train and model paths are required")
	}
	if _, err := dataset.Lookup(cfg.Format); err != nil {
		return nil, err
	}
	if err := cfg.Params.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid model params")
	}

	return &Pipeline{
		cfg:     cfg,
		klines:  klines,
		builder: features.NewBuilder(cfg.Lags, cfg.SMAPeriod),
		l:       l,
	}, nil
}

// Run fetches history, writes the dataset file, reads it back through the
// configured format, trains the model and saves it. The saved model is
// reloaded and scored against the dataset to confirm the round trip.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	candles, err := p.klines.Klines(ctx, mexc.KlinesRequest{
		Symbol:   p.cfg.Pair.Symbol(),
		Interval: p.cfg.Interval,
		Limit:    p.cfg.Limit,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch training klines")
	}
	p.l.Info("fetched training history", zap.Int("candles", len(candles)))

	rng := rand.New(rand.NewSource(p.cfg.Params.Seed))
	set, err := p.builder.TrainingSet(domain.Closes(candles), p.cfg.Lookahead, rng)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build training set")
	}

	if err := dataset.WriteFile(p.cfg.TrainPath, p.cfg.Format, set); err != nil {
		return nil, err
	}
	p.l.Info("dataset written",
		zap.String("path", p.cfg.TrainPath),
		zap.String("format", p.cfg.Format),
		zap.Int("examples", len(set)))

	loaded, err := dataset.ReadFile(p.cfg.TrainPath, p.cfg.Format)
	if err != nil {
		return nil, err
	}

	trainer, err := gbdt.NewTrainer(p.cfg.Params, p.l)
	if err != nil {
		return nil, err
	}
	model, err := trainer.Train(loaded)
	if err != nil {
		return nil, errors.Wrap(err, "failed to train model")
	}

	if err := model.SaveFile(p.cfg.ModelPath); err != nil {
		return nil, err
	}

	reloaded, err := gbdt.LoadFile(p.cfg.ModelPath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to reload saved model")
	}

	for i, ex := range loaded {
		p.l.Debug("prediction vs label",
			zap.Int("example", i),
			zap.Float64("prediction", reloaded.Predict(ex.Features)),
			zap.Float64("label", ex.Label))
	}

	mse := reloaded.MeanSquaredError(loaded)
	p.l.Info("model trained",
		zap.String("path", p.cfg.ModelPath),
		zap.Int("trees", len(reloaded.Trees)),
		zap.Float64("mse", mse))

	return &Result{
		Examples: len(loaded),
		Trees:    len(reloaded.Trees),
		MSE:      mse,
		Model:    reloaded,
	}, nil
}

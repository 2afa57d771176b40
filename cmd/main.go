// Command gbdtbot trades a single MEXC spot pair on signals from a gradient
// boosted tree model built over lagged moving averages.
//
// Usage:
//
//	gbdtbot --setup                          (interactive wizard)
//	gbdtbot --symbol BTC_USDT --period 1m --train
//	gbdtbot --symbol BTC_USDT --period 1m
//	gbdtbot --symbol BTC_USDT --period 1m --paper  (paper wallet, no keys needed)
//	gbdtbot --config config.yaml
//
// Required environment variables (a .env file is loaded when present):
//
//	MEXC_API_KEY, MEXC_API_SECRET
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vadiminshakov/gbdtbot/config"
	"github.com/vadiminshakov/gbdtbot/internal"
	"github.com/vadiminshakov/gbdtbot/internal/clients/mexc"
	"github.com/vadiminshakov/gbdtbot/internal/domain"
	"github.com/vadiminshakov/gbdtbot/internal/metrics"
	"github.com/vadiminshakov/gbdtbot/internal/model/gbdt"
	"github.com/vadiminshakov/gbdtbot/internal/services/training"
	"github.com/vadiminshakov/gbdtbot/internal/setup"
	"github.com/vadiminshakov/gbdtbot/pkg/retrier"
)

const (
	exitMissingConfig = 1
	exitBatchFailure  = 2
)

func main() {
	_ = godotenv.Load()

	conf, err := config.Get()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitMissingConfig)
	}

	if conf.Setup {
		path, err := setup.RunTUI()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(exitMissingConfig)
		}
		if conf, err = config.Parse([]string{"--config", path}); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(exitMissingConfig)
		}
	}

	logger, err := newLogger(conf.Model.Verbose)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitMissingConfig)
	}
	defer logger.Sync()

	apiKey := os.Getenv("MEXC_API_KEY")
	apiSecret := os.Getenv("MEXC_API_SECRET")
	if !conf.Train && !conf.Paper && (apiKey == "" || apiSecret == "") {
		logger.Error("MEXC_API_KEY and MEXC_API_SECRET environment variables must be set")
		os.Exit(exitMissingConfig)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := internal.NewExchangeClient(conf, apiKey, apiSecret, logger)
	retry := retrier.New(
		retrier.WithRetryIf(mexc.IsTransport),
		retrier.WithOnRetry(func(attempt int, err error, wait time.Duration) {
			logger.Warn("exchange unavailable, retrying",
				zap.Int("attempt", attempt), zap.Duration("wait", wait), zap.Error(err))
		}),
	)

	if err := retry.Do(ctx, client.Ping); err != nil {
		logger.Error("exchange is not reachable", zap.Error(err))
		os.Exit(exitBatchFailure)
	}

	if conf.Train {
		if err := train(ctx, conf, client, retry, logger); err != nil {
			logger.Error("training failed", zap.Error(err), zap.String("kind", mexc.Kind(err)))
			os.Exit(exitBatchFailure)
		}
		return
	}

	if err := trade(ctx, conf, client, logger); err != nil {
		logger.Fatal("trading bot stopped", zap.Error(err))
	}
}

func newLogger(verbose int) (*zap.Logger, error) {
	if verbose > 1 {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func train(ctx context.Context, conf config.Config, client *mexc.Client, retry *retrier.Retrier, logger *zap.Logger) error {
	p, err := training.NewPipeline(logger, training.Config{
		Pair:      conf.Pair,
		Interval:  conf.Interval,
		Limit:     conf.TrainLimit,
		Lags:      conf.Lags,
		SMAPeriod: conf.SMAPeriod,
		Lookahead: conf.Lookahead,
		Format:    conf.DatasetFormat,
		TrainPath: conf.TrainPath(),
		ModelPath: conf.ModelPath(),
		Params:    conf.Model,
	}, retryingKlines{client: client, retry: retry})
	if err != nil {
		return err
	}

	_, err = p.Run(ctx)
	return err
}

func trade(ctx context.Context, conf config.Config, client *mexc.Client, logger *zap.Logger) error {
	model, err := gbdt.LoadFile(conf.ModelPath())
	if err != nil {
		return errors.Wrap(err, "failed to load model, run with --train first")
	}

	bot, err := internal.NewLiveTradingBot(conf, client, model, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := bot.Close(); err != nil {
			logger.Error("failed to close trading bot", zap.Error(err))
		}
	}()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return bot.Run(ctx, logger)
	})
	if conf.MetricsAddr != "" {
		g.Go(func() error {
			logger.Info("serving metrics", zap.String("addr", conf.MetricsAddr))
			return metrics.Serve(ctx, conf.MetricsAddr)
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info("shutdown complete")
	return nil
}

// retryingKlines retries kline fetches on network failures.
type retryingKlines struct {
	client *mexc.Client
	retry  *retrier.Retrier
}

func (k retryingKlines) Klines(ctx context.Context, req mexc.KlinesRequest) ([]domain.Candle, error) {
	return retrier.DoWithData(k.retry, ctx, func(ctx context.Context) ([]domain.Candle, error) {
		return k.client.Klines(ctx, req)
	})
}

package internal

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/vadiminshakov/gbdtbot/config"
	"github.com/vadiminshakov/gbdtbot/internal/clients/mexc"
	"github.com/vadiminshakov/gbdtbot/internal/services/strategy"
	"github.com/vadiminshakov/gbdtbot/internal/services/trader"
	"github.com/vadiminshakov/gbdtbot/internal/storage/positions"
	"github.com/vadiminshakov/gbdtbot/internal/storage/simstate"
)

type predictor interface {
	Predict(x []float64) float64
	NumFeatures() int
}

// NewExchangeClient builds the exchange client from configuration and credentials.
func NewExchangeClient(conf config.Config, apiKey, secretKey string, logger *zap.Logger) *mexc.Client {
	return mexc.NewClient(mexc.Config{
		BaseURL:            conf.BaseURL,
		APIKey:             apiKey,
		SecretKey:          secretKey,
		Timeout:            conf.HTTPTimeout,
		InsecureSkipVerify: conf.InsecureSkipVerify,
	}, logger)
}

type orderGateway interface {
	SendOrder(ctx context.Context, req mexc.OrderRequest) (*mexc.OrderResponse, error)
	CancelOrder(ctx context.Context, req mexc.CancelRequest) (*mexc.CancelResponse, error)
}

// newOrderGateway returns the exchange client itself, or a paper trader
// priced by it when paper mode is on.
func newOrderGateway(conf config.Config, client *mexc.Client, logger *zap.Logger) (orderGateway, error) {
	if !conf.Paper {
		return client, nil
	}

	store, err := simstate.NewStore(conf.PaperDir(), conf.Pair)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open paper state")
	}
	pt, err := trader.NewPaperTrader(conf.Pair, conf.PaperBalance, logger.Named("paper"), client, store)
	if err != nil {
		return nil, err
	}
	return pt, nil
}

// NewLiveTradingBot wires the signal strategy, its position store and the
// model into a trading bot.
func NewLiveTradingBot(conf config.Config, client *mexc.Client, model predictor, logger *zap.Logger) (*TradingBot, error) {
	orders, err := newOrderGateway(conf, client, logger)
	if err != nil {
		return nil, err
	}

	store, err := positions.NewWALStore(conf.PositionDir())
	if err != nil {
		return nil, errors.Wrap(err, "failed to open position store")
	}

	tsLogger := logger.With(zap.String("pair", conf.Pair.String()))
	tradingStrategy, err := strategy.NewSignalStrategy(
		tsLogger,
		strategy.SignalConfig{
			Pair:          conf.Pair,
			Interval:      conf.Interval,
			Window:        conf.LiveLimit,
			Quantity:      conf.Quantity,
			Lags:          conf.Lags,
			SMAPeriod:     conf.SMAPeriod,
			BuyThreshold:  conf.BuyThreshold,
			SellThreshold: conf.SellThreshold,
		},
		client,
		orders,
		model,
		store,
	)
	if err != nil {
		store.Close()
		return nil, errors.Wrap(err, "failed to create SignalStrategy")
	}

	return NewTradingBot(conf, tradingStrategy)
}

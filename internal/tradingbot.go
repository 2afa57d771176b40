package internal

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/vadiminshakov/gbdtbot/config"
	"github.com/vadiminshakov/gbdtbot/internal/domain"
	"github.com/vadiminshakov/gbdtbot/internal/services/strategy"
	"go.uber.org/zap"
)

type TradingStrategy interface {
	Initialize(ctx context.Context) error
	Trade(ctx context.Context) (*domain.TradeEvent, error)
	Close() error
}

// TradingBot polls the strategy on a fixed interval until the context ends.
type TradingBot struct {
	Config          config.Config
	tradingStrategy TradingStrategy
}

// NewTradingBot creates a new trading bot instance
func NewTradingBot(conf config.Config, tradingStrategy TradingStrategy) (*TradingBot, error) {
	if tradingStrategy == nil {
		return nil, errors.New("trading strategy is required")
	}
	if conf.PollPriceInterval <= 0 {
		return nil, errors.Errorf("poll interval must be positive, got %s", conf.PollPriceInterval)
	}

	return &TradingBot{
		Config:          conf,
		tradingStrategy: tradingStrategy,
	}, nil
}

// Close closes the trading bot
func (b *TradingBot) Close() error {
	return b.tradingStrategy.Close()
}

// Run executes the trading bot. The first poll happens immediately, then on
// every tick. Strategy errors are logged and never stop the loop.
func (b *TradingBot) Run(ctx context.Context, logger *zap.Logger) error {
	if err := b.tradingStrategy.Initialize(ctx); err != nil {
		return errors.Wrap(err, "failed to initialize trading strategy")
	}

	ticker := time.NewTicker(b.Config.PollPriceInterval)
	defer ticker.Stop()

	pair := zap.String("pair", b.Config.Pair.String())
	logger.Info("Starting trading loop", pair, zap.Duration("poll_interval", b.Config.PollPriceInterval))

	b.tick(ctx, logger, pair)
	for {
		select {
		case <-ctx.Done():
			logger.Info("Context done, stopping trading bot run loop.", pair)
			return ctx.Err()
		case <-ticker.C:
			b.tick(ctx, logger, pair)
		}
	}
}

func (b *TradingBot) tick(ctx context.Context, logger *zap.Logger, pair zap.Field) {
	logger.Debug("Trade service tick", pair)

	tradeEvent, err := b.tradingStrategy.Trade(ctx)
	if err != nil {
		if errors.Is(err, strategy.ErrNoData) {
			logger.Debug("No new bar, continuing", pair)
		} else if ctx.Err() == nil {
			logger.Error("Trading strategy failed", pair, zap.Error(err))
		}
		return
	}

	if tradeEvent != nil {
		logger.Info("Trade event occurred", pair, zap.Stringer("event", tradeEvent))
	}
}

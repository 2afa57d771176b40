package strategy

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/gbdtbot/internal/clients/mexc"
	"github.com/vadiminshakov/gbdtbot/internal/domain"
	"github.com/vadiminshakov/gbdtbot/internal/features"
	"github.com/vadiminshakov/gbdtbot/internal/metrics"
	"github.com/vadiminshakov/gbdtbot/internal/services/market/indicators"
	"go.uber.org/zap"
)

var (
	ErrNoData = errors.New("no data found")
)

type klineSource interface {
	Klines(ctx context.Context, req mexc.KlinesRequest) ([]domain.Candle, error)
}

type orderGateway interface {
	SendOrder(ctx context.Context, req mexc.OrderRequest) (*mexc.OrderResponse, error)
	CancelOrder(ctx context.Context, req mexc.CancelRequest) (*mexc.CancelResponse, error)
}

type predictor interface {
	Predict(x []float64) float64
	NumFeatures() int
}

type positionStore interface {
	Save(p domain.Position) error
	Load(pair string) (domain.Position, bool, error)
	Close() error
}

// SignalConfig parameters of the signal strategy.
type SignalConfig struct {
	Pair          domain.Pair
	Interval      domain.Interval
	Window        int
	Quantity      decimal.Decimal
	Lags          int
	SMAPeriod     int
	BuyThreshold  float64
	SellThreshold float64
}

// SignalStrategy scores every new bar with the model and keeps at most one
// open order, replacing it on each buy or sell signal.
type SignalStrategy struct {
	cfg      SignalConfig
	builder  features.Builder
	klines   klineSource
	orders   orderGateway
	model    predictor
	store    positionStore
	position domain.Position
	newID    func() string
	l        *zap.Logger
}

// NewSignalStrategy creates new SignalStrategy instance.
func NewSignalStrategy(l *zap.Logger, cfg SignalConfig, klines klineSource, orders orderGateway,
	model predictor, store positionStore) (*SignalStrategy, error) {
	builder := features.NewBuilder(cfg.Lags, cfg.SMAPeriod)
	if cfg.Lags < 1 || cfg.SMAPeriod < 1 {
		return nil, errors.Errorf("lags and sma period must be positive, got %d and %d", cfg.Lags, cfg.SMAPeriod)
	}
	if cfg.Window < builder.MinHistory() {
		return nil, errors.Errorf("window %d is shorter than the %d bars needed for features", cfg.Window, builder.MinHistory())
	}
	if !cfg.Quantity.IsPositive() {
		return nil, errors.New("order quantity must be positive")
	}
	if cfg.BuyThreshold < cfg.SellThreshold {
		return nil, errors.Errorf("buy threshold %g is below sell threshold %g", cfg.BuyThreshold, cfg.SellThreshold)
	}
	if model == nil {
		return nil, errors.New("model is required")
	}
	if model.NumFeatures() != builder.Width() {
		return nil, errors.Errorf("model expects %d features but %d lags give %d, retrain with matching lags",
			model.NumFeatures(), cfg.Lags, builder.Width())
	}

	return &SignalStrategy{
		cfg:      cfg,
		builder:  builder,
		klines:   klines,
		orders:   orders,
		model:    model,
		store:    store,
		position: domain.Position{Pair: cfg.Pair.String()},
		newID:    uuid.NewString,
		l:        l,
	}, nil
}

// Initialize restores the last saved position.
func (s *SignalStrategy) Initialize(_ context.Context) error {
	p, ok, err := s.store.Load(s.cfg.Pair.String())
	if err != nil {
		return errors.Wrap(err, "failed to restore position")
	}
	if ok {
		s.position = p
		s.l.Info("restored position",
			zap.String("open_order_id", p.OpenOrderID),
			zap.Int64("last_bar", p.LastBar))
	}
	return nil
}

// Position returns the current position snapshot.
func (s *SignalStrategy) Position() domain.Position {
	return s.position
}

// Close closes the position store.
func (s *SignalStrategy) Close() error {
	return s.store.Close()
}

// Trade runs one poll: fetch the window, and if a new bar appeared score it
// and act on the signal. ErrNoData means the latest bar was already handled.
func (s *SignalStrategy) Trade(ctx context.Context) (*domain.TradeEvent, error) {
	symbol := s.cfg.Pair.Symbol()
	metrics.PollsTotal.WithLabelValues(symbol).Inc()

	candles, err := s.klines.Klines(ctx, mexc.KlinesRequest{
		Symbol:   symbol,
		Interval: s.cfg.Interval,
		Limit:    s.cfg.Window,
	})
	if err != nil {
		metrics.APIErrorsTotal.WithLabelValues(mexc.Kind(err)).Inc()
		return nil, errors.Wrap(err, "failed to fetch klines")
	}

	latest, ok := domain.Latest(candles)
	if !ok || !s.position.IsNewBar(latest.OpenTime) {
		return nil, ErrNoData
	}

	s.position.LastBar = latest.OpenTime
	s.persist()
	metrics.BarsTotal.WithLabelValues(symbol).Inc()

	vec, err := s.builder.Latest(domain.Closes(candles))
	if err != nil {
		return nil, errors.Wrap(err, "failed to build features")
	}

	score := s.model.Predict(vec)
	metrics.LastScore.WithLabelValues(symbol).Set(score)
	action := domain.DecideAction(score, s.cfg.BuyThreshold, s.cfg.SellThreshold)

	fields := []zap.Field{
		zap.Int64("bar", latest.OpenTime),
		zap.Float64("close", latest.Close),
		zap.Float64("score", score),
		zap.String("action", action.String()),
	}
	if snap, err := indicators.Latest(candles); err == nil {
		fields = append(fields, snap.Fields()...)
	}
	s.l.Info("scored new bar", fields...)

	event := &domain.TradeEvent{
		Action:      action,
		Pair:        s.cfg.Pair,
		Score:       score,
		BarOpenTime: latest.OpenTime,
	}

	side, ok := action.Side()
	if !ok {
		return event, nil
	}

	if s.position.HasOpenOrder() {
		event.CanceledOrderID = s.cancelOpenOrder(ctx)
	}

	resp, err := s.orders.SendOrder(ctx, mexc.OrderRequest{
		Symbol:           symbol,
		Side:             side,
		Type:             domain.OrderTypeMarket,
		Quantity:         s.cfg.Quantity,
		NewClientOrderID: s.newID(),
	})
	if err != nil {
		metrics.OrdersTotal.WithLabelValues(symbol, string(side), "failed").Inc()
		metrics.APIErrorsTotal.WithLabelValues(mexc.Kind(err)).Inc()
		return nil, errors.Wrapf(err, "failed to send %s order", side)
	}

	metrics.OrdersTotal.WithLabelValues(symbol, string(side), "ok").Inc()
	s.position.OpenOrderID = resp.OrderID.String()
	s.persist()

	event.OrderID = s.position.OpenOrderID
	event.Amount = s.cfg.Quantity
	return event, nil
}

// cancelOpenOrder cancels the tracked order. A failed cancel is logged and
// the new order is still sent.
func (s *SignalStrategy) cancelOpenOrder(ctx context.Context) string {
	id := s.position.OpenOrderID
	resp, err := s.orders.CancelOrder(ctx, mexc.CancelRequest{
		Symbol:  s.cfg.Pair.Symbol(),
		OrderID: id,
	})
	if err != nil {
		metrics.APIErrorsTotal.WithLabelValues(mexc.Kind(err)).Inc()
		s.l.Warn("failed to cancel previous order", zap.String("order_id", id), zap.Error(err))
		return ""
	}

	s.l.Info("canceled previous order", zap.String("order_id", id), zap.String("status", resp.Status))
	return id
}

func (s *SignalStrategy) persist() {
	if err := s.store.Save(s.position); err != nil {
		s.l.Error("failed to persist position", zap.Error(err))
	}
}

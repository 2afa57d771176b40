package trader

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vadiminshakov/gbdtbot/internal/clients/mexc"
	"github.com/vadiminshakov/gbdtbot/internal/domain"
	"github.com/vadiminshakov/gbdtbot/internal/storage/simstate"
)

var (
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrUnknownOrder        = errors.New("unknown order")
)

// Pricer returns the last traded price of a symbol.
type Pricer interface {
	Price(ctx context.Context, symbol string) (*mexc.PriceTicker, error)
}

type stateStore interface {
	Load() (*simstate.State, error)
	Save(state simstate.State) error
}

// PaperTrader fills market orders at the last exchange price against a
// local wallet. It stands in for the exchange order endpoints.
type PaperTrader struct {
	mu     sync.Mutex
	pair   domain.Pair
	wallet map[string]decimal.Decimal
	orders map[string]simstate.StoredOrder
	seq    int64
	pricer Pricer
	store  stateStore
	now    func() time.Time
	logger *zap.Logger
}

// NewPaperTrader creates a paper trader holding startQuote of the quote
// currency, or the persisted wallet if one exists.
func NewPaperTrader(pair domain.Pair, startQuote decimal.Decimal, logger *zap.Logger, pricer Pricer, store stateStore) (*PaperTrader, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if pricer == nil {
		return nil, errors.New("pricer is required for PaperTrader")
	}
	if store == nil {
		return nil, errors.New("state store is required for PaperTrader")
	}

	t := &PaperTrader{
		pair:   pair,
		wallet: map[string]decimal.Decimal{pair.From: decimal.Zero, pair.To: startQuote},
		orders: make(map[string]simstate.StoredOrder),
		pricer: pricer,
		store:  store,
		now:    time.Now,
		logger: logger,
	}
	if err := t.restoreState(); err != nil {
		return nil, err
	}

	logger.Info("paper trader init",
		zap.String("pair", pair.String()),
		zap.String("base", t.wallet[pair.From].String()),
		zap.String("quote", t.wallet[pair.To].String()))
	return t, nil
}

// SendOrder fills a market order immediately at the current price.
func (t *PaperTrader) SendOrder(ctx context.Context, req mexc.OrderRequest) (*mexc.OrderResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.Type != domain.OrderTypeMarket {
		return nil, errors.Wrapf(mexc.ErrInvalidOrder, "paper trading supports only market orders, got %s", req.Type)
	}
	if req.Symbol != t.pair.Symbol() {
		return nil, errors.Wrapf(mexc.ErrInvalidOrder, "symbol %s is not traded here", req.Symbol)
	}

	ticker, err := t.pricer.Price(ctx, req.Symbol)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get price for paper order")
	}
	price := ticker.Price
	if !price.IsPositive() {
		return nil, errors.Errorf("invalid price %s for %s", price, req.Symbol)
	}

	qty := req.Quantity
	if qty.IsZero() {
		qty = req.QuoteOrderQty.Div(price)
	}
	cost := qty.Mul(price)

	t.mu.Lock()
	defer t.mu.Unlock()

	base, quote := t.pair.From, t.pair.To
	switch req.Side {
	case domain.SideBuy:
		if t.wallet[quote].LessThan(cost) {
			return nil, errors.Wrapf(ErrInsufficientBalance, "need %s %s, have %s", cost, quote, t.wallet[quote])
		}
		t.wallet[quote] = t.wallet[quote].Sub(cost)
		t.wallet[base] = t.wallet[base].Add(qty)
	case domain.SideSell:
		if t.wallet[base].LessThan(qty) {
			return nil, errors.Wrapf(ErrInsufficientBalance, "need %s %s, have %s", qty, base, t.wallet[base])
		}
		t.wallet[base] = t.wallet[base].Sub(qty)
		t.wallet[quote] = t.wallet[quote].Add(cost)
	}

	t.seq++
	id := fmt.Sprintf("paper-%d", t.seq)
	ts := t.now().UnixMilli()
	t.orders[id] = simstate.StoredOrder{Side: req.Side, Quantity: qty.String(), Price: price.String(), Time: ts}
	t.persist()

	t.logger.Info("paper order filled",
		zap.String("id", id),
		zap.String("side", string(req.Side)),
		zap.String("qty", qty.String()),
		zap.String("price", price.String()),
		zap.String(base, t.wallet[base].String()),
		zap.String(quote, t.wallet[quote].String()))

	return &mexc.OrderResponse{
		Symbol:       req.Symbol,
		OrderID:      mexc.FlexString(id),
		Price:        price,
		OrigQty:      qty,
		Type:         string(req.Type),
		Side:         string(req.Side),
		TransactTime: ts,
	}, nil
}

// CancelOrder reports the order as already filled, since paper market orders
// never rest on the book.
func (t *PaperTrader) CancelOrder(_ context.Context, req mexc.CancelRequest) (*mexc.CancelResponse, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	o, ok := t.orders[req.OrderID]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownOrder, "order %q", req.OrderID)
	}

	qty, _ := decimal.NewFromString(o.Quantity)
	price, _ := decimal.NewFromString(o.Price)
	return &mexc.CancelResponse{
		Symbol:              req.Symbol,
		OrderID:             mexc.FlexString(req.OrderID),
		Price:               price,
		OrigQty:             qty,
		ExecutedQty:         qty,
		CummulativeQuoteQty: qty.Mul(price),
		Status:              "FILLED",
		Type:                string(domain.OrderTypeMarket),
		Side:                string(o.Side),
	}, nil
}

// Balance returns the paper balance of currency.
func (t *PaperTrader) Balance(currency string) decimal.Decimal {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.wallet[currency]
}

func (t *PaperTrader) persist() {
	state := simstate.State{
		Pair:   t.pair.String(),
		Wallet: make(map[string]string, len(t.wallet)),
		Orders: t.orders,
		Seq:    t.seq,
	}
	for k, v := range t.wallet {
		state.Wallet[k] = v.String()
	}

	if err := t.store.Save(state); err != nil {
		t.logger.Error("failed to persist paper state", zap.Error(err))
	}
}

func (t *PaperTrader) restoreState() error {
	state, err := t.store.Load()
	if err != nil {
		return errors.Wrap(err, "failed to restore paper state")
	}
	if state == nil {
		return nil
	}
	if state.Pair != t.pair.String() {
		return errors.Errorf("paper state belongs to %s, not %s", state.Pair, t.pair)
	}

	for k, v := range state.Wallet {
		amount, err := decimal.NewFromString(v)
		if err != nil {
			return errors.Wrapf(err, "decode %s balance", k)
		}
		t.wallet[k] = amount
	}
	if state.Orders != nil {
		t.orders = state.Orders
	}
	t.seq = state.Seq
	return nil
}

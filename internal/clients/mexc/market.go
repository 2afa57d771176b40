package mexc

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/vadiminshakov/gbdtbot/internal/domain"
)

// Ping checks connectivity. The exchange answers with an empty object.
func (c *Client) Ping(ctx context.Context) error {
	raw, err := c.get(ctx, "/ping", nil)
	if err != nil {
		return errors.Wrap(err, "ping")
	}
	if !isEmptyObject(raw) {
		return &MalformedResponseError{Endpoint: "/ping", Body: string(raw), Err: fmt.Errorf("expected empty object")}
	}
	return nil
}

// ServerTime returns the exchange clock in unix milliseconds.
func (c *Client) ServerTime(ctx context.Context) (int64, error) {
	raw, err := c.get(ctx, "/time", nil)
	if err != nil {
		return 0, errors.Wrap(err, "server time")
	}

	var out ServerTime
	if err := decode("/time", raw, &out); err != nil {
		return 0, err
	}
	return out.ServerTime, nil
}

// DefaultSymbols lists symbols tradable through the API.
func (c *Client) DefaultSymbols(ctx context.Context) ([]string, error) {
	raw, err := c.get(ctx, "/defaultSymbols", nil)
	if err != nil {
		return nil, errors.Wrap(err, "default symbols")
	}

	var out defaultSymbolsResponse
	if err := decode("/defaultSymbols", raw, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// ExchangeInfo returns trading rules, for one symbol or all when symbol is empty.
func (c *Client) ExchangeInfo(ctx context.Context, symbol string) (*ExchangeInfo, error) {
	raw, err := c.get(ctx, "/exchangeInfo", c.newQuery().AddString("symbol", symbol))
	if err != nil {
		return nil, errors.Wrap(err, "exchange info")
	}

	var out ExchangeInfo
	if err := decode("/exchangeInfo", raw, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Depth returns the order book.
func (c *Client) Depth(ctx context.Context, symbol string, limit int) (*Depth, error) {
	q := c.newQuery().AddString("symbol", symbol).AddInt("limit", limit)
	raw, err := c.get(ctx, "/depth", q)
	if err != nil {
		return nil, errors.Wrap(err, "depth")
	}

	var out Depth
	if err := decode("/depth", raw, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Trades returns recent trades.
func (c *Client) Trades(ctx context.Context, symbol string, limit int) ([]Trade, error) {
	q := c.newQuery().AddString("symbol", symbol).AddInt("limit", limit)
	raw, err := c.get(ctx, "/trades", q)
	if err != nil {
		return nil, errors.Wrap(err, "trades")
	}

	var out []Trade
	if err := decode("/trades", raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AggTrades returns compressed trades. Zero times and limit are omitted.
func (c *Client) AggTrades(ctx context.Context, symbol string, startTime, endTime int64, limit int) ([]AggTrade, error) {
	q := c.newQuery().
		AddString("symbol", symbol).
		AddInt64("startTime", startTime).
		AddInt64("endTime", endTime).
		AddInt("limit", limit)
	raw, err := c.get(ctx, "/aggTrades", q)
	if err != nil {
		return nil, errors.Wrap(err, "agg trades")
	}

	var out []AggTrade
	if err := decode("/aggTrades", raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Klines returns candles oldest first.
func (c *Client) Klines(ctx context.Context, req KlinesRequest) ([]domain.Candle, error) {
	if req.Symbol == "" {
		return nil, errors.New("klines: symbol is required")
	}
	if _, err := domain.ParseInterval(string(req.Interval)); err != nil {
		return nil, errors.Wrap(err, "klines")
	}

	q := c.newQuery().
		AddString("symbol", req.Symbol).
		AddString("interval", string(req.Interval)).
		AddInt64("startTime", req.StartTime).
		AddInt64("endTime", req.EndTime).
		AddInt("limit", req.Limit)
	raw, err := c.get(ctx, "/klines", q)
	if err != nil {
		return nil, errors.Wrap(err, "klines")
	}

	candles, err := parseKlines(raw)
	if err != nil {
		return nil, &MalformedResponseError{Endpoint: "/klines", Body: string(raw), Err: err}
	}
	return candles, nil
}

// AvgPrice returns the current average price.
func (c *Client) AvgPrice(ctx context.Context, symbol string) (*AvgPrice, error) {
	raw, err := c.get(ctx, "/avgPrice", c.newQuery().AddString("symbol", symbol))
	if err != nil {
		return nil, errors.Wrap(err, "avg price")
	}

	var out AvgPrice
	if err := decode("/avgPrice", raw, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Ticker24h returns rolling 24h statistics for one symbol.
func (c *Client) Ticker24h(ctx context.Context, symbol string) (*Ticker24h, error) {
	raw, err := c.get(ctx, "/ticker/24hr", c.newQuery().AddString("symbol", symbol))
	if err != nil {
		return nil, errors.Wrap(err, "ticker 24hr")
	}

	var out Ticker24h
	if err := decode("/ticker/24hr", raw, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Price returns the latest price.
func (c *Client) Price(ctx context.Context, symbol string) (*PriceTicker, error) {
	raw, err := c.get(ctx, "/ticker/price", c.newQuery().AddString("symbol", symbol))
	if err != nil {
		return nil, errors.Wrap(err, "ticker price")
	}

	var out PriceTicker
	if err := decode("/ticker/price", raw, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// BookTicker returns the best bid and ask.
func (c *Client) BookTicker(ctx context.Context, symbol string) (*BookTicker, error) {
	raw, err := c.get(ctx, "/ticker/bookTicker", c.newQuery().AddString("symbol", symbol))
	if err != nil {
		return nil, errors.Wrap(err, "book ticker")
	}

	var out BookTicker
	if err := decode("/ticker/bookTicker", raw, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

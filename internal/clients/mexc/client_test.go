package mexc

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vadiminshakov/gbdtbot/internal/domain"
	"go.uber.org/zap"
)

type recorded struct {
	method string
	path   string
	query  string
	body   string
	header http.Header
}

func newTestClient(t *testing.T, key, secret string, handler func(r recorded) (int, string)) (*Client, *[]recorded) {
	t.Helper()

	var calls []recorded
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		rec := recorded{
			method: r.Method,
			path:   r.URL.Path,
			query:  r.URL.RawQuery,
			body:   string(body),
			header: r.Header.Clone(),
		}
		calls = append(calls, rec)
		status, resp := handler(rec)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(resp))
	}))
	t.Cleanup(srv.Close)

	c := NewClient(Config{
		BaseURL:   srv.URL,
		APIKey:    key,
		SecretKey: secret,
		Timeout:   time.Second,
	}, zap.NewNop())
	c.now = func() time.Time { return time.UnixMilli(1700000000000) }

	return c, &calls
}

func TestClient_Ping(t *testing.T) {
	c, calls := newTestClient(t, "", "", func(r recorded) (int, string) {
		return http.StatusOK, "{}"
	})

	require.NoError(t, c.Ping(context.Background()))
	require.Len(t, *calls, 1)
	assert.Equal(t, "/api/v3/ping", (*calls)[0].path)
}

func TestClient_PingUnexpectedBody(t *testing.T) {
	c, _ := newTestClient(t, "", "", func(r recorded) (int, string) {
		return http.StatusOK, `{"status":"maintenance"}`
	})

	err := c.Ping(context.Background())
	require.Error(t, err)
	assert.True(t, IsMalformed(err))
}

func TestClient_ServerTime(t *testing.T) {
	c, _ := newTestClient(t, "", "", func(r recorded) (int, string) {
		return http.StatusOK, `{"serverTime":1700000000123}`
	})

	ts, err := c.ServerTime(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1700000000123), ts)
}

func TestClient_DefaultSymbols(t *testing.T) {
	c, _ := newTestClient(t, "", "", func(r recorded) (int, string) {
		return http.StatusOK, `{"code":0,"data":["BTCUSDT","ETHUSDT"],"msg":null}`
	})

	symbols, err := c.DefaultSymbols(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"BTCUSDT", "ETHUSDT"}, symbols)
}

func TestClient_Klines(t *testing.T) {
	c, calls := newTestClient(t, "", "", func(r recorded) (int, string) {
		return http.StatusOK, `[
			[1700000000000,"36000.1","36100","35900.5","36050.25","12.5",1700000059999,"450000.75"],
			[1700000060000,"36050.25","36080","36010","36070","3",1700000119999,"108210"]
		]`
	})

	candles, err := c.Klines(context.Background(), KlinesRequest{Symbol: "BTCUSDT", Interval: domain.Interval1m, Limit: 2})
	require.NoError(t, err)
	require.Len(t, candles, 2)

	assert.Equal(t, domain.Candle{
		OpenTime:    1700000000000,
		Open:        36000.1,
		High:        36100,
		Low:         35900.5,
		Close:       36050.25,
		Volume:      12.5,
		CloseTime:   1700000059999,
		QuoteVolume: 450000.75,
	}, candles[0])
	assert.Equal(t, 36070.0, candles[1].Close)

	assert.Equal(t, "/api/v3/klines", (*calls)[0].path)
	assert.Equal(t, "symbol=BTCUSDT&interval=1m&limit=2", (*calls)[0].query)
}

func TestClient_KlinesMalformed(t *testing.T) {
	c, _ := newTestClient(t, "", "", func(r recorded) (int, string) {
		return http.StatusOK, `[[1700000000000,"abc","1","1","1","1",1700000059999,"1"]]`
	})

	_, err := c.Klines(context.Background(), KlinesRequest{Symbol: "BTCUSDT", Interval: domain.Interval1m})
	require.Error(t, err)
	assert.True(t, IsMalformed(err))
}

func TestClient_KlinesRejectsUnknownInterval(t *testing.T) {
	c, calls := newTestClient(t, "", "", func(r recorded) (int, string) {
		return http.StatusOK, `[]`
	})

	_, err := c.Klines(context.Background(), KlinesRequest{Symbol: "BTCUSDT", Interval: "7m"})
	require.Error(t, err)
	assert.Empty(t, *calls)
}

func TestClient_KlinesExchangeError(t *testing.T) {
	c, _ := newTestClient(t, "", "", func(r recorded) (int, string) {
		return http.StatusBadRequest, `{"code":-1121,"msg":"Invalid symbol."}`
	})

	_, err := c.Klines(context.Background(), KlinesRequest{Symbol: "NOPE", Interval: domain.Interval1m})
	require.Error(t, err)
	assert.Equal(t, -1121, ErrorCode(err))
}

func TestClient_MarketEndpoints(t *testing.T) {
	responses := map[string]string{
		"/api/v3/depth":             `{"lastUpdateId":42,"bids":[["36000.5","1.2"]],"asks":[["36001","0.5"],["36002","3"]]}`,
		"/api/v3/trades":            `[{"id":null,"price":"36000","qty":"0.1","quoteQty":"3600","time":1700000000000,"isBuyerMaker":true,"isBestMatch":true,"tradeType":"ASK"}]`,
		"/api/v3/aggTrades":         `[{"a":null,"f":null,"l":null,"p":"36000","q":"0.2","T":1700000000000,"m":false,"M":true}]`,
		"/api/v3/avgPrice":          `{"mins":5,"price":"36010.5"}`,
		"/api/v3/ticker/24hr":       `{"symbol":"BTCUSDT","priceChange":"10","priceChangePercent":"0.0003","prevClosePrice":"35990","lastPrice":"36000","bidPrice":"35999","bidQty":"1","askPrice":"36001","askQty":"2","openPrice":"35990","highPrice":"36500","lowPrice":"35500","volume":"100","quoteVolume":"3600000","openTime":1,"closeTime":2,"count":null}`,
		"/api/v3/ticker/price":      `{"symbol":"BTCUSDT","price":"36000.01"}`,
		"/api/v3/ticker/bookTicker": `{"symbol":"BTCUSDT","bidPrice":"35999","bidQty":"1","askPrice":"36001","askQty":"2"}`,
		"/api/v3/exchangeInfo":      `{"timezone":"CST","serverTime":1,"symbols":[{"symbol":"BTCUSDT","status":"1","baseAsset":"BTC","quoteAsset":"USDT","baseSizePrecision":"0.000001","orderTypes":["LIMIT","MARKET"],"isSpotTradingAllowed":true,"permissions":["SPOT"]}]}`,
	}
	c, calls := newTestClient(t, "", "", func(r recorded) (int, string) {
		return http.StatusOK, responses[r.path]
	})
	ctx := context.Background()

	depth, err := c.Depth(ctx, "BTCUSDT", 5)
	require.NoError(t, err)
	assert.Equal(t, int64(42), depth.LastUpdateID)
	require.Len(t, depth.Asks, 2)
	assert.True(t, decimal.RequireFromString("36000.5").Equal(depth.Bids[0].Price))
	assert.Equal(t, "symbol=BTCUSDT&limit=5", (*calls)[0].query)

	trades, err := c.Trades(ctx, "BTCUSDT", 0)
	require.NoError(t, err)
	require.Len(t, trades, 1)
	assert.Equal(t, "ASK", trades[0].TradeType)
	assert.Equal(t, "symbol=BTCUSDT", (*calls)[1].query)

	agg, err := c.AggTrades(ctx, "BTCUSDT", 1700000000000, 0, 10)
	require.NoError(t, err)
	require.Len(t, agg, 1)
	assert.True(t, agg[0].IsBestMatch)
	assert.Equal(t, "symbol=BTCUSDT&startTime=1700000000000&limit=10", (*calls)[2].query)

	avg, err := c.AvgPrice(ctx, "BTCUSDT")
	require.NoError(t, err)
	assert.Equal(t, 5, avg.Mins)

	t24, err := c.Ticker24h(ctx, "BTCUSDT")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(36500).Equal(t24.HighPrice))

	price, err := c.Price(ctx, "BTCUSDT")
	require.NoError(t, err)
	assert.Equal(t, "36000.01", price.Price.String())

	book, err := c.BookTicker(ctx, "BTCUSDT")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(36001).Equal(book.AskPrice))

	info, err := c.ExchangeInfo(ctx, "BTCUSDT")
	require.NoError(t, err)
	require.Len(t, info.Symbols, 1)
	assert.Equal(t, "BTC", info.Symbols[0].BaseAsset)
}

func TestClient_SendOrderSigned(t *testing.T) {
	c, calls := newTestClient(t, "my-key", "my-secret", func(r recorded) (int, string) {
		return http.StatusOK, `{"symbol":"BTCUSDT","orderId":"C02__4433","orderListId":-1,"price":"0","origQty":"0.001","type":"MARKET","side":"BUY","transactTime":1700000000001}`
	})

	resp, err := c.SendOrder(context.Background(), OrderRequest{
		Symbol:           "BTCUSDT",
		Side:             domain.SideBuy,
		Type:             domain.OrderTypeMarket,
		Quantity:         decimal.RequireFromString("0.001"),
		NewClientOrderID: "cid-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "C02__4433", resp.OrderID.String())

	require.Len(t, *calls, 1)
	call := (*calls)[0]
	assert.Equal(t, http.MethodPost, call.method)
	assert.Equal(t, "/api/v3/order", call.path)
	assert.Equal(t, "my-key", call.header.Get(APIKeyHeader))
	assert.Equal(t, "application/json", call.header.Get("Content-Type"))

	idx := strings.LastIndex(call.body, "&signature=")
	require.Greater(t, idx, 0)
	payload := call.body[:idx]
	assert.Equal(t, "symbol=BTCUSDT&side=BUY&type=MARKET&quantity=0.001&newClientOrderId=cid-1&timestamp=1700000000000", payload)
	assert.Equal(t, Sign("my-secret", payload), call.body[idx+len("&signature="):])
}

func TestClient_SendOrderNumericID(t *testing.T) {
	c, _ := newTestClient(t, "k", "s", func(r recorded) (int, string) {
		return http.StatusOK, `{"symbol":"BTCUSDT","orderId":123456789,"price":"0","origQty":"1","type":"MARKET","side":"SELL","transactTime":1}`
	})

	resp, err := c.SendOrder(context.Background(), OrderRequest{
		Symbol: "BTCUSDT", Side: domain.SideSell, Type: domain.OrderTypeMarket, Quantity: decimal.NewFromInt(1),
	})
	require.NoError(t, err)
	assert.Equal(t, "123456789", resp.OrderID.String())
}

func TestClient_SendOrderValidation(t *testing.T) {
	c, calls := newTestClient(t, "k", "s", func(r recorded) (int, string) {
		return http.StatusOK, `{}`
	})

	tests := []struct {
		name string
		req  OrderRequest
	}{
		{name: "bad side", req: OrderRequest{Symbol: "BTCUSDT", Side: "HOLD", Type: domain.OrderTypeMarket, Quantity: decimal.NewFromInt(1)}},
		{name: "bad type", req: OrderRequest{Symbol: "BTCUSDT", Side: domain.SideBuy, Type: "STOP", Quantity: decimal.NewFromInt(1)}},
		{name: "no symbol", req: OrderRequest{Side: domain.SideBuy, Type: domain.OrderTypeMarket, Quantity: decimal.NewFromInt(1)}},
		{name: "no quantity", req: OrderRequest{Symbol: "BTCUSDT", Side: domain.SideBuy, Type: domain.OrderTypeMarket}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.SendOrder(context.Background(), tt.req)
			require.ErrorIs(t, err, ErrInvalidOrder)
		})
	}
	assert.Empty(t, *calls)
}

func TestClient_SignedRequiresCredentials(t *testing.T) {
	c, calls := newTestClient(t, "", "", func(r recorded) (int, string) {
		return http.StatusOK, `{}`
	})

	err := c.TestOrder(context.Background(), OrderRequest{
		Symbol: "BTCUSDT", Side: domain.SideBuy, Type: domain.OrderTypeMarket, Quantity: decimal.NewFromInt(1),
	})
	require.ErrorIs(t, err, ErrMissingCredentials)
	assert.Empty(t, *calls)
}

func TestClient_TestOrder(t *testing.T) {
	c, calls := newTestClient(t, "k", "s", func(r recorded) (int, string) {
		return http.StatusOK, `{}`
	})

	err := c.TestOrder(context.Background(), OrderRequest{
		Symbol: "BTCUSDT", Side: domain.SideBuy, Type: domain.OrderTypeLimit,
		Quantity: decimal.NewFromInt(1), Price: decimal.NewFromInt(30000),
	})
	require.NoError(t, err)
	assert.Equal(t, "/api/v3/order/test", (*calls)[0].path)
}

func TestClient_CancelOrder(t *testing.T) {
	c, calls := newTestClient(t, "k", "s", func(r recorded) (int, string) {
		return http.StatusOK, `{"symbol":"BTCUSDT","origClientOrderId":"cid-1","orderId":"C02__4433","clientOrderId":"cid-2","price":"0","origQty":"1","executedQty":"0","cummulativeQuoteQty":"0","status":"CANCELED","timeInForce":"","type":"MARKET","side":"BUY"}`
	})

	resp, err := c.CancelOrder(context.Background(), CancelRequest{Symbol: "BTCUSDT", OrderID: "C02__4433"})
	require.NoError(t, err)
	assert.Equal(t, "CANCELED", resp.Status)

	call := (*calls)[0]
	assert.Equal(t, http.MethodDelete, call.method)
	assert.Empty(t, call.body)

	values, err := url.ParseQuery(call.query)
	require.NoError(t, err)
	assert.Equal(t, "C02__4433", values.Get("orderId"))
	assert.Equal(t, "1700000000000", values.Get("timestamp"))

	idx := strings.LastIndex(call.query, "&signature=")
	require.Greater(t, idx, 0)
	assert.Equal(t, Sign("s", call.query[:idx]), call.query[idx+len("&signature="):])
}

func TestClient_CancelOrderRequiresID(t *testing.T) {
	c, calls := newTestClient(t, "k", "s", func(r recorded) (int, string) {
		return http.StatusOK, `{}`
	})

	_, err := c.CancelOrder(context.Background(), CancelRequest{Symbol: "BTCUSDT"})
	require.ErrorIs(t, err, ErrInvalidOrder)
	assert.Empty(t, *calls)
}

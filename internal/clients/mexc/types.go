package mexc

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// FlexString accepts either a JSON string or a JSON number. The exchange
// sends some ids in both forms depending on the endpoint.
type FlexString string

func (f *FlexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("flex string: %w", err)
	}
	*f = FlexString(n.String())
	return nil
}

func (f FlexString) String() string { return string(f) }

type ServerTime struct {
	ServerTime int64 `json:"serverTime"`
}

type defaultSymbolsResponse struct {
	Code int      `json:"code"`
	Data []string `json:"data"`
	Msg  string   `json:"msg"`
}

type SymbolInfo struct {
	Symbol                     string          `json:"symbol"`
	Status                     string          `json:"status"`
	BaseAsset                  string          `json:"baseAsset"`
	BaseAssetPrecision         int             `json:"baseAssetPrecision"`
	QuoteAsset                 string          `json:"quoteAsset"`
	QuotePrecision             int             `json:"quotePrecision"`
	QuoteAssetPrecision        int             `json:"quoteAssetPrecision"`
	BaseCommissionPrecision    int             `json:"baseCommissionPrecision"`
	QuoteCommissionPrecision   int             `json:"quoteCommissionPrecision"`
	OrderTypes                 []string        `json:"orderTypes"`
	IsSpotTradingAllowed       bool            `json:"isSpotTradingAllowed"`
	IsMarginTradingAllowed     bool            `json:"isMarginTradingAllowed"`
	QuoteAmountPrecision       decimal.Decimal `json:"quoteAmountPrecision"`
	BaseSizePrecision          decimal.Decimal `json:"baseSizePrecision"`
	Permissions                []string        `json:"permissions"`
	MaxQuoteAmount             decimal.Decimal `json:"maxQuoteAmount"`
	MakerCommission            decimal.Decimal `json:"makerCommission"`
	TakerCommission            decimal.Decimal `json:"takerCommission"`
	QuoteAmountPrecisionMarket decimal.Decimal `json:"quoteAmountPrecisionMarket"`
	MaxQuoteAmountMarket       decimal.Decimal `json:"maxQuoteAmountMarket"`
	FullName                   string          `json:"fullName"`
}

type ExchangeInfo struct {
	Timezone   string       `json:"timezone"`
	ServerTime int64        `json:"serverTime"`
	Symbols    []SymbolInfo `json:"symbols"`
}

// PriceLevel one [price, quantity] entry of the order book.
type PriceLevel struct {
	Price    decimal.Decimal
	Quantity decimal.Decimal
}

func (p *PriceLevel) UnmarshalJSON(b []byte) error {
	var pair []decimal.Decimal
	if err := json.Unmarshal(b, &pair); err != nil {
		return err
	}
	if len(pair) < 2 {
		return fmt.Errorf("price level: expected 2 elements, got %d", len(pair))
	}
	p.Price, p.Quantity = pair[0], pair[1]
	return nil
}

type Depth struct {
	LastUpdateID int64        `json:"lastUpdateId"`
	Bids         []PriceLevel `json:"bids"`
	Asks         []PriceLevel `json:"asks"`
}

type Trade struct {
	ID           FlexString      `json:"id"`
	Price        decimal.Decimal `json:"price"`
	Qty          decimal.Decimal `json:"qty"`
	QuoteQty     decimal.Decimal `json:"quoteQty"`
	Time         int64           `json:"time"`
	IsBuyerMaker bool            `json:"isBuyerMaker"`
	IsBestMatch  bool            `json:"isBestMatch"`
	TradeType    string          `json:"tradeType"`
}

type AggTrade struct {
	AggID        FlexString      `json:"a"`
	FirstID      FlexString      `json:"f"`
	LastID       FlexString      `json:"l"`
	Price        decimal.Decimal `json:"p"`
	Qty          decimal.Decimal `json:"q"`
	Time         int64           `json:"T"`
	IsBuyerMaker bool            `json:"m"`
	IsBestMatch  bool            `json:"M"`
}

type AvgPrice struct {
	Mins  int             `json:"mins"`
	Price decimal.Decimal `json:"price"`
}

type Ticker24h struct {
	Symbol             string          `json:"symbol"`
	PriceChange        decimal.Decimal `json:"priceChange"`
	PriceChangePercent decimal.Decimal `json:"priceChangePercent"`
	PrevClosePrice     decimal.Decimal `json:"prevClosePrice"`
	LastPrice          decimal.Decimal `json:"lastPrice"`
	BidPrice           decimal.Decimal `json:"bidPrice"`
	BidQty             decimal.Decimal `json:"bidQty"`
	AskPrice           decimal.Decimal `json:"askPrice"`
	AskQty             decimal.Decimal `json:"askQty"`
	OpenPrice          decimal.Decimal `json:"openPrice"`
	HighPrice          decimal.Decimal `json:"highPrice"`
	LowPrice           decimal.Decimal `json:"lowPrice"`
	Volume             decimal.Decimal `json:"volume"`
	QuoteVolume        decimal.Decimal `json:"quoteVolume"`
	OpenTime           int64           `json:"openTime"`
	CloseTime          int64           `json:"closeTime"`
	Count              FlexString      `json:"count"`
}

type PriceTicker struct {
	Symbol string          `json:"symbol"`
	Price  decimal.Decimal `json:"price"`
}

type BookTicker struct {
	Symbol   string          `json:"symbol"`
	BidPrice decimal.Decimal `json:"bidPrice"`
	BidQty   decimal.Decimal `json:"bidQty"`
	AskPrice decimal.Decimal `json:"askPrice"`
	AskQty   decimal.Decimal `json:"askQty"`
}

// OrderResponse acknowledgement of a new order.
type OrderResponse struct {
	Symbol       string          `json:"symbol"`
	OrderID      FlexString      `json:"orderId"`
	OrderListID  int64           `json:"orderListId"`
	Price        decimal.Decimal `json:"price"`
	OrigQty      decimal.Decimal `json:"origQty"`
	Type         string          `json:"type"`
	Side         string          `json:"side"`
	TransactTime int64           `json:"transactTime"`
}

// CancelResponse state of a canceled order.
type CancelResponse struct {
	Symbol              string          `json:"symbol"`
	OrigClientOrderID   string          `json:"origClientOrderId"`
	OrderID             FlexString      `json:"orderId"`
	ClientOrderID       string          `json:"clientOrderId"`
	Price               decimal.Decimal `json:"price"`
	OrigQty             decimal.Decimal `json:"origQty"`
	ExecutedQty         decimal.Decimal `json:"executedQty"`
	CummulativeQuoteQty decimal.Decimal `json:"cummulativeQuoteQty"`
	Status              string          `json:"status"`
	TimeInForce         string          `json:"timeInForce"`
	Type                string          `json:"type"`
	Side                string          `json:"side"`
}

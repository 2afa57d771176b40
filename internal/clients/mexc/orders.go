package mexc

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/gbdtbot/internal/domain"
)

// OrderRequest parameters of a new order. Zero values are omitted from the
// request.
type OrderRequest struct {
	Symbol           string
	Side             domain.Side
	Type             domain.OrderType
	Quantity         decimal.Decimal
	QuoteOrderQty    decimal.Decimal
	Price            decimal.Decimal
	NewClientOrderID string
	RecvWindow       int64
}

// Validate checks the request before anything is sent.
func (r OrderRequest) Validate() error {
	if r.Symbol == "" {
		return errors.Wrap(ErrInvalidOrder, "symbol is required")
	}
	if !r.Side.Valid() {
		return errors.Wrapf(ErrInvalidOrder, "side %q", r.Side)
	}
	if !r.Type.Valid() {
		return errors.Wrapf(ErrInvalidOrder, "type %q", r.Type)
	}
	if r.Quantity.IsNegative() || r.QuoteOrderQty.IsNegative() || r.Price.IsNegative() {
		return errors.Wrap(ErrInvalidOrder, "negative amount")
	}
	if r.Quantity.IsZero() && r.QuoteOrderQty.IsZero() {
		return errors.Wrap(ErrInvalidOrder, "quantity or quoteOrderQty is required")
	}
	return nil
}

func (c *Client) orderQuery(r OrderRequest) *Query {
	return c.newQuery().
		AddString("symbol", r.Symbol).
		AddString("side", string(r.Side)).
		AddString("type", string(r.Type)).
		AddDecimal("quantity", r.Quantity).
		AddDecimal("quoteOrderQty", r.QuoteOrderQty).
		AddDecimal("price", r.Price).
		AddString("newClientOrderId", r.NewClientOrderID).
		AddInt64("recvWindow", r.RecvWindow)
}

// TestOrder validates an order on the exchange without placing it.
func (c *Client) TestOrder(ctx context.Context, r OrderRequest) error {
	if err := r.Validate(); err != nil {
		return err
	}

	raw, err := c.signed(ctx, MethodPost, "/order/test", c.orderQuery(r))
	if err != nil {
		return errors.Wrap(err, "test order")
	}
	if !isEmptyObject(raw) {
		return &MalformedResponseError{Endpoint: "/order/test", Body: string(raw), Err: fmt.Errorf("expected empty object")}
	}
	return nil
}

// SendOrder places a new order.
func (c *Client) SendOrder(ctx context.Context, r OrderRequest) (*OrderResponse, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	raw, err := c.signed(ctx, MethodPost, "/order", c.orderQuery(r))
	if err != nil {
		return nil, errors.Wrap(err, "send order")
	}

	var out OrderResponse
	if err := decode("/order", raw, &out); err != nil {
		return nil, err
	}
	if out.OrderID == "" {
		return nil, &MalformedResponseError{Endpoint: "/order", Body: string(raw), Err: fmt.Errorf("missing orderId")}
	}
	return &out, nil
}

// CancelRequest identifies the order to cancel by OrderID or OrigClientOrderID.
type CancelRequest struct {
	Symbol            string
	OrderID           string
	OrigClientOrderID string
	NewClientOrderID  string
	RecvWindow        int64
}

// CancelOrder cancels an active order.
func (c *Client) CancelOrder(ctx context.Context, r CancelRequest) (*CancelResponse, error) {
	if r.Symbol == "" {
		return nil, errors.Wrap(ErrInvalidOrder, "symbol is required")
	}
	if r.OrderID == "" && r.OrigClientOrderID == "" {
		return nil, errors.Wrap(ErrInvalidOrder, "orderId or origClientOrderId is required")
	}

	q := c.newQuery().
		AddString("symbol", r.Symbol).
		AddString("orderId", r.OrderID).
		AddString("origClientOrderId", r.OrigClientOrderID).
		AddString("newClientOrderId", r.NewClientOrderID).
		AddInt64("recvWindow", r.RecvWindow)

	raw, err := c.signed(ctx, MethodDelete, "/order", q)
	if err != nil {
		return nil, errors.Wrap(err, "cancel order")
	}

	var out CancelResponse
	if err := decode("/order", raw, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

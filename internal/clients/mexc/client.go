// Package mexc is a client for the MEXC spot REST API v3.
package mexc

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultBaseURL production REST endpoint.
	DefaultBaseURL = "https://api.mexc.com"
	// APIKeyHeader carries the api key on signed requests.
	APIKeyHeader = "X-MEXC-APIKEY"

	apiPrefix = "/api/v3"
)

// Config client settings.
type Config struct {
	BaseURL            string
	APIKey             string
	SecretKey          string
	Timeout            time.Duration
	InsecureSkipVerify bool
	// Escaper encodes query values, URLEscaper when nil.
	Escaper Escaper
}

// Client talks to the exchange. It keeps no per-call state, every method
// returns its own error.
type Client struct {
	baseURL   string
	apiKey    string
	secretKey string
	escaper   Escaper
	transport *Transport
	now       func() time.Time
	l         *zap.Logger
}

// NewClient creates a client.
func NewClient(cfg Config, l *zap.Logger) *Client {
	if l == nil {
		l = zap.NewNop()
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	escaper := cfg.Escaper
	if escaper == nil {
		escaper = URLEscaper
	}

	return &Client{
		baseURL:   baseURL,
		apiKey:    cfg.APIKey,
		secretKey: cfg.SecretKey,
		escaper:   escaper,
		transport: NewTransport(TransportConfig{
			Timeout:            cfg.Timeout,
			InsecureSkipVerify: cfg.InsecureSkipVerify,
		}, l),
		now: time.Now,
		l:   l,
	}
}

func (c *Client) newQuery() *Query {
	return NewQuery(c.escaper)
}

func (c *Client) endpoint(path string) string {
	return c.baseURL + apiPrefix + path
}

// get performs an unauthenticated GET and returns the raw body.
func (c *Client) get(ctx context.Context, path string, q *Query) ([]byte, error) {
	url := c.endpoint(path)
	if q != nil && q.Len() > 0 {
		url += "?" + q.String()
	}

	_, raw, err := c.transport.Execute(ctx, MethodGet, url, "", nil)
	if err != nil {
		c.l.Debug("mexc request failed", zap.String("path", path), zap.Error(err))
		return raw, err
	}

	return raw, nil
}

// signed appends timestamp and signature to q and sends it. POST and PUT
// carry the signed string as body, GET and DELETE as query string.
func (c *Client) signed(ctx context.Context, method Method, path string, q *Query) ([]byte, error) {
	if c.apiKey == "" || c.secretKey == "" {
		return nil, ErrMissingCredentials
	}

	payload := SignQuery(q, c.secretKey, c.now().UnixMilli())
	headers := map[string]string{
		"Content-Type": "application/json",
		APIKeyHeader:   c.apiKey,
	}

	url := c.endpoint(path)
	body := ""
	switch method {
	case MethodPost, MethodPut:
		body = payload
	default:
		url += "?" + payload
	}

	_, raw, err := c.transport.Execute(ctx, method, url, body, headers)
	if err != nil {
		c.l.Debug("mexc signed request failed", zap.String("path", path), zap.Error(err))
		return raw, err
	}

	return raw, nil
}

func decode(endpoint string, raw []byte, out any) error {
	if err := json.Unmarshal(raw, out); err != nil {
		return &MalformedResponseError{Endpoint: endpoint, Body: string(raw), Err: err}
	}
	return nil
}

func isEmptyObject(raw []byte) bool {
	return strings.TrimSpace(string(raw)) == "{}"
}

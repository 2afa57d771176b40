package mexc

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Method HTTP verb supported by the exchange API.
type Method string

const (
	MethodGet    Method = http.MethodGet
	MethodPost   Method = http.MethodPost
	MethodPut    Method = http.MethodPut
	MethodDelete Method = http.MethodDelete
)

const defaultTimeout = 10 * time.Second

// TransportConfig controls the underlying HTTP client.
type TransportConfig struct {
	// Timeout bounds the whole request including reading the body.
	Timeout time.Duration
	// InsecureSkipVerify disables TLS certificate checks. Off unless set explicitly.
	InsecureSkipVerify bool
}

// Transport performs one HTTP exchange and maps failures to typed errors.
type Transport struct {
	httpClient *http.Client
}

// NewTransport creates a transport with the given settings.
func NewTransport(cfg TransportConfig, l *zap.Logger) *Transport {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	tr := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.InsecureSkipVerify {
		l.Warn("TLS certificate verification is disabled for exchange requests")
		tr.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec
	}

	return &Transport{
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: tr,
		},
	}
}

// Execute sends the request and returns the HTTP status and raw body.
// A JSON object body with a non-zero "code" is returned as *ExchangeError
// whatever the HTTP status. Other non-2xx responses become *ExchangeError
// with the HTTP status as code.
func (t *Transport) Execute(ctx context.Context, method Method, url, body string, headers map[string]string) (int, []byte, error) {
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}

	req, err := http.NewRequestWithContext(ctx, string(method), url, reader)
	if err != nil {
		return 0, nil, errors.Wrap(err, "failed to create HTTP request")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return 0, nil, &TransportError{Method: string(method), URL: url, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, &TransportError{Method: string(method), URL: url, Err: errors.Wrap(err, "read body")}
	}

	if apiErr := detectAPIError(raw); apiErr != nil {
		apiErr.HTTPStatus = resp.StatusCode
		return resp.StatusCode, raw, apiErr
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return resp.StatusCode, raw, &ExchangeError{
			Code:       resp.StatusCode,
			Message:    string(raw),
			HTTPStatus: resp.StatusCode,
		}
	}

	return resp.StatusCode, raw, nil
}

// detectAPIError looks for a non-zero "code" in a JSON object body.
func detectAPIError(raw []byte) *ExchangeError {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil
	}

	var envelope struct {
		Code json.RawMessage `json:"code"`
		Msg  string          `json:"msg"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err != nil || len(envelope.Code) == 0 {
		return nil
	}

	code, ok := parseCode(envelope.Code)
	if !ok || code == 0 {
		return nil
	}

	return &ExchangeError{Code: code, Message: envelope.Msg}
}

func parseCode(raw json.RawMessage) (int, bool) {
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, true
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if n, err := strconv.Atoi(s); err == nil {
			return n, true
		}
	}

	return 0, false
}

package mexc

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestTransport_Execute(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantCode int
		wantErr  bool
	}{
		{name: "ok", status: http.StatusOK, body: `{"serverTime":1}`},
		{name: "zero code is not an error", status: http.StatusOK, body: `{"code":0,"data":[]}`},
		{name: "array body", status: http.StatusOK, body: `[[1,"2"]]`},
		{name: "api error with 200", status: http.StatusOK, body: `{"code":700002,"msg":"Signature for this request is not valid."}`, wantCode: 700002, wantErr: true},
		{name: "api error with 400", status: http.StatusBadRequest, body: `{"code":-1121,"msg":"Invalid symbol."}`, wantCode: -1121, wantErr: true},
		{name: "string code", status: http.StatusOK, body: `{"code":"30004","msg":"Insufficient position"}`, wantCode: 30004, wantErr: true},
		{name: "http error without code", status: http.StatusBadGateway, body: `bad gateway`, wantCode: http.StatusBadGateway, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			tr := NewTransport(TransportConfig{Timeout: time.Second}, zap.NewNop())
			status, raw, err := tr.Execute(context.Background(), MethodGet, srv.URL, "", nil)

			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.body, string(raw))
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, ErrorCode(err))
			assert.Equal(t, "exchange", Kind(err))
		})
	}
}

func TestTransport_MessageFromBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"code":10072,"msg":"Api key info invalid"}`))
	}))
	defer srv.Close()

	tr := NewTransport(TransportConfig{}, zap.NewNop())
	_, _, err := tr.Execute(context.Background(), MethodGet, srv.URL, "", nil)

	var apiErr *ExchangeError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Api key info invalid", apiErr.Message)
	assert.Equal(t, http.StatusOK, apiErr.HTTPStatus)
}

func TestTransport_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	tr := NewTransport(TransportConfig{Timeout: time.Second}, zap.NewNop())
	_, _, err := tr.Execute(context.Background(), MethodGet, url, "", nil)

	require.Error(t, err)
	assert.True(t, IsTransport(err))
	assert.Equal(t, 0, ErrorCode(err))
	assert.Equal(t, "transport", Kind(err))
}

func TestTransport_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	tr := NewTransport(TransportConfig{Timeout: 20 * time.Millisecond}, zap.NewNop())
	_, _, err := tr.Execute(context.Background(), MethodGet, srv.URL, "", nil)

	require.Error(t, err)
	assert.True(t, IsTransport(err))
}

func TestTransport_SendsBodyAndHeaders(t *testing.T) {
	var (
		gotMethod string
		gotBody   string
		gotKey    string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotKey = r.Header.Get(APIKeyHeader)
		buf, _ := io.ReadAll(r.Body)
		gotBody = string(buf)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	tr := NewTransport(TransportConfig{}, zap.NewNop())
	_, _, err := tr.Execute(context.Background(), MethodPost, srv.URL, "a=1&b=2", map[string]string{APIKeyHeader: "key"})

	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "a=1&b=2", gotBody)
	assert.Equal(t, "key", gotKey)
}

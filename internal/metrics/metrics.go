package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	PollsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "gbdtbot_polls_total", Help: "Trading loop ticks"},
		[]string{"symbol"},
	)
	BarsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "gbdtbot_bars_total", Help: "New bars scored by the model"},
		[]string{"symbol"},
	)
	OrdersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "gbdtbot_orders_total", Help: "Order attempts by side and result"},
		[]string{"symbol", "side", "result"},
	)
	APIErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "gbdtbot_api_errors_total", Help: "Failed exchange calls by kind"},
		[]string{"kind"},
	)
	LastScore = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{Name: "gbdtbot_last_score", Help: "Model score of the latest bar"},
		[]string{"symbol"},
	)
)

func init() {
	prometheus.MustRegister(PollsTotal, BarsTotal, OrdersTotal, APIErrorsTotal, LastScore)
}

// NewServer returns an http server exposing /metrics on addr.
func NewServer(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
}

// Serve runs the metrics server until ctx is done.
func Serve(ctx context.Context, addr string) error {
	srv := NewServer(addr)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return errors.Wrap(err, "metrics server")
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

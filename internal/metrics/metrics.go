// Package metrics exposes Prometheus counters for group transitions, the
// lottery and RPC traffic.
package metrics

import (
	"context"
	"time"

	"connectrpc.com/connect"
	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "roomdraw"

// Metrics holds the collectors of one server.
type Metrics struct {
	transitions     *prom.CounterVec
	lotteryEntrants prom.Histogram
	lotteryRuns     *prom.CounterVec
	rpcSeconds      *prom.HistogramVec
}

// New creates the collectors and registers them with reg.
func New(reg prom.Registerer) *Metrics {
	m := &Metrics{
		transitions: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Subsystem: "group",
			Name:      "transitions_total",
			Help:      "group transitions by operation and outcome",
		}, []string{"op", "outcome"}),
		lotteryEntrants: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Subsystem: "lottery",
			Name:      "entrants",
			Help:      "entrants ranked per lottery run",
			Buckets:   prom.ExponentialBuckets(1, 2, 12),
		}),
		lotteryRuns: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Subsystem: "lottery",
			Name:      "runs_total",
			Help:      "lottery assignments by outcome",
		}, []string{"outcome"}),
		rpcSeconds: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Subsystem: "rpc",
			Name:      "seconds",
			Help:      "duration of RPC calls",
			Buckets:   prom.DefBuckets,
		}, []string{"procedure", "code"}),
	}
	reg.MustRegister(m.transitions, m.lotteryEntrants, m.lotteryRuns, m.rpcSeconds)
	return m
}

// Transition counts one group operation.
func (m *Metrics) Transition(op string, err error) {
	m.transitions.WithLabelValues(op, outcome(err)).Inc()
}

// Lottery counts one lottery run and, when it succeeded, its entrants.
func (m *Metrics) Lottery(entrants int, err error) {
	m.lotteryRuns.WithLabelValues(outcome(err)).Inc()
	if err == nil {
		m.lotteryEntrants.Observe(float64(entrants))
	}
}

// Interceptor times every unary RPC by procedure and result code.
func (m *Metrics) Interceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			resp, err := next(ctx, req)

			code := "ok"
			if err != nil {
				code = connect.CodeOf(err).String()
			}
			m.rpcSeconds.WithLabelValues(req.Spec().Procedure, code).Observe(time.Since(start).Seconds())
			return resp, err
		}
	}
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RiskDenials = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "algotrader",
		Name:      "risk_denials_total",
		Help:      "Trade attempts denied by the risk gate, by reason.",
	}, []string{"reason"})

	OrdersSubmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "algotrader",
		Name:      "orders_submitted_total",
		Help:      "Broker orders submitted by the executor, by reported status.",
	}, []string{"status"})

	MonitorTickFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "algotrader",
		Name:      "monitor_tick_failures_total",
		Help:      "Monitor ticks that hit a quote, store or exit error.",
	})

	PositionsClosed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "algotrader",
		Name:      "positions_closed_total",
		Help:      "Positions closed, by trigger.",
	}, []string{"trigger"})

	AdvisorCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "algotrader",
		Name:      "advisor_calls_total",
		Help:      "Advisory model invocations, by function and outcome.",
	}, []string{"function", "outcome"})
)

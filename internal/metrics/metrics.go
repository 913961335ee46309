package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registry = prometheus.NewRegistry()

	ProductionLogs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stillhouse_production_logs_total",
			Help: "Production logs persisted, by kind",
		},
		[]string{"kind"},
	)

	Deductions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stillhouse_inventory_deductions_total",
			Help: "Inventory deductions by outcome (applied, shortfall, missing, failed)",
		},
		[]string{"outcome"},
	)

	DictationAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stillhouse_dictation_attempts_total",
			Help: "Completion attempts made for dictation, by outcome",
		},
		[]string{"outcome"},
	)

	LowStockAlerts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "stillhouse_low_stock_alerts_total",
			Help: "Items that crossed into low stock after a deduction",
		},
	)

	ActiveSubscriptions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "stillhouse_realtime_subscriptions",
			Help: "Open realtime snapshot subscriptions",
		},
	)
)

func init() {
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		ProductionLogs,
		Deductions,
		DictationAttempts,
		LowStockAlerts,
		ActiveSubscriptions,
	)
}

func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry 本服务独立的指标注册表
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

var (
	SectionsCompleted = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "idea_radar_sections_total",
			Help: "Total number of analysis sections dispatched, by outcome",
		},
		[]string{"section", "outcome"},
	)

	SectionDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "idea_radar_section_duration_seconds",
			Help:    "Duration of one completion call in seconds",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 40, 80},
		},
		[]string{"section"},
	)

	ContentAnomalies = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "idea_radar_content_anomalies_total",
			Help: "Sections whose content could not be projected into the report",
		},
		[]string{"section"},
	)

	AnalysesActive = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "idea_radar_analyses_active",
			Help: "Number of analyses in flight",
		},
	)

	StatusListeners = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "idea_radar_status_listeners",
			Help: "Number of connected progress listeners",
		},
	)
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// Handler 暴露 /metrics
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

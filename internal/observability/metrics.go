// Package observability wires logging, metrics and tracing for the site.
//
// Metrics are exposed on /metrics in the Prometheus text format. All metric
// operations are safe for concurrent use.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "portfolio"

// Metrics holds the site's Prometheus collectors.
type Metrics struct {
	// PageViews counts rendered pages by route and language.
	PageViews *prometheus.CounterVec
	// NotFound counts detail lookups for unknown ids, by record kind.
	NotFound *prometheus.CounterVec
	// ScrollEvents counts scroll positions reported by browsers.
	ScrollEvents prometheus.Counter
	// Navigations counts nav clicks by target section.
	Navigations *prometheus.CounterVec
	// ViewsOpened counts page views that started a scroll-spy controller.
	ViewsOpened prometheus.Counter
}

// NewMetrics registers the collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		PageViews: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "page_views_total",
			Help:      "Rendered pages by route and language.",
		}, []string{"route", "lang"}),
		NotFound: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "detail_not_found_total",
			Help:      "Detail pages requested with an unknown id.",
		}, []string{"kind"}),
		ScrollEvents: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "spy",
			Name:      "scroll_events_total",
			Help:      "Scroll positions reported to scroll-spy controllers.",
		}),
		Navigations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "spy",
			Name:      "navigations_total",
			Help:      "Programmatic section navigations by target.",
		}, []string{"section"}),
		ViewsOpened: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "spy",
			Name:      "views_opened_total",
			Help:      "Page views that opened a scroll-spy controller.",
		}),
	}
}

// ObserveLiveViews exports the current number of live page views.
func ObserveLiveViews(reg prometheus.Registerer, live func() int) {
	promauto.With(reg).NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Subsystem: "spy",
		Name:      "live_views",
		Help:      "Page views with a live scroll-spy controller.",
	}, func() float64 { return float64(live()) })
}

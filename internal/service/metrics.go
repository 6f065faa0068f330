package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics groups the route service collectors. A nil *Metrics records nothing.
type Metrics struct {
	queries         *prometheus.CounterVec
	queryDuration   *prometheus.HistogramVec
	reloads         *prometheus.CounterVec
	snapshotVersion prometheus.Gauge
	nodes           prometheus.Gauge
	edges           *prometheus.GaugeVec
	droppedEdges    prometheus.Gauge
}

// NewMetrics registers the collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		queries: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wayfinder",
			Name:      "route_queries_total",
			Help:      "Route queries by outcome and no-route reason.",
		}, []string{"outcome", "reason"}),
		queryDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "wayfinder",
			Name:      "route_query_duration_seconds",
			Help:      "Time spent answering a route query.",
			Buckets:   prometheus.ExponentialBuckets(0.00005, 2, 14),
		}, []string{"accessible_only"}),
		reloads: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wayfinder",
			Name:      "map_reloads_total",
			Help:      "Map snapshot reload attempts by result.",
		}, []string{"result"}),
		snapshotVersion: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "wayfinder",
			Name:      "map_snapshot_version",
			Help:      "Version of the snapshot currently served.",
		}),
		nodes: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "wayfinder",
			Name:      "map_nodes",
			Help:      "Nodes in the served snapshot.",
		}),
		edges: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "wayfinder",
			Name:      "map_edges",
			Help:      "Usable edges in the served snapshot per graph variant.",
		}, []string{"variant"}),
		droppedEdges: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "wayfinder",
			Name:      "map_dropped_edges",
			Help:      "Edges dropped as malformed when the snapshot was built.",
		}),
	}
}

func (m *Metrics) observeQuery(outcome, reason string, accessibleOnly bool, seconds float64) {
	if m == nil {
		return
	}
	m.queries.WithLabelValues(outcome, reason).Inc()
	label := "false"
	if accessibleOnly {
		label = "true"
	}
	m.queryDuration.WithLabelValues(label).Observe(seconds)
}

func (m *Metrics) observeReload(status MapStatus, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.reloads.WithLabelValues("error").Inc()
		return
	}
	m.reloads.WithLabelValues("ok").Inc()
	m.snapshotVersion.Set(float64(status.Version))
	m.nodes.Set(float64(status.Nodes))
	m.edges.WithLabelValues("all").Set(float64(status.Edges))
	m.edges.WithLabelValues("accessible").Set(float64(status.AccessibleEdges))
	m.droppedEdges.Set(float64(status.Dropped))
}

package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Metrics holds the Prometheus metrics exported by the server. Each
// server owns its registry so tests can run side by side.
type Metrics struct {
	registry *prometheus.Registry

	decodesTotal  *prometheus.CounterVec
	decodedBytes  prometheus.Counter
	packetsStored prometheus.Gauge
}

func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,

		decodesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gcovdata_decodes_total",
				Help: "Total number of counter file decode attempts",
			},
			[]string{"status"},
		),

		decodedBytes: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "gcovdata_decoded_bytes_total",
				Help: "Total bytes of counter data successfully decoded",
			},
		),

		packetsStored: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "gcovdata_packets_stored",
				Help: "Number of decoded packets currently held in the store",
			},
		),
	}
}

func (m *Metrics) RecordDecode(sizeBytes int, err error) {
	if err != nil {
		m.decodesTotal.WithLabelValues(statusError).Inc()
		return
	}
	m.decodesTotal.WithLabelValues(statusSuccess).Inc()
	m.decodedBytes.Add(float64(sizeBytes))
}

func (m *Metrics) SetStored(count int) {
	m.packetsStored.Set(float64(count))
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Package metrics counts cipherboard's cryptographic operations.
//
// Counters survive between runs of the CLI: they are loaded from a
// Prometheus text exposition file at startup and written back afterwards,
// the same format node_exporter's textfile collector reads.
package metrics

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"
)

// Outcome label values.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

const (
	cryptoOpsName        = "cipherboard_crypto_operations_total"
	keychainFailuresName = "cipherboard_keychain_failures_total"
	durationName         = "cipherboard_operation_duration_seconds"
)

// Metrics holds all application metrics.
type Metrics struct {
	registry          *prometheus.Registry
	cryptoOperations  *prometheus.CounterVec
	keychainFailures  *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
}

// New creates a metrics instance on its own registry.
func New() *Metrics {
	return newMetricsWithRegistry(prometheus.NewRegistry())
}

func newMetricsWithRegistry(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,
		cryptoOperations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: cryptoOpsName,
				Help: "Total number of cryptographic operations by kind and outcome",
			},
			[]string{"op", "outcome"},
		),
		keychainFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: keychainFailuresName,
				Help: "Total number of key chain resolution failures by error kind",
			},
			[]string{"kind"},
		),
		operationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    durationName,
				Help:    "Duration of user-facing operations in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
			},
			[]string{"op"},
		),
	}
}

// Registry returns the registry the metrics are registered with.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordCryptoOperation counts one operation; a nil err counts as ok.
func (m *Metrics) RecordCryptoOperation(op string, err error) {
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
	}
	m.cryptoOperations.WithLabelValues(op, outcome).Inc()
}

// RecordKeychainFailure counts a failed key chain resolution.
func (m *Metrics) RecordKeychainFailure(kind string) {
	m.keychainFailures.WithLabelValues(kind).Inc()
}

// ObserveDuration records how long an operation took.
func (m *Metrics) ObserveDuration(op string, d time.Duration) {
	m.operationDuration.WithLabelValues(op).Observe(d.Seconds())
}

// WriteText writes every metric in the Prometheus text format.
func (m *Metrics) WriteText(w io.Writer) error {
	families, err := m.registry.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}
	for _, family := range families {
		if _, err := expfmt.MetricFamilyToText(w, family); err != nil {
			return fmt.Errorf("failed to encode metrics: %w", err)
		}
	}
	return nil
}

// LoadText adds the counter values found in a text exposition to the
// current counters. Histograms are per-run and are not restored.
func (m *Metrics) LoadText(r io.Reader) error {
	var parser expfmt.TextParser
	families, err := parser.TextToMetricFamilies(r)
	if err != nil {
		return fmt.Errorf("failed to parse metrics: %w", err)
	}

	restore := map[string]*prometheus.CounterVec{
		cryptoOpsName:        m.cryptoOperations,
		keychainFailuresName: m.keychainFailures,
	}
	for name, vec := range restore {
		family, ok := families[name]
		if !ok {
			continue
		}
		for _, metric := range family.GetMetric() {
			labels := prometheus.Labels{}
			for _, pair := range metric.GetLabel() {
				labels[pair.GetName()] = pair.GetValue()
			}
			counter, err := vec.GetMetricWith(labels)
			if err != nil {
				return fmt.Errorf("unexpected labels on %s: %w", name, err)
			}
			if v := metric.GetCounter().GetValue(); v > 0 {
				counter.Add(v)
			}
		}
	}
	return nil
}

// LoadFile restores counters from path. A missing file is not an error.
func (m *Metrics) LoadFile(path string) error {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	defer f.Close()
	return m.LoadText(f)
}

// SaveFile writes the text exposition to path atomically.
func (m *Metrics) SaveFile(path string) error {
	var buf bytes.Buffer
	if err := m.WriteText(&buf); err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".metrics-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

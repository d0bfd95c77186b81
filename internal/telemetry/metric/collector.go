package metric

import "github.com/prometheus/client_golang/prometheus"

// Sizer reports the number of entries in a store.
type Sizer interface {
	Len() int
}

// StoreCollector exposes tokauth_store_entries for in-process stores whose
// size is cheap to read.
type StoreCollector struct {
	desc    *prometheus.Desc
	backend string
	stores  map[string]Sizer
}

// NewStoreCollector creates a collector for the given stores, keyed by the
// value of the "store" label (for example "credentials", "tokens").
func NewStoreCollector(backend string, stores map[string]Sizer) *StoreCollector {
	return &StoreCollector{
		desc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "store", "entries"),
			"Entries held by a store.",
			[]string{"store", "backend"}, nil,
		),
		backend: backend,
		stores:  stores,
	}
}

// Describe implements prometheus.Collector.
func (c *StoreCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.desc
}

// Collect implements prometheus.Collector.
func (c *StoreCollector) Collect(ch chan<- prometheus.Metric) {
	for name, s := range c.stores {
		ch <- prometheus.MustNewConstMetric(c.desc, prometheus.GaugeValue, float64(s.Len()), name, c.backend)
	}
}

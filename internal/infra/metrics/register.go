package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once
	queued       []prometheus.Collector
)

// register queues collectors from each file's init for the single
// MustRegister call at startup.
func register(cs ...prometheus.Collector) {
	queued = append(queued, cs...)
}

// MustRegister installs every queued collector with the default Prometheus
// registry. Safe to call more than once; only the first call registers.
func MustRegister() {
	registerOnce.Do(func() {
		if len(queued) > 0 {
			prometheus.MustRegister(queued...)
		}
	})
}

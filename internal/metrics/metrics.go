package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Recorder counts collection activity. A nil *Recorder is valid and records
// nothing.
type Recorder struct {
	staged   *prometheus.CounterVec
	exported *prometheus.CounterVec
	failures *prometheus.CounterVec
	size     *prometheus.GaugeVec
}

// NewRecorder creates the camstock collectors and registers them with reg.
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		staged: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "camstock",
			Name:      "staged_total",
			Help:      "Records staged for a pending operation.",
		}, []string{"kind", "op"}),
		exported: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "camstock",
			Name:      "exported_total",
			Help:      "Records flushed to the backing store.",
		}, []string{"kind", "op"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "camstock",
			Name:      "store_failures_total",
			Help:      "Failed import or export calls against the backing store.",
		}, []string{"kind", "op"}),
		size: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "camstock",
			Name:      "collection_size",
			Help:      "Records in the most recently updated authoritative collection.",
		}, []string{"kind"}),
	}

	for _, c := range []prometheus.Collector{r.staged, r.exported, r.failures, r.size} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Recorder) Staged(kind, op string) {
	if r == nil {
		return
	}
	r.staged.WithLabelValues(kind, op).Inc()
}

func (r *Recorder) Exported(kind, op string, n int) {
	if r == nil {
		return
	}
	r.exported.WithLabelValues(kind, op).Add(float64(n))
}

func (r *Recorder) Failed(kind, op string) {
	if r == nil {
		return
	}
	r.failures.WithLabelValues(kind, op).Inc()
}

func (r *Recorder) SetSize(kind string, n int) {
	if r == nil {
		return
	}
	r.size.WithLabelValues(kind).Set(float64(n))
}

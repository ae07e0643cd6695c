package oneclick

import "github.com/prometheus/client_golang/prometheus"

const metricsNamespace = "oneclick"

type metrics struct {
	results  *prometheus.CounterVec
	inflight prometheus.Gauge
	taps     prometheus.Counter
}

func newMetrics() *metrics {
	return &metrics{
		results: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "login_results_total",
			Help:      "Login flows completed, by result code.",
		}, []string{"code"}),
		inflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "login_in_flight",
			Help:      "Login flows in flight.",
		}),
		taps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "alternate_login_taps_total",
			Help:      "Taps on alternate login icons.",
		}),
	}
}

func (m *metrics) register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{m.results, m.inflight, m.taps} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

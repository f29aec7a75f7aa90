package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder é o contrato que o motor de cortes usa para publicar métricas.
type Recorder interface {
	CommitSucceeded(sourceKind, policy string, cuts int, cutAreaM2 float64)
	CommitRejected(reason string)
}

// Prometheus publica as métricas do motor de cortes num registry Prometheus.
type Prometheus struct {
	commits    *prometheus.CounterVec
	cuts       *prometheus.CounterVec
	rejections *prometheus.CounterVec
	cutArea    prometheus.Histogram
}

// NewPrometheus cria e regista os coletores em reg.
func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	p := &Prometheus{
		commits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "acristock",
			Name:      "cut_commits_total",
			Help:      "Lotes de cortes registados, por tipo de origem e política de sobra.",
		}, []string{"source_kind", "policy"}),
		cuts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "acristock",
			Name:      "cuts_total",
			Help:      "Registos de corte criados, por tipo de origem.",
		}, []string{"source_kind"}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "acristock",
			Name:      "cut_rejections_total",
			Help:      "Lotes de cortes rejeitados, por motivo.",
		}, []string{"reason"}),
		cutArea: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "acristock",
			Name:      "cut_batch_area_m2",
			Help:      "Área total (m²) cortada por lote.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 4, 8},
		}),
	}
	reg.MustRegister(p.commits, p.cuts, p.rejections, p.cutArea)
	return p
}

func (p *Prometheus) CommitSucceeded(sourceKind, policy string, cuts int, cutAreaM2 float64) {
	p.commits.WithLabelValues(sourceKind, policy).Inc()
	p.cuts.WithLabelValues(sourceKind).Add(float64(cuts))
	p.cutArea.Observe(cutAreaM2)
}

func (p *Prometheus) CommitRejected(reason string) {
	p.rejections.WithLabelValues(reason).Inc()
}

// Handler expõe as métricas de g no formato de texto Prometheus.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// Nop descarta todas as métricas.
type Nop struct{}

func (Nop) CommitSucceeded(string, string, int, float64) {}
func (Nop) CommitRejected(string)                        {}

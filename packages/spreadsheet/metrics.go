package spreadsheet

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vogtb/go-sheetgraph/packages/formula"
	"github.com/vogtb/go-sheetgraph/packages/grid"
)

const (
	opSet   = "set"
	opClear = "clear"
)

// metrics holds the collectors of one sheet. a nil *metrics records nothing,
// so every method is safe to call on a sheet built without WithMetrics.
type metrics struct {
	mutations    *prometheus.CounterVec
	cacheLookups *prometheus.CounterVec
	invalidated  prometheus.Histogram
	liveCells    prometheus.Gauge
}

func newMetrics(reg prometheus.Registerer, sheetID string) *metrics {
	factory := promauto.With(reg)
	labels := prometheus.Labels{"sheet": sheetID}

	return &metrics{
		// mutations counts set and clear calls by outcome
		mutations: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "sheetgraph_mutations_total",
			Help:        "Total cell mutations by operation and result",
			ConstLabels: labels,
		}, []string{"op", "result"}),

		// cacheLookups counts formula value reads served from the cache
		cacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "sheetgraph_cache_lookups_total",
			Help:        "Total formula value lookups by cache result",
			ConstLabels: labels,
		}, []string{"result"}),

		invalidated: factory.NewHistogram(prometheus.HistogramOpts{
			Name:        "sheetgraph_invalidated_cells",
			Help:        "Number of cached formula values dropped per committed mutation",
			ConstLabels: labels,
			Buckets:     []float64{0, 1, 2, 5, 10, 50, 100, 1000, 10000},
		}),

		liveCells: factory.NewGauge(prometheus.GaugeOpts{
			Name:        "sheetgraph_live_cells",
			Help:        "Number of occupied grid slots",
			ConstLabels: labels,
		}),
	}
}

// mutationResult maps the outcome of a mutation to its metric label
func mutationResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, formula.ErrSyntax):
		return "syntax_error"
	case errors.Is(err, ErrCircularDependency):
		return "circular"
	case errors.Is(err, grid.ErrInvalidPosition):
		return "invalid_position"
	case errors.Is(err, ErrSheetClosed):
		return "closed"
	}
	return "error"
}

func (m *metrics) observeMutation(op string, err error) {
	if m == nil {
		return
	}
	m.mutations.WithLabelValues(op, mutationResult(err)).Inc()
}

func (m *metrics) observeCacheLookup(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.cacheLookups.WithLabelValues("hit").Inc()
		return
	}
	m.cacheLookups.WithLabelValues("miss").Inc()
}

func (m *metrics) observeInvalidated(count int) {
	if m == nil {
		return
	}
	m.invalidated.Observe(float64(count))
}

func (m *metrics) setLiveCells(count int) {
	if m == nil {
		return
	}
	m.liveCells.Set(float64(count))
}

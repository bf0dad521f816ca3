package spreadsheet

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Option configures a Sheet.
type Option func(*Sheet)

// WithLogger sets the structured logger. mutations are logged at debug
// level with the sheet id attached to every entry.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Sheet) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics registers the sheet's collectors on reg. without it the sheet
// records no metrics.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(s *Sheet) {
		s.registerer = reg
	}
}

// WithFormulaParser replaces the default formula parser. a parser that also
// implements Release(Formula) is told whenever a cell stops using a formula.
func WithFormulaParser(parser FormulaParser) Option {
	return func(s *Sheet) {
		if parser != nil {
			s.parser = parser
		}
	}
}

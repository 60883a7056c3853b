package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Drop reasons recorded per stage. Dropping rows is data-quality policy,
// not an error, so the counts are surfaced as metrics and log attrs.
const (
	ReasonDuplicate    = "duplicate"
	ReasonBadID        = "bad_identifier"
	ReasonBadDate      = "bad_date"
	ReasonSelfPlay     = "self_play"
	ReasonInvalidWeek  = "invalid_week"
	ReasonInvalidValue = "invalid_value"
)

var (
	rowsIn = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "nflpulse",
		Subsystem: "pipeline",
		Name:      "rows_in_total",
		Help:      "Raw rows received by each pipeline stage",
	}, []string{"stage"})

	rowsOut = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "nflpulse",
		Subsystem: "pipeline",
		Name:      "rows_out_total",
		Help:      "Rows emitted by each pipeline stage",
	}, []string{"stage"})

	rowsDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "nflpulse",
		Subsystem: "pipeline",
		Name:      "rows_dropped_total",
		Help:      "Rows removed by cleaning policy, by stage and reason",
	}, []string{"stage", "reason"})

	valuesCoerced = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "nflpulse",
		Subsystem: "pipeline",
		Name:      "values_coerced_total",
		Help:      "Field values normalized to a documented default",
	}, []string{"stage", "field"})
)

package preview

import (
	"context"

	"github.com/aretw0/quill/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// OutcomeOK labels commands that produced a success record.
const OutcomeOK = "ok"

// Metrics groups the prometheus collectors of the preview server.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	Commands      *prometheus.CounterVec
	PassageVisits *prometheus.CounterVec
	StateMerges   prometheus.Counter
}

// NewMetrics creates the collectors and registers them on reg (if not nil).
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Commands: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quill_commands_total",
				Help: "Total number of protocol commands processed",
			},
			[]string{"type", "outcome"},
		),
		PassageVisits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quill_passage_visits_total",
				Help: "Total number of passages entered through navigation",
			},
			[]string{"passage_id"},
		),
		StateMerges: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "quill_state_merges_total",
				Help: "Total number of state overlays merged into the session",
			},
		),
	}
	if reg != nil {
		reg.MustRegister(m.Commands, m.PassageVisits, m.StateMerges)
	}
	return m
}

func (m *Metrics) observeCommand(cmdType, outcome string) {
	if m == nil {
		return
	}
	m.Commands.WithLabelValues(cmdType, outcome).Inc()
}

// Hooks returns lifecycle hooks that record passage visits and state merges.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	if m == nil {
		return domain.LifecycleHooks{}
	}
	return domain.LifecycleHooks{
		OnPassageEnter: func(ctx context.Context, e *domain.PassageEvent) {
			m.PassageVisits.WithLabelValues(e.PassageID).Inc()
		},
		OnStateMerge: func(ctx context.Context, e *domain.MergeEvent) {
			m.StateMerges.Inc()
		},
	}
}

// ChainHooks combines several hook sets; callbacks run in the given order.
func ChainHooks(sets ...domain.LifecycleHooks) domain.LifecycleHooks {
	var enters []func(context.Context, *domain.PassageEvent)
	var merges []func(context.Context, *domain.MergeEvent)
	for _, h := range sets {
		if h.OnPassageEnter != nil {
			enters = append(enters, h.OnPassageEnter)
		}
		if h.OnStateMerge != nil {
			merges = append(merges, h.OnStateMerge)
		}
	}

	var chained domain.LifecycleHooks
	if len(enters) > 0 {
		chained.OnPassageEnter = func(ctx context.Context, e *domain.PassageEvent) {
			for _, fn := range enters {
				fn(ctx, e)
			}
		}
	}
	if len(merges) > 0 {
		chained.OnStateMerge = func(ctx context.Context, e *domain.MergeEvent) {
			for _, fn := range merges {
				fn(ctx, e)
			}
		}
	}
	return chained
}

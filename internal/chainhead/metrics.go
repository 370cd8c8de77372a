package chainhead

import "github.com/prometheus/client_golang/prometheus"

// Metrics tracks chainHead session activity (spec SPEC_FULL §4.12 C15):
// events received by tag, operations issued, and pinned-block churn. It
// is an ambient observability concern and is carried regardless of the
// retry/reconnect Non-goal in spec.md §1, which scopes out transport
// policy, not metrics.
type Metrics struct {
	eventsTotal        *prometheus.CounterVec
	operationsStarted  prometheus.Counter
	operationsInflight prometheus.Gauge
	sessionsActive     prometheus.Gauge
	blocksPruned       prometheus.Counter
}

// NewMetrics creates the session collectors under namespace and returns a
// Metrics ready to pass to Follow. It does not register them anywhere;
// call Register with the registry they should be exported from.
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		eventsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "chainhead",
			Name:      "events_total",
			Help:      "Number of chainHead_v1_follow events received, by tag.",
		}, []string{"event"}),
		operationsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "chainhead",
			Name:      "operations_started_total",
			Help:      "Number of body/call/storage operations that started.",
		}),
		operationsInflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "chainhead",
			Name:      "operations_inflight",
			Help:      "Number of body/call/storage operations awaiting a terminal event.",
		}),
		sessionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "chainhead",
			Name:      "sessions_active",
			Help:      "Number of chainHead_v1_follow sessions currently active.",
		}),
		blocksPruned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "chainhead",
			Name:      "blocks_pruned_total",
			Help:      "Number of block hashes reported pruned by a finalized event.",
		}),
	}
}

// Register adds the collectors to reg.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	if m == nil {
		return nil
	}

	collectors := []prometheus.Collector{
		m.eventsTotal, m.operationsStarted, m.operationsInflight, m.sessionsActive, m.blocksPruned,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return err
		}
	}

	return nil
}

func (m *Metrics) observeEvent(event Event) {
	if m == nil {
		return
	}

	m.eventsTotal.WithLabelValues(event.eventTag()).Inc()

	switch e := event.(type) {
	case Finalized:
		m.blocksPruned.Add(float64(len(e.PrunedBlockHashes)))
	case OperationBodyDone, OperationCallDone, OperationStorageDone, OperationError, OperationInaccessible:
		m.operationsInflight.Dec()
	}
}

func (m *Metrics) observeOperationStarted() {
	if m == nil {
		return
	}
	m.operationsStarted.Inc()
	m.operationsInflight.Inc()
}

func (m *Metrics) observeSessionStarted() {
	if m == nil {
		return
	}
	m.sessionsActive.Inc()
}

func (m *Metrics) observeSessionEnded() {
	if m == nil {
		return
	}
	m.sessionsActive.Dec()
}

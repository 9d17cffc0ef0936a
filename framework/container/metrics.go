package container

import (
	"time"

	metrics "github.com/rcrowley/go-metrics"
)

// BuildStats summarizes the builds of one service.
type BuildStats struct {
	ID       string        `json:"id"`
	Builds   int64         `json:"builds"`
	Failures int64         `json:"failures"`
	Mean     time.Duration `json:"mean_ns"`
	Max      time.Duration `json:"max_ns"`
}

// buildMetrics records per-service build counts and durations in a
// go-metrics registry under "container.build.<id>".
type buildMetrics struct {
	registry metrics.Registry
}

func newBuildMetrics(r metrics.Registry) *buildMetrics {
	if r == nil {
		r = metrics.NewRegistry()
	}
	return &buildMetrics{registry: r}
}

func (m *buildMetrics) built(id string, d time.Duration) {
	metrics.GetOrRegisterTimer(m.name(id, "time"), m.registry).Update(d)
	metrics.GetOrRegisterCounter(m.name(id, "count"), m.registry).Inc(1)
}

func (m *buildMetrics) failed(id string) {
	metrics.GetOrRegisterCounter(m.name(id, "failed"), m.registry).Inc(1)
}

func (m *buildMetrics) stats(id string) BuildStats {
	s := BuildStats{ID: id}
	if c, ok := m.registry.Get(m.name(id, "count")).(metrics.Counter); ok {
		s.Builds = c.Count()
	}
	if c, ok := m.registry.Get(m.name(id, "failed")).(metrics.Counter); ok {
		s.Failures = c.Count()
	}
	if t, ok := m.registry.Get(m.name(id, "time")).(metrics.Timer); ok {
		snap := t.Snapshot()
		s.Mean = time.Duration(snap.Mean())
		s.Max = time.Duration(snap.Max())
	}
	return s
}

func (m *buildMetrics) name(id, metric string) string {
	return "container.build." + id + "." + metric
}

package recognize

import (
	"slices"
	"sync"
	"sync/atomic"
	"time"
)

// latencySamples is the size of the pass latency ring.
const latencySamples = 256

// Metrics counts coordinator activity. All methods are safe for
// concurrent use.
type Metrics struct {
	passes        atomic.Uint64
	passFailures  atomic.Uint64
	rejected      atomic.Uint64
	noInk         atomic.Uint64
	segmentErrors atomic.Uint64
	calls         atomic.Uint64
	failures      atomic.Uint64
	timeouts      atomic.Uint64
	panics        atomic.Uint64

	peakLatency atomic.Int64

	mu         sync.Mutex
	latencies  []time.Duration
	latencyIdx int
	startTime  time.Time
}

// NewMetrics creates an empty metrics tracker.
func NewMetrics() *Metrics {
	return &Metrics{
		latencies: make([]time.Duration, latencySamples),
		startTime: time.Now(),
	}
}

// RecordPass records a settled pass.
func (m *Metrics) RecordPass(latency time.Duration, err error) {
	m.passes.Add(1)
	if err != nil {
		m.passFailures.Add(1)
	}

	ns := latency.Nanoseconds()
	for {
		cur := m.peakLatency.Load()
		if ns <= cur || m.peakLatency.CompareAndSwap(cur, ns) {
			break
		}
	}

	m.mu.Lock()
	m.latencies[m.latencyIdx] = latency
	m.latencyIdx = (m.latencyIdx + 1) % len(m.latencies)
	m.mu.Unlock()
}

// RecordRejected records a request dropped because a pass was running.
func (m *Metrics) RecordRejected() { m.rejected.Add(1) }

// RecordNoInk records a request with nothing to recognize.
func (m *Metrics) RecordNoInk() { m.noInk.Add(1) }

// RecordSegmentationFailure records a grouping failure.
func (m *Metrics) RecordSegmentationFailure() { m.segmentErrors.Add(1) }

// RecordCall records a recognizer invocation.
func (m *Metrics) RecordCall() { m.calls.Add(1) }

// RecordFailure records a recognizer error.
func (m *Metrics) RecordFailure() { m.failures.Add(1) }

// RecordTimeout records a recognizer timeout.
func (m *Metrics) RecordTimeout() { m.timeouts.Add(1) }

// RecordPanic records a recovered recognizer panic.
func (m *Metrics) RecordPanic() { m.panics.Add(1) }

// MetricsSnapshot is a point-in-time view of Metrics.
type MetricsSnapshot struct {
	Passes             uint64
	PassFailures       uint64
	Rejected           uint64
	NoInk              uint64
	SegmentationErrors uint64
	RecognizerCalls    uint64
	RecognizerFailures uint64
	RecognizerTimeouts uint64
	RecognizerPanics   uint64
	AvgPassLatency     time.Duration
	P99PassLatency     time.Duration
	PeakPassLatency    time.Duration
	Uptime             time.Duration
}

// Snapshot returns the current counters and latency statistics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.Lock()
	lat := slices.Clone(m.latencies)
	start := m.startTime
	m.mu.Unlock()

	s := MetricsSnapshot{
		Passes:             m.passes.Load(),
		PassFailures:       m.passFailures.Load(),
		Rejected:           m.rejected.Load(),
		NoInk:              m.noInk.Load(),
		SegmentationErrors: m.segmentErrors.Load(),
		RecognizerCalls:    m.calls.Load(),
		RecognizerFailures: m.failures.Load(),
		RecognizerTimeouts: m.timeouts.Load(),
		RecognizerPanics:   m.panics.Load(),
		PeakPassLatency:    time.Duration(m.peakLatency.Load()),
		Uptime:             time.Since(start),
	}
	s.AvgPassLatency, s.P99PassLatency = latencyStats(lat)
	return s
}

func latencyStats(latencies []time.Duration) (avg, p99 time.Duration) {
	valid := make([]time.Duration, 0, len(latencies))
	for _, l := range latencies {
		if l > 0 {
			valid = append(valid, l)
		}
	}
	if len(valid) == 0 {
		return 0, 0
	}
	var sum time.Duration
	for _, l := range valid {
		sum += l
	}
	slices.Sort(valid)
	idx := min(int(float64(len(valid))*0.99), len(valid)-1)
	return sum / time.Duration(len(valid)), valid[idx]
}

// Reset clears all metrics.
func (m *Metrics) Reset() {
	for _, c := range []*atomic.Uint64{
		&m.passes, &m.passFailures, &m.rejected, &m.noInk, &m.segmentErrors,
		&m.calls, &m.failures, &m.timeouts, &m.panics,
	} {
		c.Store(0)
	}
	m.peakLatency.Store(0)

	m.mu.Lock()
	m.latencies = make([]time.Duration, latencySamples)
	m.latencyIdx = 0
	m.startTime = time.Now()
	m.mu.Unlock()
}

package metrics

import (
	"sync"
	"sync/atomic"
)

// Collector collects and aggregates metrics for the application.
// It backs the in-process view; PrometheusExporter mirrors it for scraping.
type Collector struct {
	// API metrics, keyed by method (gRPC full method or HTTP route)
	apiRequests sync.Map // map[string]*uint64 - method -> count
	apiErrors   sync.Map // map[string]*uint64 - method -> error count
	apiDuration sync.Map // map[string]*durationValue - method -> total duration in seconds

	// Analysis metrics
	lookups          uint64
	findingsReturned uint64
	emptyLookups     uint64
	graphUnavailable uint64
	reports          sync.Map // map[string]*uint64 - strategy -> count
	reportFailures   sync.Map // map[string]*uint64 - strategy -> count
}

// durationValue holds duration with mutex for thread-safe updates.
type durationValue struct {
	mu           sync.Mutex
	totalSeconds float64
}

// APIMetrics holds API request metrics.
type APIMetrics struct {
	RequestCounts        map[string]uint64
	ErrorCounts          map[string]uint64
	TotalDurationSeconds map[string]float64
}

// AnalysisMetrics holds lookup and report metrics.
type AnalysisMetrics struct {
	Lookups          uint64
	FindingsReturned uint64
	EmptyLookups     uint64
	GraphUnavailable uint64
	Reports          map[string]uint64
	ReportFailures   map[string]uint64
}

// NewCollector creates a new metrics collector.
func NewCollector() *Collector {
	return &Collector{}
}

// RecordRequest records an API request.
func (c *Collector) RecordRequest(method string) {
	counter := c.getOrCreateCounter(&c.apiRequests, method)
	atomic.AddUint64(counter, 1)
}

// RecordError records an API error.
func (c *Collector) RecordError(method string) {
	counter := c.getOrCreateCounter(&c.apiErrors, method)
	atomic.AddUint64(counter, 1)
}

// RecordDuration records the duration of an API call in seconds.
func (c *Collector) RecordDuration(method string, durationSeconds float64) {
	val, _ := c.apiDuration.LoadOrStore(method, &durationValue{})
	dv := val.(*durationValue)

	dv.mu.Lock()
	dv.totalSeconds += durationSeconds
	dv.mu.Unlock()
}

// RecordLookup records a completed transfer lookup and its result size.
func (c *Collector) RecordLookup(findings int) {
	atomic.AddUint64(&c.lookups, 1)
	atomic.AddUint64(&c.findingsReturned, uint64(findings))
	if findings == 0 {
		atomic.AddUint64(&c.emptyLookups, 1)
	}
}

// RecordGraphUnavailable records a lookup that failed to reach the graph store.
func (c *Collector) RecordGraphUnavailable() {
	atomic.AddUint64(&c.graphUnavailable, 1)
}

// RecordReport records a generated report.
func (c *Collector) RecordReport(strategy string) {
	atomic.AddUint64(c.getOrCreateCounter(&c.reports, strategy), 1)
}

// RecordReportFailure records a failed report generation.
func (c *Collector) RecordReportFailure(strategy string) {
	atomic.AddUint64(c.getOrCreateCounter(&c.reportFailures, strategy), 1)
}

// GetAPIMetrics returns current API metrics.
func (c *Collector) GetAPIMetrics() *APIMetrics {
	result := &APIMetrics{
		RequestCounts:        loadCounters(&c.apiRequests),
		ErrorCounts:          loadCounters(&c.apiErrors),
		TotalDurationSeconds: make(map[string]float64),
	}

	// Collect duration totals
	c.apiDuration.Range(func(key, value interface{}) bool {
		method := key.(string)
		dv := value.(*durationValue)
		dv.mu.Lock()
		result.TotalDurationSeconds[method] = dv.totalSeconds
		dv.mu.Unlock()
		return true
	})

	return result
}

// GetAnalysisMetrics returns current lookup and report metrics.
func (c *Collector) GetAnalysisMetrics() *AnalysisMetrics {
	return &AnalysisMetrics{
		Lookups:          atomic.LoadUint64(&c.lookups),
		FindingsReturned: atomic.LoadUint64(&c.findingsReturned),
		EmptyLookups:     atomic.LoadUint64(&c.emptyLookups),
		GraphUnavailable: atomic.LoadUint64(&c.graphUnavailable),
		Reports:          loadCounters(&c.reports),
		ReportFailures:   loadCounters(&c.reportFailures),
	}
}

// getOrCreateCounter gets or creates a counter for the given key.
func (c *Collector) getOrCreateCounter(m *sync.Map, key string) *uint64 {
	val, _ := m.LoadOrStore(key, new(uint64))
	return val.(*uint64)
}

func loadCounters(m *sync.Map) map[string]uint64 {
	out := make(map[string]uint64)
	m.Range(func(key, value interface{}) bool {
		out[key.(string)] = atomic.LoadUint64(value.(*uint64))
		return true
	})
	return out
}

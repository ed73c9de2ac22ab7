package metrics

// AnalysisRecorder records lookup and report outcomes on both the collector
// and the exporter. A nil exporter is allowed.
type AnalysisRecorder struct {
	collector *Collector
	exporter  *PrometheusExporter
}

// NewAnalysisRecorder creates a new AnalysisRecorder
func NewAnalysisRecorder(collector *Collector, exporter *PrometheusExporter) *AnalysisRecorder {
	return &AnalysisRecorder{collector: collector, exporter: exporter}
}

// ObserveLookup records a successful lookup
func (r *AnalysisRecorder) ObserveLookup(findings int) {
	r.collector.RecordLookup(findings)
	if r.exporter != nil {
		r.exporter.RecordLookup(findings)
	}
}

// ObserveGraphUnavailable records a graph store failure
func (r *AnalysisRecorder) ObserveGraphUnavailable() {
	r.collector.RecordGraphUnavailable()
	if r.exporter != nil {
		r.exporter.RecordGraphUnavailable()
	}
}

// ObserveReport records a report outcome
func (r *AnalysisRecorder) ObserveReport(strategy string, err error) {
	if err != nil {
		r.collector.RecordReportFailure(strategy)
		if r.exporter != nil {
			r.exporter.RecordReportFailure(strategy)
		}
		return
	}
	r.collector.RecordReport(strategy)
	if r.exporter != nil {
		r.exporter.RecordReport(strategy)
	}
}

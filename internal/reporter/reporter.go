package reporter

// Reporter defines the interface for progress reporting.
type Reporter interface {
	Initialization(summary MediaSummary)
	SegmentationStarted(totalFrames int)
	SegmentationProgress(progress ProgressSnapshot)
	ScenesDetected(count int)
	SceneSummary(summary SceneSummary)
	ScorerComplete(outcome ScorerOutcome)
	AnalysisComplete(outcome AnalysisOutcome)
	Warning(message string)
	Error(err ReporterError)
	OperationComplete(message string)
	BatchStarted(info BatchStartInfo)
	FileProgress(context FileProgressContext)
	BatchComplete(summary BatchSummary)
	Verbose(message string)
}

// NullReporter is a no-op reporter that discards all updates.
type NullReporter struct{}

func (NullReporter) Initialization(MediaSummary)           {}
func (NullReporter) SegmentationStarted(int)               {}
func (NullReporter) SegmentationProgress(ProgressSnapshot) {}
func (NullReporter) ScenesDetected(int)                    {}
func (NullReporter) SceneSummary(SceneSummary)             {}
func (NullReporter) ScorerComplete(ScorerOutcome)          {}
func (NullReporter) AnalysisComplete(AnalysisOutcome)      {}
func (NullReporter) Warning(string)                        {}
func (NullReporter) Error(ReporterError)                   {}
func (NullReporter) OperationComplete(string)              {}
func (NullReporter) BatchStarted(BatchStartInfo)           {}
func (NullReporter) FileProgress(FileProgressContext)      {}
func (NullReporter) BatchComplete(BatchSummary)            {}
func (NullReporter) Verbose(string)                        {}

package reporter

// CompositeReporter fans out events to multiple reporters.
type CompositeReporter struct {
	reporters []Reporter
}

// NewCompositeReporter creates a composite reporter.
func NewCompositeReporter(reporters ...Reporter) *CompositeReporter {
	return &CompositeReporter{reporters: reporters}
}

func (c *CompositeReporter) Initialization(summary MediaSummary) {
	for _, r := range c.reporters {
		r.Initialization(summary)
	}
}

func (c *CompositeReporter) SegmentationStarted(totalFrames int) {
	for _, r := range c.reporters {
		r.SegmentationStarted(totalFrames)
	}
}

func (c *CompositeReporter) SegmentationProgress(progress ProgressSnapshot) {
	for _, r := range c.reporters {
		r.SegmentationProgress(progress)
	}
}

func (c *CompositeReporter) ScenesDetected(count int) {
	for _, r := range c.reporters {
		r.ScenesDetected(count)
	}
}

func (c *CompositeReporter) SceneSummary(summary SceneSummary) {
	for _, r := range c.reporters {
		r.SceneSummary(summary)
	}
}

func (c *CompositeReporter) ScorerComplete(outcome ScorerOutcome) {
	for _, r := range c.reporters {
		r.ScorerComplete(outcome)
	}
}

func (c *CompositeReporter) AnalysisComplete(outcome AnalysisOutcome) {
	for _, r := range c.reporters {
		r.AnalysisComplete(outcome)
	}
}

func (c *CompositeReporter) Warning(message string) {
	for _, r := range c.reporters {
		r.Warning(message)
	}
}

func (c *CompositeReporter) Error(err ReporterError) {
	for _, r := range c.reporters {
		r.Error(err)
	}
}

func (c *CompositeReporter) OperationComplete(message string) {
	for _, r := range c.reporters {
		r.OperationComplete(message)
	}
}

func (c *CompositeReporter) BatchStarted(info BatchStartInfo) {
	for _, r := range c.reporters {
		r.BatchStarted(info)
	}
}

func (c *CompositeReporter) FileProgress(context FileProgressContext) {
	for _, r := range c.reporters {
		r.FileProgress(context)
	}
}

func (c *CompositeReporter) BatchComplete(summary BatchSummary) {
	for _, r := range c.reporters {
		r.BatchComplete(summary)
	}
}

func (c *CompositeReporter) Verbose(message string) {
	for _, r := range c.reporters {
		r.Verbose(message)
	}
}

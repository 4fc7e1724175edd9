package evaluator

import "context"

// Input carries the submission metadata available for automated review.
type Input struct {
	SubmissionID string
	FileName     string
	Department   string
	SlideCount   int
	SizeBytes    int64
}

// Factors holds the weighted sub-scores, each on a 0-100 scale.
type Factors struct {
	FilenameQuality  int
	ContentStructure int
	VisualDesign     int
	Completeness     int
	Clarity          int
	Relevance        int
}

// Report is the structured feedback produced for a single submission.
type Report struct {
	Score           int
	Factors         Factors
	Strengths       []string
	Improvements    []string
	Recommendations []string
	Insights        []string
}

// Evaluator grades presentation submissions from their metadata.
type Evaluator interface {
	Evaluate(ctx context.Context, input Input) (Report, error)
}

package models

// FactorScores breaks the overall score into weighted sub-scores, each on a
// 0-100 scale.
type FactorScores struct {
	FilenameQuality  int `json:"filename_quality"`
	ContentStructure int `json:"content_structure"`
	VisualDesign     int `json:"visual_design"`
	Completeness     int `json:"completeness"`
	Clarity          int `json:"clarity"`
	Relevance        int `json:"relevance"`
}

// AnalysisResult captures the outcome of the automated presentation review.
// Results derive deterministically from submission metadata so repeated runs
// over the same submission produce identical values.
type AnalysisResult struct {
	Score           int          `json:"score"`
	Factors         FactorScores `json:"factors"`
	Strengths       []string     `json:"strengths"`
	Improvements    []string     `json:"improvements"`
	Recommendations []string     `json:"recommendations"`
	Insights        []string     `json:"insights"`
}

package dto

import (
	"time"

	"github.com/guru03-coder/SlideSense/internal/models"
)

// UploadRequest describes the multipart payload for presentation upload.
// The file itself arrives as the "file" form part.
type UploadRequest struct {
	RollNumber string `form:"rollNumber" validate:"required,min=3"`
	SlideCount int    `form:"slideCount" validate:"omitempty,gte=0,lte=500"`
}

// FactorsResponse serializes the weighted sub-scores of an analysis.
type FactorsResponse struct {
	FilenameQuality  int `json:"filename_quality"`
	ContentStructure int `json:"content_structure"`
	VisualDesign     int `json:"visual_design"`
	Completeness     int `json:"completeness"`
	Clarity          int `json:"clarity"`
	Relevance        int `json:"relevance"`
}

// AnalysisResponse serializes the automated review outcome.
type AnalysisResponse struct {
	Score           int             `json:"score"`
	Factors         FactorsResponse `json:"factors"`
	Strengths       []string        `json:"strengths"`
	Improvements    []string        `json:"improvements"`
	Recommendations []string        `json:"recommendations"`
	Insights        []string        `json:"insights"`
}

// SubmissionResponse is returned to API clients when viewing submissions.
// Score mirrors the analysis score so list views need not unpack the full
// analysis object.
type SubmissionResponse struct {
	ID              string            `json:"id"`
	FileName        string            `json:"file_name"`
	StudentName     string            `json:"student_name"`
	RollNumber      string            `json:"roll_number"`
	Department      string            `json:"department"`
	SlideCount      int               `json:"slide_count"`
	SizeBytes       int64             `json:"size_bytes,omitempty"`
	MimeType        string            `json:"mime_type,omitempty"`
	Status          string            `json:"status"`
	RejectionReason string            `json:"rejection_reason,omitempty"`
	FilePath        string            `json:"file_path"`
	UploadedAt      time.Time         `json:"uploaded_at"`
	Score           *int              `json:"score,omitempty"`
	Analysis        *AnalysisResponse `json:"analysis,omitempty"`
}

// StudentDashboardResponse aggregates a student's own submission pipeline.
type StudentDashboardResponse struct {
	RollNumber   string               `json:"roll_number"`
	Total        int                  `json:"total"`
	Pending      int                  `json:"pending"`
	Approved     int                  `json:"approved"`
	Rejected     int                  `json:"rejected"`
	AverageScore *float64             `json:"average_score"`
	Submissions  []SubmissionResponse `json:"submissions"`
}

// NewAnalysisResponse converts an analysis result into a DTO.
func NewAnalysisResponse(model models.AnalysisResult) AnalysisResponse {
	return AnalysisResponse{
		Score: model.Score,
		Factors: FactorsResponse{
			FilenameQuality:  model.Factors.FilenameQuality,
			ContentStructure: model.Factors.ContentStructure,
			VisualDesign:     model.Factors.VisualDesign,
			Completeness:     model.Factors.Completeness,
			Clarity:          model.Factors.Clarity,
			Relevance:        model.Factors.Relevance,
		},
		Strengths:       model.Strengths,
		Improvements:    model.Improvements,
		Recommendations: model.Recommendations,
		Insights:        model.Insights,
	}
}

// NewSubmissionResponse converts a Submission model into a DTO.
func NewSubmissionResponse(model models.Submission) SubmissionResponse {
	response := SubmissionResponse{
		ID:              model.ID,
		FileName:        model.FileName,
		StudentName:     model.StudentName,
		RollNumber:      model.RollNumber,
		Department:      model.Department,
		SlideCount:      model.SlideCount,
		SizeBytes:       model.SizeBytes,
		MimeType:        model.MimeType,
		Status:          string(model.Status),
		RejectionReason: model.RejectionReason,
		FilePath:        model.FilePath,
		UploadedAt:      model.UploadedAt,
	}

	if model.Analysis != nil {
		analysis := NewAnalysisResponse(*model.Analysis)
		response.Analysis = &analysis
		score := model.Analysis.Score
		response.Score = &score
	}

	return response
}

// NewSubmissionResponseSlice converts submission models into DTOs.
func NewSubmissionResponseSlice(models []models.Submission) []SubmissionResponse {
	responses := make([]SubmissionResponse, 0, len(models))
	for _, submission := range models {
		responses = append(responses, NewSubmissionResponse(submission))
	}

	return responses
}

package models

import (
	"strings"
	"time"
)

// SubmissionStatus enumerates the review lifecycle states of a presentation.
type SubmissionStatus string

// Lifecycle states. Every submission starts as pending and moves to exactly
// one terminal state through an explicit staff decision.
const (
	StatusPending  SubmissionStatus = "pending"
	StatusApproved SubmissionStatus = "approved"
	StatusRejected SubmissionStatus = "rejected"
)

// ParseStatus normalizes raw status input into a known lifecycle state.
func ParseStatus(raw string) (SubmissionStatus, bool) {
	switch SubmissionStatus(strings.ToLower(strings.TrimSpace(raw))) {
	case StatusPending:
		return StatusPending, true
	case StatusApproved:
		return StatusApproved, true
	case StatusRejected:
		return StatusRejected, true
	default:
		return "", false
	}
}

// Submission is a single uploaded presentation together with its review state.
// The JSON tags define the persisted record layout in the data file.
type Submission struct {
	ID              string           `json:"id"`
	FileName        string           `json:"file_name"`
	StudentName     string           `json:"student_name"`
	RollNumber      string           `json:"roll_number"`
	Department      string           `json:"department"`
	SlideCount      int              `json:"slide_count"`
	SizeBytes       int64            `json:"size_bytes,omitempty"`
	MimeType        string           `json:"mime_type,omitempty"`
	Status          SubmissionStatus `json:"status"`
	RejectionReason string           `json:"rejection_reason,omitempty"`
	FilePath        string           `json:"file_path"`
	UploadedAt      time.Time        `json:"uploaded_at"`
	Analysis        *AnalysisResult  `json:"analysis,omitempty"`
}

// IsPending reports whether the submission still awaits a staff decision.
func (s Submission) IsPending() bool {
	return s.Status == StatusPending
}

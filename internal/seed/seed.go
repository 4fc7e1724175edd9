// Package seed ships the demo roster and submissions the portal starts with.
// The credential set is fixed (the portal has no registration flow); demo
// submissions are applied once, only when the data file is empty.
package seed

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/guru03-coder/SlideSense/internal/models"
	"github.com/guru03-coder/SlideSense/internal/repository"
	"github.com/guru03-coder/SlideSense/pkg/evaluator"
)

const pptxMimeType = "application/vnd.openxmlformats-officedocument.presentationml.presentation"

// StaffAccounts returns the demo staff credential set.
func StaffAccounts() []models.StaffAccount {
	return []models.StaffAccount{
		{ID: "1", Name: "Dr. John Smith", Email: "teacher@example.com", Password: "password123"},
		{ID: "2", Name: "Admin User", Email: "admin@example.com", Password: "admin123"},
	}
}

// StudentAccounts returns the demo student roster.
func StudentAccounts() []models.StudentAccount {
	return []models.StudentAccount{
		{ID: "1", RollNumber: "21CS001", Password: "student123", Name: "Rahul Kumar", Email: "rahul@example.com", Department: "CSE"},
		{ID: "2", RollNumber: "21EE015", Password: "student123", Name: "Priya Sharma", Email: "priya@example.com", Department: "EEE"},
		{ID: "3", RollNumber: "21ME023", Password: "student123", Name: "Amit Patel", Email: "amit@example.com", Department: "MECH"},
		{ID: "4", RollNumber: "21CS045", Password: "student123", Name: "Sneha Reddy", Email: "sneha@example.com", Department: "CSE"},
		{ID: "5", RollNumber: "21CE012", Password: "student123", Name: "Vikram Singh", Email: "vikram@example.com", Department: "CIVIL"},
		{ID: "6", RollNumber: "21PH008", Password: "student123", Name: "Anjali Gupta", Email: "anjali@example.com", Department: "PHYSICS"},
	}
}

// Submissions returns the demo presentations. Each record is scored through
// the supplied evaluator so seeded data carries the same analysis shape as
// live uploads; records whose evaluation fails are seeded without one.
func Submissions(ctx context.Context, eval evaluator.Evaluator, logger zerolog.Logger) []models.Submission {
	items := []models.Submission{
		{
			ID:          "1",
			FileName:    "AI_Machine_Learning_Presentation.pptx",
			StudentName: "Rahul Kumar",
			RollNumber:  "21CS001",
			Department:  "CSE",
			SlideCount:  24,
			Status:      models.StatusApproved,
			UploadedAt:  time.Date(2025, 11, 8, 10, 30, 0, 0, time.UTC),
		},
		{
			ID:          "2",
			FileName:    "Power_Systems_Analysis.pptx",
			StudentName: "Priya Sharma",
			RollNumber:  "21EE015",
			Department:  "EEE",
			SlideCount:  18,
			Status:      models.StatusPending,
			UploadedAt:  time.Date(2025, 11, 8, 9, 15, 0, 0, time.UTC),
		},
		{
			ID:          "3",
			FileName:    "Thermodynamics_Project.pptx",
			StudentName: "Amit Patel",
			RollNumber:  "21ME023",
			Department:  "MECH",
			SlideCount:  20,
			Status:      models.StatusPending,
			UploadedAt:  time.Date(2025, 11, 7, 16, 45, 0, 0, time.UTC),
		},
		{
			ID:          "4",
			FileName:    "Database_Management_Systems.pptx",
			StudentName: "Sneha Reddy",
			RollNumber:  "21CS045",
			Department:  "CSE",
			SlideCount:  22,
			Status:      models.StatusApproved,
			UploadedAt:  time.Date(2025, 11, 7, 14, 20, 0, 0, time.UTC),
		},
		{
			ID:          "5",
			FileName:    "Structural_Engineering.pptx",
			StudentName: "Vikram Singh",
			RollNumber:  "21CE012",
			Department:  "CIVIL",
			SlideCount:  16,
			Status:      models.StatusPending,
			UploadedAt:  time.Date(2025, 11, 7, 11, 30, 0, 0, time.UTC),
		},
		{
			ID:          "6",
			FileName:    "Quantum_Physics_Research.pptx",
			StudentName: "Anjali Gupta",
			RollNumber:  "21PH008",
			Department:  "PHYSICS",
			SlideCount:  28,
			Status:      models.StatusApproved,
			UploadedAt:  time.Date(2025, 11, 6, 15, 15, 0, 0, time.UTC),
		},
	}

	for i := range items {
		items[i].MimeType = pptxMimeType
		items[i].FilePath = "/uploads/" + items[i].ID + ".pptx"

		report, err := eval.Evaluate(ctx, evaluator.Input{
			SubmissionID: items[i].ID,
			FileName:     items[i].FileName,
			Department:   items[i].Department,
			SlideCount:   items[i].SlideCount,
		})
		if err != nil {
			logger.Warn().Err(err).Str("submission_id", items[i].ID).Msg("seed analysis failed")
			continue
		}
		items[i].Analysis = &models.AnalysisResult{
			Score: report.Score,
			Factors: models.FactorScores{
				FilenameQuality:  report.Factors.FilenameQuality,
				ContentStructure: report.Factors.ContentStructure,
				VisualDesign:     report.Factors.VisualDesign,
				Completeness:     report.Factors.Completeness,
				Clarity:          report.Factors.Clarity,
				Relevance:        report.Factors.Relevance,
			},
			Strengths:       report.Strengths,
			Improvements:    report.Improvements,
			Recommendations: report.Recommendations,
			Insights:        report.Insights,
		}
	}

	return items
}

// Apply writes the demo submissions into an empty repository. A repository
// that already holds records is left untouched so restarts never clobber
// live data.
func Apply(ctx context.Context, submissions repository.SubmissionRepository, eval evaluator.Evaluator, logger zerolog.Logger) error {
	count, err := submissions.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		logger.Debug().Int("records", count).Msg("store already populated, skipping demo seed")
		return nil
	}

	items := Submissions(ctx, eval, logger)
	if err := submissions.ReplaceAll(ctx, items); err != nil {
		return err
	}

	logger.Info().Int("records", len(items)).Msg("demo submissions seeded")
	return nil
}

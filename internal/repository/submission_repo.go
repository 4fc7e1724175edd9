package repository

import (
	"context"
	"sort"
	"strings"

	"github.com/guru03-coder/SlideSense/internal/models"
	"github.com/guru03-coder/SlideSense/internal/store"
)

// SubmissionFilter allows narrowing submission queries. Zero-value fields
// match everything; a Department of "All" is treated as unset.
type SubmissionFilter struct {
	Search     string
	Department string
	RollNumber string
	Status     *models.SubmissionStatus
	MinScore   *float64
	MaxScore   *float64
}

// SubmissionRepository defines data operations for submissions.
type SubmissionRepository interface {
	List(ctx context.Context, filter SubmissionFilter) ([]models.Submission, error)
	GetByID(ctx context.Context, id string) (models.Submission, error)
	Create(ctx context.Context, submission models.Submission) error
	Update(ctx context.Context, id string, mutate func(*models.Submission) error) (models.Submission, error)
	ReplaceAll(ctx context.Context, submissions []models.Submission) error
	Count(ctx context.Context) (int, error)
}

type submissionRepository struct {
	store *store.Store
}

// NewSubmissionRepository instantiates a repository backed by the JSON data
// file store. Not-found conditions surface as store.ErrNotFound.
func NewSubmissionRepository(s *store.Store) SubmissionRepository {
	return &submissionRepository{store: s}
}

func (r *submissionRepository) List(ctx context.Context, filter SubmissionFilter) ([]models.Submission, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	items := r.store.List()
	out := make([]models.Submission, 0, len(items))
	for _, item := range items {
		if filter.matches(item) {
			out = append(out, item)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UploadedAt.After(out[j].UploadedAt)
	})

	return out, nil
}

func (r *submissionRepository) GetByID(ctx context.Context, id string) (models.Submission, error) {
	if err := ctx.Err(); err != nil {
		return models.Submission{}, err
	}
	return r.store.Get(id)
}

func (r *submissionRepository) Create(ctx context.Context, submission models.Submission) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.store.Append(submission)
}

func (r *submissionRepository) Update(ctx context.Context, id string, mutate func(*models.Submission) error) (models.Submission, error) {
	if err := ctx.Err(); err != nil {
		return models.Submission{}, err
	}
	return r.store.Update(id, mutate)
}

func (r *submissionRepository) ReplaceAll(ctx context.Context, submissions []models.Submission) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.store.Replace(submissions)
}

func (r *submissionRepository) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return r.store.Len(), nil
}

func (f SubmissionFilter) matches(s models.Submission) bool {
	if f.Status != nil && s.Status != *f.Status {
		return false
	}

	if dept := strings.TrimSpace(f.Department); dept != "" && !strings.EqualFold(dept, "All") {
		if !strings.EqualFold(dept, s.Department) {
			return false
		}
	}

	if roll := strings.TrimSpace(f.RollNumber); roll != "" {
		if !strings.EqualFold(roll, s.RollNumber) {
			return false
		}
	}

	if search := strings.ToLower(strings.TrimSpace(f.Search)); search != "" {
		haystack := strings.ToLower(s.StudentName + " " + s.RollNumber + " " + s.FileName)
		if !strings.Contains(haystack, search) {
			return false
		}
	}

	// Score bounds only ever match analyzed submissions.
	if f.MinScore != nil || f.MaxScore != nil {
		if s.Analysis == nil {
			return false
		}
		score := float64(s.Analysis.Score)
		if f.MinScore != nil && score < *f.MinScore {
			return false
		}
		if f.MaxScore != nil && score > *f.MaxScore {
			return false
		}
	}

	return true
}

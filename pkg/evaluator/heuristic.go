package evaluator

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/rs/zerolog"
)

// Weights applied to each factor when computing the overall score. They sum
// to one, so the overall score stays on the same 0-100 scale as the factors.
const (
	weightFilename     = 0.15
	weightStructure    = 0.25
	weightDesign       = 0.20
	weightCompleteness = 0.20
	weightClarity      = 0.10
	weightRelevance    = 0.10
)

// bytesPerSlide approximates deck length from file size when the uploader did
// not report a slide count.
const bytesPerSlide = 256 * 1024

// knownDepartments lists programmes the review rubric was calibrated for.
var knownDepartments = map[string]struct{}{
	"CSE":     {},
	"EEE":     {},
	"MECH":    {},
	"CIVIL":   {},
	"PHYSICS": {},
}

// genericStems are throwaway base names that signal a file was never renamed.
var genericStems = map[string]struct{}{
	"untitled":     {},
	"presentation": {},
	"pres":         {},
	"slide":        {},
	"slides":       {},
	"new":          {},
	"copy":         {},
	"document":     {},
	"doc":          {},
	"ppt":          {},
	"final":        {},
	"test":         {},
	"demo":         {},
}

// Heuristic scores presentations from filename and deck metadata alone. It is
// fully deterministic: evaluating the same submission twice yields reports
// that compare equal field by field.
type Heuristic struct {
	logger zerolog.Logger
}

// NewHeuristic constructs the metadata-driven evaluator.
func NewHeuristic(logger zerolog.Logger) *Heuristic {
	return &Heuristic{
		logger: logger.With().Str("component", "evaluator").Logger(),
	}
}

var _ Evaluator = (*Heuristic)(nil)

// Evaluate produces the full review report for a submission.
func (h *Heuristic) Evaluate(ctx context.Context, input Input) (Report, error) {
	if err := ctx.Err(); err != nil {
		return Report{}, err
	}

	name := strings.TrimSpace(input.FileName)
	if name == "" {
		return Report{}, fmt.Errorf("file name must not be empty")
	}

	slides := effectiveSlideCount(input)

	factors := Factors{
		FilenameQuality:  filenameScore(name),
		ContentStructure: structureScore(name, slides),
		VisualDesign:     designScore(name),
		Completeness:     completenessScore(slides),
		Clarity:          clarityScore(name),
		Relevance:        relevanceScore(input.SubmissionID, input.Department),
	}

	score := overallScore(factors)

	report := Report{
		Score:           score,
		Factors:         factors,
		Strengths:       strengths(factors),
		Improvements:    improvements(factors),
		Recommendations: recommendations(factors, score, input.SlideCount),
		Insights:        insights(score, input.SlideCount),
	}

	h.logger.Debug().
		Str("submission_id", input.SubmissionID).
		Str("file_name", name).
		Int("score", score).
		Msg("submission evaluated")

	return report, nil
}

// effectiveSlideCount prefers the reported deck length and falls back to a
// size-based estimate for uploads without one.
func effectiveSlideCount(input Input) int {
	if input.SlideCount > 0 {
		return input.SlideCount
	}
	if input.SizeBytes > 0 {
		return int(input.SizeBytes / bytesPerSlide)
	}
	return 0
}

func overallScore(f Factors) int {
	weighted := weightFilename*float64(f.FilenameQuality) +
		weightStructure*float64(f.ContentStructure) +
		weightDesign*float64(f.VisualDesign) +
		weightCompleteness*float64(f.Completeness) +
		weightClarity*float64(f.Clarity) +
		weightRelevance*float64(f.Relevance)

	return clampScore(int(math.Round(weighted)))
}

func filenameScore(name string) int {
	score := 70
	if hasSeparator(name) {
		score += 10
	}
	if startsUpper(name) {
		score += 10
	}
	if n := len(name); n >= 15 && n <= 50 {
		score += 10
	}

	stem := stemOf(name)
	if isNumericOnly(stem) || isGenericStem(stem) {
		score -= 20
	}
	if len(stem) < 8 {
		score -= 15
	}

	return clampScore(score)
}

func structureScore(name string, slides int) int {
	score := 80
	if containsAny(name, "presentation", "project", "report", "analysis") {
		score += 10
	}
	if slides >= 15 && slides <= 25 {
		score += 10
	}
	return clampScore(score)
}

func designScore(name string) int {
	score := 75
	if startsUpper(name) && (hasSeparator(name) || isAlphanumeric(stemOf(name))) {
		score += 15
	}
	if containsAny(name, "design", "visual", "creative", "presentation") {
		score += 10
	}
	if strings.EqualFold(filepath.Ext(name), ".pptx") {
		score += 5
	}
	return clampScore(score)
}

func completenessScore(slides int) int {
	switch {
	case slides >= 15 && slides <= 25:
		return 100
	case slides >= 10 && slides <= 30:
		return 90
	case slides >= 5 && slides <= 40:
		return 80
	default:
		return 70
	}
}

func clarityScore(name string) int {
	score := 80
	if len(tokensOf(name)) >= 2 {
		score += 10
	}
	if n := len(name); n >= 20 && n <= 40 {
		score += 10
	}
	return clampScore(score)
}

func relevanceScore(submissionID, department string) int {
	base := 80
	if _, ok := knownDepartments[strings.ToUpper(strings.TrimSpace(department))]; ok {
		base = 85
	}
	return clampScore(base + relevanceJitter(submissionID))
}

// relevanceJitter replaces sampling noise with a stable hash of the
// submission identifier so that repeated evaluations agree.
func relevanceJitter(submissionID string) int {
	h := fnv.New64a()
	_, _ = h.Write([]byte(submissionID + ":relevance"))
	return int(h.Sum64() % 11)
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func stemOf(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}

func tokensOf(name string) []string {
	return strings.FieldsFunc(stemOf(name), func(r rune) bool {
		return r == '_' || r == '-' || r == ' '
	})
}

func hasSeparator(name string) bool {
	return strings.ContainsAny(name, "_-")
}

func startsUpper(name string) bool {
	for _, r := range name {
		return unicode.IsUpper(r)
	}
	return false
}

func containsAny(name string, keywords ...string) bool {
	lower := strings.ToLower(name)
	for _, keyword := range keywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

func isAlphanumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func isNumericOnly(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func isGenericStem(stem string) bool {
	normalized := strings.ToLower(strings.TrimSpace(stem))
	normalized = strings.TrimRightFunc(normalized, unicode.IsDigit)
	normalized = strings.Trim(normalized, "_- ")
	_, ok := genericStems[normalized]
	return ok
}

package evaluator

import "fmt"

// Feedback templates keyed off factor thresholds. Lists are assembled in a
// fixed factor order so identical inputs produce identical reports.

func strengths(f Factors) []string {
	out := make([]string, 0, 6)
	if f.Completeness > 90 {
		out = append(out, "Comprehensive content coverage")
	}
	if f.ContentStructure > 90 {
		out = append(out, "Well-structured presentation")
	}
	if f.Clarity > 90 {
		out = append(out, "Clear and easy to understand")
	}
	if f.Relevance > 90 {
		out = append(out, "Highly relevant content")
	}
	if f.FilenameQuality > 90 {
		out = append(out, "Professional file naming")
	}
	if f.VisualDesign > 90 {
		out = append(out, "Polished visual design")
	}
	if len(out) == 0 {
		out = append(out, "Good overall presentation")
	}
	return out
}

func improvements(f Factors) []string {
	out := make([]string, 0, 5)
	if f.FilenameQuality < 60 {
		out = append(out, "File naming could be more descriptive")
	}
	if f.ContentStructure < 85 {
		out = append(out, "Content organization could be better")
	}
	if f.VisualDesign < 80 {
		out = append(out, "Visual design needs improvement")
	}
	if f.Completeness < 75 {
		out = append(out, "Topic coverage looks thin for the subject")
	}
	if f.Clarity < 80 {
		out = append(out, "Some concepts need clearer explanation")
	}
	return out
}

func recommendations(f Factors, overall, slideCount int) []string {
	out := make([]string, 0, 8)
	if f.VisualDesign < 85 {
		out = append(out, "Enhance visual design: use consistent color schemes and professional templates")
	}
	if f.ContentStructure < 90 {
		out = append(out, "Improve structure: organize content with clear headings, sections, and logical flow")
	}
	if f.Clarity < 85 {
		out = append(out, "Increase clarity: simplify complex concepts with diagrams and examples")
	}
	if slideCount > 0 && slideCount < 15 {
		out = append(out, fmt.Sprintf("Add more content: current %d slides. Aim for 15-25 slides for comprehensive coverage", slideCount))
	} else if slideCount > 30 {
		out = append(out, fmt.Sprintf("Optimize length: %d slides may be too lengthy. Consider condensing to 20-25 key slides", slideCount))
	}
	if overall < 75 {
		out = append(out, "Add detailed explanations: include more examples, case studies, and supporting data")
	}
	if f.Relevance < 90 {
		out = append(out, "Improve relevance: ensure all content directly relates to the main topic")
	}
	if f.Completeness < 85 {
		out = append(out, "Enhance completeness: cover all key aspects of the topic comprehensively")
	}
	if len(out) == 0 {
		out = append(out, "Excellent work! Your presentation meets high standards. Keep it up!")
	}
	return out
}

func insights(score, slideCount int) []string {
	out := make([]string, 0, 2)
	switch {
	case score >= 90:
		out = append(out, "Outstanding presentation quality! This demonstrates excellent preparation and attention to detail.")
	case score >= 80:
		out = append(out, "Strong presentation with good structure and content. Minor improvements could make it exceptional.")
	case score >= 70:
		out = append(out, "Good foundation. Focus on enhancing visual design and content depth for better impact.")
	default:
		out = append(out, "Presentation has potential. Consider restructuring content and improving visual elements.")
	}

	if slideCount > 0 {
		switch {
		case slideCount >= 15 && slideCount <= 25:
			out = append(out, fmt.Sprintf("Optimal slide count (%d slides) for a comprehensive presentation.", slideCount))
		case slideCount < 15:
			out = append(out, "Consider expanding to 15-20 slides for better topic coverage.")
		default:
			out = append(out, fmt.Sprintf("%d slides may be lengthy. Consider condensing key points.", slideCount))
		}
	}

	return out
}

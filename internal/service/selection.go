package service

import (
	"sort"
	"strings"

	"github.com/hireloop/interview-core-go/internal/analyzer"
	"github.com/hireloop/interview-core-go/internal/model"
)

const (
	maxSelectedQuestions = 2
	minEvidenceLength    = 4
)

// selectQuestions applies the deterministic follow-up policy on top of the
// analyzer's ranked questions: case-insensitive dedup, an evidence gate for
// questions not grounded in the transcript, and a stable ordering by source
// priority, confidence, then brevity. At most maxSelectedQuestions survive.
func selectQuestions(questions []analyzer.FollowUpQuestion) []analyzer.FollowUpQuestion {
	seen := make(map[string]bool)
	var deduped []analyzer.FollowUpQuestion
	for _, q := range questions {
		text := strings.TrimSpace(q.Text)
		if text == "" {
			continue
		}
		key := strings.ToLower(text)
		if seen[key] {
			continue
		}
		seen[key] = true
		q.Text = text
		deduped = append(deduped, q)
	}

	// Questions claiming grounding in the resume, job, or skills need real
	// evidence text. Transcript and unknown sources pass as-is. When the gate
	// would empty the pool entirely, fall back to the unfiltered set.
	var vetted []analyzer.FollowUpQuestion
	for _, q := range deduped {
		if q.Source == model.SourceTranscript || q.Source == model.SourceUnknown {
			vetted = append(vetted, q)
			continue
		}
		if len(strings.TrimSpace(q.Evidence)) >= minEvidenceLength {
			vetted = append(vetted, q)
		}
	}
	if len(vetted) == 0 {
		vetted = deduped
	}

	sort.SliceStable(vetted, func(i, j int) bool {
		pi, pj := model.SourcePriority(vetted[i].Source), model.SourcePriority(vetted[j].Source)
		if pi != pj {
			return pi < pj
		}
		if vetted[i].Confidence != vetted[j].Confidence {
			return vetted[i].Confidence > vetted[j].Confidence
		}
		return len(vetted[i].Text) < len(vetted[j].Text)
	})

	if len(vetted) > maxSelectedQuestions {
		vetted = vetted[:maxSelectedQuestions]
	}
	return vetted
}

// buildSkillGapQuestions derives probe questions for uncovered skills.
func buildSkillGapQuestions(missing []string) []string {
	var questions []string
	for _, skill := range missing {
		skill = strings.TrimSpace(skill)
		if skill == "" {
			continue
		}
		questions = append(questions, "Can you walk me through a concrete situation where you applied "+skill+"?")
		if len(questions) == maxSelectedQuestions {
			break
		}
	}
	return questions
}

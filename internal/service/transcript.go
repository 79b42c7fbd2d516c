package service

import (
	"strings"

	"github.com/hireloop/interview-core-go/internal/model"
)

const (
	minEntryLength      = 2
	lowConfidenceLimit  = 0.35
	lowConfidenceMaxLen = 20
	minWarningSpeechLen = 30
)

// NormalizeTranscript prepares a raw transcript window for analysis: noise
// entries are dropped and consecutive entries from the same speaker are
// merged into one, with averaged confidence and the latest timestamp.
func NormalizeTranscript(entries []model.TranscriptEntry) []model.TranscriptEntry {
	var filtered []model.TranscriptEntry
	for _, entry := range entries {
		text := strings.TrimSpace(entry.Text)
		if len(text) < minEntryLength {
			continue
		}
		// Low-confidence short fragments are usually ASR noise.
		if entry.Confidence < lowConfidenceLimit && len(text) < lowConfidenceMaxLen {
			continue
		}
		entry.Text = text
		filtered = append(filtered, entry)
	}

	var merged []model.TranscriptEntry
	var confidenceSums []float64
	var mergeCounts []int

	for _, entry := range filtered {
		n := len(merged)
		if n > 0 && merged[n-1].Speaker == entry.Speaker {
			merged[n-1].Text = merged[n-1].Text + " " + entry.Text
			merged[n-1].Timestamp = entry.Timestamp
			confidenceSums[n-1] += entry.Confidence
			mergeCounts[n-1]++
			merged[n-1].Confidence = confidenceSums[n-1] / float64(mergeCounts[n-1])
			continue
		}
		merged = append(merged, entry)
		confidenceSums = append(confidenceSums, entry.Confidence)
		mergeCounts = append(mergeCounts, 1)
	}

	return merged
}

// candidateSpeechChars counts candidate speech in the window. Used to
// suppress low-quality warnings triggered by ASR fragments rather than by
// actual thin answers.
func candidateSpeechChars(entries []model.TranscriptEntry) int {
	total := 0
	for _, entry := range entries {
		if entry.Speaker == model.RoleCandidate {
			total += len(entry.Text)
		}
	}
	return total
}

func transcriptText(entries []model.TranscriptEntry) string {
	var b strings.Builder
	for _, entry := range entries {
		b.WriteString(entry.Text)
		b.WriteString(" ")
	}
	return b.String()
}

package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hireloop/interview-core-go/internal/model"
)

func entry(speaker model.Role, text string, confidence float64, at time.Time) model.TranscriptEntry {
	return model.TranscriptEntry{Speaker: speaker, Text: text, Confidence: confidence, Timestamp: at}
}

func TestNormalizeTranscript(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("drops entries shorter than two characters", func(t *testing.T) {
		out := NormalizeTranscript([]model.TranscriptEntry{
			entry(model.RoleCandidate, "a", 0.9, base),
			entry(model.RoleCandidate, " ", 0.9, base),
			entry(model.RoleInterviewer, "ok", 0.9, base),
		})

		require.Len(t, out, 1)
		assert.Equal(t, "ok", out[0].Text)
	})

	t.Run("drops low-confidence short fragments", func(t *testing.T) {
		out := NormalizeTranscript([]model.TranscriptEntry{
			entry(model.RoleCandidate, "um so like", 0.2, base),
			entry(model.RoleCandidate, "this is a confident long answer about testing", 0.2, base),
		})

		// Long entries survive regardless of confidence.
		require.Len(t, out, 1)
		assert.Contains(t, out[0].Text, "confident long answer")
	})

	t.Run("merges consecutive same-speaker entries", func(t *testing.T) {
		out := NormalizeTranscript([]model.TranscriptEntry{
			entry(model.RoleCandidate, "I worked on", 0.8, base),
			entry(model.RoleCandidate, "a payments system", 0.6, base.Add(2*time.Second)),
			entry(model.RoleInterviewer, "tell me more", 0.9, base.Add(4*time.Second)),
		})

		require.Len(t, out, 2)
		assert.Equal(t, "I worked on a payments system", out[0].Text)
		assert.InDelta(t, 0.7, out[0].Confidence, 1e-9)
		assert.Equal(t, base.Add(2*time.Second), out[0].Timestamp)
		assert.Equal(t, model.RoleInterviewer, out[1].Speaker)
	})

	t.Run("does not merge across different speakers", func(t *testing.T) {
		out := NormalizeTranscript([]model.TranscriptEntry{
			entry(model.RoleCandidate, "first answer", 0.8, base),
			entry(model.RoleInterviewer, "next question", 0.8, base),
			entry(model.RoleCandidate, "second answer", 0.8, base),
		})

		assert.Len(t, out, 3)
	})
}

func TestCandidateSpeechChars(t *testing.T) {
	base := time.Now()
	entries := []model.TranscriptEntry{
		entry(model.RoleCandidate, "12345", 0.9, base),
		entry(model.RoleInterviewer, "interviewer text ignored", 0.9, base),
		entry(model.RoleCandidate, "67890", 0.9, base),
	}

	assert.Equal(t, 10, candidateSpeechChars(entries))
}

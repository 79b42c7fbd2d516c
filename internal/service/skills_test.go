package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/hireloop/interview-core-go/internal/model"
)

func newTestTracker() (*SkillTracker, *fakeSkillRepo) {
	repo := newFakeSkillRepo()
	return NewSkillTracker(repo, nil), repo
}

func TestCoveragePercentage(t *testing.T) {
	ctx := context.Background()

	t.Run("empty requirement list is full coverage", func(t *testing.T) {
		tracker, _ := newTestTracker()
		assert.Equal(t, 100, tracker.CoveragePercentage(ctx, "sess-1", nil))
	})

	t.Run("one of two required skills is 50", func(t *testing.T) {
		tracker, _ := newTestTracker()
		tracker.MarkEvaluated(ctx, "sess-1", "a", Evaluation{Quality: model.SkillQualityShallow, Timestamp: time.Now()})

		assert.Equal(t, 50, tracker.CoveragePercentage(ctx, "sess-1", []string{"a", "b"}))
	})

	t.Run("matching is case-insensitive", func(t *testing.T) {
		tracker, _ := newTestTracker()
		tracker.MarkEvaluated(ctx, "sess-1", "Kubernetes", Evaluation{Quality: model.SkillQualityDeep, Timestamp: time.Now()})

		assert.Equal(t, 100, tracker.CoveragePercentage(ctx, "sess-1", []string{"kubernetes"}))
	})

	t.Run("rounds to nearest integer", func(t *testing.T) {
		tracker, _ := newTestTracker()
		tracker.MarkEvaluated(ctx, "sess-1", "a", Evaluation{Quality: model.SkillQualityShallow, Timestamp: time.Now()})

		// 1 of 3 = 33.33 -> 33
		assert.Equal(t, 33, tracker.CoveragePercentage(ctx, "sess-1", []string{"a", "b", "c"}))
	})
}

func TestMarkEvaluated(t *testing.T) {
	ctx := context.Background()

	t.Run("is idempotent", func(t *testing.T) {
		tracker, _ := newTestTracker()
		eval := Evaluation{Quality: model.SkillQualityShallow, Timestamp: time.Now()}
		tracker.MarkEvaluated(ctx, "sess-1", "go", eval)
		tracker.MarkEvaluated(ctx, "sess-1", "go", eval)

		assert.Len(t, tracker.EvaluatedSkills(ctx, "sess-1"), 1)
	})

	t.Run("deep quality never degrades to shallow", func(t *testing.T) {
		tracker, repo := newTestTracker()
		tracker.MarkEvaluated(ctx, "sess-1", "go", Evaluation{Quality: model.SkillQualityDeep, Timestamp: time.Now()})
		tracker.MarkEvaluated(ctx, "sess-1", "go", Evaluation{Quality: model.SkillQualityShallow, Timestamp: time.Now()})

		evals, err := repo.ListBySession(ctx, "sess-1")
		assert.NoError(t, err)
		assert.Len(t, evals, 1)
		assert.Equal(t, model.SkillQualityDeep, evals[0].Quality)
	})

	t.Run("persisted state survives process reattach", func(t *testing.T) {
		repo := newFakeSkillRepo()
		first := NewSkillTracker(repo, nil)
		first.MarkEvaluated(ctx, "sess-1", "sql", Evaluation{Quality: model.SkillQualityDeep, Timestamp: time.Now()})

		second := NewSkillTracker(repo, nil)
		assert.Equal(t, 100, second.CoveragePercentage(ctx, "sess-1", []string{"sql"}))
	})
}

func TestTeardown(t *testing.T) {
	ctx := context.Background()
	tracker, _ := newTestTracker()
	tracker.MarkEvaluated(ctx, "sess-1", "go", Evaluation{Quality: model.SkillQualityShallow, Timestamp: time.Now()})

	tracker.Teardown(ctx, "sess-1")

	tracker.mu.Lock()
	_, exists := tracker.sessions["sess-1"]
	tracker.mu.Unlock()
	assert.False(t, exists)
}

func TestDetectDiscussed(t *testing.T) {
	t.Run("matches case-insensitive substrings", func(t *testing.T) {
		discussed := DetectDiscussed("We used KUBERNETES at my last job", []string{"kubernetes", "terraform"})

		assert.Equal(t, []string{"kubernetes"}, discussed)
	})

	t.Run("empty transcript matches nothing", func(t *testing.T) {
		assert.Empty(t, DetectDiscussed("", []string{"go"}))
	})

	t.Run("ignores empty skill names", func(t *testing.T) {
		assert.Empty(t, DetectDiscussed("anything", []string{""}))
	})
}

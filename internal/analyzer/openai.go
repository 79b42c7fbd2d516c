package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/shared"

	"github.com/hireloop/interview-core-go/internal/config"
	apperrors "github.com/hireloop/interview-core-go/internal/errors"
	"github.com/hireloop/interview-core-go/internal/model"
)

const systemPrompt = `You are an interview coach observing a live interview.
Given the job context and a recent transcript window, respond with a single JSON object:
{
  "quality": <integer 1-10, depth of the candidate's recent answers>,
  "discussedSkills": [<required skills substantively discussed in this window>],
  "missingSkills": [<required skills not yet covered>],
  "followUpQuestions": [
    {"text": "...", "source": "transcript|resume|job|skills|unknown", "confidence": <0-1>, "evidence": "<short quote grounding the question>"}
  ],
  "nextTopic": "<optional topic to move to, or empty>"
}
Questions must be concise and directly askable. Respond with JSON only.`

// Options configure the OpenAI analyzer.
type Options struct {
	Model       string
	Temperature float64
}

// OpenAI implements Analyzer over the Chat Completions API.
type OpenAI struct {
	client *openai.Client
	opts   Options
}

func NewOpenAI(client *openai.Client, optFns ...func(o *Options)) *OpenAI {
	opts := Options{
		Model:       openai.ChatModelGPT4oMini,
		Temperature: 0.3,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &OpenAI{client: client, opts: opts}
}

func (a *OpenAI) Analyze(ctx context.Context, req Request) (*Analysis, error) {
	ctx, cancel := context.WithTimeout(ctx, config.AnalyzerCallTimeout)
	defer cancel()

	params := openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(buildUserPrompt(req)),
		},
		Model:       a.opts.Model,
		Temperature: openai.Float(a.opts.Temperature),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		},
	}

	resp, err := a.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, apperrors.Upstream("analyzer", err)
	}
	if len(resp.Choices) == 0 {
		return nil, apperrors.Upstream("analyzer", fmt.Errorf("empty completion"))
	}

	var analysis Analysis
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &analysis); err != nil {
		return nil, apperrors.Upstream("analyzer", fmt.Errorf("malformed analysis JSON: %w", err))
	}

	sanitize(&analysis)
	return &analysis, nil
}

func buildUserPrompt(req Request) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Job title: %s\n", req.JobTitle)
	fmt.Fprintf(&b, "Required skills: %s\n", strings.Join(req.RequiredSkills, ", "))
	if req.ResumeSummary != "" {
		fmt.Fprintf(&b, "Resume summary: %s\n", req.ResumeSummary)
	}
	if req.Locale != "" {
		fmt.Fprintf(&b, "Respond in locale: %s\n", req.Locale)
	}
	b.WriteString("\nTranscript window:\n")
	for _, entry := range req.Transcript {
		fmt.Fprintf(&b, "[%s] %s\n", entry.Speaker, entry.Text)
	}
	return b.String()
}

// sanitize clamps model output into the contract: quality within 1-10,
// sources from the known set, confidence within [0,1].
func sanitize(a *Analysis) {
	if a.Quality < 1 {
		a.Quality = 1
	}
	if a.Quality > 10 {
		a.Quality = 10
	}
	for i := range a.FollowUps {
		q := &a.FollowUps[i]
		switch q.Source {
		case model.SourceTranscript, model.SourceResume, model.SourceJob, model.SourceSkills:
		default:
			q.Source = model.SourceUnknown
		}
		if q.Confidence < 0 {
			q.Confidence = 0
		}
		if q.Confidence > 1 {
			q.Confidence = 1
		}
	}
}

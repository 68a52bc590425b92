package sentiment

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"finsignal/internal/domain/entity"
	"finsignal/internal/resilience/retry"
)

// OpenAIConfig holds configuration for the OpenAI-backed scorer.
type OpenAIConfig struct {
	Model     string
	MaxTokens int
	Timeout   time.Duration
}

// DefaultOpenAIConfig returns a conservative configuration suitable for
// scoring short news texts.
func DefaultOpenAIConfig() OpenAIConfig {
	return OpenAIConfig{
		Model:     openai.GPT4oMini,
		MaxTokens: 1024,
		Timeout:   60 * time.Second,
	}
}

// OpenAI scores text through the OpenAI chat API. It is an optional remote
// capability; production deployments wrap it with WithFallback so a model
// outage degrades to the keyword heuristic instead of blocking the pipeline.
type OpenAI struct {
	client      *openai.Client
	config      OpenAIConfig
	retryConfig retry.Config
}

// NewOpenAI creates an OpenAI scorer with bounded retries on API calls.
func NewOpenAI(apiKey string, config OpenAIConfig) *OpenAI {
	return &OpenAI{
		client:      openai.NewClient(apiKey),
		config:      config,
		retryConfig: retry.AIAPIConfig(),
	}
}

const scoringSystemPrompt = `You are a financial news sentiment rater.
For every numbered text, output one JSON object with fields "score" (float in
[-1,1]) and "label" (one of "positive", "negative", "neutral").
Respond with a JSON array only, one element per input, in input order.`

type openaiScore struct {
	Score float64 `json:"score"`
	Label string  `json:"label"`
}

// ScoreBatch sends all texts in a single chat completion and maps the JSON
// reply back to results by position.
func (o *OpenAI) ScoreBatch(ctx context.Context, texts []string) ([]Result, error) {
	if len(texts) == 0 {
		return []Result{}, nil
	}

	var sb strings.Builder
	for i, text := range texts {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, text)
	}

	ctx, cancel := context.WithTimeout(ctx, o.config.Timeout)
	defer cancel()

	var content string
	err := retry.WithBackoff(ctx, o.retryConfig, func() error {
		resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:     o.config.Model,
			MaxTokens: o.config.MaxTokens,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: scoringSystemPrompt},
				{Role: openai.ChatMessageRoleUser, Content: sb.String()},
			},
		})
		if err != nil {
			return err
		}
		if len(resp.Choices) == 0 {
			return fmt.Errorf("empty completion response")
		}
		content = resp.Choices[0].Message.Content
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("score batch via openai: %w", err)
	}

	return parseOpenAIScores(content, len(texts))
}

// ModelVersion implements Analyzer.
func (o *OpenAI) ModelVersion() string {
	return "openai-" + o.config.Model
}

func parseOpenAIScores(content string, want int) ([]Result, error) {
	// The model occasionally wraps the array in a markdown fence.
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var raw []openaiScore
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &raw); err != nil {
		return nil, fmt.Errorf("decode scores: %w", err)
	}
	if len(raw) != want {
		return nil, fmt.Errorf("got %d scores for %d texts", len(raw), want)
	}

	results := make([]Result, 0, want)
	for i, r := range raw {
		if r.Score < -1.0 || r.Score > 1.0 {
			return nil, fmt.Errorf("score %d out of range: %.4f", i, r.Score)
		}
		label := entity.SentimentLabel(r.Label)
		if !label.Valid() {
			return nil, fmt.Errorf("score %d has unknown label %q", i, r.Label)
		}
		results = append(results, Result{Score: r.Score, Label: label})
	}
	return results, nil
}

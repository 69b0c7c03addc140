package summarizer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

const (
	openAIProvider = "openai"
	openAIVersion  = "1.0.0"
)

// OpenAISummarizer implements Summarizer with the chat completions API
type OpenAISummarizer struct {
	client *openai.Client
	model  string
}

// NewOpenAISummarizer creates a new OpenAI summarizer. baseURL is optional
// and points the client at a compatible endpoint.
func NewOpenAISummarizer(apiKey, baseURL string) *OpenAISummarizer {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAISummarizer{
		client: openai.NewClientWithConfig(cfg),
		model:  openai.GPT4oMini,
	}
}

func (o *OpenAISummarizer) Provider() string { return openAIProvider }
func (o *OpenAISummarizer) Model() string    { return o.model }
func (o *OpenAISummarizer) Version() string  { return openAIVersion }

func (o *OpenAISummarizer) Summarize(ctx context.Context, input Input) (*Result, error) {
	if strings.TrimSpace(input.Transcript) == "" {
		return nil, fmt.Errorf("transcript is empty")
	}

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You write short, faithful summaries of video transcripts.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildPrompt(input),
			},
		},
		Temperature: 0.2,
		MaxTokens:   400,
	})
	if err != nil {
		return nil, fmt.Errorf("openai completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no choices returned")
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return nil, fmt.Errorf("no text generated")
	}

	return &Result{
		Text:        text,
		Provider:    o.Provider(),
		Model:       o.Model(),
		Version:     o.Version(),
		GeneratedAt: time.Now().UTC(),
	}, nil
}

package summarizer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const (
	geminiProvider     = "gemini"
	geminiDefaultModel = "gemini-2.5-flash-lite"
	geminiVersion      = "2.0.0"

	// maxPromptTranscript is in runes
	maxPromptTranscript = 12000
)

// GeminiSummarizer implements Summarizer using Google's Gemini API
type GeminiSummarizer struct {
	client    *genai.Client
	model     *genai.GenerativeModel
	modelName string
}

// NewGeminiSummarizer creates a new Gemini summarizer
func NewGeminiSummarizer(ctx context.Context, apiKey string) (*GeminiSummarizer, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(geminiDefaultModel)

	temp := float32(0.2)
	model.Temperature = &temp

	maxTokens := int32(400)
	model.MaxOutputTokens = &maxTokens

	return &GeminiSummarizer{
		client:    client,
		model:     model,
		modelName: geminiDefaultModel,
	}, nil
}

func (g *GeminiSummarizer) Provider() string { return geminiProvider }
func (g *GeminiSummarizer) Model() string    { return g.modelName }
func (g *GeminiSummarizer) Version() string  { return geminiVersion }

func (g *GeminiSummarizer) Summarize(ctx context.Context, input Input) (*Result, error) {
	if strings.TrimSpace(input.Transcript) == "" {
		return nil, fmt.Errorf("transcript is empty")
	}

	resp, err := g.model.GenerateContent(ctx, genai.Text(buildPrompt(input)))
	if err != nil {
		return nil, fmt.Errorf("gemini generation failed: %w", err)
	}

	text := extractText(resp)
	if text == "" {
		return nil, fmt.Errorf("no text generated")
	}

	return &Result{
		Text:        text,
		Provider:    g.Provider(),
		Model:       g.Model(),
		Version:     g.Version(),
		GeneratedAt: time.Now().UTC(),
	}, nil
}

// Close closes the Gemini client
func (g *GeminiSummarizer) Close() error {
	return g.client.Close()
}

// buildPrompt is shared by the LLM summarizers. The transcript is the only
// content given to the model.
func buildPrompt(input Input) string {
	var sb strings.Builder

	sb.WriteString("Summarize the following video transcript in 3-5 sentences. ")
	sb.WriteString("Use only information stated in the transcript. ")
	if input.Language != "" {
		sb.WriteString("Write the summary in ")
		sb.WriteString(input.Language)
		sb.WriteString(". ")
	}
	sb.WriteString("Reply with the summary text only.\n\n")

	transcript := truncate(strings.TrimSpace(input.Transcript), maxPromptTranscript)
	sb.WriteString("Transcript:\n")
	sb.WriteString(transcript)
	sb.WriteString("\n\nSummary:")

	return sb.String()
}

func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return ""
	}

	var result strings.Builder
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			result.WriteString(string(text))
		}
	}

	return strings.TrimSpace(result.String())
}

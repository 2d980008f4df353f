package data

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/muratcankoptayyy/tevkil-platform/internal/biz/domain"
	"github.com/muratcankoptayyy/tevkil-platform/internal/biz/repo"
)

const (
	defaultAIBaseURL = "https://models.inference.ai.azure.com"
	defaultAIModel   = "gpt-4o"
)

// AIPrompts holds the prompt templates. {{message}} and {{current}} are
// replaced before sending.
type AIPrompts struct {
	ExtractSystem  string
	Extract        string
	ClassifySystem string
	Classify       string
	CorrectSystem  string
	Correct        string
}

// AIConfig configures the OpenAI-compatible backend
type AIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Prompts AIPrompts
}

// openaiRepo implements repo.ListingAI over any OpenAI-compatible API
type openaiRepo struct {
	client  *openai.Client
	model   string
	prompts AIPrompts
}

// NewOpenAIRepo creates the AI adapter. Without an API key it returns
// ErrAIUnavailable and the bot runs in command-only mode.
func NewOpenAIRepo(cfg AIConfig) (repo.ListingAI, error) {
	if cfg.APIKey == "" {
		return nil, domain.ErrAIUnavailable
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultAIBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultAIModel
	}

	config := openai.DefaultConfig(cfg.APIKey)
	config.BaseURL = cfg.BaseURL

	return &openaiRepo{
		client:  openai.NewClientWithConfig(config),
		model:   cfg.Model,
		prompts: cfg.Prompts,
	}, nil
}

// chat sends one system+user exchange and returns the raw answer
func (r *openaiRepo) chat(ctx context.Context, systemPrompt, userPrompt string, temperature float32, maxTokens int) (string, error) {
	resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: r.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response choices: %w", domain.ErrAIMalformed)
	}

	return resp.Choices[0].Message.Content, nil
}

type extractResponse struct {
	Title       string        `json:"title"`
	Courthouse  *string       `json:"courthouse"`
	City        *string       `json:"city"`
	Description *string       `json:"description"`
	Price       flexibleFloat `json:"price"`
}

func (r *openaiRepo) ExtractListing(ctx context.Context, text string) (*domain.ListingProposal, error) {
	prompt := strings.ReplaceAll(r.prompts.Extract, "{{message}}", text)
	raw, err := r.chat(ctx, r.prompts.ExtractSystem, prompt, 0.3, 500)
	if err != nil {
		return nil, err
	}

	var resp extractResponse
	if err := decodeJSONAnswer(raw, &resp); err != nil {
		return nil, err
	}

	proposal := &domain.ListingProposal{
		Title:       strings.TrimSpace(resp.Title),
		Courthouse:  deref(resp.Courthouse),
		City:        deref(resp.City),
		Description: deref(resp.Description),
		Price:       resp.Price.value,
	}
	fmt.Printf("[AI] Extracted listing: %s\n", proposal.Title)
	return proposal, nil
}

type classifyResponse struct {
	Intent     string        `json:"intent"`
	Confidence flexibleFloat `json:"confidence"`
	Reasoning  string        `json:"reasoning"`
}

func (r *openaiRepo) ClassifyIntent(ctx context.Context, text string) (*domain.IntentResult, error) {
	prompt := strings.ReplaceAll(r.prompts.Classify, "{{message}}", text)
	raw, err := r.chat(ctx, r.prompts.ClassifySystem, prompt, 0.1, 200)
	if err != nil {
		return nil, err
	}

	var resp classifyResponse
	if err := decodeJSONAnswer(raw, &resp); err != nil {
		return nil, err
	}

	return &domain.IntentResult{
		Intent:     domain.ParseIntent(resp.Intent),
		Confidence: clamp01(resp.Confidence.value),
	}, nil
}

// correctionResponse carries only the fields the user changed
type correctionResponse struct {
	Title       *string       `json:"title"`
	Courthouse  *string       `json:"courthouse"`
	City        *string       `json:"city"`
	Description *string       `json:"description"`
	Price       flexibleFloat `json:"price"`
}

func (r *openaiRepo) ExtractCorrection(ctx context.Context, text string, current domain.ListingProposal) (*domain.Correction, error) {
	currentJSON, err := json.MarshalIndent(current, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode current proposal: %w", err)
	}

	prompt := strings.ReplaceAll(r.prompts.Correct, "{{current}}", string(currentJSON))
	prompt = strings.ReplaceAll(prompt, "{{message}}", text)
	raw, err := r.chat(ctx, r.prompts.CorrectSystem, prompt, 0.2, 300)
	if err != nil {
		return nil, err
	}

	var resp correctionResponse
	if err := decodeJSONAnswer(raw, &resp); err != nil {
		return nil, err
	}

	return applyCorrection(current, &resp)
}

// applyCorrection merges the changed fields into current
func applyCorrection(current domain.ListingProposal, resp *correctionResponse) (*domain.Correction, error) {
	updated := current
	var changed []string
	var summary []string

	setString := func(name string, value *string, dst *string) {
		if value == nil {
			return
		}
		v := strings.TrimSpace(*value)
		if v == "" || v == *dst {
			return
		}
		*dst = v
		changed = append(changed, name)
		summary = append(summary, fmt.Sprintf("%s: %s", name, v))
	}

	setString("title", resp.Title, &updated.Title)
	setString("courthouse", resp.Courthouse, &updated.Courthouse)
	setString("city", resp.City, &updated.City)
	setString("description", resp.Description, &updated.Description)

	if resp.Price.set && resp.Price.value > 0 && resp.Price.value != updated.Price {
		updated.Price = resp.Price.value
		changed = append(changed, "price")
		summary = append(summary, fmt.Sprintf("price: %s", strconv.FormatFloat(updated.Price, 'f', -1, 64)))
	}

	if len(changed) == 0 {
		return nil, fmt.Errorf("no field changed: %w", domain.ErrAIMalformed)
	}

	return &domain.Correction{
		Proposal:      updated,
		ChangedField:  strings.Join(changed, ", "),
		ChangeSummary: strings.Join(summary, "; "),
	}, nil
}

// decodeJSONAnswer strips markdown fences and decodes the first JSON object
func decodeJSONAnswer(raw string, v any) error {
	text := strings.TrimSpace(raw)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return fmt.Errorf("no json object in answer: %w", domain.ErrAIMalformed)
	}

	if err := json.Unmarshal([]byte(text[start:end+1]), v); err != nil {
		return fmt.Errorf("failed to decode answer: %v: %w", err, domain.ErrAIMalformed)
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// flexibleFloat accepts a JSON number, a numeric string such as
// "4.000 TL", or null
type flexibleFloat struct {
	value float64
	set   bool
}

func (f *flexibleFloat) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}

	if b[0] != '"' {
		v, err := strconv.ParseFloat(string(b), 64)
		if err != nil {
			return err
		}
		f.value, f.set = v, true
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if v, ok := domain.ParseLocalizedNumber(s); ok {
		f.value, f.set = v, true
	}
	return nil
}

package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/justsurfingit/job-application-tracker/internal/dtos"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
)

const maxPostingChars = 20000

// Completer turns a prompt into model output.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

type geminiCompleter struct {
	model llms.Model
}

// NewGeminiCompleter builds a Completer on Google's Gemini models.
func NewGeminiCompleter(ctx context.Context, apiKey, model string) (Completer, error) {
	llm, err := googleai.New(ctx,
		googleai.WithAPIKey(apiKey),
		googleai.WithDefaultModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &geminiCompleter{model: llm}, nil
}

func (g *geminiCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, g.model, prompt)
}

type LLMService struct {
	Client Completer
}

func NewLLMService(client Completer) *LLMService {
	return &LLMService{Client: client}
}

const jobExtractionPrompt = `
You are an expert Job Data Extraction Agent. Analyze the provided raw HTML/Text from a job posting
and extract the details needed to track an application to it.

### INSTRUCTIONS:
1. Ignore navigation menus, footers, "similar jobs" lists, and site advertisements.
2. Extract the following fields strictly.
3. Output valid JSON only. Do not wrap the output in markdown code blocks.

### OUTPUT SCHEMA:
{
    "company": "Name of the company (e.g., Google, StartupInc)",
    "position": "Job title (e.g., Senior Backend Engineer)",
    "location": "Job location or 'Remote'",
    "notes": "Two or three sentences on responsibilities, requirements and salary if stated."
}

### CONSTRAINT:
If a piece of information is missing, use an empty string. Do not guess.

### RAW CONTENT:
%s
`

// ExtractApplication asks the model for a draft application from a job
// posting. Input beyond maxPostingChars is dropped.
func (s *LLMService) ExtractApplication(ctx context.Context, req *dtos.JobExtractionRequest) (*dtos.ApplicationDraft, error) {
	if s == nil || s.Client == nil {
		return nil, ErrExtractionDisabled
	}
	raw := strings.TrimSpace(req.RawHTML)
	if raw == "" {
		return nil, invalid("rawHtml is required")
	}
	if len(raw) > maxPostingChars {
		raw = raw[:maxPostingChars]
	}

	resp, err := s.Client.Complete(ctx, fmt.Sprintf(jobExtractionPrompt, raw))
	if err != nil {
		return nil, fmt.Errorf("job extraction: %w", err)
	}

	draft, err := parseDraft(resp)
	if err != nil {
		return nil, err
	}
	draft.URL = req.URL
	return draft, nil
}

// parseDraft tolerates the markdown fences models add despite instructions.
func parseDraft(resp string) (*dtos.ApplicationDraft, error) {
	body := strings.TrimSpace(resp)
	body = strings.TrimPrefix(body, "```json")
	body = strings.TrimPrefix(body, "```")
	body = strings.TrimSuffix(body, "```")
	body = strings.TrimSpace(body)

	var draft dtos.ApplicationDraft
	if err := json.Unmarshal([]byte(body), &draft); err != nil {
		return nil, fmt.Errorf("parse model output: %w", err)
	}
	draft.Company = strings.TrimSpace(draft.Company)
	draft.Position = strings.TrimSpace(draft.Position)
	return &draft, nil
}

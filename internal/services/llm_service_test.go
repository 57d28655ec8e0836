package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/justsurfingit/job-application-tracker/internal/dtos"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCompleter struct {
	resp   string
	err    error
	prompt string
}

func (f *fakeCompleter) Complete(_ context.Context, prompt string) (string, error) {
	f.prompt = prompt
	return f.resp, f.err
}

func TestLLMService_ExtractApplication(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		resp string
	}{
		{name: "plain json", resp: `{"company":"Acme","position":"Go Developer","location":"Remote","notes":"Builds APIs."}`},
		{name: "fenced json", resp: "```json\n{\"company\":\" Acme \",\"position\":\"Go Developer\",\"location\":\"Remote\",\"notes\":\"Builds APIs.\"}\n```"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeCompleter{resp: tt.resp}
			svc := NewLLMService(client)

			draft, err := svc.ExtractApplication(ctx, &dtos.JobExtractionRequest{
				RawHTML: "<h1>Go Developer at Acme</h1>",
				URL:     "https://jobs.example.com/1",
			})
			require.NoError(t, err)
			assert.Equal(t, "Acme", draft.Company)
			assert.Equal(t, "Go Developer", draft.Position)
			assert.Equal(t, "Remote", draft.Location)
			assert.Equal(t, "https://jobs.example.com/1", draft.URL)
			assert.Contains(t, client.prompt, "<h1>Go Developer at Acme</h1>")
		})
	}

	t.Run("long postings are truncated", func(t *testing.T) {
		client := &fakeCompleter{resp: `{}`}
		_, err := NewLLMService(client).ExtractApplication(ctx, &dtos.JobExtractionRequest{
			RawHTML: strings.Repeat("a", maxPostingChars) + "TAIL",
		})
		require.NoError(t, err)
		assert.NotContains(t, client.prompt, "TAIL")
	})

	t.Run("unparseable output", func(t *testing.T) {
		_, err := NewLLMService(&fakeCompleter{resp: "Sorry, I can't help"}).
			ExtractApplication(ctx, &dtos.JobExtractionRequest{RawHTML: "x"})
		assert.Error(t, err)
	})

	t.Run("model error", func(t *testing.T) {
		boom := errors.New("quota exceeded")
		_, err := NewLLMService(&fakeCompleter{err: boom}).
			ExtractApplication(ctx, &dtos.JobExtractionRequest{RawHTML: "x"})
		assert.ErrorIs(t, err, boom)
	})

	t.Run("blank input", func(t *testing.T) {
		_, err := NewLLMService(&fakeCompleter{}).
			ExtractApplication(ctx, &dtos.JobExtractionRequest{RawHTML: "   "})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("not configured", func(t *testing.T) {
		var svc *LLMService
		_, err := svc.ExtractApplication(ctx, &dtos.JobExtractionRequest{RawHTML: "x"})
		assert.ErrorIs(t, err, ErrExtractionDisabled)
	})
}

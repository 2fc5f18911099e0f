package app

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	genai "google.golang.org/genai"
)

// GeminiClient is a thin wrapper around the official genai client.
type GeminiClient struct {
	cli *genai.Client
}

func NewGeminiClient(ctx context.Context, apiKey string) (*GeminiClient, error) {
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, errors.Wrap(err, "initializing gemini client")
	}
	return &GeminiClient{cli: cli}, nil
}

// Generate sends the prompt and returns the first candidate's text.
// Transient failures are retried with exponential backoff; the context
// bounds the whole exchange.
func (g *GeminiClient) Generate(ctx context.Context, prompt, modelID string) (string, error) {
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(300*(1<<attempt)) * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}

		resp, err := g.cli.Models.GenerateContent(ctx, modelID,
			[]*genai.Content{{Parts: []*genai.Part{{Text: prompt}}}},
			nil,
		)
		if err != nil {
			lastErr = err
			log.Debug().Err(err).Int("attempt", attempt).Str("model", modelID).Msg("generation attempt failed")
			continue
		}
		if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
			lastErr = errors.New("empty response from model")
			continue
		}
		return resp.Candidates[0].Content.Parts[0].Text, nil
	}
	return "", lastErr
}

package app

import "context"

// Generator is the external generation collaborator. The core treats it as
// a black box: prompt in, full response text out. Timeouts are the
// implementation's concern; the controller treats a timeout like any other
// failure.
type Generator interface {
	Generate(ctx context.Context, prompt, modelID string) (string, error)
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(ctx context.Context, prompt, modelID string) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, prompt, modelID string) (string, error) {
	return f(ctx, prompt, modelID)
}

package client

import "context"

// GenerationMeta identifies the request a generation call belongs to.
// It is passed through for tracing and logging only.
type GenerationMeta struct {
	AgentID   string
	ToolID    string
	ContextID string
}

// Generator is the generation backend consumed by the formatting pipeline.
// Implementations block until text is available or the context is done;
// callers are expected to bound the call with a deadline.
//
//go:generate mockgen -source=generator.go -destination=mocks/generator_mock.go -package=mocks
type Generator interface {
	Generate(ctx context.Context, systemPrompt, userContext string, meta GenerationMeta) (string, error)
}

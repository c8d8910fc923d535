package services

import "context"

// LLMClient is an interface for completing prompts against a language model
// backend. Failures surface as *ProviderError when the provider answered
// with a non-2xx status.
type LLMClient interface {
	// Complete sends a system and user prompt and returns the generated text.
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

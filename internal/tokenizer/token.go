package tokenizer

import (
	"github.com/pkoukk/tiktoken-go"
)

// TokenCounter provides token counting functionality
type TokenCounter struct {
	encoder *tiktoken.Tiktoken
}

// NewTokenCounter creates a new token counter instance
func NewTokenCounter() (*TokenCounter, error) {
	// Use cl100k_base encoding (used by GPT-3.5 and GPT-4)
	encoder, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return nil, err
	}

	return &TokenCounter{
		encoder: encoder,
	}, nil
}

// CountTokens counts tokens in a text string
func (tc *TokenCounter) CountTokens(text string) int {
	if tc == nil || tc.encoder == nil {
		// Fallback to simple estimation if encoder is not available
		return EstimateTokens(text)
	}

	tokens := tc.encoder.Encode(text, nil, nil)
	return len(tokens)
}

// CountPromptTokens counts tokens across the system prompt and user context,
// with a small per-message overhead matching chat completion accounting
func (tc *TokenCounter) CountPromptTokens(systemPrompt, userContext string) int {
	// Approximately 3 overhead tokens per message plus 3 for the exchange
	return tc.CountTokens(systemPrompt) + tc.CountTokens(userContext) + 9
}

// EstimateTokens provides a simple token estimation without tiktoken
func EstimateTokens(text string) int {
	// Simple estimation: roughly 4 characters per token
	return len(text) / 4
}

package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/zgsm-ai/tool-reply/internal/config"
)

// chatMessage is one turn of an OpenAI-style chat completion request
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// LLMClient is the production Generator, talking to an OpenAI-compatible
// chat completions endpoint
type LLMClient struct {
	modelName  string
	endpoint   string
	httpClient *http.Client
}

// NewLLMClient creates a new LLM client instance
func NewLLMClient(c config.LLMConfig) (*LLMClient, error) {
	// Check for empty endpoint
	if c.Endpoint == "" {
		return nil, fmt.Errorf("NewLLMClient endpoint cannot be empty")
	}

	httpClient := &http.Client{}
	if c.TimeoutSec > 0 {
		httpClient.Timeout = time.Duration(c.TimeoutSec) * time.Second
	}

	return &LLMClient{
		modelName:  c.Model,
		endpoint:   c.Endpoint,
		httpClient: httpClient,
	}, nil
}

// Generate sends the system prompt and user context as a two-message chat
// completion and returns the generated text
func (c *LLMClient) Generate(ctx context.Context, systemPrompt, userContext string, meta GenerationMeta) (string, error) {
	requestPayload := chatRequest{
		Model: c.modelName,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userContext},
		},
	}

	jsonData, err := json.Marshal(requestPayload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request payload: %w", err)
	}

	reader := strings.NewReader(string(jsonData))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, reader)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("X-Agent-Id", meta.AgentID)
	req.Header.Set("X-Tool-Id", meta.ToolID)
	req.Header.Set("X-Context-Id", meta.ContextID)
	req.ContentLength = int64(reader.Len())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return "", fmt.Errorf("API request failed with status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	var result chatResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if len(result.Choices) == 0 {
		return "", fmt.Errorf("no content generated")
	}

	return result.Choices[0].Message.Content, nil
}

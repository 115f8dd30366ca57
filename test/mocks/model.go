package mocks

import (
	"context"
	"errors"
	"sync"
)

// ModelClient is a scripted stand-in for the Gemini client. Responses are
// returned in order; once the script is exhausted the last entry repeats.
type ModelClient struct {
	mu        sync.Mutex
	Responses []string
	Err       error

	CallCount int
	Prompts   []string
}

// NewModelClient creates a scripted model client.
func NewModelClient(responses ...string) *ModelClient {
	return &ModelClient{Responses: responses}
}

// GenerateContent returns the next scripted response.
func (m *ModelClient) GenerateContent(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CallCount++
	m.Prompts = append(m.Prompts, prompt)

	if m.Err != nil {
		return "", m.Err
	}
	if len(m.Responses) == 0 {
		return "", errors.New("no scripted response")
	}
	idx := m.CallCount - 1
	if idx >= len(m.Responses) {
		idx = len(m.Responses) - 1
	}
	return m.Responses[idx], nil
}

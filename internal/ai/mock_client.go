package ai

import (
	"context"
	"sync"
)

// MockProvider is a Provider for tests. With no GenerateFunc it echoes
// Response/Err.
type MockProvider struct {
	GenerateFunc func(ctx context.Context, prompt string) (string, error)
	Response     string
	Err          error

	mu      sync.Mutex
	prompts []string
}

func NewMockProvider(response string) *MockProvider {
	return &MockProvider{Response: response}
}

func (m *MockProvider) Name() string {
	return "mock"
}

func (m *MockProvider) Generate(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()

	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, prompt)
	}
	return m.Response, m.Err
}

// Prompts returns every prompt received so far, in order.
func (m *MockProvider) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.prompts))
	copy(out, m.prompts)
	return out
}

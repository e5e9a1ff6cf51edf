package gateway

import (
	"context"
	"fmt"
)

// Mock provides scripted responses for testing and offline demos without an
// API key. Responses are consumed in order; the last one repeats once the
// script runs out.
type Mock struct {
	Responses []string
	Err       error
	Calls     int
	Prompts   []string
}

// NewMock creates a mock generator that replays the given responses.
func NewMock(responses ...string) *Mock {
	return &Mock{Responses: responses}
}

func (m *Mock) Generate(_ context.Context, prompt string) (string, error) {
	m.Calls++
	m.Prompts = append(m.Prompts, prompt)

	if m.Err != nil {
		return "", m.Err
	}
	if len(m.Responses) == 0 {
		return "", fmt.Errorf("mock gateway has no scripted responses")
	}

	i := m.Calls - 1
	if i >= len(m.Responses) {
		i = len(m.Responses) - 1
	}
	return m.Responses[i], nil
}

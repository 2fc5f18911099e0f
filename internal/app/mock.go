package app

import (
	"context"
	"fmt"
	"strings"
)

// MockGenerator simulates the generation backend for tests and --mock
// mode. Responses are deterministic and keyword-matched so the TUI and the
// segmenter have realistic material to work with.
type MockGenerator struct {
	Calls int
}

func NewMockGenerator() *MockGenerator {
	return &MockGenerator{}
}

func (m *MockGenerator) Generate(ctx context.Context, prompt, modelID string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m.Calls++

	task := strings.ToLower(lastPromptLine(prompt))
	switch {
	case strings.Contains(task, "sort"):
		return mockSortResponse(), nil
	case strings.Contains(task, "hello"):
		return "Hello! How can I help you today?", nil
	case strings.Contains(task, "fibonacci"):
		return mockFibonacciResponse(), nil
	case strings.Contains(task, "explain"):
		return "Here is a step-by-step explanation.\n\n1. The input is validated.\n2. The work happens.\n3. The result is returned.", nil
	default:
		return fmt.Sprintf("Mock response for: %s", strings.TrimSpace(lastPromptLine(prompt))), nil
	}
}

// lastPromptLine strips the instruction directive so keyword matching sees
// the user's actual prompt.
func lastPromptLine(prompt string) string {
	lines := strings.Split(strings.TrimRight(prompt, "\n"), "\n")
	if len(lines) == 0 {
		return prompt
	}
	return lines[len(lines)-1]
}

func mockSortResponse() string {
	return "Here is a simple sort function:\n\n```go\nfunc Sort(xs []int) {\n\tsort.Ints(xs)\n}\n```\n\nThe standard library does the heavy lifting."
}

func mockFibonacciResponse() string {
	return "An iterative fibonacci:\n\n```python\ndef fib(n):\n    a, b = 0, 1\n    for _ in range(n):\n        a, b = b, a + b\n    return a\n```\n\nThis runs in linear time."
}

package llm

import (
	"context"
	"sync"
)

// MockReply is one scripted outcome for MockProvider.
type MockReply struct {
	Text  string
	Usage Usage
	Err   error
}

// Reply scripts a successful completion.
func Reply(text string) MockReply { return MockReply{Text: text} }

// Fail scripts an error.
func Fail(err error) MockReply { return MockReply{Err: err} }

// MockProvider replays scripted replies in order and records prompts.
// Once the script is exhausted every call fails with UnavailableError.
type MockProvider struct {
	mu      sync.Mutex
	script  []MockReply
	prompts []Prompt
}

func NewMockProvider(script ...MockReply) *MockProvider {
	return &MockProvider{script: script}
}

func (m *MockProvider) Complete(_ context.Context, pr Prompt) (*Completion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.prompts = append(m.prompts, pr)
	if len(m.script) == 0 {
		return nil, &UnavailableError{}
	}
	next := m.script[0]
	m.script = m.script[1:]
	if next.Err != nil {
		return nil, next.Err
	}
	return finish(pr, next.Text, Completion{Model: "mock", StopReason: StopEnd, Usage: next.Usage})
}

func (m *MockProvider) ModelID() string { return "mock" }

// Push appends replies to the script.
func (m *MockProvider) Push(replies ...MockReply) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.script = append(m.script, replies...)
}

// Prompts returns a copy of every prompt received so far.
func (m *MockProvider) Prompts() []Prompt {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Prompt(nil), m.prompts...)
}

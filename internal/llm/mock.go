package llm

import (
	"context"
	"encoding/json"
	"sync"
)

// MockResponse is one scripted reply of a MockProvider.
type MockResponse struct {
	Content json.RawMessage
	Usage   Usage
	Err     error
}

// MockJSON scripts a reply whose content is v encoded as JSON, such as a
// quiz or a course structure.
func MockJSON(v any) MockResponse {
	b, err := json.Marshal(v)
	if err != nil {
		return MockResponse{Err: err}
	}
	return MockResponse{Content: b}
}

// MockCall is a request seen by the mock along with the context tags it
// was sent under.
type MockCall struct {
	Request
	Purpose Purpose
	Lesson  LessonRef
}

// MockProvider replays scripted replies in order. It backs the "mock"
// provider setting and the quiz and course generator tests.
type MockProvider struct {
	mu      sync.Mutex
	replies []MockResponse
	Calls   []MockCall
}

// NewMockProvider returns a mock that answers with replies in order.
func NewMockProvider(replies ...MockResponse) *MockProvider {
	return &MockProvider{replies: replies}
}

// Generate records req and returns the next scripted reply. Once the
// script runs out every call fails with ErrProviderUnavailable.
func (m *MockProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ref, _ := LessonFrom(ctx)
	m.Calls = append(m.Calls, MockCall{Request: req, Purpose: PurposeFrom(ctx), Lesson: ref})

	if len(m.replies) == 0 {
		return nil, &ErrProviderUnavailable{}
	}
	next := m.replies[0]
	m.replies = m.replies[1:]
	if next.Err != nil {
		return nil, next.Err
	}
	return &Response{Content: next.Content, Usage: next.Usage, Model: "mock", StopReason: "end"}, nil
}

func (m *MockProvider) ModelID() string { return "mock" }

// AddResponse appends to the script.
func (m *MockProvider) AddResponse(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.replies = append(m.replies, resp)
}

// CallCount returns how many requests the mock has seen.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// Purposes returns the purpose of every call in order.
func (m *MockProvider) Purposes() []Purpose {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Purpose, len(m.Calls))
	for i, c := range m.Calls {
		out[i] = c.Purpose
	}
	return out
}

// Attachments returns every document attached to any call, in order.
func (m *MockProvider) Attachments() []Attachment {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Attachment
	for _, c := range m.Calls {
		for _, msg := range c.Messages {
			out = append(out, msg.Attachments...)
		}
	}
	return out
}

package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/madan-d/classmos/internal/store"
)

func TestLoggingProvider_RecordsEvents(t *testing.T) {
	s, err := store.Open("file:llm_logging?mode=memory&cache=shared")
	require.NoError(t, err)
	defer s.Close()

	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"questions":[]}`), Usage: Usage{InputTokens: 12, OutputTokens: 4}},
		MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}},
	)
	p := WithLogging(mock, "mock", s.EventRepo(), logger)

	ctx := WithPurpose(context.Background(), PurposeQuiz)
	ctx = WithLesson(ctx, LessonRef{CourseID: "c1", LessonID: 3})
	req := Request{
		System: "sys",
		Messages: []Message{{
			Role:        RoleUser,
			Content:     "Build a quiz.",
			Attachments: []Attachment{{MIMEType: "application/pdf", Data: []byte("%PDF-1.7")}},
		}},
	}

	_, err = p.Generate(ctx, req)
	require.NoError(t, err)
	_, err = p.Generate(ctx, req)
	require.Error(t, err)

	events, err := s.EventRepo().QueryLLMEvents(context.Background(), store.QueryOpts{})
	require.NoError(t, err)
	require.Len(t, events, 2)

	failed, ok := events[0], events[1]
	assert.False(t, failed.Success)
	assert.Contains(t, failed.ErrorMessage, "down")
	assert.True(t, ok.Success)
	assert.Equal(t, "quiz", ok.Purpose)
	assert.Equal(t, "mock", ok.Provider)
	assert.Equal(t, 12, ok.InputTokens)
	assert.Equal(t, `{"questions":[]}`, ok.ResponseBody)
	assert.Contains(t, ok.RequestBody, "[attachment: application/pdf, 8 bytes]")

	require.Len(t, hook.AllEntries(), 2)
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Equal(t, "quiz", hook.LastEntry().Data["purpose"])
	assert.Equal(t, "c1", hook.LastEntry().Data["course_id"])
	assert.Equal(t, 3, hook.LastEntry().Data["lesson_id"])
}

func TestLoggingProvider_NilRepo(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{}`)})
	p := WithLogging(mock, "mock", nil, nil)

	if _, err := p.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ModelID() != "mock" {
		t.Fatalf("expected 'mock', got %q", p.ModelID())
	}
}

func TestTotalCost(t *testing.T) {
	total, unpriced := TotalCost([]ModelTokens{
		{Model: "gemini-2.5-flash", InputTokens: 1_000_000, OutputTokens: 1_000_000},
		{Model: "mock", InputTokens: 10},
	})
	assert.InDelta(t, 2.8, total, 1e-9)
	assert.True(t, unpriced)

	total, unpriced = TotalCost(nil)
	assert.Zero(t, total)
	assert.False(t, unpriced)
}

func TestNewProvider_MockIsRecorded(t *testing.T) {
	s, err := store.Open("file:llm_factory_mock?mode=memory&cache=shared")
	require.NoError(t, err)
	defer s.Close()

	cfg := DefaultConfig()
	cfg.Provider = "mock"
	p, err := NewProvider(context.Background(), cfg, s.EventRepo(), nil)
	require.NoError(t, err)
	assert.Equal(t, "mock", p.ModelID())

	ctx := WithPurpose(context.Background(), PurposeCourse)
	_, err = p.Generate(ctx, Request{Messages: []Message{{Role: RoleUser, Content: "Outline one unit."}}})
	var unavail *ErrProviderUnavailable
	require.ErrorAs(t, err, &unavail)

	events, err := s.EventRepo().QueryLLMEvents(context.Background(), store.QueryOpts{})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "course", events[0].Purpose)
	assert.False(t, events[0].Success)
}

func TestNewProvider_Unknown(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = "claude-desktop"
	_, err := NewProvider(context.Background(), cfg, nil, nil)
	assert.ErrorContains(t, err, `unknown LLM provider: "claude-desktop"`)
}

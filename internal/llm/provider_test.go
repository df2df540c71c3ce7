package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
)

func TestMockProvider_ReplaysScript(t *testing.T) {
	quiz := map[string]any{"exercises": []map[string]any{{"type": "MULTIPLE_CHOICE", "question": "Hola means?", "answer": "Hello"}}}
	unit := map[string]any{"courseTitle": "Spanish", "units": []map[string]any{{"title": "Greetings"}}}
	mock := NewMockProvider(
		MockJSON(quiz),
		MockResponse{Content: json.RawMessage(`{"courseTitle":"Spanish"}`), Usage: Usage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15}},
	)
	mock.AddResponse(MockJSON(unit))

	tests := []struct {
		want      string
		wantInput int
	}{
		{`{"exercises":[{"answer":"Hello","question":"Hola means?","type":"MULTIPLE_CHOICE"}]}`, 0},
		{`{"courseTitle":"Spanish"}`, 10},
		{`{"courseTitle":"Spanish","units":[{"title":"Greetings"}]}`, 0},
	}
	for i, tt := range tests {
		resp, err := mock.Generate(context.Background(), Request{})
		if err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
		if string(resp.Content) != tt.want {
			t.Errorf("call %d content = %s, want %s", i, resp.Content, tt.want)
		}
		if resp.Usage.InputTokens != tt.wantInput {
			t.Errorf("call %d input tokens = %d, want %d", i, resp.Usage.InputTokens, tt.wantInput)
		}
		if resp.StopReason != "end" {
			t.Errorf("call %d stop reason = %q, want end", i, resp.StopReason)
		}
	}
}

func TestMockProvider_EmptyScriptIsUnavailable(t *testing.T) {
	_, err := NewMockProvider().Generate(context.Background(), Request{})
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("Generate() error = %T, want *ErrProviderUnavailable", err)
	}
}

func TestMockProvider_RecordsTags(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{}`)}, MockResponse{Content: json.RawMessage(`{}`)})

	quizCtx := WithLesson(WithPurpose(context.Background(), PurposeQuiz), LessonRef{CourseID: "spanish", LessonID: 2})
	_, _ = mock.Generate(quizCtx, Request{System: "tutor", Messages: []Message{{Role: RoleUser, Content: "Make a quiz."}}})

	courseCtx := WithPurpose(context.Background(), PurposeCourse)
	pdf := Attachment{MIMEType: "application/pdf", Data: []byte("%PDF-1.7")}
	_, _ = mock.Generate(courseCtx, Request{Messages: []Message{{Role: RoleUser, Content: "Outline this.", Attachments: []Attachment{pdf}}}})

	if got := mock.CallCount(); got != 2 {
		t.Fatalf("CallCount() = %d, want 2", got)
	}
	if mock.Calls[0].System != "tutor" {
		t.Errorf("Calls[0].System = %q, want tutor", mock.Calls[0].System)
	}
	if mock.Calls[0].Lesson.LessonID != 2 {
		t.Errorf("Calls[0].Lesson = %+v, want lesson 2", mock.Calls[0].Lesson)
	}
	if got := mock.Purposes(); len(got) != 2 || got[0] != PurposeQuiz || got[1] != PurposeCourse {
		t.Errorf("Purposes() = %v, want [quiz course]", got)
	}
	if got := mock.Attachments(); len(got) != 1 || got[0].MIMEType != "application/pdf" {
		t.Errorf("Attachments() = %+v, want one pdf", got)
	}
}

func TestMockJSON_EncodeError(t *testing.T) {
	resp := MockJSON(func() {})
	if resp.Err == nil {
		t.Fatal("MockJSON(func) returned no error")
	}
	if _, err := NewMockProvider(resp).Generate(context.Background(), Request{}); err == nil {
		t.Fatal("Generate() replayed an encode failure as success")
	}
}

func TestMockProvider_ReturnsConfiguredError(t *testing.T) {
	mock := NewMockProvider(MockResponse{Err: &ErrRateLimit{RetryAfter: 0}})
	_, err := mock.Generate(context.Background(), Request{})
	var rl *ErrRateLimit
	if !errors.As(err, &rl) {
		t.Fatalf("Generate() error = %T, want *ErrRateLimit", err)
	}
}

func TestMockProvider_ModelID(t *testing.T) {
	mock := NewMockProvider()
	if mock.ModelID() != "mock" {
		t.Fatalf("expected 'mock', got %q", mock.ModelID())
	}
}

func TestPurposeContext(t *testing.T) {
	ctx := context.Background()
	if p := PurposeFrom(ctx); p != PurposeUnknown {
		t.Fatalf("PurposeFrom(empty) = %q, want %q", p, PurposeUnknown)
	}
	if _, ok := LessonFrom(ctx); ok {
		t.Fatal("LessonFrom(empty) reported a lesson")
	}

	ctx = WithPurpose(ctx, PurposePractice)
	ctx = WithLesson(ctx, LessonRef{CourseID: "spanish", LessonID: 4})
	if p := PurposeFrom(ctx); p != PurposePractice {
		t.Fatalf("PurposeFrom = %q, want %q", p, PurposePractice)
	}
	ref, ok := LessonFrom(ctx)
	if !ok || ref != (LessonRef{CourseID: "spanish", LessonID: 4}) {
		t.Fatalf("LessonFrom = %+v, %v", ref, ok)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name:    "anthropic without key",
			cfg:     Config{Provider: "anthropic"},
			wantErr: true,
		},
		{
			name:    "anthropic with key",
			cfg:     Config{Provider: "anthropic", Anthropic: AnthropicConfig{APIKey: "sk-test"}},
			wantErr: false,
		},
		{
			name:    "openai without key",
			cfg:     Config{Provider: "openai"},
			wantErr: true,
		},
		{
			name:    "openai with key",
			cfg:     Config{Provider: "openai", OpenAI: OpenAIConfig{APIKey: "sk-test"}},
			wantErr: false,
		},
		{
			name:    "mock needs no key",
			cfg:     Config{Provider: "mock"},
			wantErr: false,
		},
		{
			name:    "unknown provider",
			cfg:     Config{Provider: "unknown"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestAttachment_IsText(t *testing.T) {
	tests := []struct {
		mime string
		want bool
	}{
		{"text/plain", true},
		{"text/markdown", true},
		{"application/json", true},
		{"application/pdf", false},
		{"image/png", false},
	}
	for _, tt := range tests {
		if got := (Attachment{MIMEType: tt.mime}).IsText(); got != tt.want {
			t.Errorf("IsText(%q) = %v, want %v", tt.mime, got, tt.want)
		}
	}
}

func TestConfig_HasKey(t *testing.T) {
	if (Config{Provider: "gemini"}).HasKey() {
		t.Fatal("gemini without key should report false")
	}
	if !(Config{Provider: "gemini", Gemini: GeminiConfig{APIKey: "k"}}).HasKey() {
		t.Fatal("gemini with key should report true")
	}
	if !(Config{Provider: "mock"}).HasKey() {
		t.Fatal("mock never needs a key")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Provider != "gemini" {
		t.Fatalf("expected gemini default, got %q", cfg.Provider)
	}
	if cfg.Retry.Attempts() != 3 {
		t.Fatalf("expected 3 attempts, got %d", cfg.Retry.Attempts())
	}
}

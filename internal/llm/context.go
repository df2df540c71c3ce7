package llm

import "context"

// Purpose labels what a request generates. It is recorded with every LLM
// request event and is the filter for `classmos llm list --purpose`.
type Purpose string

const (
	PurposeQuiz     Purpose = "quiz"
	PurposePractice Purpose = "practice"
	PurposeCourse   Purpose = "course"
	PurposeUnknown  Purpose = "unknown"
)

// LessonRef identifies the lesson a quiz is generated for.
type LessonRef struct {
	CourseID string
	LessonID int
}

type ctxKey int

const (
	purposeKey ctxKey = iota
	lessonKey
)

// WithPurpose tags ctx with the purpose of the requests made under it.
func WithPurpose(ctx context.Context, p Purpose) context.Context {
	return context.WithValue(ctx, purposeKey, p)
}

// PurposeFrom returns the purpose tag, or PurposeUnknown.
func PurposeFrom(ctx context.Context) Purpose {
	if p, ok := ctx.Value(purposeKey).(Purpose); ok && p != "" {
		return p
	}
	return PurposeUnknown
}

// WithLesson tags ctx with the lesson a request serves.
func WithLesson(ctx context.Context, ref LessonRef) context.Context {
	return context.WithValue(ctx, lessonKey, ref)
}

// LessonFrom returns the lesson tag set by WithLesson.
func LessonFrom(ctx context.Context) (LessonRef, bool) {
	ref, ok := ctx.Value(lessonKey).(LessonRef)
	return ref, ok
}

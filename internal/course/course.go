// Package course builds, imports and generates course structures and
// enrolls learners into them.
package course

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/madan-d/classmos/internal/progression"
	"github.com/madan-d/classmos/internal/store"
)

// DefaultFlag is the badge shown for courses without one.
const DefaultFlag = "🎓"

// defaultTitle names courses whose structure carries no title.
const defaultTitle = "New Course"

const (
	codeLength   = 6
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

var (
	ErrEmptyStructure = errors.New("course structure has no sections")
	ErrNotOwner       = errors.New("only the course owner can change it")
)

// NewJoinCode returns a random six character upper-case alphanumeric code.
func NewJoinCode() string {
	id := uuid.New()
	var b strings.Builder
	for i := range codeLength {
		b.WriteByte(codeAlphabet[int(id[i])%len(codeAlphabet)])
	}
	return b.String()
}

// New returns a course record for structure owned by ownerID, with a fresh
// id and join code.
func New(ownerID, flag string, s progression.Structure, now time.Time) store.Course {
	title := strings.TrimSpace(s.CourseTitle)
	if title == "" {
		title = defaultTitle
	}
	if flag == "" {
		flag = DefaultFlag
	}
	code := NewJoinCode()
	s.Code = code
	return store.Course{
		ID:        uuid.NewString(),
		Title:     title,
		Flag:      flag,
		Code:      code,
		OwnerID:   ownerID,
		Structure: s,
		CreatedAt: now,
	}
}

// Validate checks that s can be laid out as a path.
func Validate(s progression.Structure) error {
	if s.LessonCount() == 0 {
		return ErrEmptyStructure
	}
	for i, u := range s.Units {
		if strings.TrimSpace(u.Title) == "" {
			return fmt.Errorf("unit %d has no title", i+1)
		}
		if len(u.Sections) == 0 {
			return fmt.Errorf("unit %q has no sections", u.Title)
		}
		for j, sec := range u.Sections {
			if strings.TrimSpace(sec.Title) == "" {
				return fmt.Errorf("unit %q section %d has no title", u.Title, j+1)
			}
		}
	}
	return nil
}

// NormalizeCode upper-cases and trims a code typed by a learner.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

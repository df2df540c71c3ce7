package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/madan-d/classmos/internal/exercise"
)

// quizFile is a generated quiz saved for a later session complete.
type quizFile struct {
	LearnerID string              `json:"learner_id"`
	CourseID  string              `json:"course_id"`
	LessonID  int                 `json:"lesson_id"`
	Practice  bool                `json:"practice"`
	Exercises []exercise.Exercise `json:"exercises"`
}

func readJSONFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func writeJSONFile(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

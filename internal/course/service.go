package course

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/madan-d/classmos/internal/progression"
	"github.com/madan-d/classmos/internal/store"
)

// ErrUnknownCode is returned when no course has the join code.
var ErrUnknownCode = errors.New("invalid class code")

// Service creates courses and enrolls learners into them.
type Service struct {
	store  *store.Store
	logger logrus.FieldLogger
	now    func() time.Time
}

// NewService creates a Service over s.
func NewService(s *store.Store, logger logrus.FieldLogger) *Service {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Service{store: s, logger: logger, now: time.Now}
}

// Create saves a new course owned by ownerID, enrolls the owner and lays
// out the owner's path.
func (s *Service) Create(ctx context.Context, ownerID, flag string, structure progression.Structure) (store.Course, error) {
	if err := Validate(structure); err != nil {
		return store.Course{}, err
	}
	c := New(ownerID, flag, structure, s.now())
	if err := s.store.Courses().Save(ctx, c); err != nil {
		return store.Course{}, fmt.Errorf("save course: %w", err)
	}
	if err := s.enroll(ctx, ownerID, c); err != nil {
		return store.Course{}, err
	}
	s.logger.WithFields(logrus.Fields{
		"course_id": c.ID,
		"owner_id":  ownerID,
		"code":      c.Code,
		"lessons":   structure.LessonCount(),
	}).Info("course created")
	return c, nil
}

// Join enrolls learnerID into the course with code. A learner who already
// has a path keeps it.
func (s *Service) Join(ctx context.Context, learnerID, code string) (store.Course, error) {
	c, err := s.store.Courses().FindByCode(ctx, NormalizeCode(code))
	if errors.Is(err, store.ErrNotFound) {
		return store.Course{}, fmt.Errorf("join %q: %w", code, ErrUnknownCode)
	}
	if err != nil {
		return store.Course{}, fmt.Errorf("find course: %w", err)
	}
	if err := s.enroll(ctx, learnerID, *c); err != nil {
		return store.Course{}, err
	}
	s.logger.WithFields(logrus.Fields{"course_id": c.ID, "learner_id": learnerID}).Info("learner joined course")
	return *c, nil
}

// Append adds the units of added to the course and extends ownerID's path
// with them. Other learners pick the new units up through Sync.
func (s *Service) Append(ctx context.Context, ownerID, courseID string, added progression.Structure) (store.Course, error) {
	if err := Validate(added); err != nil {
		return store.Course{}, err
	}
	c, err := s.store.Courses().Load(ctx, courseID)
	if err != nil {
		return store.Course{}, fmt.Errorf("load course: %w", err)
	}
	if c.OwnerID != ownerID {
		return store.Course{}, ErrNotOwner
	}

	c.Structure = c.Structure.Merge(added)
	if err := s.store.Courses().Save(ctx, *c); err != nil {
		return store.Course{}, fmt.Errorf("save course: %w", err)
	}

	path, err := s.store.Lessons().Load(ctx, ownerID, courseID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return store.Course{}, fmt.Errorf("load path: %w", err)
	}
	if err := s.store.Lessons().Save(ctx, ownerID, courseID, progression.AppendUnits(path, added)); err != nil {
		return store.Course{}, fmt.Errorf("save path: %w", err)
	}
	s.logger.WithFields(logrus.Fields{"course_id": courseID, "units": len(added.Units)}).Info("course units appended")
	return *c, nil
}

// Sync extends learnerID's path with any course lessons it is missing,
// returning how many were added.
func (s *Service) Sync(ctx context.Context, learnerID, courseID string) (int, error) {
	c, err := s.store.Courses().Load(ctx, courseID)
	if err != nil {
		return 0, fmt.Errorf("load course: %w", err)
	}
	path, err := s.store.Lessons().Load(ctx, learnerID, courseID)
	if err != nil {
		return 0, fmt.Errorf("load path: %w", err)
	}

	missing := missingUnits(c.Structure, path)
	if len(missing.Units) == 0 {
		return 0, nil
	}
	extended := progression.AppendUnits(path, missing)
	if err := s.store.Lessons().Save(ctx, learnerID, courseID, extended); err != nil {
		return 0, fmt.Errorf("save path: %w", err)
	}
	return len(extended) - len(path), nil
}

// missingUnits returns the units of s beyond those path already covers.
func missingUnits(s progression.Structure, path progression.Path) progression.Structure {
	have := path.MaxUnit()
	if have >= len(s.Units) {
		return progression.Structure{}
	}
	return progression.Structure{CourseTitle: s.CourseTitle, Units: s.Units[have:]}
}

// enroll adds the course to the learner and builds their path if they do
// not have one yet.
func (s *Service) enroll(ctx context.Context, learnerID string, c store.Course) error {
	l, version, err := s.store.Learners().LoadVersioned(ctx, learnerID)
	if err != nil {
		return fmt.Errorf("load learner: %w", err)
	}
	if l.Enroll(c.ID) {
		if _, err := s.store.Learners().SaveIfVersion(ctx, learnerID, *l, version); err != nil {
			return fmt.Errorf("enroll learner: %w", err)
		}
	}

	_, err = s.store.Lessons().Load(ctx, learnerID, c.ID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("load path: %w", err)
	}
	if err := s.store.Lessons().Save(ctx, learnerID, c.ID, progression.BuildPath(c.Structure, 1, 0, 0)); err != nil {
		return fmt.Errorf("save path: %w", err)
	}
	return nil
}

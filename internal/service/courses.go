package service

import (
	"context"

	"github.com/edouardv/campus-manager/internal/metrics"
	"github.com/edouardv/campus-manager/internal/models"
	"github.com/edouardv/campus-manager/internal/validate"
)

type CourseInput struct {
	ID    int64 // 0 creates a new course
	Name  string
	ECTS  float64
	Level models.Level
}

// SaveCourse creates or edits a course. Teachers only, and only their own:
// the stored teacher_id always points at the caller's teaching record.
func (s *Service) SaveCourse(ctx context.Context, token string, in CourseInput) (int64, error) {
	sess, err := s.auth(token, models.Teacher)
	if err != nil {
		return 0, err
	}
	if err := validate.NewCourse(validate.CourseInput{
		Name:  in.Name,
		ECTS:  in.ECTS,
		Level: string(in.Level),
	}); err != nil {
		return 0, err
	}

	t, err := s.teacherProfile(ctx, sess)
	if err != nil {
		return 0, err
	}

	if in.ID != 0 {
		existing, err := s.store.GetCourseByID(ctx, in.ID)
		if err != nil {
			return 0, s.translate("get course", err)
		}
		if existing == nil {
			return 0, ErrNotFound
		}
		if existing.TeacherID == nil || *existing.TeacherID != t.ID {
			return 0, ErrPermission
		}
	}

	id, err := s.store.UpsertCourse(ctx, models.Course{
		ID:        in.ID,
		Name:      in.Name,
		ECTS:      in.ECTS,
		Level:     in.Level,
		TeacherID: &t.ID,
	})
	if err != nil {
		metrics.WriteErrors.Inc()
		return 0, s.translate("save course", err)
	}
	s.log.Infow("course saved", "course_id", id, "teacher_id", t.ID)
	return id, nil
}

// DeleteCourse removes one of the caller's courses together with all its
// enrollments (cascade).
func (s *Service) DeleteCourse(ctx context.Context, token string, courseID int64) error {
	sess, err := s.auth(token, models.Teacher, models.Admin)
	if err != nil {
		return err
	}
	if sess.Role == models.Teacher {
		t, err := s.teacherProfile(ctx, sess)
		if err != nil {
			return err
		}
		c, err := s.store.GetCourseByID(ctx, courseID)
		if err != nil {
			return s.translate("get course", err)
		}
		if c == nil {
			return nil // deleting a missing course is a no-op
		}
		if c.TeacherID == nil || *c.TeacherID != t.ID {
			return ErrPermission
		}
	}
	if err := s.store.DeleteCourse(ctx, courseID); err != nil {
		metrics.WriteErrors.Inc()
		return s.translate("delete course", err)
	}
	s.log.Infow("course deleted", "course_id", courseID)
	return nil
}

func (s *Service) ListCourses(ctx context.Context, token string) ([]models.Course, error) {
	if _, err := s.auth(token); err != nil {
		return nil, err
	}
	out, err := s.store.ListCourses(ctx)
	if err != nil {
		return nil, s.translate("list courses", err)
	}
	return out, nil
}

// MyCourses lists the calling teacher's own courses.
func (s *Service) MyCourses(ctx context.Context, token string) ([]models.Course, error) {
	sess, err := s.auth(token, models.Teacher)
	if err != nil {
		return nil, err
	}
	t, err := s.teacherProfile(ctx, sess)
	if err != nil {
		return nil, err
	}
	out, err := s.store.ListCoursesByTeacher(ctx, t.ID)
	if err != nil {
		return nil, s.translate("list teacher courses", err)
	}
	return out, nil
}

// AvailableCourses lists what the calling student can enroll in: the
// courses at the student's own academic level.
func (s *Service) AvailableCourses(ctx context.Context, token string) ([]models.Course, error) {
	sess, err := s.auth(token, models.Student)
	if err != nil {
		return nil, err
	}
	p, err := s.studentProfile(ctx, sess)
	if err != nil {
		return nil, err
	}
	out, err := s.store.ListCoursesByLevel(ctx, p.Level)
	if err != nil {
		return nil, s.translate("list courses by level", err)
	}
	return out, nil
}

package service

import (
	"context"

	"github.com/edouardv/campus-manager/internal/metrics"
	"github.com/edouardv/campus-manager/internal/models"
	"github.com/edouardv/campus-manager/internal/validate"
)

// Enroll subscribes the calling student to a course. Enrolling twice into
// the same course is the upsert case and leaves a single ungraded row.
func (s *Service) Enroll(ctx context.Context, token string, courseID int64) (int64, error) {
	sess, err := s.auth(token, models.Student)
	if err != nil {
		return 0, err
	}
	p, err := s.studentProfile(ctx, sess)
	if err != nil {
		return 0, err
	}

	// keep the existing score when the student re-enrolls
	var score *float64
	if existing, err := s.store.GetEnrollmentByPair(ctx, p.ID, courseID); err != nil {
		return 0, s.translate("get enrollment", err)
	} else if existing != nil {
		score = existing.Score
	}

	id, err := s.store.UpsertEnrollment(ctx, models.Enrollment{
		StudentID: p.ID,
		CourseID:  courseID,
		Score:     score,
	})
	if err != nil {
		metrics.WriteErrors.Inc()
		return 0, s.translate("enroll", err)
	}
	s.log.Infow("enrolled", "student_id", p.ID, "course_id", courseID)
	return id, nil
}

// Drop removes the calling student's enrollment in a course. Dropping a
// course the student is not enrolled in is a no-op.
func (s *Service) Drop(ctx context.Context, token string, courseID int64) error {
	sess, err := s.auth(token, models.Student)
	if err != nil {
		return err
	}
	p, err := s.studentProfile(ctx, sess)
	if err != nil {
		return err
	}
	e, err := s.store.GetEnrollmentByPair(ctx, p.ID, courseID)
	if err != nil {
		return s.translate("get enrollment", err)
	}
	if e == nil {
		return nil
	}
	if err := s.store.DeleteEnrollment(ctx, e.ID); err != nil {
		metrics.WriteErrors.Inc()
		return s.translate("drop enrollment", err)
	}
	s.log.Infow("dropped", "student_id", p.ID, "course_id", courseID)
	return nil
}

// PostScore grades one student in one of the calling teacher's courses.
// The (student, course) pair is the key: posting again replaces the score.
// nil score resets the enrollment to ungraded.
func (s *Service) PostScore(ctx context.Context, token string, studentID, courseID int64, score *float64) error {
	sess, err := s.auth(token, models.Teacher)
	if err != nil {
		return err
	}
	if err := validate.Score(score); err != nil {
		return err
	}

	t, err := s.teacherProfile(ctx, sess)
	if err != nil {
		return err
	}
	c, err := s.store.GetCourseByID(ctx, courseID)
	if err != nil {
		return s.translate("get course", err)
	}
	if c == nil {
		return ErrNotFound
	}
	if c.TeacherID == nil || *c.TeacherID != t.ID {
		return ErrPermission
	}

	if _, err := s.store.UpsertEnrollment(ctx, models.Enrollment{
		StudentID: studentID,
		CourseID:  courseID,
		Score:     score,
	}); err != nil {
		metrics.WriteErrors.Inc()
		return s.translate("post score", err)
	}
	s.log.Infow("score posted", "student_id", studentID, "course_id", courseID)

	if s.notifier != nil && score != nil {
		s.notifyScore(ctx, studentID, *c)
	}
	return nil
}

func (s *Service) notifyScore(ctx context.Context, studentID int64, course models.Course) {
	rows, err := s.store.ListEnrollmentsByCourseWithStudent(ctx, course.ID)
	if err != nil {
		s.log.Warnw("score notification skipped", "err", err)
		return
	}
	for _, r := range rows {
		if r.StudentID == studentID {
			s.notifier.ScorePosted(ctx, r, course)
			return
		}
	}
}

// Transcript returns the calling student's enrollments joined with course
// and teacher details, ordered by course name.
func (s *Service) Transcript(ctx context.Context, token string) ([]models.EnrollmentWithCourse, error) {
	sess, err := s.auth(token, models.Student)
	if err != nil {
		return nil, err
	}
	p, err := s.studentProfile(ctx, sess)
	if err != nil {
		return nil, err
	}
	rows, err := s.store.ListEnrollmentsByStudentWithCourse(ctx, p.ID)
	if err != nil {
		return nil, s.translate("transcript", err)
	}
	return rows, nil
}

// CourseResults returns one course's enrollments joined with student
// details. Teachers see their own courses; the admin sees any.
func (s *Service) CourseResults(ctx context.Context, token string, courseID int64) ([]models.EnrollmentWithStudent, error) {
	sess, err := s.auth(token, models.Teacher, models.Admin)
	if err != nil {
		return nil, err
	}
	if sess.Role == models.Teacher {
		t, err := s.teacherProfile(ctx, sess)
		if err != nil {
			return nil, err
		}
		c, err := s.store.GetCourseByID(ctx, courseID)
		if err != nil {
			return nil, s.translate("get course", err)
		}
		if c == nil {
			return nil, ErrNotFound
		}
		if c.TeacherID == nil || *c.TeacherID != t.ID {
			return nil, ErrPermission
		}
	}
	rows, err := s.store.ListEnrollmentsByCourseWithStudent(ctx, courseID)
	if err != nil {
		return nil, s.translate("course results", err)
	}
	return rows, nil
}

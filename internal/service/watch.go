package service

import (
	"context"

	"github.com/edouardv/campus-manager/internal/db"
	"github.com/edouardv/campus-manager/internal/metrics"
	"github.com/edouardv/campus-manager/internal/models"
)

// watch re-runs query after every write on the given tables and pushes the
// new result set. The first result is pushed immediately; the channel is
// closed when ctx ends. Results may coalesce under write bursts — the
// subscriber always converges on the latest state.
func watch[T any](ctx context.Context, s *Service, tables []string, query func(context.Context) ([]T, error)) (<-chan []T, error) {
	first, err := query(ctx)
	if err != nil {
		return nil, err
	}

	sub := s.store.Watch(tables...)
	metrics.LiveSubscribers.Inc()

	out := make(chan []T, 1)
	out <- first

	go func() {
		defer func() {
			sub.Close()
			metrics.LiveSubscribers.Dec()
			close(out)
		}()
		for {
			select {
			case <-ctx.Done():
				return
			case <-sub.C:
				rows, err := query(ctx)
				if err != nil {
					s.log.Warnw("live query refresh failed", "err", err)
					continue
				}
				select {
				case out <- rows:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

// WatchStudents re-emits the full student list whenever the students table
// changes.
func (s *Service) WatchStudents(ctx context.Context, token string) (<-chan []models.StudentProfile, error) {
	if _, err := s.auth(token, models.Admin, models.Teacher); err != nil {
		return nil, err
	}
	return watch(ctx, s, []string{db.TableStudents}, s.store.ListStudents)
}

// WatchCourses re-emits the course catalogue on any course change,
// including teacher deletions that detach courses.
func (s *Service) WatchCourses(ctx context.Context, token string) (<-chan []models.Course, error) {
	if _, err := s.auth(token); err != nil {
		return nil, err
	}
	return watch(ctx, s, []string{db.TableCourses}, s.store.ListCourses)
}

// WatchCourseResults re-emits one course's result sheet as scores land or
// students come and go.
func (s *Service) WatchCourseResults(ctx context.Context, token string, courseID int64) (<-chan []models.EnrollmentWithStudent, error) {
	if _, err := s.auth(token, models.Teacher, models.Admin); err != nil {
		return nil, err
	}
	return watch(ctx, s, []string{db.TableEnrollments, db.TableStudents, db.TableUsers},
		func(ctx context.Context) ([]models.EnrollmentWithStudent, error) {
			return s.store.ListEnrollmentsByCourseWithStudent(ctx, courseID)
		})
}

// WatchTranscript re-emits the calling student's transcript on enrollment
// or course changes.
func (s *Service) WatchTranscript(ctx context.Context, token string) (<-chan []models.EnrollmentWithCourse, error) {
	sess, err := s.auth(token, models.Student)
	if err != nil {
		return nil, err
	}
	p, err := s.studentProfile(ctx, sess)
	if err != nil {
		return nil, err
	}
	return watch(ctx, s, []string{db.TableEnrollments, db.TableCourses, db.TableTeachers},
		func(ctx context.Context) ([]models.EnrollmentWithCourse, error) {
			return s.store.ListEnrollmentsByStudentWithCourse(ctx, p.ID)
		})
}

package db

import (
	"context"
	"database/sql"

	"github.com/edouardv/campus-manager/internal/models"
)

// UpsertEnrollment writes an enrollment keyed by its natural key: inserting
// the same (student, course) pair again replaces the stored score instead of
// creating a second row. Returns the row id.
func (s *Store) UpsertEnrollment(ctx context.Context, e models.Enrollment) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `
INSERT INTO enrollments (student_id, course_id, score)
VALUES ($1, $2, $3)
ON CONFLICT (student_id, course_id) DO UPDATE SET score = excluded.score
RETURNING id`, e.StudentID, e.CourseID, e.Score).Scan(&id)
	if err != nil {
		return 0, err
	}
	s.notify(TableEnrollments)
	return id, nil
}

// SetScore grades one enrollment in place. score nil resets it to ungraded.
func (s *Store) SetScore(ctx context.Context, enrollmentID int64, score *float64) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE enrollments SET score = $2 WHERE id = $1`, enrollmentID, score)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		s.notify(TableEnrollments)
	}
	return nil
}

func (s *Store) GetEnrollmentByID(ctx context.Context, id int64) (*models.Enrollment, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, student_id, course_id, score FROM enrollments WHERE id = $1`, id)
	return scanEnrollment(row)
}

// GetEnrollmentByPair looks the row up by its natural key.
func (s *Store) GetEnrollmentByPair(ctx context.Context, studentID, courseID int64) (*models.Enrollment, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, student_id, course_id, score
FROM enrollments
WHERE student_id = $1 AND course_id = $2`, studentID, courseID)
	return scanEnrollment(row)
}

func scanEnrollment(row *sql.Row) (*models.Enrollment, error) {
	var e models.Enrollment
	if err := row.Scan(&e.ID, &e.StudentID, &e.CourseID, &e.Score); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

func (s *Store) ListEnrollments(ctx context.Context) ([]models.Enrollment, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, student_id, course_id, score FROM enrollments`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []models.Enrollment
	for rows.Next() {
		var e models.Enrollment
		if err := rows.Scan(&e.ID, &e.StudentID, &e.CourseID, &e.Score); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// ListEnrollmentsByStudentWithCourse is the transcript read: each enrollment
// joined with its course and, when still attached, the course's teacher.
// Ordered by course name, not surrogate ids.
func (s *Store) ListEnrollmentsByStudentWithCourse(ctx context.Context, studentID int64) ([]models.EnrollmentWithCourse, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT e.id, e.student_id, e.course_id, e.score,
       c.name AS course_name, c.ects, c.level AS course_level,
       t.last_name || ' ' || t.first_name AS teacher_name
FROM enrollments e
JOIN courses c ON e.course_id = c.id
LEFT JOIN teachers t ON c.teacher_id = t.id
WHERE e.student_id = $1
ORDER BY c.name`, studentID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []models.EnrollmentWithCourse
	for rows.Next() {
		var r models.EnrollmentWithCourse
		var level string
		if err := rows.Scan(&r.ID, &r.StudentID, &r.CourseID, &r.Score,
			&r.CourseName, &r.ECTS, &level, &r.TeacherName); err != nil {
			return nil, err
		}
		r.CourseLevel = models.Level(level)
		out = append(out, r)
	}
	return out, rows.Err()
}

// ListEnrollmentsByCourseWithStudent is the result-sheet read for one
// course, ordered by the students' display names.
func (s *Store) ListEnrollmentsByCourseWithStudent(ctx context.Context, courseID int64) ([]models.EnrollmentWithStudent, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT e.id, e.student_id, e.course_id, e.score,
       st.first_name, st.last_name, u.email AS student_email
FROM enrollments e
JOIN students st ON e.student_id = st.id
JOIN users u ON st.user_id = u.id
WHERE e.course_id = $1
ORDER BY st.last_name, st.first_name`, courseID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []models.EnrollmentWithStudent
	for rows.Next() {
		var r models.EnrollmentWithStudent
		if err := rows.Scan(&r.ID, &r.StudentID, &r.CourseID, &r.Score,
			&r.FirstName, &r.LastName, &r.StudentEmail); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// DeleteEnrollment removes exactly one row. Missing id is a no-op.
func (s *Store) DeleteEnrollment(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM enrollments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		s.notify(TableEnrollments)
	}
	return nil
}

package db

import (
	"context"
	"database/sql"

	"github.com/edouardv/campus-manager/internal/models"
)

func (s *Store) UpsertCourse(ctx context.Context, c models.Course) (int64, error) {
	var id int64
	var err error
	if c.ID == 0 {
		err = s.db.QueryRowContext(ctx, `
INSERT INTO courses (name, ects, level, teacher_id)
VALUES ($1, $2, $3, $4)
RETURNING id`, c.Name, c.ECTS, string(c.Level), c.TeacherID).Scan(&id)
	} else {
		id = c.ID
		_, err = s.db.ExecContext(ctx, `
INSERT INTO courses (id, name, ects, level, teacher_id)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (id) DO UPDATE
SET name = excluded.name,
    ects = excluded.ects,
    level = excluded.level,
    teacher_id = excluded.teacher_id`,
			c.ID, c.Name, c.ECTS, string(c.Level), c.TeacherID)
	}
	if err != nil {
		return 0, err
	}
	s.notify(TableCourses)
	return id, nil
}

func (s *Store) GetCourseByID(ctx context.Context, id int64) (*models.Course, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, name, ects, level, teacher_id FROM courses WHERE id = $1`, id)
	var c models.Course
	var level string
	if err := row.Scan(&c.ID, &c.Name, &c.ECTS, &level, &c.TeacherID); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	c.Level = models.Level(level)
	return &c, nil
}

func (s *Store) ListCourses(ctx context.Context) ([]models.Course, error) {
	return s.queryCourses(ctx, `
SELECT id, name, ects, level, teacher_id FROM courses ORDER BY name`)
}

func (s *Store) ListCoursesByTeacher(ctx context.Context, teacherID int64) ([]models.Course, error) {
	return s.queryCourses(ctx, `
SELECT id, name, ects, level, teacher_id
FROM courses
WHERE teacher_id = $1
ORDER BY name`, teacherID)
}

// ListCoursesByLevel returns what a student at the given level can enroll in.
func (s *Store) ListCoursesByLevel(ctx context.Context, level models.Level) ([]models.Course, error) {
	return s.queryCourses(ctx, `
SELECT id, name, ects, level, teacher_id
FROM courses
WHERE level = $1
ORDER BY name`, string(level))
}

func (s *Store) queryCourses(ctx context.Context, query string, args ...any) ([]models.Course, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []models.Course
	for rows.Next() {
		var c models.Course
		var level string
		if err := rows.Scan(&c.ID, &c.Name, &c.ECTS, &level, &c.TeacherID); err != nil {
			return nil, err
		}
		c.Level = models.Level(level)
		out = append(out, c)
	}
	return out, rows.Err()
}

// DeleteCourse removes the course and, via cascade, all its enrollments.
func (s *Store) DeleteCourse(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		s.notify(TableCourses, TableEnrollments)
	}
	return nil
}

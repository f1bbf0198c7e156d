package db

import (
	"context"
	"database/sql"

	"github.com/edouardv/campus-manager/internal/models"
)

func (s *Store) UpsertTeacher(ctx context.Context, p models.TeacherProfile) (int64, error) {
	var id int64
	var err error
	if p.ID == 0 {
		err = s.db.QueryRowContext(ctx, `
INSERT INTO teachers (user_id, first_name, last_name)
VALUES ($1, $2, $3)
RETURNING id`, p.UserID, p.FirstName, p.LastName).Scan(&id)
	} else {
		id = p.ID
		_, err = s.db.ExecContext(ctx, `
INSERT INTO teachers (id, user_id, first_name, last_name)
VALUES ($1, $2, $3, $4)
ON CONFLICT (id) DO UPDATE
SET user_id = excluded.user_id,
    first_name = excluded.first_name,
    last_name = excluded.last_name`,
			p.ID, p.UserID, p.FirstName, p.LastName)
	}
	if err != nil {
		return 0, err
	}
	s.notify(TableTeachers)
	return id, nil
}

func (s *Store) GetTeacherByID(ctx context.Context, id int64) (*models.TeacherProfile, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, user_id, first_name, last_name FROM teachers WHERE id = $1`, id)
	return scanTeacher(row)
}

func (s *Store) GetTeacherByUserID(ctx context.Context, userID int64) (*models.TeacherProfile, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, user_id, first_name, last_name FROM teachers WHERE user_id = $1`, userID)
	return scanTeacher(row)
}

func scanTeacher(row *sql.Row) (*models.TeacherProfile, error) {
	var p models.TeacherProfile
	if err := row.Scan(&p.ID, &p.UserID, &p.FirstName, &p.LastName); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (s *Store) ListTeachers(ctx context.Context) ([]models.TeacherProfile, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, user_id, first_name, last_name
FROM teachers
ORDER BY last_name, first_name`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []models.TeacherProfile
	for rows.Next() {
		var p models.TeacherProfile
		if err := rows.Scan(&p.ID, &p.UserID, &p.FirstName, &p.LastName); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// DeleteTeacher removes the teaching record only; owned courses stay and
// their teacher_id is cleared by the engine (SET NULL).
func (s *Store) DeleteTeacher(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM teachers WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		s.notify(TableTeachers, TableCourses)
	}
	return nil
}

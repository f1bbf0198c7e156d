package db

import (
	"context"
	"database/sql"

	"github.com/edouardv/campus-manager/internal/models"
)

// UpsertStudent inserts when the profile has no id yet, otherwise replaces
// the row's fields while keeping the key. Returns the row id.
func (s *Store) UpsertStudent(ctx context.Context, p models.StudentProfile) (int64, error) {
	var id int64
	var err error
	if p.ID == 0 {
		err = s.db.QueryRowContext(ctx, `
INSERT INTO students (user_id, first_name, last_name, level)
VALUES ($1, $2, $3, $4)
RETURNING id`, p.UserID, p.FirstName, p.LastName, string(p.Level)).Scan(&id)
	} else {
		id = p.ID
		_, err = s.db.ExecContext(ctx, `
INSERT INTO students (id, user_id, first_name, last_name, level)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (id) DO UPDATE
SET user_id = excluded.user_id,
    first_name = excluded.first_name,
    last_name = excluded.last_name,
    level = excluded.level`,
			p.ID, p.UserID, p.FirstName, p.LastName, string(p.Level))
	}
	if err != nil {
		return 0, err
	}
	s.notify(TableStudents)
	return id, nil
}

func (s *Store) GetStudentByID(ctx context.Context, id int64) (*models.StudentProfile, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, user_id, first_name, last_name, level FROM students WHERE id = $1`, id)
	return scanStudent(row)
}

// GetStudentByUserID resolves the profile from the owning identity row.
func (s *Store) GetStudentByUserID(ctx context.Context, userID int64) (*models.StudentProfile, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, user_id, first_name, last_name, level FROM students WHERE user_id = $1`, userID)
	return scanStudent(row)
}

func scanStudent(row *sql.Row) (*models.StudentProfile, error) {
	var p models.StudentProfile
	var level string
	if err := row.Scan(&p.ID, &p.UserID, &p.FirstName, &p.LastName, &level); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	p.Level = models.Level(level)
	return &p, nil
}

func (s *Store) ListStudents(ctx context.Context) ([]models.StudentProfile, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, user_id, first_name, last_name, level
FROM students
ORDER BY last_name, first_name`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []models.StudentProfile
	for rows.Next() {
		var p models.StudentProfile
		var level string
		if err := rows.Scan(&p.ID, &p.UserID, &p.FirstName, &p.LastName, &level); err != nil {
			return nil, err
		}
		p.Level = models.Level(level)
		out = append(out, p)
	}
	return out, rows.Err()
}

// DeleteStudent removes the profile and, through the engine cascade, every
// enrollment referencing it. Missing id is a no-op.
func (s *Store) DeleteStudent(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		s.notify(TableStudents, TableEnrollments)
	}
	return nil
}

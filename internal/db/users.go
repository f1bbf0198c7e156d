package db

import (
	"context"
	"database/sql"

	"github.com/edouardv/campus-manager/internal/models"
)

// CreateUser inserts a new identity row. A duplicate email surfaces as a
// unique-violation from the engine; the first row stays untouched.
func (s *Store) CreateUser(ctx context.Context, u models.User) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `
INSERT INTO users (email, password_hash, role, level)
VALUES ($1, $2, $3, $4)
RETURNING id`, u.Email, u.PasswordHash, string(u.Role), u.Level).Scan(&id)
	if err != nil {
		return 0, err
	}
	s.notify(TableUsers)
	return id, nil
}

func (s *Store) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, email, password_hash, role, level FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, email, password_hash, role, level FROM users WHERE email = $1`, email)
	return scanUser(row)
}

func scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	var role string
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &role, &u.Level); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	u.Role = models.Role(role)
	return &u, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, email, password_hash, role, level FROM users ORDER BY email`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []models.User
	for rows.Next() {
		var u models.User
		var role string
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &role, &u.Level); err != nil {
			return nil, err
		}
		u.Role = models.Role(role)
		out = append(out, u)
	}
	return out, rows.Err()
}

// DeleteUser removes the identity row; owned student/teacher profiles go
// with it (cascade), and their enrollments in turn. Missing id is a no-op.
func (s *Store) DeleteUser(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		s.notify(TableUsers, TableStudents, TableTeachers, TableCourses, TableEnrollments)
	}
	return nil
}

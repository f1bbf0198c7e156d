package db

import (
	"context"
	"fmt"

	"github.com/edouardv/campus-manager/internal/models"
)

// CreateStudentAccount writes the identity row and its student profile in
// one transaction; either both land or neither does.
func (s *Store) CreateStudentAccount(ctx context.Context, u models.User, p models.StudentProfile) (userID, studentID int64, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, err
	}
	defer func() { _ = tx.Rollback() }()

	err = tx.QueryRowContext(ctx, `
INSERT INTO users (email, password_hash, role, level)
VALUES ($1, $2, $3, $4)
RETURNING id`, u.Email, u.PasswordHash, string(models.Student), string(p.Level)).Scan(&userID)
	if err != nil {
		return 0, 0, err
	}

	err = tx.QueryRowContext(ctx, `
INSERT INTO students (user_id, first_name, last_name, level)
VALUES ($1, $2, $3, $4)
RETURNING id`, userID, p.FirstName, p.LastName, string(p.Level)).Scan(&studentID)
	if err != nil {
		return 0, 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, 0, fmt.Errorf("commit student account: %w", err)
	}
	s.notify(TableUsers, TableStudents)
	return userID, studentID, nil
}

// CreateTeacherAccount is the teaching-staff variant of
// CreateStudentAccount.
func (s *Store) CreateTeacherAccount(ctx context.Context, u models.User, p models.TeacherProfile) (userID, teacherID int64, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, err
	}
	defer func() { _ = tx.Rollback() }()

	err = tx.QueryRowContext(ctx, `
INSERT INTO users (email, password_hash, role)
VALUES ($1, $2, $3)
RETURNING id`, u.Email, u.PasswordHash, string(models.Teacher)).Scan(&userID)
	if err != nil {
		return 0, 0, err
	}

	err = tx.QueryRowContext(ctx, `
INSERT INTO teachers (user_id, first_name, last_name)
VALUES ($1, $2, $3)
RETURNING id`, userID, p.FirstName, p.LastName).Scan(&teacherID)
	if err != nil {
		return 0, 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, 0, fmt.Errorf("commit teacher account: %w", err)
	}
	s.notify(TableUsers, TableTeachers)
	return userID, teacherID, nil
}

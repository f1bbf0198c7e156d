package models

// StudentProfile is owned by its User row and disappears with it (cascade).
type StudentProfile struct {
	ID        int64  `db:"id"`
	UserID    int64  `db:"user_id"`
	FirstName string `db:"first_name"`
	LastName  string `db:"last_name"`
	Level     Level  `db:"level"`
}

type TeacherProfile struct {
	ID        int64  `db:"id"`
	UserID    int64  `db:"user_id"`
	FirstName string `db:"first_name"`
	LastName  string `db:"last_name"`
}

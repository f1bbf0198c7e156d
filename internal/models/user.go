package models

type Role string

const (
	Student Role = "student"
	Teacher Role = "teacher"
	Admin   Role = "admin"
)

type User struct {
	ID           int64   `db:"id"`
	Email        string  `db:"email"`
	PasswordHash string  `db:"password_hash"`
	Role         Role    `db:"role"`
	Level        *string `db:"level"`
}

package models

type Course struct {
	ID    int64   `db:"id"`
	Name  string  `db:"name"`
	ECTS  float64 `db:"ects"`
	Level Level   `db:"level"`
	// TeacherID is nil when the teaching record was deleted; the course
	// itself survives detached.
	TeacherID *int64 `db:"teacher_id"`
}

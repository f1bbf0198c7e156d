package models

// Enrollment links one student to one course. At most one row may exist per
// (StudentID, CourseID) pair; re-submitting the pair updates the score in
// place. Score is nil until the course has been graded — a stored 0 is a
// real zero grade.
type Enrollment struct {
	ID        int64    `db:"id"`
	StudentID int64    `db:"student_id"`
	CourseID  int64    `db:"course_id"`
	Score     *float64 `db:"score"`
}

func (e Enrollment) Graded() bool { return e.Score != nil }

// EnrollmentWithCourse is the joined read used for a student's transcript.
type EnrollmentWithCourse struct {
	ID          int64    `db:"id"`
	StudentID   int64    `db:"student_id"`
	CourseID    int64    `db:"course_id"`
	Score       *float64 `db:"score"`
	CourseName  string   `db:"course_name"`
	ECTS        float64  `db:"ects"`
	CourseLevel Level    `db:"course_level"`
	TeacherName *string  `db:"teacher_name"`
}

// EnrollmentWithStudent is the joined read used for a course's result list.
type EnrollmentWithStudent struct {
	ID           int64    `db:"id"`
	StudentID    int64    `db:"student_id"`
	CourseID     int64    `db:"course_id"`
	Score        *float64 `db:"score"`
	FirstName    string   `db:"first_name"`
	LastName     string   `db:"last_name"`
	StudentEmail string   `db:"student_email"`
}

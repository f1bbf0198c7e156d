package grades

import (
	"math"
	"testing"

	"github.com/edouardv/campus-manager/internal/models"
)

func ptr(v float64) *float64 { return &v }

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestFinal_WeightedAverage(t *testing.T) {
	rows := []models.EnrollmentWithCourse{
		{Score: ptr(18), ECTS: 6},
		{Score: ptr(14), ECTS: 9},
	}
	fg := Final(rows)
	if !almostEqual(fg.Grade, 15.6) {
		t.Fatalf("grade = %v, want 15.6", fg.Grade)
	}
	if fg.Credits != 15 {
		t.Fatalf("credits = %v, want 15", fg.Credits)
	}
	if fg.Courses != 2 {
		t.Fatalf("courses = %d, want 2", fg.Courses)
	}
}

func TestFinal_IgnoresUngraded(t *testing.T) {
	rows := []models.EnrollmentWithCourse{
		{Score: ptr(18), ECTS: 6},
		{Score: nil, ECTS: 30}, // not graded yet, must not weigh in
	}
	fg := Final(rows)
	if !almostEqual(fg.Grade, 18) {
		t.Fatalf("grade = %v, want 18", fg.Grade)
	}
	if fg.Credits != 6 {
		t.Fatalf("credits = %v, want 6", fg.Credits)
	}
}

func TestFinal_ZeroIsARealGrade(t *testing.T) {
	rows := []models.EnrollmentWithCourse{
		{Score: ptr(0), ECTS: 6},
		{Score: ptr(12), ECTS: 6},
	}
	fg := Final(rows)
	if !almostEqual(fg.Grade, 6) {
		t.Fatalf("grade = %v, want 6", fg.Grade)
	}
	if fg.Credits != 12 {
		t.Fatalf("credits = %v, want 12", fg.Credits)
	}
}

func TestFinal_Empty(t *testing.T) {
	fg := Final(nil)
	if fg.Grade != 0 || fg.Credits != 0 || fg.Courses != 0 {
		t.Fatalf("want zero value for empty transcript, got %+v", fg)
	}
}

func TestStats(t *testing.T) {
	rows := []models.EnrollmentWithStudent{
		{Score: ptr(10)},
		{Score: ptr(14)},
		{Score: nil},
	}
	st := Stats(rows)
	if st.Total != 3 || st.Graded != 2 {
		t.Fatalf("total/graded = %d/%d, want 3/2", st.Total, st.Graded)
	}
	if !almostEqual(st.Mean, 12) {
		t.Fatalf("mean = %v, want 12", st.Mean)
	}
}

func TestStats_NoGraded(t *testing.T) {
	st := Stats([]models.EnrollmentWithStudent{{Score: nil}, {Score: nil}})
	if st.Total != 2 || st.Graded != 0 || st.Mean != 0 {
		t.Fatalf("unexpected stats %+v", st)
	}
}

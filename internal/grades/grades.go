// Package grades holds the pure computations over enrollment data: course
// statistics and the ECTS-weighted final grade. Everything here is computed
// fresh from the rows it is given; nothing is cached.
package grades

import "github.com/edouardv/campus-manager/internal/models"

type CourseStats struct {
	Total  int
	Graded int
	Mean   float64
}

// Stats counts a course's enrollments and averages the graded subset.
// Ungraded rows (nil score) are excluded from the mean; with no graded rows
// the mean is 0.
func Stats(rows []models.EnrollmentWithStudent) CourseStats {
	st := CourseStats{Total: len(rows)}
	var sum float64
	for _, r := range rows {
		if r.Score == nil {
			continue
		}
		st.Graded++
		sum += *r.Score
	}
	if st.Graded > 0 {
		st.Mean = sum / float64(st.Graded)
	}
	return st
}

type FinalGrade struct {
	Grade   float64
	Credits float64
	Courses int
}

// Final computes the ECTS-weighted average over the graded subset of a
// student's transcript:
//
//	grade = Σ(score_i × ects_i) / Σ(ects_i)
//
// With no graded enrollments the result is grade 0 over 0 credits, not a
// division error.
func Final(rows []models.EnrollmentWithCourse) FinalGrade {
	var fg FinalGrade
	var weighted float64
	for _, r := range rows {
		if r.Score == nil {
			continue
		}
		fg.Courses++
		fg.Credits += r.ECTS
		weighted += *r.Score * r.ECTS
	}
	if fg.Credits > 0 {
		fg.Grade = weighted / fg.Credits
	}
	return fg
}

package service

import (
	"context"
	"fmt"

	"github.com/edouardv/campus-manager/internal/export"
	"github.com/edouardv/campus-manager/internal/grades"
)

// CourseStats computes count / graded count / mean for one course, fresh
// from the current rows.
func (s *Service) CourseStats(ctx context.Context, token string, courseID int64) (grades.CourseStats, error) {
	rows, err := s.CourseResults(ctx, token, courseID)
	if err != nil {
		return grades.CourseStats{}, err
	}
	return grades.Stats(rows), nil
}

// FinalGrade computes the calling student's ECTS-weighted average over the
// graded part of the transcript. Never cached.
func (s *Service) FinalGrade(ctx context.Context, token string) (grades.FinalGrade, error) {
	rows, err := s.Transcript(ctx, token)
	if err != nil {
		return grades.FinalGrade{}, err
	}
	return grades.Final(rows), nil
}

// ExportCourseResults renders one course's result sheet as an xlsx
// workbook, for teachers to hand out or archive.
func (s *Service) ExportCourseResults(ctx context.Context, token string, courseID int64) ([]byte, error) {
	rows, err := s.CourseResults(ctx, token, courseID)
	if err != nil {
		return nil, err
	}
	c, err := s.store.GetCourseByID(ctx, courseID)
	if err != nil {
		return nil, s.translate("get course", err)
	}
	if c == nil {
		return nil, ErrNotFound
	}

	sheet := export.SheetSpec{
		Title:  c.Name,
		Header: []string{"Last name", "First name", "Email", "Score"},
	}
	for _, r := range rows {
		sheet.Rows = append(sheet.Rows, []string{
			r.LastName, r.FirstName, r.StudentEmail, formatScore(r.Score),
		})
	}
	st := grades.Stats(rows)
	sheet.Rows = append(sheet.Rows,
		nil,
		[]string{"Enrolled", fmt.Sprintf("%d", st.Total)},
		[]string{"Graded", fmt.Sprintf("%d", st.Graded)},
		[]string{"Mean", fmt.Sprintf("%.2f", st.Mean)},
	)

	return export.Workbook([]export.SheetSpec{sheet})
}

// ExportTranscript renders the calling student's transcript, final grade
// included, as an xlsx workbook.
func (s *Service) ExportTranscript(ctx context.Context, token string) ([]byte, error) {
	rows, err := s.Transcript(ctx, token)
	if err != nil {
		return nil, err
	}

	sheet := export.SheetSpec{
		Title:  "Transcript",
		Header: []string{"Course", "Level", "ECTS", "Teacher", "Score"},
	}
	for _, r := range rows {
		teacher := ""
		if r.TeacherName != nil {
			teacher = *r.TeacherName
		}
		sheet.Rows = append(sheet.Rows, []string{
			r.CourseName, string(r.CourseLevel), fmt.Sprintf("%g", r.ECTS),
			teacher, formatScore(r.Score),
		})
	}
	fg := grades.Final(rows)
	sheet.Rows = append(sheet.Rows,
		nil,
		[]string{"Credits graded", fmt.Sprintf("%g", fg.Credits)},
		[]string{"Final grade", fmt.Sprintf("%.2f", fg.Grade)},
	)

	return export.Workbook([]export.SheetSpec{sheet})
}

func formatScore(score *float64) string {
	if score == nil {
		return "—"
	}
	return fmt.Sprintf("%.2f", *score)
}

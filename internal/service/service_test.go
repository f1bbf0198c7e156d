//go:build testutil
// +build testutil

package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/edouardv/campus-manager/internal/db"
	"github.com/edouardv/campus-manager/internal/models"
	"github.com/edouardv/campus-manager/internal/service"
	"github.com/edouardv/campus-manager/internal/session"
	"github.com/edouardv/campus-manager/internal/testutil/testdb"
	"github.com/edouardv/campus-manager/internal/validate"
)

func startService(t *testing.T) (context.Context, *service.Service) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	h, err := testdb.Start(ctx)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(h.Close)

	store := db.NewStore(h.DB, nil)
	svc := service.New(store, session.NewManager(time.Hour), zap.NewNop().Sugar())
	return ctx, svc
}

func ptr(v float64) *float64 { return &v }

func mustHash(t *testing.T) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte("admin-pass"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	return string(h)
}

// registers a student, logs in, returns the token
func studentToken(t *testing.T, ctx context.Context, svc *service.Service, email string, level models.Level) string {
	t.Helper()
	if _, err := svc.RegisterStudent(ctx, service.StudentRegistration{
		Email: email, Password: "student-pass", FirstName: "Jean", LastName: "Dupont", Level: level,
	}); err != nil {
		t.Fatal(err)
	}
	sess, err := svc.Login(ctx, email, "student-pass")
	if err != nil {
		t.Fatal(err)
	}
	return sess.Token
}

func teacherToken(t *testing.T, ctx context.Context, svc *service.Service, email string) string {
	t.Helper()
	if _, err := svc.RegisterTeacher(ctx, service.TeacherRegistration{
		Email: email, Password: "teacher-pass", FirstName: "Paul", LastName: "Roy",
	}); err != nil {
		t.Fatal(err)
	}
	sess, err := svc.Login(ctx, email, "teacher-pass")
	if err != nil {
		t.Fatal(err)
	}
	return sess.Token
}

func TestAuth_RegisterLoginLogout(t *testing.T) {
	ctx, svc := startService(t)

	tok := studentToken(t, ctx, svc, "jean@x.edu", models.B1)

	u, err := svc.CurrentUser(ctx, tok)
	if err != nil {
		t.Fatal(err)
	}
	if u.Role != models.Student || u.Email != "jean@x.edu" {
		t.Fatalf("current user = %+v", u)
	}
	if u.PasswordHash == "student-pass" {
		t.Fatal("password stored in clear")
	}

	svc.Logout(tok)
	if _, err := svc.CurrentUser(ctx, tok); !errors.Is(err, service.ErrNotAuthenticated) {
		t.Fatalf("want ErrNotAuthenticated after logout, got %v", err)
	}
}

func TestAuth_WrongPassword(t *testing.T) {
	ctx, svc := startService(t)
	studentToken(t, ctx, svc, "jean@x.edu", models.B1)

	if _, err := svc.Login(ctx, "jean@x.edu", "wrong"); !errors.Is(err, service.ErrNotAuthenticated) {
		t.Fatalf("want ErrNotAuthenticated, got %v", err)
	}
	if _, err := svc.Login(ctx, "ghost@x.edu", "whatever"); !errors.Is(err, service.ErrNotAuthenticated) {
		t.Fatalf("want ErrNotAuthenticated for unknown email, got %v", err)
	}
}

func TestAuth_DuplicateEmail(t *testing.T) {
	ctx, svc := startService(t)
	studentToken(t, ctx, svc, "jean@x.edu", models.B1)

	_, err := svc.RegisterStudent(ctx, service.StudentRegistration{
		Email: "jean@x.edu", Password: "other-pass", FirstName: "Autre", LastName: "Jean", Level: models.B2,
	})
	if !errors.Is(err, service.ErrDuplicate) {
		t.Fatalf("want ErrDuplicate, got %v", err)
	}

	// the original account still logs in
	if _, err := svc.Login(ctx, "jean@x.edu", "student-pass"); err != nil {
		t.Fatal(err)
	}
}

func TestCourses_OwnershipEnforced(t *testing.T) {
	ctx, svc := startService(t)

	owner := teacherToken(t, ctx, svc, "roy@x.edu")
	other := teacherToken(t, ctx, svc, "other@x.edu")
	student := studentToken(t, ctx, svc, "jean@x.edu", models.B1)

	cID, err := svc.SaveCourse(ctx, owner, service.CourseInput{Name: "Analyse I", ECTS: 6, Level: models.B1})
	if err != nil {
		t.Fatal(err)
	}

	// students cannot create courses
	if _, err := svc.SaveCourse(ctx, student, service.CourseInput{Name: "X", ECTS: 1, Level: models.B1}); !errors.Is(err, service.ErrPermission) {
		t.Fatalf("want ErrPermission, got %v", err)
	}
	// another teacher cannot edit it
	if _, err := svc.SaveCourse(ctx, other, service.CourseInput{ID: cID, Name: "Hijack", ECTS: 1, Level: models.B1}); !errors.Is(err, service.ErrPermission) {
		t.Fatalf("want ErrPermission, got %v", err)
	}
	// nor delete it
	if err := svc.DeleteCourse(ctx, other, cID); !errors.Is(err, service.ErrPermission) {
		t.Fatalf("want ErrPermission, got %v", err)
	}

	if err := svc.DeleteCourse(ctx, owner, cID); err != nil {
		t.Fatal(err)
	}
}

func TestCourses_ValidationBeforeWrite(t *testing.T) {
	ctx, svc := startService(t)
	owner := teacherToken(t, ctx, svc, "roy@x.edu")

	if _, err := svc.SaveCourse(ctx, owner, service.CourseInput{Name: "Analyse", ECTS: 0, Level: models.B1}); !validate.IsValidation(err) {
		t.Fatalf("zero ECTS must fail validation, got %v", err)
	}
	if _, err := svc.SaveCourse(ctx, owner, service.CourseInput{Name: "", ECTS: 3, Level: models.B1}); !validate.IsValidation(err) {
		t.Fatalf("blank name must fail validation, got %v", err)
	}
}

func TestScores_RangeCheckedBeforeStorage(t *testing.T) {
	ctx, svc := startService(t)

	owner := teacherToken(t, ctx, svc, "roy@x.edu")
	student := studentToken(t, ctx, svc, "jean@x.edu", models.B1)

	cID, err := svc.SaveCourse(ctx, owner, service.CourseInput{Name: "Analyse I", ECTS: 6, Level: models.B1})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Enroll(ctx, student, cID); err != nil {
		t.Fatal(err)
	}

	u, err := svc.CurrentUser(ctx, student)
	if err != nil {
		t.Fatal(err)
	}
	p, err := svc.Store().GetStudentByUserID(ctx, u.ID)
	if err != nil || p == nil {
		t.Fatalf("profile: %v, %v", p, err)
	}

	if err := svc.PostScore(ctx, owner, p.ID, cID, ptr(25)); !validate.IsValidation(err) {
		t.Fatalf("score 25 must be rejected by validation, got %v", err)
	}

	// the stored row is untouched: still ungraded
	e, err := svc.Store().GetEnrollmentByPair(ctx, p.ID, cID)
	if err != nil {
		t.Fatal(err)
	}
	if e == nil || e.Graded() {
		t.Fatalf("enrollment changed by rejected write: %+v", e)
	}
}

func TestTranscriptAndFinalGrade(t *testing.T) {
	ctx, svc := startService(t)

	owner := teacherToken(t, ctx, svc, "roy@x.edu")
	student := studentToken(t, ctx, svc, "jean@x.edu", models.B1)

	analyse, err := svc.SaveCourse(ctx, owner, service.CourseInput{Name: "Analyse I", ECTS: 6, Level: models.B1})
	if err != nil {
		t.Fatal(err)
	}
	physique, err := svc.SaveCourse(ctx, owner, service.CourseInput{Name: "Physique", ECTS: 9, Level: models.B1})
	if err != nil {
		t.Fatal(err)
	}
	chimie, err := svc.SaveCourse(ctx, owner, service.CourseInput{Name: "Chimie", ECTS: 30, Level: models.B1})
	if err != nil {
		t.Fatal(err)
	}

	for _, cID := range []int64{analyse, physique, chimie} {
		if _, err := svc.Enroll(ctx, student, cID); err != nil {
			t.Fatal(err)
		}
	}

	u, _ := svc.CurrentUser(ctx, student)
	p, _ := svc.Store().GetStudentByUserID(ctx, u.ID)

	if err := svc.PostScore(ctx, owner, p.ID, analyse, ptr(18)); err != nil {
		t.Fatal(err)
	}
	if err := svc.PostScore(ctx, owner, p.ID, physique, ptr(14)); err != nil {
		t.Fatal(err)
	}
	// chimie stays ungraded and must not weigh in

	fg, err := svc.FinalGrade(ctx, student)
	if err != nil {
		t.Fatal(err)
	}
	if fg.Credits != 15 {
		t.Fatalf("credits = %v, want 15", fg.Credits)
	}
	if fg.Grade < 15.599 || fg.Grade > 15.601 {
		t.Fatalf("grade = %v, want 15.6", fg.Grade)
	}

	st, err := svc.CourseStats(ctx, owner, chimie)
	if err != nil {
		t.Fatal(err)
	}
	if st.Total != 1 || st.Graded != 0 || st.Mean != 0 {
		t.Fatalf("ungraded course stats = %+v", st)
	}
}

func TestFinalGrade_EmptyTranscript(t *testing.T) {
	ctx, svc := startService(t)
	student := studentToken(t, ctx, svc, "jean@x.edu", models.B1)

	fg, err := svc.FinalGrade(ctx, student)
	if err != nil {
		t.Fatal(err)
	}
	if fg.Grade != 0 || fg.Credits != 0 {
		t.Fatalf("want 0/0 for empty transcript, got %+v", fg)
	}
}

func TestEnroll_ReEnrollKeepsScore(t *testing.T) {
	ctx, svc := startService(t)

	owner := teacherToken(t, ctx, svc, "roy@x.edu")
	student := studentToken(t, ctx, svc, "jean@x.edu", models.B1)
	cID, err := svc.SaveCourse(ctx, owner, service.CourseInput{Name: "Analyse I", ECTS: 6, Level: models.B1})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.Enroll(ctx, student, cID); err != nil {
		t.Fatal(err)
	}
	u, _ := svc.CurrentUser(ctx, student)
	p, _ := svc.Store().GetStudentByUserID(ctx, u.ID)
	if err := svc.PostScore(ctx, owner, p.ID, cID, ptr(16)); err != nil {
		t.Fatal(err)
	}

	// a second Enroll call must not wipe the grade
	if _, err := svc.Enroll(ctx, student, cID); err != nil {
		t.Fatal(err)
	}
	e, err := svc.Store().GetEnrollmentByPair(ctx, p.ID, cID)
	if err != nil {
		t.Fatal(err)
	}
	if e.Score == nil || *e.Score != 16 {
		t.Fatalf("re-enroll wiped the score: %v", e.Score)
	}
}

func TestWatchCourses_LiveUpdates(t *testing.T) {
	ctx, svc := startService(t)

	owner := teacherToken(t, ctx, svc, "roy@x.edu")

	wctx, cancel := context.WithCancel(ctx)
	defer cancel()
	ch, err := svc.WatchCourses(wctx, owner)
	if err != nil {
		t.Fatal(err)
	}

	first := <-ch
	if len(first) != 0 {
		t.Fatalf("initial catalogue not empty: %v", first)
	}

	if _, err := svc.SaveCourse(ctx, owner, service.CourseInput{Name: "Analyse I", ECTS: 6, Level: models.B1}); err != nil {
		t.Fatal(err)
	}

	select {
	case next := <-ch:
		if len(next) != 1 || next[0].Name != "Analyse I" {
			t.Fatalf("unexpected live result: %v", next)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no live update after course write")
	}
}

func TestAdmin_DeleteUserClosesSessions(t *testing.T) {
	ctx, svc := startService(t)

	// seed the admin the way the process does
	if _, err := svc.Store().EnsureAdmin(ctx, "admin@x.edu", mustHash(t)); err != nil {
		t.Fatal(err)
	}
	admin, err := svc.Login(ctx, "admin@x.edu", "admin-pass")
	if err != nil {
		t.Fatal(err)
	}

	student := studentToken(t, ctx, svc, "jean@x.edu", models.B1)
	u, err := svc.CurrentUser(ctx, student)
	if err != nil {
		t.Fatal(err)
	}

	// students cannot list users
	if _, err := svc.ListUsers(ctx, student); !errors.Is(err, service.ErrPermission) {
		t.Fatalf("want ErrPermission, got %v", err)
	}

	if err := svc.DeleteUser(ctx, admin.Token, u.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.CurrentUser(ctx, student); !errors.Is(err, service.ErrNotAuthenticated) {
		t.Fatalf("deleted user's session survived: %v", err)
	}

	// the admin cannot delete itself
	if err := svc.DeleteUser(ctx, admin.Token, admin.UserID); !errors.Is(err, service.ErrPermission) {
		t.Fatalf("want ErrPermission, got %v", err)
	}
}

package service

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/edouardv/campus-manager/internal/metrics"
	"github.com/edouardv/campus-manager/internal/models"
	"github.com/edouardv/campus-manager/internal/session"
	"github.com/edouardv/campus-manager/internal/validate"
)

type StudentRegistration struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Level     models.Level
}

// RegisterStudent creates the identity row and the student profile in one
// transaction. The password is bcrypt-hashed before it leaves this function.
func (s *Service) RegisterStudent(ctx context.Context, r StudentRegistration) (int64, error) {
	if err := validate.NewRegistration(validate.Registration{
		Email:     r.Email,
		Password:  r.Password,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Level:     string(r.Level),
	}); err != nil {
		return 0, err
	}
	if !r.Level.Valid() {
		return 0, &validate.Error{Msg: "unknown academic level " + string(r.Level)}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(r.Password), bcrypt.DefaultCost)
	if err != nil {
		return 0, err
	}

	userID, _, err := s.store.CreateStudentAccount(ctx,
		models.User{Email: normEmail(r.Email), PasswordHash: string(hash)},
		models.StudentProfile{FirstName: r.FirstName, LastName: r.LastName, Level: r.Level},
	)
	if err != nil {
		metrics.WriteErrors.Inc()
		return 0, s.translate("register student", err)
	}
	s.log.Infow("student registered", "user_id", userID, "level", r.Level)
	return userID, nil
}

type TeacherRegistration struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

func (s *Service) RegisterTeacher(ctx context.Context, r TeacherRegistration) (int64, error) {
	if err := validate.NewRegistration(validate.Registration{
		Email:     r.Email,
		Password:  r.Password,
		FirstName: r.FirstName,
		LastName:  r.LastName,
	}); err != nil {
		return 0, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(r.Password), bcrypt.DefaultCost)
	if err != nil {
		return 0, err
	}

	userID, _, err := s.store.CreateTeacherAccount(ctx,
		models.User{Email: normEmail(r.Email), PasswordHash: string(hash)},
		models.TeacherProfile{FirstName: r.FirstName, LastName: r.LastName},
	)
	if err != nil {
		metrics.WriteErrors.Inc()
		return 0, s.translate("register teacher", err)
	}
	s.log.Infow("teacher registered", "user_id", userID)
	return userID, nil
}

// Login checks the credentials and opens a session. The same error is
// returned for an unknown email and a wrong password.
func (s *Service) Login(ctx context.Context, email, password string) (session.Session, error) {
	u, err := s.store.GetUserByEmail(ctx, normEmail(email))
	if err != nil {
		return session.Session{}, s.translate("login", err)
	}
	if u == nil {
		return session.Session{}, ErrNotAuthenticated
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return session.Session{}, ErrNotAuthenticated
	}
	sess := s.sessions.Open(u.ID, u.Role)
	s.log.Infow("login", "user_id", u.ID, "role", u.Role)
	return sess, nil
}

func (s *Service) Logout(token string) {
	if sess, ok := s.sessions.Get(token); ok {
		s.log.Infow("logout", "user_id", sess.UserID)
	}
	s.sessions.Close(token)
}

// CurrentUser resolves the session token back to its identity row.
func (s *Service) CurrentUser(ctx context.Context, token string) (*models.User, error) {
	sess, err := s.auth(token)
	if err != nil {
		return nil, err
	}
	u, err := s.store.GetUserByID(ctx, sess.UserID)
	if err != nil {
		return nil, s.translate("current user", err)
	}
	if u == nil {
		// the account was deleted under a live session
		s.sessions.Close(token)
		return nil, ErrNotAuthenticated
	}
	return u, nil
}

// studentProfile resolves the calling student's profile row.
func (s *Service) studentProfile(ctx context.Context, sess session.Session) (*models.StudentProfile, error) {
	p, err := s.store.GetStudentByUserID(ctx, sess.UserID)
	if err != nil {
		return nil, s.translate("student profile", err)
	}
	if p == nil {
		return nil, ErrNotFound
	}
	return p, nil
}

func (s *Service) teacherProfile(ctx context.Context, sess session.Session) (*models.TeacherProfile, error) {
	p, err := s.store.GetTeacherByUserID(ctx, sess.UserID)
	if err != nil {
		return nil, s.translate("teacher profile", err)
	}
	if p == nil {
		return nil, ErrNotFound
	}
	return p, nil
}

func normEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

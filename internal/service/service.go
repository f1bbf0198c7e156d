// Package service is the surface the application's views call. It owns
// role checks, write-boundary validation and the translation of storage
// errors into caller-facing ones; the db package underneath only knows
// about rows and constraints.
package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/edouardv/campus-manager/internal/db"
	"github.com/edouardv/campus-manager/internal/models"
	"github.com/edouardv/campus-manager/internal/observability"
	"github.com/edouardv/campus-manager/internal/session"
)

var (
	// ErrNotAuthenticated means the token resolves to no live session.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrPermission means the session's role may not perform the operation.
	ErrPermission = errors.New("operation not allowed for this role")
	// ErrNotFound is returned by operations that need an existing row.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is a unique-constraint failure, e.g. an email already
	// registered. The previously stored row is untouched.
	ErrDuplicate = errors.New("record already exists")
	// ErrMissingRef is a foreign-key failure: the referenced row is gone.
	ErrMissingRef = errors.New("referenced record does not exist")
)

// ScoreNotifier is told when a student's score lands. Implementations must
// not block; delivery is best effort.
type ScoreNotifier interface {
	ScorePosted(ctx context.Context, student models.EnrollmentWithStudent, course models.Course)
}

type Service struct {
	store    *db.Store
	sessions *session.Manager
	log      *zap.SugaredLogger
	notifier ScoreNotifier // optional
}

func New(store *db.Store, sessions *session.Manager, log *zap.SugaredLogger) *Service {
	return &Service{store: store, sessions: sessions, log: log}
}

// SetNotifier installs an optional score notifier (e.g. Telegram).
func (s *Service) SetNotifier(n ScoreNotifier) { s.notifier = n }

func (s *Service) Store() *db.Store { return s.store }

// auth resolves a token and, when roles are given, requires one of them.
func (s *Service) auth(token string, roles ...models.Role) (session.Session, error) {
	sess, ok := s.sessions.Get(token)
	if !ok {
		return session.Session{}, ErrNotAuthenticated
	}
	if len(roles) == 0 {
		return sess, nil
	}
	for _, r := range roles {
		if sess.Role == r {
			return sess, nil
		}
	}
	return session.Session{}, ErrPermission
}

// translate maps engine constraint failures onto caller-facing sentinels
// and reports anything unexpected.
func (s *Service) translate(op string, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case db.IsUniqueViolation(err):
		return ErrDuplicate
	case db.IsForeignKeyViolation(err):
		return ErrMissingRef
	}
	s.log.Errorw("storage failure", "op", op, "err", err)
	observability.CaptureErr(err)
	return err
}

package service

import (
	"context"

	"github.com/edouardv/campus-manager/internal/backup"
	"github.com/edouardv/campus-manager/internal/metrics"
	"github.com/edouardv/campus-manager/internal/models"
)

// ListUsers is admin-only: every identity row, ordered by email.
func (s *Service) ListUsers(ctx context.Context, token string) ([]models.User, error) {
	if _, err := s.auth(token, models.Admin); err != nil {
		return nil, err
	}
	out, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, s.translate("list users", err)
	}
	return out, nil
}

func (s *Service) ListStudents(ctx context.Context, token string) ([]models.StudentProfile, error) {
	if _, err := s.auth(token, models.Admin, models.Teacher); err != nil {
		return nil, err
	}
	out, err := s.store.ListStudents(ctx)
	if err != nil {
		return nil, s.translate("list students", err)
	}
	return out, nil
}

func (s *Service) ListTeachers(ctx context.Context, token string) ([]models.TeacherProfile, error) {
	if _, err := s.auth(token, models.Admin); err != nil {
		return nil, err
	}
	out, err := s.store.ListTeachers(ctx)
	if err != nil {
		return nil, s.translate("list teachers", err)
	}
	return out, nil
}

// DeleteUser removes an account. Profiles cascade with the user row, a
// student's enrollments cascade with the profile, and a teacher's courses
// are detached, not removed. Any live sessions of the account die with it.
func (s *Service) DeleteUser(ctx context.Context, token string, userID int64) error {
	sess, err := s.auth(token, models.Admin)
	if err != nil {
		return err
	}
	if sess.UserID == userID {
		return ErrPermission // the admin cannot remove itself
	}
	if err := s.store.DeleteUser(ctx, userID); err != nil {
		metrics.WriteErrors.Inc()
		return s.translate("delete user", err)
	}
	s.sessions.CloseUser(userID)
	s.log.Infow("user deleted", "user_id", userID, "by", sess.UserID)
	return nil
}

// TriggerBackup asks the pg backup sidecar for an immediate dump.
func (s *Service) TriggerBackup(ctx context.Context, token string) (string, error) {
	if _, err := s.auth(token, models.Admin); err != nil {
		return "", err
	}
	out, err := backup.Trigger(ctx)
	if err != nil {
		s.log.Errorw("backup trigger failed", "err", err)
		return "", err
	}
	s.log.Infow("backup triggered", "result", out)
	return out, nil
}

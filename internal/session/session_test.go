package session

import (
	"testing"
	"time"

	"github.com/edouardv/campus-manager/internal/models"
)

func TestOpenGetClose(t *testing.T) {
	m := NewManager(time.Hour)

	s := m.Open(42, models.Teacher)
	if s.Token == "" {
		t.Fatal("empty token")
	}

	got, ok := m.Get(s.Token)
	if !ok || got.UserID != 42 || got.Role != models.Teacher {
		t.Fatalf("Get = %+v, %v", got, ok)
	}

	m.Close(s.Token)
	if _, ok := m.Get(s.Token); ok {
		t.Fatal("session still alive after Close")
	}
}

func TestExpiry(t *testing.T) {
	m := NewManager(time.Minute)
	base := time.Now()
	m.now = func() time.Time { return base }

	s := m.Open(1, models.Student)

	m.now = func() time.Time { return base.Add(2 * time.Minute) }
	if _, ok := m.Get(s.Token); ok {
		t.Fatal("expired session must read as absent")
	}
}

func TestSweep(t *testing.T) {
	m := NewManager(time.Minute)
	base := time.Now()
	m.now = func() time.Time { return base }

	m.Open(1, models.Student)
	m.Open(2, models.Student)
	if m.Active() != 2 {
		t.Fatalf("active = %d, want 2", m.Active())
	}

	m.now = func() time.Time { return base.Add(2 * time.Minute) }
	if n := m.Sweep(); n != 2 {
		t.Fatalf("swept %d, want 2", n)
	}
	if m.Active() != 0 {
		t.Fatalf("active = %d after sweep", m.Active())
	}
}

func TestCloseUser(t *testing.T) {
	m := NewManager(time.Hour)
	a := m.Open(7, models.Student)
	b := m.Open(7, models.Student)
	c := m.Open(8, models.Student)

	m.CloseUser(7)
	if _, ok := m.Get(a.Token); ok {
		t.Fatal("first session of user 7 survived")
	}
	if _, ok := m.Get(b.Token); ok {
		t.Fatal("second session of user 7 survived")
	}
	if _, ok := m.Get(c.Token); !ok {
		t.Fatal("session of user 8 was dropped")
	}
}

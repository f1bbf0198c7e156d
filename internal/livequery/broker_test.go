package livequery

import (
	"testing"
	"time"
)

func fired(c chan struct{}) bool {
	select {
	case <-c:
		return true
	case <-time.After(100 * time.Millisecond):
		return false
	}
}

func TestPublishReachesMatchingSubscribers(t *testing.T) {
	b := NewBroker()
	students := b.Subscribe("students")
	courses := b.Subscribe("courses")
	all := b.Subscribe()

	b.Publish("students")

	if !fired(students.C) {
		t.Fatal("students subscriber did not fire")
	}
	if fired(courses.C) {
		t.Fatal("courses subscriber fired for a students write")
	}
	if !fired(all.C) {
		t.Fatal("catch-all subscriber did not fire")
	}
}

func TestPublishCoalesces(t *testing.T) {
	b := NewBroker()
	s := b.Subscribe("enrollments")

	// a burst of writes must never block the publisher
	for i := 0; i < 100; i++ {
		b.Publish("enrollments")
	}

	if !fired(s.C) {
		t.Fatal("no wakeup after burst")
	}
	// at most one more pending wakeup
	select {
	case <-s.C:
	default:
	}
	select {
	case <-s.C:
		t.Fatal("more than two wakeups buffered")
	default:
	}
}

func TestClosedSubscriptionStopsFiring(t *testing.T) {
	b := NewBroker()
	s := b.Subscribe("users")
	s.Close()

	b.Publish("users")
	if fired(s.C) {
		t.Fatal("closed subscription fired")
	}
	if n := b.Subscribers(); n != 0 {
		t.Fatalf("subscribers = %d after close", n)
	}
}

func TestMultiTableSubscription(t *testing.T) {
	b := NewBroker()
	s := b.Subscribe("enrollments", "courses")

	b.Publish("courses")
	if !fired(s.C) {
		t.Fatal("no wakeup for second table")
	}
}

package validate

import "testing"

func ptr(v float64) *float64 { return &v }

func TestScore(t *testing.T) {
	cases := []struct {
		name  string
		score *float64
		ok    bool
	}{
		{"ungraded", nil, true},
		{"zero", ptr(0), true},
		{"top", ptr(20), true},
		{"middle", ptr(12.5), true},
		{"above range", ptr(25), false},
		{"negative", ptr(-1), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Score(tc.score)
			if (err == nil) != tc.ok {
				t.Fatalf("Score(%v) = %v, want ok=%v", tc.score, err, tc.ok)
			}
			if err != nil && !IsValidation(err) {
				t.Fatalf("expected a validation error, got %T", err)
			}
		})
	}
}

func TestNewCourse(t *testing.T) {
	if err := NewCourse(CourseInput{Name: "Analyse I", ECTS: 6, Level: "B1"}); err != nil {
		t.Fatalf("valid course rejected: %v", err)
	}
	if err := NewCourse(CourseInput{Name: "Analyse I", ECTS: 0, Level: "B1"}); err == nil {
		t.Fatal("zero ECTS must be rejected")
	}
	if err := NewCourse(CourseInput{Name: "Analyse I", ECTS: -3, Level: "B1"}); err == nil {
		t.Fatal("negative ECTS must be rejected")
	}
	if err := NewCourse(CourseInput{Name: "", ECTS: 6, Level: "B1"}); err == nil {
		t.Fatal("blank name must be rejected")
	}
	if err := NewCourse(CourseInput{Name: "Analyse I", ECTS: 6, Level: "Z9"}); err == nil {
		t.Fatal("unknown level must be rejected")
	}
}

func TestNewRegistration(t *testing.T) {
	ok := Registration{
		Email:     "jean.dupont@example.edu",
		Password:  "s3cret-pass",
		FirstName: "Jean",
		LastName:  "Dupont",
		Level:     "B2",
	}
	if err := NewRegistration(ok); err != nil {
		t.Fatalf("valid registration rejected: %v", err)
	}

	bad := ok
	bad.Email = "not-an-email"
	if err := NewRegistration(bad); err == nil {
		t.Fatal("bad email must be rejected")
	}

	bad = ok
	bad.Password = "short"
	if err := NewRegistration(bad); err == nil {
		t.Fatal("short password must be rejected")
	}

	bad = ok
	bad.LastName = ""
	if err := NewRegistration(bad); err == nil {
		t.Fatal("blank last name must be rejected")
	}
}

// Package validate checks business rules at the write boundary, before any
// store call. The storage engine only enforces structural constraints;
// everything user-facing (score range, positive ECTS, required fields) is
// rejected here so invalid input never reaches a statement.
package validate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/edouardv/campus-manager/internal/models"
)

var validateInst = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("level", func(fl validator.FieldLevel) bool {
		return models.Level(fl.Field().String()).Valid()
	})
	return v
}

// Error is a business-rule rejection; it never reflects stored state.
type Error struct {
	Msg string
}

func (e *Error) Error() string { return e.Msg }

// IsValidation reports whether err is a write-boundary rejection as opposed
// to a storage failure.
func IsValidation(err error) bool {
	var ve *Error
	return errors.As(err, &ve)
}

func fail(format string, args ...any) error {
	return &Error{Msg: fmt.Sprintf(format, args...)}
}

type Registration struct {
	Email     string `validate:"required,email"`
	Password  string `validate:"required,min=8"`
	FirstName string `validate:"required"`
	LastName  string `validate:"required"`
	Level     string `validate:"omitempty,level"`
}

func NewRegistration(r Registration) error {
	if err := validateInst.Struct(r); err != nil {
		return fail("invalid registration: %s", describe(err))
	}
	return nil
}

type CourseInput struct {
	Name  string  `validate:"required"`
	ECTS  float64 `validate:"gt=0"`
	Level string  `validate:"required,level"`
}

func NewCourse(c CourseInput) error {
	if err := validateInst.Struct(c); err != nil {
		return fail("invalid course: %s", describe(err))
	}
	return nil
}

// Score checks a grade before it is written. nil means "not graded yet" and
// is always acceptable.
func Score(score *float64) error {
	if score == nil {
		return nil
	}
	if *score < 0 || *score > 20 {
		return fail("score %.2f out of range [0, 20]", *score)
	}
	return nil
}

func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s fails %q", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return strings.Join(parts, "; ")
}

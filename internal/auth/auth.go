// Package auth validates sign-in and registration input and talks to an account backend.
package auth

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/benjamintian2005/AITripPlanner/internal/model"
)

type Mode int

const (
	ModeLogin Mode = iota
	ModeRegister
)

func (m Mode) String() string {
	if m == ModeRegister {
		return "register"
	}
	return "login"
}

// Toggle flips between login and register.
func (m Mode) Toggle() Mode {
	if m == ModeRegister {
		return ModeLogin
	}
	return ModeRegister
}

const MinPasswordLen = 6

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var ErrInvalidCredentials = errors.New("invalid email or password")

type Credentials struct {
	Mode     Mode
	Name     string
	Email    string
	Password string
}

type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Authenticator is an account backend.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (User, error)
	Register(ctx context.Context, name, email, password string) (User, error)
}

// ValidationError is an input problem found before contacting the backend.
type ValidationError struct {
	Notice model.Notice
}

func (e *ValidationError) Error() string { return e.Notice.Message }

func invalid(msg string) error {
	return &ValidationError{Notice: model.Notice{Title: "Validation Error", Message: msg}}
}

// Validate checks credentials in a fixed order and reports the first problem.
func Validate(c Credentials) error {
	if strings.TrimSpace(c.Email) == "" {
		return invalid("Email is required")
	}
	if strings.TrimSpace(c.Password) == "" {
		return invalid("Password is required")
	}
	if c.Mode == ModeRegister && strings.TrimSpace(c.Name) == "" {
		return invalid("Name is required")
	}
	if !emailPattern.MatchString(c.Email) {
		return invalid("Please enter a valid email address")
	}
	if len(c.Password) < MinPasswordLen {
		return invalid("Password must be at least 6 characters")
	}
	return nil
}

// Submit validates c and runs the matching backend call.
func Submit(ctx context.Context, a Authenticator, c Credentials) (User, error) {
	if err := Validate(c); err != nil {
		return User{}, err
	}
	if c.Mode == ModeRegister {
		return a.Register(ctx, c.Name, c.Email, c.Password)
	}
	return a.Login(ctx, c.Email, c.Password)
}

// RegisteredNotice is shown after a successful registration; the user then signs in.
var RegisteredNotice = model.Notice{Title: "Success", Message: "Registration successful! Please log in."}

// NoticeFor maps an auth error to the notice shown to the user.
func NoticeFor(err error) model.Notice {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Notice
	}
	msg := err.Error()
	if msg == "" {
		msg = "Authentication failed"
	}
	return model.Notice{Title: "Error", Message: msg}
}

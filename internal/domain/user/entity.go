// backend\internal\domain\user\entity.go
package user

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

// User is a registered shopper profile.
// パスワードは保持しない（外部 IdP に委譲）。
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Username  *string   `json:"username,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Errors (single source)
var (
	ErrInvalidID       = errors.New("user: invalid id")
	ErrInvalidName     = errors.New("user: invalid name")
	ErrInvalidEmail    = errors.New("user: invalid email")
	ErrInvalidUsername = errors.New("user: invalid username")
	ErrConflict        = errors.New("user: email or username already exists")
)

// Policy
var (
	MaxNameLength     = 100
	MaxUsernameLength = 40
)

var (
	emailRe    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	usernameRe = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)
)

// Constructors

func New(id string, in CreateUserInput, now time.Time) (User, error) {
	u := User{
		ID:        strings.TrimSpace(id),
		Name:      strings.TrimSpace(in.Name),
		Email:     NormalizeEmail(in.Email),
		Username:  normalizePtr(in.Username),
		CreatedAt: now.UTC(),
	}
	if err := u.validate(); err != nil {
		return User{}, err
	}
	return u, nil
}

// Validation
func (u User) validate() error {
	if strings.Contains(u.ID, "/") {
		return ErrInvalidID
	}
	if u.Name == "" || len([]rune(u.Name)) > MaxNameLength {
		return ErrInvalidName
	}
	if !emailRe.MatchString(u.Email) {
		return ErrInvalidEmail
	}
	if u.Username != nil {
		n := *u.Username
		if len(n) > MaxUsernameLength || !usernameRe.MatchString(n) {
			return ErrInvalidUsername
		}
	}
	return nil
}

// Helpers

// NormalizeEmail trims and lower-cases for uniqueness checks.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func normalizePtr(p *string) *string {
	if p == nil {
		return nil
	}
	s := strings.TrimSpace(*p)
	if s == "" {
		return nil
	}
	return &s
}

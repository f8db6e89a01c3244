// backend/internal/domain/newsletter/entity.go
package newsletter

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

// Subscriber - メール購読者。email は正規化済み（trim + lower）で一意。
type Subscriber struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	SubscribedAt time.Time `json:"subscribedAt"`
}

// CampaignStatus
type CampaignStatus string

const (
	CampaignSent CampaignStatus = "sent"
)

// Campaign is the log of one newsletter broadcast. No email is delivered.
type Campaign struct {
	ID             string         `json:"id"`
	Subject        string         `json:"subject"`
	Content        string         `json:"content"`
	RecipientCount int            `json:"recipientCount"`
	Status         CampaignStatus `json:"status"`
	SentAt         time.Time      `json:"sentAt"`
}

var (
	ErrInvalidEmail   = errors.New("newsletter: invalid email")
	ErrInvalidSubject = errors.New("newsletter: subject is required")
	ErrInvalidContent = errors.New("newsletter: content is required")
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// NormalizeEmail trims and lower-cases; subscribe is idempotent on this value.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ValidateEmail expects an already normalized value.
func ValidateEmail(email string) error {
	if !emailRe.MatchString(email) {
		return ErrInvalidEmail
	}
	return nil
}

func NewCampaign(subject, content string, recipients int, now time.Time) (Campaign, error) {
	c := Campaign{
		Subject:        strings.TrimSpace(subject),
		Content:        strings.TrimSpace(content),
		RecipientCount: recipients,
		Status:         CampaignSent,
		SentAt:         now.UTC(),
	}
	if c.Subject == "" {
		return Campaign{}, ErrInvalidSubject
	}
	if c.Content == "" {
		return Campaign{}, ErrInvalidContent
	}
	return c, nil
}

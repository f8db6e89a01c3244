// backend/internal/application/usecase/newsletter_usecase.go
package usecase

import (
	"context"
	"fmt"
	"log"
	"strings"

	newsletterdom "storefront/internal/domain/newsletter"
)

type NewsletterUsecase struct {
	repo  newsletterdom.Repository
	clock Clock
}

func NewNewsletterUsecase(repo newsletterdom.Repository) *NewsletterUsecase {
	return &NewsletterUsecase{repo: repo, clock: systemClock{}}
}

// Subscribe is idempotent on the normalized email.
func (uc *NewsletterUsecase) Subscribe(ctx context.Context, email string) (*newsletterdom.Subscriber, error) {
	e := newsletterdom.NormalizeEmail(email)
	if e == "" {
		return nil, invalidf("email is required")
	}
	if err := newsletterdom.ValidateEmail(e); err != nil {
		return nil, invalid(err)
	}

	s, err := uc.repo.SubscribeNewsletter(ctx, e)
	if err != nil {
		return nil, classify(err)
	}
	log.Printf("[newsletter] subscribed id=%s email=%s", s.ID, maskEmail(s.Email))
	return s, nil
}

type SendNewsletterInput struct {
	Subject   string `json:"subject"`
	Content   string `json:"content"`
	TestEmail string `json:"testEmail,omitempty"`
}

type SendNewsletterResult struct {
	Success         bool   `json:"success"`
	Message         string `json:"message"`
	SubscriberCount int    `json:"subscriberCount"`
}

// Send records a broadcast campaign for all subscribers. No email is delivered.
// With TestEmail set, nothing is recorded and the count is 1.
func (uc *NewsletterUsecase) Send(ctx context.Context, in SendNewsletterInput) (SendNewsletterResult, error) {
	subject := strings.TrimSpace(in.Subject)
	content := strings.TrimSpace(in.Content)
	if subject == "" || content == "" {
		return SendNewsletterResult{}, invalidf("subject and content are required")
	}

	if test := strings.TrimSpace(in.TestEmail); test != "" {
		if err := newsletterdom.ValidateEmail(newsletterdom.NormalizeEmail(test)); err != nil {
			return SendNewsletterResult{}, invalid(err)
		}
		log.Printf("[newsletter] test send to=%s subject=%q", maskEmail(test), subject)
		return SendNewsletterResult{
			Success:         true,
			Message:         fmt.Sprintf("Test newsletter sent to %s", test),
			SubscriberCount: 1,
		}, nil
	}

	subs, err := uc.repo.ListSubscribers(ctx)
	if err != nil {
		return SendNewsletterResult{}, classify(err)
	}

	c, err := newsletterdom.NewCampaign(subject, content, len(subs), uc.clock.Now())
	if err != nil {
		return SendNewsletterResult{}, invalid(err)
	}
	saved, err := uc.repo.RecordCampaign(ctx, c)
	if err != nil {
		return SendNewsletterResult{}, classify(err)
	}

	log.Printf("[newsletter] campaign recorded id=%s recipients=%d", saved.ID, saved.RecipientCount)
	return SendNewsletterResult{
		Success:         true,
		Message:         fmt.Sprintf("Newsletter sent to %d subscribers", len(subs)),
		SubscriberCount: len(subs),
	}, nil
}

package newsletter

import "context"

// Repository
//
// Firestore:
// - newsletter:     { email, subscribedAt }
// - newsletterLogs: { subject, content, recipientCount, status, sentAt }
type Repository interface {
	// SubscribeNewsletter returns the existing subscriber when the normalized
	// email is already present (idempotent).
	SubscribeNewsletter(ctx context.Context, email string) (*Subscriber, error)
	ListSubscribers(ctx context.Context) ([]Subscriber, error)
	RecordCampaign(ctx context.Context, c Campaign) (*Campaign, error)
}

// backend/internal/adapters/out/firestore/newsletter_repository_fs.go
package firestore

import (
	"context"
	"errors"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"

	newsletterdom "storefront/internal/domain/newsletter"
)

// NewsletterRepositoryFS implements newsletter.Repository.
//
// - newsletter:     docId = uuid v5(URL, "mailto:"+email) / { email, subscribedAt }
// - newsletterLogs: docId = auto                         / { subject, content, recipientCount, status, sentAt }
//
// subscriber の docId を email から決定的に作るので、同時 subscribe でも 1 件に収束する。
type NewsletterRepositoryFS struct {
	base
	now func() time.Time
}

func NewNewsletterRepositoryFS(client *firestore.Client) *NewsletterRepositoryFS {
	return &NewsletterRepositoryFS{
		base: base{Client: client, Timeout: DefaultOpTimeout},
		now:  time.Now,
	}
}

func (r *NewsletterRepositoryFS) subscribers() *firestore.CollectionRef {
	return r.Client.Collection(colNewsletter)
}

func (r *NewsletterRepositoryFS) logs() *firestore.CollectionRef {
	return r.Client.Collection(colNewsletterLogs)
}

func subscriberDocID(email string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("mailto:"+email)).String()
}

// SubscribeNewsletter is idempotent on the normalized email.
func (r *NewsletterRepositoryFS) SubscribeNewsletter(ctx context.Context, email string) (*newsletterdom.Subscriber, error) {
	e := newsletterdom.NormalizeEmail(email)
	if err := newsletterdom.ValidateEmail(e); err != nil {
		return nil, err
	}

	ctx, cancel, err := r.begin(ctx, "SubscribeNewsletter")
	if err != nil {
		return nil, err
	}
	defer cancel()

	ref := r.subscribers().Doc(subscriberDocID(e))
	var out newsletterdom.Subscriber

	err = r.Client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err == nil {
			out, err = docToSubscriber(snap)
			return err
		}
		if !isNotFound(err) {
			return err
		}
		out = newsletterdom.Subscriber{
			ID:           ref.ID,
			Email:        e,
			SubscribedAt: r.now().UTC(),
		}
		return tx.Create(ref, subscriberDoc{Email: out.Email, SubscribedAt: out.SubscribedAt})
	})
	if err != nil {
		return nil, mapErr("SubscribeNewsletter", err)
	}
	return &out, nil
}

// ListSubscribers returns subscribers ordered by subscribedAt.
func (r *NewsletterRepositoryFS) ListSubscribers(ctx context.Context) ([]newsletterdom.Subscriber, error) {
	ctx, cancel, err := r.begin(ctx, "ListSubscribers")
	if err != nil {
		return nil, err
	}
	defer cancel()

	it := r.subscribers().OrderBy("subscribedAt", firestore.Asc).Documents(ctx)
	defer it.Stop()

	out := []newsletterdom.Subscriber{}
	for {
		snap, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, mapErr("ListSubscribers", err)
		}
		s, err := docToSubscriber(snap)
		if err != nil {
			return nil, mapErr("ListSubscribers", err)
		}
		out = append(out, s)
	}
	return out, nil
}

func (r *NewsletterRepositoryFS) RecordCampaign(ctx context.Context, c newsletterdom.Campaign) (*newsletterdom.Campaign, error) {
	ctx, cancel, err := r.begin(ctx, "RecordCampaign")
	if err != nil {
		return nil, err
	}
	defer cancel()

	ref := r.logs().NewDoc()
	if c.ID != "" {
		ref = r.logs().Doc(c.ID)
	}
	c.ID = ref.ID

	if _, err := ref.Create(ctx, campaignDoc{
		Subject:        c.Subject,
		Content:        c.Content,
		RecipientCount: c.RecipientCount,
		Status:         string(c.Status),
		SentAt:         c.SentAt.UTC(),
	}); err != nil {
		return nil, mapErr("RecordCampaign", err)
	}
	return &c, nil
}

// -----------------------------------------
// Firestore DTO
// -----------------------------------------

type subscriberDoc struct {
	Email        string    `firestore:"email"`
	SubscribedAt time.Time `firestore:"subscribedAt"`
}

type campaignDoc struct {
	Subject        string    `firestore:"subject"`
	Content        string    `firestore:"content"`
	RecipientCount int       `firestore:"recipientCount"`
	Status         string    `firestore:"status"`
	SentAt         time.Time `firestore:"sentAt"`
}

func docToSubscriber(snap *firestore.DocumentSnapshot) (newsletterdom.Subscriber, error) {
	var d subscriberDoc
	if err := snap.DataTo(&d); err != nil {
		return newsletterdom.Subscriber{}, err
	}
	return newsletterdom.Subscriber{
		ID:           snap.Ref.ID,
		Email:        d.Email,
		SubscribedAt: d.SubscribedAt.UTC(),
	}, nil
}

// backend/internal/adapters/out/memory/newsletter_repository_mem.go
package memory

import (
	"context"
	"sort"

	newsletterdom "storefront/internal/domain/newsletter"
)

// SubscribeNewsletter returns the existing record for an already subscribed email.
func (s *Store) SubscribeNewsletter(ctx context.Context, email string) (*newsletterdom.Subscriber, error) {
	if err := alive(ctx, "SubscribeNewsletter"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	e := newsletterdom.NormalizeEmail(email)
	if err := newsletterdom.ValidateEmail(e); err != nil {
		return nil, err
	}
	for _, sub := range s.subscribers {
		if sub.Email == e {
			cp := sub
			return &cp, nil
		}
	}

	sub := newsletterdom.Subscriber{
		ID:           s.newID(),
		Email:        e,
		SubscribedAt: s.now().UTC(),
	}
	s.subscribers[sub.ID] = sub
	cp := sub
	return &cp, nil
}

func (s *Store) ListSubscribers(ctx context.Context) ([]newsletterdom.Subscriber, error) {
	if err := alive(ctx, "ListSubscribers"); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]newsletterdom.Subscriber, 0, len(s.subscribers))
	for _, sub := range s.subscribers {
		out = append(out, sub)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].SubscribedAt.Equal(out[j].SubscribedAt) {
			return out[i].SubscribedAt.Before(out[j].SubscribedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) RecordCampaign(ctx context.Context, c newsletterdom.Campaign) (*newsletterdom.Campaign, error) {
	if err := alive(ctx, "RecordCampaign"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	c.ID = s.id(c.ID)
	s.campaigns[c.ID] = c
	cp := c
	return &cp, nil
}

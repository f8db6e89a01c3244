// backend/internal/adapters/out/memory/store.go
package memory

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"storefront/internal/application/usecase"
	cartdom "storefront/internal/domain/cart"
	catdom "storefront/internal/domain/category"
	"storefront/internal/domain/common"
	newsletterdom "storefront/internal/domain/newsletter"
	orderdom "storefront/internal/domain/order"
	productdom "storefront/internal/domain/product"
	userdom "storefront/internal/domain/user"
	"storefront/internal/infra/fixtures"
)

// Store is the in-process Storage variant.
//
// - one RWMutex guards every collection (mutations are serialized)
// - reads take the read lock and return copies; callers never see stored values
// - constructed per process (or per test); seeded with fixtures unless WithoutSeed
type Store struct {
	mu sync.RWMutex

	users       map[string]userdom.User
	categories  map[string]catdom.Category
	products    map[string]productdom.Product
	cartItems   map[string]cartdom.CartItem
	subscribers map[string]newsletterdom.Subscriber
	campaigns   map[string]newsletterdom.Campaign
	orders      map[string]orderdom.Order

	now   func() time.Time
	newID func() string
}

var _ usecase.Storage = (*Store)(nil)

type Option func(*Store)

// WithClock overrides time.Now (tests).
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides uuid generation (tests).
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// New builds a store seeded with the fixture catalog.
func New(opts ...Option) *Store {
	s := NewEmpty(opts...)
	s.seed()
	return s
}

// NewEmpty builds a store without fixtures.
func NewEmpty(opts ...Option) *Store {
	s := &Store{
		users:       map[string]userdom.User{},
		categories:  map[string]catdom.Category{},
		products:    map[string]productdom.Product{},
		cartItems:   map[string]cartdom.CartItem{},
		subscribers: map[string]newsletterdom.Subscriber{},
		campaigns:   map[string]newsletterdom.Campaign{},
		orders:      map[string]orderdom.Order{},
		now:         time.Now,
		newID:       func() string { return uuid.New().String() },
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Store) seed() {
	for _, in := range fixtures.Categories() {
		c, err := catdom.New(in.ID, in.Name, in.Slug, in.Description, in.ImageURL)
		if err != nil {
			log.Printf("[memory] seed category %s skipped: %v", in.ID, err)
			continue
		}
		s.categories[c.ID] = c
	}
	for _, sp := range fixtures.Products() {
		p, err := productdom.New(sp.Input.ID, sp.Input, sp.CreatedAt)
		if err != nil {
			log.Printf("[memory] seed product %s skipped: %v", sp.Input.ID, err)
			continue
		}
		s.products[p.ID] = p
	}
	log.Printf("[memory] seeded categories=%d products=%d", len(s.categories), len(s.products))
}

// alive maps a cancelled / expired context to ErrBackendUnavailable.
func alive(ctx context.Context, op string) error {
	if err := ctx.Err(); err != nil {
		return common.Unavailable("memory."+op, err)
	}
	return nil
}

func (s *Store) id(requested string) string {
	if requested != "" {
		return requested
	}
	return s.newID()
}

func clonePtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneCategory(c catdom.Category) catdom.Category {
	c.Description = clonePtr(c.Description)
	c.ImageURL = clonePtr(c.ImageURL)
	return c
}

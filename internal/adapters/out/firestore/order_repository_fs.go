// backend/internal/adapters/out/firestore/order_repository_fs.go
package firestore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	orderdom "storefront/internal/domain/order"
	productdom "storefront/internal/domain/product"
)

// OrderRepositoryFS implements order.Repository.
//
// - orders:   { sessionId, customerInfo{...}, items[...], total, status, createdAt }
// - products: stockQuantity / inStock / lastSold are updated by PlaceOrder
//
// PlaceOrder は 1 トランザクション:
//   read all products -> check stock -> update products -> create order
type OrderRepositoryFS struct {
	base
	Products *ProductRepositoryFS
}

func NewOrderRepositoryFS(client *firestore.Client, products *ProductRepositoryFS) *OrderRepositoryFS {
	if products == nil {
		products = NewProductRepositoryFS(client, nil)
	}
	return &OrderRepositoryFS{
		base:     base{Client: client, Timeout: DefaultOpTimeout},
		Products: products,
	}
}

func (r *OrderRepositoryFS) ordersCol() *firestore.CollectionRef {
	return r.Client.Collection(colOrders)
}

// PlaceOrder stores the order and decrements stock all-or-nothing.
func (r *OrderRepositoryFS) PlaceOrder(ctx context.Context, o orderdom.Order) (*orderdom.Order, error) {
	ctx, cancel, err := r.begin(ctx, "PlaceOrder")
	if err != nil {
		return nil, err
	}
	defer cancel()

	changes := o.StockChanges()
	if len(changes) == 0 {
		return nil, orderdom.ErrEmptyCart
	}
	refs := make([]*firestore.DocumentRef, 0, len(changes))
	for _, ch := range changes {
		if ch.ProductID == "" || strings.Contains(ch.ProductID, "/") {
			return nil, fmt.Errorf("firestore: order product %q: %w", ch.ProductID, productdom.ErrInsufficientStock)
		}
		refs = append(refs, r.Products.col().Doc(ch.ProductID))
	}

	ref := r.ordersCol().NewDoc()
	if id := strings.TrimSpace(o.ID); id != "" {
		ref = r.ordersCol().Doc(id)
	}
	o.ID = ref.ID

	err = r.Client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		// 1) reads (Firestore: 全ての読み取りは書き込みより前)
		snaps, err := tx.GetAll(refs)
		if err != nil {
			return err
		}

		type pending struct {
			ref *firestore.DocumentRef
			p   productdom.Product
		}
		next := make([]pending, 0, len(snaps))
		for i, snap := range snaps {
			ch := changes[i]
			if snap == nil || !snap.Exists() {
				return fmt.Errorf("firestore: order product %s: %w", ch.ProductID, productdom.ErrInsufficientStock)
			}
			p, err := docToProduct(snap)
			if err != nil {
				return err
			}
			if err := p.DecrementStock(ch.Quantity); err != nil {
				return fmt.Errorf("firestore: order product %s: %w", ch.ProductID, err)
			}
			next = append(next, pending{ref: refs[i], p: p})
		}

		// 2) writes
		now := o.CreatedAt.UTC()
		for _, n := range next {
			if err := tx.Update(n.ref, []firestore.Update{
				{Path: "stockQuantity", Value: n.p.StockQuantity},
				{Path: "inStock", Value: n.p.InStock},
				{Path: "lastSold", Value: now},
			}); err != nil {
				return err
			}
		}
		return tx.Create(ref, orderDocFromDomain(o))
	})
	if err != nil {
		if errors.Is(err, productdom.ErrInsufficientStock) || errors.Is(err, productdom.ErrInvalidStock) {
			return nil, err
		}
		return nil, mapErr("PlaceOrder", err)
	}

	out := o
	out.Items = append([]orderdom.Line(nil), o.Items...)
	return &out, nil
}

// GetOrderByID returns (nil, nil) if not found.
func (r *OrderRepositoryFS) GetOrderByID(ctx context.Context, id string) (*orderdom.Order, error) {
	id = strings.TrimSpace(id)
	if id == "" || strings.Contains(id, "/") {
		return nil, nil
	}

	ctx, cancel, err := r.begin(ctx, "GetOrderByID")
	if err != nil {
		return nil, err
	}
	defer cancel()

	snap, err := r.ordersCol().Doc(id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, mapErr("GetOrderByID", err)
	}
	o, err := docToOrder(snap)
	if err != nil {
		return nil, mapErr("GetOrderByID", err)
	}
	return &o, nil
}

// ListRecentOrders returns newest first.
func (r *OrderRepositoryFS) ListRecentOrders(ctx context.Context, limit int) ([]orderdom.Order, error) {
	ctx, cancel, err := r.begin(ctx, "ListRecentOrders")
	if err != nil {
		return nil, err
	}
	defer cancel()

	q := r.ordersCol().OrderBy("createdAt", firestore.Desc)
	if limit > 0 {
		q = q.Limit(limit)
	}
	it := q.Documents(ctx)
	defer it.Stop()

	out := []orderdom.Order{}
	for {
		snap, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, mapErr("ListRecentOrders", err)
		}
		o, err := docToOrder(snap)
		if err != nil {
			return nil, mapErr("ListRecentOrders", err)
		}
		out = append(out, o)
	}
	return out, nil
}

// -----------------------------------------
// Firestore DTO
// -----------------------------------------

type customerDoc struct {
	Name    string  `firestore:"name"`
	Email   string  `firestore:"email"`
	Phone   *string `firestore:"phone"`
	Address *string `firestore:"address"`
}

type orderLineDoc struct {
	ProductID string `firestore:"productId"`
	Name      string `firestore:"name"`
	UnitPrice string `firestore:"unitPrice"`
	Quantity  int    `firestore:"quantity"`
	Subtotal  string `firestore:"subtotal"`
}

type orderDoc struct {
	SessionID string         `firestore:"sessionId"`
	Customer  customerDoc    `firestore:"customerInfo"`
	Items     []orderLineDoc `firestore:"items"`
	Total     string         `firestore:"total"`
	Status    string         `firestore:"status"`
	CreatedAt time.Time      `firestore:"createdAt"`
}

func orderDocFromDomain(o orderdom.Order) orderDoc {
	items := make([]orderLineDoc, 0, len(o.Items))
	for _, l := range o.Items {
		items = append(items, orderLineDoc(l))
	}
	return orderDoc{
		SessionID: o.SessionID,
		Customer:  customerDoc(o.Customer),
		Items:     items,
		Total:     o.Total,
		Status:    string(o.Status),
		CreatedAt: o.CreatedAt.UTC(),
	}
}

func docToOrder(snap *firestore.DocumentSnapshot) (orderdom.Order, error) {
	var d orderDoc
	if err := snap.DataTo(&d); err != nil {
		return orderdom.Order{}, err
	}
	items := make([]orderdom.Line, 0, len(d.Items))
	for _, l := range d.Items {
		items = append(items, orderdom.Line(l))
	}
	return orderdom.Order{
		ID:        snap.Ref.ID,
		SessionID: d.SessionID,
		Customer: orderdom.Customer{
			Name:    d.Customer.Name,
			Email:   d.Customer.Email,
			Phone:   trimPtr(d.Customer.Phone),
			Address: trimPtr(d.Customer.Address),
		},
		Items:     items,
		Total:     d.Total,
		Status:    orderdom.Status(d.Status),
		CreatedAt: d.CreatedAt.UTC(),
	}, nil
}

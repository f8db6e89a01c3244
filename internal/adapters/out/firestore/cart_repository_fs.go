// backend/internal/adapters/out/firestore/cart_repository_fs.go
package firestore

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"

	cartdom "storefront/internal/domain/cart"
)

// Firestore の batch 上限（500）より少し余裕を持たせる
const clearBatchSize = 400

// CartRepositoryFS implements cart.Repository on Firestore.
//
// - collection: cartItems
// - docId: uuid.NewSHA1(cartItemNamespace, sessionId NUL productId)
//   同一 (sessionId, productId) は必ず同じ doc になるので、
//   merge-on-add はトランザクション内の get -> update/create で完結する。
//   区切り文字の連結だと ("a__b","c") と ("a","b__c") が衝突するため name-based uuid にしている。
// - fields: sessionId, productId, quantity, createdAt
type CartRepositoryFS struct {
	base
	Products *ProductRepositoryFS
	now      func() time.Time
}

func NewCartRepositoryFS(client *firestore.Client, products *ProductRepositoryFS) *CartRepositoryFS {
	if products == nil {
		products = NewProductRepositoryFS(client, nil)
	}
	return &CartRepositoryFS{
		base:     base{Client: client, Timeout: DefaultOpTimeout},
		Products: products,
		now:      time.Now,
	}
}

func (r *CartRepositoryFS) col() *firestore.CollectionRef {
	return r.Client.Collection(colCartItems)
}

var cartItemNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("storefront/cartItems"))

// cartItemDocID is deterministic per (sessionId, productId).
// NUL は区切りに使うので拒否、"/" は products の doc path になるので拒否。
func cartItemDocID(sessionID, productID string) (string, error) {
	if sessionID == "" || productID == "" ||
		strings.ContainsAny(sessionID, "/\x00") || strings.ContainsAny(productID, "/\x00") {
		return "", cartdom.ErrInvalidCartItem
	}
	return uuid.NewSHA1(cartItemNamespace, []byte(sessionID+"\x00"+productID)).String(), nil
}

// ============================================================
// cart.Repository
// ============================================================

// AddToCart merges into the existing line inside a transaction.
func (r *CartRepositoryFS) AddToCart(ctx context.Context, in cartdom.AddInput) (*cartdom.CartItem, error) {
	ctx, cancel, err := r.begin(ctx, "AddToCart")
	if err != nil {
		return nil, err
	}
	defer cancel()

	sid := strings.TrimSpace(in.SessionID)
	pid := strings.TrimSpace(in.ProductID)
	docID, err := cartItemDocID(sid, pid)
	if err != nil {
		return nil, err
	}
	fresh, err := cartdom.NewCartItem(docID, sid, pid, in.Quantity, r.now())
	if err != nil {
		return nil, err
	}

	ref := r.col().Doc(fresh.ID)
	var out cartdom.CartItem

	err = r.Client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			if !isNotFound(err) {
				return err
			}
			out = fresh
			return tx.Create(ref, cartItemDocFromDomain(fresh))
		}

		cur, err := docToCartItem(snap)
		if err != nil {
			return err
		}
		if cur.SessionID != sid || cur.ProductID != pid {
			return fmt.Errorf("firestore: cart item %s belongs to another line: %w", cur.ID, cartdom.ErrInvalidCartItem)
		}
		if err := cur.Merge(in.Quantity); err != nil {
			return err
		}
		out = cur
		return tx.Update(ref, []firestore.Update{
			{Path: "quantity", Value: cur.Quantity},
		})
	})
	if err != nil {
		if errors.Is(err, cartdom.ErrInvalidQuantity) || errors.Is(err, cartdom.ErrInvalidCartItem) {
			return nil, err
		}
		return nil, mapErr("AddToCart", err)
	}
	return &out, nil
}

// UpdateCartItem returns (nil, nil) for an unknown id.
func (r *CartRepositoryFS) UpdateCartItem(ctx context.Context, id string, quantity int) (*cartdom.CartItem, error) {
	id = strings.TrimSpace(id)
	if id == "" || strings.Contains(id, "/") {
		return nil, nil
	}
	if quantity <= 0 {
		return nil, cartdom.ErrInvalidQuantity
	}

	ctx, cancel, err := r.begin(ctx, "UpdateCartItem")
	if err != nil {
		return nil, err
	}
	defer cancel()

	ref := r.col().Doc(id)
	var out *cartdom.CartItem

	err = r.Client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		out = nil
		snap, err := tx.Get(ref)
		if err != nil {
			if isNotFound(err) {
				return nil
			}
			return err
		}
		cur, err := docToCartItem(snap)
		if err != nil {
			return err
		}
		if err := cur.SetQuantity(quantity); err != nil {
			return err
		}
		out = &cur
		return tx.Update(ref, []firestore.Update{
			{Path: "quantity", Value: quantity},
		})
	})
	if err != nil {
		return nil, mapErr("UpdateCartItem", err)
	}
	return out, nil
}

// GetCartItem reads the (sessionId, productId) doc directly; (nil, nil) when absent.
func (r *CartRepositoryFS) GetCartItem(ctx context.Context, sessionID, productID string) (*cartdom.CartItem, error) {
	docID, err := cartItemDocID(strings.TrimSpace(sessionID), strings.TrimSpace(productID))
	if err != nil {
		return nil, nil
	}

	ctx, cancel, err := r.begin(ctx, "GetCartItem")
	if err != nil {
		return nil, err
	}
	defer cancel()

	snap, err := r.col().Doc(docID).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, mapErr("GetCartItem", err)
	}
	it, err := docToCartItem(snap)
	if err != nil {
		return nil, mapErr("GetCartItem", err)
	}
	return &it, nil
}

// ConsumeCartItems subtracts ordered quantities in one transaction.
// Ids that are gone or belong to another session are skipped.
func (r *CartRepositoryFS) ConsumeCartItems(ctx context.Context, sessionID string, ordered []cartdom.CartItem) error {
	sid := strings.TrimSpace(sessionID)
	if sid == "" || len(ordered) == 0 {
		return nil
	}

	ctx, cancel, err := r.begin(ctx, "ConsumeCartItems")
	if err != nil {
		return err
	}
	defer cancel()

	refs := make([]*firestore.DocumentRef, 0, len(ordered))
	qty := make(map[string]int, len(ordered))
	for _, o := range ordered {
		id := strings.TrimSpace(o.ID)
		if id == "" || strings.Contains(id, "/") {
			continue
		}
		if _, dup := qty[id]; !dup {
			refs = append(refs, r.col().Doc(id))
		}
		qty[id] += o.Quantity
	}
	if len(refs) == 0 {
		return nil
	}

	err = r.Client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snaps, err := tx.GetAll(refs)
		if err != nil {
			return err
		}
		for _, snap := range snaps {
			if snap == nil || !snap.Exists() {
				continue
			}
			cur, err := docToCartItem(snap)
			if err != nil {
				return err
			}
			if cur.SessionID != sid {
				continue
			}
			if cur.Consume(qty[cur.ID]) {
				if err := tx.Delete(snap.Ref); err != nil {
					return err
				}
				continue
			}
			if err := tx.Update(snap.Ref, []firestore.Update{
				{Path: "quantity", Value: cur.Quantity},
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return mapErr("ConsumeCartItems", err)
	}
	return nil
}

// RemoveFromCart: Firestore の Delete は存在しない doc でも成功する（冪等）
func (r *CartRepositoryFS) RemoveFromCart(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" || strings.Contains(id, "/") {
		return nil
	}

	ctx, cancel, err := r.begin(ctx, "RemoveFromCart")
	if err != nil {
		return err
	}
	defer cancel()

	if _, err := r.col().Doc(id).Delete(ctx); err != nil {
		return mapErr("RemoveFromCart", err)
	}
	return nil
}

// ClearCart deletes the session's items in a single batch commit.
func (r *CartRepositoryFS) ClearCart(ctx context.Context, sessionID string) error {
	sid := strings.TrimSpace(sessionID)
	if sid == "" {
		return nil
	}

	ctx, cancel, err := r.begin(ctx, "ClearCart")
	if err != nil {
		return err
	}
	defer cancel()

	refs, err := r.refsBySession(ctx, sid)
	if err != nil {
		return mapErr("ClearCart", err)
	}
	if len(refs) == 0 {
		return nil
	}
	if len(refs) > clearBatchSize {
		// ここまで大きいカートは想定外。複数コミットに分割する（全体の原子性は失われる）
		log.Printf("[cart] WARN clear session=%s items=%d exceeds batch size %d", sid, len(refs), clearBatchSize)
	}

	for start := 0; start < len(refs); start += clearBatchSize {
		end := start + clearBatchSize
		if end > len(refs) {
			end = len(refs)
		}
		batch := r.Client.Batch()
		for _, ref := range refs[start:end] {
			batch.Delete(ref)
		}
		if _, err := batch.Commit(ctx); err != nil {
			return mapErr("ClearCart", err)
		}
	}
	return nil
}

// ListCartItems joins items with products in one GetAll round trip.
func (r *CartRepositoryFS) ListCartItems(ctx context.Context, sessionID string) ([]cartdom.CartItemWithProduct, error) {
	sid := strings.TrimSpace(sessionID)
	if sid == "" {
		return []cartdom.CartItemWithProduct{}, nil
	}

	ctx, cancel, err := r.begin(ctx, "ListCartItems")
	if err != nil {
		return nil, err
	}
	defer cancel()

	it := r.col().Where("sessionId", "==", sid).Documents(ctx)
	defer it.Stop()

	items := []cartdom.CartItem{}
	for {
		snap, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, mapErr("ListCartItems", err)
		}
		ci, err := docToCartItem(snap)
		if err != nil {
			return nil, mapErr("ListCartItems", err)
		}
		items = append(items, ci)
	}
	if len(items) == 0 {
		return []cartdom.CartItemWithProduct{}, nil
	}
	cartdom.SortItems(items)

	// products (dedupe ids)
	seen := map[string]struct{}{}
	refs := make([]*firestore.DocumentRef, 0, len(items))
	for _, ci := range items {
		if _, ok := seen[ci.ProductID]; ok {
			continue
		}
		seen[ci.ProductID] = struct{}{}
		if strings.Contains(ci.ProductID, "/") {
			return nil, fmt.Errorf("firestore: cart item %s -> product %s: %w", ci.ID, ci.ProductID, cartdom.ErrProductMissing)
		}
		refs = append(refs, r.Products.col().Doc(ci.ProductID))
	}
	snaps, err := r.Client.GetAll(ctx, refs)
	if err != nil {
		return nil, mapErr("ListCartItems", err)
	}

	byID := make(map[string]cartdom.CartItemWithProduct, len(snaps))
	for _, snap := range snaps {
		if snap == nil || !snap.Exists() {
			continue
		}
		p, err := docToProduct(snap)
		if err != nil {
			return nil, mapErr("ListCartItems", err)
		}
		byID[p.ID] = cartdom.CartItemWithProduct{Product: p}
	}

	out := make([]cartdom.CartItemWithProduct, 0, len(items))
	for _, ci := range items {
		row, ok := byID[ci.ProductID]
		if !ok {
			return nil, fmt.Errorf("firestore: cart item %s -> product %s: %w", ci.ID, ci.ProductID, cartdom.ErrProductMissing)
		}
		row.CartItem = ci
		row.Product = row.Product.Clone()
		out = append(out, row)
	}
	return out, nil
}

func (r *CartRepositoryFS) refsBySession(ctx context.Context, sid string) ([]*firestore.DocumentRef, error) {
	it := r.col().Where("sessionId", "==", sid).Select().Documents(ctx)
	defer it.Stop()

	var refs []*firestore.DocumentRef
	for {
		snap, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}
		refs = append(refs, snap.Ref)
	}
	return refs, nil
}

// -----------------------------------------
// Firestore DTO
// -----------------------------------------

type cartItemDoc struct {
	SessionID string    `firestore:"sessionId"`
	ProductID string    `firestore:"productId"`
	Quantity  int       `firestore:"quantity"`
	CreatedAt time.Time `firestore:"createdAt"`
}

func cartItemDocFromDomain(it cartdom.CartItem) cartItemDoc {
	return cartItemDoc{
		SessionID: it.SessionID,
		ProductID: it.ProductID,
		Quantity:  it.Quantity,
		CreatedAt: it.CreatedAt.UTC(),
	}
}

func docToCartItem(snap *firestore.DocumentSnapshot) (cartdom.CartItem, error) {
	var d cartItemDoc
	if err := snap.DataTo(&d); err != nil {
		return cartdom.CartItem{}, err
	}
	return cartdom.CartItem{
		ID:        snap.Ref.ID,
		SessionID: d.SessionID,
		ProductID: d.ProductID,
		Quantity:  d.Quantity,
		CreatedAt: d.CreatedAt.UTC(),
	}, nil
}

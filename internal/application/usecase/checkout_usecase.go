// backend/internal/application/usecase/checkout_usecase.go
package usecase

import (
	"context"
	"log"
	"strings"
	"time"

	cartdom "storefront/internal/domain/cart"
	orderdom "storefront/internal/domain/order"
)

// CheckoutUsecase orchestrates "session cart -> order -> inventory decrement -> clear cart".
// - order 作成と在庫減算は OrderRepository.PlaceOrder が原子的に行う
// - 注文確定後、スナップショットした行の数量だけ cart から差し引く（失敗しても注文は有効）
//   スナップショット後に追加・増量された分は cart に残る
type CheckoutUsecase struct {
	carts  cartdom.Repository
	orders orderdom.Repository
	now    func() time.Time
}

func NewCheckoutUsecase(carts cartdom.Repository, orders orderdom.Repository) *CheckoutUsecase {
	return &CheckoutUsecase{
		carts:  carts,
		orders: orders,
		now:    time.Now,
	}
}

type PlaceOrderInput struct {
	SessionID string
	Customer  orderdom.Customer
}

type PlaceOrderResult struct {
	Success bool   `json:"success"`
	OrderID string `json:"orderId"`
	Total   string `json:"total"`
}

// PlaceOrder snapshots the session cart into a pending order.
func (u *CheckoutUsecase) PlaceOrder(ctx context.Context, in PlaceOrderInput) (PlaceOrderResult, error) {
	sid := strings.TrimSpace(in.SessionID)
	if sid == "" {
		return PlaceOrderResult{}, invalid(orderdom.ErrEmptyCart)
	}

	// 1) cart
	items, err := u.carts.ListCartItems(ctx, sid)
	if err != nil {
		return PlaceOrderResult{}, classify(err)
	}
	if len(items) == 0 {
		return PlaceOrderResult{}, invalid(orderdom.ErrEmptyCart)
	}

	// 2) price snapshot
	lines := make([]orderdom.Line, 0, len(items))
	snapshot := make([]cartdom.CartItem, 0, len(items))
	for _, it := range items {
		snapshot = append(snapshot, it.CartItem)
		l, err := orderdom.NewLine(it.Product, it.Quantity)
		if err != nil {
			return PlaceOrderResult{}, invalid(err)
		}
		lines = append(lines, l)
	}

	o, err := orderdom.New("", sid, in.Customer, lines, u.now())
	if err != nil {
		return PlaceOrderResult{}, invalid(err)
	}

	// 3) order + stock (all-or-nothing)
	saved, err := u.orders.PlaceOrder(ctx, o)
	if err != nil {
		return PlaceOrderResult{}, classify(err)
	}

	// 4) ordered lines leave the cart (best-effort)
	if err := u.carts.ConsumeCartItems(ctx, sid, snapshot); err != nil {
		log.Printf("[checkout] WARN consume cart failed session=%s order=%s err=%v", _mask(sid), saved.ID, err)
	}

	log.Printf("[checkout] order placed id=%s lines=%d total=%s", saved.ID, len(saved.Items), saved.Total)
	return PlaceOrderResult{Success: true, OrderID: saved.ID, Total: saved.Total}, nil
}

// GetOrder returns ErrNotFound when absent.
func (u *CheckoutUsecase) GetOrder(ctx context.Context, id string) (*orderdom.Order, error) {
	oid := strings.TrimSpace(id)
	if oid == "" {
		return nil, invalidf("order id is required")
	}
	o, err := u.orders.GetOrderByID(ctx, oid)
	if err != nil {
		return nil, classify(err)
	}
	if o == nil {
		return nil, ErrNotFound
	}
	return o, nil
}


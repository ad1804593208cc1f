package adapter

import (
	"context"

	"telegram-store-bot/internal/domain/model"
)

// CommerceClient is the port for the external commerce backend. Token
// acquisition and refresh happen inside the implementation; callers never
// see credentials. No retries are performed here: backoff policy differs
// per call site and belongs to the orchestration layer.
type CommerceClient interface {
	ListProducts(ctx context.Context) ([]model.Product, error)
	GetProduct(ctx context.Context, id string) (model.Product, error)
	ResolveImageURL(ctx context.Context, fileID string) (string, error)

	// The cart ID is the dialog session key. This aliasing is deliberate:
	// it is what lets "view cart" work without separate cart bookkeeping.
	AddToCart(ctx context.Context, cartID, productID string, quantity int) error
	GetCart(ctx context.Context, cartID string) (model.Cart, error)
	GetCartItems(ctx context.Context, cartID string) ([]model.CartItem, error)
	RemoveCartItem(ctx context.Context, cartID, itemID string) error

	CreateCustomer(ctx context.Context, name, email string) (model.Customer, error)
}

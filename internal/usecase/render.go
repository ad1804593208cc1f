package usecase

import (
	"fmt"
	"strconv"
	"strings"

	"telegram-store-bot/internal/domain"
	"telegram-store-bot/internal/domain/model"
	"telegram-store-bot/internal/domain/ports/adapter"
)

const menuPrompt = "Please choose:"

// quantityChoices are the fixed per-press amounts offered on a product view.
var quantityChoices = []int{1, 5, 10}

// menuKeyboard renders one button per catalog item plus the reserved Cart
// button, so N products yield N+1 selectable entries.
func menuKeyboard(products []model.Product) [][]adapter.Button {
	rows := make([][]adapter.Button, 0, len(products)+1)
	for _, p := range products {
		rows = append(rows, []adapter.Button{{Text: p.Name, Data: p.ID}})
	}
	rows = append(rows, []adapter.Button{{Text: "Cart", Data: model.PayloadCart}})
	return rows
}

func productCaption(p model.Product) string {
	return fmt.Sprintf("%s\n\n%s per kg\n\n%s", p.Name, p.Price, p.Description)
}

func productKeyboard(p model.Product) [][]adapter.Button {
	qty := make([]adapter.Button, 0, len(quantityChoices))
	for _, q := range quantityChoices {
		qty = append(qty, adapter.Button{
			Text: fmt.Sprintf("%d kg", q),
			Data: fmt.Sprintf("%s,%d", p.ID, q),
		})
	}
	return [][]adapter.Button{
		qty,
		{{Text: "Cart", Data: model.PayloadCart}},
		{{Text: "Back", Data: model.PayloadBack}},
	}
}

// cartText renders one block per line item in cart order, then the
// tax-inclusive total.
func cartText(cart model.Cart, items []model.CartItem) string {
	var b strings.Builder
	for _, it := range items {
		fmt.Fprintf(&b, "%s\n%s\n%s per kg\n%d kg in cart for %s\n\n",
			it.Name, it.Description, it.UnitPrice, it.Quantity, it.LineTotal)
	}
	fmt.Fprintf(&b, "Total %s", cart.Total)
	return b.String()
}

// parseAddToCart decodes an "<itemId>,<quantity>" callback token.
func parseAddToCart(payload string) (string, int, error) {
	id, rawQty, ok := strings.Cut(payload, ",")
	if !ok || id == "" {
		return "", 0, fmt.Errorf("%w: %q", domain.ErrProtocol, payload)
	}
	qty, err := strconv.Atoi(rawQty)
	if err != nil || qty < 1 {
		return "", 0, fmt.Errorf("%w: quantity in %q", domain.ErrProtocol, payload)
	}
	return id, qty, nil
}

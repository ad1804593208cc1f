package usecase

import (
	"errors"
	"strings"
	"testing"

	"telegram-store-bot/internal/domain"
	"telegram-store-bot/internal/domain/model"
)

func TestCartTextFormat(t *testing.T) {
	cart := model.Cart{Total: "$10.00"}
	items := []model.CartItem{
		{Name: "Salmon", Description: "Fresh salmon", Quantity: 2, UnitPrice: "$5.00", LineTotal: "$10.00"},
	}

	got := cartText(cart, items)

	block := "Salmon\nFresh salmon\n$5.00 per kg\n2 kg in cart for $10.00"
	if !strings.Contains(got, block) {
		t.Fatalf("cart text missing item block:\n%s", got)
	}
	if !strings.HasSuffix(got, "Total $10.00") {
		t.Fatalf("cart text must end with the total line:\n%s", got)
	}
	if strings.Index(got, block) > strings.Index(got, "Total $10.00") {
		t.Fatalf("item block must precede the total:\n%s", got)
	}
}

func TestCartTextEmptyCart(t *testing.T) {
	got := cartText(model.Cart{Total: "$0.00"}, nil)
	if got != "Total $0.00" {
		t.Fatalf("empty cart text = %q", got)
	}
}

func TestParseAddToCart(t *testing.T) {
	tests := []struct {
		payload string
		id      string
		qty     int
		wantErr bool
	}{
		{"p1,5", "p1", 5, false},
		{"p1,1", "p1", 1, false},
		{"p1", "", 0, true},
		{"p1,", "", 0, true},
		{"p1,0", "", 0, true},
		{"p1,-3", "", 0, true},
		{",5", "", 0, true},
		{"p1,five", "", 0, true},
	}
	for _, tt := range tests {
		id, qty, err := parseAddToCart(tt.payload)
		if tt.wantErr {
			if !errors.Is(err, domain.ErrProtocol) {
				t.Errorf("parseAddToCart(%q) err = %v, want ErrProtocol", tt.payload, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseAddToCart(%q): %v", tt.payload, err)
			continue
		}
		if id != tt.id || qty != tt.qty {
			t.Errorf("parseAddToCart(%q) = (%q, %d), want (%q, %d)", tt.payload, id, qty, tt.id, tt.qty)
		}
	}
}

func TestProductKeyboardTokens(t *testing.T) {
	p := model.Product{ID: "p9", Name: "Cod", Price: "$3.00"}
	kb := productKeyboard(p)

	if len(kb) != 3 {
		t.Fatalf("keyboard rows = %d, want quantity row + Cart + Back", len(kb))
	}
	wantData := []string{"p9,1", "p9,5", "p9,10"}
	for i, b := range kb[0] {
		if b.Data != wantData[i] {
			t.Errorf("quantity button %d data = %q, want %q", i, b.Data, wantData[i])
		}
	}
	if kb[1][0].Data != model.PayloadCart || kb[2][0].Data != model.PayloadBack {
		t.Fatalf("navigation rows = %+v", kb[1:])
	}
}

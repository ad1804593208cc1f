package model

import "testing"

func TestParseStateTotal(t *testing.T) {
	tests := []struct {
		in   string
		want State
	}{
		{"START", StateStart},
		{"BROWSING_MENU", StateBrowsingMenu},
		{"VIEWING_PRODUCT", StateViewingProduct},
		{"VIEWING_CART", StateViewingCart},
		{"", StateStart},
		{"HANDLE_WAFFLES", StateStart},
	}
	for _, tt := range tests {
		if got := ParseState(tt.in); got != tt.want {
			t.Errorf("ParseState(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEventConstructors(t *testing.T) {
	text := NewTextEvent(42, "/start")
	if text.Kind != EventText || !text.IsStartCommand() {
		t.Fatalf("text event = %+v", text)
	}

	cb := NewCallbackEvent(42, 7, "p1,5")
	if cb.Kind != EventCallback || cb.MessageID != 7 || cb.Payload != "p1,5" {
		t.Fatalf("callback event = %+v", cb)
	}
	if cb.IsStartCommand() {
		t.Fatal("a callback is never the start command")
	}
}

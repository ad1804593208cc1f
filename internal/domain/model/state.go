package model

// State identifies which dialog handler governs the user's next event.
type State string

const (
	StateStart          State = "START"
	StateBrowsingMenu   State = "BROWSING_MENU"
	StateViewingProduct State = "VIEWING_PRODUCT"
	StateViewingCart    State = "VIEWING_CART"
)

// ParseState maps a stored state tag back to a State. Anything unknown
// (including the empty string for a session that was never stored) resolves
// to StateStart, so a lost or corrupted session restarts the dialog instead
// of failing it.
func ParseState(s string) State {
	switch State(s) {
	case StateBrowsingMenu:
		return StateBrowsingMenu
	case StateViewingProduct:
		return StateViewingProduct
	case StateViewingCart:
		return StateViewingCart
	default:
		return StateStart
	}
}

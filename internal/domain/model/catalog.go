package model

// Product is a catalog entry as the dialog needs it: flat, decoded once at
// the commerce client boundary. Prices arrive already formatted by the
// backend and are passed through verbatim.
type Product struct {
	ID          string
	Name        string
	Description string
	Price       string
	ImageID     string
}

// Cart carries the tax-inclusive formatted total for a cart.
type Cart struct {
	ID    string
	Total string
}

// CartItem is one line of a cart. LineTotal is quantity x unit price as
// formatted by the backend.
type CartItem struct {
	ID          string
	Name        string
	Description string
	Quantity    int
	UnitPrice   string
	LineTotal   string
}

// Customer is a commerce-side customer record created at checkout.
type Customer struct {
	ID    string
	Name  string
	Email string
}

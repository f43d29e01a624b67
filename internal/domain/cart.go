package domain

// CartItem is a single cart line: a point-in-time copy of a product plus a
// quantity. Line identity is the product ID; a cart never holds two lines
// for the same product.
type CartItem struct {
	Product
	Quantity int `json:"quantity"`
}

// StateSnapshot is the durable subset of a shopper's state. Exactly the cart
// and the wishlist are persisted; session identity and search text are
// deliberately transient.
type StateSnapshot struct {
	Cart     []CartItem `json:"cart"`
	Wishlist []string   `json:"wishlist"`
}

// Clone returns a deep copy of the snapshot so callers can hold it without
// aliasing the store's internal slices.
func (s StateSnapshot) Clone() StateSnapshot {
	cp := StateSnapshot{
		Cart:     make([]CartItem, len(s.Cart)),
		Wishlist: make([]string, len(s.Wishlist)),
	}
	for i, item := range s.Cart {
		cp.Cart[i] = CartItem{Product: item.Product.Clone(), Quantity: item.Quantity}
	}
	copy(cp.Wishlist, s.Wishlist)
	return cp
}

// TotalAmount calculates the total price of all lines (in minor units).
func (s StateSnapshot) TotalAmount() int64 {
	var total int64
	for _, item := range s.Cart {
		total += item.Price * int64(item.Quantity)
	}
	return total
}

package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStateSnapshot_TotalAmount(t *testing.T) {
	s := StateSnapshot{
		Cart: []CartItem{
			{Product: Product{ID: "p1", Price: 1000}, Quantity: 2},
			{Product: Product{ID: "p2", Price: 500}, Quantity: 3},
		},
	}
	// 2000 + 1500 = 3500
	assert.Equal(t, int64(3500), s.TotalAmount())
}

func TestStateSnapshot_TotalAmount_Empty(t *testing.T) {
	assert.Equal(t, int64(0), StateSnapshot{}.TotalAmount())
}

func TestStateSnapshot_Clone_NoAliasing(t *testing.T) {
	s := StateSnapshot{
		Cart: []CartItem{
			{Product: Product{ID: "p1", Images: []string{"a.jpg"}}, Quantity: 1},
		},
		Wishlist: []string{"p2"},
	}

	cp := s.Clone()
	cp.Cart[0].Quantity = 99
	cp.Cart[0].Images[0] = "mutated"
	cp.Wishlist[0] = "mutated"

	assert.Equal(t, 1, s.Cart[0].Quantity)
	assert.Equal(t, "a.jpg", s.Cart[0].Images[0])
	assert.Equal(t, "p2", s.Wishlist[0])
}

func TestStateSnapshot_Clone_Empty(t *testing.T) {
	cp := StateSnapshot{}.Clone()
	assert.Empty(t, cp.Cart)
	assert.Empty(t, cp.Wishlist)
}

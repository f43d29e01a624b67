package domain

import (
	"strconv"
	"time"
)

// Category is the closed set of product categories the storefront sells.
type Category string

const (
	CategoryBabyCare    Category = "Baby Care"
	CategoryBagsShoes   Category = "Bags & Shoes"
	CategoryAccessories Category = "Accessories"
	CategoryOther       Category = "Other"
)

// Categories returns the browsable storefront categories in display order.
// CategoryOther is a valid product category but has no browse section.
func Categories() []Category {
	return []Category{CategoryBabyCare, CategoryBagsShoes, CategoryAccessories}
}

// ValidCategories returns every category a product may carry.
func ValidCategories() []Category {
	return []Category{CategoryBabyCare, CategoryBagsShoes, CategoryAccessories, CategoryOther}
}

// IsValidCategory checks whether the given string is a valid product category.
func IsValidCategory(category string) bool {
	for _, c := range ValidCategories() {
		if string(c) == category {
			return true
		}
	}
	return false
}

// CategoryAll is the pseudo-category meaning "no category filter".
const CategoryAll = "All"

// Product represents a catalog entry. The catalog service owns products;
// the storefront only reads them.
type Product struct {
	ID          string    `json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	Name        string    `json:"name"`
	Price       int64     `json:"price"`
	Category    Category  `json:"category"`
	Description string    `json:"description"`
	Images      []string  `json:"images"`
}

// Clone returns a deep copy of the product. Cart lines hold a point-in-time
// copy of the product, so later catalog changes never alter lines already in
// the cart.
func (p Product) Clone() Product {
	cp := p
	if p.Images != nil {
		cp.Images = make([]string, len(p.Images))
		copy(cp.Images, p.Images)
	}
	return cp
}

// FormatPrice renders a price in the storefront's display convention:
// no decimals, comma-separated thousands (e.g. 1500 -> "1,500").
func FormatPrice(price int64) string {
	s := strconv.FormatInt(price, 10)

	neg := false
	if len(s) > 0 && s[0] == '-' {
		neg = true
		s = s[1:]
	}

	if len(s) <= 3 {
		if neg {
			return "-" + s
		}
		return s
	}

	var out []byte
	lead := len(s) % 3
	if lead > 0 {
		out = append(out, s[:lead]...)
	}
	for i := lead; i < len(s); i += 3 {
		if len(out) > 0 {
			out = append(out, ',')
		}
		out = append(out, s[i:i+3]...)
	}

	if neg {
		return "-" + string(out)
	}
	return string(out)
}

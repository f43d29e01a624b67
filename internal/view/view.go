// Package view derives read models from catalog and shopper state.
// Every derivation is a pure function over its inputs: no caching, no
// shared state, so results can never go stale relative to what was
// passed in.
package view

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/Emmanation-Designs/Gibson-Collections/internal/domain"
)

// FilteredProducts returns the products whose name contains the query
// (case-insensitive substring) and that belong to the selected
// category. domain.CategoryAll disables the category filter. Input
// order is preserved.
func FilteredProducts(products []domain.Product, query, category string) []domain.Product {
	q := strings.ToLower(query)
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if !strings.Contains(strings.ToLower(p.Name), q) {
			continue
		}
		if category != domain.CategoryAll && string(p.Category) != category {
			continue
		}
		out = append(out, p)
	}
	return out
}

// CategoryGroup is one home-page section: a browsable category and up
// to the configured number of its products.
type CategoryGroup struct {
	Category domain.Category  `json:"category"`
	Products []domain.Product `json:"products"`
}

// GroupedByCategory partitions products into the browsable categories,
// keeping input order within each group and capping each group at
// limit. Categories with no products are omitted entirely. A limit of
// zero or less means no cap.
func GroupedByCategory(products []domain.Product, limit int) []CategoryGroup {
	groups := make([]CategoryGroup, 0, len(domain.Categories()))
	for _, cat := range domain.Categories() {
		var members []domain.Product
		for _, p := range products {
			if p.Category != cat {
				continue
			}
			members = append(members, p)
			if limit > 0 && len(members) == limit {
				break
			}
		}
		if len(members) == 0 {
			continue
		}
		groups = append(groups, CategoryGroup{Category: cat, Products: members})
	}
	return groups
}

// CartCount sums quantities across all cart lines.
func CartCount(cart []domain.CartItem) int {
	total := 0
	for _, item := range cart {
		total += item.Quantity
	}
	return total
}

// IsAdmin reports whether the profile belongs to an administrator.
// Matching is exact and case-sensitive; a nil profile or empty email
// never qualifies.
func IsAdmin(profile *domain.UserProfile, adminEmails []string) bool {
	if profile == nil || profile.Email == "" {
		return false
	}
	for _, email := range adminEmails {
		if profile.Email == email {
			return true
		}
	}
	return false
}

// CheckoutURL builds the WhatsApp order handoff link for the cart: a
// wa.me deep link whose text lists every line with quantity and naira
// price plus the order total.
func CheckoutURL(number string, cart []domain.CartItem) string {
	var b strings.Builder
	b.WriteString("Hello Gibson Collections! I would like to order:\n\n")
	var total int64
	for _, item := range cart {
		lineTotal := item.Price * int64(item.Quantity)
		total += lineTotal
		fmt.Fprintf(&b, "- %s (x%d) - ₦%s\n", item.Name, item.Quantity, domain.FormatPrice(lineTotal))
	}
	fmt.Fprintf(&b, "\nTotal: ₦%s", domain.FormatPrice(total))

	return "https://wa.me/" + number + "?text=" + url.QueryEscape(b.String())
}

package domain

// UserProfile is the authenticated shopper's identity as reported by the
// external identity provider. It is never persisted locally; the session is
// re-established from the provider on every visit.
type UserProfile struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

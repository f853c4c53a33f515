// Package contacts implements per-account address books.
package contacts

// Contact is one address-book entry. Entries are scoped to the owning
// account; renaming an alias never affects anyone else's book.
type Contact struct {
	OwnerEmail  string
	Email       string
	DisplayName string
}

// Package users implements account storage and the authentication service
// of the store server.
package users

// User is a stored account. Username is the immutable key; Email stays
// empty until the account completes first-login setup.
type User struct {
	Username     string
	PasswordHash string
	Email        string
	DisplayName  string
	IsAdmin      bool
	IsFrozen     bool
	HasLoggedIn  bool
}

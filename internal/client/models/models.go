// Package models holds the client-side data model: identities, messages,
// contacts and the authenticated session projection.
package models

// User is the profile projection of an identity as the store reports it.
// Username is the immutable key; Email is assigned exactly once at setup.
type User struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	IsAdmin     bool   `json:"isAdmin"`
	IsFrozen    bool   `json:"isFrozen"`
	HasLoggedIn bool   `json:"hasLoggedIn"`
}

// Message is immutable once created. Timestamp is Unix milliseconds;
// IDs are server-assigned and grow with creation order.
type Message struct {
	ID        int64  `json:"id"`
	From      string `json:"from"`
	To        string `json:"to"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
}

// Involves reports whether identity is the sender or the recipient.
func (m Message) Involves(identity string) bool {
	return m.From == identity || m.To == identity
}

// Before orders messages by timestamp ascending, ties broken by ID.
func (m Message) Before(other Message) bool {
	if m.Timestamp != other.Timestamp {
		return m.Timestamp < other.Timestamp
	}
	return m.ID < other.ID
}

// Contact is an address-book entry. DisplayName is a locally editable alias.
type Contact struct {
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
}

// RosterEntry is one row of the admin user roster.
type RosterEntry struct {
	Username string `json:"username"`
	IsFrozen bool   `json:"isFrozen"`
	IsAdmin  bool   `json:"isAdmin"`
}

// Session is the authenticated User projection plus the access token the
// client presents to the store. It never carries the credential.
type Session struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	IsAdmin     bool   `json:"isAdmin"`
	IsFrozen    bool   `json:"isFrozen"`
	HasLoggedIn bool   `json:"hasLoggedIn"`
	AccessToken string `json:"accessToken"`
}

// Profile returns the session's User projection.
func (s *Session) Profile() User {
	return User{
		Username:    s.Username,
		Email:       s.Email,
		DisplayName: s.DisplayName,
		IsAdmin:     s.IsAdmin,
		IsFrozen:    s.IsFrozen,
		HasLoggedIn: s.HasLoggedIn,
	}
}

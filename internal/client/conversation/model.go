// Package conversation holds the canonical in-memory view of messages and
// contacts for one session, plus the derived per-contact presentation state.
//
// The model is the single shared mutable structure of the client. Every
// mutation — poll merges, optimistic sends, contact edits — goes through the
// mutex here, so the synchronizer and user actions never interleave a write.
package conversation

import (
	"iter"
	"slices"
	"sync"

	"github.com/pr-poehali-dev/onlimess/internal/client/models"
	"github.com/pr-poehali-dev/onlimess/internal/common"
)

// Model owns the full message set, the contact list and, for admin sessions,
// the user roster. It is created per session and discarded on logout.
type Model struct {
	mu       sync.Mutex
	owner    string
	messages []models.Message // sorted by (timestamp, id) ascending
	contacts []models.Contact
	roster   []models.RosterEntry
	known    map[int64]struct{}
	pending  map[int64]models.Message // optimistic inserts the store has not echoed yet
	active   string
}

// New creates an empty model owned by the session identity (email).
func New(owner string) *Model {
	return &Model{
		owner:   owner,
		known:   make(map[int64]struct{}),
		pending: make(map[int64]models.Message),
	}
}

func compareMessages(a, b models.Message) int {
	if a.Before(b) {
		return -1
	}
	if b.Before(a) {
		return 1
	}
	return 0
}

// Owner returns the session identity the model is scoped to.
func (m *Model) Owner() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.owner
}

// ReplaceMessages applies a snapshot replace: the fetched set becomes the new
// truth. Before replacing, it counts messages whose IDs were not known
// locally and that are inbound (addressed to the owner); the caller uses that
// count for new-message notification.
//
// Optimistically inserted messages the snapshot does not contain yet are
// merged back in: a fetch that started before the send completed must not
// drop the just-sent message. Each pending insert is carried until a
// snapshot echoes its ID, then confirmed and dropped from the pending set.
func (m *Model) ReplaceMessages(msgs []models.Message) (newInbound int) {
	sorted := make([]models.Message, len(msgs))
	copy(sorted, msgs)
	slices.SortStableFunc(sorted, compareMessages)

	m.mu.Lock()
	defer m.mu.Unlock()

	known := make(map[int64]struct{}, len(sorted))
	for _, msg := range sorted {
		if _, ok := m.known[msg.ID]; !ok && msg.To == m.owner {
			newInbound++
		}
		known[msg.ID] = struct{}{}
	}

	for id, msg := range m.pending {
		if _, ok := known[id]; ok {
			delete(m.pending, id)
			continue
		}
		idx, _ := slices.BinarySearchFunc(sorted, msg, compareMessages)
		sorted = slices.Insert(sorted, idx, msg)
		known[id] = struct{}{}
	}

	m.messages = sorted
	m.known = known
	return newInbound
}

// InsertMessage optimistically records a just-sent message so a concurrent
// poll replace cannot drop it before the server echoes it back.
func (m *Model) InsertMessage(msg models.Message) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.known[msg.ID]; ok {
		return
	}
	idx, _ := slices.BinarySearchFunc(m.messages, msg, compareMessages)
	m.messages = slices.Insert(m.messages, idx, msg)
	m.known[msg.ID] = struct{}{}
	m.pending[msg.ID] = msg
}

// ReplaceContacts applies a contact snapshot replace.
func (m *Model) ReplaceContacts(contacts []models.Contact) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.contacts = slices.Clone(contacts)
}

// ReplaceRoster applies a user-roster snapshot replace (admin sessions only).
func (m *Model) ReplaceRoster(roster []models.RosterEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.roster = slices.Clone(roster)
}

// ConversationWith returns the messages exchanged between the owner and
// identity, ordered by timestamp ascending with ties broken by ID. The
// sequence is finite and restartable; each range call observes the state at
// the time it starts.
func (m *Model) ConversationWith(identity string) iter.Seq[models.Message] {
	return func(yield func(models.Message) bool) {
		for _, msg := range m.messagesSnapshot() {
			between := (msg.From == m.owner && msg.To == identity) ||
				(msg.From == identity && msg.To == m.owner)
			if !between {
				continue
			}
			if !yield(msg) {
				return
			}
		}
	}
}

// UnreadCount is the running count of inbound messages from identity. It is
// never reset by opening the chat; the store keeps no read state, so neither
// do we.
func (m *Model) UnreadCount(identity string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	count := 0
	for _, msg := range m.messages {
		if msg.From == identity && msg.To == m.owner {
			count++
		}
	}
	return count
}

// LastMessage returns the newest message exchanged with identity.
func (m *Model) LastMessage(identity string) (models.Message, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := len(m.messages) - 1; i >= 0; i-- {
		msg := m.messages[i]
		if (msg.From == m.owner && msg.To == identity) ||
			(msg.From == identity && msg.To == m.owner) {
			return msg, true
		}
	}
	return models.Message{}, false
}

// LastAuthoredAt returns the timestamp of the newest message authored by
// identity, in any of the owner's conversations.
func (m *Model) LastAuthoredAt(identity string) (int64, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := len(m.messages) - 1; i >= 0; i-- {
		if m.messages[i].From == identity {
			return m.messages[i].Timestamp, true
		}
	}
	return 0, false
}

// Contacts returns a copy of the contact list.
func (m *Model) Contacts() []models.Contact {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.contacts)
}

// Roster returns a copy of the admin user roster.
func (m *Model) Roster() []models.RosterEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.roster)
}

// ContactByEmail looks up a contact.
func (m *Model) ContactByEmail(email string) (models.Contact, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, c := range m.contacts {
		if c.Email == email {
			return c, true
		}
	}
	return models.Contact{}, false
}

// AddContact validates and inserts a contact locally. The email must be in
// the reserved domain (common.ErrValidation otherwise) and not already
// present (common.ErrAlreadyExists). An empty display name falls back to the
// raw email; a later poll may replace it with the target's own display name
// once the store has resolved it.
func (m *Model) AddContact(email, displayName string) error {
	if !common.ValidEmail(email) {
		return common.ErrValidation
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, c := range m.contacts {
		if c.Email == email {
			return common.ErrAlreadyExists
		}
	}
	if displayName == "" {
		displayName = email
	}
	m.contacts = append(m.contacts, models.Contact{Email: email, DisplayName: displayName})
	return nil
}

// RenameContact updates a contact's alias in place. Blank input is a no-op.
func (m *Model) RenameContact(email, newName string) {
	if newName == "" {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.contacts {
		if m.contacts[i].Email == email {
			m.contacts[i].DisplayName = newName
			return
		}
	}
}

// RemoveContact drops a contact from the local list.
func (m *Model) RemoveContact(email string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.contacts = slices.DeleteFunc(m.contacts, func(c models.Contact) bool {
		return c.Email == email
	})
}

// DeleteConversation removes every message where identity appears as sender
// or recipient. Irreversible. If the active chat pointed at identity, the
// selection is cleared.
func (m *Model) DeleteConversation(identity string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.messages[:0]
	for _, msg := range m.messages {
		if msg.Involves(identity) {
			delete(m.known, msg.ID)
			delete(m.pending, msg.ID)
			continue
		}
		kept = append(kept, msg)
	}
	m.messages = kept

	if m.active == identity {
		m.active = ""
	}
}

// ActiveChat returns the currently selected conversation partner, or "".
func (m *Model) ActiveChat() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

// SetActiveChat selects the conversation to render.
func (m *Model) SetActiveChat(identity string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.active = identity
}

func (m *Model) messagesSnapshot() []models.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.messages)
}

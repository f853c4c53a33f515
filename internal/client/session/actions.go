package session

import (
	"context"
	"fmt"
	"time"

	"github.com/pr-poehali-dev/onlimess/internal/common"
)

// SendMessage sends text to a recipient and optimistically inserts the
// created message so a racing poll replace cannot drop it. Blank text is a
// silent no-op; a self-addressed message is valid and simply shows up in the
// owner's own conversation. The sender's typing flag clears immediately.
func (m *Manager) SendMessage(ctx context.Context, to, text string) error {
	session, model, err := m.requireActive()
	if err != nil {
		return err
	}
	if text == "" {
		return nil
	}
	if !common.ValidEmail(to) {
		return fmt.Errorf("%w: recipient must be in the %s domain", common.ErrValidation, common.ReservedDomain)
	}

	msg, err := m.client.SendMessage(ctx, to, text, time.Now().UnixMilli())
	if err != nil {
		return err
	}

	model.InsertMessage(*msg)
	if typing := m.Typing(); typing != nil {
		typing.StopTyping(session.Email)
	}
	return nil
}

// StartTyping marks the session identity as typing; the flag clears itself
// after the configured delay unless rescheduled by another call.
func (m *Manager) StartTyping() {
	session, _, err := m.requireActive()
	if err != nil {
		return
	}
	if typing := m.Typing(); typing != nil {
		typing.StartTyping(session.Email)
	}
}

// AddContact validates locally, then writes through to the store and
// mirrors the new contact into the model. Local state stays untouched when
// the store rejects the add.
func (m *Manager) AddContact(ctx context.Context, email, displayName string) error {
	_, model, err := m.requireActive()
	if err != nil {
		return err
	}
	if !common.ValidEmail(email) {
		return fmt.Errorf("%w: email must be in the %s domain", common.ErrValidation, common.ReservedDomain)
	}
	if _, exists := model.ContactByEmail(email); exists {
		return common.ErrAlreadyExists
	}

	if err := m.client.AddContact(ctx, email, displayName); err != nil {
		return err
	}
	return model.AddContact(email, displayName)
}

// RenameContact updates a contact alias. Blank input is a silent no-op.
func (m *Manager) RenameContact(ctx context.Context, email, newName string) error {
	_, model, err := m.requireActive()
	if err != nil {
		return err
	}
	if newName == "" {
		return nil
	}

	if err := m.client.RenameContact(ctx, email, newName); err != nil {
		return err
	}
	model.RenameContact(email, newName)
	return nil
}

// RemoveContact drops a contact from the address book.
func (m *Manager) RemoveContact(ctx context.Context, email string) error {
	_, model, err := m.requireActive()
	if err != nil {
		return err
	}

	if err := m.client.RemoveContact(ctx, email); err != nil {
		return err
	}
	model.RemoveContact(email)
	return nil
}

// DeleteConversation destructively removes every message exchanged with
// identity, remotely and locally, and clears the active chat if it pointed
// there.
func (m *Manager) DeleteConversation(ctx context.Context, identity string) error {
	_, model, err := m.requireActive()
	if err != nil {
		return err
	}

	if err := m.client.DeleteConversation(ctx, identity); err != nil {
		return err
	}
	model.DeleteConversation(identity)
	return nil
}

// CreateUser provisions a fresh, non-admin, not-yet-set-up account.
// Admin only.
func (m *Manager) CreateUser(ctx context.Context, username, password string) error {
	session, _, err := m.requireActive()
	if err != nil {
		return err
	}
	if !session.IsAdmin {
		return common.ErrUnauthorized
	}
	if username == "" || password == "" {
		return fmt.Errorf("%w: username and password required", common.ErrValidation)
	}
	return m.client.CreateUser(ctx, username, password)
}

// ToggleFrozen flips the frozen flag of a user. The target observes it on
// their next poll tick, not instantaneously. Admin only.
func (m *Manager) ToggleFrozen(ctx context.Context, username string) error {
	session, _, err := m.requireActive()
	if err != nil {
		return err
	}
	if !session.IsAdmin {
		return common.ErrUnauthorized
	}
	return m.client.ToggleFrozen(ctx, username)
}

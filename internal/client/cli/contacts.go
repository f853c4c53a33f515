package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/pr-poehali-dev/onlimess/internal/client/presence"
)

// Contacts renders the contact list with the derived per-contact view:
// last message preview or last-seen label, typing indicator and the unread
// badge.
func (a *App) Contacts(ctx context.Context) error {
	model := a.manager.Model()
	if model == nil {
		return nil
	}

	contacts := model.Contacts()
	if len(contacts) == 0 {
		fmt.Fprintln(a.out, "No contacts yet. Use \"add\" to create one.")
		return nil
	}

	now := time.Now()
	for _, c := range contacts {
		line := fmt.Sprintf("  %-24s %s", c.DisplayName, c.Email)

		switch {
		case a.manager.Typing().IsTyping(c.Email):
			line += "  typing..."
		default:
			if last, ok := model.LastMessage(c.Email); ok {
				line += "  | " + preview(last.Text)
			} else {
				ts, ok := model.LastAuthoredAt(c.Email)
				line += "  | " + presence.LastSeen(now, ts, ok)
			}
		}

		if unread := model.UnreadCount(c.Email); unread > 0 {
			line += fmt.Sprintf("  [%d]", unread)
		}
		fmt.Fprintln(a.out, line)
	}
	return nil
}

func preview(text string) string {
	const max = 32
	if len(text) > max {
		return text[:max] + "..."
	}
	return text
}

// AddContact prompts for an address and adds it to the address book.
func (a *App) AddContact(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Contact email (someone@OnliMess)", a.out)
	if err != nil {
		a.notice(err.Error())
		return err
	}

	if err := a.manager.AddContact(ctx, email, ""); err != nil {
		a.notice(err.Error())
		return err
	}
	fmt.Fprintln(a.out, "Contact added.")
	return nil
}

// RenameContact changes a contact's local alias.
func (a *App) RenameContact(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Contact email", a.out)
	if err != nil {
		a.notice(err.Error())
		return err
	}
	name, err := GetSimpleText(a.reader, "New name", a.out)
	if err != nil {
		a.notice(err.Error())
		return err
	}

	if err := a.manager.RenameContact(ctx, email, name); err != nil {
		a.notice(err.Error())
		return err
	}
	fmt.Fprintln(a.out, "Contact updated.")
	return nil
}

// RemoveContact drops a contact from the address book.
func (a *App) RemoveContact(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Contact email", a.out)
	if err != nil {
		a.notice(err.Error())
		return err
	}

	if err := a.manager.RemoveContact(ctx, email); err != nil {
		a.notice(err.Error())
		return err
	}
	fmt.Fprintln(a.out, "Contact removed.")
	return nil
}

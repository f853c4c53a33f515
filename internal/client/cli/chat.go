package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/pr-poehali-dev/onlimess/internal/client/presence"
)

// Open selects a conversation and renders its history. With no argument it
// prompts for the identity.
func (a *App) Open(ctx context.Context, identity string) error {
	model := a.manager.Model()
	if model == nil {
		return nil
	}

	var err error
	if identity == "" {
		identity, err = GetSimpleText(a.reader, "Chat with (email)", a.out)
		if err != nil {
			a.notice(err.Error())
			return err
		}
	}

	model.SetActiveChat(identity)

	name := identity
	if c, ok := model.ContactByEmail(identity); ok {
		name = c.DisplayName
	}

	status := ""
	if a.manager.Typing().IsTyping(identity) {
		status = "typing..."
	} else {
		ts, ok := model.LastAuthoredAt(identity)
		status = presence.LastSeen(time.Now(), ts, ok)
	}
	fmt.Fprintf(a.out, "--- %s (%s) ---\n", name, status)

	owner := a.manager.Session().Email
	empty := true
	for msg := range model.ConversationWith(identity) {
		empty = false
		prefix := "  "
		if msg.From == owner {
			prefix = "> "
		}
		stamp := time.UnixMilli(msg.Timestamp).Format("15:04")
		fmt.Fprintf(a.out, "%s[%s] %s\n", prefix, stamp, msg.Text)
	}
	if empty {
		fmt.Fprintln(a.out, "  (no messages yet)")
	}
	return nil
}

// Send reads a message text and sends it to the active chat. Composing
// raises the typing flag; sending clears it.
func (a *App) Send(ctx context.Context) error {
	model := a.manager.Model()
	if model == nil {
		return nil
	}

	to := model.ActiveChat()
	if to == "" {
		a.notice("open a chat first")
		return nil
	}

	a.manager.StartTyping()
	text, err := GetSimpleText(a.reader, "Message", a.out)
	if err != nil {
		a.notice(err.Error())
		return err
	}

	if err := a.manager.SendMessage(ctx, to, text); err != nil {
		a.notice(err.Error())
		return err
	}
	return nil
}

// DeleteChat destructively removes the active conversation.
func (a *App) DeleteChat(ctx context.Context) error {
	model := a.manager.Model()
	if model == nil {
		return nil
	}

	identity := model.ActiveChat()
	if identity == "" {
		a.notice("open a chat first")
		return nil
	}

	if err := a.manager.DeleteConversation(ctx, identity); err != nil {
		a.notice(err.Error())
		return err
	}
	fmt.Fprintln(a.out, "Chat deleted.")
	return nil
}

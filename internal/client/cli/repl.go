package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/pr-poehali-dev/onlimess/internal/client/session"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a stub.
type execIface interface {
	stateName() string
	isFrozen() bool
	isLoggedIn() bool
	isSetupPending() bool
	isAdmin() bool

	Login(ctx context.Context) error
	Setup(ctx context.Context) error
	Logout(ctx context.Context) error

	Contacts(ctx context.Context) error
	AddContact(ctx context.Context) error
	RenameContact(ctx context.Context) error
	RemoveContact(ctx context.Context) error

	Open(ctx context.Context, identity string) error
	Send(ctx context.Context) error
	DeleteChat(ctx context.Context) error

	Users(ctx context.Context) error
	CreateUser(ctx context.Context) error
	Freeze(ctx context.Context) error
}

// runREPL reads a line, parses the first token as the command, and
// dispatches. Unknown commands are reported back. The loop exits on scanner
// EOF or when the user types "exit" or "quit".
//
// While the account is frozen only the lock screen is shown: the freeze is
// sticky until an admin intervenes, and no commands (including logout) are
// accepted.
//
// Command handlers report their own errors as notices; the loop itself stays
// resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		if a.isFrozen() {
			printlnFn("Profile is frozen. Contact an administrator.")
		}
		printlnFn(fmt.Sprintf("om> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		if a.isFrozen() && cmd != "exit" && cmd != "quit" {
			continue
		}

		switch cmd {
		case "help":
			switch {
			case a.isSetupPending():
				printlnFn("Available commands: setup, exit")
			case a.isLoggedIn():
				if a.isAdmin() {
					printlnFn("Available commands: contacts, add, rename, remove, open, send, delchat, users, createuser, freeze, logout, exit")
				} else {
					printlnFn("Available commands: contacts, add, rename, remove, open, send, delchat, logout, exit")
				}
			default:
				printlnFn("Available commands: login, exit")
			}

		case "login":
			_ = a.Login(ctx)

		case "setup":
			_ = a.Setup(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "contacts":
			_ = a.Contacts(ctx)

		case "add":
			_ = a.AddContact(ctx)

		case "rename":
			_ = a.RenameContact(ctx)

		case "remove":
			_ = a.RemoveContact(ctx)

		case "open":
			identity := ""
			if len(parts) > 1 {
				identity = parts[1]
			}
			_ = a.Open(ctx, identity)

		case "send":
			_ = a.Send(ctx)

		case "delchat":
			_ = a.DeleteChat(ctx)

		case "users":
			_ = a.Users(ctx)

		case "createuser":
			_ = a.CreateUser(ctx)

		case "freeze":
			_ = a.Freeze(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

func (a *App) stateName() string {
	return a.manager.State().String()
}

func (a *App) isFrozen() bool {
	return a.manager.State() == session.Frozen
}

func (a *App) isLoggedIn() bool {
	state := a.manager.State()
	return state == session.Active || state == session.Frozen
}

func (a *App) isSetupPending() bool {
	return a.manager.State() == session.FirstLoginSetup
}

func (a *App) isAdmin() bool {
	s := a.manager.Session()
	return s != nil && s.IsAdmin
}

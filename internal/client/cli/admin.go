package cli

import (
	"context"
	"fmt"
)

// Users prints the admin roster.
func (a *App) Users(ctx context.Context) error {
	model := a.manager.Model()
	if model == nil || !a.isAdmin() {
		a.notice("admin only")
		return nil
	}

	roster := model.Roster()
	if len(roster) == 0 {
		fmt.Fprintln(a.out, "(roster is empty or not fetched yet)")
		return nil
	}
	for _, u := range roster {
		flags := ""
		if u.IsAdmin {
			flags += " admin"
		}
		if u.IsFrozen {
			flags += " FROZEN"
		}
		fmt.Fprintf(a.out, "  %s%s\n", u.Username, flags)
	}
	return nil
}

// CreateUser provisions a new account with a login and password; the user
// picks their name and email on first login.
func (a *App) CreateUser(ctx context.Context) error {
	username, err := GetSimpleText(a.reader, "New user login", a.out)
	if err != nil {
		a.notice(err.Error())
		return err
	}
	password, err := GetPassword(a.out)
	if err != nil {
		a.notice(err.Error())
		return err
	}

	if err := a.manager.CreateUser(ctx, username, password); err != nil {
		a.notice(err.Error())
		return err
	}
	fmt.Fprintln(a.out, "User created.")
	return nil
}

// Freeze toggles the frozen flag of a user. The target sees it on their
// next poll tick.
func (a *App) Freeze(ctx context.Context) error {
	username, err := GetSimpleText(a.reader, "Username to toggle", a.out)
	if err != nil {
		a.notice(err.Error())
		return err
	}

	if err := a.manager.ToggleFrozen(ctx, username); err != nil {
		a.notice(err.Error())
		return err
	}
	fmt.Fprintln(a.out, "User status updated.")
	return nil
}

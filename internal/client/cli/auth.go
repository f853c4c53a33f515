package cli

import (
	"context"
	"fmt"
)

// Login prompts for credentials and authenticates. A first-time account is
// parked in the setup state and told to run "setup".
func (a *App) Login(ctx context.Context) error {
	username, err := GetSimpleText(a.reader, "Enter login", a.out)
	if err != nil {
		a.notice(err.Error())
		return err
	}

	password, err := GetPassword(a.out)
	if err != nil {
		a.notice(err.Error())
		return err
	}

	if err := a.manager.Login(ctx, username, password); err != nil {
		a.notice(err.Error())
		return err
	}

	if a.isSetupPending() {
		fmt.Fprintln(a.out, "First login: run \"setup\" to pick your name and email.")
		return nil
	}

	s := a.manager.Session()
	fmt.Fprintf(a.out, "Welcome, %s!\n", s.DisplayName)
	return nil
}

// Setup completes first-login profile configuration.
func (a *App) Setup(ctx context.Context) error {
	displayName, err := GetSimpleText(a.reader, "Your name", a.out)
	if err != nil {
		a.notice(err.Error())
		return err
	}

	email, err := GetSimpleText(a.reader, "Email (username@OnliMess)", a.out)
	if err != nil {
		a.notice(err.Error())
		return err
	}

	if err := a.manager.CompleteSetup(ctx, displayName, email); err != nil {
		a.notice(err.Error())
		return err
	}

	fmt.Fprintln(a.out, "Profile configured!")
	return nil
}

// Logout ends the session and clears the stored snapshot.
func (a *App) Logout(ctx context.Context) error {
	if err := a.manager.Logout(ctx); err != nil {
		a.notice(err.Error())
		return err
	}
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

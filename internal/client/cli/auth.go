package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/memorymap/internal/client/services"
	"github.com/dmitrijs2005/memorymap/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword
var getMultiline = GetMultiline

// fail prints the user-facing text of err and returns it.
func (a *App) fail(err error) error {
	fmt.Fprintln(a.out, "Error:", services.ErrorMessage(err))
	return err
}

// Register prompts for the account fields and creates the account, then
// completes the session from the new account's profile. If that fetch
// fails the token stays pending and the user can run resume or log in.
func (a *App) Register(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	fmt.Fprint(a.out, "Confirm ")
	confirm, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	form := services.RegisterForm{
		Username: username,
		Email:    email,
		Password: string(password),
		Confirm:  string(confirm),
	}
	if err := a.auth.Register(ctx, form); err != nil {
		return a.fail(err)
	}

	fmt.Fprintln(a.out, "Registration successful.")
	if err := a.resumePending(ctx); err != nil {
		fmt.Fprintln(a.out, "Could not sign you in yet. Run 'resume' or log in.")
	}
	return nil
}

// Resume completes a registration left pending by an earlier run.
func (a *App) Resume(ctx context.Context) error {
	err := a.resumePending(ctx)
	switch {
	case errors.Is(err, services.ErrNoPending):
		fmt.Fprintln(a.out, "Nothing to resume.")
		return err
	case errors.Is(err, services.ErrLoginRequired):
		fmt.Fprintln(a.out, "Your registration token was rejected. Please log in.")
		return err
	case err != nil:
		return a.fail(err)
	}
	return nil
}

func (a *App) resumePending(ctx context.Context) error {
	user, err := a.auth.Resume(ctx)
	if err != nil {
		a.log.Warn(ctx, "completing registration failed", "error", err)
		return err
	}
	fmt.Fprintf(a.out, "Welcome, %s!\n", user.Username)
	return nil
}

// Login prompts for credentials and starts a session. On failure any
// existing session is left as it was.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	user, err := a.auth.Login(ctx, email, string(password))
	if err != nil {
		return a.fail(err)
	}

	a.log.Info(ctx, "logged in", "user_id", user.ID)
	fmt.Fprintf(a.out, "Welcome, %s!\n", user.Username)
	return nil
}

// Logout ends the session. Preferences stay on disk.
func (a *App) Logout(ctx context.Context) error {
	if err := a.auth.Logout(ctx); err != nil {
		return a.fail(err)
	}
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/shopclient/internal/client/client"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

var errBadCredentials = errors.New("invalid username or password")

// Register prompts for a username, email and password and creates an
// account. The user still has to log in afterwards.
func (a *App) Register(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}

	if err := a.auth.Register(ctx, username, email, password); err != nil {
		return err
	}

	a.println("Account created, you can log in now.")
	return nil
}

// Login prompts for credentials and signs in. On success the realtime
// connection and the notification feed start on their own.
func (a *App) Login(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}

	cred, err := a.auth.Login(ctx, username, password)
	if err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			return errBadCredentials
		}
		if errors.Is(err, client.ErrUnavailable) {
			return fmt.Errorf("server unavailable, try again later: %w", err)
		}
		return err
	}

	a.printf("Signed in as %s\n", cred.Username)
	return nil
}

// Logout leaves the current room and forgets the credential.
func (a *App) Logout(ctx context.Context) error {
	a.chat.Leave()
	if err := a.auth.Logout(ctx); err != nil {
		return err
	}
	a.println("Signed out.")
	return nil
}

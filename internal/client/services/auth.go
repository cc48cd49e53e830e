// Package services contains application services for the storefront client.
// This file defines the authentication service: login, registration, logout
// and restoring the session persisted by a previous run.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/shopclient/internal/client/models"
	"github.com/dmitrijs2005/shopclient/internal/client/session"
)

var ErrMissingField = errors.New("required field is empty")

// AuthService defines authentication operations for the CLI.
//
// Login and Logout only touch the session store; the realtime connection and
// the notification list follow the store on their own.
type AuthService interface {
	Login(ctx context.Context, username, password string) (*session.Credential, error)
	Register(ctx context.Context, username, email, password string) error
	Logout(ctx context.Context) error
	Restore(ctx context.Context) (*session.Credential, error)
}

// Authenticator is the part of the API client used by AuthService.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (*models.LoginResult, error)
	Register(ctx context.Context, username, email, password string) (*models.SignupResult, error)
}

// CredentialStore is the part of the session store used by AuthService.
type CredentialStore interface {
	Load(ctx context.Context) (*session.Credential, error)
	Set(ctx context.Context, c session.Credential) error
	Clear(ctx context.Context) error
}

type authService struct {
	api   Authenticator
	store CredentialStore
}

func NewAuthService(api Authenticator, store CredentialStore) AuthService {
	return &authService{api: api, store: store}
}

func required(fields ...[2]string) error {
	for _, f := range fields {
		if strings.TrimSpace(f[1]) == "" {
			return fmt.Errorf("%w: %s", ErrMissingField, f[0])
		}
	}
	return nil
}

// Login authenticates against the server and stores the issued credential.
func (a *authService) Login(ctx context.Context, username, password string) (*session.Credential, error) {
	if err := required([2]string{"username", username}, [2]string{"password", password}); err != nil {
		return nil, err
	}

	res, err := a.api.Login(ctx, username, password)
	if err != nil {
		return nil, fmt.Errorf("login error: %w", err)
	}

	c := session.Credential{
		UserID:   res.ID.String(),
		Token:    res.Token,
		Username: res.Username,
		Email:    res.Email,
	}
	if c.Username == "" {
		c.Username = username
	}

	if err := a.store.Set(ctx, c); err != nil {
		return nil, fmt.Errorf("session saving error: %w", err)
	}
	return &c, nil
}

// Register creates a new account. It does not log in.
func (a *authService) Register(ctx context.Context, username, email, password string) error {
	if err := required(
		[2]string{"username", username},
		[2]string{"email", email},
		[2]string{"password", password},
	); err != nil {
		return err
	}

	if _, err := a.api.Register(ctx, username, email, password); err != nil {
		return fmt.Errorf("register error: %w", err)
	}
	return nil
}

func (a *authService) Logout(ctx context.Context) error {
	return a.store.Clear(ctx)
}

// Restore loads the credential saved by a previous run, if still valid.
func (a *authService) Restore(ctx context.Context) (*session.Credential, error) {
	return a.store.Load(ctx)
}

package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/dmitrijs2005/memorymap/internal/client/api"
	"github.com/dmitrijs2005/memorymap/internal/client/models"
	"github.com/dmitrijs2005/memorymap/internal/client/session"
	"github.com/dmitrijs2005/memorymap/internal/logging"
)

const MinPasswordLength = 6

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// AuthService defines the authentication flows.
//
// Contract:
//   - Login: authenticate and commit the session; on failure the session is
//     untouched.
//   - Register: validate locally, create the account, persist the issued
//     token as pending. No session exists yet.
//   - Resume: fetch the profile with the pending token and commit both as
//     the session. A 401 drops the pending token.
//   - Logout: clear the session; preferences survive.
//   - Ping: check that the server answers.
type AuthService interface {
	Login(ctx context.Context, email, password string) (models.UserProfile, error)
	Register(ctx context.Context, form RegisterForm) error
	Resume(ctx context.Context) (models.UserProfile, error)
	Logout(ctx context.Context) error
	Ping(ctx context.Context) error
}

type RegisterForm struct {
	Username string
	Email    string
	Password string
	Confirm  string
}

// Validate applies the registration rules in order and reports the first
// one that fails.
func (f RegisterForm) Validate() error {
	switch {
	case f.Username == "":
		return &ValidationError{Field: "username", Err: ErrFieldsRequired}
	case f.Email == "":
		return &ValidationError{Field: "email", Err: ErrFieldsRequired}
	case f.Password == "":
		return &ValidationError{Field: "password", Err: ErrFieldsRequired}
	case f.Confirm == "":
		return &ValidationError{Field: "confirm", Err: ErrFieldsRequired}
	case !emailPattern.MatchString(f.Email):
		return &ValidationError{Field: "email", Err: ErrInvalidEmail}
	case len(f.Password) < MinPasswordLength:
		return &ValidationError{Field: "password", Err: ErrPasswordTooShort}
	case f.Password != f.Confirm:
		return &ValidationError{Field: "confirm", Err: ErrPasswordMismatch}
	}
	return nil
}

type authService struct {
	client   api.Client
	sessions SessionStore
	log      logging.Logger
}

func NewAuthService(client api.Client, sessions SessionStore, log logging.Logger) AuthService {
	if log == nil {
		log = logging.Nop()
	}
	return &authService{client: client, sessions: sessions, log: log}
}

func (a *authService) Login(ctx context.Context, email, password string) (models.UserProfile, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return models.UserProfile{}, &ValidationError{Field: "email", Err: ErrFieldsRequired}
	}
	if password == "" {
		return models.UserProfile{}, &ValidationError{Field: "password", Err: ErrFieldsRequired}
	}

	res, err := a.client.Login(ctx, email, password)
	if err != nil {
		return models.UserProfile{}, fmt.Errorf("login error: %w", err)
	}

	if err := a.sessions.Commit(ctx, res.Token, res.User); err != nil {
		return models.UserProfile{}, fmt.Errorf("session error: %w", err)
	}
	a.log.Info(ctx, "logged in", "user_id", res.User.ID)
	return res.User, nil
}

func (a *authService) Register(ctx context.Context, form RegisterForm) error {
	form.Username = strings.TrimSpace(form.Username)
	form.Email = strings.TrimSpace(form.Email)
	if err := form.Validate(); err != nil {
		return err
	}

	token, err := a.client.Register(ctx, models.RegisterRequest{
		Username: form.Username,
		Email:    form.Email,
		Password: form.Password,
	})
	if err != nil {
		return fmt.Errorf("register error: %w", err)
	}

	if err := a.sessions.RetainToken(ctx, token); err != nil {
		return fmt.Errorf("session error: %w", err)
	}
	a.log.Info(ctx, "registered", "username", form.Username)
	return nil
}

func (a *authService) Resume(ctx context.Context) (models.UserProfile, error) {
	token := a.sessions.PendingToken()
	if token == "" {
		return models.UserProfile{}, ErrNoPending
	}

	// the client sends the pending token while no session is active
	u, err := a.client.GetMe(ctx)
	if err != nil {
		if errors.Is(err, api.ErrAuthExpired) {
			if derr := a.sessions.DropPending(ctx, token); derr != nil {
				a.log.Warn(ctx, "dropping pending token failed", "error", derr)
			}
			return models.UserProfile{}, fmt.Errorf("%w: %w", ErrLoginRequired, err)
		}
		return models.UserProfile{}, fmt.Errorf("profile error: %w", err)
	}

	if err := a.sessions.CompletePending(ctx, token, u); err != nil {
		if errors.Is(err, session.ErrStaleGeneration) {
			return models.UserProfile{}, ErrSessionChanged
		}
		return models.UserProfile{}, fmt.Errorf("session error: %w", err)
	}
	a.log.Info(ctx, "registration completed", "user_id", u.ID)
	return u, nil
}

func (a *authService) Logout(ctx context.Context) error {
	return a.sessions.Clear(ctx)
}

func (a *authService) Ping(ctx context.Context) error {
	return a.client.Verify(ctx)
}

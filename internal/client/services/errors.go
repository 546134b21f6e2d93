package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/memorymap/internal/client/api"
	"github.com/dmitrijs2005/memorymap/internal/client/models"
	"github.com/dmitrijs2005/memorymap/internal/client/session"
)

var (
	// ErrLoginRequired tells the caller to send the user to the login screen.
	ErrLoginRequired  = errors.New("login required")
	ErrSessionChanged = errors.New("session changed while the request was in flight")
	ErrNoPending      = errors.New("no registration to complete")

	ErrSaveInProgress = errors.New("a save is already in progress")
	ErrNotReady       = errors.New("profile is not loaded")
	ErrNotEditing     = errors.New("profile is not being edited")

	ErrFieldsRequired   = errors.New("all fields are required")
	ErrInvalidEmail     = errors.New("invalid email address")
	ErrPasswordTooShort = errors.New("password must be at least 6 characters")
	ErrPasswordMismatch = errors.New("passwords do not match")
)

// ValidationError is a local input check that failed before any request
// was sent.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string { return e.Field + ": " + e.Err.Error() }

func (e *ValidationError) Unwrap() error { return e.Err }

// SessionStore is what the services need from session.Store.
type SessionStore interface {
	Current() (session.Session, bool)
	Generation() uint64
	Commit(ctx context.Context, token string, user models.UserProfile) error
	Clear(ctx context.Context) error
	Expire(ctx context.Context, gen uint64) error
	UpdateUser(ctx context.Context, gen uint64, user models.UserProfile) error
	RetainToken(ctx context.Context, token string) error
	PendingToken() string
	CompletePending(ctx context.Context, token string, user models.UserProfile) error
	DropPending(ctx context.Context, token string) error
}

// ErrorMessage is the text to show for err: the server's message for API
// errors, the error string otherwise.
func ErrorMessage(err error) string {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return vErr.Err.Error()
	}
	return err.Error()
}

// expireOn401 tears the session down when err is an authentication
// rejection and turns err into ErrLoginRequired, or into ErrSessionChanged
// when a newer session has replaced the one the request was made for.
// Other errors pass through.
func expireOn401(ctx context.Context, sessions SessionStore, gen uint64, err error) error {
	if !errors.Is(err, api.ErrAuthExpired) {
		return err
	}
	cerr := sessions.Expire(ctx, gen)
	switch {
	case errors.Is(cerr, session.ErrStaleGeneration):
		// the rejected token belonged to a session that is already gone
		return fmt.Errorf("%w: %w", ErrSessionChanged, err)
	case cerr != nil:
		return fmt.Errorf("%w: %w (clearing session: %v)", ErrLoginRequired, err, cerr)
	}
	return fmt.Errorf("%w: %w", ErrLoginRequired, err)
}

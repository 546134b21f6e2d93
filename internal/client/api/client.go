package api

import (
	"context"

	"github.com/dmitrijs2005/memorymap/internal/client/models"
)

type Client interface {
	Login(ctx context.Context, email, password string) (models.AuthResult, error)
	// Register creates the account and returns the token the server issued.
	Register(ctx context.Context, req models.RegisterRequest) (string, error)
	GetMe(ctx context.Context) (models.UserProfile, error)
	UpdateUser(ctx context.Context, userID string, upd models.ProfileUpdate) (models.UserProfile, error)
	// UploadProfilePicture returns the URL the server stored the image under.
	UploadProfilePicture(ctx context.Context, userID, filename string, data []byte) (string, error)
	ListEntries(ctx context.Context, userID string) ([]models.Entry, error)
	// CreateEntry returns the new entry id.
	CreateEntry(ctx context.Context, draft models.EntryDraft) (string, error)
	// Verify checks that the current token is still accepted.
	Verify(ctx context.Context) error
}

// TokenSource supplies the bearer token for each request. An empty string
// means the request goes out unauthenticated.
type TokenSource interface {
	Token() string
}

// StaticToken is a TokenSource that always returns the same token.
type StaticToken string

func (t StaticToken) Token() string { return string(t) }

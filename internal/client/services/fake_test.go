package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/memorymap/internal/client/api"
	"github.com/dmitrijs2005/memorymap/internal/client/localdb"
	"github.com/dmitrijs2005/memorymap/internal/client/models"
	"github.com/dmitrijs2005/memorymap/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/memorymap/internal/client/session"
)

// ---- helpers ----

func newRepo(t *testing.T) *metadata.SQLiteRepository {
	t.Helper()
	db, err := localdb.InitDatabase(context.Background(), filepath.Join(t.TempDir(), "services.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return metadata.NewSQLiteRepository(db)
}

func newSessions(t *testing.T) (*session.Store, *metadata.SQLiteRepository) {
	t.Helper()
	repo := newRepo(t)
	return session.NewStore(repo, nil), repo
}

func unauthorized(msg string) error {
	return &api.APIError{Status: 401, Message: msg}
}

// ---- fake client ----

// fakeClient implements api.Client for unit tests of the services.
type fakeClient struct {
	LoginRet models.AuthResult
	LoginErr error

	RegisterRet string
	RegisterErr error

	GetMeRet  models.UserProfile
	GetMeErr  error
	GetMeHook func()

	UpdateRet  models.UserProfile
	UpdateErr  error
	UpdateHook func()

	UploadRet string
	UploadErr error

	ListRet []models.Entry
	ListErr error

	CreateRet string
	CreateErr error

	VerifyErr error

	// captured arguments
	Calls int

	LastLoginEmail    string
	LastLoginPassword string
	LastRegister      models.RegisterRequest
	LastUpdateID      string
	LastUpdate        *models.ProfileUpdate
	LastUploadID      string
	LastUploadName    string
	LastListID        string
	LastCreate        *models.EntryDraft
}

var _ api.Client = (*fakeClient)(nil)

func (f *fakeClient) Login(ctx context.Context, email, password string) (models.AuthResult, error) {
	f.Calls++
	f.LastLoginEmail, f.LastLoginPassword = email, password
	return f.LoginRet, f.LoginErr
}

func (f *fakeClient) Register(ctx context.Context, req models.RegisterRequest) (string, error) {
	f.Calls++
	f.LastRegister = req
	return f.RegisterRet, f.RegisterErr
}

func (f *fakeClient) GetMe(ctx context.Context) (models.UserProfile, error) {
	f.Calls++
	if f.GetMeHook != nil {
		f.GetMeHook()
	}
	return f.GetMeRet, f.GetMeErr
}

func (f *fakeClient) UpdateUser(ctx context.Context, userID string, upd models.ProfileUpdate) (models.UserProfile, error) {
	f.Calls++
	f.LastUpdateID = userID
	f.LastUpdate = &upd
	if f.UpdateHook != nil {
		f.UpdateHook()
	}
	return f.UpdateRet, f.UpdateErr
}

func (f *fakeClient) UploadProfilePicture(ctx context.Context, userID, filename string, data []byte) (string, error) {
	f.Calls++
	f.LastUploadID, f.LastUploadName = userID, filename
	return f.UploadRet, f.UploadErr
}

func (f *fakeClient) ListEntries(ctx context.Context, userID string) ([]models.Entry, error) {
	f.Calls++
	f.LastListID = userID
	return f.ListRet, f.ListErr
}

func (f *fakeClient) CreateEntry(ctx context.Context, draft models.EntryDraft) (string, error) {
	f.Calls++
	f.LastCreate = &draft
	return f.CreateRet, f.CreateErr
}

func (f *fakeClient) Verify(ctx context.Context) error {
	f.Calls++
	return f.VerifyErr
}

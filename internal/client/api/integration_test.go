package api_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/memorymap/internal/client/api"
	"github.com/dmitrijs2005/memorymap/internal/client/models"
	"github.com/dmitrijs2005/memorymap/internal/fakeapi"
)

type tokenBox struct {
	mu  sync.Mutex
	tok string
}

func (b *tokenBox) Token() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.tok
}

func (b *tokenBox) set(tok string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tok = tok
}

func newFakeBackend(t *testing.T) (*fakeapi.Server, *api.HTTPClient, *tokenBox) {
	t.Helper()
	srv := fakeapi.New(fakeapi.WithBcryptCost(bcrypt.MinCost))
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	box := &tokenBox{}
	c, err := api.NewHTTPClient(ts.URL, api.WithTokenSource(box))
	require.NoError(t, err)
	return srv, c, box
}

func TestAgainstFakeBackend_AccountLifecycle(t *testing.T) {
	ctx := context.Background()
	_, c, box := newFakeBackend(t)

	token, err := c.Register(ctx, models.RegisterRequest{Username: "lan", Email: "lan@example.com", Password: "secret1"})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	res, err := c.Login(ctx, "lan@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "lan", res.User.Username)
	box.set(res.Token)

	require.NoError(t, c.Verify(ctx))

	me, err := c.GetMe(ctx)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, me.ID)

	updated, err := c.UpdateUser(ctx, me.ID, models.ProfileUpdate{Username: "lan2", Email: me.Email})
	require.NoError(t, err)
	assert.Equal(t, "lan2", updated.Username)
	assert.Equal(t, "lan@example.com", updated.Email)

	png := []byte("\x89PNG\r\n\x1a\n0000")
	url, err := c.UploadProfilePicture(ctx, me.ID, "me.png", png)
	require.NoError(t, err)
	assert.Contains(t, url, "/avatars/")

	me, err = c.GetMe(ctx)
	require.NoError(t, err)
	assert.Equal(t, url, me.ProfilePicture)
}

func TestAgainstFakeBackend_Errors(t *testing.T) {
	ctx := context.Background()
	srv, c, box := newFakeBackend(t)

	_, err := c.Login(ctx, "nobody@example.com", "secret1")
	var apiErr *api.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "Invalid email or password", apiErr.Message)

	_, err = c.GetMe(ctx)
	require.ErrorIs(t, err, api.ErrAuthExpired)

	box.set("not-a-jwt")
	err = c.Verify(ctx)
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Invalid token", apiErr.Message)

	_, err = srv.AddUser("lan", "lan@example.com", "secret1")
	require.NoError(t, err)
	_, err = c.Register(ctx, models.RegisterRequest{Username: "x", Email: "lan@example.com", Password: "secret1"})
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.Status)

	srv.Fail("POST /auth/login", http.StatusServiceUnavailable, "maintenance")
	_, err = c.Login(ctx, "lan@example.com", "secret1")
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "maintenance", apiErr.Message)
}

func TestAgainstFakeBackend_Entries(t *testing.T) {
	ctx := context.Background()
	_, c, _ := newFakeBackend(t)

	list, err := c.ListEntries(ctx, "u-1")
	require.NoError(t, err)
	assert.Empty(t, list)

	id, err := c.CreateEntry(ctx, models.EntryDraft{
		UserID:   "u-1",
		Title:    "Ha Long Bay",
		Content:  "boat trip",
		Location: models.ParseLocation("20.91,107.18"),
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	list, err = c.ListEntries(ctx, "u-1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, id, list[0].ID)
	require.NotNil(t, list[0].Location)
	assert.True(t, list[0].Location.HasPoint())
}

package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/memorymap/internal/client/api"
	"github.com/dmitrijs2005/memorymap/internal/client/models"
)

type EntriesService interface {
	List(ctx context.Context) ([]models.Entry, error)
	// Create stores draft for the current user and returns the entry id.
	Create(ctx context.Context, draft models.EntryDraft) (string, error)
}

type entriesService struct {
	client   api.Client
	sessions SessionStore
}

func NewEntriesService(client api.Client, sessions SessionStore) EntriesService {
	return &entriesService{client: client, sessions: sessions}
}

func (s *entriesService) List(ctx context.Context) ([]models.Entry, error) {
	gen := s.sessions.Generation()
	sess, ok := s.sessions.Current()
	if !ok {
		return nil, ErrLoginRequired
	}

	entries, err := s.client.ListEntries(ctx, sess.UserID)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", expireOn401(ctx, s.sessions, gen, err))
	}
	return entries, nil
}

func (s *entriesService) Create(ctx context.Context, draft models.EntryDraft) (string, error) {
	gen := s.sessions.Generation()
	sess, ok := s.sessions.Current()
	if !ok {
		return "", ErrLoginRequired
	}
	draft.Title = strings.TrimSpace(draft.Title)
	if draft.Title == "" {
		return "", &ValidationError{Field: "title", Err: ErrFieldsRequired}
	}
	draft.UserID = sess.UserID

	id, err := s.client.CreateEntry(ctx, draft)
	if err != nil {
		return "", fmt.Errorf("create entry: %w", expireOn401(ctx, s.sessions, gen, err))
	}
	return id, nil
}

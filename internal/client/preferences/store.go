package preferences

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/memorymap/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/memorymap/internal/client/session"
	"github.com/dmitrijs2005/memorymap/internal/common"
	"github.com/dmitrijs2005/memorymap/internal/logging"
)

type Store struct {
	repo metadata.Repository
	log  logging.Logger
}

func NewStore(repo metadata.Repository, log logging.Logger) *Store {
	if log == nil {
		log = logging.Nop()
	}
	return &Store{repo: repo, log: log}
}

// KeyFor returns the preference owner for a session: the cached username,
// or guest when there is no session or no username is known yet.
func KeyFor(s session.Session, ok bool) string {
	if ok && s.User.Username != "" {
		return s.User.Username
	}
	return common.GuestKey
}

func ownerKey(owner string) string {
	if owner == "" {
		owner = common.GuestKey
	}
	return common.UserSettingsKey(owner)
}

// Load returns owner's preferences. Anything short of a complete valid
// record yields Defaults(); only a storage failure is returned as an error,
// together with the defaults.
func (s *Store) Load(ctx context.Context, owner string) (PreferenceSet, error) {
	key := ownerKey(owner)
	raw, err := s.repo.Get(ctx, key)
	if err != nil {
		return Defaults(), fmt.Errorf("load preferences: %w", err)
	}
	if raw == nil {
		return Defaults(), nil
	}

	var st stored
	if err := json.Unmarshal(raw, &st); err != nil {
		s.log.Warn(ctx, "unreadable preferences, using defaults", "key", key, "error", err)
		return Defaults(), nil
	}
	if err := validateStored(st); err != nil {
		s.log.Warn(ctx, "invalid preferences, using defaults", "key", key, "error", err)
		return Defaults(), nil
	}
	return st.set(), nil
}

// Save writes the full record.
func (s *Store) Save(ctx context.Context, owner string, p PreferenceSet) error {
	if err := p.Validate(); err != nil {
		return err
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}
	if err := s.repo.Set(ctx, ownerKey(owner), raw); err != nil {
		return fmt.Errorf("save preferences: %w", err)
	}
	return nil
}

// Reset overwrites owner's record with the defaults and returns them.
func (s *Store) Reset(ctx context.Context, owner string) (PreferenceSet, error) {
	d := Defaults()
	if err := s.Save(ctx, owner, d); err != nil {
		return PreferenceSet{}, err
	}
	return d, nil
}

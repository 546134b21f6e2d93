package preferences

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/memorymap/internal/client/session"
	"github.com/dmitrijs2005/memorymap/internal/logging"
)

// Manager is the in-memory view of the current owner's preferences.
type Manager struct {
	store *Store
	log   logging.Logger

	mu    sync.Mutex
	owner string
	cur   PreferenceSet
}

// NewManager loads the preferences of whoever owns sess.
func NewManager(ctx context.Context, store *Store, sess session.Session, ok bool) (*Manager, error) {
	m := &Manager{store: store, log: store.log, owner: KeyFor(sess, ok)}
	cur, err := store.Load(ctx, m.owner)
	m.cur = cur
	return m, err
}

// Current returns the owner key and its preferences.
func (m *Manager) Current() (string, PreferenceSet) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.owner, m.cur
}

// Update applies fn to a copy of the current set and saves the result. The
// in-memory set changes only if the save succeeds.
func (m *Manager) Update(ctx context.Context, fn func(p *PreferenceSet) error) (PreferenceSet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := m.cur
	if err := fn(&next); err != nil {
		return m.cur, err
	}
	if err := m.store.Save(ctx, m.owner, next); err != nil {
		return m.cur, err
	}
	m.cur = next
	return next, nil
}

// Set changes one field by name; see SetField.
func (m *Manager) Set(ctx context.Context, field, value string) (PreferenceSet, error) {
	return m.Update(ctx, func(p *PreferenceSet) error {
		return SetField(p, field, value)
	})
}

func (m *Manager) Reset(ctx context.Context) (PreferenceSet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	d, err := m.store.Reset(ctx, m.owner)
	if err != nil {
		return m.cur, err
	}
	m.cur = d
	return d, nil
}

// Reload reads the current owner's set back from storage.
func (m *Manager) Reload(ctx context.Context) (PreferenceSet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cur, err := m.store.Load(ctx, m.owner)
	m.cur = cur
	return cur, err
}

// Rekey switches to the owner of sess and loads that owner's set. It is a
// no-op when the owner does not change.
func (m *Manager) Rekey(ctx context.Context, sess session.Session, ok bool) error {
	owner := KeyFor(sess, ok)

	m.mu.Lock()
	defer m.mu.Unlock()

	if owner == m.owner {
		return nil
	}
	cur, err := m.store.Load(ctx, owner)
	m.owner, m.cur = owner, cur
	m.log.Debug(ctx, "preferences rekeyed", "owner", owner)
	return err
}

// Listener adapts Rekey for session.Store.Subscribe.
func (m *Manager) Listener() session.Listener {
	return func(sess session.Session, ok bool) {
		ctx := context.Background()
		if err := m.Rekey(ctx, sess, ok); err != nil {
			m.log.Warn(ctx, "preferences rekey failed", "error", err)
		}
	}
}

// Apply saves the current set and copies its language into the global
// language key.
func (m *Manager) Apply(ctx context.Context, app *Appearance) error {
	m.mu.Lock()
	owner, cur := m.owner, m.cur
	m.mu.Unlock()

	if err := m.store.Save(ctx, owner, cur); err != nil {
		return err
	}
	return app.SetLanguage(ctx, cur.Language)
}

package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/memorymap/internal/client/models"
	"github.com/dmitrijs2005/memorymap/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/memorymap/internal/common"
	"github.com/dmitrijs2005/memorymap/internal/logging"
)

var (
	ErrInvalidSession  = errors.New("session requires a token and a user id")
	ErrStaleGeneration = errors.New("session changed since the request started")
	ErrNoSession       = errors.New("no active session")
)

var sessionKeys = []string{common.KeyToken, common.KeyUserID, common.KeyUserInfo}

type Session struct {
	Token  string
	UserID string
	User   models.UserProfile
}

// Listener is called after every change of the session. ok is false once the
// session is gone. Listeners run while the store's write lock is held and
// must not write to the store.
type Listener func(s Session, ok bool)

type Store struct {
	repo metadata.Repository
	log  logging.Logger
	now  func() time.Time

	// wmu serializes writers; mu guards the snapshot below.
	wmu sync.Mutex
	mu  sync.RWMutex

	cur     Session
	ok      bool
	pending string
	gen     uint64

	listeners map[int]Listener
	nextID    int
}

func NewStore(repo metadata.Repository, log logging.Logger) *Store {
	if log == nil {
		log = logging.Nop()
	}
	return &Store{
		repo:      repo,
		log:       log,
		now:       time.Now,
		listeners: make(map[int]Listener),
	}
}

// Current returns the in-memory snapshot; it never touches storage.
func (s *Store) Current() (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur, s.ok
}

func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ok && s.cur.Token != "" && s.cur.UserID != ""
}

func (s *Store) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gen
}

// Token returns the committed token, or the token retained after
// registration when no session is active.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.ok {
		return s.cur.Token
	}
	return s.pending
}

// PendingToken returns the token retained after registration, if any.
func (s *Store) PendingToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.ok {
		return ""
	}
	return s.pending
}

// RetainToken persists a token issued at registration under the token key,
// with no user id next to it. It does not create a session: IsAuthenticated
// stays false until CompletePending or Commit. It is ignored while a session
// is active.
func (s *Store) RetainToken(ctx context.Context, token string) error {
	if token == "" {
		return ErrInvalidSession
	}

	s.wmu.Lock()
	defer s.wmu.Unlock()

	s.mu.RLock()
	ok := s.ok
	s.mu.RUnlock()
	if ok {
		return nil
	}

	err := s.repo.Apply(ctx, map[string][]byte{common.KeyToken: []byte(token)},
		[]string{common.KeyUserID, common.KeyUserInfo})
	if err != nil {
		return fmt.Errorf("retain token: %w", err)
	}

	s.mu.Lock()
	s.pending = token
	s.mu.Unlock()
	s.log.Debug(ctx, "registration token retained")
	return nil
}

// CompletePending turns the pending token into a session for user. It
// returns ErrStaleGeneration when token is no longer the pending one.
func (s *Store) CompletePending(ctx context.Context, token string, user models.UserProfile) error {
	if token == "" || user.ID == "" {
		return ErrInvalidSession
	}

	s.wmu.Lock()
	defer s.wmu.Unlock()

	s.mu.RLock()
	ok, pending := s.ok, s.pending
	s.mu.RUnlock()
	if ok || pending != token {
		return ErrStaleGeneration
	}
	return s.commit(ctx, token, user)
}

// DropPending forgets token if it is still the pending one.
func (s *Store) DropPending(ctx context.Context, token string) error {
	s.wmu.Lock()
	defer s.wmu.Unlock()

	s.mu.RLock()
	ok, pending := s.ok, s.pending
	s.mu.RUnlock()
	if ok || pending == "" || pending != token {
		return nil
	}

	if err := s.repo.Apply(ctx, nil, sessionKeys); err != nil {
		return fmt.Errorf("drop pending token: %w", err)
	}
	s.mu.Lock()
	s.pending = ""
	s.mu.Unlock()
	s.log.Info(ctx, "registration token dropped")
	return nil
}

// Subscribe registers fn and returns a function that removes it.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.wmu.Lock()
	defer s.wmu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	return func() {
		s.wmu.Lock()
		defer s.wmu.Unlock()
		delete(s.listeners, id)
	}
}

// Commit persists token, user id and profile as one batch, then publishes
// the new session.
func (s *Store) Commit(ctx context.Context, token string, user models.UserProfile) error {
	if token == "" || user.ID == "" {
		return ErrInvalidSession
	}

	s.wmu.Lock()
	defer s.wmu.Unlock()
	return s.commit(ctx, token, user)
}

// commit writes the session keys and publishes. Callers hold wmu.
func (s *Store) commit(ctx context.Context, token string, user models.UserProfile) error {
	info, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user info: %w", err)
	}

	err = s.repo.Apply(ctx, map[string][]byte{
		common.KeyToken:    []byte(token),
		common.KeyUserID:   []byte(user.ID),
		common.KeyUserInfo: info,
	}, nil)
	if err != nil {
		return fmt.Errorf("commit session: %w", err)
	}

	next := Session{Token: token, UserID: user.ID, User: user}
	s.publish(next, true, true)
	s.log.Info(ctx, "session committed", "user_id", user.ID)
	return nil
}

// Clear removes the session from storage and memory. Clearing an empty
// session is a no-op.
func (s *Store) Clear(ctx context.Context) error {
	s.wmu.Lock()
	defer s.wmu.Unlock()

	if err := s.repo.Apply(ctx, nil, sessionKeys); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}

	s.mu.RLock()
	had := s.ok || s.pending != ""
	s.mu.RUnlock()
	if !had {
		return nil
	}

	s.publish(Session{}, false, true)
	s.log.Info(ctx, "session cleared")
	return nil
}

// Expire clears the session after the server rejected its token, provided
// it is still the session that was active at generation gen. A newer session
// is left alone and ErrStaleGeneration is returned.
func (s *Store) Expire(ctx context.Context, gen uint64) error {
	s.wmu.Lock()
	defer s.wmu.Unlock()

	s.mu.RLock()
	ok, curGen := s.ok, s.gen
	s.mu.RUnlock()

	if !ok {
		return nil
	}
	if curGen != gen {
		return ErrStaleGeneration
	}
	if err := s.repo.Apply(ctx, nil, sessionKeys); err != nil {
		return fmt.Errorf("expire session: %w", err)
	}
	s.publish(Session{}, false, true)
	s.log.Info(ctx, "session expired by server")
	return nil
}

// UpdateUser replaces the cached profile if the session is still the one
// that was active at generation gen.
func (s *Store) UpdateUser(ctx context.Context, gen uint64, user models.UserProfile) error {
	s.wmu.Lock()
	defer s.wmu.Unlock()

	s.mu.RLock()
	cur, ok, curGen := s.cur, s.ok, s.gen
	s.mu.RUnlock()

	if !ok {
		return ErrNoSession
	}
	if curGen != gen {
		return ErrStaleGeneration
	}
	if user.ID == "" {
		user.ID = cur.UserID
	}
	if user.ID != cur.UserID {
		return fmt.Errorf("%w: profile belongs to %q", ErrStaleGeneration, user.ID)
	}

	info, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user info: %w", err)
	}
	if err := s.repo.Set(ctx, common.KeyUserInfo, info); err != nil {
		return fmt.Errorf("update user info: %w", err)
	}

	cur.User = user
	s.publish(cur, true, false)
	return nil
}

// Restore loads the persisted session at startup. A token stored alone is
// the pending token of an unfinished registration and is kept as such. Other
// state that violates the session invariants is wiped instead of being
// half-loaded: a user id without a token, a token next to a profile but no
// user id, an unreadable or mismatching profile, or a JWT whose expiry has
// passed.
func (s *Store) Restore(ctx context.Context) (Session, bool, error) {
	s.wmu.Lock()
	defer s.wmu.Unlock()

	vals := make(map[string][]byte, len(sessionKeys))
	for _, k := range sessionKeys {
		v, err := s.repo.Get(ctx, k)
		if err != nil {
			return Session{}, false, fmt.Errorf("restore session: %w", err)
		}
		vals[k] = v
	}

	token := string(vals[common.KeyToken])
	userID := string(vals[common.KeyUserID])
	rawInfo := vals[common.KeyUserInfo]

	if token == "" && userID == "" {
		if len(rawInfo) > 0 {
			return Session{}, false, s.discard(ctx, "user info without session")
		}
		return Session{}, false, nil
	}
	if token != "" && userID == "" && len(rawInfo) == 0 {
		if claims, ok := ParseClaims(token); ok && claims.Expired(s.now()) {
			return Session{}, false, s.discard(ctx, "pending token expired")
		}
		s.mu.Lock()
		s.pending = token
		s.mu.Unlock()
		s.log.Debug(ctx, "pending registration token restored")
		return Session{}, false, nil
	}
	if token == "" || userID == "" {
		return Session{}, false, s.discard(ctx, "token and user id out of step")
	}

	user := models.UserProfile{ID: userID}
	if len(rawInfo) > 0 {
		if err := json.Unmarshal(rawInfo, &user); err != nil {
			return Session{}, false, s.discard(ctx, "unreadable user info")
		}
		if user.ID == "" {
			user.ID = userID
		}
		if user.ID != userID {
			return Session{}, false, s.discard(ctx, "user info belongs to another user")
		}
	}

	if claims, ok := ParseClaims(token); ok {
		if claims.Expired(s.now()) {
			return Session{}, false, s.discard(ctx, "token expired")
		}
		if claims.Subject != "" && claims.Subject != userID {
			return Session{}, false, s.discard(ctx, "token subject does not match user id")
		}
	}

	sess := Session{Token: token, UserID: userID, User: user}
	s.publish(sess, true, true)
	s.log.Debug(ctx, "session restored", "user_id", userID)
	return sess, true, nil
}

func (s *Store) discard(ctx context.Context, reason string) error {
	s.log.Warn(ctx, "discarding stored session", "reason", reason)
	if err := s.repo.Apply(ctx, nil, sessionKeys); err != nil {
		return fmt.Errorf("discard session: %w", err)
	}
	s.publish(Session{}, false, true)
	return nil
}

// publish swaps the snapshot and notifies listeners. Callers hold wmu.
func (s *Store) publish(next Session, ok, bump bool) {
	s.mu.Lock()
	s.cur, s.ok = next, ok
	s.pending = ""
	if bump {
		s.gen++
	}
	s.mu.Unlock()

	for _, fn := range s.listeners {
		fn(next, ok)
	}
}

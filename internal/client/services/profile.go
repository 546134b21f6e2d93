package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/dmitrijs2005/memorymap/internal/client/api"
	"github.com/dmitrijs2005/memorymap/internal/client/models"
	"github.com/dmitrijs2005/memorymap/internal/client/session"
	"github.com/dmitrijs2005/memorymap/internal/logging"
	"github.com/dmitrijs2005/memorymap/internal/netx"
)

type ProfileState int

const (
	StateIdle ProfileState = iota
	StateLoading
	StateReady
	StateError
	StateEditRequested
	StateSaving
)

func (s ProfileState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateError:
		return "error"
	case StateEditRequested:
		return "editing"
	case StateSaving:
		return "saving"
	}
	return "unknown"
}

// ProfileSnapshot is everything a view needs to draw the profile screen.
type ProfileSnapshot struct {
	State   ProfileState
	User    models.UserProfile
	HasUser bool
	// Err is the message of the last failed load or save.
	Err string
	// UploadErr is set when the last save went through without its avatar.
	UploadErr string
}

type AvatarUpload struct {
	Filename string
	Data     []byte
}

// ProfileDraft holds the edits of one edit session.
type ProfileDraft struct {
	Username string
	Email    string
	Avatar   *AvatarUpload
}

// Preview is the profile as it would look after saving, with a selected
// avatar shown as an inline data URI.
func (d ProfileDraft) Preview(base models.UserProfile) models.UserProfile {
	p := base
	p.Username = d.Username
	p.Email = d.Email
	if d.Avatar != nil {
		p.ProfilePicture = netx.DataURI(d.Avatar.Data)
	}
	return p
}

func (d ProfileDraft) validate() error {
	switch {
	case strings.TrimSpace(d.Username) == "":
		return &ValidationError{Field: "username", Err: ErrFieldsRequired}
	case strings.TrimSpace(d.Email) == "":
		return &ValidationError{Field: "email", Err: ErrFieldsRequired}
	case !emailPattern.MatchString(d.Email):
		return &ValidationError{Field: "email", Err: ErrInvalidEmail}
	}
	return nil
}

// ProfileService synchronizes the current user's profile with the server.
//
//	Idle -> Loading -> Ready | Error
//	Ready -> EditRequested -> Saving -> Ready | Error
//
// Server data always wins over the cached copy. One instance runs at most
// one save at a time.
type ProfileService struct {
	client   api.Client
	sessions SessionStore
	log      logging.Logger

	mu        sync.Mutex
	state     ProfileState
	user      models.UserProfile
	hasUser   bool
	errMsg    string
	uploadErr string
}

func NewProfileService(client api.Client, sessions SessionStore, log logging.Logger) *ProfileService {
	if log == nil {
		log = logging.Nop()
	}
	return &ProfileService{client: client, sessions: sessions, log: log}
}

func (p *ProfileService) State() ProfileState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *ProfileService) Snapshot() ProfileSnapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return ProfileSnapshot{
		State:     p.state,
		User:      p.user,
		HasUser:   p.hasUser,
		Err:       p.errMsg,
		UploadErr: p.uploadErr,
	}
}

func (p *ProfileService) reset() {
	p.state = StateIdle
	p.user = models.UserProfile{}
	p.hasUser = false
	p.errMsg = ""
	p.uploadErr = ""
}

// Load shows the cached profile at once and then replaces it with the
// server's copy.
func (p *ProfileService) Load(ctx context.Context) error {
	p.mu.Lock()
	if p.state == StateSaving {
		p.mu.Unlock()
		return ErrSaveInProgress
	}
	gen := p.sessions.Generation()
	sess, ok := p.sessions.Current()
	if !ok {
		p.reset()
		p.mu.Unlock()
		return ErrLoginRequired
	}

	p.state = StateLoading
	p.errMsg = ""
	if sess.User.ID != "" {
		p.user, p.hasUser = sess.User, true
	}
	p.mu.Unlock()

	u, err := p.client.GetMe(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()

	if err != nil {
		err = expireOn401(ctx, p.sessions, gen, err)
		switch {
		case errors.Is(err, ErrSessionChanged):
			p.reset()
			return err
		case errors.Is(err, ErrLoginRequired):
			p.reset()
			p.state = StateError
			p.errMsg = ErrorMessage(err)
			return err
		}
		p.state = StateError
		p.errMsg = ErrorMessage(err)
		p.log.Warn(ctx, "profile load failed", "error", err)
		return err
	}

	if err := p.sessions.UpdateUser(ctx, gen, u); err != nil {
		if errors.Is(err, session.ErrStaleGeneration) || errors.Is(err, session.ErrNoSession) {
			p.reset()
			return ErrSessionChanged
		}
		// the in-memory copy is still the server's; only the cache is behind
		p.log.Warn(ctx, "caching profile failed", "error", err)
	}

	p.user, p.hasUser = u, true
	p.state = StateReady
	return nil
}

// BeginEdit returns a draft prefilled from the loaded profile.
func (p *ProfileService) BeginEdit() (ProfileDraft, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch p.state {
	case StateReady:
	case StateSaving:
		return ProfileDraft{}, ErrSaveInProgress
	default:
		return ProfileDraft{}, ErrNotReady
	}
	p.state = StateEditRequested
	p.uploadErr = ""
	return ProfileDraft{Username: p.user.Username, Email: p.user.Email}, nil
}

func (p *ProfileService) CancelEdit() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != StateEditRequested {
		return ErrNotEditing
	}
	p.state = StateReady
	return nil
}

// Save uploads the selected avatar, if any, then submits the profile
// fields. A failed upload does not stop the save: the previous avatar is
// kept and the failure is reported through Snapshot().UploadErr. A failed
// update leaves the confirmed profile and the cache as they were.
func (p *ProfileService) Save(ctx context.Context, draft ProfileDraft) error {
	p.mu.Lock()
	switch p.state {
	case StateEditRequested:
	case StateSaving:
		p.mu.Unlock()
		return ErrSaveInProgress
	default:
		p.mu.Unlock()
		return ErrNotEditing
	}
	if err := draft.validate(); err != nil {
		p.mu.Unlock()
		return err
	}
	gen := p.sessions.Generation()
	sess, ok := p.sessions.Current()
	if !ok {
		p.reset()
		p.mu.Unlock()
		return ErrLoginRequired
	}
	prev := p.user
	p.state = StateSaving
	p.errMsg = ""
	p.uploadErr = ""
	p.mu.Unlock()

	// never leave the instance stuck in Saving
	defer func() {
		p.mu.Lock()
		if p.state == StateSaving {
			p.state = StateError
		}
		p.mu.Unlock()
	}()

	var picture *string
	if prev.ProfilePicture != "" && !prev.HasInlineAvatar() {
		pic := prev.ProfilePicture
		picture = &pic
	}

	uploadErr := ""
	if draft.Avatar != nil {
		url, err := p.client.UploadProfilePicture(ctx, sess.UserID, draft.Avatar.Filename, draft.Avatar.Data)
		if err != nil {
			uploadErr = ErrorMessage(err)
			p.log.Warn(ctx, "avatar upload failed, keeping previous picture", "error", err)
		} else {
			picture = &url
		}
	}

	u, err := p.client.UpdateUser(ctx, sess.UserID, models.ProfileUpdate{
		Username:       strings.TrimSpace(draft.Username),
		Email:          strings.TrimSpace(draft.Email),
		ProfilePicture: picture,
	})
	if err != nil {
		err = expireOn401(ctx, p.sessions, gen, err)
		p.mu.Lock()
		if errors.Is(err, ErrSessionChanged) {
			p.reset()
			p.mu.Unlock()
			return err
		}
		if errors.Is(err, ErrLoginRequired) {
			p.reset()
		}
		p.state = StateError
		p.errMsg = ErrorMessage(err)
		p.uploadErr = uploadErr
		p.mu.Unlock()
		return err
	}

	if err := p.sessions.UpdateUser(ctx, gen, u); err != nil {
		if errors.Is(err, session.ErrStaleGeneration) || errors.Is(err, session.ErrNoSession) {
			p.mu.Lock()
			p.reset()
			p.mu.Unlock()
			return ErrSessionChanged
		}
		p.log.Warn(ctx, "caching profile failed", "error", err)
	}

	p.mu.Lock()
	p.user, p.hasUser = u, true
	p.uploadErr = uploadErr
	p.state = StateReady
	p.mu.Unlock()
	return nil
}

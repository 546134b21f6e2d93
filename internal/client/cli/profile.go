package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/dmitrijs2005/memorymap/internal/client/models"
	"github.com/dmitrijs2005/memorymap/internal/client/services"
	"github.com/dmitrijs2005/memorymap/internal/filex"
)

// MaxAvatarBytes caps the avatar file read from disk.
const MaxAvatarBytes = 5 << 20

// readAvatar is a test seam for loading the avatar file.
var readAvatar = func(path string) ([]byte, error) {
	return filex.ReadLimited(path, MaxAvatarBytes)
}

func (a *App) printProfile(u models.UserProfile) {
	fmt.Fprintf(a.out, "Username: %s\n", u.Username)
	fmt.Fprintf(a.out, "Email:    %s\n", u.Email)
	switch {
	case u.ProfilePicture == "":
		fmt.Fprintln(a.out, "Avatar:   (none)")
	case u.HasInlineAvatar():
		fmt.Fprintln(a.out, "Avatar:   (selected file, not uploaded)")
	default:
		fmt.Fprintf(a.out, "Avatar:   %s\n", u.ProfilePicture)
	}
	if u.CreatedAt != "" {
		fmt.Fprintf(a.out, "Joined:   %s\n", u.CreatedAt)
	}
}

// sessionFailure prints a login prompt for ErrLoginRequired and the plain
// message otherwise.
func (a *App) sessionFailure(err error) error {
	if errors.Is(err, services.ErrLoginRequired) {
		fmt.Fprintln(a.out, "Your session has ended. Please log in again.")
		return err
	}
	if errors.Is(err, services.ErrSessionChanged) {
		return err
	}
	return a.fail(err)
}

// Profile fetches and shows the current user's profile.
func (a *App) Profile(ctx context.Context) error {
	err := a.profile.Load(ctx)
	snap := a.profile.Snapshot()
	if err != nil {
		if snap.HasUser {
			fmt.Fprintln(a.out, "Showing cached profile:")
			a.printProfile(snap.User)
		}
		return a.sessionFailure(err)
	}
	a.printProfile(snap.User)
	return nil
}

// Edit walks through the profile fields. Empty answers keep the current
// value; an empty avatar path keeps the current picture.
func (a *App) Edit(ctx context.Context) error {
	if a.profile.State() != services.StateReady {
		if err := a.profile.Load(ctx); err != nil {
			return a.sessionFailure(err)
		}
	}

	draft, err := a.profile.BeginEdit()
	if err != nil {
		return a.fail(err)
	}
	base := a.profile.Snapshot().User

	if err := a.fillDraft(&draft); err != nil {
		_ = a.profile.CancelEdit()
		return err
	}

	fmt.Fprintln(a.out, "Saving:")
	a.printProfile(draft.Preview(base))

	if err := a.profile.Save(ctx, draft); err != nil {
		var vErr *services.ValidationError
		if errors.As(err, &vErr) {
			_ = a.profile.CancelEdit()
		}
		return a.sessionFailure(err)
	}

	snap := a.profile.Snapshot()
	if snap.UploadErr != "" {
		fmt.Fprintln(a.out, "Avatar upload failed, previous picture kept:", snap.UploadErr)
	}
	fmt.Fprintln(a.out, "Profile updated.")
	a.printProfile(snap.User)
	return nil
}

func (a *App) fillDraft(d *services.ProfileDraft) error {
	username, err := getSimpleText(a.reader, fmt.Sprintf("Username [%s]", d.Username), a.out)
	if err != nil {
		return err
	}
	if username != "" {
		d.Username = username
	}

	email, err := getSimpleText(a.reader, fmt.Sprintf("Email [%s]", d.Email), a.out)
	if err != nil {
		return err
	}
	if email != "" {
		d.Email = email
	}

	path, err := getSimpleText(a.reader, "Avatar image path (empty to keep)", a.out)
	if err != nil {
		return err
	}
	if path != "" {
		data, err := readAvatar(path)
		if err != nil {
			return a.fail(err)
		}
		d.Avatar = &services.AvatarUpload{Filename: filepath.Base(path), Data: data}
	}
	return nil
}

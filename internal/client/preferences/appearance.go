package preferences

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/dmitrijs2005/memorymap/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/memorymap/internal/common"
)

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

const DefaultLanguage = "vi"

var (
	ErrInvalidTheme    = errors.New("theme must be light or dark")
	ErrInvalidLanguage = errors.New("language must be en or vi")
)

// Appearance reads and writes the global theme and language keys, shared by
// every user of this client.
type Appearance struct {
	repo metadata.Repository
}

func NewAppearance(repo metadata.Repository) *Appearance {
	return &Appearance{repo: repo}
}

func (a *Appearance) Theme(ctx context.Context) (Theme, error) {
	raw, err := a.repo.Get(ctx, common.KeyTheme)
	if err != nil {
		return ThemeLight, fmt.Errorf("load theme: %w", err)
	}
	switch t := Theme(raw); t {
	case ThemeLight, ThemeDark:
		return t, nil
	}
	return ThemeLight, nil
}

func (a *Appearance) SetTheme(ctx context.Context, t Theme) error {
	if t != ThemeLight && t != ThemeDark {
		return ErrInvalidTheme
	}
	if err := a.repo.Set(ctx, common.KeyTheme, []byte(t)); err != nil {
		return fmt.Errorf("save theme: %w", err)
	}
	return nil
}

// ToggleTheme flips between light and dark and returns the new theme.
func (a *Appearance) ToggleTheme(ctx context.Context) (Theme, error) {
	cur, err := a.Theme(ctx)
	if err != nil {
		return cur, err
	}
	next := ThemeDark
	if cur == ThemeDark {
		next = ThemeLight
	}
	return next, a.SetTheme(ctx, next)
}

func (a *Appearance) Language(ctx context.Context) (string, error) {
	raw, err := a.repo.Get(ctx, common.KeyLanguage)
	if err != nil {
		return DefaultLanguage, fmt.Errorf("load language: %w", err)
	}
	if l := string(raw); slices.Contains(Languages, l) {
		return l, nil
	}
	return DefaultLanguage, nil
}

func (a *Appearance) SetLanguage(ctx context.Context, lang string) error {
	if !slices.Contains(Languages, lang) {
		return ErrInvalidLanguage
	}
	if err := a.repo.Set(ctx, common.KeyLanguage, []byte(lang)); err != nil {
		return fmt.Errorf("save language: %w", err)
	}
	return nil
}

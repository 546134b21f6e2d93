package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/memorymap/internal/client/preferences"
)

var errUsage = errors.New("usage")

func (a *App) printPrefs(owner string, p preferences.PreferenceSet) {
	fmt.Fprintf(a.out, "Preferences for %s:\n", owner)
	rows := []struct {
		name string
		val  any
	}{
		{"font", p.Font},
		{"accentColor", p.AccentColor},
		{"mapStyle", p.MapStyle},
		{"showMarkers", p.ShowMarkers},
		{"showPlaceNames", p.ShowPlaceNames},
		{"showEmotions", p.ShowEmotions},
		{"markerSize", p.MarkerSize},
		{"language", p.Language},
	}
	for _, r := range rows {
		fmt.Fprintf(a.out, "  %-15s %v\n", r.name, r.val)
	}
}

func (a *App) Prefs(ctx context.Context) error {
	owner, p := a.prefs.Current()
	a.printPrefs(owner, p)
	return nil
}

// Set changes one preference and saves it right away.
func (a *App) Set(ctx context.Context, args []string) error {
	if len(args) < 2 {
		fmt.Fprintf(a.out, "Usage: set <field> <value>\nFields: %s\n", strings.Join(preferences.Fields(), ", "))
		return errUsage
	}
	field, value := args[0], strings.Join(args[1:], " ")

	p, err := a.prefs.Set(ctx, field, value)
	if err != nil {
		return a.fail(err)
	}
	if field == "language" {
		if err := a.prefs.Apply(ctx, a.appearance); err != nil {
			return a.fail(err)
		}
	}
	owner, _ := a.prefs.Current()
	a.printPrefs(owner, p)
	return nil
}

// Reset restores the default preferences of the current owner.
func (a *App) Reset(ctx context.Context) error {
	p, err := a.prefs.Reset(ctx)
	if err != nil {
		return a.fail(err)
	}
	owner, _ := a.prefs.Current()
	fmt.Fprintln(a.out, "Preferences reset to defaults.")
	a.printPrefs(owner, p)
	return nil
}

// Theme shows the theme, sets it, or toggles it with "toggle".
func (a *App) Theme(ctx context.Context, args []string) error {
	if len(args) == 0 {
		t, err := a.appearance.Theme(ctx)
		if err != nil {
			return a.fail(err)
		}
		fmt.Fprintln(a.out, "Theme:", t)
		return nil
	}

	if args[0] == "toggle" {
		t, err := a.appearance.ToggleTheme(ctx)
		if err != nil {
			return a.fail(err)
		}
		fmt.Fprintln(a.out, "Theme:", t)
		return nil
	}

	if err := a.appearance.SetTheme(ctx, preferences.Theme(args[0])); err != nil {
		return a.fail(err)
	}
	fmt.Fprintln(a.out, "Theme:", args[0])
	return nil
}

// Language shows or sets the interface language. Setting it also updates
// the language field of the current preference set.
func (a *App) Language(ctx context.Context, args []string) error {
	if len(args) == 0 {
		lang, err := a.appearance.Language(ctx)
		if err != nil {
			return a.fail(err)
		}
		fmt.Fprintln(a.out, "Language:", lang)
		return nil
	}

	if err := a.appearance.SetLanguage(ctx, args[0]); err != nil {
		return a.fail(err)
	}
	if _, err := a.prefs.Set(ctx, "language", args[0]); err != nil {
		return a.fail(err)
	}
	fmt.Fprintln(a.out, "Language:", args[0])
	return nil
}

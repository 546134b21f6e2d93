package cli

import (
	"context"
	"fmt"
	"strings"
)

// Forget wipes every key this device has stored, the session included, and
// reports how many were removed. It asks for confirmation first.
func (a *App) Forget(ctx context.Context) error {
	keys, err := a.repo.List(ctx)
	if err != nil {
		return a.fail(err)
	}

	reply, err := getSimpleText(a.reader, fmt.Sprintf("Remove %d stored item(s) from this device? Type 'yes' to confirm", len(keys)), a.out)
	if err != nil {
		return err
	}
	if !strings.EqualFold(strings.TrimSpace(reply), "yes") {
		fmt.Fprintln(a.out, "Nothing removed.")
		return nil
	}

	if err := a.sessions.Clear(ctx); err != nil {
		return a.fail(err)
	}
	if err := a.repo.Clear(ctx); err != nil {
		return a.fail(err)
	}
	if _, err := a.prefs.Reload(ctx); err != nil {
		return a.fail(err)
	}

	a.log.Info(ctx, "local data forgotten", "keys", len(keys))
	fmt.Fprintf(a.out, "Removed %d stored item(s) from this device.\n", len(keys))
	return nil
}

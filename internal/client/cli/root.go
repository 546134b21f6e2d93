package cli

import (
	"context"
	"fmt"
)

func (a *App) getStatus() string {
	s := ""
	if sess, ok := a.sessions.Current(); ok {
		name := sess.User.Username
		if name == "" {
			name = sess.UserID
		}
		s = name + " "
	}
	if m := a.Mode(); m != "" {
		s = s + string(m)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// Root runs the REPL on stdin until the user exits or ctx is cancelled. A
// registration left pending by an earlier run is completed first.
func (a *App) Root(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	fmt.Fprintln(a.out, "Welcome to MemoryMap CLI (type 'help' for commands)")

	if a.sessions.PendingToken() != "" {
		_ = a.resumePending(ctx)
	}

	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	runREPL(ctx, a, a.getStatus, a.reader)
}

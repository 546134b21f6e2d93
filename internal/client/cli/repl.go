package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Resume(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Profile(ctx context.Context) error
	Edit(ctx context.Context) error
	Prefs(ctx context.Context) error
	Set(ctx context.Context, args []string) error
	Reset(ctx context.Context) error
	Theme(ctx context.Context, args []string) error
	Language(ctx context.Context, args []string) error
	Entries(ctx context.Context) error
	AddEntry(ctx context.Context) error
	Forget(ctx context.Context) error
}

const (
	helpGuest  = "Available commands: register, resume, login, prefs, set, reset, theme, language, forget, exit"
	helpMember = "Available commands: profile, edit, entries, addentry, prefs, set, reset, theme, language, logout, forget, exit"
)

// runREPL starts a simple read–eval–print loop for the MemoryMap CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. Command prompts read from the same reader, so
// nothing is buffered ahead of them. The loop exits on EOF or when the user
// types "exit" or "quit".
//
// Preference and appearance commands work with or without a session; the
// profile and entry commands need one and say so otherwise.
//
// Errors returned by command handlers are ignored here; handlers print their
// own messages.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("mm %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			if err != nil {
				return
			}
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpMember)
			} else {
				printlnFn(helpGuest)
			}

		case "register":
			_ = a.Register(ctx)

		case "resume":
			_ = a.Resume(ctx)

		case "login":
			_ = a.Login(ctx)

		case "prefs":
			_ = a.Prefs(ctx)

		case "set":
			_ = a.Set(ctx, args)

		case "reset":
			_ = a.Reset(ctx)

		case "theme":
			_ = a.Theme(ctx, args)

		case "language":
			_ = a.Language(ctx, args)

		case "profile", "edit", "entries", "addentry", "logout":
			if !a.isLoggedIn() {
				printlnFn("Please log in first.")
				continue
			}
			switch cmd {
			case "profile":
				_ = a.Profile(ctx)
			case "edit":
				_ = a.Edit(ctx)
			case "entries":
				_ = a.Entries(ctx)
			case "addentry":
				_ = a.AddEntry(ctx)
			case "logout":
				_ = a.Logout(ctx)
			}

		case "forget":
			_ = a.Forget(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

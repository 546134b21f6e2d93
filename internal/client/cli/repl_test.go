package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	loggedIn bool

	calls []string
	args  [][]string
}

func (f *fakeExec) record(name string, args []string) error {
	f.calls = append(f.calls, name)
	f.args = append(f.args, args)
	return nil
}

func (f *fakeExec) isLoggedIn() bool               { return f.loggedIn }
func (f *fakeExec) Register(context.Context) error { return f.record("register", nil) }
func (f *fakeExec) Resume(context.Context) error   { return f.record("resume", nil) }
func (f *fakeExec) Forget(context.Context) error   { return f.record("forget", nil) }
func (f *fakeExec) Login(context.Context) error    { f.loggedIn = true; return f.record("login", nil) }
func (f *fakeExec) Logout(context.Context) error   { f.loggedIn = false; return f.record("logout", nil) }
func (f *fakeExec) Profile(context.Context) error  { return f.record("profile", nil) }
func (f *fakeExec) Edit(context.Context) error     { return f.record("edit", nil) }
func (f *fakeExec) Prefs(context.Context) error    { return f.record("prefs", nil) }
func (f *fakeExec) Reset(context.Context) error    { return f.record("reset", nil) }
func (f *fakeExec) Entries(context.Context) error  { return f.record("entries", nil) }
func (f *fakeExec) AddEntry(context.Context) error { return f.record("addentry", nil) }
func (f *fakeExec) Set(_ context.Context, a []string) error {
	return f.record("set", a)
}
func (f *fakeExec) Theme(_ context.Context, a []string) error {
	return f.record("theme", a)
}
func (f *fakeExec) Language(_ context.Context, a []string) error {
	return f.record("language", a)
}

func capturePrintln(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, strings.TrimSpace(fmt.Sprintln(a...)))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func TestRunREPL_LoginFlowAndCommands(t *testing.T) {
	capturePrintln(t)

	input := strings.NewReader(strings.Join([]string{
		"help",
		"login",
		"help",
		"profile",
		"edit",
		"entries",
		"addentry",
		"set markerSize 30",
		"theme dark",
		"language en",
		"prefs",
		"reset",
		"foobar",
		"logout",
		"exit",
		"login",
	}, "\n"))

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "status" }, bufio.NewReader(input))

	assert.Equal(t, []string{
		"login", "profile", "edit", "entries", "addentry",
		"set", "theme", "language", "prefs", "reset", "logout",
	}, exec.calls)
	assert.Equal(t, []string{"markerSize", "30"}, exec.args[5])
	assert.Equal(t, []string{"dark"}, exec.args[6])
	assert.Equal(t, []string{"en"}, exec.args[7])
}

func TestRunREPL_SessionCommandsNeedLogin(t *testing.T) {
	lines := capturePrintln(t)

	input := strings.NewReader("profile\nentries\nlogout\nprefs\nquit\n")
	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "s" }, bufio.NewReader(input))

	assert.Equal(t, []string{"prefs"}, exec.calls)
	assert.Contains(t, *lines, "Please log in first.")
	assert.Contains(t, *lines, "Bye!")
}

func TestRunREPL_HelpDependsOnSession(t *testing.T) {
	lines := capturePrintln(t)

	runREPL(context.Background(), &fakeExec{}, func() string { return "" },
		bufio.NewReader(strings.NewReader("help\n")))
	assert.Contains(t, *lines, helpGuest)

	*lines = nil
	runREPL(context.Background(), &fakeExec{loggedIn: true}, func() string { return "" },
		bufio.NewReader(strings.NewReader("help\n")))
	assert.Contains(t, *lines, helpMember)
}

func TestRunREPL_EOFStops(t *testing.T) {
	capturePrintln(t)
	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewReader(strings.NewReader("")))
	assert.Empty(t, exec.calls)
}

func TestRunREPL_GuestCommands(t *testing.T) {
	capturePrintln(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" },
		bufio.NewReader(strings.NewReader("register\nresume\nforget\nexit\n")))
	assert.Equal(t, []string{"register", "resume", "forget"}, exec.calls)
}

// promptingExec reads a follow-up answer from the same reader the REPL uses.
type promptingExec struct {
	fakeExec
	reader  *bufio.Reader
	answers []string
}

func (p *promptingExec) Login(ctx context.Context) error {
	line, err := GetSimpleText(p.reader, "Enter email", io.Discard)
	if err != nil {
		return err
	}
	p.answers = append(p.answers, line)
	return p.fakeExec.Login(ctx)
}

func TestRunREPL_PromptsShareTheReader(t *testing.T) {
	capturePrintln(t)

	reader := bufio.NewReader(strings.NewReader("login\nlan@example.com\nprofile\nexit\n"))
	exec := &promptingExec{reader: reader}
	runREPL(context.Background(), exec, func() string { return "" }, reader)

	assert.Equal(t, []string{"lan@example.com"}, exec.answers)
	assert.Equal(t, []string{"login", "profile"}, exec.calls)
}

func TestRunREPL_LastLineWithoutNewline(t *testing.T) {
	capturePrintln(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" },
		bufio.NewReader(strings.NewReader("prefs\nreset")))
	assert.Equal(t, []string{"prefs", "reset"}, exec.calls)
}

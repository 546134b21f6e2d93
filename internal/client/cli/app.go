package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/memorymap/internal/client/api"
	"github.com/dmitrijs2005/memorymap/internal/client/config"
	"github.com/dmitrijs2005/memorymap/internal/client/localdb"
	"github.com/dmitrijs2005/memorymap/internal/client/preferences"
	"github.com/dmitrijs2005/memorymap/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/memorymap/internal/client/services"
	"github.com/dmitrijs2005/memorymap/internal/client/session"
	"github.com/dmitrijs2005/memorymap/internal/filex"
	"github.com/dmitrijs2005/memorymap/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

const redisNamespace = "memorymap"

type App struct {
	config     *config.Config
	log        logging.Logger
	repo       metadata.Repository
	sessions   *session.Store
	auth       services.AuthService
	profile    *services.ProfileService
	entries    services.EntriesService
	prefs      *preferences.Manager
	appearance *preferences.Appearance
	reader     *bufio.Reader
	out        io.Writer

	closers     []func() error
	unsubscribe func()

	modeMu sync.Mutex
	mode   Mode
}

// NewApp opens local storage, restores the persisted session and builds the
// services on top of it.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	repo, closer, err := openStorage(ctx, c)
	if err != nil {
		return nil, err
	}

	sessions := session.NewStore(repo, log)
	sess, ok, err := sessions.Restore(ctx)
	if err != nil {
		_ = closer()
		return nil, err
	}
	if ok {
		log.Info(ctx, "session restored", "user_id", sess.UserID)
	}

	client, err := api.NewHTTPClient(c.APIBaseURL,
		api.WithTokenSource(sessions),
		api.WithTimeout(c.RequestTimeout),
		api.WithLogger(log),
	)
	if err != nil {
		_ = closer()
		return nil, err
	}

	a, err := newApp(ctx, c, log, repo, sessions, client)
	if err != nil {
		_ = closer()
		return nil, err
	}
	a.closers = append(a.closers, closer)
	return a, nil
}

func newApp(ctx context.Context, c *config.Config, log logging.Logger, repo metadata.Repository, sessions *session.Store, client api.Client) (*App, error) {
	sess, ok := sessions.Current()
	prefs, err := preferences.NewManager(ctx, preferences.NewStore(repo, log), sess, ok)
	if err != nil {
		return nil, fmt.Errorf("load preferences: %w", err)
	}

	a := &App{
		config:     c,
		log:        log,
		repo:       repo,
		sessions:   sessions,
		auth:       services.NewAuthService(client, sessions, log),
		profile:    services.NewProfileService(client, sessions, log),
		entries:    services.NewEntriesService(client, sessions),
		prefs:      prefs,
		appearance: preferences.NewAppearance(repo),
		reader:     bufio.NewReader(os.Stdin),
		out:        os.Stdout,
	}
	a.unsubscribe = sessions.Subscribe(prefs.Listener())
	return a, nil
}

func openStorage(ctx context.Context, c *config.Config) (metadata.Repository, func() error, error) {
	switch c.StorageDriver {
	case config.DriverRedis:
		rdb, err := metadata.ConnectRedis(ctx, c.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect redis: %w", err)
		}
		return metadata.NewRedisRepository(rdb, redisNamespace), rdb.Close, nil
	default:
		if err := filex.EnsureParentDir(c.DatabasePath); err != nil {
			return nil, nil, err
		}
		db, err := localdb.InitDatabase(ctx, c.DatabasePath)
		if err != nil {
			return nil, nil, fmt.Errorf("error initializing database: %w", err)
		}
		return metadata.NewSQLiteRepository(db), db.Close, nil
	}
}

// Close detaches the preference listener and releases local storage.
func (a *App) Close() error {
	if a.unsubscribe != nil {
		a.unsubscribe()
	}
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}

func (a *App) Mode() Mode {
	a.modeMu.Lock()
	defer a.modeMu.Unlock()
	return a.mode
}

func (a *App) setMode(mode Mode) {
	a.modeMu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.modeMu.Unlock()

	if changed {
		a.log.Info(context.Background(), "connectivity changed", "mode", string(mode))
	}
}

func (a *App) Run(ctx context.Context) {
	defer func() {
		if err := a.Close(); err != nil {
			a.log.Error(ctx, "close failed", "error", err)
		}
	}()
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.sessions.IsAuthenticated()
}

// reachable reports whether err still proves the server answered. Any HTTP
// status, including 401 for an anonymous ping, counts as online.
func reachable(err error) bool {
	if err == nil {
		return true
	}
	var apiErr *api.APIError
	return errors.As(err, &apiErr)
}

func (a *App) checkOnline(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if reachable(a.auth.Ping(ctx)) {
		a.setMode(ModeOnline)
	} else {
		a.setMode(ModeOffline)
	}
}

// StartOnlineStatusWatcher pings the API every interval until ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	a.checkOnline(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

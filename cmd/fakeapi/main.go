// Command fakeapi serves the in-memory travel-journal API for local runs of
// the CLI.
//
//	fakeapi -a :3000 -seed lan:lan@example.com:secret1
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/dmitrijs2005/memorymap/internal/fakeapi"
	"github.com/dmitrijs2005/memorymap/internal/logging"
)

type seeds []string

func (s *seeds) String() string     { return strings.Join(*s, ",") }
func (s *seeds) Set(v string) error { *s = append(*s, v); return nil }

func main() {
	addr := flag.String("a", ":3000", "listen address")
	secret := flag.String("secret", "dev-secret", "JWT signing secret")
	format := flag.String("log", string(logging.FormatConsole), "log format: text, json or console")
	var users seeds
	flag.Var(&users, "seed", "user to create as username:email:password (repeatable)")
	flag.Parse()

	logger := logging.New(logging.Format(*format), true, os.Stderr)
	srv := fakeapi.New(fakeapi.WithSecret([]byte(*secret)), fakeapi.WithLogger(logger))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	for _, s := range users {
		parts := strings.SplitN(s, ":", 3)
		if len(parts) != 3 {
			log.Fatalf("invalid -seed %q: want username:email:password", s)
		}
		id, err := srv.AddUser(parts[0], parts[1], parts[2])
		if err != nil {
			log.Fatalf("seed %s: %v", parts[1], err)
		}
		logger.Info(ctx, "seeded user", "email", parts[1], "user_id", id)
	}

	httpSrv := &http.Server{
		Addr:              *addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			logger.Error(shutdownCtx, "shutdown failed", "error", err)
		}
	}()

	logger.Info(ctx, "fake api listening", "addr", *addr)
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

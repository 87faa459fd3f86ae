package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/arvellum/go-session-auth/internal/config"
	"github.com/arvellum/go-session-auth/internal/random"
	"github.com/arvellum/go-session-auth/internal/storage/postgres"
	"github.com/arvellum/go-session-auth/oauth"
	"github.com/arvellum/go-session-auth/server"
	"github.com/arvellum/go-session-auth/sessions"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
	log.Info().Msg("server stopped")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("recovered from panic")
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	// Absence of a .env file is fine; real deployments set the
	// environment directly.
	_ = godotenv.Load()

	cfg, err := config.New()
	if err != nil {
		return errors.Wrap(err, "load config")
	}

	logger := newLogger(cfg.GetEnv())
	displayAppname(cfg.GetAppName())

	db, err := postgres.Open(cfg.GetDatabaseURL())
	if err != nil {
		return errors.Wrap(err, "open database")
	}
	defer db.Close()

	ctx := context.Background()
	if err := postgres.Migrate(ctx, db); err != nil {
		return errors.Wrap(err, "migrate database")
	}

	sessionStore, err := postgres.NewSessionStore(db)
	if err != nil {
		return errors.Wrap(err, "session store")
	}
	accountStore, err := postgres.NewAccountStore(db)
	if err != nil {
		return errors.Wrap(err, "account store")
	}

	randomSource := random.NewSecure()

	manager, err := sessions.NewManager(sessionStore, randomSource,
		sessions.WithTTL(cfg.GetSessionTTL()),
		sessions.WithLogger(logger),
	)
	if err != nil {
		return errors.Wrap(err, "session manager")
	}

	providerHTTPClient := &http.Client{Timeout: cfg.GetProviderTimeout()}
	clients := map[oauth.Provider]oauth.Client{
		oauth.ProviderGoogle: oauth.NewGoogle(
			cfg.GetGoogleClientID(), cfg.GetGoogleClientSecret(), cfg.GetGoogleRedirectURI(),
			randomSource, oauth.WithGoogleHTTPClient(providerHTTPClient)),
		oauth.ProviderGithub: oauth.NewGithub(
			cfg.GetGithubClientID(), cfg.GetGithubClientSecret(), cfg.GetGithubRedirectURI(),
			randomSource, oauth.WithGithubHTTPClient(providerHTTPClient)),
	}

	srv, err := server.New(manager, accountStore, clients, randomSource, logger,
		server.WithEnv(cfg.GetEnv()),
		server.WithHealthcheck(func(ctx context.Context) error {
			return db.PingContext(ctx)
		}),
	)
	if err != nil {
		return errors.Wrap(err, "server")
	}

	httpServer := &http.Server{Addr: cfg.GetPort(), Handler: srv}
	go listenAndServe(httpServer, logger)
	waitForStopSignal()
	return shutdown(httpServer)
}

func newLogger(env string) zerolog.Logger {
	if env == "DEV" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}

func listenAndServe(server *http.Server, logger zerolog.Logger) {
	logger.Info().Str("addr", server.Addr).Msg("server listening")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error().Err(err).Msg("server.ListenAndServe")
	}
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return errors.Wrap(err, "server.Shutdown")
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}

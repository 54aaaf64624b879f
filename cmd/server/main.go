package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"github.com/jrsteele09/go-session-service/auth"
	"github.com/jrsteele09/go-session-service/internal/config"
	"github.com/jrsteele09/go-session-service/provider"
	"github.com/jrsteele09/go-session-service/server"
	"github.com/jrsteele09/go-session-service/token"
	sqliteuserrepo "github.com/jrsteele09/go-session-service/users/sqliterepo"
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

	c, err := config.New()
	if err != nil {
		return fmt.Errorf("config.New: %w", err)
	}
	if c.GetJWTSecret() == "" {
		return errors.New("JWT_SECRET is required")
	}
	displayAppname(c.GetAppName())

	db, err := sql.Open("sqlite", "file:"+c.GetDBPath()+"?_busy_timeout=5000")
	if err != nil {
		return fmt.Errorf("sql.Open: %w", err)
	}
	defer db.Close()

	if err := sqliteuserrepo.EnsureUsersTable(db); err != nil {
		return fmt.Errorf("users migration: %w", err)
	}

	exchanger, err := provider.NewGoogleExchanger(context.Background(), c)
	if err != nil {
		return fmt.Errorf("provider.NewGoogleExchanger: %w", err)
	}

	sessionService, err := auth.NewSessionService(
		auth.Repos{Users: sqliteuserrepo.NewSQLiteUserRepo(db)},
		exchanger,
		token.NewManager(c.GetJWTSecret(), c),
		c,
	)
	if err != nil {
		return fmt.Errorf("auth.NewSessionService: %w", err)
	}

	handler, err := server.New(c, sessionService)
	if err != nil {
		return fmt.Errorf("server.New: %w", err)
	}

	httpServer := &http.Server{Addr: c.GetPort(), Handler: handler}
	go listenAndServe(httpServer)
	waitForStopSignal()
	return shutdown(httpServer)
}

func listenAndServe(server *http.Server) {
	log.Info().Str("addr", server.Addr).Msg("server listening")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error().Err(err).Msg("server.ListenAndServe")
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
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}

// Package cli is the interactive terminal frontend of the vault engine. It
// talks to the engine exclusively through the gateway, so every command goes
// through the same validation pipeline as a browser request.
package cli

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/The-Open-Tech-Company/pass-passw-browser/internal/config"
	"github.com/The-Open-Tech-Company/pass-passw-browser/internal/gateway"
	"github.com/The-Open-Tech-Company/pass-passw-browser/internal/logging"
	"github.com/The-Open-Tech-Company/pass-passw-browser/internal/storage"
	"github.com/The-Open-Tech-Company/pass-passw-browser/internal/vault"
	"github.com/google/uuid"
)

// cliRuntimeID identifies the CLI as a trusted sender when the config does
// not pin one.
const cliRuntimeID = "cli"

type App struct {
	config  *config.Config
	gateway *gateway.Gateway
	store   storage.Store
	sender  gateway.Sender
	reader  *bufio.Reader
	out     io.Writer
}

func NewApp(cfg *config.Config) (*App, error) {
	ctx := context.Background()

	if cfg.RuntimeID == "" {
		cfg.RuntimeID = cliRuntimeID
	}

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))

	store, err := storage.NewSQLiteStore(ctx, cfg.StorePath)
	if err != nil {
		return nil, err
	}

	pins := vault.NewPinAuthority(store, logger, cfg.LockoutDuration)
	session := vault.NewSessionCache(cfg.SessionTTL)
	v := vault.New(store, session, pins, logger)
	v.SetPendingHorizon(cfg.PendingHorizon)
	gw := gateway.New(cfg, v, store, logger)

	return &App{
		config:  cfg,
		gateway: gw,
		store:   store,
		sender:  gateway.Sender{ID: cfg.RuntimeID},
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
	}, nil
}

// Close releases the backing store.
func (a *App) Close() error {
	return a.store.Close()
}

// call sends one request through the gateway with fresh anti-replay fields.
func (a *App) call(ctx context.Context, req gateway.Request) (any, error) {
	env := gateway.Envelope{
		Request:   req,
		Timestamp: time.Now().UnixMilli(),
		Nonce:     uuid.NewString(),
	}
	return a.gateway.Handle(ctx, a.sender, env)
}

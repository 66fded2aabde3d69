package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Tiliavir/ponto/internal/apiclient"
	"github.com/Tiliavir/ponto/internal/config"
	"github.com/Tiliavir/ponto/internal/kanban"
	"github.com/Tiliavir/ponto/internal/ledger"
	"github.com/Tiliavir/ponto/internal/logging"
	"github.com/Tiliavir/ponto/internal/session"
	"github.com/Tiliavir/ponto/internal/sqlstore"
	"github.com/Tiliavir/ponto/internal/storage"
)

// app holds what a command needs: the config, the logger and the two
// collaborators of the selected backend.
type app struct {
	cfg     config.Config
	log     *zap.SugaredLogger
	entries ledger.EntryStore
	boards  kanban.BoardStore
	closers []func() error
}

func openApp(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if userFlag != "" {
		cfg.UserID = userFlag
	}
	log, err := logging.New(cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, log: log}
	a.closers = append(a.closers, func() error { _ = log.Sync(); return nil })
	if err := a.openBackend(cmd.Context()); err != nil {
		a.close()
		return nil, err
	}
	return a, nil
}

func (a *app) openBackend(ctx context.Context) error {
	switch a.cfg.Backend {
	case config.BackendSQL:
		s, err := sqlstore.Open(a.cfg.SQL.Driver, a.cfg.SQL.DSN, a.log)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, s.Close)
		a.entries, a.boards = s, s
	case config.BackendHTTP:
		c, err := apiclient.New(ctx, apiclient.Config{
			BaseURL:      a.cfg.API.BaseURL,
			AccessToken:  a.cfg.API.AccessToken,
			ClientID:     a.cfg.API.ClientID,
			ClientSecret: a.cfg.API.ClientSecret,
			TokenURL:     a.cfg.API.TokenURL,
			Scopes:       a.cfg.API.Scopes,
			Timeout:      a.cfg.API.Timeout(),
			TokenFile:    apiclient.TokenFile(a.cfg.DataDir),
		}, a.log)
		if err != nil {
			return err
		}
		a.entries, a.boards = c, c
	default:
		s := storage.New(a.cfg.DataDir)
		a.entries, a.boards = s, s
	}
	a.log.Debugw("backend ready", "backend", a.cfg.Backend, "user", a.cfg.UserID)
	return nil
}

// close releases everything opened by openApp, most recent first.
func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.log.Warnw("close failed", "error", err)
		}
	}
	a.closers = nil
}

// sessions builds the punch cooldown tracker selected in the config.
func (a *app) sessions(ctx context.Context) (ledger.SessionTracker, error) {
	switch a.cfg.Session.Store {
	case config.SessionMemory:
		return session.NewMemoryTracker(), nil
	case config.SessionRedis:
		client, err := session.DialRedis(ctx, a.cfg.Session.RedisAddr, a.cfg.Session.RedisPassword, a.cfg.Session.RedisDB)
		if err != nil {
			return nil, fmt.Errorf("connecting session store: %w", err)
		}
		a.closers = append(a.closers, client.Close)
		return session.NewRedisTracker(client, 2*ledger.Cooldown), nil
	default:
		return session.NewFileTracker(filepath.Join(a.cfg.DataDir, "sessions.json")), nil
	}
}

func (a *app) ledger(ctx context.Context) (*ledger.Ledger, error) {
	tracker, err := a.sessions(ctx)
	if err != nil {
		return nil, err
	}
	return ledger.New(a.entries, tracker, a.cfg.SessionID, a.log), nil
}

// entryLedger serves commands that read or allocate but never punch, so it
// skips the configured session store.
func (a *app) entryLedger() *ledger.Ledger {
	return ledger.New(a.entries, session.NewMemoryTracker(), a.cfg.SessionID, a.log)
}

// engine returns a review engine with the board already loaded.
func (a *app) engine(ctx context.Context) (*kanban.Engine, error) {
	e := kanban.NewEngine(a.boards, a.cfg.BoardID, a.log)
	if err := e.Reload(ctx); err != nil {
		return nil, err
	}
	return e, nil
}

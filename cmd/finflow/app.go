package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/Veraticus/finflow/internal/api"
	"github.com/Veraticus/finflow/internal/cli"
	"github.com/Veraticus/finflow/internal/common"
	"github.com/Veraticus/finflow/internal/config"
	"github.com/Veraticus/finflow/internal/form"
	"github.com/Veraticus/finflow/internal/model"
	"github.com/Veraticus/finflow/internal/money"
	"github.com/Veraticus/finflow/internal/session"
	"github.com/Veraticus/finflow/internal/storage"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var envKeyReplacer = strings.NewReplacer(".", "_")

// app bundles what every command needs: the API client, the session it
// authenticates with, and the terminal streams.
type app struct {
	client   *api.Client
	session  *session.Session
	store    *storage.SQLiteStore
	logger   *slog.Logger
	prompter *cli.Prompter
	out      io.Writer
	format   money.Formatter
}

// newApp opens the session store and builds the client. With
// session.remember off the login only lives for this process.
func newApp(cmd *cobra.Command) (*app, error) {
	ctx := cmd.Context()
	v := viper.GetViper()
	apiCfg := config.LoadAPI(v)
	sessCfg := config.LoadSession(v)
	logger := slog.Default()

	a := &app{
		logger:   logger,
		out:      cmd.OutOrStdout(),
		prompter: cli.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout()),
		format:   money.BRL,
	}

	var store session.Store = session.NewMemoryStore()
	if sessCfg.Remember {
		db, err := storage.Open(ctx, sessCfg.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open session store: %w", err)
		}
		a.store = db
		store = db.BindBaseURL(apiCfg.BaseURL)
	}

	a.session = session.New(store, session.WithLogger(logger))
	if err := a.session.Load(ctx); err != nil {
		a.close()
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	a.client = api.New(apiCfg, a.session, api.WithLogger(logger))
	return a, nil
}

func (a *app) close() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.logger.Warn("failed to close session store", "error", err)
		}
	}
}

// requireUser validates the remembered login before an authenticated call.
func (a *app) requireUser(ctx context.Context) (*model.User, error) {
	if !a.session.Authenticated() {
		return nil, common.NewUserError("You are not logged in. Run 'finflow auth login' first.", common.ErrNotAuthenticated)
	}
	user, err := a.client.Auth.Restore(ctx)
	if err != nil {
		if errors.Is(err, common.ErrSessionExpired) {
			return nil, common.NewUserError("Your session has expired. Run 'finflow auth login' again.", err)
		}
		return nil, err
	}
	if user == nil {
		user = a.session.User()
	}
	return user, nil
}

// withApp runs fn with an app, closing it afterwards.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app) error) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()
	return fn(cmd.Context(), a)
}

// withUser is withApp for commands that need a valid login.
func withUser(cmd *cobra.Command, fn func(ctx context.Context, a *app) error) error {
	return withApp(cmd, func(ctx context.Context, a *app) error {
		if _, err := a.requireUser(ctx); err != nil {
			return err
		}
		return fn(ctx, a)
	})
}

func (a *app) printf(format string, args ...any) {
	if _, err := fmt.Fprintf(a.out, format, args...); err != nil {
		a.logger.Warn("failed to write output", "error", err)
	}
}

func (a *app) println(text string) {
	a.printf("%s\n", text)
}

// confirm asks before destructive actions unless yes is set.
func (a *app) confirm(ctx context.Context, yes bool, question string) (bool, error) {
	if yes {
		return true, nil
	}
	return a.prompter.Confirm(ctx, question)
}

// apiFailure wraps err with the server's rejection message for display.
func apiFailure(action string, err error) error {
	return common.NewUserError(action+": "+form.ErrorMessage(err), err)
}

// Package cmd implements the househunt command tree.
package cmd

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/househunt/househunt-go/internal/api"
	"github.com/househunt/househunt-go/internal/app"
	"github.com/househunt/househunt-go/internal/config"
	"github.com/househunt/househunt-go/internal/model"
	"github.com/househunt/househunt-go/internal/repository"
	"github.com/spf13/cobra"
)

var errNotLoggedIn = errors.New("not logged in, run `househunt login` first")

// waitTimeout bounds how long a command waits for save and reload cycles,
// geocoding included.
const waitTimeout = 2 * time.Minute

// cli is the state shared by every command of one invocation.
type cli struct {
	cfg     config.Config
	db      *sql.DB
	app     *app.App
	session model.Session
}

// NewRootCmd builds the command tree for cfg.
func NewRootCmd(cfg config.Config) *cobra.Command {
	c := &cli{cfg: cfg}

	root := &cobra.Command{
		Use:           "househunt",
		Short:         "househunt tracks property requirements, a shortlist and Rightmove searches.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.open(cmd.Context())
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return c.close()
		},
	}

	root.AddCommand(
		newLoginCmd(c),
		newRegisterCmd(c),
		newLogoutCmd(c),
		newWhoamiCmd(c),
		newScrapeCmd(c),
		newHistoryCmd(c),
		newAskCmd(c),
		newRequirementsCmd(c),
		newShortlistCmd(c),
		newMapCmd(c),
	)

	return root
}

func (c *cli) open(ctx context.Context) error {
	db, err := repository.NewDB(ctx, c.cfg.StoragePath)
	if err != nil {
		return fmt.Errorf("opening local storage: %w", err)
	}
	c.db = db

	client := api.NewClient(c.cfg.APIBaseURL, c.cfg.HTTPTimeout)
	c.app = app.New(ctx, c.cfg, client, repository.NewLocalStorage(db))

	session, _, err := c.app.Start(ctx)
	if err != nil {
		return fmt.Errorf("restoring session: %w", err)
	}
	c.session = session
	return nil
}

func (c *cli) close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

// requireSession fails unless a session was restored, then waits for the
// initial load of every surface.
func (c *cli) requireSession(ctx context.Context) error {
	if !c.session.Valid() {
		return errNotLoggedIn
	}
	return c.wait(ctx)
}

func (c *cli) wait(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, waitTimeout)
	defer cancel()
	return c.app.Wait(ctx)
}

// rowArg parses a 1-based row number into an index below size.
func rowArg(arg string, size int) (int, error) {
	if size == 0 {
		return 0, errors.New("the list is empty")
	}
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > size {
		return 0, fmt.Errorf("row must be a number between 1 and %d, got %q", size, arg)
	}
	return n - 1, nil
}

package cmd

import (
	"database/sql"
	"fmt"

	"github.com/bizbotng/bizchat/internal"
)

// environment bundles the wired-up core for a command invocation.
type environment struct {
	cfg      *internal.Config
	db       *sql.DB
	store    *internal.SessionStore
	client   *internal.Client
	notifier *internal.Notifier
	conv     *internal.Conversation
}

// newEnvironment resolves config, opens the local database and wires the
// conversation driver. Callers must defer env.close().
func newEnvironment() (*environment, error) {
	cfg, err := internal.LoadConfig(apiURL, storagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve configuration: %w", err)
	}

	db, err := internal.OpenDatabase(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open session database: %w", err)
	}

	store := internal.NewSessionStore(db, cfg.StoragePath)
	client := internal.NewClient(cfg.APIURL, cfg.Timeout)
	notifier := internal.NewNotifier()

	return &environment{
		cfg:      cfg,
		db:       db,
		store:    store,
		client:   client,
		notifier: notifier,
		conv:     internal.NewConversation(store, client, notifier),
	}, nil
}

func (e *environment) close() {
	if err := e.db.Close(); err != nil {
		internal.LogWarn("Failed to close session database: %v", err)
	}
}

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/careercompass/compass/internal/api"
	"github.com/careercompass/compass/internal/app"
	"github.com/careercompass/compass/internal/auth"
	"github.com/careercompass/compass/internal/config"
	"github.com/careercompass/compass/internal/store"
)

// deps is everything a command needs after wiring: transport, identity,
// and the local cache store.
type deps struct {
	cfg    *config.Config
	store  *store.Store
	sess   *auth.Session
	client *api.Client
}

// buildDeps opens the store, restores the session, and wires the API
// client. The unauthorized hook clears stored credentials so a rejected
// token logs the whole process out.
func buildDeps(cmd *cobra.Command) (*deps, error) {
	cfg := config.Load()

	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}

	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	sess, err := auth.Load(cmd.Context(), st.CredentialRepo())
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("load session: %w", err)
	}

	client := api.New(cfg.APIURL,
		api.WithTimeout(cfg.HTTPTimeout),
		api.WithTokenSource(sess.Token),
		api.WithUnauthorizedHook(func() {
			_ = sess.Clear(context.Background())
		}),
	)

	return &deps{cfg: cfg, store: st, sess: sess, client: client}, nil
}

// runApp wires dependencies and launches the TUI.
func runApp(cmd *cobra.Command, startAssessment bool) error {
	d, err := buildDeps(cmd)
	if err != nil {
		return err
	}
	defer d.store.Close()

	return app.Run(app.Options{
		Client:          d.client,
		Session:         d.sess,
		Store:           d.store,
		StartAssessment: startAssessment,
	})
}

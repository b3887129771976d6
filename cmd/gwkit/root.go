package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"gwkit/pkg/catalog"
	"gwkit/pkg/manager"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	config  string
	catalog string
}

// env is what every command needs once flags are parsed.
type env struct {
	cfg     *manager.Config
	cfgPath string
	logger  *slog.Logger
	closer  io.Closer
	store   *catalog.Store

	// malformed is set when the catalog file exists but could not be decoded.
	malformed bool
}

func (g *globalFlags) load() (*env, error) {
	cfg, path, err := manager.LoadConfig(g.config)
	if err != nil {
		return nil, err
	}
	if c := strings.TrimSpace(g.catalog); c != "" {
		cfg.Catalog = c
	}
	logger, closer, lerr := manager.NewLogger(cfg.LogFile, cfg.LogLevel)
	if lerr != nil {
		fmt.Fprintf(os.Stderr, "gwkit: logging disabled: %v\n", lerr)
	}
	logger.Debug("config loaded", "path", path, "catalog", cfg.Catalog)

	store, err := catalog.Load(cfg.Catalog)
	if err != nil {
		if !errors.Is(err, catalog.ErrMalformedCatalog) {
			_ = closer.Close()
			return nil, err
		}
		// A broken catalog starts the session empty. The file is left alone
		// unless something is saved, and then it is moved aside first.
		logger.Warn("catalog unreadable, starting empty", "path", cfg.Catalog, "err", err)
		fmt.Fprintf(os.Stderr, "gwkit: warning: %v\n", err)
	}
	logger.Info("catalog loaded", "path", cfg.Catalog, "hosts", store.Len())
	return &env{
		cfg:       cfg,
		cfgPath:   path,
		logger:    logger,
		closer:    closer,
		store:     store,
		malformed: err != nil,
	}, nil
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}
	var (
		user   string
		query  string
		noAuth bool
	)

	root := &cobra.Command{
		Use:   "gwkit",
		Short: "Browse a catalog of remote hosts and log in to them",
		Long: `gwkit shows the host catalog as a filterable list. Type keywords to narrow it,
pick a host with the arrow keys and press Enter to log in as the selected user.`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !manager.IsInteractive() {
				return errors.New("stdin and stdout must be a terminal (try 'gwkit list')")
			}
			e, err := g.load()
			if err != nil {
				return err
			}
			defer e.closer.Close()

			if !noAuth {
				if err := e.cfg.Auth.Bootstrap(cmd.Context(), os.Stdin, os.Stdout, os.Stderr, e.logger); err != nil {
					fmt.Fprintf(os.Stderr, "gwkit: warning: %v\n", err)
				}
			}

			opts := manager.UIOptions{
				CatalogPath:      e.cfg.Catalog,
				CatalogMalformed: e.malformed,
				User:             user,
				Query:            query,
			}
			if err := manager.RunTUI(e.cfg, e.store, opts, e.logger); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Goodbye :)")
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&g.config, "config", "c", "", "path to config.yaml (default: $GWKIT_CONFIG or ~/.config/gwkit/config.yaml)")
	root.PersistentFlags().StringVar(&g.catalog, "catalog", "", "host catalog file, overrides the config")
	root.Flags().StringVarP(&user, "user", "u", "", "initial login user")
	root.Flags().StringVarP(&query, "query", "q", "", "initial keywords")
	root.Flags().BoolVar(&noAuth, "no-auth", false, "skip the credential bootstrap")

	root.AddCommand(newListCmd(g))
	root.AddCommand(newImportCmd(g))
	return root
}

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"gwkit/pkg/catalog"
)

func newImportCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Add hosts to the catalog from other sources",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "legacy <dir-or-file>",
		Short: "Import a .known_hosts list (one 'host description...' per line)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := g.load()
			if err != nil {
				return err
			}
			defer e.closer.Close()

			p := catalog.LegacyPath(args[0])
			n, err := catalog.ImportLegacy(e.store, p)
			if errors.Is(err, catalog.ErrMissingImportFile) {
				fmt.Fprintf(cmd.OutOrStdout(), "no such file: %s\n", p)
				return nil
			}
			if err != nil {
				return err
			}
			return saveImport(cmd, e, n, p)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "ssh-config [path...]",
		Short: "Import literal Host aliases from OpenSSH config files (default ~/.ssh/config)",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := g.load()
			if err != nil {
				return err
			}
			defer e.closer.Close()

			n, err := catalog.ImportSSHConfig(e.store, args...)
			if err != nil {
				return err
			}
			src := "~/.ssh/config"
			if len(args) > 0 {
				src = fmt.Sprint(args)
			}
			return saveImport(cmd, e, n, src)
		},
	})
	return cmd
}

func saveImport(cmd *cobra.Command, e *env, n int, src string) error {
	e.logger.Info("import", "source", src, "added", n)
	if n > 0 {
		if e.malformed {
			bak, err := catalog.Backup(e.cfg.Catalog)
			if err != nil {
				return err
			}
			if bak != "" {
				e.logger.Warn("malformed catalog moved aside", "path", bak)
				fmt.Fprintf(cmd.ErrOrStderr(), "gwkit: unreadable catalog saved as %s\n", bak)
			}
		}
		if err := catalog.Save(e.cfg.Catalog, e.store); err != nil {
			return fmt.Errorf("save catalog: %w", err)
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "imported %d hosts from %s into %s\n", n, src, e.cfg.Catalog)
	return nil
}

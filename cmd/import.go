package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/ziadkadry99/pagebuilder/internal/importers"
	"github.com/ziadkadry99/pagebuilder/internal/progress"
)

var importCmd = &cobra.Command{
	Use:   "import [dir]",
	Short: "Import markdown articles into the database",
	Long: `Walks a directory for markdown files with YAML front matter and creates
or updates one article per file. Unchanged files are skipped.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.cleanup()

		im := importers.New(a.articles, importers.NewStore(a.db), importers.Options{
			Include:       a.cfg.Import.Include,
			Exclude:       a.cfg.Import.Exclude,
			DefaultAuthor: a.cfg.Import.DefaultAuthor,
			Reporter:      progress.NewReporter(),
			Audit:         a.audit,
			Logger:        a.log,
		})
		result, err := im.ImportDir(cmd.Context(), dir)
		if result == nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d found, %d created, %d updated, %d unchanged, %d failed\n",
			result.Found, result.Created, result.Updated, result.Unchanged, result.Failed)
		for _, e := range multierr.Errors(err) {
			fmt.Fprintf(os.Stderr, "  %v\n", e)
		}
		if result.Failed > 0 {
			return fmt.Errorf("%d files failed to import", result.Failed)
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}

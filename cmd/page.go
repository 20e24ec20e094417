package cmd

import (
	"fmt"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/pagebuilder/internal/pages"
)

var pageCmd = &cobra.Command{
	Use:   "page",
	Short: "Manage stored pages",
}

var pageAddCmd = &cobra.Command{
	Use:   "add <page.html>",
	Short: "Store a page-builder HTML file so the server can render it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		html, err := readInput(args[0])
		if err != nil {
			return err
		}
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.cleanup()

		title, _ := cmd.Flags().GetString("title")
		if title == "" {
			title = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
		}
		id, _ := cmd.Flags().GetString("id")
		p, err := a.pages.Create(cmd.Context(), pages.Page{ID: id, Title: title, HTML: html})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Stored page %s\n  %s/pages/%s\n", p.ID, strings.TrimRight(a.cfg.BaseURL, "/"), p.ID)
		return nil
	},
}

var pageListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored pages",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.cleanup()

		list, err := a.pages.Store().List(cmd.Context())
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tTITLE\tUPDATED")
		for _, p := range list {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", p.ID, p.Title, p.UpdatedAt.Format("2006-01-02 15:04"))
		}
		return tw.Flush()
	},
}

func init() {
	pageAddCmd.Flags().String("title", "", "page title (defaults to the file name)")
	pageAddCmd.Flags().String("id", "", "page id (defaults to a generated UUID)")
	pageCmd.AddCommand(pageAddCmd, pageListCmd)
	rootCmd.AddCommand(pageCmd)
}

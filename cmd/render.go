package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/pagebuilder/internal/listing"
)

var renderCmd = &cobra.Command{
	Use:   "render <page.html|->",
	Short: "Render a page-builder HTML file",
	Long: `Expands the listing and detail regions of an HTML file with articles
from the database and writes the result to stdout or --output. Use "-" to
read the page from stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	renderCmd.Flags().Int("offset", 0, "index of the first item on the requested page")
	renderCmd.Flags().Int("position", 0, "listing block the offset applies to (0 for all)")
	renderCmd.Flags().String("page-id", "", "page id used in pagination links")
	renderCmd.Flags().Int("block", 0, "print only the listing block at this position")
	renderCmd.Flags().StringP("output", "o", "", "write to a file instead of stdout")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	page, err := readInput(args[0])
	if err != nil {
		return err
	}
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.cleanup()

	offset, _ := cmd.Flags().GetInt("offset")
	position, _ := cmd.Flags().GetInt("position")
	pageID, _ := cmd.Flags().GetString("page-id")
	block, _ := cmd.Flags().GetInt("block")
	var out string
	if block > 0 {
		out, err = a.pages.RenderBlockHTML(cmd.Context(), page, block, offset, pageID)
	} else {
		req := listing.RequestContext{Offset: offset, PageID: pageID, Position: position}
		out, err = a.pages.RenderHTML(cmd.Context(), page, req)
	}
	if err != nil {
		return err
	}

	dest, _ := cmd.Flags().GetString("output")
	if dest == "" {
		_, err = io.WriteString(cmd.OutOrStdout(), out)
		return err
	}
	if err := os.WriteFile(dest, []byte(out), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", dest, err)
	}
	return nil
}

func readInput(name string) (string, error) {
	if name == "-" {
		data, err := io.ReadAll(os.Stdin)
		return string(data), err
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return "", fmt.Errorf("reading page: %w", err)
	}
	return string(data), nil
}

package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ziadkadry99/pagebuilder/internal/audit"
	"github.com/ziadkadry99/pagebuilder/internal/content"
)

var articleCmd = &cobra.Command{
	Use:   "article",
	Short: "Inspect and publish articles",
}

var articleListCmd = &cobra.Command{
	Use:   "list",
	Short: "List articles, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.cleanup()

		filter := content.ListFilter{}
		filter.PublishedOnly, _ = cmd.Flags().GetBool("published")
		filter.Limit, _ = cmd.Flags().GetInt("limit")
		if tags, _ := cmd.Flags().GetStringSlice("tag"); len(tags) > 0 {
			filter.Tags = tags
		}
		if cat, _ := cmd.Flags().GetString("category"); cat != "" {
			id, ok, err := a.articles.LookupCategoryID(cmd.Context(), cat)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("no published category %q", cat)
			}
			filter.CategoryID = id
		}

		list, err := a.articles.List(cmd.Context(), filter)
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tTITLE\tCATEGORY\tTAGS\tPUBLISHED\tDATE")
		for _, art := range list {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%t\t%s\n", art.ID, art.Title, art.CategoryTitle,
				strings.Join(art.Tags, ","), art.Published, art.PublishUp.Format("2006-01-02 15:04"))
		}
		return tw.Flush()
	},
}

func setPublishedCmd(use, short string, published bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id|alias>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.cleanup()

			art, err := a.articles.GetArticle(cmd.Context(), args[0])
			if err == nil && art == nil {
				art, err = a.articles.GetArticleByAlias(cmd.Context(), args[0])
			}
			if err != nil {
				return err
			}
			if art == nil {
				return fmt.Errorf("article %s: %w", args[0], content.ErrNotFound)
			}
			if err := a.articles.SetPublished(cmd.Context(), art.ID, published); err != nil {
				return err
			}
			action := audit.ActionArticleUnpublished
			if published {
				action = audit.ActionArticlePublished
			}
			if err := a.audit.Log(cmd.Context(), audit.Entry{
				ActorType: audit.ActorUser,
				Action:    action,
				Subject:   audit.SubjectArticle,
				SubjectID: art.ID,
				Summary:   art.Title,
			}); err != nil {
				a.log.Warn("audit entry not written", zap.Error(err))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", art.Title, map[bool]string{true: "published", false: "unpublished"}[published])
			return nil
		},
	}
}

func init() {
	articleListCmd.Flags().Bool("published", false, "only articles visible to listings")
	articleListCmd.Flags().Int("limit", 0, "maximum number of articles (0 for all)")
	articleListCmd.Flags().StringSlice("tag", nil, "only articles with any of these tags")
	articleListCmd.Flags().String("category", "", "only articles in this category")
	articleCmd.AddCommand(articleListCmd,
		setPublishedCmd("publish", "Publish an article", true),
		setPublishedCmd("unpublish", "Hide an article from listings", false),
	)
	rootCmd.AddCommand(articleCmd)
}

package importers

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/gosimple/slug"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/ziadkadry99/pagebuilder/internal/audit"
	"github.com/ziadkadry99/pagebuilder/internal/content"
	"github.com/ziadkadry99/pagebuilder/internal/progress"
	"github.com/ziadkadry99/pagebuilder/internal/walker"
)

// Options configures an Importer.
type Options struct {
	Include       []string
	Exclude       []string
	DefaultAuthor string
	Reporter      progress.Reporter
	// Audit records created and updated articles; nil disables it.
	Audit  *audit.Store
	Logger *zap.Logger
}

// Importer loads markdown files into the article store. Re-importing a file
// updates the article it created; unchanged files are skipped.
type Importer struct {
	articles *content.Store
	files    *Store
	opts     Options
	log      *zap.Logger
}

// New creates an Importer.
func New(articles *content.Store, files *Store, opts Options) *Importer {
	if opts.Reporter == nil {
		opts.Reporter = progress.Nop{}
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Importer{articles: articles, files: files, opts: opts, log: log.Named("import")}
}

type outcome int

const (
	created outcome = iota
	updated
	unchanged
)

// ImportDir imports every matching file under root. Per-file failures are
// collected in the result and returned combined; the run continues past them.
func (im *Importer) ImportDir(ctx context.Context, root string) (*ImportResult, error) {
	found, err := walker.Walk(walker.Config{
		RootDir: root,
		Include: im.opts.Include,
		Exclude: im.opts.Exclude,
	})
	if err != nil {
		return nil, err
	}

	result := &ImportResult{Found: len(found)}
	var errs error
	im.opts.Reporter.Start(len(found))
	for i, f := range found {
		if err := ctx.Err(); err != nil {
			im.opts.Reporter.Finish()
			return result, multierr.Append(errs, err)
		}
		im.opts.Reporter.Update(i+1, f.RelPath)

		out, err := im.importFile(ctx, f)
		if err != nil {
			err = fmt.Errorf("%s: %w", f.RelPath, err)
			im.log.Warn("import failed", zap.String("file", f.RelPath), zap.Error(err))
			result.Failed++
			result.Errors = append(result.Errors, err.Error())
			errs = multierr.Append(errs, err)
			continue
		}
		switch out {
		case created:
			result.Created++
		case updated:
			result.Updated++
		case unchanged:
			result.Unchanged++
		}
	}
	im.opts.Reporter.Finish()

	im.log.Info("import finished",
		zap.Int("found", result.Found),
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated),
		zap.Int("unchanged", result.Unchanged),
		zap.Int("failed", result.Failed),
	)
	return result, errs
}

func (im *Importer) importFile(ctx context.Context, f walker.FileInfo) (outcome, error) {
	record, err := im.files.Get(ctx, f.RelPath)
	if err != nil {
		return 0, err
	}
	var existing *content.Article
	if record != nil {
		if existing, err = im.articles.GetArticle(ctx, record.ArticleID); err != nil {
			return 0, err
		}
		if existing != nil && record.ContentHash == f.ContentHash {
			return unchanged, nil
		}
	}

	data, err := os.ReadFile(f.Path)
	if err != nil {
		return 0, fmt.Errorf("reading file: %w", err)
	}
	article, err := im.articleFrom(ctx, data)
	if err != nil {
		return 0, err
	}
	if existing == nil {
		if existing, err = im.articles.GetArticleByAlias(ctx, article.Alias); err != nil {
			return 0, err
		}
	}

	out := created
	if existing != nil {
		article.ID = existing.ID
		if article.CommentCount == nil {
			article.CommentCount = existing.CommentCount
		}
		if article.PublishUp.IsZero() {
			article.PublishUp = existing.PublishUp
		}
		if err := im.articles.UpdateArticle(ctx, article); err != nil {
			return 0, err
		}
		out = updated
	} else {
		saved, err := im.articles.CreateArticle(ctx, article)
		if err != nil {
			return 0, err
		}
		article.ID = saved.ID
	}

	if err := im.files.Save(ctx, ImportedFile{Path: f.RelPath, ContentHash: f.ContentHash, ArticleID: article.ID}); err != nil {
		return 0, err
	}
	action := audit.ActionArticleImported
	if out == updated {
		action = audit.ActionArticleUpdated
	}
	err = im.opts.Audit.Log(ctx, audit.Entry{
		ActorType: audit.ActorSystem,
		ActorID:   "import",
		Action:    action,
		Subject:   audit.SubjectArticle,
		SubjectID: article.ID,
		Summary:   f.RelPath,
	})
	if err != nil {
		im.log.Warn("audit entry not written", zap.String("file", f.RelPath), zap.Error(err))
	}
	return out, nil
}

func (im *Importer) articleFrom(ctx context.Context, data []byte) (content.Article, error) {
	fm, body, err := ParseMarkdown(data)
	if err != nil {
		return content.Article{}, err
	}
	if fm.Title == "" {
		return content.Article{}, fmt.Errorf("no title in front matter or leading heading")
	}
	publishUp, err := fm.PublishDate()
	if err != nil {
		return content.Article{}, err
	}

	a := content.Article{
		Title:        fm.Title,
		Alias:        slug.Make(fm.Alias),
		Body:         body,
		BodyFormat:   content.FormatMarkdown,
		Image:        strings.TrimSpace(fm.Image),
		ReadMoreText: fm.ReadMore,
		Author:       fm.Author,
		CommentCount: fm.Comments,
		Published:    fm.Published == nil || *fm.Published,
		PublishUp:    publishUp,
		Tags:         fm.Tags,
	}
	if a.Alias == "" {
		a.Alias = slug.Make(fm.Title)
	}
	if a.Author == "" {
		a.Author = im.opts.DefaultAuthor
	}
	if cat := strings.TrimSpace(fm.Category); cat != "" {
		c, err := im.articles.EnsureCategory(ctx, cat)
		if err != nil {
			return content.Article{}, err
		}
		a.CategoryID = c.ID
	}
	return a, nil
}

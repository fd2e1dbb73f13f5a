package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/pagecraft/internal/db"
	"github.com/pagecraft/internal/logger"
	"github.com/pagecraft/internal/markdown"
	"github.com/pagecraft/internal/repository"
	"github.com/pagecraft/internal/service"
)

func init() { //nolint: gochecknoinits
	rootCmd.AddCommand(seedCmd)
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fill an empty site with an about page, sample posts and a header",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		if err := logger.Init(cfg.Log); err != nil {
			return err
		}

		gdb, err := db.Init(cfg.DB)
		if err != nil {
			return err
		}
		if sqlDB, err := gdb.DB(); err == nil {
			defer sqlDB.Close()
		}

		result, err := seedDemoContent(cmd.Context(), gdb, time.Now())
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "seeded %d page(s) and %d post(s)\n", result.Pages, result.Posts)
		return nil
	},
}

type seedResult struct {
	Pages int
	Posts int
}

type samplePost struct {
	title     string
	content   string
	published bool
}

var samplePosts = []samplePost{
	{
		title:     "Hello, World!",
		content:   "This is the first post. Edit or delete it in the admin area.\n\n*Markdown* works, including ~~strikethrough~~ and tables:\n\n| a | b |\n|---|---|\n| 1 | 2 |",
		published: true,
	},
	{
		title:     "Writing Posts",
		content:   "Posts start as drafts. **Publish** makes them appear on the front page, **Unpublish** hides them again.\n\nThe URL is derived from the title unless you set one.",
		published: true,
	},
	{
		title:   "A Draft",
		content: "Drafts are only visible in the admin area.",
	},
}

const aboutMarkdown = "## About\n\nThis site runs on pagecraft. Replace this page's content directly in the database or delete it."

// seedDemoContent adds the about page, sample posts and header/footer to an
// empty site. Existing content is left alone.
func seedDemoContent(ctx context.Context, gdb *gorm.DB, now time.Time) (seedResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	var result seedResult
	repo := repository.New(gdb)

	if _, err := repo.FindPageByURL(ctx, "about", repository.PageFilter{}); errors.Is(err, repository.ErrNotFound) {
		about := db.Page{
			Time:            now,
			Title:           "About",
			URL:             "about",
			ContentMarkdown: aboutMarkdown,
			ContentHTML:     markdown.Render(aboutMarkdown),
			IsPost:          false,
			IsPublished:     true,
		}
		if err := repo.InsertPage(ctx, &about); err != nil {
			return result, err
		}
		result.Pages++
	} else if err != nil {
		return result, err
	} else {
		log.Info().Msg("about page exists, skipping")
	}

	count, err := repo.CountPosts(ctx, false)
	if err != nil {
		return result, err
	}
	if count > 0 {
		log.Info().Int64("posts", count).Msg("posts exist, skipping sample posts")
	} else {
		pages := service.NewPageService(repo, service.WithClock(func() time.Time { return now }))
		for i, sample := range samplePosts {
			input := service.PageInput{
				Title:   sample.title,
				Date:    now.AddDate(0, 0, i-len(samplePosts)).Format(service.DateLayout),
				Content: sample.content,
			}

			page, err := pages.Create(ctx, input)
			if err != nil {
				return result, err
			}
			if sample.published {
				if _, err := pages.Publish(ctx, page.ID, input); err != nil {
					return result, err
				}
			}
			result.Posts++
		}
	}

	settings := service.NewSettingsService(repo)
	header, err := settings.GetHeader(ctx)
	if err != nil {
		return result, err
	}
	if header == "" {
		if err := settings.SetHeader(ctx, "# [pagecraft](/)"); err != nil {
			return result, err
		}
		if err := settings.SetFooter(ctx, "Powered by pagecraft · [About](/about)"); err != nil {
			return result, err
		}
	}

	return result, nil
}

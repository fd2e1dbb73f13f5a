package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/pagecraft/internal/db"
	"github.com/pagecraft/internal/markdown"
	"github.com/pagecraft/internal/repository"
)

// SettingsService reads and updates the single settings row. Every setter
// loads the row fresh, changes one field group and writes the whole row back.
type SettingsService struct {
	repo repository.Repository
}

// NewSettingsService constructs a SettingsService.
func NewSettingsService(repo repository.Repository) *SettingsService {
	return &SettingsService{repo: repo}
}

// Get returns the full settings record.
func (s *SettingsService) Get(ctx context.Context) (*db.Settings, error) {
	return s.repo.GetSettings(ctx)
}

// GetHeader returns the header Markdown.
func (s *SettingsService) GetHeader(ctx context.Context) (string, error) {
	settings, err := s.repo.GetSettings(ctx)
	if err != nil {
		return "", err
	}
	return settings.HeaderMarkdown, nil
}

// SetHeader stores the header Markdown together with its HTML.
func (s *SettingsService) SetHeader(ctx context.Context, source string) error {
	return s.mutate(ctx, "header", func(settings *db.Settings) {
		settings.HeaderMarkdown = source
		settings.HeaderHTML = markdown.Render(source)
	})
}

// GetFooter returns the footer Markdown.
func (s *SettingsService) GetFooter(ctx context.Context) (string, error) {
	settings, err := s.repo.GetSettings(ctx)
	if err != nil {
		return "", err
	}
	return settings.FooterMarkdown, nil
}

// SetFooter stores the footer Markdown together with its HTML.
func (s *SettingsService) SetFooter(ctx context.Context, source string) error {
	return s.mutate(ctx, "footer", func(settings *db.Settings) {
		settings.FooterMarkdown = source
		settings.FooterHTML = markdown.Render(source)
	})
}

// GetCSS returns the site stylesheet.
func (s *SettingsService) GetCSS(ctx context.Context) (string, error) {
	settings, err := s.repo.GetSettings(ctx)
	if err != nil {
		return "", err
	}
	return settings.CSS, nil
}

// SetCSS stores the stylesheet verbatim.
func (s *SettingsService) SetCSS(ctx context.Context, css string) error {
	return s.mutate(ctx, "css", func(settings *db.Settings) {
		settings.CSS = css
	})
}

// GetJavaScript returns the site script.
func (s *SettingsService) GetJavaScript(ctx context.Context) (string, error) {
	settings, err := s.repo.GetSettings(ctx)
	if err != nil {
		return "", err
	}
	return settings.JavaScript, nil
}

// SetJavaScript stores the script verbatim.
func (s *SettingsService) SetJavaScript(ctx context.Context, javascript string) error {
	return s.mutate(ctx, "javascript", func(settings *db.Settings) {
		settings.JavaScript = javascript
	})
}

// GetPostsPerPage returns the public listing page size.
func (s *SettingsService) GetPostsPerPage(ctx context.Context) (int, error) {
	settings, err := s.repo.GetSettings(ctx)
	if err != nil {
		return 0, err
	}
	return settings.PostsPerPage, nil
}

// SetPostsPerPage parses raw and stores it if it is a positive 32-bit integer.
// Nothing is written on failure.
func (s *SettingsService) SetPostsPerPage(ctx context.Context, raw string) error {
	value, err := ParsePositiveInt(raw)
	if err != nil {
		return err
	}

	return s.mutate(ctx, "posts_per_page", func(settings *db.Settings) {
		settings.PostsPerPage = value
	})
}

// ParsePositiveInt parses a strictly positive integer that fits the
// posts_per_page column.
func ParsePositiveInt(raw string) (int, error) {
	value, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 32)
	if err != nil || value <= 0 {
		return 0, invalid(ErrInvalidPositiveInteger, "posts per page must be a positive integer")
	}
	return int(value), nil
}

func (s *SettingsService) mutate(ctx context.Context, field string, change func(*db.Settings)) error {
	settings, err := s.repo.GetSettings(ctx)
	if err != nil {
		return err
	}

	change(settings)

	if err := s.repo.UpdateSettings(ctx, settings); err != nil {
		return err
	}

	log.Ctx(ctx).Info().Str("field", field).Msg("settings updated")
	return nil
}

package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/pagecraft/internal/db"
	"github.com/pagecraft/internal/repository"
)

func setupSettingsService(t *testing.T) *SettingsService {
	t.Helper()
	return NewSettingsService(repository.New(setupServiceTestDB(t)))
}

func TestSettingsServiceDefaults(t *testing.T) {
	svc := setupSettingsService(t)

	settings, err := svc.Get(context.Background())
	if err != nil {
		t.Fatalf("get settings failed: %v", err)
	}
	if settings.PostsPerPage != db.DefaultPostsPerPage {
		t.Fatalf("expected %d posts per page, got %d", db.DefaultPostsPerPage, settings.PostsPerPage)
	}
	if settings.HeaderMarkdown != "" || settings.FooterHTML != "" || settings.CSS != "" || settings.JavaScript != "" {
		t.Fatalf("expected empty defaults, got %#v", settings)
	}
}

func TestSettingsServiceHeaderAndFooterRender(t *testing.T) {
	svc := setupSettingsService(t)
	ctx := context.Background()

	if err := svc.SetHeader(ctx, "# My Site"); err != nil {
		t.Fatalf("set header: %v", err)
	}
	if err := svc.SetFooter(ctx, "*(c) me*"); err != nil {
		t.Fatalf("set footer: %v", err)
	}

	header, err := svc.GetHeader(ctx)
	if err != nil || header != "# My Site" {
		t.Fatalf("expected header markdown, got %q (%v)", header, err)
	}
	footer, err := svc.GetFooter(ctx)
	if err != nil || footer != "*(c) me*" {
		t.Fatalf("expected footer markdown, got %q (%v)", footer, err)
	}

	settings, err := svc.Get(ctx)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if settings.HeaderHTML != "<h1>My Site</h1>\n" {
		t.Fatalf("unexpected header html %q", settings.HeaderHTML)
	}
	if !strings.Contains(settings.FooterHTML, "<em>") {
		t.Fatalf("unexpected footer html %q", settings.FooterHTML)
	}
}

func TestSettingsServiceVerbatimFields(t *testing.T) {
	svc := setupSettingsService(t)
	ctx := context.Background()

	css := "body > p { color: #333; }\n/* *not markdown* */"
	js := "console.log('<b>hi</b>');"

	if err := svc.SetCSS(ctx, css); err != nil {
		t.Fatalf("set css: %v", err)
	}
	if err := svc.SetJavaScript(ctx, js); err != nil {
		t.Fatalf("set javascript: %v", err)
	}

	gotCSS, err := svc.GetCSS(ctx)
	if err != nil || gotCSS != css {
		t.Fatalf("expected css stored verbatim, got %q (%v)", gotCSS, err)
	}
	gotJS, err := svc.GetJavaScript(ctx)
	if err != nil || gotJS != js {
		t.Fatalf("expected javascript stored verbatim, got %q (%v)", gotJS, err)
	}

	// Other groups are untouched by a single-field update.
	header, _ := svc.GetHeader(ctx)
	if header != "" {
		t.Fatalf("expected header untouched, got %q", header)
	}
}

func TestSettingsServicePostsPerPage(t *testing.T) {
	svc := setupSettingsService(t)
	ctx := context.Background()

	for _, raw := range []string{"0", "-3", "abc", "", "2.5", "3000000000"} {
		err := svc.SetPostsPerPage(ctx, raw)
		if !errors.Is(err, ErrInvalidPositiveInteger) {
			t.Fatalf("expected ErrInvalidPositiveInteger for %q, got %v", raw, err)
		}
		if !IsUserError(err) {
			t.Fatalf("expected user error for %q", raw)
		}
	}

	value, err := svc.GetPostsPerPage(ctx)
	if err != nil || value != db.DefaultPostsPerPage {
		t.Fatalf("expected value to stay %d, got %d (%v)", db.DefaultPostsPerPage, value, err)
	}

	if err := svc.SetPostsPerPage(ctx, "7"); err != nil {
		t.Fatalf("set posts per page: %v", err)
	}
	value, err = svc.GetPostsPerPage(ctx)
	if err != nil || value != 7 {
		t.Fatalf("expected 7, got %d (%v)", value, err)
	}
}

func TestSettingsServiceMissingRow(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewSettingsService(repository.New(gdb))

	if err := gdb.Where("1 = 1").Delete(&db.Settings{}).Error; err != nil {
		t.Fatalf("delete settings: %v", err)
	}

	if _, err := svc.GetCSS(context.Background()); !errors.Is(err, ErrSettingsMissing) {
		t.Fatalf("expected ErrSettingsMissing, got %v", err)
	}
	if err := svc.SetCSS(context.Background(), "x"); !errors.Is(err, ErrSettingsMissing) {
		t.Fatalf("expected ErrSettingsMissing, got %v", err)
	}

	var count int64
	gdb.Model(&db.Settings{}).Count(&count)
	if count != 0 {
		t.Fatalf("settings row must never be created by application code, found %d", count)
	}
}

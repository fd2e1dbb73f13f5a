package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/pagecraft/internal/db"
	"github.com/pagecraft/internal/markdown"
	"github.com/pagecraft/internal/repository"
	"github.com/pagecraft/internal/slug"
)

// PageInput represents the fields of the post editor form.
type PageInput struct {
	Title   string
	URL     string // explicit slug; empty derives it from Title
	Date    string // YYYY-MM-DD; empty means now
	Content string // Markdown
}

// PostListResult is one page of published posts for the public index.
type PostListResult struct {
	Posts      []db.Page
	Total      int64
	TotalPages int
	Page       int
	PerPage    int
}

// PageService drives the post lifecycle: create, save, publish, unpublish and
// delete. Concurrent saves of the same post are not reconciled.
type PageService struct {
	repo               repository.Repository
	now                func() time.Time
	allowDuplicateURLs bool
	reservedURLs       map[string]struct{}
}

// PageOption configures a PageService.
type PageOption func(*PageService)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) PageOption {
	return func(s *PageService) {
		if now != nil {
			s.now = now
		}
	}
}

// WithDuplicateURLs turns the URL uniqueness check off.
func WithDuplicateURLs(allow bool) PageOption {
	return func(s *PageService) {
		s.allowDuplicateURLs = allow
	}
}

// WithReservedURLs rejects URLs that would be shadowed by fixed top-level routes.
func WithReservedURLs(urls ...string) PageOption {
	return func(s *PageService) {
		if s.reservedURLs == nil {
			s.reservedURLs = make(map[string]struct{}, len(urls))
		}
		for _, url := range urls {
			if url != "" {
				s.reservedURLs[url] = struct{}{}
			}
		}
	}
}

// NewPageService returns a new PageService instance.
func NewPageService(repo repository.Repository, opts ...PageOption) *PageService {
	s := &PageService{repo: repo, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var postsOnly = repository.PageFilter{PostsOnly: true}

// List returns every post, drafts included, newest first.
func (s *PageService) List(ctx context.Context) ([]db.Page, error) {
	return s.repo.ListPosts(ctx, repository.ListOptions{})
}

// Get loads a post for the editor.
func (s *PageService) Get(ctx context.Context, id uint) (*db.Page, error) {
	return s.repo.FindPage(ctx, id, postsOnly)
}

// Create stores a new unpublished post.
func (s *PageService) Create(ctx context.Context, input PageInput) (*db.Page, error) {
	page := db.Page{IsPost: true, IsPublished: false}
	if err := s.apply(ctx, &page, input); err != nil {
		return nil, err
	}

	if err := s.repo.InsertPage(ctx, &page); err != nil {
		return nil, err
	}

	log.Ctx(ctx).Info().Uint("page_id", page.ID).Str("url", page.URL).Msg("post created")
	return &page, nil
}

// Save replaces the content of an existing post and keeps its published state.
func (s *PageService) Save(ctx context.Context, id uint, input PageInput) (*db.Page, error) {
	return s.update(ctx, id, input, nil)
}

// Publish saves the post and marks it published in the same write.
func (s *PageService) Publish(ctx context.Context, id uint, input PageInput) (*db.Page, error) {
	published := true
	return s.update(ctx, id, input, &published)
}

// Unpublish saves the post and marks it as a draft in the same write.
func (s *PageService) Unpublish(ctx context.Context, id uint, input PageInput) (*db.Page, error) {
	published := false
	return s.update(ctx, id, input, &published)
}

// Delete removes a post permanently.
func (s *PageService) Delete(ctx context.Context, id uint) error {
	page, err := s.repo.FindPage(ctx, id, postsOnly)
	if err != nil {
		return err
	}

	if err := s.repo.DeletePage(ctx, page.ID); err != nil {
		return err
	}

	log.Ctx(ctx).Info().Uint("page_id", page.ID).Str("url", page.URL).Msg("post deleted")
	return nil
}

// PublishedPosts returns one page of published posts for the public index.
func (s *PageService) PublishedPosts(ctx context.Context, page, perPage int) (*PostListResult, error) {
	result := &PostListResult{Page: page, PerPage: perPage}
	if result.Page <= 0 {
		result.Page = 1
	}
	if result.PerPage <= 0 {
		result.PerPage = db.DefaultPostsPerPage
	}

	total, err := s.repo.CountPosts(ctx, true)
	if err != nil {
		return nil, err
	}
	result.Total = total
	result.TotalPages = int((total + int64(result.PerPage) - 1) / int64(result.PerPage))

	posts, err := s.repo.ListPosts(ctx, repository.ListOptions{
		PublishedOnly: true,
		Limit:         result.PerPage,
		Offset:        (result.Page - 1) * result.PerPage,
	})
	if err != nil {
		return nil, err
	}
	result.Posts = posts

	return result, nil
}

// PublishedByURL resolves a public URL to a published post or static page.
func (s *PageService) PublishedByURL(ctx context.Context, url string) (*db.Page, error) {
	if !slug.IsValid(url) {
		return nil, ErrNotFound
	}
	return s.repo.FindPageByURL(ctx, url, repository.PageFilter{PublishedOnly: true})
}

func (s *PageService) update(ctx context.Context, id uint, input PageInput, published *bool) (*db.Page, error) {
	page, err := s.repo.FindPage(ctx, id, postsOnly)
	if err != nil {
		return nil, err
	}

	if err := s.apply(ctx, page, input); err != nil {
		return nil, err
	}
	if published != nil {
		page.IsPublished = *published
	}

	if err := s.repo.UpdatePage(ctx, page); err != nil {
		return nil, err
	}

	log.Ctx(ctx).Info().
		Uint("page_id", page.ID).
		Str("url", page.URL).
		Bool("published", page.IsPublished).
		Msg("post saved")
	return page, nil
}

// apply validates input and copies it onto page, regenerating the HTML.
func (s *PageService) apply(ctx context.Context, page *db.Page, input PageInput) error {
	url, err := s.resolveURL(ctx, page.ID, input)
	if err != nil {
		return err
	}

	when, err := ParseDate(input.Date, s.now())
	if err != nil {
		return err
	}

	page.Title = strings.TrimSpace(input.Title)
	page.URL = url
	page.Time = when
	page.ContentMarkdown = input.Content
	page.ContentHTML = markdown.Render(input.Content)
	return nil
}

func (s *PageService) resolveURL(ctx context.Context, id uint, input PageInput) (string, error) {
	url, err := slug.Resolve(input.Title, input.URL)
	if err != nil {
		if errors.Is(err, slug.ErrInvalid) {
			return "", invalid(ErrInvalidSlug, "URL may only contain letters, digits and hyphens")
		}
		return "", err
	}

	if url == "" {
		return "", invalid(ErrInvalidSlug, "title needs at least one letter or digit, or set the URL explicitly")
	}

	if _, reserved := s.reservedURLs[url]; reserved {
		return "", invalid(ErrURLTaken, "the URL "+url+" is reserved by the site")
	}

	if s.allowDuplicateURLs {
		return url, nil
	}

	taken, err := s.repo.URLInUse(ctx, url, id)
	if err != nil {
		return "", err
	}
	if taken {
		return "", invalid(ErrURLTaken, "another page already uses the URL "+url)
	}

	return url, nil
}

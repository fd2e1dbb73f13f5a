// Package repository is the persistence boundary for pages and the settings row.
package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pagecraft/internal/db"
)

var (
	// ErrNotFound is returned when a page does not exist or is filtered out.
	ErrNotFound = errors.New("page not found")
	// ErrSettingsMissing means the settings row is gone. Migrate guarantees it,
	// so this is a consistency failure rather than a user error.
	ErrSettingsMissing = errors.New("settings row is missing")
	// ErrStorage wraps every other persistence failure.
	ErrStorage = errors.New("storage failure")
)

// PageFilter narrows page lookups. The page table holds both posts and static
// pages, so callers say explicitly which ones they accept.
type PageFilter struct {
	PostsOnly     bool
	PublishedOnly bool
}

// ListOptions controls ListPosts. A zero Limit means no limit.
type ListOptions struct {
	PublishedOnly bool
	Limit         int
	Offset        int
}

// Repository stores pages and the settings row.
// Writes replace whole rows; the last write wins.
type Repository interface {
	FindPage(ctx context.Context, id uint, filter PageFilter) (*db.Page, error)
	FindPageByURL(ctx context.Context, url string, filter PageFilter) (*db.Page, error)
	URLInUse(ctx context.Context, url string, excludeID uint) (bool, error)
	ListPosts(ctx context.Context, opts ListOptions) ([]db.Page, error)
	CountPosts(ctx context.Context, publishedOnly bool) (int64, error)
	InsertPage(ctx context.Context, page *db.Page) error
	UpdatePage(ctx context.Context, page *db.Page) error
	DeletePage(ctx context.Context, id uint) error

	GetSettings(ctx context.Context) (*db.Settings, error)
	UpdateSettings(ctx context.Context, settings *db.Settings) error
}

// GormRepository implements Repository on top of gorm.
type GormRepository struct {
	db *gorm.DB
}

var _ Repository = (*GormRepository)(nil)

// New returns a GormRepository using gdb.
func New(gdb *gorm.DB) *GormRepository {
	return &GormRepository{db: gdb}
}

func storageErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStorage, err)
}

func (r *GormRepository) pages(ctx context.Context, filter PageFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&db.Page{})
	if filter.PostsOnly {
		query = query.Where("is_post = ?", true)
	}
	if filter.PublishedOnly {
		query = query.Where("is_published = ?", true)
	}
	return query
}

// FindPage loads a page by id.
func (r *GormRepository) FindPage(ctx context.Context, id uint, filter PageFilter) (*db.Page, error) {
	var page db.Page
	if err := r.pages(ctx, filter).Where("id = ?", id).First(&page).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, storageErr("find page", err)
	}
	return &page, nil
}

// FindPageByURL loads a page by its slug. With duplicate URLs allowed the
// oldest matching row wins.
func (r *GormRepository) FindPageByURL(ctx context.Context, url string, filter PageFilter) (*db.Page, error) {
	var page db.Page
	if err := r.pages(ctx, filter).Where("url = ?", url).Order("id asc").First(&page).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, storageErr("find page by url", err)
	}
	return &page, nil
}

// URLInUse reports whether any page other than excludeID uses url.
func (r *GormRepository) URLInUse(ctx context.Context, url string, excludeID uint) (bool, error) {
	var count int64
	query := r.pages(ctx, PageFilter{}).Where("url = ?", url)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, storageErr("check url", err)
	}
	return count > 0, nil
}

// ListPosts returns posts newest first; equal times fall back to id descending.
func (r *GormRepository) ListPosts(ctx context.Context, opts ListOptions) ([]db.Page, error) {
	query := r.pages(ctx, PageFilter{PostsOnly: true, PublishedOnly: opts.PublishedOnly}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "time"}, Desc: true}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}, Desc: true})
	if opts.Limit > 0 {
		query = query.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		query = query.Offset(opts.Offset)
	}

	var posts []db.Page
	if err := query.Find(&posts).Error; err != nil {
		return nil, storageErr("list posts", err)
	}
	return posts, nil
}

// CountPosts counts posts, optionally only published ones.
func (r *GormRepository) CountPosts(ctx context.Context, publishedOnly bool) (int64, error) {
	var count int64
	if err := r.pages(ctx, PageFilter{PostsOnly: true, PublishedOnly: publishedOnly}).Count(&count).Error; err != nil {
		return 0, storageErr("count posts", err)
	}
	return count, nil
}

// InsertPage stores a new page and sets its ID.
func (r *GormRepository) InsertPage(ctx context.Context, page *db.Page) error {
	page.ID = 0
	if err := r.db.WithContext(ctx).Create(page).Error; err != nil {
		return storageErr("insert page", err)
	}
	return nil
}

// UpdatePage replaces every column of an existing page.
func (r *GormRepository) UpdatePage(ctx context.Context, page *db.Page) error {
	result := r.db.WithContext(ctx).Model(&db.Page{}).
		Where("id = ?", page.ID).
		Select("*").
		Omit("id").
		Updates(page)
	if result.Error != nil {
		return storageErr("update page", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeletePage removes a page permanently.
func (r *GormRepository) DeletePage(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&db.Page{}, id)
	if result.Error != nil {
		return storageErr("delete page", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetSettings loads the settings row.
func (r *GormRepository) GetSettings(ctx context.Context) (*db.Settings, error) {
	var settings db.Settings
	if err := r.db.WithContext(ctx).Order("id asc").First(&settings).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSettingsMissing
		}
		return nil, storageErr("load settings", err)
	}
	return &settings, nil
}

// UpdateSettings replaces the existing settings row. It never inserts.
func (r *GormRepository) UpdateSettings(ctx context.Context, settings *db.Settings) error {
	result := r.db.WithContext(ctx).Model(&db.Settings{}).
		Where("id = ?", settings.ID).
		Select("*").
		Omit("id").
		Updates(settings)
	if result.Error != nil {
		return storageErr("update settings", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrSettingsMissing
	}
	return nil
}

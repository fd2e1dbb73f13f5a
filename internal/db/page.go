package db

import "time"

// Page is a blog post (IsPost) or a static page.
// ContentHTML is always the rendering of ContentMarkdown.
type Page struct {
	ID              uint      `gorm:"primaryKey;autoIncrement"`
	Time            time.Time `gorm:"not null;index:idx-page-time"`
	Title           string    `gorm:"type:text;not null"`
	URL             string    `gorm:"column:url;type:text;not null"`
	ContentMarkdown string    `gorm:"column:content_markdown;type:text;not null"`
	ContentHTML     string    `gorm:"column:content_html;type:text;not null"`
	IsPost          bool      `gorm:"not null"`
	IsPublished     bool      `gorm:"not null"`
}

// TableName keeps the singular table name used by existing databases.
func (Page) TableName() string {
	return "page"
}

package db

// DefaultPostsPerPage is seeded into the settings row by Migrate.
const DefaultPostsPerPage = 5

// Settings is the single site-wide settings row.
// Application code only reads and replaces it; Migrate creates it.
type Settings struct {
	ID             uint   `gorm:"primaryKey;autoIncrement"`
	HeaderMarkdown string `gorm:"column:header_markdown;type:text;not null"`
	HeaderHTML     string `gorm:"column:header_html;type:text;not null"`
	FooterMarkdown string `gorm:"column:footer_markdown;type:text;not null"`
	FooterHTML     string `gorm:"column:footer_html;type:text;not null"`
	CSS            string `gorm:"column:css;type:text;not null"`
	JavaScript     string `gorm:"column:javascript;type:text;not null"`
	PostsPerPage   int    `gorm:"column:posts_per_page;not null"`
}

// TableName pins the table name.
func (Settings) TableName() string {
	return "settings"
}

// DefaultSettings returns the seed row: empty fragments and five posts per page.
func DefaultSettings() Settings {
	return Settings{PostsPerPage: DefaultPostsPerPage}
}

package db

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/pagecraft/internal/config"
	"github.com/pagecraft/internal/logger"
)

// ErrUnknownDriver is returned for a db.driver other than sqlite, postgres or mysql.
var ErrUnknownDriver = errors.New("unknown database driver")

// Init opens the database connection and runs the migrations.
func Init(cfg config.DB) (*gorm.DB, error) {
	gdb, err := Open(cfg)
	if err != nil {
		return nil, err
	}

	if err := Migrate(gdb); err != nil {
		return nil, err
	}

	return gdb, nil
}

// Open connects to the configured database without touching the schema.
func Open(cfg config.DB) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch cfg.Driver {
	case "", "sqlite":
		path := strings.TrimSpace(cfg.Path)
		if path == "" {
			path = "pagecraft.db"
		}
		if err := ensureParentDir(path); err != nil {
			return nil, err
		}
		dialector = sqlite.Open(path)
	case "postgres":
		dialector = postgres.Open(postgresDSN(cfg))
	case "mysql":
		dialector = mysql.Open(mysqlDSN(cfg))
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownDriver, cfg.Driver)
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{Logger: logger.NewGormLogger()})
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", cfg.Driver, err)
	}

	log.Info().Str("driver", cfg.Driver).Msg("database connection opened")

	return gdb, nil
}

// Migrate creates the page and settings tables and seeds the single settings
// row when the table is empty.
func Migrate(gdb *gorm.DB) error {
	if err := gdb.AutoMigrate(&Page{}, &Settings{}); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}

	var count int64
	if err := gdb.Model(&Settings{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count settings: %w", err)
	}

	if count == 0 {
		seed := DefaultSettings()
		if err := gdb.Create(&seed).Error; err != nil {
			return fmt.Errorf("seed settings: %w", err)
		}
		log.Info().Uint("settings_id", seed.ID).Msg("default settings seeded")
	}

	return nil
}

func postgresDSN(cfg config.DB) string {
	parts := []string{
		"host=" + cfg.Host,
		"user=" + cfg.User,
		"password=" + cfg.Password,
		"dbname=" + cfg.Name,
	}
	if cfg.Port != 0 {
		parts = append(parts, fmt.Sprintf("port=%d", cfg.Port))
	}
	if extras := strings.TrimSpace(cfg.Extras); extras != "" {
		parts = append(parts, extras)
	}
	return strings.Join(parts, " ")
}

// mysqlDSN always sets clientFoundRows so an update that changes nothing still
// reports the matched row.
func mysqlDSN(cfg config.DB) string {
	port := cfg.Port
	if port == 0 {
		port = 3306
	}

	params := "parseTime=true&clientFoundRows=true"
	if extras := strings.Trim(strings.TrimSpace(cfg.Extras), "?&"); extras != "" {
		params += "&" + extras
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s",
		cfg.User,
		cfg.Password,
		cfg.Host,
		port,
		cfg.Name,
		params,
	)
}

func ensureParentDir(path string) error {
	if strings.HasPrefix(path, "file:") {
		return nil
	}

	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}

	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return errors.New("database path parent is not a directory")
		}
		return nil
	}

	if os.IsNotExist(err) {
		return os.MkdirAll(dir, 0o755)
	}

	return err
}

// Package sqlite is the relational store behind the forum repositories: a
// single SQLite file reached through gorm on the pure Go modernc driver.
package sqlite

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

type Options struct {
	// MaxOpenConns caps the pool. 1 serializes every call on one connection.
	MaxOpenConns int
	BusyTimeout  time.Duration
	// ForeignKeys turns on SQLite foreign key enforcement. Off by default:
	// dangling references are accepted and simply fail to join.
	ForeignKeys bool
	Logger      gormlogger.Interface
}

func Open(path string, opts Options) (*gorm.DB, error) {
	cfg := &gorm.Config{Logger: gormlogger.Discard}
	if opts.Logger != nil {
		cfg.Logger = opts.Logger
	}

	db, err := gorm.Open(sqlite.Dialector{
		DriverName: "sqlite",
		DSN:        dsn(path, opts),
	}, cfg)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	maxOpen := opts.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = 1
	}
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(maxOpen)

	return db, nil
}

func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// uriPath escapes the bytes SQLite's URI parser would otherwise read as a
// query, fragment or percent escape.
var uriPath = strings.NewReplacer("%", "%25", "?", "%3F", "#", "%23")

// dsn encodes per-connection pragmas the way modernc.org/sqlite expects them.
func dsn(path string, opts Options) string {
	q := url.Values{}
	q.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", opts.BusyTimeout.Milliseconds()))
	if opts.ForeignKeys {
		q.Add("_pragma", "foreign_keys(1)")
	} else {
		q.Add("_pragma", "foreign_keys(0)")
	}
	q.Add("_pragma", "journal_mode(WAL)")
	return "file:" + uriPath.Replace(path) + "?" + q.Encode()
}

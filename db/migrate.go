package db

import (
	"embed"
	"errors"
	"fmt"
	"net/url"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/rqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

const defaultRqlitePort = "4001"

func ParseRqliteURL(s string) (u RqliteURL, err error) {
	parsed, err := url.Parse(s)
	if err != nil {
		return u, fmt.Errorf("db: parse rqlite URL failed: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return u, fmt.Errorf("db: parse rqlite URL failed: invalid scheme %q", parsed.Scheme)
	}
	if parsed.Hostname() == "" {
		return u, fmt.Errorf("db: parse rqlite URL failed: missing host")
	}
	if parsed.Port() == "" {
		parsed.Host = parsed.Hostname() + ":" + defaultRqlitePort
	}
	return RqliteURL{URL: parsed}, nil
}

type RqliteURL struct {
	URL *url.URL
}

func (ru RqliteURL) DataSourceName() string {
	return ru.URL.String()
}

// MigrateDatabaseURL returns the URL in the form expected by the rqlite
// driver of golang-migrate.
func (ru RqliteURL) MigrateDatabaseURL() string {
	u := &url.URL{
		Scheme: "rqlite",
		User:   ru.URL.User,
		Host:   ru.URL.Host,
	}
	if ru.URL.Scheme == "http" {
		q := u.Query()
		q.Set("x-connect-insecure", "true")
		u.RawQuery = q.Encode()
	}
	return u.String()
}

//go:embed migrations/*.sql
var fs embed.FS

func newMigrate(u RqliteURL) (*migrate.Migrate, error) {
	srcDriver, err := iofs.New(fs, "migrations")
	if err != nil {
		return nil, fmt.Errorf("db: migrate failed to create iofs: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", srcDriver, u.MigrateDatabaseURL())
	if err != nil {
		return nil, fmt.Errorf("db: migrate failed to create source instance: %w", err)
	}
	return m, nil
}

func Migrate(u RqliteURL) (err error) {
	m, err := newMigrate(u)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("db: migrate up failed: %w", err)
	}
	return nil
}

// MigrateDown removes the schema. Used to reset test databases.
func MigrateDown(u RqliteURL) (err error) {
	m, err := newMigrate(u)
	if err != nil {
		return err
	}
	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("db: migrate down failed: %w", err)
	}
	return nil
}

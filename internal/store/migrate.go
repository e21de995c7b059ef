package store

import (
	"context"
	"net/url"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/pkg/errors"
)

// Migrator applies the schema in a migrations directory using golang-migrate.
type Migrator struct {
	dsn string
	dir string
}

// NewMigrator migrates dsn from dir. An empty dir means db/migrations under
// the working directory.
func NewMigrator(dsn, dir string) (*Migrator, error) {
	if dsn == "" {
		return nil, errors.New("missing DSN")
	}
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, wrap(err, "working directory")
		}
		dir = filepath.Join(wd, "db", "migrations")
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, wrap(err, "migrations dir")
	}
	return &Migrator{dsn: dsn, dir: abs}, nil
}

func (m *Migrator) sourceURL() string {
	u := url.URL{Scheme: "file", Path: m.dir}
	return u.String()
}

// Up applies every pending migration. It returns ErrNoChange when the schema
// is current.
func (m *Migrator) Up(ctx context.Context) error {
	return m.run(ctx, func(mig *migrate.Migrate) error { return mig.Up() })
}

// Down rolls back one migration.
func (m *Migrator) Down(ctx context.Context) error {
	return m.run(ctx, func(mig *migrate.Migrate) error { return mig.Steps(-1) })
}

func (m *Migrator) run(ctx context.Context, step func(*migrate.Migrate) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	mig, err := migrate.New(m.sourceURL(), m.dsn)
	if err != nil {
		return wrap(err, "open migrations")
	}
	defer mig.Close()
	if err := step(mig); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			return ErrNoChange
		}
		return wrap(err, "migrate")
	}
	return nil
}

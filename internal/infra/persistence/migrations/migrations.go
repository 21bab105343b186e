// Package migrations applies the embedded SQL schema migrations with goose.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"sync"

	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"
)

// TableName is the goose version table.
const TableName = "schema_migrations"

const migrationsDir = "sql"

//go:embed sql/*.sql
var migrationFS embed.FS

// goose keeps its configuration in package globals.
var gooseMu sync.Mutex

// Command names accepted by Run.
const (
	CommandUp      = "up"
	CommandDown    = "down"
	CommandStatus  = "status"
	CommandVersion = "version"
)

// Migrator runs goose commands against a database.
type Migrator struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewMigrator creates a Migrator for db.
func NewMigrator(db *sql.DB, logger *slog.Logger) *Migrator {
	return &Migrator{db: db, logger: logger}
}

// Up applies every pending migration.
func (m *Migrator) Up(ctx context.Context) error {
	return m.Run(ctx, CommandUp)
}

// Run executes a single goose command.
func (m *Migrator) Run(ctx context.Context, command string) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrationFS)
	goose.SetLogger(&slogGooseLogger{logger: m.logger})
	goose.SetTableName(TableName)
	if err := goose.SetDialect("postgres"); err != nil {
		return errors.Wrap(err, "failed to set goose dialect")
	}

	m.logger.Info("Running migrations", slog.String("command", command))

	var err error
	switch command {
	case CommandUp:
		err = goose.UpContext(ctx, m.db, migrationsDir)
	case CommandDown:
		err = goose.DownContext(ctx, m.db, migrationsDir)
	case CommandStatus:
		err = goose.StatusContext(ctx, m.db, migrationsDir)
	case CommandVersion:
		err = goose.VersionContext(ctx, m.db, migrationsDir)
	default:
		return errors.Errorf("unknown migration command %q", command)
	}
	if err != nil {
		return errors.Wrapf(err, "migration %s failed", command)
	}

	return nil
}

// slogGooseLogger adapts goose.Logger to slog. Fatalf does not exit; the error reaches the caller.
type slogGooseLogger struct {
	logger *slog.Logger
}

func (l *slogGooseLogger) Printf(format string, v ...any) {
	l.logger.Info(fmt.Sprintf(format, v...))
}

func (l *slogGooseLogger) Fatalf(format string, v ...any) {
	l.logger.Error(fmt.Sprintf(format, v...))
}

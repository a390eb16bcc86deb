package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
	goosedb "github.com/pressly/goose/v3/database"
	"github.com/rs/zerolog"

	"github.com/IkonicR/ClanOS-sub001/internal/config"
	"github.com/IkonicR/ClanOS-sub001/internal/constants"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// Applied once on open. foreign_keys and busy_timeout are per connection, so
// DSN repeats them for every pooled connection.
var pragmas = [][2]string{
	{"journal_mode", "WAL"},
	{"synchronous", "NORMAL"},
	{"foreign_keys", "ON"},
	{"busy_timeout", "5000"},
	{"cache_size", "-32000"},
	{"temp_store", "MEMORY"},
}

// New opens the war room store and brings its schema up to date.
func New(cfg *config.Config, logger zerolog.Logger) (*sql.DB, error) {
	log := logger.With().Str("db_path", cfg.DBPath).Logger()

	sqlDB, err := sql.Open("sqlite3", DSN(cfg.DBPath))
	if err != nil {
		return nil, fmt.Errorf("failed to open war room store: %w", err)
	}
	sqlDB.SetMaxOpenConns(constants.DBMaxOpenConns)
	sqlDB.SetMaxIdleConns(constants.DBMaxIdleConns)
	sqlDB.SetConnMaxLifetime(constants.DBConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(constants.DBMaxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), constants.DatabaseTimeout)
	defer cancel()

	if err := applyPragmas(ctx, sqlDB); err != nil {
		sqlDB.Close()
		return nil, err
	}
	if err := migrate(context.Background(), sqlDB, log); err != nil {
		sqlDB.Close()
		return nil, err
	}

	log.Info().Msg("war room store ready")
	return sqlDB, nil
}

func applyPragmas(ctx context.Context, sqlDB *sql.DB) error {
	for _, p := range pragmas {
		if _, err := sqlDB.ExecContext(ctx, fmt.Sprintf("PRAGMA %s = %s", p[0], p[1])); err != nil {
			return fmt.Errorf("failed to set PRAGMA %s: %w", p[0], err)
		}
	}
	return nil
}

func migrate(ctx context.Context, sqlDB *sql.DB, log zerolog.Logger) error {
	fsys, err := fs.Sub(embedMigrations, "migrations")
	if err != nil {
		return fmt.Errorf("failed to open embedded migrations: %w", err)
	}

	provider, err := goose.NewProvider(goosedb.DialectSQLite3, sqlDB, fsys)
	if err != nil {
		return fmt.Errorf("failed to create migration provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("failed to migrate war room schema: %w", err)
	}
	for _, r := range results {
		log.Info().
			Int64("version", r.Source.Version).
			Str("file", r.Source.Path).
			Dur("took", r.Duration).
			Msg("migration applied")
	}
	return nil
}

// DSN appends the per-connection pragmas go-sqlite3 understands to a file path.
func DSN(path string) string {
	return fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", path)
}

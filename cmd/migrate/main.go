package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/pageza/recetario/backend/config"
	"github.com/pageza/recetario/backend/internal/logging"
)

const ledgerDDL = `CREATE TABLE IF NOT EXISTS schema_migrations (
	version    VARCHAR(32) PRIMARY KEY,
	name       VARCHAR(255) NOT NULL,
	applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

func main() {
	rollback := flag.Bool("rollback", false, "Rollback the last migration")
	dir := flag.String("dir", "migrations", "Directory holding the SQL files")
	flag.Parse()

	log := logging.New(os.Getenv("LOG_LEVEL"), config.IsProduction())

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		cfg, err := config.LoadConfig()
		if err != nil {
			log.WithError(err).Fatal("DATABASE_URL is not set and configuration could not be loaded")
		}
		dsn = cfg.PostgresDSN()
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}
	defer db.Close()

	if _, err := db.Exec(ledgerDDL); err != nil {
		log.WithError(err).Fatal("failed to create schema_migrations")
	}

	if *rollback {
		name, err := rollbackLast(db, *dir)
		if err != nil {
			log.WithError(err).Fatal("rollback failed")
		}
		log.WithField("migration", name).Info("rolled back")
		return
	}

	applied, err := applyAll(db, *dir, log)
	if err != nil {
		log.WithError(err).Fatal("migration failed")
	}
	log.WithField("applied", applied).Info("all migrations applied")
}

// pending lists the forward migrations in dir, ordered by file name.
// Files ending in _rollback.sql are the reverse of their namesake.
func pending(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read migrations directory: %w", err)
	}
	var files []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || filepath.Ext(name) != ".sql" || strings.HasSuffix(name, "_rollback.sql") {
			continue
		}
		files = append(files, name)
	}
	sort.Strings(files)
	return files, nil
}

// version is the file name prefix up to the first underscore.
func version(file string) string {
	return strings.SplitN(file, "_", 2)[0]
}

func applyAll(db *sql.DB, dir string, log *logrus.Logger) (int, error) {
	files, err := pending(dir)
	if err != nil {
		return 0, err
	}

	applied := 0
	for _, file := range files {
		v := version(file)

		var exists bool
		if err := db.QueryRow("SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE version = $1)", v).Scan(&exists); err != nil {
			return applied, fmt.Errorf("check migration status: %w", err)
		}
		if exists {
			log.WithField("migration", file).Debug("already applied")
			continue
		}

		content, err := os.ReadFile(filepath.Join(dir, file))
		if err != nil {
			return applied, fmt.Errorf("read migration %s: %w", file, err)
		}

		err = inTx(db, func(tx *sql.Tx) error {
			if _, err := tx.Exec(string(content)); err != nil {
				return fmt.Errorf("apply migration %s: %w", file, err)
			}
			_, err := tx.Exec("INSERT INTO schema_migrations (version, name) VALUES ($1, $2)", v, file)
			return err
		})
		if err != nil {
			return applied, err
		}
		log.WithField("migration", file).Info("applied")
		applied++
	}
	return applied, nil
}

func rollbackLast(db *sql.DB, dir string) (string, error) {
	var v, name string
	err := db.QueryRow("SELECT version, name FROM schema_migrations ORDER BY applied_at DESC, version DESC LIMIT 1").Scan(&v, &name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", errors.New("no migrations to rollback")
	}
	if err != nil {
		return "", fmt.Errorf("get last migration: %w", err)
	}

	path := filepath.Join(dir, strings.TrimSuffix(name, ".sql")+"_rollback.sql")
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read rollback file: %w", err)
	}

	err = inTx(db, func(tx *sql.Tx) error {
		if _, err := tx.Exec(string(content)); err != nil {
			return fmt.Errorf("execute rollback: %w", err)
		}
		_, err := tx.Exec("DELETE FROM schema_migrations WHERE version = $1", v)
		return err
	})
	return name, err
}

func inTx(db *sql.DB, fn func(*sql.Tx) error) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

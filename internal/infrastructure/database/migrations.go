package database

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"course-enrollment/pkg/logger"

	"gorm.io/gorm"
)

// Services with their own migration directory under migrations/.
var migrationServices = map[string]bool{
	"catalog":    true,
	"users":      true,
	"enrollment": true,
}

type Migration struct {
	ID          string
	Description string
	SQL         string
	AppliedAt   *time.Time
}

// MigrationRunner applies <id>_<description>.sql files in lexical order and
// records each one in schema_migrations.
type MigrationRunner struct {
	db            *gorm.DB
	migrationsDir string
}

func NewMigrationRunner(db *gorm.DB, migrationsDir string) *MigrationRunner {
	return &MigrationRunner{
		db:            db,
		migrationsDir: migrationsDir,
	}
}

// MigrationsDir returns the directory holding a service's SQL files.
func MigrationsDir(root, service string) (string, error) {
	if !migrationServices[service] {
		return "", fmt.Errorf("unknown service %q: expected catalog, users or enrollment", service)
	}
	return filepath.Join(root, service), nil
}

func (mr *MigrationRunner) ensureMigrationsTable() error {
	return mr.db.Exec(`
	CREATE TABLE IF NOT EXISTS schema_migrations (
		id VARCHAR(255) PRIMARY KEY,
		description TEXT NOT NULL,
		applied_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);`).Error
}

type appliedMigration struct {
	ID        string
	AppliedAt time.Time
}

func (mr *MigrationRunner) appliedMigrations() (map[string]time.Time, error) {
	var rows []appliedMigration
	if err := mr.db.Raw("SELECT id, applied_at FROM schema_migrations ORDER BY id").Scan(&rows).Error; err != nil {
		return nil, err
	}

	applied := make(map[string]time.Time, len(rows))
	for _, row := range rows {
		applied[row.ID] = row.AppliedAt
	}
	return applied, nil
}

// LoadMigrations reads every .sql file of the runner's directory, sorted by name.
func (mr *MigrationRunner) LoadMigrations() ([]*Migration, error) {
	var files []string
	err := filepath.WalkDir(mr.migrationsDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".sql") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list migrations in %s: %w", mr.migrationsDir, err)
	}
	sort.Strings(files)

	migrations := make([]*Migration, 0, len(files))
	for _, file := range files {
		m, err := parseMigrationFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read migration file %s: %w", file, err)
		}
		migrations = append(migrations, m)
	}
	return migrations, nil
}

func parseMigrationFile(path string) (*Migration, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	filename := filepath.Base(path)
	parts := strings.SplitN(filename, "_", 2)
	if len(parts) < 2 || parts[0] == "" {
		return nil, fmt.Errorf("invalid migration filename format: %s", filename)
	}

	description := strings.TrimSuffix(parts[1], ".sql")
	return &Migration{
		ID:          parts[0],
		Description: strings.ReplaceAll(description, "_", " "),
		SQL:         string(content),
	}, nil
}

// RunMigrations applies pending migrations, each in its own transaction,
// and returns how many were applied.
func (mr *MigrationRunner) RunMigrations() (int, error) {
	if err := mr.ensureMigrationsTable(); err != nil {
		return 0, fmt.Errorf("failed to create migrations table: %w", err)
	}

	applied, err := mr.appliedMigrations()
	if err != nil {
		return 0, fmt.Errorf("failed to get applied migrations: %w", err)
	}

	migrations, err := mr.LoadMigrations()
	if err != nil {
		return 0, err
	}

	count := 0
	for _, m := range migrations {
		if _, ok := applied[m.ID]; ok {
			continue
		}

		err := mr.db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Exec(m.SQL).Error; err != nil {
				return fmt.Errorf("failed to execute migration %s: %w", m.ID, err)
			}
			if err := tx.Exec("INSERT INTO schema_migrations (id, description) VALUES (?, ?)",
				m.ID, m.Description).Error; err != nil {
				return fmt.Errorf("failed to record migration %s: %w", m.ID, err)
			}
			return nil
		})
		if err != nil {
			return count, err
		}

		logger.Info("Applied migration: %s - %s", m.ID, m.Description)
		count++
	}

	if count == 0 {
		logger.Info("No pending migrations in %s", mr.migrationsDir)
	}
	return count, nil
}

// Status lists every migration file with its applied time, if any.
func (mr *MigrationRunner) Status() ([]Migration, error) {
	if err := mr.ensureMigrationsTable(); err != nil {
		return nil, fmt.Errorf("failed to create migrations table: %w", err)
	}

	applied, err := mr.appliedMigrations()
	if err != nil {
		return nil, fmt.Errorf("failed to get applied migrations: %w", err)
	}

	migrations, err := mr.LoadMigrations()
	if err != nil {
		return nil, err
	}

	status := make([]Migration, 0, len(migrations))
	for _, m := range migrations {
		if at, ok := applied[m.ID]; ok {
			at := at
			m.AppliedAt = &at
		}
		status = append(status, *m)
	}
	return status, nil
}

package journal

// Embedded-file schema migrations for the scan journal.
//
// Migration SQL lives under migrations/<driver>/ and follows the pattern
// NNNN_name.up.sql / NNNN_name.down.sql, four-digit version first. The
// current schema version is tracked in the SQLite user_version pragma.

import (
	"context"
	"embed"
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
)

//go:embed migrations/**/*.sql
var migrationsFS embed.FS

var reMigrationFilename = regexp.MustCompile(`^(?P<Version>\d{4})\_(?P<Name>[^.]+)\.(?P<Direction>(up|down))\.sql$`)

type schemaMigration struct {
	Version int
	Name    string
	Up      bool
	SQL     string
}

func (p *SQLProvider) GetSchemaVersion(ctx context.Context) (int, error) {
	var version int
	if err := p.db.GetContext(ctx, &version, `PRAGMA user_version`); err != nil {
		return 0, fmt.Errorf("journal: read schema version: %w", err)
	}
	return version, nil
}

func (p *SQLProvider) setSchemaVersion(ctx context.Context, version int) error {
	// PRAGMA does not take bind parameters.
	_, err := p.db.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", version))
	return err
}

// runMigrations applies every pending "up" migration for the driver, in
// version order.
func (p *SQLProvider) runMigrations(driver string) error {
	ctx := context.Background()

	migrations, err := loadMigrations(driver)
	if err != nil {
		return err
	}

	current, err := p.GetSchemaVersion(ctx)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if !m.Up || m.Version <= current {
			continue
		}
		p.logger.Info("Applying journal migration", "version", m.Version, "name", m.Name)
		if _, err := p.db.ExecContext(ctx, m.SQL); err != nil {
			return fmt.Errorf("journal: migration %04d_%s: %w", m.Version, m.Name, err)
		}
		if err := p.setSchemaVersion(ctx, m.Version); err != nil {
			return err
		}
		current = m.Version
	}
	return nil
}

func loadMigrations(driver string) ([]schemaMigration, error) {
	dirPath := filepath.Join("migrations", driver)

	entries, err := migrationsFS.ReadDir(dirPath)
	if err != nil {
		return nil, fmt.Errorf("journal: read migration directory: %w", err)
	}

	var migrations []schemaMigration
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		m, err := parseMigrationFile(filepath.Join(dirPath, entry.Name()))
		if err != nil {
			continue
		}
		migrations = append(migrations, m)
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})
	return migrations, nil
}

func parseMigrationFile(path string) (schemaMigration, error) {
	name := filepath.Base(path)
	match := reMigrationFilename.FindStringSubmatch(name)
	if match == nil {
		return schemaMigration{}, fmt.Errorf("journal: not a migration file: %s", name)
	}

	version, err := strconv.Atoi(match[reMigrationFilename.SubexpIndex("Version")])
	if err != nil {
		return schemaMigration{}, err
	}

	data, err := migrationsFS.ReadFile(path)
	if err != nil {
		return schemaMigration{}, err
	}

	return schemaMigration{
		Version: version,
		Name:    match[reMigrationFilename.SubexpIndex("Name")],
		Up:      match[reMigrationFilename.SubexpIndex("Direction")] == "up",
		SQL:     string(data),
	}, nil
}

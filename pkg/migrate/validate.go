package migrate

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	sqlFileRe     = regexp.MustCompile(`^(\d{14})_[a-z0-9_]+\.sql$`)
	createTableRe = regexp.MustCompile(`(?i)CREATE TABLE\s+(IF NOT EXISTS\s+)?("?[A-Za-z0-9_]+"?)`)
)

// ValidateDir checks migration filenames, version uniqueness, goose markers,
// and table creation collisions without touching a database. Run it in CI
// before deploys.
func ValidateDir(dir string) error {
	if dir == "" {
		return fmt.Errorf("dir is required")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read dir %q: %w", dir, err)
	}

	seen := map[string]string{}    // version -> filename
	created := map[string]string{} // table -> filename that first created it

	// ReadDir sorts by name, which matches goose's version order.
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".sql") {
			continue
		}

		m := sqlFileRe.FindStringSubmatch(name)
		if m == nil {
			return fmt.Errorf("invalid migration filename %q (expected YYYYMMDDHHMMSS_name.sql)", name)
		}
		if prev, ok := seen[m[1]]; ok {
			return fmt.Errorf("duplicate migration version %s in %q and %q", m[1], prev, name)
		}
		seen[m[1]] = name

		b, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return fmt.Errorf("read file %q: %w", name, err)
		}
		txt := string(b)

		for _, marker := range []string{"-- +goose Up", "-- +goose Down"} {
			if !strings.Contains(txt, marker) {
				return fmt.Errorf("migration %q missing %q", name, marker)
			}
		}

		if err := recordCreatedTables(name, txt, created); err != nil {
			return err
		}
	}
	return nil
}

// recordCreatedTables tracks which migration first creates each table and
// rejects a later unconditional re-creation, which would abort goose up on
// a fresh database.
func recordCreatedTables(filename, txt string, created map[string]string) error {
	for _, m := range createTableRe.FindAllStringSubmatch(txt, -1) {
		guarded := m[1] != ""
		table := strings.Trim(strings.ToLower(m[2]), `"`)

		if prev, ok := created[table]; ok && !guarded {
			return fmt.Errorf("migration %q unconditionally re-creates table %q already created by %q", filename, table, prev)
		}
		if _, ok := created[table]; !ok {
			created[table] = filename
		}
	}
	return nil
}

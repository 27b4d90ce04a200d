package repositories

import (
	"context"
	"embed"
	"fmt"
	"sort"
	"strings"

	"github.com/AndreaCerratoSP/CIAMS/shared/go-utils"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// RunMigrations applies the embedded schema files in name order. Every file
// is idempotent, so running it against an initialised database is a no-op.
func RunMigrations(ctx context.Context, db DB) error {
	entries, err := migrationFS.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	for _, name := range names {
		raw, readErr := migrationFS.ReadFile("migrations/" + name)
		if readErr != nil {
			return fmt.Errorf("read migration %s: %w", name, readErr)
		}
		if _, execErr := db.Exec(ctx, string(raw)); execErr != nil {
			return fmt.Errorf("exec migration %s: %w", name, execErr)
		}
		utils.Logger.Debugf("Applied migration %s", name)
	}
	return nil
}

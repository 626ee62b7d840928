package migration

import (
	"io/fs"
	"testing"

	"github.com/smallbiznis/agencydesk/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateSQLiteCreatesEveryTable(t *testing.T) {
	conn, err := db.NewTest()
	require.NoError(t, err)

	require.NoError(t, Migrate(conn))

	for _, table := range []string{
		"users", "clients", "service_packages", "package_task_templates",
		"package_mandate_templates", "package_invoice_templates", "mandates",
		"mandate_tasks", "invoices", "invoice_line_items", "client_packages",
		"contracts", "expenses", "audit_logs",
	} {
		assert.True(t, conn.Migrator().HasTable(table), "missing table %s", table)
	}
}

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	ups, err := fs.Glob(embeddedMigrations, "migrations/*.up.sql")
	require.NoError(t, err)
	downs, err := fs.Glob(embeddedMigrations, "migrations/*.down.sql")
	require.NoError(t, err)

	assert.NotEmpty(t, ups)
	assert.Len(t, downs, len(ups))
}

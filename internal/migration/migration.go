package migration

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	auditdomain "github.com/smallbiznis/agencydesk/internal/audit/domain"
	authdomain "github.com/smallbiznis/agencydesk/internal/auth/domain"
	clientdomain "github.com/smallbiznis/agencydesk/internal/client/domain"
	clientpackagedomain "github.com/smallbiznis/agencydesk/internal/clientpackage/domain"
	contractdomain "github.com/smallbiznis/agencydesk/internal/contract/domain"
	expensedomain "github.com/smallbiznis/agencydesk/internal/expense/domain"
	invoicedomain "github.com/smallbiznis/agencydesk/internal/invoice/domain"
	mandatedomain "github.com/smallbiznis/agencydesk/internal/mandate/domain"
	servicepackagedomain "github.com/smallbiznis/agencydesk/internal/servicepackage/domain"
	"gorm.io/gorm"
)

const migrationsDir = "migrations"

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

// Models lists every table owned by the service, parents first.
func Models() []any {
	return []any{
		&authdomain.User{},
		&clientdomain.Client{},
		&servicepackagedomain.Package{},
		&servicepackagedomain.TaskTemplate{},
		&servicepackagedomain.MandateTemplate{},
		&servicepackagedomain.InvoiceTemplate{},
		&mandatedomain.Mandate{},
		&mandatedomain.Task{},
		&invoicedomain.Invoice{},
		&invoicedomain.LineItem{},
		&clientpackagedomain.ClientPackage{},
		&contractdomain.Contract{},
		&expensedomain.Expense{},
		&auditdomain.AuditLog{},
	}
}

// Migrate applies the embedded SQL migrations on postgres and falls back to
// gorm AutoMigrate for the other dialects.
func Migrate(conn *gorm.DB) error {
	if conn == nil {
		return errors.New("migration database handle is required")
	}
	if conn.Dialector.Name() != "postgres" {
		return conn.AutoMigrate(Models()...)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return err
	}
	return RunMigrations(sqlDB)
}

func RunMigrations(db *sql.DB) error {
	if db == nil {
		return errors.New("migration database handle is required")
	}

	sub, err := fs.Sub(embeddedMigrations, migrationsDir)
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}

	source, err := iofs.New(sub, ".")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}

	migrator, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	upErr := migrator.Up()
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", upErr)
	}
	// Closing the migrator would close the shared *sql.DB.

	return nil
}

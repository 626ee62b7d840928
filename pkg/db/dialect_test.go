package db

import (
	"testing"

	"github.com/smallbiznis/agencydesk/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialectSelectsDriver(t *testing.T) {
	cases := map[string]string{
		"postgres":   "postgres",
		"PostgreSQL": "postgres",
		"mysql":      "mysql",
		"sqlite":     "sqlite",
		"sqlite3":    "sqlite",
	}
	for dbType, want := range cases {
		dialect, err := Dialect(config.Config{DBType: dbType, DBPath: ":memory:"})
		require.NoError(t, err, dbType)
		assert.Equal(t, want, dialect.Name(), dbType)
	}
}

func TestDialectRejectsUnknownType(t *testing.T) {
	_, err := Dialect(config.Config{DBType: "oracle"})
	assert.Error(t, err)
}

func TestDSNPinsUTC(t *testing.T) {
	dsn := DSN(config.Config{
		DBHost: "db", DBPort: "5432", DBUser: "desk", DBPassword: "pw", DBName: "agencydesk", DBSSLMode: "disable",
	})
	assert.Equal(t, "host=db port=5432 user=desk password=pw dbname=agencydesk sslmode=disable TimeZone=UTC", dsn)
}

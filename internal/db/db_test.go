package db

import (
	"testing"

	"digital_wallet/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialector(t *testing.T) {
	for _, driver := range []string{"mysql", "postgres", "sqlite"} {
		d, err := Dialector(&config.Config{DBDriver: driver, DBPath: ":memory:"})
		require.NoError(t, err, driver)
		assert.Equal(t, driver, d.Name())
	}

	_, err := Dialector(&config.Config{DBDriver: "oracle"})
	assert.Error(t, err)
}

func TestOpenAndMigrateSQLite(t *testing.T) {
	gdb, err := Open(&config.Config{DBDriver: "sqlite", DBPath: "file::memory:"})
	require.NoError(t, err)

	require.NoError(t, Migrate(gdb))
	for _, table := range []string{"users", "wallets", "transactions"} {
		assert.True(t, gdb.Migrator().HasTable(table), table)
	}
	assert.True(t, gdb.Migrator().HasIndex("users", "idx_users_email"))
}

package migrations_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"orgaclients/internal/migrations"
	dbm "orgaclients/internal/models/db_models"
	"orgaclients/internal/testdb"
	"orgaclients/pkg/migration"
)

func TestMigrationsUpAndDown(t *testing.T) {
	db := testdb.Open(t)
	runner := migration.New(db, migrations.All())

	ran, err := runner.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"0001_create_users", "0002_create_orders", "0003_create_order_references"}, ran)

	m := db.Migrator()
	assert.True(t, m.HasTable(&dbm.User{}))
	assert.True(t, m.HasTable(&dbm.Order{}))
	assert.True(t, m.HasTable("order_references"))
	assert.True(t, m.HasColumn(&dbm.Order{}, "deposit_is_paid"))
	assert.True(t, m.HasColumn(&dbm.Order{}, "tranche2_proof_url"))
	assert.True(t, m.HasColumn(&dbm.Order{}, "bank_iban"))
	assert.True(t, m.HasColumn(&dbm.Reference{}, "tranche1_paid_at"))

	rolled, err := runner.Rollback(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"0003_create_order_references", "0002_create_orders", "0001_create_users"}, rolled)
	assert.False(t, m.HasTable(&dbm.Order{}))
}

// Every column the models map must exist in the migrated schema, so a model
// change without a new migration is caught here.
func TestMigratedSchemaCoversModels(t *testing.T) {
	db := testdb.Migrated(t)

	for _, model := range []interface{}{&dbm.User{}, &dbm.Order{}, &dbm.Reference{}} {
		stmt := &gorm.Statement{DB: db}
		require.NoError(t, stmt.Parse(model))
		for _, column := range stmt.Schema.DBNames {
			assert.True(t, db.Migrator().HasColumn(model, column), "%s.%s", stmt.Schema.Table, column)
		}
	}
	assert.True(t, db.Migrator().HasIndex(&dbm.Order{}, "idx_orders_client_email"))
}

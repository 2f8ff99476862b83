// Package migrations registers the schema versions of the service.
package migrations

import (
	"orgaclients/pkg/migration"
)

// All returns every registered migration; the runner sorts them by name.
func All() []migration.Named {
	return []migration.Named{
		{Name: "0001_create_users", Migration: createUsers{}},
		{Name: "0002_create_orders", Migration: createOrders{}},
		{Name: "0003_create_order_references", Migration: createOrderReferences{}},
	}
}

package migrations

import (
	"gorm.io/gorm"

	adminpostgres "github.com/husnhira/storefront/internal/domains/admin/adapters/persistence/postgres"
	orderspostgres "github.com/husnhira/storefront/internal/domains/orders/adapters/persistence/postgres"
)

// Run applies the relational schema owned by the storefront: orders with the
// unique orderId index and the admin session table.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&orderspostgres.OrderRecord{},
		&adminpostgres.SessionRecord{},
	)
}

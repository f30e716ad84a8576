package postgres

import (
	"context"
	"fmt"

	"parceltrack/internal/adapters/out/postgres/deliveryrepo"
	"parceltrack/internal/adapters/out/postgres/userrepo"

	"gorm.io/gorm"
)

// spatialIndexes back the nearest-first driver search and area filters.
// GORM tags cannot express expression indexes, so they are created by hand.
var spatialIndexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_deliveries_pickup_point ON deliveries USING gist ((point(pickup_lon, pickup_lat)))`,
	`CREATE INDEX IF NOT EXISTS idx_deliveries_delivery_point ON deliveries USING gist ((point(delivery_lon, delivery_lat)))`,
	`CREATE INDEX IF NOT EXISTS idx_users_location_point ON users USING gist ((point(location_lon, location_lat))) WHERE location_lon IS NOT NULL`,
}

// Migrate creates or updates the schema for every table the service owns.
func Migrate(ctx context.Context, db *gorm.DB) error {
	conn := db.WithContext(ctx)

	if err := conn.AutoMigrate(
		&userrepo.UserDTO{},
		&deliveryrepo.DeliveryDTO{},
		&deliveryrepo.TimelineEntryDTO{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	for _, stmt := range spatialIndexes {
		if err := conn.Exec(stmt).Error; err != nil {
			return fmt.Errorf("create spatial index: %w", err)
		}
	}

	return nil
}

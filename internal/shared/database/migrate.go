package database

import (
	"fmt"

	"gorm.io/gorm"
)

// migrations holds the schema statements in apply order. Every statement
// must be idempotent so the migration step can be re-run on each deploy.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS assets (
		asset_id BIGSERIAL PRIMARY KEY,
		uploaded BOOLEAN NOT NULL DEFAULT FALSE,
		url      TEXT    NOT NULL DEFAULT ''
	)`,
}

// Migrate applies the schema migrations. It is run explicitly at deploy
// time (see cmd/migrate), never from the request path.
func Migrate(db *gorm.DB) error {
	for i, stmt := range migrations {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("apply migration %d: %w", i+1, err)
		}
	}
	return nil
}

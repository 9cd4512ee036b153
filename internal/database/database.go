package database

import (
	"log"
	"strings"

	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	_ "modernc.org/sqlite"

	"btploc/internal/domain"
)

func Connect(dsn string) (*gorm.DB, error) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		log.Println("Connecting to PostgreSQL...")
		return gorm.Open(postgres.Open(dsn), &gorm.Config{})
	}

	log.Println("Using SQLite for local development:", dsn)

	return gorm.Open(
		gormsqlite.New(gormsqlite.Config{
			DriverName: "sqlite",
			DSN:        dsn,
		}),
		&gorm.Config{},
	)
}

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&domain.User{},
		&domain.Materiel{},
		&domain.Location{},
		&domain.Invoice{},
		&domain.Payment{},
		&domain.Favorite{},
		&domain.Notification{},
		&domain.SupportTicket{},
	)
	if err != nil {
		return err
	}
	return applyPostgresConstraints(db)
}

// applyPostgresConstraints installs the exclusion constraint that is the
// final authority against double-booking: two locations on the same materiel
// in a blocking status may never hold intersecting (inclusive) date ranges.
// The application-level conflict check is only the fast path; this constraint
// closes the race between two concurrent creations.
func applyPostgresConstraints(db *gorm.DB) error {
	if db.Dialector.Name() != "postgres" {
		return nil
	}

	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS btree_gist`,
		`ALTER TABLE locations ADD CONSTRAINT ex_locations_no_overlap
EXCLUDE USING gist (
    materiel_id WITH =,
    tstzrange(start_date, end_date, '[]') WITH &&
) WHERE (status IN ('pending', 'confirmed', 'active'))`,
	}

	for _, stmt := range stmts {
		if err := db.Exec(stmt).Error; err != nil {
			if strings.Contains(err.Error(), "already exists") {
				continue
			}
			return err
		}
	}
	return nil
}

package database

import (
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

func Connect(dbURL string) (*sqlx.DB, error) {
	log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	log.Println("🔌 DATABASE CONNECTION ATTEMPT")
	log.Printf("   📍 Database URL length: %d characters", len(dbURL))
	log.Printf("   📍 URL prefix: %s...", dbURL[:min(30, len(dbURL))])
	log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")

	db, err := sqlx.Connect("postgres", dbURL)
	if err != nil {
		log.Println("❌ DATABASE CONNECTION FAILED AT sqlx.Connect()")
		log.Printf("   Error: %v", err)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Ping(); err != nil {
		log.Println("❌ DATABASE CONNECTION FAILED AT Ping()")
		log.Printf("   Error: %v", err)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("✅ DATABASE CONNECTION SUCCESSFUL")
	return db, nil
}

func Migrate(db *sqlx.DB) error {
	migrations := []string{
		// Create profiles table (auth principal + application profile in one row)
		`CREATE TABLE IF NOT EXISTS profiles (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL,
			name TEXT NOT NULL,
			role TEXT NOT NULL CHECK(role IN ('super_vendor', 'sub_vendor')),
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			updated_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT
		)`,

		// Create vehicles table
		`CREATE TABLE IF NOT EXISTS vehicles (
			id TEXT PRIMARY KEY,
			vendor_id TEXT NOT NULL,
			vehicle_number TEXT NOT NULL UNIQUE,
			model TEXT NOT NULL,
			capacity INT NOT NULL CHECK(capacity >= 0),
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			updated_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			FOREIGN KEY (vendor_id) REFERENCES profiles(id) ON DELETE CASCADE
		)`,

		// Create drivers table
		`CREATE TABLE IF NOT EXISTS drivers (
			id TEXT PRIMARY KEY,
			vendor_id TEXT NOT NULL,
			driver_name TEXT NOT NULL,
			license_number TEXT NOT NULL UNIQUE,
			assigned_vehicle TEXT,
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			updated_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			FOREIGN KEY (vendor_id) REFERENCES profiles(id) ON DELETE CASCADE,
			FOREIGN KEY (assigned_vehicle) REFERENCES vehicles(id) ON DELETE SET NULL
		)`,

		// Owner-scoped list queries filter on vendor_id
		`CREATE INDEX IF NOT EXISTS idx_vehicles_vendor_id ON vehicles(vendor_id)`,
		`CREATE INDEX IF NOT EXISTS idx_drivers_vendor_id ON drivers(vendor_id)`,
		`CREATE INDEX IF NOT EXISTS idx_drivers_assigned_vehicle ON drivers(assigned_vehicle)`,
	}

	for i, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	return nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

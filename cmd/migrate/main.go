package main

import (
	"fmt"
	"log"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"vendorflow-backend/internal/database"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Get database URL
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	// Connect to database
	db, err := sqlx.Connect("postgres", dbURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	log.Println("Connected to database successfully")

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Println("Migrations applied")

	if err := database.SeedProfiles(db); err != nil {
		log.Fatalf("Profile seeding failed: %v", err)
	}
	if os.Getenv("APP_SEED_DEMO_DATA") != "false" {
		if err := database.SeedDemoFleet(db); err != nil {
			log.Fatalf("Demo fleet seeding failed: %v", err)
		}
	}

	// Query and display summary
	var result struct {
		Profiles int `db:"profiles"`
		Vehicles int `db:"vehicles"`
		Drivers  int `db:"drivers"`
	}

	query := `
		SELECT
			(SELECT COUNT(*) FROM profiles) AS profiles,
			(SELECT COUNT(*) FROM vehicles) AS vehicles,
			(SELECT COUNT(*) FROM drivers) AS drivers
	`

	if err := db.Get(&result, query); err != nil {
		log.Fatalf("Failed to query summary: %v", err)
	}

	fmt.Println("\n============================================================")
	fmt.Println("MIGRATION SUMMARY")
	fmt.Println("============================================================")
	fmt.Printf("Profiles: %d\n", result.Profiles)
	fmt.Printf("Vehicles: %d\n", result.Vehicles)
	fmt.Printf("Drivers:  %d\n", result.Drivers)
	fmt.Println("============================================================")
}

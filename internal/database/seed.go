package database

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"vendorflow-backend/internal/models"
)

// SeedProfiles creates the initial super vendor account. Skipped when any
// profile already exists.
func SeedProfiles(db *sqlx.DB) error {
	var count int
	if err := db.Get(&count, "SELECT COUNT(*) FROM profiles"); err != nil {
		return err
	}

	if count > 0 {
		log.Println("✓ Profiles already seeded, skipping...")
		return nil
	}

	log.Println("🌱 Seeding super vendor account...")

	hashed, err := bcrypt.GenerateFromPassword([]byte("changeme123"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash seed password: %w", err)
	}

	now := time.Now().Unix()
	_, err = db.Exec(`
		INSERT INTO profiles (id, email, password, name, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, uuid.New().String(), "admin@vendorflow.app", string(hashed), "VendorFlow Admin", models.RoleSuperVendor, now, now)
	if err != nil {
		return fmt.Errorf("failed to seed super vendor: %w", err)
	}

	log.Println("✅ Super vendor seeded (admin@vendorflow.app)")
	return nil
}

// SeedDemoFleet creates one sub vendor with a small fleet for local
// development. Skipped when any sub vendor already exists.
func SeedDemoFleet(db *sqlx.DB) error {
	var count int
	if err := db.Get(&count, "SELECT COUNT(*) FROM profiles WHERE role = $1", models.RoleSubVendor); err != nil {
		return err
	}

	if count > 0 {
		log.Println("✓ Demo fleet already seeded, skipping...")
		return nil
	}

	log.Println("🌱 Seeding demo sub vendor fleet...")

	hashed, err := bcrypt.GenerateFromPassword([]byte("changeme123"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash seed password: %w", err)
	}

	now := time.Now().Unix()
	vendorID := uuid.New().String()

	tx, err := db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO profiles (id, email, password, name, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, vendorID, "vendor@vendorflow.app", string(hashed), "Demo Vendor", models.RoleSubVendor, now, now)
	if err != nil {
		return fmt.Errorf("failed to seed sub vendor: %w", err)
	}

	vehicles := []struct {
		Number   string
		Model    string
		Capacity int
	}{
		{"KA-01-AB-1234", "Tata Ace", 2},
		{"KA-01-CD-5678", "Mahindra Bolero", 7},
		{"KA-02-EF-9012", "Ashok Leyland Dost", 3},
	}

	vehicleIDs := make([]string, 0, len(vehicles))
	for _, v := range vehicles {
		id := uuid.New().String()
		vehicleIDs = append(vehicleIDs, id)
		_, err = tx.Exec(`
			INSERT INTO vehicles (id, vendor_id, vehicle_number, model, capacity, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, id, vendorID, v.Number, v.Model, v.Capacity, now, now)
		if err != nil {
			return fmt.Errorf("failed to seed vehicle %s: %w", v.Number, err)
		}
	}

	drivers := []struct {
		Name    string
		License string
		Vehicle *string
	}{
		{"Ravi Kumar", "DL-2020-0012345", &vehicleIDs[0]},
		{"Suresh Patil", "DL-2019-0067890", &vehicleIDs[1]},
		{"Anil Sharma", "DL-2021-0024680", nil},
	}

	for _, d := range drivers {
		_, err = tx.Exec(`
			INSERT INTO drivers (id, vendor_id, driver_name, license_number, assigned_vehicle, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, uuid.New().String(), vendorID, d.Name, d.License, d.Vehicle, now, now)
		if err != nil {
			return fmt.Errorf("failed to seed driver %s: %w", d.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	log.Printf("✅ Demo fleet seeded (%d vehicles, %d drivers)", len(vehicles), len(drivers))
	return nil
}

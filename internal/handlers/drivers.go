package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"vendorflow-backend/internal/middleware"
	"vendorflow-backend/internal/models"
	"vendorflow-backend/pkg/utils"
)

// ListDrivers returns the caller's own drivers with their assigned vehicle
// number joined in, or every driver plus the owning vendor's name for the
// super vendor.
func ListDrivers(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		var drivers []models.Driver
		var err error
		if user.Role() == models.RoleSuperVendor {
			err = db.Select(&drivers, `
				SELECT d.id, d.vendor_id, d.driver_name, d.license_number, d.assigned_vehicle,
				       d.created_at, d.updated_at, p.name AS vendor_name, v.vehicle_number
				FROM drivers d
				JOIN profiles p ON p.id = d.vendor_id
				LEFT JOIN vehicles v ON v.id = d.assigned_vehicle
				ORDER BY d.created_at DESC
			`)
		} else {
			err = db.Select(&drivers, `
				SELECT d.id, d.vendor_id, d.driver_name, d.license_number, d.assigned_vehicle,
				       d.created_at, d.updated_at, v.vehicle_number
				FROM drivers d
				LEFT JOIN vehicles v ON v.id = d.assigned_vehicle
				WHERE d.vendor_id = $1
				ORDER BY d.created_at DESC
			`, user.Identity.UserID)
		}
		if err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch drivers")
			return
		}

		responses := make([]models.DriverResponse, len(drivers))
		for i, d := range drivers {
			responses[i] = d.ToDriverResponse()
		}
		utils.RespondJSON(w, http.StatusOK, responses)
	}
}

// vehicleOwnedBy reports whether vehicleID exists and belongs to vendorID.
// The assigned_vehicle cross-ownership constraint is enforced here, on
// every write that sets it.
func vehicleOwnedBy(db *sqlx.DB, vehicleID, vendorID string) (bool, error) {
	var id string
	err := db.Get(&id, `SELECT id FROM vehicles WHERE id = $1 AND vendor_id = $2`, vehicleID, vendorID)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// CreateDriver inserts a driver owned by the caller. An assigned vehicle
// must belong to the same vendor.
func CreateDriver(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		var req models.CreateDriverRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		req.DriverName = strings.TrimSpace(req.DriverName)
		req.LicenseNumber = strings.TrimSpace(req.LicenseNumber)
		if req.DriverName == "" || req.LicenseNumber == "" {
			utils.RespondError(w, http.StatusBadRequest, "Driver name and license number are required")
			return
		}

		if req.AssignedVehicle != nil && *req.AssignedVehicle != "" {
			owned, err := vehicleOwnedBy(db, *req.AssignedVehicle, user.Identity.UserID)
			if err != nil {
				utils.RespondError(w, http.StatusInternalServerError, "Database error")
				return
			}
			if !owned {
				utils.RespondError(w, http.StatusBadRequest, models.ErrVehicleNotOwned.Error())
				return
			}
		} else {
			req.AssignedVehicle = nil
		}

		now := time.Now().Unix()
		driver := models.Driver{
			ID:              uuid.New().String(),
			VendorID:        user.Identity.UserID,
			DriverName:      req.DriverName,
			LicenseNumber:   req.LicenseNumber,
			AssignedVehicle: req.AssignedVehicle,
			CreatedAt:       now,
			UpdatedAt:       now,
		}

		_, err := db.Exec(`
			INSERT INTO drivers (id, vendor_id, driver_name, license_number, assigned_vehicle, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, driver.ID, driver.VendorID, driver.DriverName, driver.LicenseNumber, driver.AssignedVehicle, driver.CreatedAt, driver.UpdatedAt)
		if err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to create driver")
			return
		}

		utils.RespondJSON(w, http.StatusCreated, driver.ToDriverResponse())
	}
}

// UpdateDriver modifies a driver the caller owns.
func UpdateDriver(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		id := chi.URLParam(r, "id")
		if id == "" {
			utils.RespondError(w, http.StatusBadRequest, "Driver id is required")
			return
		}

		var req models.UpdateDriverRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		var existing models.Driver
		err := db.Get(&existing, `
			SELECT id, vendor_id, driver_name, license_number, assigned_vehicle, created_at, updated_at
			FROM drivers
			WHERE id = $1 AND vendor_id = $2
		`, id, user.Identity.UserID)
		if errors.Is(err, sql.ErrNoRows) {
			utils.RespondError(w, http.StatusNotFound, "Driver not found")
			return
		}
		if err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Database error")
			return
		}

		if req.DriverName != nil {
			existing.DriverName = strings.TrimSpace(*req.DriverName)
		}
		if req.LicenseNumber != nil {
			existing.LicenseNumber = strings.TrimSpace(*req.LicenseNumber)
		}
		if existing.DriverName == "" || existing.LicenseNumber == "" {
			utils.RespondError(w, http.StatusBadRequest, "Driver name and license number are required")
			return
		}

		if req.ClearVehicle {
			existing.AssignedVehicle = nil
		} else if req.AssignedVehicle != nil && *req.AssignedVehicle != "" {
			owned, err := vehicleOwnedBy(db, *req.AssignedVehicle, user.Identity.UserID)
			if err != nil {
				utils.RespondError(w, http.StatusInternalServerError, "Database error")
				return
			}
			if !owned {
				utils.RespondError(w, http.StatusBadRequest, models.ErrVehicleNotOwned.Error())
				return
			}
			existing.AssignedVehicle = req.AssignedVehicle
		}
		existing.UpdatedAt = time.Now().Unix()

		_, err = db.Exec(`
			UPDATE drivers
			SET driver_name = $1, license_number = $2, assigned_vehicle = $3, updated_at = $4
			WHERE id = $5 AND vendor_id = $6
		`, existing.DriverName, existing.LicenseNumber, existing.AssignedVehicle, existing.UpdatedAt, id, user.Identity.UserID)
		if err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to update driver")
			return
		}

		utils.RespondJSON(w, http.StatusOK, existing.ToDriverResponse())
	}
}

// DeleteDriver removes a driver the caller owns.
func DeleteDriver(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		id := chi.URLParam(r, "id")
		if id == "" {
			utils.RespondError(w, http.StatusBadRequest, "Driver id is required")
			return
		}

		result, err := db.Exec(`DELETE FROM drivers WHERE id = $1 AND vendor_id = $2`, id, user.Identity.UserID)
		if err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to delete driver")
			return
		}
		if rows, err := result.RowsAffected(); err == nil && rows == 0 {
			utils.RespondError(w, http.StatusNotFound, "Driver not found")
			return
		}

		utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"success": true})
	}
}

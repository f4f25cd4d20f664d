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

// ListVehicles returns the caller's own vehicles, or every vehicle with
// the owning vendor's name joined in for the super vendor.
func ListVehicles(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		var vehicles []models.Vehicle
		var err error
		if user.Role() == models.RoleSuperVendor {
			err = db.Select(&vehicles, `
				SELECT v.id, v.vendor_id, v.vehicle_number, v.model, v.capacity,
				       v.created_at, v.updated_at, p.name AS vendor_name
				FROM vehicles v
				JOIN profiles p ON p.id = v.vendor_id
				ORDER BY v.created_at DESC
			`)
		} else {
			err = db.Select(&vehicles, `
				SELECT id, vendor_id, vehicle_number, model, capacity,
				       created_at, updated_at
				FROM vehicles
				WHERE vendor_id = $1
				ORDER BY created_at DESC
			`, user.Identity.UserID)
		}
		if err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch vehicles")
			return
		}

		responses := make([]models.VehicleResponse, len(vehicles))
		for i, v := range vehicles {
			responses[i] = v.ToVehicleResponse()
		}
		utils.RespondJSON(w, http.StatusOK, responses)
	}
}

// CreateVehicle inserts a vehicle owned by the caller. The owner key is
// always the caller's identity, never a client-supplied vendor_id.
func CreateVehicle(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		var req models.CreateVehicleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		req.VehicleNumber = strings.TrimSpace(req.VehicleNumber)
		req.Model = strings.TrimSpace(req.Model)
		if req.VehicleNumber == "" || req.Model == "" {
			utils.RespondError(w, http.StatusBadRequest, "Vehicle number and model are required")
			return
		}
		if req.Capacity < 0 {
			utils.RespondError(w, http.StatusBadRequest, "Capacity must not be negative")
			return
		}

		now := time.Now().Unix()
		vehicle := models.Vehicle{
			ID:            uuid.New().String(),
			VendorID:      user.Identity.UserID,
			VehicleNumber: req.VehicleNumber,
			Model:         req.Model,
			Capacity:      req.Capacity,
			CreatedAt:     now,
			UpdatedAt:     now,
		}

		_, err := db.Exec(`
			INSERT INTO vehicles (id, vendor_id, vehicle_number, model, capacity, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, vehicle.ID, vehicle.VendorID, vehicle.VehicleNumber, vehicle.Model, vehicle.Capacity, vehicle.CreatedAt, vehicle.UpdatedAt)
		if err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to create vehicle")
			return
		}

		utils.RespondJSON(w, http.StatusCreated, vehicle.ToVehicleResponse())
	}
}

// UpdateVehicle modifies a vehicle the caller owns.
func UpdateVehicle(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		id := chi.URLParam(r, "id")
		if id == "" {
			utils.RespondError(w, http.StatusBadRequest, "Vehicle id is required")
			return
		}

		var req models.UpdateVehicleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		// Ownership check doubles as existence check
		var existing models.Vehicle
		err := db.Get(&existing, `
			SELECT id, vendor_id, vehicle_number, model, capacity, created_at, updated_at
			FROM vehicles
			WHERE id = $1 AND vendor_id = $2
		`, id, user.Identity.UserID)
		if errors.Is(err, sql.ErrNoRows) {
			utils.RespondError(w, http.StatusNotFound, "Vehicle not found")
			return
		}
		if err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Database error")
			return
		}

		if req.VehicleNumber != nil {
			existing.VehicleNumber = strings.TrimSpace(*req.VehicleNumber)
		}
		if req.Model != nil {
			existing.Model = strings.TrimSpace(*req.Model)
		}
		if req.Capacity != nil {
			if *req.Capacity < 0 {
				utils.RespondError(w, http.StatusBadRequest, "Capacity must not be negative")
				return
			}
			existing.Capacity = *req.Capacity
		}
		if existing.VehicleNumber == "" || existing.Model == "" {
			utils.RespondError(w, http.StatusBadRequest, "Vehicle number and model are required")
			return
		}
		existing.UpdatedAt = time.Now().Unix()

		_, err = db.Exec(`
			UPDATE vehicles
			SET vehicle_number = $1, model = $2, capacity = $3, updated_at = $4
			WHERE id = $5 AND vendor_id = $6
		`, existing.VehicleNumber, existing.Model, existing.Capacity, existing.UpdatedAt, id, user.Identity.UserID)
		if err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to update vehicle")
			return
		}

		utils.RespondJSON(w, http.StatusOK, existing.ToVehicleResponse())
	}
}

// DeleteVehicle removes a vehicle the caller owns. Drivers assigned to it
// are unassigned by the schema (ON DELETE SET NULL).
func DeleteVehicle(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		id := chi.URLParam(r, "id")
		if id == "" {
			utils.RespondError(w, http.StatusBadRequest, "Vehicle id is required")
			return
		}

		result, err := db.Exec(`DELETE FROM vehicles WHERE id = $1 AND vendor_id = $2`, id, user.Identity.UserID)
		if err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to delete vehicle")
			return
		}
		if rows, err := result.RowsAffected(); err == nil && rows == 0 {
			utils.RespondError(w, http.StatusNotFound, "Vehicle not found")
			return
		}

		utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"success": true})
	}
}

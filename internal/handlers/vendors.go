package handlers

import (
	"net/http"

	"github.com/jmoiron/sqlx"

	"vendorflow-backend/internal/models"
	"vendorflow-backend/pkg/utils"
)

// ListVendors returns every sub vendor profile. Super vendor only; the
// route guard enforces the role before this runs.
func ListVendors(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var vendors []models.Profile
		err := db.Select(&vendors, `
			SELECT id, email, name, role, created_at, updated_at
			FROM profiles
			WHERE role = $1
			ORDER BY created_at DESC
		`, models.RoleSubVendor)
		if err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch vendors")
			return
		}

		responses := make([]models.ProfileResponse, len(vendors))
		for i, v := range vendors {
			responses[i] = v.ToProfileResponse()
		}
		utils.RespondJSON(w, http.StatusOK, responses)
	}
}

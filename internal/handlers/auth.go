package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"vendorflow-backend/internal/auth"
	"vendorflow-backend/internal/metrics"
	"vendorflow-backend/internal/middleware"
	"vendorflow-backend/internal/models"
	"vendorflow-backend/internal/websocket"
	"vendorflow-backend/pkg/utils"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	OK    bool                    `json:"ok"`
	Token string                  `json:"token,omitempty"`
	User  *models.ProfileResponse `json:"user,omitempty"`
}

func Login(store *auth.Store, collector *metrics.Collector, wsHub *websocket.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		session, profile, err := store.SignInWithPassword(req.Email, req.Password)
		if err != nil {
			collector.RecordSignInFailure()
			if errors.Is(err, models.ErrInvalidCredentials) {
				utils.RespondJSON(w, http.StatusUnauthorized, LoginResponse{OK: false})
				return
			}
			log.Printf("❌ Login failed for %s: %v", req.Email, err)
			utils.RespondJSON(w, http.StatusInternalServerError, LoginResponse{OK: false})
			return
		}

		collector.RecordSignIn()

		// Other open connections of the same user learn about the new
		// session immediately
		wsHub.BroadcastToUser(session.Identity.UserID, models.SessionEvent{
			Type:    models.SessionSignedIn,
			Session: &models.Session{Identity: session.Identity},
		})

		userResponse := profile.ToProfileResponse()
		utils.RespondJSON(w, http.StatusOK, LoginResponse{
			OK:    true,
			Token: session.Token,
			User:  &userResponse,
		})
	}
}

type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role"` // "super_vendor" or "sub_vendor"
}

type SignupResponse struct {
	Success bool                    `json:"success"`
	User    *models.ProfileResponse `json:"user,omitempty"`
	Message string                  `json:"message,omitempty"`
}

// Signup creates the auth principal and its profile row in one step. The
// client signs in afterwards; no session is issued here.
func Signup(store *auth.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Println("📥 REQUEST: POST /api/auth/signup - Create new account")

		var req SignupRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("❌ Invalid request body: %v", err)
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if req.Email == "" || req.Password == "" || req.Name == "" || req.Role == "" {
			log.Println("❌ Missing required fields")
			utils.RespondError(w, http.StatusBadRequest, "Email, password, name, and role are required")
			return
		}

		if !models.ValidRole(req.Role) {
			log.Printf("❌ Invalid role: %s", req.Role)
			utils.RespondError(w, http.StatusBadRequest, "Role must be 'super_vendor' or 'sub_vendor'")
			return
		}

		profile, err := store.SignUp(req.Email, req.Password, req.Name, req.Role)
		if err != nil {
			if errors.Is(err, models.ErrEmailTaken) {
				log.Printf("❌ Account already exists: %s", req.Email)
				utils.RespondError(w, http.StatusConflict, "An account with this email already exists")
				return
			}
			log.Printf("❌ Signup failed: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to create account")
			return
		}

		userResponse := profile.ToProfileResponse()
		utils.RespondJSON(w, http.StatusCreated, SignupResponse{
			Success: true,
			User:    &userResponse,
			Message: "Account created successfully",
		})
	}
}

// Logout emits the signed_out event. The token itself is stateless; the
// client discards it.
func Logout(store *auth.Store, collector *metrics.Collector, wsHub *websocket.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, _ := middleware.GetUserFromContext(r)
		var session *models.Session
		if user != nil {
			session = &models.Session{Identity: user.Identity}
		}

		store.SignOut(session)
		collector.RecordSignOut()
		if user != nil {
			wsHub.BroadcastToUser(user.Identity.UserID, models.SessionEvent{Type: models.SessionSignedOut})
		}
		utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"success": true})
	}
}

type AuthStatusResponse struct {
	Authenticated bool                    `json:"authenticated"`
	Degraded      bool                    `json:"degraded"` // identity without a resolved profile
	Identity      *models.Identity        `json:"identity,omitempty"`
	Profile       *models.ProfileResponse `json:"profile,omitempty"`
}

// GetAuthStatus reports the caller's resolved auth state, including the
// degraded identity-without-profile case.
func GetAuthStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondJSON(w, http.StatusOK, AuthStatusResponse{Authenticated: false})
			return
		}

		resp := AuthStatusResponse{
			Authenticated: true,
			Degraded:      user.Profile == nil,
			Identity:      &user.Identity,
		}
		if user.Profile != nil {
			profileResponse := user.Profile.ToProfileResponse()
			resp.Profile = &profileResponse
		}
		utils.RespondJSON(w, http.StatusOK, resp)
	}
}

package models

// Role values stored in the profiles table.
const (
	RoleSuperVendor = "super_vendor"
	RoleSubVendor   = "sub_vendor"
)

// ValidRole reports whether role is one of the two tenant roles.
func ValidRole(role string) bool {
	return role == RoleSuperVendor || role == RoleSubVendor
}

type Profile struct {
	ID        string `json:"id" db:"id"`
	Email     string `json:"email" db:"email"`
	Password  string `json:"-" db:"password"` // Never return password in JSON
	Name      string `json:"name" db:"name"`
	Role      string `json:"role" db:"role"` // "super_vendor" or "sub_vendor"
	CreatedAt int64  `json:"created_at" db:"created_at"`
	UpdatedAt int64  `json:"updated_at" db:"updated_at"`
}

type ProfileResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	CreatedAt int64  `json:"created_at"`
}

func (p *Profile) ToProfileResponse() ProfileResponse {
	return ProfileResponse{
		ID:        p.ID,
		Email:     p.Email,
		Name:      p.Name,
		Role:      p.Role,
		CreatedAt: p.CreatedAt,
	}
}

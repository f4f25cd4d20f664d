package models

type Vehicle struct {
	ID            string  `json:"id" db:"id"`
	VendorID      string  `json:"vendor_id" db:"vendor_id"`
	VehicleNumber string  `json:"vehicle_number" db:"vehicle_number"`
	Model         string  `json:"model" db:"model"`
	Capacity      int     `json:"capacity" db:"capacity"`
	CreatedAt     int64   `json:"created_at" db:"created_at"`
	UpdatedAt     int64   `json:"updated_at" db:"updated_at"`
	VendorName    *string `json:"vendor_name,omitempty" db:"vendor_name"` // Joined profile name for super_vendor views
}

type VehicleResponse struct {
	ID            string  `json:"id"`
	VendorID      string  `json:"vendor_id"`
	VehicleNumber string  `json:"vehicle_number"`
	Model         string  `json:"model"`
	Capacity      int     `json:"capacity"`
	CreatedAt     int64   `json:"created_at"`
	VendorName    *string `json:"vendor_name,omitempty"`
}

func (v *Vehicle) ToVehicleResponse() VehicleResponse {
	return VehicleResponse{
		ID:            v.ID,
		VendorID:      v.VendorID,
		VehicleNumber: v.VehicleNumber,
		Model:         v.Model,
		Capacity:      v.Capacity,
		CreatedAt:     v.CreatedAt,
		VendorName:    v.VendorName,
	}
}

type CreateVehicleRequest struct {
	VehicleNumber string `json:"vehicle_number"`
	Model         string `json:"model"`
	Capacity      int    `json:"capacity"`
}

type UpdateVehicleRequest struct {
	VehicleNumber *string `json:"vehicle_number"`
	Model         *string `json:"model"`
	Capacity      *int    `json:"capacity"`
}

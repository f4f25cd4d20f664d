package models

type Driver struct {
	ID              string  `json:"id" db:"id"`
	VendorID        string  `json:"vendor_id" db:"vendor_id"`
	DriverName      string  `json:"driver_name" db:"driver_name"`
	LicenseNumber   string  `json:"license_number" db:"license_number"`
	AssignedVehicle *string `json:"assigned_vehicle" db:"assigned_vehicle"` // Vehicle ID, must belong to the same vendor
	CreatedAt       int64   `json:"created_at" db:"created_at"`
	UpdatedAt       int64   `json:"updated_at" db:"updated_at"`
	VendorName      *string `json:"vendor_name,omitempty" db:"vendor_name"`         // Joined profile name for super_vendor views
	VehicleNumber   *string `json:"vehicle_number,omitempty" db:"vehicle_number"`   // Joined from assigned vehicle
}

type DriverResponse struct {
	ID              string  `json:"id"`
	VendorID        string  `json:"vendor_id"`
	DriverName      string  `json:"driver_name"`
	LicenseNumber   string  `json:"license_number"`
	AssignedVehicle *string `json:"assigned_vehicle"`
	CreatedAt       int64   `json:"created_at"`
	VendorName      *string `json:"vendor_name,omitempty"`
	VehicleNumber   *string `json:"vehicle_number,omitempty"`
}

func (d *Driver) ToDriverResponse() DriverResponse {
	return DriverResponse{
		ID:              d.ID,
		VendorID:        d.VendorID,
		DriverName:      d.DriverName,
		LicenseNumber:   d.LicenseNumber,
		AssignedVehicle: d.AssignedVehicle,
		CreatedAt:       d.CreatedAt,
		VendorName:      d.VendorName,
		VehicleNumber:   d.VehicleNumber,
	}
}

type CreateDriverRequest struct {
	DriverName      string  `json:"driver_name"`
	LicenseNumber   string  `json:"license_number"`
	AssignedVehicle *string `json:"assigned_vehicle"`
}

type UpdateDriverRequest struct {
	DriverName      *string `json:"driver_name"`
	LicenseNumber   *string `json:"license_number"`
	AssignedVehicle *string `json:"assigned_vehicle"`
	ClearVehicle    bool    `json:"clear_vehicle"` // Explicitly unassign; distinguishes null from omitted
}

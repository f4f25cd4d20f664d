package models

import "errors"

var (
	// ErrNotFound indicates the requested row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrEmailTaken indicates a sign-up conflict on the email column.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials indicates a failed email/password check.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrVehicleNotOwned indicates an assigned_vehicle reference to a
	// vehicle owned by a different vendor.
	ErrVehicleNotOwned = errors.New("vehicle does not belong to this vendor")
)

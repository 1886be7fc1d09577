package models

// DeviceType classifies an inventory item (laptop, monitor, printer, ...).
// Reference data: items point at it, nothing owns it, deletion is blocked
// while items still reference it.
type DeviceType struct {
	ID   int    `json:"id" db:"id"`
	Name string `json:"name" binding:"required" db:"name"`
}

// ItemState describes where an item is in its lifecycle (active, in repair,
// decommissioned, in storage, ...).
type ItemState struct {
	ID          int    `json:"id" db:"id"`
	Name        string `json:"name" binding:"required" db:"name"`
	Description string `json:"description" db:"description"`
}

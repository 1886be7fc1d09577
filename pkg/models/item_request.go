package models

import "time"

// ItemRequest is the candidate record for creating an item. Serial and
// quantity are taken as declared; the service validates the mode invariant
// and normalizes them before anything is persisted.
type ItemRequest struct {
	ManagesQuantity bool     `json:"manages_quantity"`
	Quantity        *int     `json:"quantity"`
	Serial          *string  `json:"serial"`
	DeviceTypeID    int      `json:"device_type_id" binding:"required"`
	StateID         int      `json:"state_id"`
	Brand           string   `json:"brand" binding:"required"`
	Model           string   `json:"model" binding:"required"`
	Location        string   `json:"location" binding:"required"`
	Description     string   `json:"description"`
	AcquisitionDate string   `json:"acquisition_date" binding:"required"`
	Price           *float64 `json:"price"`
}

// PatchItemRequest carries a partial update. Absent fields keep their stored
// values; the merged record is re-validated in full so a partial update can
// never bypass the serial/quantity invariant.
type PatchItemRequest struct {
	ManagesQuantity *bool    `json:"manages_quantity"`
	Quantity        *int     `json:"quantity"`
	Serial          *string  `json:"serial"`
	DeviceTypeID    *int     `json:"device_type_id"`
	StateID         *int     `json:"state_id"`
	Brand           *string  `json:"brand"`
	Model           *string  `json:"model"`
	Location        *string  `json:"location"`
	Description     *string  `json:"description"`
	AcquisitionDate *string  `json:"acquisition_date"`
	Price           *float64 `json:"price"`
}

// ItemCandidate is the fully merged record handed to validation. For creates
// it mirrors the request; for updates it is the stored item with the changed
// fields applied on top.
type ItemCandidate struct {
	ManagesQuantity bool
	Quantity        *int
	Serial          *string
	DeviceTypeID    int
	StateID         int
	Brand           string
	Model           string
	Location        string
	Description     string
	AcquisitionDate time.Time
	Price           *float64
}

// NormalizedItem is a candidate whose serial/quantity pair has been forced
// into the canonical shape for its mode. Only this form is persisted.
type NormalizedItem struct {
	ManagesQuantity bool
	Quantity        int
	Serial          *string
	DeviceTypeID    int
	StateID         int
	Brand           string
	Model           string
	Location        string
	Description     string
	AcquisitionDate time.Time
	Price           *float64
}

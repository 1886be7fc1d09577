package models

import (
	"time"
)

// InventoryItem is the central inventory entity. Every item is in exactly one
// of two tracking modes: serialized (unique serial, quantity fixed at 1) or
// quantity-tracked (no serial, quantity >= 1).
type InventoryItem struct {
	ID              int         `json:"id" db:"item_id"`
	ManagesQuantity bool        `json:"manages_quantity"`
	Quantity        int         `json:"quantity"`
	Serial          *string     `json:"serial"`
	DeviceType      DeviceType  `json:"device_type"`
	State           ItemState   `json:"state"`
	Brand           string      `json:"brand"`
	Model           string      `json:"model"`
	Location        string      `json:"location"`
	Description     string      `json:"description,omitempty"`
	AcquisitionDate time.Time   `json:"acquisition_date"`
	Price           *float64    `json:"price,omitempty"`
	ImagePath       *string     `json:"image_path,omitempty"`
	RegisteredBy    *AccountRef `json:"registered_by,omitempty"`
	RegisteredAt    time.Time   `json:"registered_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

func (i *InventoryItem) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   i.ID,
		ResourceType: "item",
	}
}

// UnitCount is how many physical units the item represents. Serialized items
// always count as one.
func (i *InventoryItem) UnitCount() int {
	if i.ManagesQuantity {
		return i.Quantity
	}
	return 1
}

// FlatItemRecord is the row shape produced by the item select with its
// device-type, state and registrant joins.
type FlatItemRecord struct {
	ID               int       `db:"item_id"`
	ManagesQuantity  bool      `db:"manages_quantity"`
	Quantity         int       `db:"quantity"`
	Serial           *string   `db:"serial"`
	Brand            string    `db:"brand"`
	Model            string    `db:"model"`
	Location         string    `db:"location"`
	Description      string    `db:"description"`
	AcquisitionDate  time.Time `db:"acquisition_date"`
	Price            *float64  `db:"price"`
	ImagePath        *string   `db:"image_path"`
	RegisteredAt     time.Time `db:"registered_at"`
	UpdatedAt        time.Time `db:"updated_at"`
	DeviceTypeID     int       `db:"device_type_id"`
	DeviceTypeName   string    `db:"device_type_name"`
	StateID          int       `db:"state_id"`
	StateName        string    `db:"state_name"`
	StateDescription string    `db:"state_description"`
	RegistrantID     *int      `db:"registrant_id"`
	RegistrantEmail  *string   `db:"registrant_email"`
}

func (f *FlatItemRecord) TransformToItem() InventoryItem {
	item := InventoryItem{
		ID:              f.ID,
		ManagesQuantity: f.ManagesQuantity,
		Quantity:        f.Quantity,
		Serial:          f.Serial,
		Brand:           f.Brand,
		Model:           f.Model,
		Location:        f.Location,
		Description:     f.Description,
		AcquisitionDate: f.AcquisitionDate,
		Price:           f.Price,
		ImagePath:       f.ImagePath,
		RegisteredAt:    f.RegisteredAt,
		UpdatedAt:       f.UpdatedAt,
		DeviceType: DeviceType{
			ID:   f.DeviceTypeID,
			Name: f.DeviceTypeName,
		},
		State: ItemState{
			ID:          f.StateID,
			Name:        f.StateName,
			Description: f.StateDescription,
		},
	}

	if f.RegistrantID != nil {
		ref := AccountRef{ID: *f.RegistrantID}
		if f.RegistrantEmail != nil {
			ref.Email = *f.RegistrantEmail
		}
		item.RegisteredBy = &ref
	}

	return item
}

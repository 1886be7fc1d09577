package items

import (
	"strings"

	"github.com/Cedhu-Sog/IT-CEDHU/pkg/apperrors"
	"github.com/Cedhu-Sog/IT-CEDHU/pkg/models"
)

// ValidateAndNormalize enforces the tracking-mode invariant and canonicalizes
// the record. Validation runs against the fields as submitted; normalization
// rewrites them only after every check has passed, so a record never stores a
// value the caller did not effectively declare.
//
// Serialized items (manages_quantity false) must carry a serial and always
// store quantity 1. Quantity-tracked items must not carry a serial and store
// an explicit quantity of at least 1. All problems found in one pass are
// collected into a single field-tagged error.
func ValidateAndNormalize(candidate models.ItemCandidate) (*models.NormalizedItem, *apperrors.ValidationError) {
	verr := apperrors.NewValidationError()

	serial := candidate.Serial
	if serial != nil {
		trimmed := strings.ToUpper(strings.TrimSpace(*serial))
		if trimmed == "" {
			serial = nil
		} else {
			serial = &trimmed
		}
	}

	quantity := 1
	if candidate.ManagesQuantity {
		if serial != nil {
			verr.Add("serial", "quantity-tracked items must not have a serial")
			verr.Add("manages_quantity", "disable quantity tracking to assign a unique serial")
		}
		serial = nil
		if candidate.Quantity == nil || *candidate.Quantity < 1 {
			verr.Add("quantity", "must supply a valid quantity (minimum 1)")
		} else {
			quantity = *candidate.Quantity
		}
	} else {
		if serial == nil {
			verr.Add("serial", "must provide a unique serial for individually tracked items")
		}
	}

	if candidate.DeviceTypeID <= 0 {
		verr.Add("device_type_id", "must reference a device type")
	}
	if candidate.StateID <= 0 {
		verr.Add("state_id", "must reference an item state")
	}
	if strings.TrimSpace(candidate.Brand) == "" {
		verr.Add("brand", "must not be empty")
	}
	if strings.TrimSpace(candidate.Model) == "" {
		verr.Add("model", "must not be empty")
	}
	if strings.TrimSpace(candidate.Location) == "" {
		verr.Add("location", "must not be empty")
	}
	if candidate.AcquisitionDate.IsZero() {
		verr.Add("acquisition_date", "must provide the acquisition date")
	}
	if candidate.Price != nil && *candidate.Price < 0 {
		verr.Add("price", "must not be negative")
	}

	if verr.HasErrors() {
		return nil, verr
	}

	return &models.NormalizedItem{
		ManagesQuantity: candidate.ManagesQuantity,
		Quantity:        quantity,
		Serial:          serial,
		DeviceTypeID:    candidate.DeviceTypeID,
		StateID:         candidate.StateID,
		Brand:           strings.TrimSpace(candidate.Brand),
		Model:           strings.TrimSpace(candidate.Model),
		Location:        strings.TrimSpace(candidate.Location),
		Description:     strings.TrimSpace(candidate.Description),
		AcquisitionDate: candidate.AcquisitionDate,
		Price:           candidate.Price,
	}, nil
}

// AsCandidate turns a normalized record back into a candidate. Running a
// normalized record through ValidateAndNormalize again yields the same
// result.
func AsCandidate(n models.NormalizedItem) models.ItemCandidate {
	quantity := n.Quantity
	return models.ItemCandidate{
		ManagesQuantity: n.ManagesQuantity,
		Quantity:        &quantity,
		Serial:          n.Serial,
		DeviceTypeID:    n.DeviceTypeID,
		StateID:         n.StateID,
		Brand:           n.Brand,
		Model:           n.Model,
		Location:        n.Location,
		Description:     n.Description,
		AcquisitionDate: n.AcquisitionDate,
		Price:           n.Price,
	}
}

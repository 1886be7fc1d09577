package items

import (
	"testing"
	"time"

	"github.com/Cedhu-Sog/IT-CEDHU/pkg/models"

	"github.com/stretchr/testify/assert"
)

func validCandidate() models.ItemCandidate {
	serial := "SN-001"
	return models.ItemCandidate{
		ManagesQuantity: false,
		Serial:          &serial,
		DeviceTypeID:    1,
		StateID:         1,
		Brand:           "Dell",
		Model:           "Latitude 5440",
		Location:        "HQ / Floor 2",
		AcquisitionDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestValidateAndNormalizeSerializedItems(t *testing.T) {
	t.Run("valid serialized item stores quantity 1", func(t *testing.T) {
		quantity := 7
		candidate := validCandidate()
		candidate.Quantity = &quantity

		normalized, verr := ValidateAndNormalize(candidate)

		assert.Nil(t, verr)
		assert.Equal(t, 1, normalized.Quantity)
		assert.Equal(t, "SN-001", *normalized.Serial)
	})

	t.Run("serial is trimmed and uppercased", func(t *testing.T) {
		serial := "  sn-abc-9  "
		candidate := validCandidate()
		candidate.Serial = &serial

		normalized, verr := ValidateAndNormalize(candidate)

		assert.Nil(t, verr)
		assert.Equal(t, "SN-ABC-9", *normalized.Serial)
	})

	t.Run("missing serial is rejected", func(t *testing.T) {
		candidate := validCandidate()
		candidate.Serial = nil

		normalized, verr := ValidateAndNormalize(candidate)

		assert.Nil(t, normalized)
		assert.Contains(t, verr.Fields["serial"], "must provide a unique serial for individually tracked items")
	})

	t.Run("blank serial is rejected", func(t *testing.T) {
		serial := "   "
		candidate := validCandidate()
		candidate.Serial = &serial

		normalized, verr := ValidateAndNormalize(candidate)

		assert.Nil(t, normalized)
		assert.Contains(t, verr.Fields, "serial")
	})
}

func TestValidateAndNormalizeQuantityItems(t *testing.T) {
	t.Run("valid quantity item", func(t *testing.T) {
		quantity := 25
		candidate := validCandidate()
		candidate.ManagesQuantity = true
		candidate.Serial = nil
		candidate.Quantity = &quantity

		normalized, verr := ValidateAndNormalize(candidate)

		assert.Nil(t, verr)
		assert.Equal(t, 25, normalized.Quantity)
		assert.Nil(t, normalized.Serial)
	})

	t.Run("serial on quantity item flags both fields", func(t *testing.T) {
		quantity := 5
		serial := "SN-OOPS"
		candidate := validCandidate()
		candidate.ManagesQuantity = true
		candidate.Serial = &serial
		candidate.Quantity = &quantity

		normalized, verr := ValidateAndNormalize(candidate)

		assert.Nil(t, normalized)
		assert.Contains(t, verr.Fields["serial"], "quantity-tracked items must not have a serial")
		assert.Contains(t, verr.Fields["manages_quantity"], "disable quantity tracking to assign a unique serial")
	})

	t.Run("missing quantity is rejected", func(t *testing.T) {
		candidate := validCandidate()
		candidate.ManagesQuantity = true
		candidate.Serial = nil
		candidate.Quantity = nil

		normalized, verr := ValidateAndNormalize(candidate)

		assert.Nil(t, normalized)
		assert.Contains(t, verr.Fields["quantity"], "must supply a valid quantity (minimum 1)")
	})

	t.Run("zero and negative quantities are rejected", func(t *testing.T) {
		for _, quantity := range []int{0, -3} {
			q := quantity
			candidate := validCandidate()
			candidate.ManagesQuantity = true
			candidate.Serial = nil
			candidate.Quantity = &q

			normalized, verr := ValidateAndNormalize(candidate)

			assert.Nil(t, normalized)
			assert.Contains(t, verr.Fields, "quantity")
		}
	})
}

func TestValidateAndNormalizeCollectsAllErrors(t *testing.T) {
	quantity := 0
	serial := "SN-BAD"
	candidate := models.ItemCandidate{
		ManagesQuantity: true,
		Serial:          &serial,
		Quantity:        &quantity,
	}

	normalized, verr := ValidateAndNormalize(candidate)

	assert.Nil(t, normalized)
	for _, field := range []string{"serial", "manages_quantity", "quantity", "device_type_id", "state_id", "brand", "model", "location", "acquisition_date"} {
		assert.Contains(t, verr.Fields, field, "expected error for field %s", field)
	}
}

func TestValidateAndNormalizeFieldChecks(t *testing.T) {
	t.Run("negative price is rejected", func(t *testing.T) {
		price := -10.0
		candidate := validCandidate()
		candidate.Price = &price

		_, verr := ValidateAndNormalize(candidate)

		assert.NotNil(t, verr)
		assert.Contains(t, verr.Fields, "price")
	})

	t.Run("text fields are trimmed", func(t *testing.T) {
		candidate := validCandidate()
		candidate.Brand = "  Dell  "
		candidate.Location = " HQ "

		normalized, verr := ValidateAndNormalize(candidate)

		assert.Nil(t, verr)
		assert.Equal(t, "Dell", normalized.Brand)
		assert.Equal(t, "HQ", normalized.Location)
	})
}

func TestNormalizationIsIdempotent(t *testing.T) {
	quantity := 12
	serialized := validCandidate()
	quantityTracked := models.ItemCandidate{
		ManagesQuantity: true,
		Quantity:        &quantity,
		DeviceTypeID:    2,
		StateID:         1,
		Brand:           "Logitech",
		Model:           "MX Keys",
		Location:        "Storage",
		AcquisitionDate: time.Date(2023, 11, 20, 0, 0, 0, 0, time.UTC),
	}

	for _, candidate := range []models.ItemCandidate{serialized, quantityTracked} {
		first, verr := ValidateAndNormalize(candidate)
		assert.Nil(t, verr)

		second, verr := ValidateAndNormalize(AsCandidate(*first))
		assert.Nil(t, verr)
		assert.Equal(t, first, second)
	}
}

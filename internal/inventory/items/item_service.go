package items

import (
	"fmt"
	"time"

	"github.com/Cedhu-Sog/IT-CEDHU/pkg/apperrors"
	"github.com/Cedhu-Sog/IT-CEDHU/pkg/auditlog"
	"github.com/Cedhu-Sog/IT-CEDHU/pkg/models"
)

const acquisitionDateLayout = "2006-01-02"

// StateResolver supplies the default item state for create requests that do
// not name one. Implemented by the catalog repository.
type StateResolver interface {
	GetDefaultStateID() (int, error)
}

// ItemService owns the item lifecycle. Every mutation path funnels through
// ValidateAndNormalize, so the serial/quantity invariant holds no matter
// which entry point the record came from.
type ItemService struct {
	itemRepo ItemRepository
	states   StateResolver
	auditLog *auditlog.Auditlog
}

func NewItemService(itemRepo ItemRepository, states StateResolver, auditLog *auditlog.Auditlog) *ItemService {
	return &ItemService{
		itemRepo: itemRepo,
		states:   states,
		auditLog: auditLog,
	}
}

// Create validates and normalizes the candidate, stamps the registering
// account and persists. A serial collision surfaces as a unique-violation
// error from the store, distinct from structural validation failures.
func (s *ItemService) Create(req models.ItemRequest, actorID int) (*models.InventoryItem, error) {
	candidate, verr := s.candidateFromRequest(req)
	if verr != nil {
		return nil, verr
	}

	if candidate.StateID == 0 {
		stateID, err := s.states.GetDefaultStateID()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve default item state: %w", err)
		}
		candidate.StateID = stateID
	}

	normalized, verr := ValidateAndNormalize(*candidate)
	if verr != nil {
		return nil, verr
	}

	item, err := s.itemRepo.CreateItem(*normalized, actorID)
	if err != nil {
		return nil, err
	}

	go s.auditLog.Log(
		"create",
		map[string]interface{}{
			"serial":           item.Serial,
			"manages_quantity": item.ManagesQuantity,
			"quantity":         item.Quantity,
			"msg":              "Inventory item registered",
		},
		item,
		&actorID,
	)

	return item, nil
}

// Update loads the stored item, applies the changed fields on top and re-runs
// the full validation against the merged candidate. Partial updates cannot
// bypass the invariant.
func (s *ItemService) Update(id int, req models.PatchItemRequest) (*models.InventoryItem, error) {
	existing, err := s.itemRepo.GetItem(id)
	if err != nil {
		return nil, err
	}

	candidate, verr := mergeCandidate(existing, req)
	if verr != nil {
		return nil, verr
	}

	normalized, verr := ValidateAndNormalize(*candidate)
	if verr != nil {
		return nil, verr
	}

	item, err := s.itemRepo.UpdateItem(id, *normalized)
	if err != nil {
		return nil, err
	}

	go s.auditLog.Log(
		"update",
		map[string]interface{}{
			"serial":           item.Serial,
			"manages_quantity": item.ManagesQuantity,
			"quantity":         item.Quantity,
			"msg":              "Inventory item updated",
		},
		item,
		nil,
	)

	return item, nil
}

// Delete hard-deletes the item. There is no soft delete or versioning.
func (s *ItemService) Delete(id int) error {
	item, err := s.itemRepo.GetItem(id)
	if err != nil {
		return err
	}

	if err := s.itemRepo.DeleteItem(id); err != nil {
		return err
	}

	go s.auditLog.Log(
		"delete",
		map[string]interface{}{
			"serial": item.Serial,
			"msg":    "Inventory item removed",
		},
		item,
		nil,
	)

	return nil
}

func (s *ItemService) Get(id int) (*models.InventoryItem, error) {
	return s.itemRepo.GetItem(id)
}

// TotalUnits is the on-hand unit count across the whole inventory: stored
// quantity for quantity-tracked items, exactly 1 per serialized item.
func (s *ItemService) TotalUnits() (int, error) {
	return s.itemRepo.TotalUnits()
}

func (s *ItemService) CountItems() (int, error) {
	return s.itemRepo.CountItems()
}

func (s *ItemService) candidateFromRequest(req models.ItemRequest) (*models.ItemCandidate, *apperrors.ValidationError) {
	acquisitionDate, verr := parseAcquisitionDate(req.AcquisitionDate)
	if verr != nil {
		return nil, verr
	}

	return &models.ItemCandidate{
		ManagesQuantity: req.ManagesQuantity,
		Quantity:        req.Quantity,
		Serial:          req.Serial,
		DeviceTypeID:    req.DeviceTypeID,
		StateID:         req.StateID,
		Brand:           req.Brand,
		Model:           req.Model,
		Location:        req.Location,
		Description:     req.Description,
		AcquisitionDate: acquisitionDate,
		Price:           req.Price,
	}, nil
}

func mergeCandidate(existing *models.InventoryItem, req models.PatchItemRequest) (*models.ItemCandidate, *apperrors.ValidationError) {
	quantity := existing.Quantity
	candidate := models.ItemCandidate{
		ManagesQuantity: existing.ManagesQuantity,
		Quantity:        &quantity,
		Serial:          existing.Serial,
		DeviceTypeID:    existing.DeviceType.ID,
		StateID:         existing.State.ID,
		Brand:           existing.Brand,
		Model:           existing.Model,
		Location:        existing.Location,
		Description:     existing.Description,
		AcquisitionDate: existing.AcquisitionDate,
		Price:           existing.Price,
	}

	if req.ManagesQuantity != nil {
		candidate.ManagesQuantity = *req.ManagesQuantity
	}
	if req.Quantity != nil {
		candidate.Quantity = req.Quantity
	}
	if req.Serial != nil {
		candidate.Serial = req.Serial
	}
	if req.DeviceTypeID != nil {
		candidate.DeviceTypeID = *req.DeviceTypeID
	}
	if req.StateID != nil {
		candidate.StateID = *req.StateID
	}
	if req.Brand != nil {
		candidate.Brand = *req.Brand
	}
	if req.Model != nil {
		candidate.Model = *req.Model
	}
	if req.Location != nil {
		candidate.Location = *req.Location
	}
	if req.Description != nil {
		candidate.Description = *req.Description
	}
	if req.AcquisitionDate != nil {
		acquisitionDate, verr := parseAcquisitionDate(*req.AcquisitionDate)
		if verr != nil {
			return nil, verr
		}
		candidate.AcquisitionDate = acquisitionDate
	}
	if req.Price != nil {
		candidate.Price = req.Price
	}

	return &candidate, nil
}

func parseAcquisitionDate(value string) (time.Time, *apperrors.ValidationError) {
	parsed, err := time.Parse(acquisitionDateLayout, value)
	if err != nil {
		verr := apperrors.NewValidationError()
		verr.Add("acquisition_date", fmt.Sprintf("must be a date in %s format", acquisitionDateLayout))
		return time.Time{}, verr
	}
	return parsed, nil
}

package catalog

import (
	"fmt"

	"github.com/Cedhu-Sog/IT-CEDHU/internal/repository"
	"github.com/Cedhu-Sog/IT-CEDHU/pkg/apperrors"
	"github.com/Cedhu-Sog/IT-CEDHU/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"
)

// CatalogRepository manages the immutable reference data items point at:
// device types and item states. Names are unique; deletion is blocked while
// items still reference an entry (FK RESTRICT, mapped to a conflict).
type CatalogRepository interface {
	GetDeviceTypes() ([]models.DeviceType, error)
	PersistDeviceType(deviceType models.DeviceType) (*models.DeviceType, error)
	DeleteDeviceType(id int) error
	GetItemStates() ([]models.ItemState, error)
	PersistItemState(state models.ItemState) (*models.ItemState, error)
	DeleteItemState(id int) error
	GetDefaultStateID() (int, error)
}

type catalogRepositoryImpl struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) CatalogRepository {
	return &catalogRepositoryImpl{repository: r}
}

func (r *catalogRepositoryImpl) GetDeviceTypes() ([]models.DeviceType, error) {
	var deviceTypes []models.DeviceType
	query := r.repository.GoquDBWrapper.
		Select("id", "name").
		From("device_types").
		Order(goqu.I("name").Asc())

	if err := query.Executor().ScanStructs(&deviceTypes); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	return deviceTypes, nil
}

func (r *catalogRepositoryImpl) PersistDeviceType(deviceType models.DeviceType) (*models.DeviceType, error) {
	query := r.repository.GoquDBWrapper.Insert("device_types").
		Rows(goqu.Record{"name": deviceType.Name}).
		Returning("id")

	if _, err := query.Executor().ScanVal(&deviceType.ID); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return nil, apperrors.WrapDBError("device type name already exists", "name", string(pqErr.Code))
		}
		return nil, fmt.Errorf("failed to insert device type: %w", err)
	}

	return &deviceType, nil
}

func (r *catalogRepositoryImpl) DeleteDeviceType(id int) error {
	result, err := r.repository.GoquDBWrapper.
		Delete("device_types").
		Where(goqu.Ex{"id": id}).
		Executor().
		Exec()
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return apperrors.WrapDBError("device type is still referenced by inventory items", "name", string(pqErr.Code))
		}
		return fmt.Errorf("failed to delete device type: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

func (r *catalogRepositoryImpl) GetItemStates() ([]models.ItemState, error) {
	var states []models.ItemState
	query := r.repository.GoquDBWrapper.
		Select("id", "name", "description").
		From("item_states").
		Order(goqu.I("name").Asc())

	if err := query.Executor().ScanStructs(&states); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	return states, nil
}

func (r *catalogRepositoryImpl) PersistItemState(state models.ItemState) (*models.ItemState, error) {
	query := r.repository.GoquDBWrapper.Insert("item_states").
		Rows(goqu.Record{
			"name":        state.Name,
			"description": state.Description,
		}).
		Returning("id")

	if _, err := query.Executor().ScanVal(&state.ID); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return nil, apperrors.WrapDBError("item state name already exists", "name", string(pqErr.Code))
		}
		return nil, fmt.Errorf("failed to insert item state: %w", err)
	}

	return &state, nil
}

func (r *catalogRepositoryImpl) DeleteItemState(id int) error {
	result, err := r.repository.GoquDBWrapper.
		Delete("item_states").
		Where(goqu.Ex{"id": id}).
		Executor().
		Exec()
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return apperrors.WrapDBError("item state is still referenced by inventory items", "name", string(pqErr.Code))
		}
		return fmt.Errorf("failed to delete item state: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

// GetDefaultStateID is the state applied to new items when the request does
// not name one. The seed migration guarantees at least one state exists.
func (r *catalogRepositoryImpl) GetDefaultStateID() (int, error) {
	var stateID int
	query := r.repository.GoquDBWrapper.
		Select("id").
		From("item_states").
		Order(goqu.I("id").Asc()).
		Limit(1)

	found, err := query.Executor().ScanVal(&stateID)
	if err != nil {
		return 0, fmt.Errorf("failed to resolve default state: %w", err)
	}
	if !found {
		return 0, apperrors.ErrNotFound
	}

	return stateID, nil
}

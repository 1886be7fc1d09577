package items

import (
	"fmt"
	"time"

	"github.com/Cedhu-Sog/IT-CEDHU/internal/repository"
	"github.com/Cedhu-Sog/IT-CEDHU/pkg/apperrors"
	"github.com/Cedhu-Sog/IT-CEDHU/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"
)

// ItemRepository is the persistence boundary for inventory items. Every write
// of the serial/quantity pair goes through a normalized record, and every
// create/update runs in its own transaction so a unique-constraint failure at
// commit never leaves a partial row behind.
type ItemRepository interface {
	GetItem(id int) (*models.InventoryItem, error)
	GetItemsBy(conditions repository.QueryBuilder) ([]models.InventoryItem, error)
	CreateItem(normalized models.NormalizedItem, actorID int) (*models.InventoryItem, error)
	UpdateItem(id int, normalized models.NormalizedItem) (*models.InventoryItem, error)
	DeleteItem(id int) error
	UpdateImagePath(id int, path string) error
	TotalUnits() (int, error)
	CountItems() (int, error)
	GetItemsForReport() ([]models.FlatItemRecord, error)
}

type itemRepositoryImpl struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) ItemRepository {
	return &itemRepositoryImpl{repository: r}
}

func (r *itemRepositoryImpl) GetItem(id int) (*models.InventoryItem, error) {
	query := r.getItemQuery().Where(goqu.Ex{"i.id": id})

	var flat models.FlatItemRecord
	found, err := query.Executor().ScanStruct(&flat)
	if err != nil {
		return nil, fmt.Errorf("unable to select item from database: %w", err)
	}
	if !found {
		return nil, apperrors.ErrNotFound
	}

	item := flat.TransformToItem()
	return &item, nil
}

func (r *itemRepositoryImpl) GetItemsBy(conditions repository.QueryBuilder) ([]models.InventoryItem, error) {
	aliases := map[string]string{
		"device_type_id":   "i.device_type_id",
		"state_id":         "i.state_id",
		"manages_quantity": "i.manages_quantity",
		"brand":            "i.brand",
		"model":            "i.model",
		"location":         "i.location",
		"serial":           "i.serial",
		"acquisition_date": "i.acquisition_date",
	}

	query := r.getItemQuery().Order(goqu.I("i.id").Asc())
	for _, condition := range conditions.BuildConditions(aliases) {
		query = query.Where(condition)
	}

	var flatItems []models.FlatItemRecord
	if err := query.Executor().ScanStructs(&flatItems); err != nil {
		return nil, fmt.Errorf("unable to select items from database: %w", err)
	}

	items := make([]models.InventoryItem, 0, len(flatItems))
	for _, flat := range flatItems {
		items = append(items, flat.TransformToItem())
	}

	return items, nil
}

func (r *itemRepositoryImpl) CreateItem(normalized models.NormalizedItem, actorID int) (*models.InventoryItem, error) {
	var itemID int

	err := repository.WithTransaction(r.repository.GoquDBWrapper, func(tx *goqu.TxDatabase) error {
		record := itemRecord(normalized)
		record["registered_by"] = actorID
		record["registered_at"] = time.Now()
		record["updated_at"] = time.Now()

		query := tx.Insert("items").Rows(record).Returning("id")
		if _, err := query.Executor().ScanVal(&itemID); err != nil {
			if pqErr, ok := err.(*pq.Error); ok {
				return categorizeItemWriteError(pqErr)
			}
			return fmt.Errorf("failed to insert item record: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return r.GetItem(itemID)
}

func (r *itemRepositoryImpl) UpdateItem(id int, normalized models.NormalizedItem) (*models.InventoryItem, error) {
	err := repository.WithTransaction(r.repository.GoquDBWrapper, func(tx *goqu.TxDatabase) error {
		record := itemRecord(normalized)
		record["updated_at"] = time.Now()

		result, err := tx.Update("items").
			Set(record).
			Where(goqu.Ex{"id": id}).
			Executor().
			Exec()
		if err != nil {
			if pqErr, ok := err.(*pq.Error); ok {
				return categorizeItemWriteError(pqErr)
			}
			return fmt.Errorf("failed to update item record: %w", err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rowsAffected == 0 {
			return apperrors.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return r.GetItem(id)
}

func (r *itemRepositoryImpl) DeleteItem(id int) error {
	result, err := r.repository.GoquDBWrapper.
		Delete("items").
		Where(goqu.Ex{"id": id}).
		Executor().
		Exec()
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
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

func (r *itemRepositoryImpl) UpdateImagePath(id int, path string) error {
	result, err := r.repository.GoquDBWrapper.
		Update("items").
		Set(goqu.Record{"image_path": path, "updated_at": time.Now()}).
		Where(goqu.Ex{"id": id}).
		Executor().
		Exec()
	if err != nil {
		return fmt.Errorf("failed to update item image: %w", err)
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

// TotalUnits sums on-hand units across the inventory. Serialized rows carry a
// stored quantity of 1, so a plain SUM matches the invariant.
func (r *itemRepositoryImpl) TotalUnits() (int, error) {
	var total int
	query := r.repository.GoquDBWrapper.
		Select(goqu.L("COALESCE(SUM(quantity), 0)")).
		From("items")

	if _, err := query.Executor().ScanVal(&total); err != nil {
		return 0, fmt.Errorf("failed to sum item quantities: %w", err)
	}

	return total, nil
}

func (r *itemRepositoryImpl) CountItems() (int, error) {
	var count int
	query := r.repository.GoquDBWrapper.
		Select(goqu.COUNT("*")).
		From("items")

	if _, err := query.Executor().ScanVal(&count); err != nil {
		return 0, fmt.Errorf("failed to count items: %w", err)
	}

	return count, nil
}

func (r *itemRepositoryImpl) GetItemsForReport() ([]models.FlatItemRecord, error) {
	query := r.getItemQuery().Order(goqu.I("i.id").Asc())

	var flatItems []models.FlatItemRecord
	if err := query.Executor().ScanStructs(&flatItems); err != nil {
		return nil, fmt.Errorf("failed to fetch report data: %w", err)
	}

	return flatItems, nil
}

// categorizeItemWriteError maps constraint failures on item writes to their
// error type. Only the serial column carries a unique constraint, and only
// device_type_id and state_id carry foreign keys.
func categorizeItemWriteError(pqErr *pq.Error) error {
	switch string(pqErr.Code) {
	case "23505":
		return apperrors.WrapDBError("duplicate serial for inventory item", "serial", "23505")
	case "23503":
		return apperrors.WrapDBError("device type or state does not exist", "", "23503")
	default:
		return fmt.Errorf("database rejected item write: %w", pqErr)
	}
}

func itemRecord(normalized models.NormalizedItem) goqu.Record {
	record := goqu.Record{
		"manages_quantity": normalized.ManagesQuantity,
		"quantity":         normalized.Quantity,
		"serial":           normalized.Serial,
		"device_type_id":   normalized.DeviceTypeID,
		"state_id":         normalized.StateID,
		"brand":            normalized.Brand,
		"model":            normalized.Model,
		"location":         normalized.Location,
		"description":      normalized.Description,
		"acquisition_date": normalized.AcquisitionDate,
		"price":            normalized.Price,
	}
	return record
}

func (r *itemRepositoryImpl) getItemQuery() *goqu.SelectDataset {
	return r.repository.GoquDBWrapper.Select(
		goqu.I("i.id").As("item_id"),
		goqu.I("i.manages_quantity").As("manages_quantity"),
		"i.quantity",
		"i.serial",
		"i.brand",
		"i.model",
		"i.location",
		"i.description",
		goqu.I("i.acquisition_date").As("acquisition_date"),
		"i.price",
		goqu.I("i.image_path").As("image_path"),
		goqu.I("i.registered_at").As("registered_at"),
		goqu.I("i.updated_at").As("updated_at"),
		goqu.I("t.id").As("device_type_id"),
		goqu.I("t.name").As("device_type_name"),
		goqu.I("s.id").As("state_id"),
		goqu.I("s.name").As("state_name"),
		goqu.I("s.description").As("state_description"),
		goqu.I("a.id").As("registrant_id"),
		goqu.I("a.email").As("registrant_email"),
	).
		From(goqu.T("items").As("i")).
		LeftJoin(
			goqu.T("device_types").As("t"),
			goqu.On(goqu.Ex{"i.device_type_id": goqu.I("t.id")}),
		).
		LeftJoin(
			goqu.T("item_states").As("s"),
			goqu.On(goqu.Ex{"i.state_id": goqu.I("s.id")}),
		).
		LeftJoin(
			goqu.T("accounts").As("a"),
			goqu.On(goqu.Ex{"i.registered_by": goqu.I("a.id")}),
		)
}

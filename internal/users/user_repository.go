package users

import (
	"fmt"

	"github.com/Cedhu-Sog/IT-CEDHU/internal/repository"
	"github.com/Cedhu-Sog/IT-CEDHU/pkg/apperrors"
	"github.com/Cedhu-Sog/IT-CEDHU/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"
)

// AccountRepository is the persistence boundary for accounts. Email
// uniqueness is a store constraint; a collision surfaces as a
// unique-violation error at commit.
type AccountRepository interface {
	PersistAccount(account models.Account) (*models.Account, error)
	FindAccountByEmail(email string) (*models.Account, error)
	GetAccount(id int) (*models.Account, error)
	GetAccounts() ([]models.Account, error)
	UpdateAccount(id int, changes *models.AccountChanges) error
	SetApproval(ids []int, approved bool) (int, error)
	DeleteAccount(id int) error
}

type accountRepositoryImpl struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) AccountRepository {
	return &accountRepositoryImpl{repository: r}
}

const accountColumns = "id, email, first_name, last_name, password_hash, is_active, is_staff, is_superuser, is_approved, joined_at"

func (r *accountRepositoryImpl) PersistAccount(account models.Account) (*models.Account, error) {
	var accountID int

	query := r.repository.GoquDBWrapper.Insert("accounts").
		Rows(goqu.Record{
			"email":         account.Email,
			"first_name":    account.FirstName,
			"last_name":     account.LastName,
			"password_hash": account.PasswordHash,
			"is_active":     account.IsActive,
			"is_staff":      account.IsStaff,
			"is_superuser":  account.IsSuperuser,
			"is_approved":   account.IsApproved,
		}).
		Returning("id")

	if _, err := query.Executor().ScanVal(&accountID); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return nil, apperrors.WrapDBError("account email already registered", "email", string(pqErr.Code))
		}
		return nil, fmt.Errorf("failed to insert account: %w", err)
	}

	return r.GetAccount(accountID)
}

func (r *accountRepositoryImpl) FindAccountByEmail(email string) (*models.Account, error) {
	var account models.Account
	query := r.repository.GoquDBWrapper.
		Select(goqu.L(accountColumns)).
		From("accounts").
		Where(goqu.Ex{"email": email})

	found, err := query.Executor().ScanStruct(&account)
	if err != nil {
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}
	if !found {
		return nil, apperrors.ErrNotFound
	}

	return &account, nil
}

func (r *accountRepositoryImpl) GetAccount(id int) (*models.Account, error) {
	var account models.Account
	query := r.repository.GoquDBWrapper.
		Select(goqu.L(accountColumns)).
		From("accounts").
		Where(goqu.Ex{"id": id})

	found, err := query.Executor().ScanStruct(&account)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if !found {
		return nil, apperrors.ErrNotFound
	}

	return &account, nil
}

func (r *accountRepositoryImpl) GetAccounts() ([]models.Account, error) {
	var accounts []models.Account
	// Pending registrations first, newest within each group.
	query := r.repository.GoquDBWrapper.
		Select(goqu.L(accountColumns)).
		From("accounts").
		Order(goqu.I("is_approved").Asc(), goqu.I("joined_at").Desc())

	if err := query.Executor().ScanStructs(&accounts); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	return accounts, nil
}

func (r *accountRepositoryImpl) UpdateAccount(id int, changes *models.AccountChanges) error {
	record := goqu.Record{}
	if changes.PasswordHash != nil {
		record["password_hash"] = *changes.PasswordHash
	}
	if changes.FirstName != nil {
		record["first_name"] = *changes.FirstName
	}
	if changes.LastName != nil {
		record["last_name"] = *changes.LastName
	}
	if changes.IsActive != nil {
		record["is_active"] = *changes.IsActive
	}

	if len(record) == 0 {
		return nil
	}

	result, err := r.repository.GoquDBWrapper.
		Update("accounts").
		Set(record).
		Where(goqu.Ex{"id": id}).
		Executor().
		Exec()
	if err != nil {
		return fmt.Errorf("failed to update account: %w", err)
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

// SetApproval flips the approval/active flag pair for a batch of accounts in
// one statement: approve sets both true, reject sets both false.
func (r *accountRepositoryImpl) SetApproval(ids []int, approved bool) (int, error) {
	var updated int

	err := repository.WithTransaction(r.repository.GoquDBWrapper, func(tx *goqu.TxDatabase) error {
		result, err := tx.Update("accounts").
			Set(goqu.Record{
				"is_approved": approved,
				"is_active":   approved,
			}).
			Where(goqu.Ex{"id": ids}).
			Executor().
			Exec()
		if err != nil {
			return fmt.Errorf("failed to update approval flags: %w", err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		updated = int(rowsAffected)
		return nil
	})
	if err != nil {
		return 0, err
	}

	return updated, nil
}

func (r *accountRepositoryImpl) DeleteAccount(id int) error {
	// Items registered by the account survive; the FK clears their
	// registered_by reference.
	result, err := r.repository.GoquDBWrapper.
		Delete("accounts").
		Where(goqu.Ex{"id": id}).
		Executor().
		Exec()
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
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

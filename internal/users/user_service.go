package users

import (
	"github.com/Cedhu-Sog/IT-CEDHU/pkg/apperrors"
	"github.com/Cedhu-Sog/IT-CEDHU/pkg/auditlog"
	"github.com/Cedhu-Sog/IT-CEDHU/pkg/models"
	"github.com/Cedhu-Sog/IT-CEDHU/pkg/security"

	"golang.org/x/crypto/bcrypt"
)

// Actor is the identity performing an administrative action, as carried by
// the session token.
type Actor struct {
	ID          int
	IsStaff     bool
	IsSuperuser bool
}

func (a Actor) IsAdministrator() bool {
	return a.IsStaff || a.IsSuperuser
}

// UserService owns the account lifecycle and the approval-gate transitions.
type UserService struct {
	accountRepo AccountRepository
	auditLog    *auditlog.Auditlog
}

func NewUserService(accountRepo AccountRepository, auditLog *auditlog.Auditlog) *UserService {
	return &UserService{
		accountRepo: accountRepo,
		auditLog:    auditLog,
	}
}

// Register creates a self-registered account: active but pending approval,
// so it cannot establish a session until an administrator approves it.
// The plaintext password is hashed here and never stored or logged.
func (s *UserService) Register(req models.RegisterAccountRequest) (*models.Account, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	account, err := s.accountRepo.PersistAccount(models.Account{
		Email:        security.NormalizeEmail(req.Email),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: string(hashedPassword),
		IsActive:     true,
		IsApproved:   false,
	})
	if err != nil {
		return nil, err
	}

	go s.auditLog.Log(
		"create",
		map[string]interface{}{
			"email": account.Email,
			"msg":   "Account self-registered, pending approval",
		},
		account,
		nil,
	)

	return account, nil
}

// CreateAccount is the administrative variant. Granting staff or superuser
// rights auto-approves the account at creation; a plain account created this
// way still goes through the approval gate.
func (s *UserService) CreateAccount(req models.CreateAccountRequest, actor Actor) (*models.Account, error) {
	if !actor.IsAdministrator() {
		return nil, apperrors.ErrPermissionDenied
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	privileged := req.IsStaff || req.IsSuperuser

	account, err := s.accountRepo.PersistAccount(models.Account{
		Email:        security.NormalizeEmail(req.Email),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: string(hashedPassword),
		IsActive:     true,
		IsStaff:      req.IsStaff,
		IsSuperuser:  req.IsSuperuser,
		IsApproved:   privileged,
	})
	if err != nil {
		return nil, err
	}

	go s.auditLog.Log(
		"create",
		map[string]interface{}{
			"email":    account.Email,
			"is_staff": account.IsStaff,
			"msg":      "Account created administratively",
		},
		account,
		&actor.ID,
	)

	return account, nil
}

// SetApproval approves or rejects a batch of accounts. Approval sets both
// flags true; rejection sets both false. Restricted to administrators; the
// authorization check runs before any mutation.
func (s *UserService) SetApproval(ids []int, approved bool, actor Actor) (int, error) {
	if !actor.IsAdministrator() {
		return 0, apperrors.ErrPermissionDenied
	}

	updated, err := s.accountRepo.SetApproval(ids, approved)
	if err != nil {
		return 0, err
	}

	action := "approve"
	if !approved {
		action = "reject"
	}
	for _, id := range ids {
		account := models.Account{ID: id}
		go s.auditLog.Log(
			action,
			map[string]interface{}{
				"approved": approved,
				"msg":      "Account approval flag changed",
			},
			&account,
			&actor.ID,
		)
	}

	return updated, nil
}

// Deactivate flips is_active only, leaving the approval flag untouched: a
// previously approved account can be re-activated later without going
// through approval again.
func (s *UserService) Deactivate(id int, active bool, actor Actor) error {
	if !actor.IsAdministrator() {
		return apperrors.ErrPermissionDenied
	}

	return s.accountRepo.UpdateAccount(id, &models.AccountChanges{IsActive: &active})
}

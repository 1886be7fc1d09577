package models

import "time"

// Account is a system user. Beyond the usual active flag it carries an
// approval flag: credential verification alone is not enough to sign in, an
// administrator must approve the account first.
type Account struct {
	ID           int       `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	FirstName    string    `json:"first_name" db:"first_name"`
	LastName     string    `json:"last_name" db:"last_name"`
	PasswordHash string    `json:"-" db:"password_hash"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	IsStaff      bool      `json:"is_staff" db:"is_staff"`
	IsSuperuser  bool      `json:"is_superuser" db:"is_superuser"`
	IsApproved   bool      `json:"is_approved" db:"is_approved"`
	JoinedAt     time.Time `json:"joined_at" db:"joined_at"`
}

func (a *Account) FullName() string {
	if a.FirstName == "" {
		return a.LastName
	}
	if a.LastName == "" {
		return a.FirstName
	}
	return a.FirstName + " " + a.LastName
}

// CanSignIn reports whether the account passes the approval gate. Both flags
// are required; a previously approved but deactivated account stays out.
func (a *Account) CanSignIn() bool {
	return a.IsActive && a.IsApproved
}

// IsAdministrator reports whether the account may perform administrative
// actions such as approving registrations.
func (a *Account) IsAdministrator() bool {
	return a.IsStaff || a.IsSuperuser
}

func (a *Account) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   a.ID,
		ResourceType: "account",
	}
}

// AccountRef is the weak reference items keep to the account that registered
// them. Items survive account deletion with the reference cleared.
type AccountRef struct {
	ID    int    `json:"id"`
	Email string `json:"email,omitempty"`
}

type RegisterAccountRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
}

// CreateAccountRequest is the administrative variant: it may grant staff or
// superuser rights, which auto-approves the account at creation.
type CreateAccountRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=6"`
	FirstName   string `json:"first_name" binding:"required"`
	LastName    string `json:"last_name" binding:"required"`
	IsStaff     bool   `json:"is_staff"`
	IsSuperuser bool   `json:"is_superuser"`
}

type UpdateAccountRequest struct {
	Password  *string `json:"password,omitempty"`
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	IsActive  *bool   `json:"is_active,omitempty"`
}

// AccountChanges is the set of columns an account update actually touches.
type AccountChanges struct {
	PasswordHash *string
	FirstName    *string
	LastName     *string
	IsActive     *bool
}

func (c *AccountChanges) HasChanges() bool {
	return c.PasswordHash != nil || c.FirstName != nil || c.LastName != nil || c.IsActive != nil
}

// SetApprovalRequest approves or rejects a batch of accounts in one
// administrative action.
type SetApprovalRequest struct {
	AccountIDs []int `json:"account_ids" binding:"required,min=1"`
	Approved   *bool `json:"approved" binding:"required"`
}

package users

import (
	"testing"

	"github.com/Cedhu-Sog/IT-CEDHU/pkg/apperrors"
	"github.com/Cedhu-Sog/IT-CEDHU/pkg/auditlog"
	"github.com/Cedhu-Sog/IT-CEDHU/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) PersistAccount(account models.Account) (*models.Account, error) {
	args := m.Called(account)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByEmail(email string) (*models.Account, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockAccountRepository) GetAccount(id int) (*models.Account, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockAccountRepository) GetAccounts() ([]models.Account, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Account), args.Error(1)
}

func (m *MockAccountRepository) UpdateAccount(id int, changes *models.AccountChanges) error {
	args := m.Called(id, changes)
	return args.Error(0)
}

func (m *MockAccountRepository) SetApproval(ids []int, approved bool) (int, error) {
	args := m.Called(ids, approved)
	return args.Int(0), args.Error(1)
}

func (m *MockAccountRepository) DeleteAccount(id int) error {
	args := m.Called(id)
	return args.Error(0)
}

type noopAuditStore struct{}

func (noopAuditStore) PersistLog(entry models.AuditLog, data interface{}) error {
	return nil
}

func newTestService(repo AccountRepository) *UserService {
	return NewUserService(repo, auditlog.NewAuditLog(noopAuditStore{}))
}

var adminActor = Actor{ID: 1, IsStaff: true}
var plainActor = Actor{ID: 2}

func TestRegister(t *testing.T) {
	mockRepo := new(MockAccountRepository)
	service := newTestService(mockRepo)

	mockRepo.On("PersistAccount", mock.MatchedBy(func(account models.Account) bool {
		passwordHashed := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte("password123")) == nil
		return account.Email == "new@example.com" &&
			account.IsActive &&
			!account.IsApproved &&
			!account.IsStaff &&
			passwordHashed
	})).Return(&models.Account{ID: 10, Email: "new@example.com"}, nil)

	account, err := service.Register(models.RegisterAccountRequest{
		Email:     " New@Example.com ",
		Password:  "password123",
		FirstName: "New",
		LastName:  "User",
	})

	assert.NoError(t, err)
	assert.Equal(t, 10, account.ID)
	mockRepo.AssertExpectations(t)
}

func TestCreateAccount(t *testing.T) {
	t.Run("staff grant auto-approves", func(t *testing.T) {
		mockRepo := new(MockAccountRepository)
		service := newTestService(mockRepo)

		mockRepo.On("PersistAccount", mock.MatchedBy(func(account models.Account) bool {
			return account.IsStaff && account.IsApproved
		})).Return(&models.Account{ID: 11}, nil)

		_, err := service.CreateAccount(models.CreateAccountRequest{
			Email:     "staff@example.com",
			Password:  "password123",
			FirstName: "Staff",
			LastName:  "Member",
			IsStaff:   true,
		}, adminActor)

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("plain account still needs approval", func(t *testing.T) {
		mockRepo := new(MockAccountRepository)
		service := newTestService(mockRepo)

		mockRepo.On("PersistAccount", mock.MatchedBy(func(account models.Account) bool {
			return !account.IsStaff && !account.IsApproved
		})).Return(&models.Account{ID: 12}, nil)

		_, err := service.CreateAccount(models.CreateAccountRequest{
			Email:     "plain@example.com",
			Password:  "password123",
			FirstName: "Plain",
			LastName:  "User",
		}, adminActor)

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("non-administrator is refused", func(t *testing.T) {
		mockRepo := new(MockAccountRepository)
		service := newTestService(mockRepo)

		_, err := service.CreateAccount(models.CreateAccountRequest{
			Email:     "x@example.com",
			Password:  "password123",
			FirstName: "X",
			LastName:  "Y",
		}, plainActor)

		assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
		mockRepo.AssertNotCalled(t, "PersistAccount", mock.Anything)
	})
}

func TestSetApproval(t *testing.T) {
	t.Run("approval batch", func(t *testing.T) {
		mockRepo := new(MockAccountRepository)
		service := newTestService(mockRepo)

		mockRepo.On("SetApproval", []int{3, 4, 5}, true).Return(3, nil)

		updated, err := service.SetApproval([]int{3, 4, 5}, true, adminActor)

		assert.NoError(t, err)
		assert.Equal(t, 3, updated)
		mockRepo.AssertExpectations(t)
	})

	t.Run("rejection batch", func(t *testing.T) {
		mockRepo := new(MockAccountRepository)
		service := newTestService(mockRepo)

		mockRepo.On("SetApproval", []int{6}, false).Return(1, nil)

		updated, err := service.SetApproval([]int{6}, false, adminActor)

		assert.NoError(t, err)
		assert.Equal(t, 1, updated)
	})

	t.Run("permission check runs before any mutation", func(t *testing.T) {
		mockRepo := new(MockAccountRepository)
		service := newTestService(mockRepo)

		updated, err := service.SetApproval([]int{3, 4}, true, plainActor)

		assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
		assert.Equal(t, 0, updated)
		mockRepo.AssertNotCalled(t, "SetApproval", mock.Anything, mock.Anything)
	})
}

func TestDeactivate(t *testing.T) {
	mockRepo := new(MockAccountRepository)
	service := newTestService(mockRepo)

	mockRepo.On("UpdateAccount", 7, mock.MatchedBy(func(changes *models.AccountChanges) bool {
		return changes.IsActive != nil && !*changes.IsActive
	})).Return(nil)

	err := service.Deactivate(7, false, adminActor)

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

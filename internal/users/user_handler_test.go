package users

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Cedhu-Sog/IT-CEDHU/pkg/apperrors"
	"github.com/Cedhu-Sog/IT-CEDHU/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func setupTestContext() (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("accountID", "1")
	c.Set("isStaff", true)
	return c, w
}

func newTestHandler(mockRepo *MockAccountRepository) *UsersHandler {
	return NewHandler(newTestService(mockRepo), mockRepo)
}

func TestRegisterAccountHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		payload        models.RegisterAccountRequest
		setupMock      func(mockRepo *MockAccountRepository)
		expectedStatus int
	}{
		{
			name: "successful registration",
			payload: models.RegisterAccountRequest{
				Email:     "new@example.com",
				Password:  "password123",
				FirstName: "New",
				LastName:  "User",
			},
			setupMock: func(mockRepo *MockAccountRepository) {
				mockRepo.On("PersistAccount", mock.Anything).
					Return(&models.Account{ID: 10, Email: "new@example.com"}, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "duplicate email",
			payload: models.RegisterAccountRequest{
				Email:     "taken@example.com",
				Password:  "password123",
				FirstName: "New",
				LastName:  "User",
			},
			setupMock: func(mockRepo *MockAccountRepository) {
				mockRepo.On("PersistAccount", mock.Anything).
					Return(nil, apperrors.WrapDBError("account email already registered", "email", "23505"))
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name: "short password rejected by binding",
			payload: models.RegisterAccountRequest{
				Email:     "new@example.com",
				Password:  "123",
				FirstName: "New",
				LastName:  "User",
			},
			setupMock:      func(mockRepo *MockAccountRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockAccountRepository)
			tt.setupMock(mockRepo)
			handler := newTestHandler(mockRepo)
			c, w := setupTestContext()

			body, _ := json.Marshal(tt.payload)
			c.Request = httptest.NewRequest("POST", "/auth/register", bytes.NewBuffer(body))

			handler.RegisterAccount(c)

			assert.Equal(t, tt.expectedStatus, w.Code)
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestSetApprovalHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	approve := true
	reject := false

	t.Run("approve batch", func(t *testing.T) {
		mockRepo := new(MockAccountRepository)
		mockRepo.On("SetApproval", []int{2, 3}, true).Return(2, nil)
		handler := newTestHandler(mockRepo)
		c, w := setupTestContext()

		body, _ := json.Marshal(models.SetApprovalRequest{AccountIDs: []int{2, 3}, Approved: &approve})
		c.Request = httptest.NewRequest("POST", "/accounts/approval", bytes.NewBuffer(body))

		handler.SetApproval(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var response struct {
			Updated int `json:"updated"`
		}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, 2, response.Updated)
		mockRepo.AssertExpectations(t)
	})

	t.Run("reject batch", func(t *testing.T) {
		mockRepo := new(MockAccountRepository)
		mockRepo.On("SetApproval", []int{4}, false).Return(1, nil)
		handler := newTestHandler(mockRepo)
		c, w := setupTestContext()

		body, _ := json.Marshal(models.SetApprovalRequest{AccountIDs: []int{4}, Approved: &reject})
		c.Request = httptest.NewRequest("POST", "/accounts/approval", bytes.NewBuffer(body))

		handler.SetApproval(c)

		assert.Equal(t, http.StatusOK, w.Code)
		mockRepo.AssertExpectations(t)
	})

	t.Run("missing approved flag", func(t *testing.T) {
		mockRepo := new(MockAccountRepository)
		handler := newTestHandler(mockRepo)
		c, w := setupTestContext()

		body := []byte(`{"account_ids": [2]}`)
		c.Request = httptest.NewRequest("POST", "/accounts/approval", bytes.NewBuffer(body))

		handler.SetApproval(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockRepo.AssertNotCalled(t, "SetApproval", mock.Anything, mock.Anything)
	})

	t.Run("non-administrator actor", func(t *testing.T) {
		mockRepo := new(MockAccountRepository)
		handler := newTestHandler(mockRepo)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Set("accountID", "2")
		c.Set("isStaff", false)

		body, _ := json.Marshal(models.SetApprovalRequest{AccountIDs: []int{2}, Approved: &approve})
		c.Request = httptest.NewRequest("POST", "/accounts/approval", bytes.NewBuffer(body))

		handler.SetApproval(c)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestUpdateAccountHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("self update of name", func(t *testing.T) {
		mockRepo := new(MockAccountRepository)
		mockRepo.On("UpdateAccount", 1, mock.MatchedBy(func(changes *models.AccountChanges) bool {
			return changes.FirstName != nil && *changes.FirstName == "Renamed"
		})).Return(nil)
		mockRepo.On("GetAccount", 1).Return(&models.Account{ID: 1, FirstName: "Renamed"}, nil)
		handler := newTestHandler(mockRepo)
		c, w := setupTestContext()

		name := "Renamed"
		body, _ := json.Marshal(models.UpdateAccountRequest{FirstName: &name})
		c.Request = httptest.NewRequest("PATCH", "/accounts/1", bytes.NewBuffer(body))
		c.Params = []gin.Param{{Key: "id", Value: "1"}}

		handler.UpdateAccount(c)

		assert.Equal(t, http.StatusOK, w.Code)
		mockRepo.AssertExpectations(t)
	})

	t.Run("short password", func(t *testing.T) {
		mockRepo := new(MockAccountRepository)
		handler := newTestHandler(mockRepo)
		c, w := setupTestContext()

		password := "123"
		body, _ := json.Marshal(models.UpdateAccountRequest{Password: &password})
		c.Request = httptest.NewRequest("PATCH", "/accounts/1", bytes.NewBuffer(body))
		c.Params = []gin.Param{{Key: "id", Value: "1"}}

		handler.UpdateAccount(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("other account without admin rights", func(t *testing.T) {
		mockRepo := new(MockAccountRepository)
		handler := newTestHandler(mockRepo)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Set("accountID", "2")
		c.Set("isStaff", false)

		name := "Renamed"
		body, _ := json.Marshal(models.UpdateAccountRequest{FirstName: &name})
		c.Request = httptest.NewRequest("PATCH", "/accounts/1", bytes.NewBuffer(body))
		c.Params = []gin.Param{{Key: "id", Value: "1"}}

		handler.UpdateAccount(c)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

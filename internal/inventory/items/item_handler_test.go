package items

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Cedhu-Sog/IT-CEDHU/internal/repository"
	"github.com/Cedhu-Sog/IT-CEDHU/pkg/apperrors"
	"github.com/Cedhu-Sog/IT-CEDHU/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type stubChangeLog struct {
	entries []models.AuditLog
	err     error
}

func (s stubChangeLog) GetResourceLog(id int, resourceType string) ([]models.AuditLog, error) {
	return s.entries, s.err
}

func setupTestContext() (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("accountID", "1")
	c.Set("isStaff", true)
	return c, w
}

func newTestHandler(mockRepo *MockItemRepository) *ItemHandler {
	return NewItemHandler(newTestService(mockRepo), mockRepo, stubChangeLog{}, "media")
}

func TestCreateItemHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	serial := "SN-100"
	tests := []struct {
		name           string
		payload        models.ItemRequest
		setupMock      func(mockRepo *MockItemRepository)
		expectedStatus int
		expectedField  string
	}{
		{
			name:    "successful creation",
			payload: validItemRequest(),
			setupMock: func(mockRepo *MockItemRepository) {
				mockRepo.On("CreateItem", mock.Anything, 1).
					Return(&models.InventoryItem{ID: 7, Serial: &serial}, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "invariant violation reports tagged fields",
			payload: func() models.ItemRequest {
				req := validItemRequest()
				req.ManagesQuantity = true
				return req
			}(),
			setupMock:      func(mockRepo *MockItemRepository) {},
			expectedStatus: http.StatusBadRequest,
			expectedField:  "serial",
		},
		{
			name:    "duplicate serial",
			payload: validItemRequest(),
			setupMock: func(mockRepo *MockItemRepository) {
				mockRepo.On("CreateItem", mock.Anything, 1).
					Return(nil, apperrors.WrapDBError("duplicate serial for inventory item", "serial", "23505"))
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name:    "unknown catalog reference",
			payload: validItemRequest(),
			setupMock: func(mockRepo *MockItemRepository) {
				mockRepo.On("CreateItem", mock.Anything, 1).
					Return(nil, apperrors.WrapDBError("device type or state does not exist", "", "23503"))
			},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockItemRepository)
			tt.setupMock(mockRepo)
			handler := newTestHandler(mockRepo)
			c, w := setupTestContext()

			body, _ := json.Marshal(tt.payload)
			c.Request = httptest.NewRequest("POST", "/items", bytes.NewBuffer(body))

			handler.CreateItem(c)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedField != "" {
				var response struct {
					Fields map[string][]string `json:"fields"`
				}
				assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
				assert.Contains(t, response.Fields, tt.expectedField)
			}
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestGetItemHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("unknown item", func(t *testing.T) {
		mockRepo := new(MockItemRepository)
		mockRepo.On("GetItem", 999).Return(nil, apperrors.ErrNotFound)
		handler := newTestHandler(mockRepo)
		c, w := setupTestContext()

		c.Request = httptest.NewRequest("GET", "/items/999", nil)
		c.Params = []gin.Param{{Key: "id", Value: "999"}}

		handler.GetItem(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("invalid id", func(t *testing.T) {
		mockRepo := new(MockItemRepository)
		handler := newTestHandler(mockRepo)
		c, w := setupTestContext()

		c.Request = httptest.NewRequest("GET", "/items/abc", nil)
		c.Params = []gin.Param{{Key: "id", Value: "abc"}}

		handler.GetItem(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestGetSummaryHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mockRepo := new(MockItemRepository)
	mockRepo.On("TotalUnits").Return(57, nil)
	mockRepo.On("CountItems").Return(12, nil)
	handler := newTestHandler(mockRepo)
	c, w := setupTestContext()

	c.Request = httptest.NewRequest("GET", "/items/summary", nil)

	handler.GetSummary(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		TotalUnits   int `json:"total_units"`
		TotalRecords int `json:"total_records"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, 57, response.TotalUnits)
	assert.Equal(t, 12, response.TotalRecords)
}

func TestListItemsHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("free-text and date filters ride the query", func(t *testing.T) {
		var captured repository.QueryBuilder
		mockRepo := new(MockItemRepository)
		mockRepo.On("GetItemsBy", mock.Anything).
			Run(func(args mock.Arguments) {
				captured = args.Get(0).(repository.QueryBuilder)
			}).
			Return([]models.InventoryItem{}, nil)
		handler := newTestHandler(mockRepo)
		c, w := setupTestContext()

		c.Request = httptest.NewRequest("GET", "/items?q=latitude&acquired_from=2023-01-01&acquired_to=2023-12-31", nil)

		handler.ListItems(c)

		assert.Equal(t, http.StatusOK, w.Code)

		query := goqu.From("items")
		for _, condition := range captured.BuildConditions(map[string]string{}) {
			query = query.Where(condition)
		}
		sql, _, err := query.ToSQL()
		assert.NoError(t, err)
		assert.Contains(t, sql, "LOWER(serial) LIKE '%latitude%'")
		assert.Contains(t, sql, "LOWER(brand) LIKE '%latitude%'")
		assert.Contains(t, sql, `"acquisition_date" >= '2023-01-01'`)
		assert.Contains(t, sql, `"acquisition_date" <= '2023-12-31'`)
	})

	t.Run("malformed acquisition date is rejected", func(t *testing.T) {
		mockRepo := new(MockItemRepository)
		handler := newTestHandler(mockRepo)
		c, w := setupTestContext()

		c.Request = httptest.NewRequest("GET", "/items?acquired_from=01-02-2023x", nil)

		handler.ListItems(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockRepo.AssertNotCalled(t, "GetItemsBy", mock.Anything)
	})
}

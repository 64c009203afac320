package designsystem

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"orion-os/internal/domain"
	"orion-os/internal/errors"
	"orion-os/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// mock implementation of the Service interface
type MockService struct {
	mock.Mock
}

func (m *MockService) List(ctx context.Context, profileID string) ([]domain.DesignSystem, error) {
	args := m.Called(ctx, profileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DesignSystem), args.Error(1)
}

func (m *MockService) Get(ctx context.Context, id, profileID string) (*domain.DesignSystem, error) {
	args := m.Called(ctx, id, profileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DesignSystem), args.Error(1)
}

func (m *MockService) Create(ctx context.Context, profileID string, values map[string]any) (*domain.DesignSystem, error) {
	args := m.Called(ctx, profileID, values)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DesignSystem), args.Error(1)
}

func (m *MockService) Update(ctx context.Context, id, profileID string, values map[string]any) (*domain.DesignSystem, error) {
	args := m.Called(ctx, id, profileID, values)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DesignSystem), args.Error(1)
}

func (m *MockService) Delete(ctx context.Context, id, profileID string) error {
	return m.Called(ctx, id, profileID).Error(0)
}

func (m *MockService) Activate(ctx context.Context, id, profileID string) (*domain.DesignSystem, error) {
	args := m.Called(ctx, id, profileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DesignSystem), args.Error(1)
}

func (m *MockService) GetActive(ctx context.Context, profileID string) (*domain.DesignSystem, error) {
	args := m.Called(ctx, profileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DesignSystem), args.Error(1)
}

func (m *MockService) ActiveCSS(ctx context.Context, profileID string) (string, error) {
	args := m.Called(ctx, profileID)
	return args.String(0), args.Error(1)
}

func (m *MockService) SetFont(ctx context.Context, profileID string, slot FontSlot, value string) (*domain.DesignSystem, error) {
	args := m.Called(ctx, profileID, slot, value)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DesignSystem), args.Error(1)
}

func setupRouter(handler *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.ErrorHandler())
	group := router.Group("/", func(c *gin.Context) {
		c.Set("profile_id", "p1")
	})
	handler.RegisterRoutes(group)
	return router
}

func TestList_Success(t *testing.T) {
	mockService := new(MockService)
	router := setupRouter(NewHandler(mockService))

	mockService.On("List", mock.Anything, "p1").Return([]domain.DesignSystem{{Name: "Zenith"}, {Name: "Dark"}}, nil)

	req := httptest.NewRequest("GET", "/design-systems", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var response []map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Len(t, response, 2)
	mockService.AssertExpectations(t)
}

func TestCreate_Success(t *testing.T) {
	mockService := new(MockService)
	router := setupRouter(NewHandler(mockService))

	mockService.On("Create", mock.Anything, "p1", mock.MatchedBy(func(values map[string]any) bool {
		return values["name"] == "Dark"
	})).Return(&domain.DesignSystem{ID: uuid.NewString(), Name: "Dark"}, nil)

	body, _ := json.Marshal(map[string]string{"name": "Dark"})
	req := httptest.NewRequest("POST", "/design-systems", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	mockService.AssertExpectations(t)
}

func TestCreate_MalformedJSON(t *testing.T) {
	mockService := new(MockService)
	router := setupRouter(NewHandler(mockService))

	req := httptest.NewRequest("POST", "/design-systems", bytes.NewBufferString("{"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	mockService.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestShow_NotFound(t *testing.T) {
	mockService := new(MockService)
	router := setupRouter(NewHandler(mockService))
	id := uuid.NewString()

	mockService.On("Get", mock.Anything, id, "p1").Return(nil, errors.NotFound("Design system not found", nil))

	req := httptest.NewRequest("GET", "/design-systems/"+id, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestShow_MalformedID(t *testing.T) {
	mockService := new(MockService)
	router := setupRouter(NewHandler(mockService))

	req := httptest.NewRequest("GET", "/design-systems/42", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	mockService.AssertNotCalled(t, "Get", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdate_Success(t *testing.T) {
	mockService := new(MockService)
	router := setupRouter(NewHandler(mockService))
	id := uuid.NewString()

	mockService.On("Update", mock.Anything, id, "p1", map[string]any{"accentColor": "#fff"}).
		Return(&domain.DesignSystem{ID: id, AccentColor: "#fff"}, nil)

	body, _ := json.Marshal(map[string]string{"accentColor": "#fff"})
	req := httptest.NewRequest("PATCH", "/design-systems/"+id, bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestDelete_NoContent(t *testing.T) {
	mockService := new(MockService)
	router := setupRouter(NewHandler(mockService))
	id := uuid.NewString()

	mockService.On("Delete", mock.Anything, id, "p1").Return(nil)

	req := httptest.NewRequest("DELETE", "/design-systems/"+id, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	mockService.AssertExpectations(t)
}

func TestActivate_ByPath(t *testing.T) {
	mockService := new(MockService)
	router := setupRouter(NewHandler(mockService))
	id := uuid.NewString()

	mockService.On("Activate", mock.Anything, id, "p1").Return(&domain.DesignSystem{ID: id, IsActive: true}, nil)

	req := httptest.NewRequest("POST", "/design-systems/"+id+"/activate", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, true, response["isActive"])
}

func TestSetActive_ByBody(t *testing.T) {
	mockService := new(MockService)
	router := setupRouter(NewHandler(mockService))
	id := uuid.NewString()

	mockService.On("Activate", mock.Anything, id, "p1").Return(&domain.DesignSystem{ID: id, IsActive: true}, nil)

	body, _ := json.Marshal(ActivateRequest{DesignSystemID: id})
	req := httptest.NewRequest("POST", "/active-design-system", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestSetActive_MissingID(t *testing.T) {
	mockService := new(MockService)
	router := setupRouter(NewHandler(mockService))

	req := httptest.NewRequest("POST", "/active-design-system", bytes.NewBufferString("{}"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestShowActive_None(t *testing.T) {
	mockService := new(MockService)
	router := setupRouter(NewHandler(mockService))

	mockService.On("GetActive", mock.Anything, "p1").Return(nil, errors.NotFound("No active design system", nil))

	req := httptest.NewRequest("GET", "/active-design-system", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestActiveCSS_ContentType(t *testing.T) {
	mockService := new(MockService)
	router := setupRouter(NewHandler(mockService))

	mockService.On("ActiveCSS", mock.Anything, "p1").Return(":root {\n}\n", nil)

	req := httptest.NewRequest("GET", "/active-design-system/css", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/css; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, ":root {\n}\n", w.Body.String())
}

func TestList_WithoutProfile(t *testing.T) {
	mockService := new(MockService)
	handler := NewHandler(mockService)
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.ErrorHandler())
	router.GET("/design-systems", handler.List)

	req := httptest.NewRequest("GET", "/design-systems", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

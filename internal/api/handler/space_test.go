package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sanosuguru/go-space-reservation/internal/application"
	"github.com/sanosuguru/go-space-reservation/internal/domain/space"
)

// MockSpaceService はSpaceServiceInterfaceのモック
type MockSpaceService struct {
	mock.Mock
}

func (m *MockSpaceService) CreateSpace(ctx context.Context, input application.CreateSpaceInput) (*space.Space, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*space.Space), args.Error(1)
}

func (m *MockSpaceService) GetSpace(ctx context.Context, id int64) (*space.Space, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*space.Space), args.Error(1)
}

func (m *MockSpaceService) ListSpaces(ctx context.Context, f space.Filter) ([]*space.Space, int, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*space.Space), args.Int(1), args.Error(2)
}

func (m *MockSpaceService) UpdateSpace(ctx context.Context, id int64, input application.UpdateSpaceInput) (*space.Space, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*space.Space), args.Error(1)
}

func (m *MockSpaceService) DeleteSpace(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockAvailability はAvailabilityInterfaceのモック
type MockAvailability struct {
	mock.Mock
}

func (m *MockAvailability) CountActive(ctx context.Context, spaceID int64) (int, error) {
	args := m.Called(ctx, spaceID)
	return args.Int(0), args.Error(1)
}

func testSpace(id int64) *space.Space {
	now := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	return &space.Space{
		ID:          id,
		Name:        "会議室A",
		Description: "プロジェクター完備",
		Capacity:    10,
		Status:      space.StatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestSpaceHandler_Create(t *testing.T) {
	e := NewTestEcho()

	t.Run("正常にスペースを作成できる", func(t *testing.T) {
		mockService := new(MockSpaceService)
		mockService.On("CreateSpace", mock.Anything, application.CreateSpaceInput{
			Name:        "会議室A",
			Description: "プロジェクター完備",
			Capacity:    10,
		}).Return(testSpace(1), nil)

		handler := NewSpaceHandler(mockService, new(MockAvailability))

		reqBody := `{"name": "会議室A", "description": "プロジェクター完備", "capacity": 10}`
		req := httptest.NewRequest(http.MethodPost, "/spaces", strings.NewReader(reqBody))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := handler.Create(c)

		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, rec.Code)

		var resp SpaceResponse
		err = json.Unmarshal(rec.Body.Bytes(), &resp)
		require.NoError(t, err)
		assert.Equal(t, int64(1), resp.ID)
		assert.Equal(t, "ACTIVE", resp.Status)

		mockService.AssertExpectations(t)
	})

	t.Run("名前なしはバリデーションエラー", func(t *testing.T) {
		mockService := new(MockSpaceService)
		handler := NewSpaceHandler(mockService, new(MockAvailability))

		reqBody := `{"capacity": 10}`
		req := httptest.NewRequest(http.MethodPost, "/spaces", strings.NewReader(reqBody))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := handler.Create(c)

		require.Error(t, err)
		he, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, he.Code)
		mockService.AssertNotCalled(t, "CreateSpace")
	})

	t.Run("同名スペースが存在する場合409", func(t *testing.T) {
		mockService := new(MockSpaceService)
		mockService.On("CreateSpace", mock.Anything, mock.AnythingOfType("application.CreateSpaceInput")).
			Return(nil, space.ErrSpaceNameTaken)

		handler := NewSpaceHandler(mockService, new(MockAvailability))

		reqBody := `{"name": "会議室A", "capacity": 10}`
		req := httptest.NewRequest(http.MethodPost, "/spaces", strings.NewReader(reqBody))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := handler.Create(c)

		require.Error(t, err)
		he, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusConflict, he.Code)

		mockService.AssertExpectations(t)
	})
}

func TestSpaceHandler_GetByID(t *testing.T) {
	e := NewTestEcho()

	t.Run("正常にスペースを取得できる", func(t *testing.T) {
		mockService := new(MockSpaceService)
		mockService.On("GetSpace", mock.Anything, int64(1)).Return(testSpace(1), nil)

		handler := NewSpaceHandler(mockService, new(MockAvailability))

		req := httptest.NewRequest(http.MethodGet, "/spaces/1", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("1")

		err := handler.GetByID(c)

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)

		mockService.AssertExpectations(t)
	})

	t.Run("スペースが見つからない場合404", func(t *testing.T) {
		mockService := new(MockSpaceService)
		mockService.On("GetSpace", mock.Anything, int64(999)).Return(nil, space.ErrSpaceNotFound)

		handler := NewSpaceHandler(mockService, new(MockAvailability))

		req := httptest.NewRequest(http.MethodGet, "/spaces/999", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("999")

		err := handler.GetByID(c)

		require.Error(t, err)
		he, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusNotFound, he.Code)

		mockService.AssertExpectations(t)
	})
}

func TestSpaceHandler_List(t *testing.T) {
	e := NewTestEcho()

	t.Run("フィルター条件で一覧を取得できる", func(t *testing.T) {
		mockService := new(MockSpaceService)
		mockService.On("ListSpaces", mock.Anything, space.Filter{
			Name:     "会議室",
			Capacity: 5,
			Status:   space.StatusActive,
			Page:     1,
			Limit:    10,
		}).Return([]*space.Space{testSpace(1)}, 1, nil)

		handler := NewSpaceHandler(mockService, new(MockAvailability))

		req := httptest.NewRequest(http.MethodGet, "/spaces?name=会議室&capacity=5&status=ACTIVE&page=1&limit=10", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := handler.List(c)

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp SpaceListResponse
		err = json.Unmarshal(rec.Body.Bytes(), &resp)
		require.NoError(t, err)
		assert.Len(t, resp.Data, 1)
		assert.Equal(t, 1, resp.Total)

		mockService.AssertExpectations(t)
	})
}

func TestSpaceHandler_Update(t *testing.T) {
	e := NewTestEcho()

	t.Run("正常にスペースを更新できる", func(t *testing.T) {
		mockService := new(MockSpaceService)
		updated := testSpace(1)
		updated.Capacity = 20
		mockService.On("UpdateSpace", mock.Anything, int64(1), mock.AnythingOfType("application.UpdateSpaceInput")).
			Return(updated, nil)

		handler := NewSpaceHandler(mockService, new(MockAvailability))

		req := httptest.NewRequest(http.MethodPatch, "/spaces/1", strings.NewReader(`{"capacity": 20}`))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("1")

		err := handler.Update(c)

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp SpaceResponse
		err = json.Unmarshal(rec.Body.Bytes(), &resp)
		require.NoError(t, err)
		assert.Equal(t, 20, resp.Capacity)

		mockService.AssertExpectations(t)
	})
}

func TestSpaceHandler_Delete(t *testing.T) {
	e := NewTestEcho()

	t.Run("正常にスペースを削除できる", func(t *testing.T) {
		mockService := new(MockSpaceService)
		mockService.On("DeleteSpace", mock.Anything, int64(1)).Return(nil)

		handler := NewSpaceHandler(mockService, new(MockAvailability))

		req := httptest.NewRequest(http.MethodDelete, "/spaces/1", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("1")

		err := handler.Delete(c)

		require.NoError(t, err)
		assert.Equal(t, http.StatusNoContent, rec.Code)

		mockService.AssertExpectations(t)
	})

	t.Run("有効な予約があるスペースは422", func(t *testing.T) {
		mockService := new(MockSpaceService)
		mockService.On("DeleteSpace", mock.Anything, int64(1)).Return(space.ErrSpaceHasReservations)

		handler := NewSpaceHandler(mockService, new(MockAvailability))

		req := httptest.NewRequest(http.MethodDelete, "/spaces/1", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("1")

		err := handler.Delete(c)

		require.Error(t, err)
		he, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusUnprocessableEntity, he.Code)

		mockService.AssertExpectations(t)
	})
}

func TestSpaceHandler_Availability(t *testing.T) {
	e := NewTestEcho()

	t.Run("有効予約件数を取得できる", func(t *testing.T) {
		mockAvailability := new(MockAvailability)
		mockAvailability.On("CountActive", mock.Anything, int64(1)).Return(3, nil)

		handler := NewSpaceHandler(new(MockSpaceService), mockAvailability)

		req := httptest.NewRequest(http.MethodGet, "/spaces/1/availability", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("1")

		err := handler.Availability(c)

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp SpaceAvailabilityResponse
		err = json.Unmarshal(rec.Body.Bytes(), &resp)
		require.NoError(t, err)
		assert.Equal(t, int64(1), resp.SpaceID)
		assert.Equal(t, 3, resp.ActiveCount)

		mockAvailability.AssertExpectations(t)
	})
}

package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanosuguru/go-space-reservation/internal/api"
	"github.com/sanosuguru/go-space-reservation/internal/api/handler"
	"github.com/sanosuguru/go-space-reservation/internal/api/middleware"
	"github.com/sanosuguru/go-space-reservation/internal/application"
	"github.com/sanosuguru/go-space-reservation/internal/config"
	"github.com/sanosuguru/go-space-reservation/internal/infrastructure/postgres"
	redisinfra "github.com/sanosuguru/go-space-reservation/internal/infrastructure/redis"
)

// TestServer はE2Eテスト用のサーバー
type TestServer struct {
	Echo    *echo.Echo
	Cleanup func()
}

// NewTestServer はテスト用サーバーを作成
// DB・Redisに接続できない環境ではテストをスキップする
func NewTestServer(t *testing.T) *TestServer {
	t.Helper()
	cfg := config.Load()

	db, err := postgres.NewConnection(&cfg.Database)
	if err != nil {
		t.Skipf("DB接続エラー: %v", err)
	}

	if err := postgres.RunMigrations(db.DB, "../migrations"); err != nil {
		db.Close()
		t.Skipf("マイグレーションエラー: %v", err)
	}

	redisClient := redisinfra.NewClient(&cfg.Redis)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := redisinfra.Ping(ctx, redisClient); err != nil {
		db.Close()
		t.Skipf("Redis接続エラー: %v", err)
	}

	txManager := postgres.NewTxManager(db)
	reservationRepo := postgres.NewReservationRepository(db)
	spaceRepo := postgres.NewSpaceRepository(db)
	resourceRepo := postgres.NewResourceRepository(db)
	clientRepo := postgres.NewClientRepository(db)

	lockManager := redisinfra.NewLockManager(redisClient)
	availabilityCache := redisinfra.NewAvailabilityCache(redisClient)

	availability := application.NewAvailabilityChecker(reservationRepo, availabilityCache)
	inventory := application.NewInventoryManager(resourceRepo)
	reservationService := application.NewReservationService(
		txManager, reservationRepo, spaceRepo, clientRepo,
		availability, inventory, lockManager, nil,
	)
	spaceService := application.NewSpaceService(spaceRepo, reservationRepo)
	resourceService := application.NewResourceService(resourceRepo)
	clientService := application.NewClientService(clientRepo)

	reservationHandler := handler.NewReservationHandler(reservationService)
	spaceHandler := handler.NewSpaceHandler(spaceService, availability)
	resourceHandler := handler.NewResourceHandler(resourceService)
	clientHandler := handler.NewClientHandler(clientService)
	healthHandler := handler.NewHealthHandler()

	e := echo.New()
	e.Validator = api.NewValidator()
	middleware.SetupMiddleware(e)

	e.GET("/health", healthHandler.Check)

	v1 := e.Group("/api/v1")
	v1.POST("/spaces", spaceHandler.Create)
	v1.GET("/spaces", spaceHandler.List)
	v1.GET("/spaces/:id", spaceHandler.GetByID)
	v1.GET("/spaces/:id/availability", spaceHandler.Availability)
	v1.PATCH("/spaces/:id", spaceHandler.Update)
	v1.DELETE("/spaces/:id", spaceHandler.Delete)

	v1.POST("/resources", resourceHandler.Create)
	v1.GET("/resources/:id", resourceHandler.GetByID)

	v1.POST("/clients", clientHandler.Create)
	v1.GET("/clients/:id", clientHandler.GetByID)

	v1.POST("/reservations", reservationHandler.Create)
	v1.GET("/reservations", reservationHandler.List)
	v1.GET("/reservations/:id", reservationHandler.GetByID)
	v1.PATCH("/reservations/:id", reservationHandler.Update)
	v1.DELETE("/reservations/:id", reservationHandler.Delete)

	cleanup := func() {
		db.Exec("TRUNCATE TABLE reservation_resources, reservations, clients, resources, spaces, users RESTART IDENTITY CASCADE")
		redisClient.FlushDB(context.Background())
		redisClient.Close()
		db.Close()
	}

	// 前回の実行が残っていても影響しないように先に消しておく
	db.Exec("TRUNCATE TABLE reservation_resources, reservations, clients, resources, spaces, users RESTART IDENTITY CASCADE")
	redisClient.FlushDB(context.Background())

	return &TestServer{Echo: e, Cleanup: cleanup}
}

// Request はHTTPリクエストを実行
func (s *TestServer) Request(method, path string, body interface{}) *httptest.ResponseRecorder {
	var reqBody []byte
	if body != nil {
		reqBody, _ = json.Marshal(body)
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, req)
	return rec
}

func (s *TestServer) createSpace(t *testing.T, name string) int64 {
	t.Helper()
	rec := s.Request("POST", "/api/v1/spaces", map[string]interface{}{
		"name": name, "capacity": 10,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var resp map[string]interface{}
	json.Unmarshal(rec.Body.Bytes(), &resp)
	return int64(resp["id"].(float64))
}

func (s *TestServer) createResource(t *testing.T, name string, quantity int) int64 {
	t.Helper()
	rec := s.Request("POST", "/api/v1/resources", map[string]interface{}{
		"name": name, "quantity": quantity,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var resp map[string]interface{}
	json.Unmarshal(rec.Body.Bytes(), &resp)
	return int64(resp["id"].(float64))
}

func (s *TestServer) createClient(t *testing.T, name, cpf, email string) int64 {
	t.Helper()
	rec := s.Request("POST", "/api/v1/clients", map[string]interface{}{
		"name": name, "cpf": cpf, "email": email, "birth_date": "1990-04-01",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var resp map[string]interface{}
	json.Unmarshal(rec.Body.Bytes(), &resp)
	return int64(resp["id"].(float64))
}

// TestE2E_HealthCheck はヘルスチェックをテスト
func TestE2E_HealthCheck(t *testing.T) {
	server := NewTestServer(t)
	defer server.Cleanup()

	rec := server.Request("GET", "/health", nil)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	err := json.Unmarshal(rec.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "ok", resp["status"])
}

// TestE2E_CompleteReservationJourney は予約のライフサイクル全体をテスト
func TestE2E_CompleteReservationJourney(t *testing.T) {
	server := NewTestServer(t)
	defer server.Cleanup()

	spaceID := server.createSpace(t, "会議室A")
	resourceID := server.createResource(t, "プロジェクター", 5)
	clientID := server.createClient(t, "山田太郎", "12345678901", "taro@example.com")

	start := time.Now().Add(7 * 24 * time.Hour).Truncate(time.Hour)
	end := start.Add(2 * time.Hour)

	var reservationID int64

	t.Run("予約作成", func(t *testing.T) {
		body := map[string]interface{}{
			"space_id":   spaceID,
			"client_id":  clientID,
			"start_date": start.Format(time.RFC3339),
			"end_date":   end.Format(time.RFC3339),
			"resources":  []map[string]interface{}{{"resource_id": resourceID, "quantity": 2}},
		}
		rec := server.Request("POST", "/api/v1/reservations", body)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var resp map[string]interface{}
		json.Unmarshal(rec.Body.Bytes(), &resp)
		reservationID = int64(resp["id"].(float64))
		assert.Equal(t, "OPEN", resp["status"])
		assert.Equal(t, "会議室A", resp["space_name"])
	})

	t.Run("在庫が引き当てられている", func(t *testing.T) {
		rec := server.Request("GET", fmt.Sprintf("/api/v1/resources/%d", resourceID), nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp map[string]interface{}
		json.Unmarshal(rec.Body.Bytes(), &resp)
		assert.Equal(t, float64(3), resp["quantity"])
	})

	t.Run("スペースの有効予約件数確認", func(t *testing.T) {
		rec := server.Request("GET", fmt.Sprintf("/api/v1/spaces/%d/availability", spaceID), nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp map[string]interface{}
		json.Unmarshal(rec.Body.Bytes(), &resp)
		assert.Equal(t, float64(1), resp["active_count"])
	})

	t.Run("予約承認", func(t *testing.T) {
		rec := server.Request("PATCH", fmt.Sprintf("/api/v1/reservations/%d", reservationID),
			map[string]interface{}{"status": "APPROVED"})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var resp map[string]interface{}
		json.Unmarshal(rec.Body.Bytes(), &resp)
		assert.Equal(t, "APPROVED", resp["status"])
	})

	t.Run("承認済み予約のクローズ", func(t *testing.T) {
		rec := server.Request("PATCH", fmt.Sprintf("/api/v1/reservations/%d", reservationID),
			map[string]interface{}{"status": "CLOSED"})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var resp map[string]interface{}
		json.Unmarshal(rec.Body.Bytes(), &resp)
		assert.Equal(t, "CLOSED", resp["status"])
	})

	t.Run("一覧でステータス絞り込み", func(t *testing.T) {
		rec := server.Request("GET", "/api/v1/reservations?status=CLOSED", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp map[string]interface{}
		json.Unmarshal(rec.Body.Bytes(), &resp)
		assert.Equal(t, float64(1), resp["total"])
	})
}

// TestE2E_DateConflict は期間重複の検出をテスト
func TestE2E_DateConflict(t *testing.T) {
	server := NewTestServer(t)
	defer server.Cleanup()

	spaceID := server.createSpace(t, "会議室B")
	resourceID := server.createResource(t, "マイク", 10)
	clientID := server.createClient(t, "佐藤花子", "98765432100", "hanako@example.com")

	start := time.Now().Add(3 * 24 * time.Hour).Truncate(time.Hour)
	end := start.Add(2 * time.Hour)

	makeBody := func(s, e time.Time) map[string]interface{} {
		return map[string]interface{}{
			"space_id":   spaceID,
			"client_id":  clientID,
			"start_date": s.Format(time.RFC3339),
			"end_date":   e.Format(time.RFC3339),
			"resources":  []map[string]interface{}{{"resource_id": resourceID, "quantity": 1}},
		}
	}

	t.Run("最初の予約は成功", func(t *testing.T) {
		rec := server.Request("POST", "/api/v1/reservations", makeBody(start, end))
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	})

	t.Run("重複する期間の予約は409", func(t *testing.T) {
		rec := server.Request("POST", "/api/v1/reservations", makeBody(start.Add(time.Hour), end.Add(time.Hour)))
		assert.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())
	})

	t.Run("境界が接するだけの予約は成功", func(t *testing.T) {
		rec := server.Request("POST", "/api/v1/reservations", makeBody(end, end.Add(2*time.Hour)))
		assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	})
}

// TestE2E_CancelDoesNotRestock はキャンセル時に在庫が復元されないことをテスト
func TestE2E_CancelDoesNotRestock(t *testing.T) {
	server := NewTestServer(t)
	defer server.Cleanup()

	spaceID := server.createSpace(t, "会議室C")
	resourceID := server.createResource(t, "ホワイトボード", 5)
	clientID := server.createClient(t, "鈴木一郎", "11122233344", "ichiro@example.com")

	start := time.Now().Add(5 * 24 * time.Hour).Truncate(time.Hour)
	end := start.Add(time.Hour)

	body := map[string]interface{}{
		"space_id":   spaceID,
		"client_id":  clientID,
		"start_date": start.Format(time.RFC3339),
		"end_date":   end.Format(time.RFC3339),
		"resources":  []map[string]interface{}{{"resource_id": resourceID, "quantity": 2}},
	}
	rec := server.Request("POST", "/api/v1/reservations", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var resp map[string]interface{}
	json.Unmarshal(rec.Body.Bytes(), &resp)
	reservationID := int64(resp["id"].(float64))

	t.Run("予約をキャンセル", func(t *testing.T) {
		rec := server.Request("DELETE", fmt.Sprintf("/api/v1/reservations/%d", reservationID), nil)
		require.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("在庫は復元されない", func(t *testing.T) {
		rec := server.Request("GET", fmt.Sprintf("/api/v1/resources/%d", resourceID), nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp map[string]interface{}
		json.Unmarshal(rec.Body.Bytes(), &resp)
		assert.Equal(t, float64(3), resp["quantity"])
	})

	t.Run("キャンセル後は同じ期間に再予約できる", func(t *testing.T) {
		rec := server.Request("POST", "/api/v1/reservations", body)
		assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	})

	t.Run("キャンセル済み予約の再キャンセルは422", func(t *testing.T) {
		rec := server.Request("DELETE", fmt.Sprintf("/api/v1/reservations/%d", reservationID), nil)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}

// TestE2E_InsufficientStock は在庫不足の検出をテスト
func TestE2E_InsufficientStock(t *testing.T) {
	server := NewTestServer(t)
	defer server.Cleanup()

	spaceID := server.createSpace(t, "会議室D")
	resourceID := server.createResource(t, "スクリーン", 1)
	clientID := server.createClient(t, "高橋次郎", "55566677788", "jiro@example.com")

	start := time.Now().Add(2 * 24 * time.Hour).Truncate(time.Hour)

	body := map[string]interface{}{
		"space_id":   spaceID,
		"client_id":  clientID,
		"start_date": start.Format(time.RFC3339),
		"end_date":   start.Add(time.Hour).Format(time.RFC3339),
		"resources":  []map[string]interface{}{{"resource_id": resourceID, "quantity": 2}},
	}

	rec := server.Request("POST", "/api/v1/reservations", body)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
}

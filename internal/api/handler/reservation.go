package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-space-reservation/internal/application"
	"github.com/sanosuguru/go-space-reservation/internal/domain/reservation"
)

type ReservationHandler struct {
	service ReservationServiceInterface
}

func NewReservationHandler(s ReservationServiceInterface) *ReservationHandler {
	return &ReservationHandler{service: s}
}

type ReservationResourceRequest struct {
	ResourceID int64 `json:"resource_id" validate:"required" example:"3"`
	Quantity   int   `json:"quantity" validate:"required,min=1" example:"2"`
}

type CreateReservationRequest struct {
	SpaceID   int64                        `json:"space_id" validate:"required" example:"1"`
	ClientID  int64                        `json:"client_id" validate:"required" example:"2"`
	StartDate time.Time                    `json:"start_date" validate:"required"`
	EndDate   time.Time                    `json:"end_date" validate:"required"`
	Resources []ReservationResourceRequest `json:"resources" validate:"required,min=1,dive"`
}

type UpdateReservationRequest struct {
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	Status    *string    `json:"status,omitempty" example:"APPROVED"`
}

type ReservationLineResponse struct {
	Resource string `json:"resource" example:"プロジェクター"`
	Quantity int    `json:"quantity" example:"2"`
}

type ReservationResponse struct {
	ID         int64                     `json:"id" example:"100"`
	SpaceID    int64                     `json:"space_id" example:"1"`
	SpaceName  string                    `json:"space_name" example:"会議室A"`
	ClientID   int64                     `json:"client_id" example:"2"`
	ClientName string                    `json:"client_name" example:"山田太郎"`
	ClientCPF  string                    `json:"client_cpf,omitempty"`
	StartDate  time.Time                 `json:"start_date"`
	EndDate    time.Time                 `json:"end_date"`
	Status     string                    `json:"status" example:"OPEN"`
	Resources  []ReservationLineResponse `json:"resources"`
	CreatedAt  time.Time                 `json:"created_at"`
	UpdatedAt  time.Time                 `json:"updated_at"`
}

type ReservationListResponse struct {
	Data  []ReservationResponse `json:"data"`
	Total int                   `json:"total" example:"42"`
	Page  int                   `json:"page" example:"1"`
	Limit int                   `json:"limit" example:"20"`
}

func toReservationResponse(v *reservation.View) ReservationResponse {
	lines := make([]ReservationLineResponse, len(v.Lines))
	for i, l := range v.Lines {
		lines[i] = ReservationLineResponse{Resource: l.Resource, Quantity: l.Quantity}
	}
	return ReservationResponse{
		ID:         v.ID,
		SpaceID:    v.SpaceID,
		SpaceName:  v.SpaceName,
		ClientID:   v.ClientID,
		ClientName: v.ClientName,
		ClientCPF:  v.ClientCPF,
		StartDate:  v.StartDate,
		EndDate:    v.EndDate,
		Status:     string(v.Status),
		Resources:  lines,
		CreatedAt:  v.CreatedAt,
		UpdatedAt:  v.UpdatedAt,
	}
}

// Create godoc
// @Summary 予約を作成
// @Description スペースの予約をOPEN状態で作成し、リソースの在庫を引き当てます
// @Tags reservations
// @Accept json
// @Produce json
// @Param request body CreateReservationRequest true "予約情報"
// @Success 201 {object} ReservationResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string "期間が既存予約と重複"
// @Failure 422 {object} map[string]string "在庫不足または非アクティブ"
// @Router /reservations [post]
func (h *ReservationHandler) Create(c echo.Context) error {
	var req CreateReservationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	lines := make([]reservation.ResourceLine, len(req.Resources))
	for i, r := range req.Resources {
		lines[i] = reservation.ResourceLine{ResourceID: r.ResourceID, Quantity: r.Quantity}
	}

	v, err := h.service.CreateReservation(c.Request().Context(), application.CreateReservationInput{
		SpaceID:   req.SpaceID,
		ClientID:  req.ClientID,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Resources: lines,
	})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, toReservationResponse(v))
}

// GetByID godoc
// @Summary 予約を取得
// @Tags reservations
// @Produce json
// @Param id path int true "予約ID"
// @Success 200 {object} ReservationResponse
// @Failure 404 {object} map[string]string
// @Router /reservations/{id} [get]
func (h *ReservationHandler) GetByID(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	v, err := h.service.GetReservation(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, toReservationResponse(v))
}

// List godoc
// @Summary 予約一覧を取得
// @Description ステータス・クライアント・スペースで絞り込んだ予約一覧を返します
// @Tags reservations
// @Produce json
// @Param status query string false "ステータス（OPEN/APPROVED/CLOSED/CANCELED）"
// @Param client_name query string false "クライアント名（部分一致）"
// @Param cpf query string false "CPF（完全一致）"
// @Param phone query string false "電話番号（部分一致）"
// @Param space_name query string false "スペース名（部分一致）"
// @Param page query int false "ページ番号" default(1)
// @Param limit query int false "取得件数" default(20)
// @Success 200 {object} ReservationListResponse
// @Router /reservations [get]
func (h *ReservationHandler) List(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	f := reservation.Filter{
		Status:      reservation.Status(c.QueryParam("status")),
		ClientName:  c.QueryParam("client_name"),
		ClientCPF:   c.QueryParam("cpf"),
		ClientPhone: c.QueryParam("phone"),
		SpaceName:   c.QueryParam("space_name"),
		Page:        page,
		Limit:       limit,
	}
	if f.Status != "" && !f.Status.IsValid() {
		return echo.NewHTTPError(http.StatusBadRequest, "不明なステータスです")
	}

	views, total, err := h.service.ListReservations(c.Request().Context(), f)
	if err != nil {
		return httpError(err)
	}

	data := make([]ReservationResponse, len(views))
	for i, v := range views {
		data[i] = toReservationResponse(v)
	}
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 {
		f.Limit = 20
	}
	return c.JSON(http.StatusOK, ReservationListResponse{
		Data:  data,
		Total: total,
		Page:  f.Page,
		Limit: f.Limit,
	})
}

// Update godoc
// @Summary 予約を更新
// @Description ステータス遷移と期間変更の部分更新。CANCELEDへの変更は削除APIを使用してください
// @Tags reservations
// @Accept json
// @Produce json
// @Param id path int true "予約ID"
// @Param request body UpdateReservationRequest true "更新内容"
// @Success 200 {object} ReservationResponse
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string "期間が既存予約と重複"
// @Failure 422 {object} map[string]string "許可されていない遷移"
// @Router /reservations/{id} [patch]
func (h *ReservationHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req UpdateReservationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}

	input := application.UpdateReservationInput{
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	}
	if req.Status != nil {
		status := reservation.Status(*req.Status)
		input.Status = &status
	}

	v, err := h.service.UpdateReservation(c.Request().Context(), id, input)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, toReservationResponse(v))
}

// Delete godoc
// @Summary 予約をキャンセル（論理削除）
// @Description OPEN状態の予約をCANCELEDに変更します。在庫は復元されません
// @Tags reservations
// @Produce json
// @Param id path int true "予約ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string "OPEN以外の予約"
// @Router /reservations/{id} [delete]
func (h *ReservationHandler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if _, err := h.service.SoftDeleteReservation(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// parseID はパスパラメータのIDを解析する
func parseID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "IDが不正です")
	}
	return id, nil
}

package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-space-reservation/internal/application"
	"github.com/sanosuguru/go-space-reservation/internal/domain/space"
)

type SpaceHandler struct {
	service      SpaceServiceInterface
	availability AvailabilityInterface
}

func NewSpaceHandler(s SpaceServiceInterface, a AvailabilityInterface) *SpaceHandler {
	return &SpaceHandler{service: s, availability: a}
}

type CreateSpaceRequest struct {
	Name        string `json:"name" validate:"required" example:"会議室A"`
	Description string `json:"description" example:"プロジェクター完備の10人用会議室"`
	Capacity    int    `json:"capacity" validate:"required,min=1" example:"10"`
}

type UpdateSpaceRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Capacity    *int    `json:"capacity,omitempty"`
	Status      *string `json:"status,omitempty" example:"ACTIVE"`
}

type SpaceResponse struct {
	ID          int64     `json:"id" example:"1"`
	Name        string    `json:"name" example:"会議室A"`
	Description string    `json:"description"`
	Capacity    int       `json:"capacity" example:"10"`
	Status      string    `json:"status" example:"ACTIVE"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type SpaceListResponse struct {
	Data  []SpaceResponse `json:"data"`
	Total int             `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

type SpaceAvailabilityResponse struct {
	SpaceID     int64 `json:"space_id" example:"1"`
	ActiveCount int   `json:"active_count" example:"3"`
}

func toSpaceResponse(s *space.Space) SpaceResponse {
	return SpaceResponse{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		Capacity:    s.Capacity,
		Status:      string(s.Status),
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

// Create godoc
// @Summary スペースを作成
// @Tags spaces
// @Accept json
// @Produce json
// @Param request body CreateSpaceRequest true "スペース情報"
// @Success 201 {object} SpaceResponse
// @Failure 409 {object} map[string]string "同名スペースが存在"
// @Router /spaces [post]
func (h *SpaceHandler) Create(c echo.Context) error {
	var req CreateSpaceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	sp, err := h.service.CreateSpace(c.Request().Context(), application.CreateSpaceInput{
		Name:        req.Name,
		Description: req.Description,
		Capacity:    req.Capacity,
	})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, toSpaceResponse(sp))
}

// GetByID godoc
// @Summary スペースを取得
// @Tags spaces
// @Produce json
// @Param id path int true "スペースID"
// @Success 200 {object} SpaceResponse
// @Failure 404 {object} map[string]string
// @Router /spaces/{id} [get]
func (h *SpaceHandler) GetByID(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	sp, err := h.service.GetSpace(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, toSpaceResponse(sp))
}

// List godoc
// @Summary スペース一覧を取得
// @Tags spaces
// @Produce json
// @Param name query string false "名前（部分一致）"
// @Param capacity query int false "収容人数（以上）"
// @Param status query string false "ステータス（ACTIVE/INACTIVE）"
// @Param page query int false "ページ番号" default(1)
// @Param limit query int false "取得件数" default(20)
// @Success 200 {object} SpaceListResponse
// @Router /spaces [get]
func (h *SpaceHandler) List(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	capacity, _ := strconv.Atoi(c.QueryParam("capacity"))

	f := space.Filter{
		Name:     c.QueryParam("name"),
		Capacity: capacity,
		Status:   space.Status(c.QueryParam("status")),
		Page:     page,
		Limit:    limit,
	}

	spaces, total, err := h.service.ListSpaces(c.Request().Context(), f)
	if err != nil {
		return httpError(err)
	}

	data := make([]SpaceResponse, len(spaces))
	for i, sp := range spaces {
		data[i] = toSpaceResponse(sp)
	}
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 {
		f.Limit = 20
	}
	return c.JSON(http.StatusOK, SpaceListResponse{Data: data, Total: total, Page: f.Page, Limit: f.Limit})
}

// Update godoc
// @Summary スペースを更新
// @Tags spaces
// @Accept json
// @Produce json
// @Param id path int true "スペースID"
// @Param request body UpdateSpaceRequest true "更新内容"
// @Success 200 {object} SpaceResponse
// @Failure 404 {object} map[string]string
// @Router /spaces/{id} [patch]
func (h *SpaceHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req UpdateSpaceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}

	input := application.UpdateSpaceInput{
		Name:        req.Name,
		Description: req.Description,
		Capacity:    req.Capacity,
	}
	if req.Status != nil {
		status := space.Status(*req.Status)
		input.Status = &status
	}

	sp, err := h.service.UpdateSpace(c.Request().Context(), id, input)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, toSpaceResponse(sp))
}

// Delete godoc
// @Summary スペースを論理削除
// @Description 有効な予約が存在するスペースは削除できません
// @Tags spaces
// @Produce json
// @Param id path int true "スペースID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string "予約が存在する"
// @Router /spaces/{id} [delete]
func (h *SpaceHandler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.service.DeleteSpace(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Availability godoc
// @Summary スペースの有効予約件数を取得
// @Tags spaces
// @Produce json
// @Param id path int true "スペースID"
// @Success 200 {object} SpaceAvailabilityResponse
// @Router /spaces/{id}/availability [get]
func (h *SpaceHandler) Availability(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	count, err := h.availability.CountActive(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, SpaceAvailabilityResponse{SpaceID: id, ActiveCount: count})
}

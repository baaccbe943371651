package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-space-reservation/internal/application"
	"github.com/sanosuguru/go-space-reservation/internal/domain/resource"
)

type ResourceHandler struct {
	service ResourceServiceInterface
}

func NewResourceHandler(s ResourceServiceInterface) *ResourceHandler {
	return &ResourceHandler{service: s}
}

type CreateResourceRequest struct {
	Name        string `json:"name" validate:"required" example:"プロジェクター"`
	Description string `json:"description"`
	Quantity    int    `json:"quantity" validate:"min=0" example:"5"`
}

type UpdateResourceRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Quantity    *int    `json:"quantity,omitempty"`
	Status      *string `json:"status,omitempty" example:"ACTIVE"`
}

type ResourceResponse struct {
	ID          int64     `json:"id" example:"3"`
	Name        string    `json:"name" example:"プロジェクター"`
	Description string    `json:"description"`
	Quantity    int       `json:"quantity" example:"5"`
	Status      string    `json:"status" example:"ACTIVE"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type ResourceListResponse struct {
	Data  []ResourceResponse `json:"data"`
	Total int                `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}

func toResourceResponse(r *resource.Resource) ResourceResponse {
	return ResourceResponse{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Quantity:    r.Quantity,
		Status:      string(r.Status),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// Create godoc
// @Summary リソースを作成
// @Tags resources
// @Accept json
// @Produce json
// @Param request body CreateResourceRequest true "リソース情報"
// @Success 201 {object} ResourceResponse
// @Failure 409 {object} map[string]string "同名リソースが存在"
// @Router /resources [post]
func (h *ResourceHandler) Create(c echo.Context) error {
	var req CreateResourceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	r, err := h.service.CreateResource(c.Request().Context(), application.CreateResourceInput{
		Name:        req.Name,
		Description: req.Description,
		Quantity:    req.Quantity,
	})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, toResourceResponse(r))
}

// GetByID godoc
// @Summary リソースを取得
// @Tags resources
// @Produce json
// @Param id path int true "リソースID"
// @Success 200 {object} ResourceResponse
// @Failure 404 {object} map[string]string
// @Router /resources/{id} [get]
func (h *ResourceHandler) GetByID(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	r, err := h.service.GetResource(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, toResourceResponse(r))
}

// List godoc
// @Summary リソース一覧を取得
// @Tags resources
// @Produce json
// @Param name query string false "名前（部分一致）"
// @Param status query string false "ステータス（ACTIVE/INACTIVE）"
// @Param page query int false "ページ番号" default(1)
// @Param limit query int false "取得件数" default(20)
// @Success 200 {object} ResourceListResponse
// @Router /resources [get]
func (h *ResourceHandler) List(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	f := resource.Filter{
		Name:   c.QueryParam("name"),
		Status: resource.Status(c.QueryParam("status")),
		Page:   page,
		Limit:  limit,
	}

	resources, total, err := h.service.ListResources(c.Request().Context(), f)
	if err != nil {
		return httpError(err)
	}

	data := make([]ResourceResponse, len(resources))
	for i, r := range resources {
		data[i] = toResourceResponse(r)
	}
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 {
		f.Limit = 20
	}
	return c.JSON(http.StatusOK, ResourceListResponse{Data: data, Total: total, Page: f.Page, Limit: f.Limit})
}

// Update godoc
// @Summary リソースを更新
// @Tags resources
// @Accept json
// @Produce json
// @Param id path int true "リソースID"
// @Param request body UpdateResourceRequest true "更新内容"
// @Success 200 {object} ResourceResponse
// @Failure 404 {object} map[string]string
// @Router /resources/{id} [patch]
func (h *ResourceHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req UpdateResourceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}

	input := application.UpdateResourceInput{
		Name:        req.Name,
		Description: req.Description,
		Quantity:    req.Quantity,
	}
	if req.Status != nil {
		status := resource.Status(*req.Status)
		input.Status = &status
	}

	r, err := h.service.UpdateResource(c.Request().Context(), id, input)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, toResourceResponse(r))
}

// Delete godoc
// @Summary リソースを論理削除
// @Description 非アクティブ化されたリソースは新規予約で利用できません
// @Tags resources
// @Produce json
// @Param id path int true "リソースID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /resources/{id} [delete]
func (h *ResourceHandler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.service.DeleteResource(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-space-reservation/internal/application"
	"github.com/sanosuguru/go-space-reservation/internal/domain/client"
)

type ClientHandler struct {
	service ClientServiceInterface
}

func NewClientHandler(s ClientServiceInterface) *ClientHandler {
	return &ClientHandler{service: s}
}

type CreateClientRequest struct {
	Name      string `json:"name" validate:"required" example:"山田太郎"`
	CPF       string `json:"cpf" validate:"required,len=11" example:"12345678901"`
	Email     string `json:"email" validate:"required,email" example:"taro@example.com"`
	Phone     string `json:"phone" example:"090-1111-2222"`
	BirthDate string `json:"birth_date" validate:"required" example:"1990-04-01"`
}

type UpdateClientRequest struct {
	Name      *string `json:"name,omitempty"`
	Email     *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone     *string `json:"phone,omitempty"`
	BirthDate *string `json:"birth_date,omitempty"`
	Status    *string `json:"status,omitempty" example:"ACTIVE"`
}

type ClientResponse struct {
	ID        int64     `json:"id" example:"2"`
	Name      string    `json:"name" example:"山田太郎"`
	CPF       string    `json:"cpf" example:"12345678901"`
	Email     string    `json:"email" example:"taro@example.com"`
	Phone     string    `json:"phone"`
	BirthDate string    `json:"birth_date" example:"1990-04-01"`
	Status    string    `json:"status" example:"ACTIVE"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ClientListResponse struct {
	Data  []ClientResponse `json:"data"`
	Total int              `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}

const birthDateLayout = "2006-01-02"

func toClientResponse(c *client.Client) ClientResponse {
	return ClientResponse{
		ID:        c.ID,
		Name:      c.Name,
		CPF:       c.CPF,
		Email:     c.Email,
		Phone:     c.Phone,
		BirthDate: c.BirthDate.Format(birthDateLayout),
		Status:    string(c.Status),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// Create godoc
// @Summary クライアントを登録
// @Tags clients
// @Accept json
// @Produce json
// @Param request body CreateClientRequest true "クライアント情報"
// @Success 201 {object} ClientResponse
// @Failure 409 {object} map[string]string "CPFまたはメールアドレスが重複"
// @Router /clients [post]
func (h *ClientHandler) Create(c echo.Context) error {
	var req CreateClientRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	birthDate, err := time.Parse(birthDateLayout, req.BirthDate)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "生年月日の形式が不正です（YYYY-MM-DD）")
	}

	cl, err := h.service.CreateClient(c.Request().Context(), application.CreateClientInput{
		Name:      req.Name,
		CPF:       req.CPF,
		Email:     req.Email,
		Phone:     req.Phone,
		BirthDate: birthDate,
	})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, toClientResponse(cl))
}

// GetByID godoc
// @Summary クライアントを取得
// @Tags clients
// @Produce json
// @Param id path int true "クライアントID"
// @Success 200 {object} ClientResponse
// @Failure 404 {object} map[string]string
// @Router /clients/{id} [get]
func (h *ClientHandler) GetByID(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	cl, err := h.service.GetClient(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, toClientResponse(cl))
}

// List godoc
// @Summary クライアント一覧を取得
// @Tags clients
// @Produce json
// @Param name query string false "名前（部分一致）"
// @Param cpf query string false "CPF（完全一致）"
// @Param email query string false "メールアドレス（部分一致）"
// @Param status query string false "ステータス（ACTIVE/INACTIVE）"
// @Param page query int false "ページ番号" default(1)
// @Param limit query int false "取得件数" default(20)
// @Success 200 {object} ClientListResponse
// @Router /clients [get]
func (h *ClientHandler) List(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	f := client.Filter{
		Name:   c.QueryParam("name"),
		CPF:    c.QueryParam("cpf"),
		Email:  c.QueryParam("email"),
		Status: client.Status(c.QueryParam("status")),
		Page:   page,
		Limit:  limit,
	}

	clients, total, err := h.service.ListClients(c.Request().Context(), f)
	if err != nil {
		return httpError(err)
	}

	data := make([]ClientResponse, len(clients))
	for i, cl := range clients {
		data[i] = toClientResponse(cl)
	}
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 {
		f.Limit = 20
	}
	return c.JSON(http.StatusOK, ClientListResponse{Data: data, Total: total, Page: f.Page, Limit: f.Limit})
}

// Update godoc
// @Summary クライアントを更新
// @Description CPFは変更できません
// @Tags clients
// @Accept json
// @Produce json
// @Param id path int true "クライアントID"
// @Param request body UpdateClientRequest true "更新内容"
// @Success 200 {object} ClientResponse
// @Failure 404 {object} map[string]string
// @Router /clients/{id} [patch]
func (h *ClientHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req UpdateClientRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	input := application.UpdateClientInput{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	}
	if req.BirthDate != nil {
		birthDate, err := time.Parse(birthDateLayout, *req.BirthDate)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "生年月日の形式が不正です（YYYY-MM-DD）")
		}
		input.BirthDate = &birthDate
	}
	if req.Status != nil {
		status := client.Status(*req.Status)
		input.Status = &status
	}

	cl, err := h.service.UpdateClient(c.Request().Context(), id, input)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, toClientResponse(cl))
}

// Delete godoc
// @Summary クライアントを論理削除
// @Tags clients
// @Produce json
// @Param id path int true "クライアントID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /clients/{id} [delete]
func (h *ClientHandler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.service.DeleteClient(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

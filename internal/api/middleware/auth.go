package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-space-reservation/internal/pkg/token"
)

const (
	contextKeyUserID = "auth_user_id"
	contextKeyRole   = "auth_role"
)

// TokenValidator はJWTを検証するインターフェース
type TokenValidator interface {
	Validate(tokenString string) (*token.Claims, error)
}

// JWT はAuthorizationヘッダーのBearerトークンを検証するミドルウェア
func JWT(validator TokenValidator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "認証トークンが必要です")
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "認証ヘッダーの形式が不正です")
			}

			claims, err := validator.Validate(parts[1])
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "認証トークンが無効です")
			}

			c.Set(contextKeyUserID, claims.UserID)
			c.Set(contextKeyRole, claims.Role)

			return next(c)
		}
	}
}

// RequireAdmin は管理者ロールのみ許可するミドルウェア
// JWT ミドルウェアの後段で使用すること
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := RoleFrom(c)
			if !ok || role != "ADMIN" {
				return echo.NewHTTPError(http.StatusForbidden, "管理者権限が必要です")
			}
			return next(c)
		}
	}
}

// UserIDFrom はコンテキストから認証済みユーザーIDを取り出す
func UserIDFrom(c echo.Context) (int64, bool) {
	id, ok := c.Get(contextKeyUserID).(int64)
	return id, ok
}

// RoleFrom はコンテキストから認証済みユーザーのロールを取り出す
func RoleFrom(c echo.Context) (string, bool) {
	role, ok := c.Get(contextKeyRole).(string)
	return role, ok
}

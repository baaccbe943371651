package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-space-reservation/internal/domain/client"
	"github.com/sanosuguru/go-space-reservation/internal/domain/reservation"
	"github.com/sanosuguru/go-space-reservation/internal/domain/resource"
	"github.com/sanosuguru/go-space-reservation/internal/domain/space"
	"github.com/sanosuguru/go-space-reservation/internal/domain/user"
)

// httpError はドメインエラーをHTTPステータスに対応付ける
func httpError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, reservation.ErrReservationNotFound),
		errors.Is(err, space.ErrSpaceNotFound),
		errors.Is(err, resource.ErrResourceNotFound),
		errors.Is(err, client.ErrClientNotFound),
		errors.Is(err, user.ErrUserNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())

	case errors.Is(err, reservation.ErrDateConflict),
		errors.Is(err, space.ErrSpaceNameTaken),
		errors.Is(err, resource.ErrResourceNameTaken),
		errors.Is(err, client.ErrClientAlreadyExists),
		errors.Is(err, user.ErrEmailTaken):
		return echo.NewHTTPError(http.StatusConflict, err.Error())

	case errors.Is(err, resource.ErrInsufficientQuantity),
		errors.Is(err, space.ErrSpaceNotActive),
		errors.Is(err, client.ErrClientNotActive),
		errors.Is(err, resource.ErrResourceNotActive),
		errors.Is(err, space.ErrSpaceHasReservations):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())

	case errors.Is(err, reservation.ErrInvalidStatus),
		errors.Is(err, reservation.ErrInvalidTransition),
		errors.Is(err, reservation.ErrCancelViaUpdate),
		errors.Is(err, reservation.ErrOnlyOpenCanBeApproved),
		errors.Is(err, reservation.ErrOnlyApprovedCanBeClosed),
		errors.Is(err, reservation.ErrOnlyOpenCanBeCanceled),
		errors.Is(err, reservation.ErrDateUpdateNotAllowed):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())

	case errors.Is(err, reservation.ErrSpaceIDRequired),
		errors.Is(err, reservation.ErrClientIDRequired),
		errors.Is(err, reservation.ErrInvalidDateRange),
		errors.Is(err, reservation.ErrResourcesRequired),
		errors.Is(err, reservation.ErrInvalidResourceLine),
		errors.Is(err, space.ErrSpaceNameRequired),
		errors.Is(err, space.ErrInvalidCapacity),
		errors.Is(err, space.ErrSpaceAlreadyInactive),
		errors.Is(err, resource.ErrResourceNameRequired),
		errors.Is(err, resource.ErrInvalidQuantity),
		errors.Is(err, resource.ErrResourceAlreadyInactive),
		errors.Is(err, client.ErrClientNameRequired),
		errors.Is(err, client.ErrCPFRequired),
		errors.Is(err, client.ErrEmailRequired),
		errors.Is(err, client.ErrClientAlreadyInactive),
		errors.Is(err, user.ErrUserNameRequired),
		errors.Is(err, user.ErrUserEmailRequired),
		errors.Is(err, user.ErrPasswordRequired):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())

	case errors.Is(err, user.ErrInvalidCredential):
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}

	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}

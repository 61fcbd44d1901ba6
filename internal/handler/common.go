// Package handler implements the HTTP endpoints of the theatre API on
// top of the repositories and the reservation service.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/SensibleN00B/theatre-api/internal/model"
	"github.com/SensibleN00B/theatre-api/internal/repository"
)

// getUserID extracts the authenticated user id placed in the context by
// the JWT middleware.
func getUserID(c echo.Context) (uint64, error) {
	if id, ok := c.Get("user_id").(uint64); ok && id != 0 {
		return id, nil
	}
	return 0, errors.New("missing user_id in context")
}

// parseID parses the named path parameter as an id.
func parseID(c echo.Context, name string) (uint64, error) {
	return strconv.ParseUint(c.Param(name), 10, 64)
}

// renderRepoError translates the repository sentinels shared by most
// endpoints.  Field-level validation failures come out as one-key maps so
// clients can attach the message to the offending input.
func renderRepoError(c echo.Context, err error) error {
	var ve *model.ValidationError
	switch {
	case errors.As(err, &ve):
		return c.JSON(http.StatusBadRequest, echo.Map{ve.Field: ve.Message})
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	case errors.Is(err, repository.ErrDuplicateName):
		return c.JSON(http.StatusConflict, echo.Map{"error": repository.ErrDuplicateName.Error()})
	case errors.Is(err, repository.ErrShowTimeTaken):
		// double-booking a hall is a validation failure on the field
		return c.JSON(http.StatusBadRequest, echo.Map{"show_time": repository.ErrShowTimeTaken.Error()})
	case errors.Is(err, repository.ErrProtected):
		return c.JSON(http.StatusConflict, echo.Map{"error": "cannot delete: referenced by other records"})
	case errors.Is(err, repository.ErrBadReference):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": repository.ErrBadReference.Error()})
	default:
		c.Logger().Errorf("handler: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}

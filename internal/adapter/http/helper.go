package http

import (
	"errors"
	"net/http"
	"strings"

	domain "approval-engine/internal/domain/request"

	"github.com/labstack/echo/v4"
)

// ---- helpers ----

// errorStatus maps engine errors onto HTTP codes. A version conflict
// gets 412 so callers know to re-fetch and retry; a corrupted level
// pointer is a server fault, not a client one.
func errorStatus(err error) int {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrNotActionable):
		return http.StatusConflict
	case errors.Is(err, domain.ErrConflict):
		return http.StatusPreconditionFailed
	case errors.Is(err, domain.ErrIdentifierExhausted):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func writeError(c echo.Context, err error) error {
	return c.JSON(errorStatus(err), ErrorResponse{Error: err.Error()})
}

func containsFieldMsg(list []FieldError, field, substr string) bool {
	for _, e := range list {
		if e.Field == field && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

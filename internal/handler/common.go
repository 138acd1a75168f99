// Package handler implements the procedure layer: every endpoint runs
// authentication context reads, a policy check, input validation and
// exactly one repository call, in that order.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/novaschool/parent-portal/internal/repository"
)

var validate = validator.New()

// callerID reads the authenticated user ID set by the JWT middleware.
func callerID(c echo.Context) uint64 {
	uid, _ := c.Get("user_id").(uint64)
	return uid
}

// callerRole reads the authenticated role set by the JWT middleware.
func callerRole(c echo.Context) string {
	role, _ := c.Get("role").(string)
	return role
}

// pathID parses the numeric :id route parameter.
func pathID(c echo.Context) (uint64, error) {
	return strconv.ParseUint(c.Param("id"), 10, 64)
}

// bindAndValidate binds the JSON body and runs struct validation.
// When it returns false the 400 response has already been written.
func bindAndValidate(c echo.Context, v any) (bool, error) {
	if err := c.Bind(v); err != nil {
		return false, c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := validate.Struct(v); err != nil {
		return false, c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	return true, nil
}

// repoError translates repository sentinel errors into HTTP responses.
// The descriptive messages are part of the client contract; the UI
// renders them as-is.
func repoError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrStoreUnavailable):
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "store unavailable"})
	case errors.Is(err, repository.ErrStudentNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Student not found"})
	case errors.Is(err, repository.ErrTeacherNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Teacher profile not found"})
	case errors.Is(err, repository.ErrTemplateNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Template not found"})
	case errors.Is(err, repository.ErrMessageNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Message not found"})
	case errors.Is(err, repository.ErrUserNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "User not found"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}

// unauthorized writes the uniform authorization failure.
func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusForbidden, echo.Map{"error": "Unauthorized"})
}

// emptyList maps a nil slice to an empty JSON array so degraded reads
// still serialize as [].
func emptyList[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}

package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// Validator adapts go-playground/validator to echo's Validator interface.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	return &Validator{validate: validator.New()}
}

func (v *Validator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{
			"error":  "VALIDATION_ERROR",
			"detail": err.Error(),
		})
	}
	return nil
}

// parseID parses a numeric path parameter; 0 means invalid.
func parseID(c echo.Context, name string) uint {
	n, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0
	}
	return uint(n)
}

// storeError maps translated store errors onto the API's error bodies:
// a duplicate unique value is a 409 CONFLICT, a missing FK target a 400
// INVALID_REFERENCE, a missing row a 404 NOT_FOUND.
func storeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return c.JSON(http.StatusConflict, map[string]string{"error": "CONFLICT"})
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_REFERENCE"})
	case errors.Is(err, gorm.ErrRecordNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"error": "NOT_FOUND"})
	}
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_ERROR"})
}

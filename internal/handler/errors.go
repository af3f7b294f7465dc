package handler

import (
	"errors"
	"net/http"

	"fintrack/internal/model"
	"fintrack/internal/service"
	"fintrack/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// respondError maps domain error categories onto HTTP status codes so every
// handler reports workflow failures the same way.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, model.ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		status = http.StatusNotFound
	case errors.Is(err, model.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, model.ErrInvalidState), errors.Is(err, model.ErrConcurrentModification):
		status = http.StatusConflict
	case errors.Is(err, model.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, model.ErrInsufficientFunds), errors.Is(err, model.ErrOverReceipt):
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, response.Error(status, err.Error()))
}

// currentActor reads the authenticated caller off the gin context, where the
// auth middleware stored the JWT claims.
func currentActor(c *gin.Context) (service.Actor, bool) {
	rawID, ok := c.Get("userID")
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "User ID not found in context"))
		return service.Actor{}, false
	}
	idStr, ok := rawID.(string)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Invalid User ID format"))
		return service.Actor{}, false
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Invalid User ID format"))
		return service.Actor{}, false
	}

	role, _ := c.Get("userRole")
	roleStr, _ := role.(string)

	return service.Actor{ID: id, Role: roleStr}, true
}

package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"lawpractice-service/internal/models"
)

var (
	defaultPageSize = 20
	maxPageSize     = 100
)

// SetPagination sets the page size bounds used by list endpoints.
// Called once at startup from config.
func SetPagination(defaultSize, maxSize int) {
	if defaultSize > 0 {
		defaultPageSize = defaultSize
	}
	if maxSize > 0 {
		maxPageSize = maxSize
	}
}

// getPagination reads page/limit query params with sane bounds
func getPagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultPageSize)))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > maxPageSize {
		limit = defaultPageSize
	}
	return page, limit
}

// parseIDParam parses a UUID path parameter, responding 400 on failure
func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error:   models.Error{Code: "BAD_REQUEST", Message: "Invalid " + name, Field: name},
		})
		return uuid.Nil, false
	}
	return id, true
}

func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Success: false,
		Error:   models.Error{Code: "INVALID_INPUT", Message: message},
	})
}

func respondValidation(c *gin.Context, field, message string) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Success: false,
		Error:   models.Error{Code: "VALIDATION_FAILED", Message: message, Field: field},
	})
}

func respondConflict(c *gin.Context, field, message string) {
	c.JSON(http.StatusConflict, models.ErrorResponse{
		Success: false,
		Error:   models.Error{Code: "CONFLICT", Message: message, Field: field},
	})
}

func respondNotFound(c *gin.Context, resource string) {
	c.JSON(http.StatusNotFound, models.ErrorResponse{
		Success: false,
		Error:   models.Error{Code: "NOT_FOUND", Message: resource + " not found"},
	})
}

func respondInternal(c *gin.Context, message string) {
	c.JSON(http.StatusInternalServerError, models.ErrorResponse{
		Success: false,
		Error:   models.Error{Code: "INTERNAL_SERVER_ERROR", Message: message},
	})
}

func strPtr(s string) *string {
	return &s
}

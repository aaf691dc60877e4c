package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func paginationContext(t *testing.T, query string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/clients"+query, nil)
	return c
}

func TestGetPaginationDefaults(t *testing.T) {
	page, limit := getPagination(paginationContext(t, ""))
	assert.Equal(t, 1, page)
	assert.Equal(t, 20, limit)
}

func TestGetPaginationClampsBadValues(t *testing.T) {
	page, limit := getPagination(paginationContext(t, "?page=0&limit=9999"))
	assert.Equal(t, 1, page)
	assert.Equal(t, 20, limit)
}

func TestGetPaginationUsesConfiguredBounds(t *testing.T) {
	SetPagination(25, 50)
	t.Cleanup(func() { SetPagination(20, 100) })

	page, limit := getPagination(paginationContext(t, ""))
	assert.Equal(t, 1, page)
	assert.Equal(t, 25, limit)

	// Over the configured max falls back to the configured default
	_, limit = getPagination(paginationContext(t, "?limit=60"))
	assert.Equal(t, 25, limit)

	_, limit = getPagination(paginationContext(t, "?limit=50"))
	assert.Equal(t, 50, limit)
}

// Package handlers adapts the resource services to the JSON API. Every
// response uses the {success, data|error, count?, pagination?} envelope.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bootcamper/internal/services"
)

func respondData(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

func respondPage[T any](c *gin.Context, page services.Page[T]) {
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"count":      len(page.Items),
		"total":      page.Total,
		"pagination": page.Pagination,
		"data":       page.Items,
	})
}

func respondCollection[T any](c *gin.Context, items []T) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(items),
		"data":    items,
	})
}

// BindJSONOrError ensures the body is present and parsable.
func BindJSONOrError[T any](c *gin.Context, dst *T) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, "invalid JSON body", err)
		return false
	}
	return true
}

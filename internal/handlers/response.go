package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"structa-system/config"
	"structa-system/internal/database/models"
	"structa-system/internal/utils"
)

type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Meta    interface{} `json:"meta,omitempty"`
}

func successResponse(message string, data interface{}) APIResponse {
	return APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	}
}

func successWithMetaResponse(message string, data interface{}, meta interface{}) APIResponse {
	return APIResponse{
		Success: true,
		Message: message,
		Data:    data,
		Meta:    meta,
	}
}

func errorResponse(message string) APIResponse {
	return APIResponse{
		Success: false,
		Message: message,
	}
}

func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return id, true
}

// parseAmount accepts the string form used by the write endpoints so that
// clients never send binary floats for money.
func parseAmount(raw string) (decimal.Decimal, error) {
	return decimal.NewFromString(raw)
}

// canViewProject implements the financials/team access rule: back-office
// users see everything, a client only their own projects.
func canViewProject(claims *utils.Claims, project models.Project) bool {
	if claims.IsAdmin() {
		return true
	}
	return claims.Role == models.RoleClient && project.ClientID == claims.UserId
}

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
}

func abortForbidden(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
}

func abortNotFound(c *gin.Context, what string) {
	c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": what + " not found"})
}

// abortInternal logs the cause server-side and returns the generic 500 body.
// Aggregations either fully succeed or fully fail; no partial data.
func abortInternal(c *gin.Context, module, funcName, context string, err error) {
	config.LogError(config.GetLogger(), module, funcName, context, nil, err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
}

package api

import (
	"net/http"

	model2 "github.com/allthrive/allthrive/api/model"
	"github.com/gin-gonic/gin"
)

// CreateAPIKey creates a new API key owned by the acting user.
//
// Responses:
// - 400 Bad Request: If there's an error in the request body.
// - 201 Created: If the API key is successfully created.
func (a Api) CreateAPIKey(c *gin.Context) {
	var req model2.CreateAPIKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := req.ValidateCreateAPIKeyRequest(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	apiKey, err := a.service.CreateAPIKey(c.Request.Context(), req.Name, actingUser(c), req.ExpiresAt)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, apiKey)
}

// ListAPIKeys lists all API keys owned by the acting user.
func (a Api) ListAPIKeys(c *gin.Context) {
	owner := actingUser(c)
	if owner == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	keys, err := a.service.ListAPIKeys(c.Request.Context(), owner)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, keys)
}

// RevokeAPIKey revokes an API key owned by the acting user.
//
// Responses:
// - 204 No Content: If the API key is successfully revoked.
// - 404 Not Found: If the API key does not exist or belongs to someone else.
func (a Api) RevokeAPIKey(c *gin.Context) {
	id := c.Param("id")
	owner := actingUser(c)
	if owner == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if err := a.service.RevokeAPIKey(c.Request.Context(), id, owner); err != nil {
		handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

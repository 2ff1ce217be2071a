/*
Copyright 2025 AllThrive Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package api

import (
	"net/http"

	model2 "github.com/allthrive/allthrive/api/model"

	"github.com/gin-gonic/gin"
)

// CreateConnection opens a connection between the acting user and a listing
// creator. The responder is resolved from the anchored ask or offer; direct
// connections name the responder explicitly.
//
// Responses:
// - 400 Bad Request: If there's an error in binding JSON or validating the connection.
// - 409 Conflict: If an active connection already exists for the pair and listing.
// - 201 Created: If the connection is successfully created.
func (a Api) CreateConnection(c *gin.Context) {
	var newConnection model2.CreateConnection
	if err := c.ShouldBindJSON(&newConnection); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	err := newConnection.ValidateCreateConnection()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	resp, err := a.service.CreateConnection(c.Request.Context(), newConnection.ToConnection(actingUser(c)))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// GetConnection returns a connection visible only to its two participants.
func (a Api) GetConnection(c *gin.Context) {
	id, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required. pass id in the route /:id"})
		return
	}

	resp, err := a.service.GetConnection(c.Request.Context(), id, actingUser(c))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (a Api) GetConnections(c *gin.Context) {
	limit, offset := paginationParams(c)
	resp, err := a.service.GetConnectionsForUser(c.Request.Context(), actingUser(c), limit, offset)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// TransitionConnection moves a connection through its lifecycle. The guard
// table decides which role may trigger each move; completion is idempotent
// and triggers the points award exactly once.
//
// Responses:
// - 400 Bad Request: If the status is unknown.
// - 403 Forbidden: If the actor is not a participant or the role may not make the move.
// - 409 Conflict: If the move is not legal from the current status.
// - 200 OK: If the connection transitioned.
func (a Api) TransitionConnection(c *gin.Context) {
	id, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required. pass id in the route /:id"})
		return
	}

	var update model2.UpdateConnection
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	err := update.ValidateUpdateConnection()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	resp, err := a.service.TransitionConnection(c.Request.Context(), id, actingUser(c), update.Status)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// RateConnection records a 1-5 rating from one participant of a completed
// connection. Each side rates once.
func (a Api) RateConnection(c *gin.Context) {
	id, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required. pass id in the route /:id"})
		return
	}

	var rating model2.RateConnection
	if err := c.ShouldBindJSON(&rating); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	err := rating.ValidateRateConnection()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	if err := a.service.RateConnection(c.Request.Context(), id, actingUser(c), rating.Rating); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"connection_id": id, "rating": rating.Rating})
}

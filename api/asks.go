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
	"github.com/allthrive/allthrive/model"

	"github.com/gin-gonic/gin"
)

// CreateAsk publishes a new ask for the acting user.
//
// Responses:
// - 400 Bad Request: If there's an error in binding JSON or validating the ask.
// - 201 Created: If the ask is successfully created.
func (a Api) CreateAsk(c *gin.Context) {
	var newAsk model2.CreateAsk
	if err := c.ShouldBindJSON(&newAsk); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	err := newAsk.ValidateCreateAsk()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	resp, err := a.service.CreateAsk(c.Request.Context(), newAsk.ToAsk(actingUser(c)))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (a Api) GetAsk(c *gin.Context) {
	id, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required. pass id in the route /:id"})
		return
	}

	resp, err := a.service.GetAsk(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (a Api) GetAllAsks(c *gin.Context) {
	limit, offset := paginationParams(c)
	resp, err := a.service.GetAllAsks(c.Request.Context(), limit, offset)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (a Api) GetAsksByCreator(c *gin.Context) {
	id, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required. pass id in the route /:id"})
		return
	}

	limit, offset := paginationParams(c)
	resp, err := a.service.GetAsksByCreator(c.Request.Context(), id, limit, offset)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// UpdateAsk edits ask content or moves it through its lifecycle. A body
// carrying only "status" performs a status change. Only the creator may
// update an ask.
func (a Api) UpdateAsk(c *gin.Context) {
	id, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required. pass id in the route /:id"})
		return
	}

	var statusUpdate model2.UpdateListingStatus
	if err := c.ShouldBindBodyWithJSON(&statusUpdate); err == nil && statusUpdate.Status != "" {
		if err := a.service.UpdateAskStatus(c.Request.Context(), actingUser(c), id, statusUpdate.Status); err != nil {
			handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ask_id": id, "status": statusUpdate.Status})
		return
	}

	var update model2.UpdateAsk
	if err := c.ShouldBindBodyWithJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	ask, err := a.service.GetAsk(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}

	update.ApplyTo(ask)

	if err := a.service.UpdateAsk(c.Request.Context(), actingUser(c), ask); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, ask)
}

// CloseAsk retires an ask. Rows are never deleted; the ask moves to the
// closed status and drops out of discovery.
func (a Api) CloseAsk(c *gin.Context) {
	id, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required. pass id in the route /:id"})
		return
	}

	if err := a.service.UpdateAskStatus(c.Request.Context(), actingUser(c), id, model.AskStatusClosed); err != nil {
		handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

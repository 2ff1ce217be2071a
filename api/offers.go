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

// CreateOffer publishes a new offer for the acting user.
//
// Responses:
// - 400 Bad Request: If there's an error in binding JSON or validating the offer.
// - 201 Created: If the offer is successfully created.
func (a Api) CreateOffer(c *gin.Context) {
	var newOffer model2.CreateOffer
	if err := c.ShouldBindJSON(&newOffer); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	err := newOffer.ValidateCreateOffer()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	resp, err := a.service.CreateOffer(c.Request.Context(), newOffer.ToOffer(actingUser(c)))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// GetOffer fetches a single offer and counts the view.
func (a Api) GetOffer(c *gin.Context) {
	id, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required. pass id in the route /:id"})
		return
	}

	resp, err := a.service.GetOffer(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (a Api) GetAllOffers(c *gin.Context) {
	limit, offset := paginationParams(c)
	resp, err := a.service.GetAllOffers(c.Request.Context(), limit, offset)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (a Api) GetOffersByCreator(c *gin.Context) {
	id, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required. pass id in the route /:id"})
		return
	}

	limit, offset := paginationParams(c)
	resp, err := a.service.GetOffersByCreator(c.Request.Context(), id, limit, offset)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// UpdateOffer edits offer content or moves it through its lifecycle.
// A body carrying only "status" performs a status change; anything else is a
// content edit. Only the creator may update an offer.
func (a Api) UpdateOffer(c *gin.Context) {
	id, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required. pass id in the route /:id"})
		return
	}

	var statusUpdate model2.UpdateListingStatus
	if err := c.ShouldBindBodyWithJSON(&statusUpdate); err == nil && statusUpdate.Status != "" {
		if err := a.service.UpdateOfferStatus(c.Request.Context(), actingUser(c), id, statusUpdate.Status); err != nil {
			handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"offer_id": id, "status": statusUpdate.Status})
		return
	}

	var update model2.UpdateOffer
	if err := c.ShouldBindBodyWithJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	offer, err := a.service.GetOffer(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}

	update.ApplyTo(offer)

	if err := a.service.UpdateOffer(c.Request.Context(), actingUser(c), offer); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, offer)
}

// ArchiveOffer retires an offer. Rows are never deleted; the offer moves to
// the archived status and drops out of discovery.
func (a Api) ArchiveOffer(c *gin.Context) {
	id, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required. pass id in the route /:id"})
		return
	}

	if err := a.service.UpdateOfferStatus(c.Request.Context(), actingUser(c), id, model.OfferStatusArchived); err != nil {
		handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

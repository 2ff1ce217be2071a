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

	"github.com/allthrive/allthrive/internal/search"

	"github.com/gin-gonic/gin"
	tsapi "github.com/typesense/typesense-go/typesense/api"
)

// Discover returns the combined browse feed of active offers and open asks.
func (a Api) Discover(c *gin.Context) {
	limit, offset := paginationParams(c)
	resp, err := a.service.Discover(c.Request.Context(), limit, offset)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// discoverParams builds full-text search parameters from the q, filter_by
// and pagination query strings.
func discoverParams(c *gin.Context, queryBy, defaultFilter string) *tsapi.SearchCollectionParams {
	q := c.DefaultQuery("q", "*")
	limit, offset := paginationParams(c)
	page := offset/limit + 1

	params := &tsapi.SearchCollectionParams{
		Q:       q,
		QueryBy: queryBy,
		Page:    &page,
		PerPage: &limit,
	}

	filter := c.DefaultQuery("filter_by", defaultFilter)
	if filter != "" {
		params.FilterBy = &filter
	}
	return params
}

// DiscoverOffers runs a full-text search across active offers.
func (a Api) DiscoverOffers(c *gin.Context) {
	resp, err := a.service.Search(search.CollectionOffers,
		discoverParams(c, "title,description,offer_type", "status:=active"))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// DiscoverAsks runs a full-text search across open asks.
func (a Api) DiscoverAsks(c *gin.Context) {
	resp, err := a.service.Search(search.CollectionAsks,
		discoverParams(c, "title,description,ask_type", "status:=open"))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// DiscoverPeople runs a full-text search across member profiles.
func (a Api) DiscoverPeople(c *gin.Context) {
	resp, err := a.service.Search(search.CollectionPeople,
		discoverParams(c, "username,display_name,bio", ""))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

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

// CreateFollow adds a follow edge from the acting user.
//
// Responses:
// - 400 Bad Request: If the payload is invalid or the user follows themselves.
// - 409 Conflict: If the edge already exists.
// - 201 Created: If the follow is successfully created.
func (a Api) CreateFollow(c *gin.Context) {
	var newFollow model2.CreateFollow
	if err := c.ShouldBindJSON(&newFollow); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	err := newFollow.ValidateCreateFollow()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	resp, err := a.service.FollowUser(c.Request.Context(), actingUser(c), newFollow.FollowingID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// DeleteFollow removes a follow edge from the acting user.
func (a Api) DeleteFollow(c *gin.Context) {
	followingID, passed := c.Params.Get("following_id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "following_id is required. pass id in the route /:following_id"})
		return
	}

	if err := a.service.UnfollowUser(c.Request.Context(), actingUser(c), followingID); err != nil {
		handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetFollows lists who the acting user follows, or their followers when
// direction=followers.
func (a Api) GetFollows(c *gin.Context) {
	limit, offset := paginationParams(c)

	userID := c.DefaultQuery("user_id", actingUser(c))

	if c.Query("direction") == "followers" {
		resp, err := a.service.GetFollowers(c.Request.Context(), userID, limit, offset)
		if err != nil {
			handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, resp)
		return
	}

	resp, err := a.service.GetFollowing(c.Request.Context(), userID, limit, offset)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

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

// CreateUser registers a new member profile.
//
// Responses:
// - 400 Bad Request: If there's an error in binding JSON or validating the profile.
// - 201 Created: If the user is successfully created.
func (a Api) CreateUser(c *gin.Context) {
	var newUser model2.CreateUser
	if err := c.ShouldBindJSON(&newUser); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	err := newUser.ValidateCreateUser()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	resp, err := a.service.CreateUser(c.Request.Context(), newUser.ToUser())
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (a Api) GetUser(c *gin.Context) {
	id, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required. pass id in the route /:id"})
		return
	}

	resp, err := a.service.GetUser(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (a Api) GetAllUsers(c *gin.Context) {
	// Username lookup takes precedence over listing.
	if username := c.Query("username"); username != "" {
		resp, err := a.service.GetUserByUsername(c.Request.Context(), username)
		if err != nil {
			handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, resp)
		return
	}

	limit, offset := paginationParams(c)
	resp, err := a.service.GetAllUsers(c.Request.Context(), limit, offset)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// UpdateUser modifies a member profile. Members can only update their own
// profile.
func (a Api) UpdateUser(c *gin.Context) {
	id, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required. pass id in the route /:id"})
		return
	}

	var update model2.UpdateUser
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	user, err := a.service.GetUser(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}

	update.ApplyTo(user)

	if err := a.service.UpdateUser(c.Request.Context(), actingUser(c), user); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

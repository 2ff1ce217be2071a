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

// GetBalance reports both wallet balances for the acting user.
func (a Api) GetBalance(c *gin.Context) {
	user, err := a.service.GetUser(c.Request.Context(), actingUser(c))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, model2.BalanceResponse{
		UserID:        user.UserID,
		PointsBalance: user.PointsBalance,
		CreditBalance: user.CreditBalance,
	})
}

// GetTransactions lists the acting user's ledger history, newest first.
func (a Api) GetTransactions(c *gin.Context) {
	limit, offset := paginationParams(c)
	resp, err := a.service.GetTransactionsForUser(c.Request.Context(), actingUser(c), limit, offset)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ConvertPoints exchanges points for credits at the fixed ratio. The
// conversion is one way.
//
// Responses:
// - 400 Bad Request: If the amount is below the minimum or not a whole multiple.
// - 422 Unprocessable Entity: If the points balance cannot cover the amount.
// - 201 Created: Both ledger legs of the conversion.
func (a Api) ConvertPoints(c *gin.Context) {
	var req model2.ConvertPoints
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	err := req.ValidateConvertPoints()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	resp, err := a.service.ConvertPoints(c.Request.Context(), actingUser(c), req.Points)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// GiftPoints transfers points from the acting user to another member.
func (a Api) GiftPoints(c *gin.Context) {
	var req model2.GiftPoints
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	err := req.ValidateGiftPoints()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	resp, err := a.service.GiftPoints(c.Request.Context(), req.ToPointGift(actingUser(c)))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// CreateEndorsement endorses another member for a skill and awards them
// points. A member endorses a given skill once per endorsee.
func (a Api) CreateEndorsement(c *gin.Context) {
	var req model2.CreateEndorsement
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	err := req.ValidateCreateEndorsement()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	resp, err := a.service.EndorseSkill(c.Request.Context(), req.ToEndorsement(actingUser(c)))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// AwardBadge awards a peer badge and credits the recipient with points.
func (a Api) AwardBadge(c *gin.Context) {
	var req model2.AwardBadge
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	err := req.ValidateAwardBadge()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	resp, err := a.service.AwardBadge(c.Request.Context(), req.ToBadgeAward(actingUser(c)))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

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

package middleware

import (
	"context"

	"github.com/allthrive/allthrive"
	"github.com/allthrive/allthrive/config"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	// KeyHeader carries either the master secret key or a user API key.
	KeyHeader = "X-AllThrive-Key"

	// ActorKey is the context key under which the acting user id is stored.
	ActorKey = "actorID"
)

// AuthMiddleware handles authentication for API routes. It supports both
// master key and per-user API key authentication using the X-AllThrive-Key
// header. API keys resolve to their owner, who becomes the acting user for
// the request.
type AuthMiddleware struct {
	service *allthrive.AllThrive
}

func NewAuthMiddleware(service *allthrive.AllThrive) *AuthMiddleware {
	return &AuthMiddleware{service: service}
}

// Authenticate returns a middleware function that authenticates all routes.
// When secure mode is disabled the request passes through untouched and the
// acting user falls back to the X-AllThrive-User header.
//
// Responses:
// - 401 Unauthorized: When the API key is missing, invalid, expired or revoked.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Skip auth for root path
		if c.Request.URL.Path == "/" {
			c.Next()
			return
		}

		conf, err := config.Fetch()
		if err == nil && !conf.Server.Secure {
			c.Next()
			return
		}

		key := c.GetHeader(KeyHeader)
		if key == "" {
			c.JSON(401, gin.H{"error": "Authentication required. Use X-AllThrive-Key header"})
			c.Abort()
			return
		}

		// The master key acts on behalf of any user supplied in the
		// X-AllThrive-User header.
		if err == nil && conf.Server.SecretKey != "" && secureCompare(conf.Server.SecretKey, key) {
			c.Set("isMasterKey", true)
			c.Next()
			return
		}

		apiKey, err := m.service.GetAPIKeyByKey(c.Request.Context(), key)
		if err != nil {
			c.JSON(401, gin.H{"error": "Invalid API key"})
			c.Abort()
			return
		}

		if !apiKey.IsValid() {
			c.JSON(401, gin.H{"error": "API key is expired or revoked"})
			c.Abort()
			return
		}

		c.Set(ActorKey, apiKey.OwnerID)

		go func(id string) {
			if err := m.service.UpdateLastUsed(context.Background(), id); err != nil {
				logrus.Error("failed to update API key last used: ", err)
			}
		}(apiKey.APIKeyID)

		c.Next()
	}
}

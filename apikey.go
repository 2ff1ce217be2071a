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

package allthrive

import (
	"context"
	"time"

	"github.com/allthrive/allthrive/model"
)

// CreateAPIKey issues a new API key owned by the given user.
func (a *AllThrive) CreateAPIKey(ctx context.Context, name, ownerID string, expiresAt time.Time) (*model.APIKey, error) {
	key, err := model.NewAPIKey(name, ownerID, expiresAt)
	if err != nil {
		return nil, err
	}
	if err := a.datasource.CreateAPIKey(ctx, key); err != nil {
		return nil, err
	}
	return key, nil
}

// ListAPIKeys retrieves all API keys for a specific owner.
func (a *AllThrive) ListAPIKeys(ctx context.Context, ownerID string) ([]*model.APIKey, error) {
	return a.datasource.ListAPIKeys(ctx, ownerID)
}

// RevokeAPIKey revokes an API key if it belongs to the specified owner.
func (a *AllThrive) RevokeAPIKey(ctx context.Context, id, ownerID string) error {
	return a.datasource.RevokeAPIKey(ctx, id, ownerID)
}

// GetAPIKeyByKey retrieves an API key by its key string.
func (a *AllThrive) GetAPIKeyByKey(ctx context.Context, key string) (*model.APIKey, error) {
	return a.datasource.GetAPIKeyByKey(ctx, key)
}

// UpdateLastUsed updates the last used timestamp of an API key.
func (a *AllThrive) UpdateLastUsed(ctx context.Context, id string) error {
	return a.datasource.UpdateAPIKeyLastUsed(ctx, id)
}

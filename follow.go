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

	"github.com/allthrive/allthrive/internal/apierror"
	"github.com/allthrive/allthrive/model"
)

// FollowUser creates a follow edge from follower to followed.
func (a *AllThrive) FollowUser(ctx context.Context, followerID, followedID string) (*model.Follow, error) {
	ctx, span := tracer.Start(ctx, "Following user")
	defer span.End()

	follow := &model.Follow{FollowerID: followerID, FollowedID: followedID}
	if err := follow.Validate(); err != nil {
		span.RecordError(err)
		return nil, apierror.NewAPIError(apierror.ErrInvalidInput, err.Error(), err)
	}

	created, err := a.datasource.CreateFollow(ctx, follow)
	if err != nil {
		return nil, logAndRecordError(span, "create follow error: ", err)
	}
	span.AddEvent("follow created")
	return created, nil
}

// UnfollowUser removes the follow edge.
func (a *AllThrive) UnfollowUser(ctx context.Context, followerID, followedID string) error {
	ctx, span := tracer.Start(ctx, "Unfollowing user")
	defer span.End()

	if err := a.datasource.DeleteFollow(ctx, followerID, followedID); err != nil {
		return logAndRecordError(span, "delete follow error: ", err)
	}
	span.AddEvent("follow removed")
	return nil
}

// GetFollowing lists the users the given user follows.
func (a *AllThrive) GetFollowing(ctx context.Context, userID string, limit, offset int) ([]model.User, error) {
	return a.datasource.GetFollowing(ctx, userID, limit, offset)
}

// GetFollowers lists the users following the given user.
func (a *AllThrive) GetFollowers(ctx context.Context, userID string, limit, offset int) ([]model.User, error) {
	return a.datasource.GetFollowers(ctx, userID, limit, offset)
}

// IsFollowing reports whether follower follows followed.
func (a *AllThrive) IsFollowing(ctx context.Context, followerID, followedID string) (bool, error) {
	return a.datasource.IsFollowing(ctx, followerID, followedID)
}

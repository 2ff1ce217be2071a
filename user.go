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
	"fmt"

	"github.com/allthrive/allthrive/internal/apierror"
	"github.com/allthrive/allthrive/internal/notification"
	"github.com/allthrive/allthrive/internal/search"
	"github.com/allthrive/allthrive/model"
)

func (a *AllThrive) postUserActions(_ context.Context, user *model.User) {
	go func() {
		err := a.queue.queueIndexData(user.UserID, search.CollectionPeople, user)
		if err != nil {
			notification.NotifyError(err)
		}
	}()
}

// CreateUser registers a new profile.
func (a *AllThrive) CreateUser(ctx context.Context, user model.User) (model.User, error) {
	ctx, span := tracer.Start(ctx, "Creating user")
	defer span.End()

	if user.Username == "" {
		err := fmt.Errorf("username is required")
		span.RecordError(err)
		return model.User{}, apierror.NewAPIError(apierror.ErrInvalidInput, err.Error(), err)
	}
	if user.SMSOptIn && user.PhoneNumber == "" {
		err := fmt.Errorf("sms opt-in requires a phone number")
		span.RecordError(err)
		return model.User{}, apierror.NewAPIError(apierror.ErrInvalidInput, err.Error(), err)
	}

	user, err := a.datasource.CreateUser(user)
	if err != nil {
		return model.User{}, logAndRecordError(span, "create user error: ", err)
	}
	span.AddEvent("user created")

	a.postUserActions(ctx, &user)
	return user, nil
}

func (a *AllThrive) GetUser(ctx context.Context, id string) (*model.User, error) {
	return a.datasource.GetUserByID(ctx, id)
}

func (a *AllThrive) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	return a.datasource.GetUserByUsername(ctx, username)
}

func (a *AllThrive) GetAllUsers(ctx context.Context, limit, offset int) ([]model.User, error) {
	return a.datasource.GetAllUsers(ctx, limit, offset)
}

// UpdateUser applies profile edits made by the profile's owner.
func (a *AllThrive) UpdateUser(ctx context.Context, actorID string, user *model.User) error {
	ctx, span := tracer.Start(ctx, "Updating user")
	defer span.End()

	if user.UserID != actorID {
		err := fmt.Errorf("users can only edit their own profile")
		span.RecordError(err)
		return apierror.NewAPIError(apierror.ErrForbidden, err.Error(), err)
	}
	if user.SMSOptIn && user.PhoneNumber == "" {
		err := fmt.Errorf("sms opt-in requires a phone number")
		span.RecordError(err)
		return apierror.NewAPIError(apierror.ErrInvalidInput, err.Error(), err)
	}

	if err := a.datasource.UpdateUser(ctx, user); err != nil {
		return logAndRecordError(span, "update user error: ", err)
	}
	span.AddEvent("user updated")

	a.postUserActions(ctx, user)
	return nil
}

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

package database

import (
	"context"

	"github.com/allthrive/allthrive/model"
)

// IDataSource defines the interface for data source operations, grouping related functionalities.
type IDataSource interface {
	user
	offer
	ask
	connection
	follow
	ledger
	apiKey
}

// user defines methods for handling user profiles.
type user interface {
	CreateUser(user model.User) (model.User, error)
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	GetAllUsers(ctx context.Context, limit, offset int) ([]model.User, error)
	UpdateUser(ctx context.Context, user *model.User) error
}

// offer defines methods for handling offers.
type offer interface {
	CreateOffer(offer model.Offer) (model.Offer, error)
	GetOfferByID(ctx context.Context, id string) (*model.Offer, error)
	GetAllOffers(ctx context.Context, limit, offset int) ([]model.Offer, error)
	GetOffersByCreator(ctx context.Context, creatorID string, limit, offset int) ([]model.Offer, error)
	UpdateOffer(ctx context.Context, offer *model.Offer) error
	UpdateOfferStatus(ctx context.Context, id, status string) error
	IncrementOfferViews(ctx context.Context, id string) error
}

// ask defines methods for handling asks.
type ask interface {
	CreateAsk(ask model.Ask) (model.Ask, error)
	GetAskByID(ctx context.Context, id string) (*model.Ask, error)
	GetAllAsks(ctx context.Context, limit, offset int) ([]model.Ask, error)
	GetAsksByCreator(ctx context.Context, creatorID string, limit, offset int) ([]model.Ask, error)
	UpdateAsk(ctx context.Context, ask *model.Ask) error
	UpdateAskStatus(ctx context.Context, id, status string) error
}

// connection defines methods for the connection lifecycle.
type connection interface {
	CreateConnection(ctx context.Context, conn *model.Connection) (*model.Connection, error)
	GetConnectionByID(ctx context.Context, id string) (*model.Connection, error)
	GetConnectionsForUser(ctx context.Context, userID string, limit, offset int) ([]model.Connection, error)
	UpdateConnectionStatus(ctx context.Context, id, status string) (bool, error)
	CompleteConnection(ctx context.Context, id string) (bool, error)
	RateConnection(ctx context.Context, id string, role model.Role, rating int) error
}

// follow defines methods for the follow graph.
type follow interface {
	CreateFollow(ctx context.Context, f *model.Follow) (*model.Follow, error)
	DeleteFollow(ctx context.Context, followerID, followedID string) error
	GetFollowing(ctx context.Context, userID string, limit, offset int) ([]model.User, error)
	GetFollowers(ctx context.Context, userID string, limit, offset int) ([]model.User, error)
	IsFollowing(ctx context.Context, followerID, followedID string) (bool, error)
}

// ledger defines methods for the append-only points/credits ledger.
type ledger interface {
	RecordCreditTransaction(ctx context.Context, txn *model.CreditTransaction) (*model.CreditTransaction, error)
	GetTransactionsForUser(ctx context.Context, userID string, limit, offset int) ([]model.CreditTransaction, error)
	TransactionExistsByRef(ctx context.Context, reference string) (bool, error)
	ConvertPoints(ctx context.Context, userID string, points, credits int64) ([]model.CreditTransaction, error)
	CreatePointGift(ctx context.Context, gift *model.PointGift) (*model.PointGift, error)
	CreateEndorsement(ctx context.Context, endorsement *model.Endorsement) (*model.Endorsement, error)
	CreateBadgeAward(ctx context.Context, award *model.PeerBadgeAward) (*model.PeerBadgeAward, error)
}

// apiKey defines methods for API key credentials.
type apiKey interface {
	CreateAPIKey(ctx context.Context, key *model.APIKey) error
	GetAPIKeyByKey(ctx context.Context, key string) (*model.APIKey, error)
	ListAPIKeys(ctx context.Context, ownerID string) ([]*model.APIKey, error)
	RevokeAPIKey(ctx context.Context, id, ownerID string) error
	UpdateAPIKeyLastUsed(ctx context.Context, id string) error
}

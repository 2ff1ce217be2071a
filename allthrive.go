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
	"embed"
	"fmt"

	"github.com/typesense/typesense-go/typesense/api"

	"github.com/allthrive/allthrive/config"
	"github.com/allthrive/allthrive/database"
	redis_db "github.com/allthrive/allthrive/internal/redis-db"
	"github.com/allthrive/allthrive/internal/search"
	"github.com/allthrive/allthrive/internal/sms"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("allthrive.service")

// AllThrive is the service layer for the Ask & Offer marketplace. It owns
// the datasource, the task queue, the search client, and the SMS sender.
type AllThrive struct {
	queue      *Queue
	search     *search.TypesenseClient
	redis      redis.UniversalClient
	sms        *sms.Client
	datasource database.IDataSource
}

//go:embed sql/*.sql
var SQLFiles embed.FS

// NewAllThrive initializes the service with the provided datasource. It
// fetches the configuration and wires up Redis, the queue, the search
// client, and the SMS sender.
func NewAllThrive(db database.IDataSource) (*AllThrive, error) {
	configuration, err := config.Fetch()
	if err != nil {
		return nil, err
	}
	redisClient, err := redis_db.NewRedisClient([]string{fmt.Sprintf("redis://%s", configuration.Redis.Dns)}, configuration.Redis.SkipTLSVerify)
	if err != nil {
		return nil, err
	}
	newQueue := NewQueue(configuration)
	newSearch := search.NewTypesenseClient(configuration.TypeSenseKey, []string{configuration.TypeSense.Dns})
	smsClient := sms.NewClient(configuration.Notification.SMS, redisClient.Client())

	service := &AllThrive{
		datasource: db,
		queue:      newQueue,
		redis:      redisClient.Client(),
		search:     newSearch,
		sms:        smsClient,
	}
	return service, nil
}

// Search performs a search on the specified collection using the provided
// query parameters.
func (a *AllThrive) Search(collection string, query *api.SearchCollectionParams) (interface{}, error) {
	return a.search.Search(context.Background(), collection, query)
}

// MultiSearch performs a federated search across collections.
func (a *AllThrive) MultiSearch(searchParams *api.MultiSearchSearchesParameter) (*api.MultiSearchResult, error) {
	return a.search.MultiSearch(context.Background(), *searchParams)
}

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
	"encoding/json"
	"log"

	"github.com/allthrive/allthrive/config"
	redis_db "github.com/allthrive/allthrive/internal/redis-db"

	"github.com/hibiken/asynq"
)

// Queue wraps the asynq client used to hand work to the background workers.
type Queue struct {
	Client    *asynq.Client
	Inspector *asynq.Inspector
}

// SMSPayload is the task payload for an outbound SMS notification. The
// worker resolves the recipient's opt-in and daily cap at send time, not
// enqueue time, so a user who opts out mid-flight is still respected.
type SMSPayload struct {
	UserID string `json:"user_id"`
	Body   string `json:"body"`
}

// PointsAwardPayload is the task payload for a deferred points award.
// Reference doubles as the ledger idempotency key.
type PointsAwardPayload struct {
	UserID         string `json:"user_id"`
	CounterpartyID string `json:"counterparty_id,omitempty"`
	ConnectionID   string `json:"connection_id,omitempty"`
	Amount         int64  `json:"amount"`
	Reason         string `json:"reason"`
	Reference      string `json:"reference"`
}

// NewQueue initializes a new Queue instance with the provided configuration.
func NewQueue(conf *config.Configuration) *Queue {
	redisOption, err := redis_db.ParseRedisURL(conf.Redis.Dns, conf.Redis.SkipTLSVerify)
	if err != nil {
		log.Fatalf("Error parsing Redis URL: %v", err)
	}

	queueOptions := asynq.RedisClientOpt{Addr: redisOption.Addr, Password: redisOption.Password, DB: redisOption.DB, TLSConfig: redisOption.TLSConfig}
	client := asynq.NewClient(queueOptions)
	inspector := asynq.NewInspector(queueOptions)
	return &Queue{
		Client:    client,
		Inspector: inspector,
	}
}

// queueIndexData enqueues a task to index data in a specified collection.
// Indexing is skipped entirely when no Typesense host is configured.
func (q *Queue) queueIndexData(id string, collection string, data interface{}) error {
	cfg, err := config.Fetch()
	if err != nil {
		return err
	}

	if cfg.TypeSense.Dns == "" {
		return nil
	}

	payload := map[string]interface{}{
		"collection": collection,
		"payload":    data,
	}

	IPayload, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	taskOptions := []asynq.Option{asynq.Queue(cfg.Queue.IndexQueue)}
	task := asynq.NewTask(cfg.Queue.IndexQueue, IPayload, taskOptions...)
	info, err := q.Client.Enqueue(task)
	if err != nil {
		log.Println(err, info)
		return err
	}
	log.Printf(" [*] Successfully enqueued index data: %+v", id)
	return nil
}

// queueSMS enqueues an SMS notification task.
func (q *Queue) queueSMS(payload SMSPayload) error {
	cfg, err := config.Fetch()
	if err != nil {
		return err
	}

	IPayload, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	taskOptions := []asynq.Option{asynq.Queue(cfg.Queue.NotificationQueue), asynq.MaxRetry(3)}
	task := asynq.NewTask(cfg.Queue.NotificationQueue, IPayload, taskOptions...)
	info, err := q.Client.Enqueue(task)
	if err != nil {
		log.Println(err, info)
		return err
	}
	log.Printf(" [*] Successfully enqueued SMS for: %+v", payload.UserID)
	return nil
}

// queuePointsAward enqueues a points award. The task ID is the ledger
// reference, so asynq drops a duplicate enqueue of the same award before it
// ever reaches a worker.
func (q *Queue) queuePointsAward(payload PointsAwardPayload) error {
	cfg, err := config.Fetch()
	if err != nil {
		return err
	}

	IPayload, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	taskOptions := []asynq.Option{
		asynq.TaskID(payload.Reference),
		asynq.Queue(cfg.Queue.PointsQueue),
		asynq.MaxRetry(5),
	}
	task := asynq.NewTask(cfg.Queue.PointsQueue, IPayload, taskOptions...)
	info, err := q.Client.Enqueue(task)
	if err != nil {
		if err == asynq.ErrTaskIDConflict {
			return nil
		}
		log.Println(err, info)
		return err
	}
	log.Printf(" [*] Successfully enqueued points award: %+v", payload.Reference)
	return nil
}

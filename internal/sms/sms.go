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

package sms

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/allthrive/allthrive/config"
	"github.com/allthrive/allthrive/internal/request"
)

const dailyCounterTTL = 24 * time.Hour

// Client sends SMS messages through Twilio's REST messaging API and
// enforces the per-user daily send cap with a Redis counter.
type Client struct {
	cfg   config.SMSConfig
	redis redis.UniversalClient
}

func NewClient(cfg config.SMSConfig, redisClient redis.UniversalClient) *Client {
	return &Client{cfg: cfg, redis: redisClient}
}

// WithinDailyLimit increments the caller's counter for the current UTC day
// and reports whether the send is still within the configured cap. The
// counter is bumped before the send so concurrent dispatches cannot slip
// past the limit.
func (c *Client) WithinDailyLimit(ctx context.Context, userID string) (bool, error) {
	key := fmt.Sprintf("sms:daily:%s:%s", userID, time.Now().UTC().Format("2006-01-02"))
	count, err := c.redis.Incr(ctx, key).Result()
	if err != nil {
		return false, errors.Wrap(err, "incrementing sms daily counter")
	}
	if count == 1 {
		if err := c.redis.Expire(ctx, key, dailyCounterTTL).Err(); err != nil {
			logrus.Warnf("failed to set TTL on sms counter %s: %v", key, err)
		}
	}
	return count <= int64(c.cfg.DailyLimit), nil
}

// Send delivers one SMS. Transient failures (network errors, 5xx) are
// retried with exponential backoff; 4xx responses are not retried.
func (c *Client) Send(ctx context.Context, to, body string) error {
	if c.cfg.AccountSID == "" || c.cfg.AuthToken == "" {
		return errors.New("sms credentials are not configured")
	}

	operation := func() error {
		return c.send(ctx, to, body)
	}

	bo := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3), ctx)
	return backoff.Retry(operation, bo)
}

func (c *Client) send(ctx context.Context, to, body string) error {
	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", c.cfg.BaseURL, c.cfg.AccountSID)

	form := request.ToFormReq(map[string]string{
		"To":   to,
		"From": c.cfg.FromNumber,
		"Body": body,
	})

	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, form)
	if err != nil {
		return backoff.Permanent(err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Basic "+request.BasicAuth(c.cfg.AccountSID, c.cfg.AuthToken))

	var response map[string]interface{}
	resp, err := request.Call(req, &response)
	if err != nil {
		return err
	}

	if resp.StatusCode >= 500 {
		return fmt.Errorf("sms provider returned %d", resp.StatusCode)
	}
	if resp.StatusCode >= 400 {
		return backoff.Permanent(fmt.Errorf("sms rejected with status %d: %v", resp.StatusCode, response["message"]))
	}

	logrus.Infof("sms sent to %s (sid: %v)", to, response["sid"])
	return nil
}

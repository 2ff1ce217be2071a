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
	"encoding/json"
	"log"

	"github.com/hibiken/asynq"
)

// ProcessSMS consumes an SMS notification task. Opt-in and the daily cap
// are checked here at send time, so stale tasks never override a user who
// has since opted out. A user over the cap simply drops the message; the
// task is not retried.
func (a *AllThrive) ProcessSMS(ctx context.Context, task *asynq.Task) error {
	ctx, span := tracer.Start(ctx, "Processing SMS notification")
	defer span.End()

	var payload SMSPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return logAndRecordError(span, "unmarshal sms payload error: ", err)
	}

	user, err := a.datasource.GetUserByID(ctx, payload.UserID)
	if err != nil {
		return logAndRecordError(span, "get user error: ", err)
	}

	if !user.SMSOptIn || user.PhoneNumber == "" {
		span.AddEvent("user not opted in, skipping")
		return nil
	}

	withinLimit, err := a.sms.WithinDailyLimit(ctx, user.UserID)
	if err != nil {
		return logAndRecordError(span, "check daily limit error: ", err)
	}
	if !withinLimit {
		span.AddEvent("daily sms cap reached, dropping")
		log.Printf(" [*] SMS daily cap reached for %s, dropping message", user.UserID)
		return nil
	}

	if err := a.sms.Send(ctx, user.PhoneNumber, payload.Body); err != nil {
		return logAndRecordError(span, "send sms error: ", err)
	}

	span.AddEvent("sms sent")
	log.Printf(" [*] SMS sent to %s", user.UserID)
	return nil
}

package model

import (
	"errors"
	"time"
)

type Follow struct {
	ID         int64     `json:"-"`
	FollowID   string    `json:"follow_id"`
	FollowerID string    `json:"follower_id"`
	FollowedID string    `json:"following_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// Validate rejects self-follows and missing edges.
func (f *Follow) Validate() error {
	if f.FollowerID == "" || f.FollowedID == "" {
		return errors.New("follower_id and following_id are required")
	}
	if f.FollowerID == f.FollowedID {
		return errors.New("users cannot follow themselves")
	}
	return nil
}

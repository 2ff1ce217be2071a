package model

import "time"

type User struct {
	ID             int64                  `json:"-"`
	UserID         string                 `json:"user_id"`
	Username       string                 `json:"username"`
	DisplayName    string                 `json:"display_name"`
	Bio            string                 `json:"bio,omitempty"`
	PhoneNumber    string                 `json:"phone_number,omitempty"`
	SMSOptIn       bool                   `json:"sms_opt_in"`
	HelpedCount    int64                  `json:"helped_count"`
	PointsBalance  int64                  `json:"points_balance"`
	CreditBalance  int64                  `json:"credit_balance"`
	FollowerCount  int64                  `json:"follower_count"`
	FollowingCount int64                  `json:"following_count"`
	CreatedAt      time.Time              `json:"created_at"`
	MetaData       map[string]interface{} `json:"meta_data,omitempty"`
}

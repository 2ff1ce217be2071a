package model

import (
	"github.com/allthrive/allthrive/model"
)

type CreateUser struct {
	Username    string                 `json:"username"`
	DisplayName string                 `json:"display_name"`
	Bio         string                 `json:"bio"`
	PhoneNumber string                 `json:"phone_number"`
	SMSOptIn    bool                   `json:"sms_opt_in"`
	MetaData    map[string]interface{} `json:"meta_data"`
}

type UpdateUser struct {
	DisplayName string                 `json:"display_name"`
	Bio         string                 `json:"bio"`
	PhoneNumber string                 `json:"phone_number"`
	SMSOptIn    *bool                  `json:"sms_opt_in"`
	MetaData    map[string]interface{} `json:"meta_data"`
}

func (u *CreateUser) ToUser() model.User {
	return model.User{
		Username:    u.Username,
		DisplayName: u.DisplayName,
		Bio:         u.Bio,
		PhoneNumber: u.PhoneNumber,
		SMSOptIn:    u.SMSOptIn,
		MetaData:    u.MetaData,
	}
}

// ApplyTo copies the provided fields onto an existing user record.
func (u *UpdateUser) ApplyTo(target *model.User) {
	if u.DisplayName != "" {
		target.DisplayName = u.DisplayName
	}
	if u.Bio != "" {
		target.Bio = u.Bio
	}
	if u.PhoneNumber != "" {
		target.PhoneNumber = u.PhoneNumber
	}
	if u.SMSOptIn != nil {
		target.SMSOptIn = *u.SMSOptIn
	}
	if u.MetaData != nil {
		target.MetaData = u.MetaData
	}
}

package model

import (
	"github.com/allthrive/allthrive/model"
)

type CreateConnection struct {
	ConnectionType string                 `json:"connection_type"`
	ResponderID    string                 `json:"responder_id"`
	AskID          string                 `json:"ask_id"`
	OfferID        string                 `json:"offer_id"`
	InitialMessage string                 `json:"initial_message"`
	MetaData       map[string]interface{} `json:"meta_data"`
}

type UpdateConnection struct {
	Status string `json:"status"`
}

type RateConnection struct {
	Rating int `json:"rating"`
}

type CreateFollow struct {
	FollowingID string `json:"following_id"`
}

func (c *CreateConnection) ToConnection(initiatorID string) *model.Connection {
	return &model.Connection{
		ConnectionType: c.ConnectionType,
		InitiatorID:    initiatorID,
		ResponderID:    c.ResponderID,
		AskID:          c.AskID,
		OfferID:        c.OfferID,
		Status:         model.ConnStatusInitiated,
		InitialMessage: c.InitialMessage,
		MetaData:       c.MetaData,
	}
}

package model

import (
	"time"

	"github.com/allthrive/allthrive/model"
)

type ConvertPoints struct {
	Points int64 `json:"points"`
}

type GiftPoints struct {
	RecipientID string `json:"recipient_id"`
	Amount      int64  `json:"amount"`
	Message     string `json:"message"`
}

type CreateEndorsement struct {
	EndorseeID   string `json:"endorsee_id"`
	Skill        string `json:"skill"`
	ConnectionID string `json:"connection_id"`
}

type AwardBadge struct {
	RecipientID string `json:"recipient_id"`
	Badge       string `json:"badge"`
}

type CreateAPIKeyRequest struct {
	Name      string    `json:"name"`
	ExpiresAt time.Time `json:"expires_at"`
}

// BalanceResponse reports both wallet balances for a user.
type BalanceResponse struct {
	UserID        string `json:"user_id"`
	PointsBalance int64  `json:"points_balance"`
	CreditBalance int64  `json:"credit_balance"`
}

func (g *GiftPoints) ToPointGift(senderID string) *model.PointGift {
	return &model.PointGift{
		SenderID:    senderID,
		RecipientID: g.RecipientID,
		Amount:      g.Amount,
		Message:     g.Message,
	}
}

func (e *CreateEndorsement) ToEndorsement(endorserID string) *model.Endorsement {
	return &model.Endorsement{
		EndorserID:   endorserID,
		EndorseeID:   e.EndorseeID,
		Skill:        e.Skill,
		ConnectionID: e.ConnectionID,
	}
}

func (b *AwardBadge) ToBadgeAward(awarderID string) *model.PeerBadgeAward {
	return &model.PeerBadgeAward{
		AwarderID:   awarderID,
		RecipientID: b.RecipientID,
		Badge:       b.Badge,
	}
}

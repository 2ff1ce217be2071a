package model

import (
	"errors"
	"time"
)

// Ledger currencies. Points are earned through generosity actions and are
// not purchasable; credits are spent on AI-feature usage.
const (
	CurrencyPoints  = "points"
	CurrencyCredits = "credits"
)

// Ledger entry reasons.
const (
	ReasonConnectionCompleted = "connection_completed"
	ReasonPointGift           = "point_gift"
	ReasonEndorsement         = "endorsement"
	ReasonBadgeAward          = "badge_award"
	ReasonConversion          = "points_conversion"
)

// Point values awarded per action.
const (
	PointsConnectionCompleted int64 = 50
	PointsEndorsementReceived int64 = 10
	PointsBadgeReceived       int64 = 25
)

// Points-to-credits conversion is one way and fixed ratio.
const (
	PointsPerCredit     int64 = 100
	MinConversionPoints int64 = 500
)

var (
	ErrBelowConversionMinimum = errors.New("conversion amount is below the minimum points threshold")
	ErrConversionNotWhole     = errors.New("conversion amount must be a whole multiple of the points-per-credit ratio")
)

// CreditTransaction is an immutable ledger row. BalanceAfter is the running
// balance of the affected currency at the time the row was written.
type CreditTransaction struct {
	ID             int64                  `json:"-"`
	TransactionID  string                 `json:"transaction_id"`
	UserID         string                 `json:"user_id"`
	CounterpartyID string                 `json:"counterparty_id,omitempty"`
	ConnectionID   string                 `json:"connection_id,omitempty"`
	Amount         int64                  `json:"amount"`
	Currency       string                 `json:"currency"`
	Reason         string                 `json:"reason"`
	Reference      string                 `json:"reference"`
	BalanceAfter   int64                  `json:"balance_after"`
	CreatedAt      time.Time              `json:"created_at"`
	MetaData       map[string]interface{} `json:"meta_data,omitempty"`
}

type PointGift struct {
	ID          int64     `json:"-"`
	GiftID      string    `json:"gift_id"`
	SenderID    string    `json:"sender_id"`
	RecipientID string    `json:"recipient_id"`
	Amount      int64     `json:"amount"`
	Message     string    `json:"message,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type Endorsement struct {
	ID            int64     `json:"-"`
	EndorsementID string    `json:"endorsement_id"`
	EndorserID    string    `json:"endorser_id"`
	EndorseeID    string    `json:"endorsee_id"`
	Skill         string    `json:"skill"`
	ConnectionID  string    `json:"connection_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

type PeerBadgeAward struct {
	ID          int64     `json:"-"`
	AwardID     string    `json:"award_id"`
	AwarderID   string    `json:"awarder_id"`
	RecipientID string    `json:"recipient_id"`
	Badge       string    `json:"badge"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreditsForPoints validates a conversion amount and returns the credits it
// yields. Conversion is one way; there is no credits-to-points path.
func CreditsForPoints(points int64) (int64, error) {
	if points < MinConversionPoints {
		return 0, ErrBelowConversionMinimum
	}
	if points%PointsPerCredit != 0 {
		return 0, ErrConversionNotWhole
	}
	return points / PointsPerCredit, nil
}

// Validate rejects self-gifts and non-positive amounts.
func (g *PointGift) Validate() error {
	if g.SenderID == g.RecipientID {
		return errors.New("users cannot gift points to themselves")
	}
	if g.Amount <= 0 {
		return errors.New("gift amount must be positive")
	}
	return nil
}

// Validate rejects self-endorsements and empty skills.
func (e *Endorsement) Validate() error {
	if e.EndorserID == e.EndorseeID {
		return errors.New("users cannot endorse themselves")
	}
	if e.Skill == "" {
		return errors.New("skill is required")
	}
	return nil
}

// Validate rejects self-awards and empty badge slugs.
func (b *PeerBadgeAward) Validate() error {
	if b.AwarderID == b.RecipientID {
		return errors.New("users cannot award badges to themselves")
	}
	if b.Badge == "" {
		return errors.New("badge is required")
	}
	return nil
}

package model

import (
	"errors"
	"fmt"
	"time"
)

const (
	ConnStatusInitiated  = "initiated"
	ConnStatusDiscussing = "discussing"
	ConnStatusAccepted   = "accepted"
	ConnStatusInProgress = "in_progress"
	ConnStatusCompleted  = "completed"
	ConnStatusDeclined   = "declined"
	ConnStatusCancelled  = "cancelled"
)

const (
	ConnTypeAsk    = "ask"
	ConnTypeOffer  = "offer"
	ConnTypeDirect = "direct"
)

// Role identifies which side of a connection an actor is on.
type Role string

const (
	RoleInitiator Role = "initiator"
	RoleResponder Role = "responder"
)

var ErrNotParticipant = errors.New("user is not a participant of this connection")

type Connection struct {
	ID              int64                  `json:"-"`
	ConnectionID    string                 `json:"connection_id"`
	ConnectionType  string                 `json:"connection_type"`
	InitiatorID     string                 `json:"initiator_id"`
	ResponderID     string                 `json:"responder_id"`
	AskID           string                 `json:"ask_id,omitempty"`
	OfferID         string                 `json:"offer_id,omitempty"`
	Status          string                 `json:"status"`
	InitialMessage  string                 `json:"initial_message"`
	InitiatorRating *int                   `json:"initiator_rating,omitempty"`
	ResponderRating *int                   `json:"responder_rating,omitempty"`
	CompletedAt     *time.Time             `json:"completed_at,omitempty"`
	CreatedAt       time.Time              `json:"created_at"`
	MetaData        map[string]interface{} `json:"meta_data,omitempty"`
}

// transitionGuards maps each non-terminal status to the statuses reachable
// from it and the roles allowed to trigger the move.
var transitionGuards = map[string]map[string][]Role{
	ConnStatusInitiated: {
		ConnStatusDiscussing: {RoleInitiator, RoleResponder},
		ConnStatusAccepted:   {RoleResponder},
		ConnStatusDeclined:   {RoleResponder},
		ConnStatusCancelled:  {RoleInitiator},
	},
	ConnStatusDiscussing: {
		ConnStatusAccepted:  {RoleResponder},
		ConnStatusDeclined:  {RoleResponder},
		ConnStatusCancelled: {RoleInitiator, RoleResponder},
	},
	ConnStatusAccepted: {
		ConnStatusInProgress: {RoleInitiator, RoleResponder},
		ConnStatusCancelled:  {RoleInitiator, RoleResponder},
	},
	ConnStatusInProgress: {
		ConnStatusCompleted: {RoleInitiator, RoleResponder},
		ConnStatusCancelled: {RoleInitiator, RoleResponder},
	},
}

// TerminalStatuses are connection statuses with no outgoing transitions.
// The partial unique indexes on connections exclude these.
var TerminalStatuses = []string{ConnStatusCompleted, ConnStatusDeclined, ConnStatusCancelled}

// IsTerminalStatus reports whether status ends the connection lifecycle.
func IsTerminalStatus(status string) bool {
	for _, s := range TerminalStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// IsValidConnectionStatus reports whether status is a known lifecycle state.
func IsValidConnectionStatus(status string) bool {
	switch status {
	case ConnStatusInitiated, ConnStatusDiscussing, ConnStatusAccepted,
		ConnStatusInProgress, ConnStatusCompleted, ConnStatusDeclined, ConnStatusCancelled:
		return true
	}
	return false
}

// RoleOf returns the role userID plays on the connection, or ErrNotParticipant.
func (c *Connection) RoleOf(userID string) (Role, error) {
	switch userID {
	case c.InitiatorID:
		return RoleInitiator, nil
	case c.ResponderID:
		return RoleResponder, nil
	}
	return "", ErrNotParticipant
}

// CanTransition reports whether the lifecycle permits moving from -> to,
// regardless of actor.
func CanTransition(from, to string) bool {
	next, ok := transitionGuards[from]
	if !ok {
		return false
	}
	_, ok = next[to]
	return ok
}

// AuthorizeTransition checks both the lifecycle edge and the acting role.
func (c *Connection) AuthorizeTransition(to string, actor Role) error {
	next, ok := transitionGuards[c.Status]
	if !ok {
		return fmt.Errorf("connection is %s and cannot change status", c.Status)
	}
	roles, ok := next[to]
	if !ok {
		return fmt.Errorf("cannot move connection from %s to %s", c.Status, to)
	}
	for _, r := range roles {
		if r == actor {
			return nil
		}
	}
	return fmt.Errorf("%s may not move connection from %s to %s", actor, c.Status, to)
}

// ValidateAnchor enforces the ask/offer exclusivity rule: ask and offer
// connections carry exactly one anchor, direct connections carry none.
func (c *Connection) ValidateAnchor() error {
	switch c.ConnectionType {
	case ConnTypeAsk:
		if c.AskID == "" || c.OfferID != "" {
			return errors.New("ask connections must reference an ask and no offer")
		}
	case ConnTypeOffer:
		if c.OfferID == "" || c.AskID != "" {
			return errors.New("offer connections must reference an offer and no ask")
		}
	case ConnTypeDirect:
		if c.AskID != "" || c.OfferID != "" {
			return errors.New("direct connections cannot reference an ask or offer")
		}
	default:
		return fmt.Errorf("unknown connection type %q", c.ConnectionType)
	}
	if c.InitiatorID == c.ResponderID {
		return errors.New("initiator and responder cannot be the same user")
	}
	if c.InitialMessage == "" {
		return errors.New("initial_message is required")
	}
	return nil
}

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type SwapStatus string

const (
	SwapStatusPending   SwapStatus = "pending"
	SwapStatusAccepted  SwapStatus = "accepted"
	SwapStatusRejected  SwapStatus = "rejected"
	SwapStatusCompleted SwapStatus = "completed"
	SwapStatusCancelled SwapStatus = "cancelled"
)

func (s SwapStatus) IsValid() bool {
	switch s {
	case SwapStatusPending, SwapStatusAccepted, SwapStatusRejected,
		SwapStatusCompleted, SwapStatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is allowed from s.
func (s SwapStatus) IsTerminal() bool {
	switch s {
	case SwapStatusRejected, SwapStatusCompleted, SwapStatusCancelled:
		return true
	}
	return false
}

var swapTransitions = map[SwapStatus][]SwapStatus{
	SwapStatusPending:  {SwapStatusAccepted, SwapStatusRejected, SwapStatusCancelled},
	SwapStatusAccepted: {SwapStatusCompleted},
}

// CanTransitionTo reports whether the lifecycle permits moving from s to
// next. Authorization of the acting user is checked separately.
func (s SwapStatus) CanTransitionTo(next SwapStatus) bool {
	for _, allowed := range swapTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// SwapRequest is a skill-exchange proposal between two users. It is never
// hard-deleted; its status models the end of the lifecycle.
type SwapRequest struct {
	ID              bson.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	RequesterID     string        `json:"requesterId" bson:"requesterId"`
	RequestedUserID string        `json:"requestedUserId" bson:"requestedUserId"`
	RequesterSkill  string        `json:"requesterSkill" bson:"requesterSkill"`
	RequestedSkill  string        `json:"requestedSkill" bson:"requestedSkill"`
	Message         string        `json:"message,omitempty" bson:"message,omitempty"`
	Status          SwapStatus    `json:"status" bson:"status"`
	Deadline        *time.Time    `json:"deadline,omitempty" bson:"deadline,omitempty"`
	CreatedAt       time.Time     `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt" bson:"updatedAt"`
}

// IsParticipant reports whether userID is one of the two parties.
func (r *SwapRequest) IsParticipant(userID string) bool {
	return r.RequesterID == userID || r.RequestedUserID == userID
}

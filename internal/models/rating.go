package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Rating is a 1-5 star review left by one swap participant for the other.
type Rating struct {
	ID          bson.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	SwapID      string        `json:"swapId,omitempty" bson:"swapId,omitempty"`
	RaterID     string        `json:"raterId" bson:"raterId"`
	RatedUserID string        `json:"ratedUserId" bson:"ratedUserId"`
	Score       int           `json:"score" bson:"score"`
	Comment     string        `json:"comment,omitempty" bson:"comment,omitempty"`
	CreatedAt   time.Time     `json:"createdAt" bson:"createdAt"`
}

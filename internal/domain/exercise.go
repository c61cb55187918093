package domain

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Exercise is a single logged activity of a user.
type Exercise struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	UserID      primitive.ObjectID `bson:"userId" json:"userId"` // Not enforced by the store
	Description string             `bson:"description" json:"description"`
	Duration    Minutes            `bson:"duration" json:"duration"`
	// Date is kept in the canonical yyyy-MM-dd form so range filters can
	// compare it as a plain string.
	Date      string    `bson:"date" json:"date"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// NewExercise builds an exercise record for the given user. The date must
// already be in canonical storage form.
func NewExercise(userID primitive.ObjectID, description string, duration Minutes, date string) (*Exercise, error) {
	if userID == primitive.NilObjectID {
		return nil, fmt.Errorf("%w: userId is required", ErrValidation)
	}
	if description == "" {
		return nil, fmt.Errorf("%w: description is required", ErrValidation)
	}
	if date == "" {
		return nil, fmt.Errorf("%w: date is required", ErrValidation)
	}
	return &Exercise{
		UserID:      userID,
		Description: description,
		Duration:    duration,
		Date:        date,
	}, nil
}

// LogQuery narrows down the exercises returned for a user.
// From and To are inclusive canonical dates; empty means unbounded.
type LogQuery struct {
	UserID primitive.ObjectID
	From   string
	To     string
	// Limit caps the number of records; nil means no cap.
	Limit *int64
}

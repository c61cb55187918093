package domain

import (
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrValidation marks a record that is missing a required field.
var ErrValidation = errors.New("validation failed")

// User is a person exercises are logged against.
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Username  string             `bson:"username" json:"username"` // Unique index on the store
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// NewUser builds a user record that is ready to be inserted.
// The ID and CreatedAt are assigned by the repository.
func NewUser(username string) (*User, error) {
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", ErrValidation)
	}
	return &User{Username: username}, nil
}

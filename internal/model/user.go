package model

import "go.mongodb.org/mongo-driver/bson/primitive"

const (
	SubscriptionStarter  = "starter"
	SubscriptionPro      = "pro"
	SubscriptionBusiness = "business"
)

// ValidSubscription reports whether s is one of the known tiers.
func ValidSubscription(s string) bool {
	switch s {
	case SubscriptionStarter, SubscriptionPro, SubscriptionBusiness:
		return true
	}
	return false
}

// User represents an account record in the users collection
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"password_hash" json:"-"` // Do not expose password hash in JSON responses
	Subscription string             `bson:"subscription" json:"subscription"`
	Token        *string            `bson:"token" json:"-"` // Current session token, nil when logged out
}

// PublicUser is the projection of a User safe to return to clients
type PublicUser struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Subscription string `json:"subscription"`
}

// Public returns the client-facing projection of the user
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:           u.ID.Hex(),
		Email:        u.Email,
		Subscription: u.Subscription,
	}
}

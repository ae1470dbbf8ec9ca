package model

import "time"

// User is a registered interviewer account.
type User struct {
	ID           string    `json:"id" bson:"_id,omitempty"`
	Username     string    `json:"username" bson:"username"`
	PasswordHash string    `json:"-" bson:"passwordHash"`
	FirstName    string    `json:"firstName" bson:"firstName"`
	LastName     string    `json:"lastName" bson:"lastName"`
	Admin        bool      `json:"admin" bson:"admin"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
}

// Actor is an authenticated caller as seen by the service layer.
type Actor struct {
	UserID   string
	Username string
	Admin    bool
}

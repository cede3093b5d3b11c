package models

import (
	"time"
)

type UserType string

const (
	UserRegular UserType = "user"
	UserAgent   UserType = "agent"
	UserAdmin   UserType = "admin"
)

// Profile holds marketplace data about an account. Credentials live with the
// identity provider; UserID is the subject of its tokens.
type Profile struct {
	UserID      string    `bson:"_id" json:"userId"`
	Email       string    `bson:"email" json:"email"`
	FirstName   string    `bson:"firstName" json:"firstName"`
	LastName    string    `bson:"lastName" json:"lastName"`
	PhoneNumber string    `bson:"phoneNumber" json:"phoneNumber"`
	Bio         string    `bson:"bio" json:"bio"`
	UserType    UserType  `bson:"userType" json:"userType"`
	IsVerified  bool      `bson:"isVerified" json:"isVerified"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt" json:"updatedAt"`
}

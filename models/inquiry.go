package models

import "time"

// Inquiry is a message sent through a listing's contact form.
type Inquiry struct {
	ID         string    `bson:"_id" json:"id"`
	Reference  string    `bson:"reference" json:"reference"`
	PropertyID string    `bson:"propertyId" json:"propertyId"`
	OwnerID    string    `bson:"ownerId" json:"ownerId"`
	SenderID   string    `bson:"senderId,omitempty" json:"senderId,omitempty"`
	Name       string    `bson:"name" json:"name"`
	Email      string    `bson:"email" json:"email"`
	Phone      string    `bson:"phone" json:"phone"`
	Message    string    `bson:"message" json:"message"`
	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`
}

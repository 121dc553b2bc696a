package entity

import (
	"time"
)

// Base holds the store-managed part of a document.
type Base struct {
	ID        string    `bson:"_id" db:"id"`
	CreatedAt time.Time `bson:"createdAt" db:"created_at"`
	UpdatedAt time.Time `bson:"updatedAt" db:"updated_at"`
}

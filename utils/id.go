package utils

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GenerateID returns a new identifier in ObjectID hex form (24 characters).
// Every repository backend uses it so ids look the same regardless of storage.
func GenerateID() string {
	return primitive.NewObjectID().Hex()
}

// IsValidID reports whether s is a well-formed ObjectID hex string.
func IsValidID(s string) bool {
	return primitive.IsValidObjectID(s)
}

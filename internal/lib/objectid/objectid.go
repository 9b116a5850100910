// Package objectid implements the identifier format used by every person store:
// a BSON ObjectID rendered as 24 lowercase hex characters.
//
// Layout: 4-byte big-endian unix seconds, 5 bytes of per-process randomness,
// 3-byte counter. Ids created by one process are unique and roughly ordered
// by creation time.
package objectid

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Length is the length of the hex form of an id.
const Length = 24

// New returns a fresh id.
func New() string {
	return bson.NewObjectID().Hex()
}

// NewAt returns a fresh id carrying t as its timestamp.
func NewAt(t time.Time) string {
	return bson.NewObjectIDFromTimestamp(t).Hex()
}

// IsValid reports whether s is syntactically an id. It says nothing about
// whether a record with that id exists. Mixed case is accepted.
func IsValid(s string) bool {
	if len(s) != Length {
		return false
	}
	_, err := bson.ObjectIDFromHex(s)
	return err == nil
}

// Timestamp extracts the creation time encoded in a valid id.
func Timestamp(id string) (time.Time, bool) {
	if len(id) != Length {
		return time.Time{}, false
	}
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return time.Time{}, false
	}
	return oid.Timestamp().UTC(), true
}

package models

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User wraps a raw user document; the schema differs between deployments.
type User struct {
	Doc bson.M
}

// ID returns the "id" field, falling back to "_id".
func (u *User) ID() string {
	if v, ok := u.Doc["id"]; ok && !isZero(v) {
		return stringify(v)
	}
	return stringify(u.Doc["_id"])
}

// Email returns the first non-empty of email, mail and contact_email.
func (u *User) Email() string {
	for _, k := range []string{"email", "mail", "contact_email"} {
		if s, ok := u.Doc[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// Username returns the username field.
func (u *User) Username() string {
	s, _ := u.Doc["username"].(string)
	return s
}

func stringify(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case primitive.ObjectID:
		return x.Hex()
	default:
		return fmt.Sprint(x)
	}
}

func isZero(v interface{}) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == ""
	case int32:
		return x == 0
	case int64:
		return x == 0
	case float64:
		return x == 0
	default:
		return false
	}
}

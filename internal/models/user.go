package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is a registered account. The password hash never leaves the server.
type User struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email             string             `bson:"email" json:"email"`
	PasswordHash      string             `bson:"password_hash" json:"-"`
	Name              string             `bson:"name" json:"name"`
	PreferredLanguage string             `bson:"preferred_language" json:"preferredLanguage"`
	Avatar            string             `bson:"avatar" json:"avatar"`
	CreatedAt         time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt         time.Time          `bson:"updated_at" json:"updatedAt"`
}

// PublicUser is the client-facing projection of a User.
type PublicUser struct {
	ID                string `json:"id"`
	Email             string `json:"email"`
	Name              string `json:"name"`
	PreferredLanguage string `json:"preferredLanguage"`
	Avatar            string `json:"avatar"`
}

func (u *User) Public() PublicUser {
	return PublicUser{
		ID:                u.ID.Hex(),
		Email:             u.Email,
		Name:              u.Name,
		PreferredLanguage: u.PreferredLanguage,
		Avatar:            u.Avatar,
	}
}

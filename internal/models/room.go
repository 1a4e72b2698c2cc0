package models

import "time"

// Room is a chat room created through the invite flow. Participants holds
// user ids; Members is populated with public profiles before the room is
// returned to clients or broadcast.
type Room struct {
	ID           string       `bson:"_id" json:"id"`
	Name         string       `bson:"name" json:"name"`
	Participants []string     `bson:"participants" json:"participants"`
	CreatedAt    time.Time    `bson:"created_at" json:"createdAt"`
	Members      []PublicUser `bson:"-" json:"members,omitempty"`
}

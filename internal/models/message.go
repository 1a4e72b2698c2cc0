package models

import "time"

// Translations carries both language variants of a message. Both fields are
// always populated after ingestion; one equals the original text when the
// detected source language matches that tag.
type Translations struct {
	EN string `bson:"en" json:"en"`
	TA string `bson:"ta" json:"ta"`
}

// Message is one persisted chat message. Text is the canonical display
// variant (English); OriginalText is the text exactly as submitted and is
// never mutated. Sender is attached for client convenience on reads and
// broadcasts, never stored.
type Message struct {
	ID           string       `bson:"_id,omitempty" json:"id"`
	Text         string       `bson:"text" json:"text"`
	OriginalText string       `bson:"original_text" json:"originalText"`
	SenderID     string       `bson:"sender_id" json:"senderId"`
	RoomID       string       `bson:"room_id" json:"roomId"`
	Timestamp    time.Time    `bson:"timestamp" json:"timestamp"`
	IsTranslated bool         `bson:"is_translated" json:"isTranslated"`
	Translations Translations `bson:"translations" json:"translations"`
	Sender       *PublicUser  `bson:"-" json:"sender,omitempty"`
}

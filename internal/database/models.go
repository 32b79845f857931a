package database

import "time"

// TrackedMessage is the persisted identity of the status message.
// Key distinguishes trackers sharing one database.
type TrackedMessage struct {
	Key       string    `db:"key"`
	MessageID string    `db:"message_id"`
	ChannelID string    `db:"channel_id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

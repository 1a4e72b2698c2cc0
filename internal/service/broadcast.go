package service

// Broadcaster pushes events out on the realtime channel.
type Broadcaster interface {
	BroadcastRoom(roomID, event string, data any)
	BroadcastAll(event string, data any)
}

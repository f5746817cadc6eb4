package redis

import "time"

// GuestSession binds a guest's session nonce to the room and participant
// record it was issued for, so a reconnecting guest can be rebound
// without an account.
type GuestSession struct {
	Nonce         string    `json:"nonce"`
	RoomID        string    `json:"room_id"`
	ParticipantID string    `json:"participant_id"`
	DisplayName   string    `json:"display_name"`
	IssuedAt      time.Time `json:"issued_at"`
}

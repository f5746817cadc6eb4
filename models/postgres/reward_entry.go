package postgres

import (
	"time"
)

/*
 * 'RewardEntry' is one durable reward credit. The unique (room, game,
 * participant) index makes crediting idempotent: a retried write after a
 * partial failure can never double-grant, while a restarted room's next
 * game still credits normally.
 */
type RewardEntry struct {
	ID            uint      `gorm:"primaryKey"`
	RoomID        string    `gorm:"size:50;not null;uniqueIndex:idx_reward_room_participant"`
	GameNumber    int       `gorm:"not null;default:1;uniqueIndex:idx_reward_room_participant"`
	ParticipantID string    `gorm:"size:50;not null;uniqueIndex:idx_reward_room_participant"`
	Username      string    `gorm:"size:50;index"` // empty for guests
	RewardType    string    `gorm:"size:20;not null"`
	Amount        int       `gorm:"not null"`
	CreatedAt     time.Time `gorm:"default:CURRENT_TIMESTAMP"`
}

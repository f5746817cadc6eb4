package postgres

import (
	"time"
)

/*
 * 'BattleRecord' is the durable snapshot of one finished battle room,
 * written by the sync manager once the room reaches the finished phase.
 * 'BattleResult' holds the per-participant outcome.
 */
type BattleRecord struct {
	ID           uint      `gorm:"primaryKey"`
	RoomID       string    `gorm:"size:50;not null;uniqueIndex:idx_battle_room_game"`
	GameNumber   int       `gorm:"not null;default:1;uniqueIndex:idx_battle_room_game"`
	Field        string    `gorm:"size:50"`
	TotalPlayers int       `gorm:"default:0"`
	FinishedAt   time.Time `gorm:"not null"`
	CreatedAt    time.Time `gorm:"default:CURRENT_TIMESTAMP"`

	Results []BattleResult `gorm:"foreignKey:BattleRecordID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

type BattleResult struct {
	ID             uint   `gorm:"primaryKey"`
	BattleRecordID uint   `gorm:"not null;index"`
	ParticipantID  string `gorm:"size:50;not null"`
	Username       string `gorm:"size:50;index"` // empty for guests
	DisplayName    string `gorm:"size:50"`
	Score          int    `gorm:"not null;default:0"`
	Rank           int    `gorm:"not null;default:0;index:idx_battle_results_rank"`
	IsWinner       bool   `gorm:"not null;default:false"`
}

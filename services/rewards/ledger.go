package rewards

import (
	battle_models "Quizrush/models/battle"
	models "Quizrush/models/postgres"
	"log"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const maxAttempts = 3
const baseBackoff = 2 * time.Second

// Ledger durably credits reward amounts after a battle finishes. Writes
// are retried with backoff; the unique (room, game, participant) index
// makes a retried write idempotent, so a partial failure can never
// double-grant.
// Already-broadcast rankings are never rolled back on write failure: the
// in-memory score state is the source of truth.
type Ledger struct {
	DB *gorm.DB
}

func NewLedger(db *gorm.DB) *Ledger {
	return &Ledger{DB: db}
}

// CreditRewards persists one entry per reward. Called from a goroutine by
// the engine, never under a room lock.
func (l *Ledger) CreditRewards(roomID string, gameNumber int, rewardList []battle_models.Reward) {
	entries := make([]models.RewardEntry, len(rewardList))
	for i, reward := range rewardList {
		entries[i] = models.RewardEntry{
			RoomID:        roomID,
			GameNumber:    gameNumber,
			ParticipantID: reward.ParticipantID,
			Username:      reward.Username,
			RewardType:    reward.RewardType,
			Amount:        reward.Amount,
		}
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := l.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&entries).Error
		if err == nil {
			log.Printf("[REWARD-LEDGER] Credited %d rewards for room %s", len(entries), roomID)
			return
		}
		log.Printf("[REWARD-LEDGER-ERROR] Attempt %d/%d failed for room %s: %v",
			attempt, maxAttempts, roomID, err)
		time.Sleep(baseBackoff * time.Duration(attempt))
	}
	log.Printf("[REWARD-LEDGER-ERROR] Giving up crediting rewards for room %s", roomID)
}

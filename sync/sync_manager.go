package sync

import (
	battle_models "Quizrush/models/battle"
	"database/sql"
	"fmt"
	"log"
)

// SyncManager persists finished battle outcomes from the in-memory engine
// to PostgreSQL. It satisfies the engine's ResultRecorder interface.
type SyncManager struct {
	db *sql.DB
}

// NewSyncManager creates a new instance of the synchronization manager
func NewSyncManager(db *sql.DB) *SyncManager {
	return &SyncManager{
		db: db,
	}
}

// RecordFinishedBattle writes the battle record and its per-participant
// results in one transaction. The unique (room_id, game_number) index
// makes a retried write of the same snapshot a no-op while still keeping
// one record per game of a restarted room.
func (sm *SyncManager) RecordFinishedBattle(snapshot battle_models.FinishedBattle) {
	if err := sm.persistBattle(snapshot); err != nil {
		log.Printf("[SYNC-ERROR] Error persisting battle %s: %v", snapshot.RoomID, err)
		return
	}
	log.Printf("[SYNC] Battle %s persisted (%d results)", snapshot.RoomID, len(snapshot.Results))
}

func (sm *SyncManager) persistBattle(snapshot battle_models.FinishedBattle) error {
	// Start transaction
	tx, err := sm.db.Begin()
	if err != nil {
		return fmt.Errorf("error starting transaction: %v", err)
	}
	defer tx.Rollback()

	var recordID int64
	err = tx.QueryRow(`
		INSERT INTO battle_records (room_id, game_number, field, total_players, finished_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (room_id, game_number) DO NOTHING
		RETURNING id
	`, snapshot.RoomID, snapshot.GameNumber, snapshot.Field,
		len(snapshot.Results), snapshot.FinishedAt).Scan(&recordID)

	if err == sql.ErrNoRows {
		// Conflict: this snapshot was already persisted
		return tx.Commit()
	}
	if err != nil {
		return fmt.Errorf("error inserting battle record: %v", err)
	}

	for _, result := range snapshot.Results {
		_, err = tx.Exec(`
			INSERT INTO battle_results (battle_record_id, participant_id, username, display_name, score, rank, is_winner)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, recordID, result.ParticipantID, result.Username, result.DisplayName,
			result.Score, result.Rank, result.Rank == 1)
		if err != nil {
			return fmt.Errorf("error inserting battle result: %v", err)
		}
	}

	// Confirm transaction
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("error committing transaction: %v", err)
	}
	return nil
}

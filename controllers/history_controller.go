package controllers

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"
)

type HistoryController struct {
	DB *sql.DB
}

// GetBattleRecord gets the persisted outcome of a finished battle
// @Summary Get a finished battle by room id
// @Description Returns the persisted battle outcome with its final ranking
// @Tags history
// @Produce json
// @Param room_id path string true "Room id"
// @Success 200 {object} object{room_id=string,field=string,results=[]object}
// @Failure 404 {object} object{error=string}
// @Router /battles/{room_id} [get]
func (hc *HistoryController) GetBattleRecord(c *gin.Context) {
	roomID := c.Param("room_id")

	var record struct {
		ID           uint   `json:"-"`
		RoomID       string `json:"room_id"`
		Field        string `json:"field"`
		TotalPlayers int    `json:"total_players"`
		FinishedAt   string `json:"finished_at"`
	}

	// A restarted room has one record per game, return the latest
	err := hc.DB.QueryRow(`
		SELECT id, room_id, field, total_players, finished_at
		FROM battle_records
		WHERE room_id = $1
		ORDER BY game_number DESC
		LIMIT 1
	`, roomID).Scan(
		&record.ID, &record.RoomID, &record.Field, &record.TotalPlayers, &record.FinishedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "Battle not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error querying database: " + err.Error()})
		}
		return
	}

	rows, err := hc.DB.Query(`
		SELECT username, display_name, score, rank, is_winner
		FROM battle_results
		WHERE battle_record_id = $1
		ORDER BY rank ASC
	`, record.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error querying results: " + err.Error()})
		return
	}
	defer rows.Close()

	results := []gin.H{}
	for rows.Next() {
		var username, displayName string
		var score, rank int
		var isWinner bool
		if err := rows.Scan(&username, &displayName, &score, &rank, &isWinner); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error scanning results: " + err.Error()})
			return
		}
		results = append(results, gin.H{
			"username":     username,
			"display_name": displayName,
			"score":        score,
			"rank":         rank,
			"is_winner":    isWinner,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"room_id":       record.RoomID,
		"field":         record.Field,
		"total_players": record.TotalPlayers,
		"finished_at":   record.FinishedAt,
		"results":       results,
	})
}

// GetUserBattleHistory lists the battles an account took part in
// @Summary Get a user's battle history
// @Description Returns the most recent finished battles for a username
// @Tags history
// @Produce json
// @Param username path string true "Account username"
// @Success 200 {object} object{username=string,battles=[]object}
// @Failure 500 {object} object{error=string}
// @Router /users/{username}/battles [get]
func (hc *HistoryController) GetUserBattleHistory(c *gin.Context) {
	username := c.Param("username")

	rows, err := hc.DB.Query(`
		SELECT br.room_id, br.field, br.finished_at, r.score, r.rank, r.is_winner
		FROM battle_results r
		JOIN battle_records br ON br.id = r.battle_record_id
		WHERE r.username = $1
		ORDER BY br.finished_at DESC
		LIMIT 50
	`, username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error querying database: " + err.Error()})
		return
	}
	defer rows.Close()

	battles := []gin.H{}
	for rows.Next() {
		var roomID, field, finishedAt string
		var score, rank int
		var isWinner bool
		if err := rows.Scan(&roomID, &field, &finishedAt, &score, &rank, &isWinner); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error scanning results: " + err.Error()})
			return
		}
		battles = append(battles, gin.H{
			"room_id":     roomID,
			"field":       field,
			"finished_at": finishedAt,
			"score":       score,
			"rank":        rank,
			"is_winner":   isWinner,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"username": username,
		"battles":  battles,
	})
}

package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestGetBattleRecord(t *testing.T) {
	// Setup test environment
	gin.SetMode(gin.TestMode)
	db, mock, _ := sqlmock.New()
	defer db.Close()

	historyController := &HistoryController{DB: db}

	// Setup router
	router := gin.New()
	router.GET("/battles/:room_id", historyController.GetBattleRecord)

	fmt.Println("Request: GET /battles/aB3xYz")

	mock.ExpectQuery(`SELECT id, room_id, field, total_players, finished_at FROM battle_records WHERE room_id = \$1 ORDER BY game_number DESC LIMIT 1`).
		WithArgs("aB3xYz").
		WillReturnRows(sqlmock.NewRows([]string{"id", "room_id", "field", "total_players", "finished_at"}).
			AddRow(7, "aB3xYz", "science", 3, "2026-08-20T10:00:00Z"))

	mock.ExpectQuery(`SELECT username, display_name, score, rank, is_winner FROM battle_results WHERE battle_record_id = \$1 ORDER BY rank ASC`).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"username", "display_name", "score", "rank", "is_winner"}).
			AddRow("alice", "Alice", 850, 1, true).
			AddRow("bob", "Bob", 620, 2, false).
			AddRow("", "Guest", 410, 3, false))

	// Create HTTP request
	req, _ := http.NewRequest("GET", "/battles/aB3xYz", nil)
	w := httptest.NewRecorder()

	// Execute request
	router.ServeHTTP(w, req)

	// Verify response
	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)

	fmt.Println("Response:", w.Body.String())

	assert.Equal(t, "aB3xYz", response["room_id"])
	assert.Equal(t, "science", response["field"])
	assert.Equal(t, float64(3), response["total_players"])

	results := response["results"].([]interface{})
	assert.Len(t, results, 3)
	first := results[0].(map[string]interface{})
	assert.Equal(t, "alice", first["username"])
	assert.Equal(t, float64(1), first["rank"])
	assert.Equal(t, true, first["is_winner"])

	// Verify all expectations were met
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetBattleRecordNotFound(t *testing.T) {
	// Setup test environment
	gin.SetMode(gin.TestMode)
	db, mock, _ := sqlmock.New()
	defer db.Close()

	historyController := &HistoryController{DB: db}

	// Setup router
	router := gin.New()
	router.GET("/battles/:room_id", historyController.GetBattleRecord)

	fmt.Println("Request: GET /battles/nonexistent")

	mock.ExpectQuery(`SELECT id, room_id, field, total_players, finished_at FROM battle_records WHERE room_id = \$1 ORDER BY game_number DESC LIMIT 1`).
		WithArgs("nonexistent").
		WillReturnRows(sqlmock.NewRows([]string{"id", "room_id", "field", "total_players", "finished_at"}))

	// Create HTTP request
	req, _ := http.NewRequest("GET", "/battles/nonexistent", nil)
	w := httptest.NewRecorder()

	// Execute request
	router.ServeHTTP(w, req)

	fmt.Println("Response:", w.Body.String())
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUserBattleHistory(t *testing.T) {
	// Setup test environment
	gin.SetMode(gin.TestMode)
	db, mock, _ := sqlmock.New()
	defer db.Close()

	historyController := &HistoryController{DB: db}

	// Setup router
	router := gin.New()
	router.GET("/users/:username/battles", historyController.GetUserBattleHistory)

	fmt.Println("Request: GET /users/alice/battles")

	mock.ExpectQuery(`SELECT br.room_id, br.field, br.finished_at, r.score, r.rank, r.is_winner FROM battle_results r JOIN battle_records br ON br.id = r.battle_record_id WHERE r.username = \$1 ORDER BY br.finished_at DESC LIMIT 50`).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"room_id", "field", "finished_at", "score", "rank", "is_winner"}).
			AddRow("aB3xYz", "science", "2026-08-20T10:00:00Z", 850, 1, true).
			AddRow("Qw9rTy", "history", "2026-08-18T18:30:00Z", 500, 2, false))

	// Create HTTP request
	req, _ := http.NewRequest("GET", "/users/alice/battles", nil)
	w := httptest.NewRecorder()

	// Execute request
	router.ServeHTTP(w, req)

	// Verify response
	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)

	fmt.Println("Response:", w.Body.String())

	assert.Equal(t, "alice", response["username"])
	battles := response["battles"].([]interface{})
	assert.Len(t, battles, 2)
	latest := battles[0].(map[string]interface{})
	assert.Equal(t, "aB3xYz", latest["room_id"])
	assert.Equal(t, true, latest["is_winner"])

	assert.NoError(t, mock.ExpectationsWereMet())
}

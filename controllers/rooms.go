package controllers

import (
	battle_models "Quizrush/models/battle"
	battle "Quizrush/services/battle"
	"Quizrush/utils"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type createRoomRequest struct {
	Field         string `json:"field" binding:"required"`
	MaxPlayers    int    `json:"max_players"`
	TimeLimitType string `json:"time_limit_type"`
	InviteToken   string `json:"invite_token"`
}

// @Summary Create a battle room
// @Description Allocates a room in waiting state and binds its invite token.
// Sending the same invite_token again returns the original room, so clients
// can safely retry the request.
// @Tags rooms
// @Accept json
// @Produce json
// @Param request body createRoomRequest true "Room settings"
// @Success 201 {object} object{room_id=string,invite_token=string}
// @Failure 400 {object} object{error=string}
// @Failure 500 {object} object{error=string}
// @Router /auth/rooms [post]
func CreateRoom(registry *battle.Registry, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createRoomRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
			return
		}

		hasQuizzes, err := utils.FieldHasQuizzes(db, req.Field)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error checking quiz field: " + err.Error()})
			return
		}
		if !hasQuizzes {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No quizzes available for field " + req.Field})
			return
		}

		room, err := registry.CreateRoom(battle_models.RoomSettings{
			Field:         req.Field,
			MaxPlayers:    req.MaxPlayers,
			TimeLimitType: req.TimeLimitType,
		}, req.InviteToken)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create room: " + err.Error()})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"room_id":      room.ID,
			"invite_token": room.InviteToken,
		})
	}
}

// @Summary Check join eligibility for an invite token
// @Description Resolves the token and reports whether a join would currently
// be admitted. Purely advisory: admission is decided again at join time.
// @Tags rooms
// @Produce json
// @Param invite_token path string true "Invite token"
// @Success 200 {object} object{room_id=string,joinable=bool}
// @Failure 404 {object} object{code=string,error=string}
// @Failure 409 {object} object{code=string,error=string}
// @Router /rooms/joinable/{invite_token} [get]
func GetRoomJoinable(registry *battle.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Param("invite_token")

		roomID, joinErr := registry.ResolveJoin(token)
		if joinErr != nil {
			status := http.StatusConflict
			if joinErr == battle.ErrRoomNotFound {
				status = http.StatusNotFound
			}
			c.JSON(status, gin.H{"code": joinErr.Code, "error": joinErr.Message})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"room_id":  roomID,
			"joinable": true,
		})
	}
}

// @Summary List available quiz fields
// @Description Returns the distinct fields with questions in the quiz bank
// @Tags rooms
// @Produce json
// @Success 200 {object} object{fields=[]string}
// @Failure 500 {object} object{error=string}
// @Router /fields [get]
func GetQuizFields(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		fields, err := utils.QuizFieldList(db)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"fields": fields})
	}
}

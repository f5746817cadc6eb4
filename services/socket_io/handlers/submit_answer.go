package handlers

import (
	battle "Quizrush/services/battle"
	socketio_utils "Quizrush/services/socket_io/utils"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/socket.io/v2/socket"
)

// Function to handle one answer submission for the active quiz. Scoring
// runs under the room lock against the server receipt time; the result
// goes back to the sender only. Rankings are broadcast separately by the
// engine when the quiz resolves.
func HandleSubmitAnswer(registry *battle.Registry, client *socket.Socket, username string) func(args ...interface{}) {
	return func(args ...interface{}) {
		payload, ok := socketio_utils.CommandPayload(client, args)
		if !ok {
			return
		}

		roomID := socketio_utils.StringField(payload, "room_id")
		quizID, hasQuiz := socketio_utils.IntField(payload, "quiz_id")
		answer, hasAnswer := socketio_utils.IntField(payload, "answer")
		if !hasQuiz || !hasAnswer {
			socketio_utils.EmitRejection(client, battle.ErrInvalidState)
			return
		}

		room, exists := registry.Lookup(roomID)
		if !exists {
			socketio_utils.EmitRejection(client, battle.ErrRoomNotFound)
			return
		}

		submission, submitErr := room.SubmitAnswer(string(client.Id()), uint(quizID), answer)
		if submitErr != nil {
			log.Printf("[SUBMIT-ERROR] Submission rejected for room %s user %s: %s",
				roomID, username, submitErr.Code)
			socketio_utils.EmitRejection(client, submitErr)
			return
		}

		client.Emit("answer_result", gin.H{
			"quiz_id":     submission.QuizID,
			"is_correct":  submission.IsCorrect,
			"score_delta": submission.ScoreDelta,
			"total_score": submission.TotalScore,
		})
	}
}

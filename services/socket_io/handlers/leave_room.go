package handlers

import (
	battle "Quizrush/services/battle"
	socketio_utils "Quizrush/services/socket_io/utils"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/socket.io/v2/socket"
)

// Function to handle a voluntary leave. Leaving is not a disconnect:
// mid-game it removes the participant for good and can void the room if
// the count drops below the minimum.
func HandleLeaveRoom(registry *battle.Registry, client *socket.Socket, username string) func(args ...interface{}) {
	return func(args ...interface{}) {
		payload, ok := socketio_utils.CommandPayload(client, args)
		if !ok {
			return
		}
		roomID := socketio_utils.StringField(payload, "room_id")
		log.Printf("[LEAVE] User %s leaving room %s", username, roomID)

		room, exists := registry.Lookup(roomID)
		if !exists {
			socketio_utils.EmitRejection(client, battle.ErrRoomNotFound)
			return
		}

		connID := string(client.Id())
		if leaveErr := room.Leave(connID); leaveErr != nil {
			socketio_utils.EmitRejection(client, leaveErr)
			return
		}

		registry.ReleaseConnection(connID)
		client.Leave(socket.Room(roomID))
		client.Emit("room_left", gin.H{"room_id": roomID})
	}
}

// Function to handle a full state resync request. The canonical room state
// is snapshot-able at any instant, so a client that missed broadcasts
// (e.g. reconnecting mid-phase) recovers without any history replay.
func HandleRequestState(registry *battle.Registry, client *socket.Socket, username string) func(args ...interface{}) {
	return func(args ...interface{}) {
		payload, ok := socketio_utils.CommandPayload(client, args)
		if !ok {
			return
		}
		roomID := socketio_utils.StringField(payload, "room_id")

		room, exists := registry.Lookup(roomID)
		if !exists {
			socketio_utils.EmitRejection(client, battle.ErrRoomNotFound)
			return
		}

		log.Printf("[RESYNC] Sending full state of room %s to user %s", roomID, username)
		client.Emit("game_state", room.StatePayload())
	}
}

package handlers

import (
	battle "Quizrush/services/battle"
	socketio_utils "Quizrush/services/socket_io/utils"
	"log"

	"github.com/zishang520/socket.io/v2/socket"
)

// Host-only game control commands: start and restart. Both are validated
// inside the room under its lock; a non-host or phase-mismatched command
// is rejected to the sender only.

func HandleStartGame(registry *battle.Registry, client *socket.Socket, username string) func(args ...interface{}) {
	return func(args ...interface{}) {
		payload, ok := socketio_utils.CommandPayload(client, args)
		if !ok {
			return
		}
		roomID := socketio_utils.StringField(payload, "room_id")
		log.Printf("[START] User %s requesting game start for room %s", username, roomID)

		room, exists := registry.Lookup(roomID)
		if !exists {
			socketio_utils.EmitRejection(client, battle.ErrRoomNotFound)
			return
		}

		if startErr := room.Start(string(client.Id())); startErr != nil {
			log.Printf("[START-ERROR] Start rejected for room %s: %s", roomID, startErr.Code)
			socketio_utils.EmitRejection(client, startErr)
		}
	}
}

func HandleRestartGame(registry *battle.Registry, client *socket.Socket, username string) func(args ...interface{}) {
	return func(args ...interface{}) {
		payload, ok := socketio_utils.CommandPayload(client, args)
		if !ok {
			return
		}
		roomID := socketio_utils.StringField(payload, "room_id")
		log.Printf("[RESTART] User %s requesting restart for room %s", username, roomID)

		room, exists := registry.Lookup(roomID)
		if !exists {
			socketio_utils.EmitRejection(client, battle.ErrRoomNotFound)
			return
		}

		if restartErr := room.Restart(string(client.Id())); restartErr != nil {
			log.Printf("[RESTART-ERROR] Restart rejected for room %s: %s", roomID, restartErr.Code)
			socketio_utils.EmitRejection(client, restartErr)
		}
	}
}

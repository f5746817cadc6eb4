package handlers

import (
	battle "Quizrush/services/battle"
	socketio_types "Quizrush/services/socket_io/types"
	"log"
)

// Function to handle socket.io client disconnections. The engine decides
// what transport loss means for the room: removal in waiting/countdown,
// freezing mid-game with the reconnection grace window running.
func HandleDisconnecting(registry *battle.Registry, sio *socketio_types.SocketServer,
	connID string, username string) func(args ...interface{}) {
	return func(args ...interface{}) {
		log.Printf("[DISCONNECT] HandleDisconnecting started - User: %s, Socket ID: %s", username, connID)

		if room, exists := registry.RoomByConnection(connID); exists {
			room.Disconnect(connID)
		}
		registry.ReleaseConnection(connID)

		// Finally remove connection from map
		sio.RemoveConnection(connID)
		log.Printf("[DISCONNECT-DONE] Connection closed: %s", connID)
	}
}

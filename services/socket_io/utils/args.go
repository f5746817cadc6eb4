package socketio_utils

import (
	battle "Quizrush/services/battle"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/socket.io/v2/socket"
)

// Socket.io delivers event payloads as loosely typed maps. These helpers
// extract the common command fields and emit the standard rejection when
// a field is missing.

func CommandPayload(client *socket.Socket, args []interface{}) (map[string]interface{}, bool) {
	if len(args) < 1 {
		EmitRejection(client, battle.ErrInvalidState)
		return nil, false
	}
	payload, ok := args[0].(map[string]interface{})
	if !ok {
		EmitRejection(client, battle.ErrInvalidState)
		return nil, false
	}
	return payload, true
}

func StringField(payload map[string]interface{}, key string) string {
	value, _ := payload[key].(string)
	return value
}

// IntField reads a numeric field. JSON numbers arrive as float64.
func IntField(payload map[string]interface{}, key string) (int, bool) {
	switch v := payload[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	default:
		return 0, false
	}
}

// EmitRejection sends a command rejection to the sender only, with the
// fixed error code vocabulary. The room state is never affected.
func EmitRejection(client *socket.Socket, roomErr *battle.RoomError) {
	client.Emit("room_error", gin.H{
		"code":  roomErr.Code,
		"error": roomErr.Message,
	})
}

package battle

// RoomError is a command rejection delivered to the sender only. The room
// state is never affected by a rejected command.
type RoomError struct {
	Code    string
	Message string
}

func (e *RoomError) Error() string {
	return e.Code + ": " + e.Message
}

// Fixed rejection vocabulary of the battle protocol.
var (
	ErrRoomNotFound       = &RoomError{"ROOM_NOT_FOUND", "Room does not exist"}
	ErrRoomNotJoinable    = &RoomError{"ROOM_NOT_JOINABLE", "Room is no longer accepting players"}
	ErrRoomFull           = &RoomError{"ROOM_FULL", "Room is at maximum capacity"}
	ErrNotHost            = &RoomError{"NOT_HOST", "Only the host can perform this action"}
	ErrGameAlreadyStarted = &RoomError{"GAME_ALREADY_STARTED", "The game has already started"}
	ErrGameNotStarted     = &RoomError{"GAME_NOT_STARTED", "The game has not started yet"}
	ErrInvalidState       = &RoomError{"INVALID_STATE", "Action not allowed in the current phase"}
)

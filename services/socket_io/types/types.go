package socketio_types

import (
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/socket.io/v2/socket"
)

// SocketServer is a struct that contains the socket.io server and a map of
// socket connections keyed by connection id. It is used to handle
// socket.io connections and implements the engine's Notifier interface.
type SocketServer struct {
	Sio_server *socket.Server
	// Map to track connection id -> socket connections
	Connections map[string]*socket.Socket
	mutex       sync.RWMutex
}

func NewSocketServer() *SocketServer {
	return &SocketServer{
		Connections: make(map[string]*socket.Socket),
	}
}

// Add methods to manage connections
func (s *SocketServer) AddConnection(connID string, client *socket.Socket) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.Connections[connID] = client
}

func (s *SocketServer) RemoveConnection(connID string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	delete(s.Connections, connID)
}

func (s *SocketServer) GetConnection(connID string) (*socket.Socket, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	client, exists := s.Connections[connID]
	return client, exists
}

// BroadcastToRoom emits an engine event to every client in a room.
// Broadcasts are fire-and-forget; a client that misses one recovers
// through a full state resync.
func (s *SocketServer) BroadcastToRoom(roomID string, event string, payload gin.H) {
	s.Sio_server.To(socket.Room(roomID)).Emit(event, payload)
}

// NotifyParticipant emits an engine event to a single connection.
func (s *SocketServer) NotifyParticipant(connID string, event string, payload gin.H) {
	if client, exists := s.GetConnection(connID); exists {
		client.Emit(event, payload)
	}
}

package socket_io

import (
	battle "Quizrush/services/battle"
	"Quizrush/services/identity"
	"Quizrush/services/redis"
	"Quizrush/services/socket_io/handlers"

	socketio_types "Quizrush/services/socket_io/types"
	socketio_utils "Quizrush/services/socket_io/utils"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gorm.io/gorm"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io/v2/socket"
)

type MySocketServer socketio_types.SocketServer

func (sio *MySocketServer) Start(router *gin.Engine, db *gorm.DB, redisClient *redis.RedisClient,
	registry *battle.Registry) {
	c := socket.DefaultServerOptions()
	c.SetServeClient(true)
	// NOTE: higher ping interval and timeout to 1) reduce network load and 2) support slower networks
	c.SetPingInterval(5 * time.Second)
	c.SetPingTimeout(3 * time.Second)
	c.SetMaxHttpBufferSize(1000000)
	c.SetConnectTimeout(10 * time.Second)
	c.SetTransports(types.NewSet("polling", "websocket"))
	c.SetCors(&types.Cors{
		Origin:      "*",
		Credentials: true,
	})

	// KEY: initialize the map, otherwise it panics
	sio.Connections = make(map[string]*socket.Socket)

	resolver := identity.NewResolver(db)

	sio.Sio_server = socket.NewServer(nil, nil)
	sio.Sio_server.On("connection", func(clients ...interface{}) {
		client := clients[0].(*socket.Socket)

		// Authenticated clients resolve to an account username, guests
		// get an empty one and join with a session nonce instead
		success, username := socketio_utils.VerifyUserConnection(client, db)
		if !success {
			return
		}

		connID := string(client.Id())

		// Add connection to map
		(*socketio_types.SocketServer)(sio).AddConnection(connID, client)

		fmt.Println("An individual just connected!: ", connID, username)

		// Join a battle room via invite token or room id
		client.On("join_room", handlers.HandleJoinRoom(registry, redisClient, resolver, client, username))

		// Host starts the countdown
		client.On("start_game", handlers.HandleStartGame(registry, client, username))

		// Submit an answer for the active quiz
		client.On("submit_answer", handlers.HandleSubmitAnswer(registry, client, username))

		// Exit a room voluntarily
		client.On("leave_room", handlers.HandleLeaveRoom(registry, client, username))

		// Host restarts a finished game within the restart window
		client.On("restart_game", handlers.HandleRestartGame(registry, client, username))

		// Full state resync for clients that missed broadcasts
		client.On("request_state", handlers.HandleRequestState(registry, client, username))

		// NOTE: will remove sio connection from map
		client.On("disconnecting", handlers.HandleDisconnecting(registry,
			(*socketio_types.SocketServer)(sio), connID, username))
	})

	router.POST("/socket.io/*f", gin.WrapH(sio.Sio_server.ServeHandler(c)))
	router.GET("/socket.io/*f", gin.WrapH(sio.Sio_server.ServeHandler(c)))

	SignalC := make(chan os.Signal, 1)

	signal.Notify(SignalC, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		for s := range SignalC {
			switch s {
			case syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT:
				sio.Sio_server.Close(nil)
				os.Exit(0)
			}
		}
	}()

	fmt.Println("Socket server started")
}

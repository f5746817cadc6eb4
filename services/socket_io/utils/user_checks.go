package socketio_utils

import (
	"Quizrush/middleware"
	models "Quizrush/models/postgres"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/socket.io/v2/socket"
	"gorm.io/gorm"
)

// Function that verifies a socket.io client connection. Authenticated
// clients carry a JWT in the handshake auth data; the email inside it is
// resolved to an account username. Guests connect without a token and get
// an empty username — join still works, bound to a session nonce instead.
func VerifyUserConnection(client *socket.Socket, db *gorm.DB) (success bool, username string) {
	authData, ok := client.Handshake().Auth.(map[string]interface{})
	if !ok {
		// No auth data at all: plain guest connection
		return true, ""
	}

	if _, exists := authData["authorization"].(string); !exists {
		return true, ""
	}

	email, err := middleware.Socketio_JWT_decoder(authData)
	if err != nil {
		fmt.Println("Error decoding JWT:", err)
		client.Emit("room_error", gin.H{
			"code":  "INVALID_STATE",
			"error": "Authentication failed: invalid JWT. Remember to set it on the 'authorization' field with the 'Bearer ' prefix.",
		})
		return false, ""
	}

	var user models.User
	result := db.Where("email = ?", email).First(&user)
	if result.Error != nil {
		fmt.Println("Error fetching user from database:", result.Error)
		client.Emit("room_error", gin.H{
			"code":  "INVALID_STATE",
			"error": "Authentication failed: could not find user",
		})
		return false, ""
	}

	return true, user.ProfileUsername
}

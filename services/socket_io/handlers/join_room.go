package handlers

import (
	battle_constants "Quizrush/constants/battle"
	redis_models "Quizrush/models/redis"
	battle "Quizrush/services/battle"
	"Quizrush/services/identity"
	"Quizrush/services/redis"
	socketio_utils "Quizrush/services/socket_io/utils"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/zishang520/socket.io/v2/socket"
)

// Function to handle the act of joining a battle room. The invite token
// (or room id, when rejoining) is resolved through the registry; admission
// runs under the room lock so a full room can never be over-admitted. On
// success the client is joined to the socket.io room and receives the full
// room snapshot.
func HandleJoinRoom(registry *battle.Registry, redisClient *redis.RedisClient,
	resolver *identity.Resolver, client *socket.Socket, username string) func(args ...interface{}) {
	return func(args ...interface{}) {
		connID := string(client.Id())
		log.Printf("[JOIN] HandleJoinRoom started - User: %s, Socket ID: %s", username, connID)

		payload, ok := socketio_utils.CommandPayload(client, args)
		if !ok {
			return
		}

		roomID := socketio_utils.StringField(payload, "room_id")
		inviteToken := socketio_utils.StringField(payload, "invite_token")
		displayName := socketio_utils.StringField(payload, "display_name")
		profileImageURL := socketio_utils.StringField(payload, "profile_image_url")
		sessionNonce := socketio_utils.StringField(payload, "session_nonce")

		// A guest reconnecting with only its nonce recovers the room binding
		// from the stored guest session
		if roomID == "" && inviteToken == "" && sessionNonce != "" {
			if session, err := redisClient.GetGuestSession(sessionNonce); err == nil && session != nil {
				roomID = session.RoomID
			}
		}

		if roomID == "" && inviteToken == "" {
			socketio_utils.EmitRejection(client, battle.ErrRoomNotFound)
			return
		}

		// Authenticated users get their display data from the identity
		// resolver, guests bring their own name plus a session nonce
		if username != "" {
			if profile, err := resolver.Resolve(username); err == nil {
				displayName = profile.DisplayName
				if profileImageURL == "" {
					profileImageURL = profile.ProfileImageURL
				}
			} else {
				log.Printf("[JOIN-WARN] Could not resolve profile for %s: %v", username, err)
			}
		} else {
			if sessionNonce == "" {
				sessionNonce = uuid.NewString()
			}
			if displayName == "" {
				displayName = "Guest"
			}
		}

		room, participant, joinErr := registry.Join(roomID, inviteToken, battle.JoinRequest{
			ConnectionID:    connID,
			AccountUsername: username,
			SessionNonce:    sessionNonce,
			DisplayName:     displayName,
			ProfileImageURL: profileImageURL,
		})
		if joinErr != nil {
			log.Printf("[JOIN-ERROR] User %s rejected from room %s: %s", username, roomID, joinErr.Code)
			socketio_utils.EmitRejection(client, joinErr)
			return
		}

		client.Join(socket.Room(room.ID))

		// Persist the guest session so a dropped guest can rebind within
		// the grace window
		if username == "" {
			session := &redis_models.GuestSession{
				Nonce:         sessionNonce,
				RoomID:        room.ID,
				ParticipantID: participant.ID,
				DisplayName:   displayName,
				IssuedAt:      time.Now(),
			}
			if err := redisClient.SaveGuestSession(session, 2*battle_constants.ReconnectGrace); err != nil {
				log.Printf("[JOIN-WARN] Could not save guest session: %v", err)
			}
		}

		log.Printf("[JOIN-SUCCESS] User %s joined room %s as participant %s", username, room.ID, participant.ID)
		client.Emit("room_joined", gin.H{
			"room_id":        room.ID,
			"participant_id": participant.ID,
			"session_nonce":  sessionNonce,
			"state":          room.StatePayload(),
		})
	}
}

package battle

import (
	battle_constants "Quizrush/constants/battle"
	battle_models "Quizrush/models/battle"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
)

const roomIDCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
const roomIDLength = 6

// Registry owns the in-memory collection of rooms keyed by room id. Rooms
// never reference each other; the registry lock only guards the map and
// the connection index, never room internals.
type Registry struct {
	mu    sync.Mutex
	rooms map[string]*Room
	conns map[string]string // connection id -> room id

	tokens   TokenService
	notifier Notifier
	provider QuizProvider
	ledger   RewardLedger
	recorder ResultRecorder
}

func NewRegistry(tokens TokenService, notifier Notifier, provider QuizProvider,
	ledger RewardLedger, recorder ResultRecorder) *Registry {
	return &Registry{
		rooms:    make(map[string]*Room),
		conns:    make(map[string]string),
		tokens:   tokens,
		notifier: notifier,
		provider: provider,
		ledger:   ledger,
		recorder: recorder,
	}
}

// CreateRoom allocates a fresh room id, binds the invite token and inserts
// an empty waiting room. Retrying creation with the same token is
// idempotent: the token binding wins once and later calls get the
// original room back.
func (reg *Registry) CreateRoom(settings battle_models.RoomSettings, inviteToken string) (*Room, error) {
	if settings.MaxPlayers <= 0 || settings.MaxPlayers > battle_constants.MaxPlayersLimit {
		settings.MaxPlayers = battle_constants.DefaultMaxPlayers
	}
	if settings.TimeLimitType == "" {
		settings.TimeLimitType = battle_constants.TimeLimitRecommended
	}
	if inviteToken == "" {
		inviteToken = uuid.NewString()
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()

	roomID := reg.freshRoomIDLocked()
	if err := reg.tokens.BindToken(inviteToken, roomID); err != nil {
		// Token already bound: a retry of an earlier create
		if existingID, resolveErr := reg.tokens.ResolveToken(inviteToken); resolveErr == nil {
			if room, ok := reg.rooms[existingID]; ok {
				log.Printf("[REGISTRY] Duplicate create for token %s, returning room %s", inviteToken, existingID)
				return room, nil
			}
		}
		return nil, err
	}

	room := newRoom(roomID, inviteToken, settings, reg.notifier, reg.provider, reg.ledger, reg.recorder)
	reg.rooms[roomID] = room
	log.Printf("[REGISTRY] Created room %s (field=%s, max=%d, tier=%s)",
		roomID, settings.Field, settings.MaxPlayers, settings.TimeLimitType)
	return room, nil
}

func (reg *Registry) freshRoomIDLocked() string {
	for {
		b := make([]byte, roomIDLength)
		for i := range b {
			b[i] = roomIDCharset[rand.Intn(len(roomIDCharset))]
		}
		id := string(b)
		if _, exists := reg.rooms[id]; !exists {
			return id
		}
	}
}

// Lookup returns the room for a room id.
func (reg *Registry) Lookup(roomID string) (*Room, bool) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	room, ok := reg.rooms[roomID]
	return room, ok
}

// ResolveJoin is the pre-connection join-eligibility check: it resolves an
// invite token and reports whether a join would currently be admitted,
// without mutating the room. The authoritative admission test still runs
// under the room lock at join time.
func (reg *Registry) ResolveJoin(inviteToken string) (roomID string, joinErr *RoomError) {
	id, err := reg.tokens.ResolveToken(inviteToken)
	if err != nil || id == "" {
		return "", ErrRoomNotFound
	}

	room, ok := reg.Lookup(id)
	if !ok {
		return "", ErrRoomNotFound
	}

	room.mu.Lock()
	defer room.mu.Unlock()
	if room.Status != battle_models.StatusWaiting {
		return id, ErrRoomNotJoinable
	}
	if len(room.Participants) >= room.Settings.MaxPlayers {
		return id, ErrRoomFull
	}
	return id, nil
}

// Join admits a connection into a room identified by room id or invite
// token. The capacity check runs inside Room.Join under the room lock, so
// two simultaneous joins at capacity N-1 cannot both succeed.
func (reg *Registry) Join(roomID, inviteToken string, req JoinRequest) (*Room, *battle_models.Participant, *RoomError) {
	if roomID == "" && inviteToken != "" {
		id, err := reg.tokens.ResolveToken(inviteToken)
		if err != nil || id == "" {
			return nil, nil, ErrRoomNotFound
		}
		roomID = id
	}

	room, ok := reg.Lookup(roomID)
	if !ok {
		return nil, nil, ErrRoomNotFound
	}

	participant, joinErr := room.Join(req)
	if joinErr != nil {
		return nil, nil, joinErr
	}

	reg.mu.Lock()
	reg.conns[req.ConnectionID] = roomID
	reg.mu.Unlock()
	return room, participant, nil
}

// RoomByConnection returns the room a connection is currently bound to.
func (reg *Registry) RoomByConnection(connID string) (*Room, bool) {
	reg.mu.Lock()
	roomID, ok := reg.conns[connID]
	reg.mu.Unlock()
	if !ok {
		return nil, false
	}
	return reg.Lookup(roomID)
}

// ReleaseConnection drops the connection index entry after a leave or a
// transport disconnect.
func (reg *Registry) ReleaseConnection(connID string) {
	reg.mu.Lock()
	delete(reg.conns, connID)
	reg.mu.Unlock()
}

// Evict removes a room, cancelling any scheduler state first so a dangling
// timer can never fire on a destroyed room.
func (reg *Registry) Evict(roomID string) {
	reg.mu.Lock()
	room, ok := reg.rooms[roomID]
	if !ok {
		reg.mu.Unlock()
		return
	}
	delete(reg.rooms, roomID)
	for conn, id := range reg.conns {
		if id == roomID {
			delete(reg.conns, conn)
		}
	}
	reg.mu.Unlock()

	room.CancelTimers()
	if err := reg.tokens.ReleaseToken(room.InviteToken); err != nil {
		log.Printf("[REGISTRY-EVICT-ERROR] Error releasing token for room %s: %v", roomID, err)
	}
	if nonces := room.GuestNonces(); len(nonces) > 0 {
		if err := reg.tokens.ReleaseGuestSessions(nonces); err != nil {
			log.Printf("[REGISTRY-EVICT-ERROR] Error releasing guest sessions for room %s: %v", roomID, err)
		}
	}
	log.Printf("[REGISTRY-EVICT] Room %s evicted", roomID)
}

// StartSweeper runs the idle-eviction loop: rooms left empty past the
// creation grace with no pending timer, plus finished rooms past the
// restart window, are removed. Runs independently of command processing.
func (reg *Registry) StartSweeper(interval time.Duration, stop <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				reg.sweep()
			}
		}
	}()
}

func (reg *Registry) sweep() {
	reg.mu.Lock()
	candidates := make([]*Room, 0, len(reg.rooms))
	for _, room := range reg.rooms {
		candidates = append(candidates, room)
	}
	reg.mu.Unlock()

	for _, room := range candidates {
		if reg.evictable(room) {
			reg.Evict(room.ID)
		}
	}
}

func (reg *Registry) evictable(room *Room) bool {
	room.mu.Lock()
	defer room.mu.Unlock()

	if len(room.Participants) == 0 && room.timer == nil &&
		time.Since(room.CreatedAt) > battle_constants.EmptyRoomGrace {
		return true
	}
	if room.Status == battle_models.StatusFinished &&
		time.Since(room.FinishedAt) > battle_constants.RestartWindow {
		return true
	}
	if room.Status == battle_models.StatusInvalid && room.timer == nil {
		for _, p := range room.Participants {
			if p.Connected {
				return false
			}
		}
		return true
	}
	return false
}

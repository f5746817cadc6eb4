package battle

import (
	battle_constants "Quizrush/constants/battle"
	battle_models "Quizrush/models/battle"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// Room holds the authoritative state of one battle session. Every mutation
// goes through its mutex, so at most one command (or timer firing) is
// applied to a room at a time. Distinct rooms are fully independent.
type Room struct {
	mu sync.Mutex

	ID          string
	InviteToken string
	HostID      string
	Status      battle_models.RoomStatus
	Settings    battle_models.RoomSettings
	CreatedAt   time.Time
	FinishedAt  time.Time

	// Participants keyed by participant id, plus the two lookup indexes:
	// transient connection id -> participant, durable identity -> participant.
	Participants map[string]*battle_models.Participant
	identityIdx  map[string]string
	conns        map[string]string

	// GameNumber counts the games played in this room, starting at 1 and
	// incremented on every restart. Persistence keys include it so results
	// of a restarted room never collide with the previous game's.
	GameNumber int

	Quizzes          []battle_models.Quiz
	CurrentQuizIndex int
	PhaseEndsAt      time.Time

	// resultHold marks the interval between a quiz resolving and the next
	// one starting. Status stays in_progress during it, but submissions
	// for the resolved quiz are no longer accepted.
	resultHold bool

	submissions    map[string]map[uint]*battle_models.AnswerSubmission
	rewards        []battle_models.Reward
	rewardsGranted bool

	// Exactly one pending timer per room. phaseGen is captured at schedule
	// time so a stale firing after the room moved on is a no-op.
	phaseGen uint64
	timer    *time.Timer

	notifier Notifier
	provider QuizProvider
	ledger   RewardLedger
	recorder ResultRecorder
}

// JoinRequest carries the identity a client presented when joining.
type JoinRequest struct {
	ConnectionID    string
	AccountUsername string
	SessionNonce    string
	DisplayName     string
	ProfileImageURL string
}

func newRoom(id, token string, settings battle_models.RoomSettings,
	notifier Notifier, provider QuizProvider, ledger RewardLedger, recorder ResultRecorder) *Room {
	return &Room{
		ID:           id,
		InviteToken:  token,
		Status:       battle_models.StatusWaiting,
		Settings:     settings,
		CreatedAt:    time.Now(),
		GameNumber:   1,
		Participants: make(map[string]*battle_models.Participant),
		identityIdx:  make(map[string]string),
		conns:        make(map[string]string),
		submissions:  make(map[string]map[uint]*battle_models.AnswerSubmission),
		notifier:     notifier,
		provider:     provider,
		ledger:       ledger,
		recorder:     recorder,
	}
}

// Join admits a new participant, or rebinds a reconnecting one to its
// existing record when the presented identity matches a participant that
// left within the reconnection grace window.
func (r *Room) Join(req JoinRequest) (*battle_models.Participant, *RoomError) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Reconnection path: same durable identity, record still present
	key := identityKey(req.AccountUsername, req.SessionNonce)
	if pid, ok := r.identityIdx[key]; ok {
		if p, exists := r.Participants[pid]; exists {
			return r.rebindLocked(p, req.ConnectionID)
		}
	}

	if r.Status != battle_models.StatusWaiting {
		return nil, ErrRoomNotJoinable
	}
	if len(r.Participants) >= r.Settings.MaxPlayers {
		return nil, ErrRoomFull
	}

	p := &battle_models.Participant{
		ID:              req.ConnectionID,
		AccountUsername: req.AccountUsername,
		SessionNonce:    req.SessionNonce,
		DisplayName:     req.DisplayName,
		ProfileImageURL: req.ProfileImageURL,
		Connected:       true,
		JoinedAt:        time.Now(),
	}
	if len(r.Participants) == 0 {
		p.IsHost = true
		r.HostID = p.ID
	}

	r.Participants[p.ID] = p
	r.identityIdx[p.IdentityKey()] = p.ID
	r.conns[req.ConnectionID] = p.ID

	log.Printf("[ROOM-JOIN] Participant %s (%s) joined room %s (%d/%d)",
		p.ID, p.DisplayName, r.ID, len(r.Participants), r.Settings.MaxPlayers)

	r.broadcastParticipantsLocked()
	return p, nil
}

func (r *Room) rebindLocked(p *battle_models.Participant, connID string) (*battle_models.Participant, *RoomError) {
	if p.LeftAt != nil && time.Since(*p.LeftAt) > battle_constants.ReconnectGrace {
		return nil, ErrRoomNotJoinable
	}

	// Participant id stays stable for the session; only the transport
	// binding changes.
	r.conns[connID] = p.ID
	p.Connected = true
	p.LeftAt = nil

	log.Printf("[ROOM-REBIND] Participant %s rebound to connection %s in room %s", p.ID, connID, r.ID)

	r.broadcastParticipantsLocked()
	return p, nil
}

// Leave handles an explicit leave command. Unlike a transport disconnect,
// leaving mid-game removes the participant and can void the room.
func (r *Room) Leave(connID string) *RoomError {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.participantByConnLocked(connID)
	if !ok {
		return ErrInvalidState
	}
	r.removeParticipantLocked(p)

	if (r.Status == battle_models.StatusCountdown || r.Status == battle_models.StatusInProgress) &&
		len(r.Participants) < battle_constants.MinPlayersToStart {
		r.voidLocked()
		return nil
	}

	r.broadcastParticipantsLocked()
	return nil
}

// Disconnect handles transport loss. In waiting/countdown the participant
// is removed immediately; mid-game they are frozen: their missing answer
// counts against quorum but prior score is retained for the final ranking.
func (r *Room) Disconnect(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.participantByConnLocked(connID)
	if !ok {
		return
	}

	switch r.Status {
	case battle_models.StatusWaiting, battle_models.StatusCountdown:
		r.removeParticipantLocked(p)
		if r.Status == battle_models.StatusCountdown &&
			len(r.Participants) < battle_constants.MinPlayersToStart {
			r.voidLocked()
			return
		}
		r.broadcastParticipantsLocked()
	default:
		now := time.Now()
		p.Connected = false
		p.LeftAt = &now
		delete(r.conns, connID)
		log.Printf("[ROOM-FREEZE] Participant %s frozen in room %s (phase %s)", p.ID, r.ID, r.Status)
		r.broadcastParticipantsLocked()

		// The vanished participant no longer blocks the quorum
		if r.Status == battle_models.StatusInProgress {
			r.resolveQuizIfQuorumLocked()
		}
	}
}

func (r *Room) removeParticipantLocked(p *battle_models.Participant) {
	delete(r.Participants, p.ID)
	delete(r.identityIdx, p.IdentityKey())
	for conn, pid := range r.conns {
		if pid == p.ID {
			delete(r.conns, conn)
		}
	}
	log.Printf("[ROOM-LEAVE] Participant %s removed from room %s (%d left)", p.ID, r.ID, len(r.Participants))

	if p.IsHost {
		r.reassignHostLocked()
	}
}

// reassignHostLocked promotes the earliest-joined still-connected
// participant. Host is an explicit pointer, never inferred from ordering.
func (r *Room) reassignHostLocked() {
	r.HostID = ""
	var next *battle_models.Participant
	for _, c := range r.Participants {
		if !c.Connected {
			continue
		}
		if next == nil || c.JoinedAt.Before(next.JoinedAt) {
			next = c
		}
	}
	for _, c := range r.Participants {
		c.IsHost = false
	}
	if next != nil {
		next.IsHost = true
		r.HostID = next.ID
		log.Printf("[ROOM-HOST] Host of room %s reassigned to %s", r.ID, next.ID)
	}
}

func (r *Room) voidLocked() {
	log.Printf("[ROOM-VOID] Room %s below minimum participants, marking invalid", r.ID)
	r.cancelTimerLocked()
	r.Status = battle_models.StatusInvalid
	r.PhaseEndsAt = time.Time{}
	r.notifier.BroadcastToRoom(r.ID, "game_state", gin.H{
		"status": r.Status,
	})
}

func (r *Room) participantByConnLocked(connID string) (*battle_models.Participant, bool) {
	pid, ok := r.conns[connID]
	if !ok {
		return nil, false
	}
	p, ok := r.Participants[pid]
	return p, ok
}

func (r *Room) broadcastParticipantsLocked() {
	r.notifier.BroadcastToRoom(r.ID, "participants_updated", gin.H{
		"participants": r.rosterLocked(),
	})
}

// rosterLocked returns participants ordered by join time, oldest first.
func (r *Room) rosterLocked() []*battle_models.Participant {
	roster := make([]*battle_models.Participant, 0, len(r.Participants))
	for _, p := range r.Participants {
		roster = append(roster, p)
	}
	sortParticipantsByJoin(roster)
	return roster
}

// StatePayload builds a full snapshot so a client that missed broadcasts
// (e.g. reconnecting mid-phase) can resync without replaying history.
func (r *Room) StatePayload() gin.H {
	r.mu.Lock()
	defer r.mu.Unlock()

	payload := gin.H{
		"room_id":            r.ID,
		"status":             r.Status,
		"settings":           r.Settings,
		"participants":       r.rosterLocked(),
		"current_quiz_index": r.CurrentQuizIndex,
		"total_quizzes":      len(r.Quizzes),
		"server_time":        time.Now(),
	}
	if !r.PhaseEndsAt.IsZero() {
		payload["ends_at"] = r.PhaseEndsAt
	}
	if r.Status == battle_models.StatusInProgress && r.CurrentQuizIndex < len(r.Quizzes) {
		q := r.Quizzes[r.CurrentQuizIndex]
		payload["quiz"] = gin.H{
			"quiz_id":  q.ID,
			"question": q.Question,
			"choices":  q.Choices,
			"index":    r.CurrentQuizIndex,
			"total":    len(r.Quizzes),
		}
	}
	return payload
}

// HasParticipants reports whether any participant record remains.
func (r *Room) HasParticipants() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.Participants) > 0
}

// GuestNonces returns the session nonces of every guest participant
// still on the roster, so eviction can drop their stored sessions.
func (r *Room) GuestNonces() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var nonces []string
	for _, p := range r.Participants {
		if p.AccountUsername == "" && p.SessionNonce != "" {
			nonces = append(nonces, p.SessionNonce)
		}
	}
	return nonces
}

func identityKey(accountUsername, sessionNonce string) string {
	if accountUsername != "" {
		return "user:" + accountUsername
	}
	return "nonce:" + sessionNonce
}

func sortParticipantsByJoin(list []*battle_models.Participant) {
	sort.Slice(list, func(i, j int) bool {
		return list[i].JoinedAt.Before(list[j].JoinedAt)
	})
}

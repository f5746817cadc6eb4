package battle

import (
	battle_models "Quizrush/models/battle"

	"github.com/gin-gonic/gin"
)

// Notifier delivers engine-originated events to connected clients. The
// socket.io gateway implements it; tests plug in a recording fake.
type Notifier interface {
	BroadcastToRoom(roomID string, event string, payload gin.H)
	NotifyParticipant(connectionID string, event string, payload gin.H)
}

// QuizProvider returns the ordered quiz sequence (with authoritative
// answers) for a field/time-limit selection. Content authoring is outside
// the engine; the provider only reads.
type QuizProvider interface {
	QuizSequence(field string, timeLimitType string, count int) ([]battle_models.Quiz, error)
}

// RewardLedger durably credits reward amounts after a game finishes.
// Crediting is eventually consistent and retried outside the room lock;
// already-broadcast rankings are never rolled back.
type RewardLedger interface {
	CreditRewards(roomID string, gameNumber int, rewards []battle_models.Reward)
}

// ResultRecorder persists a snapshot of a finished battle.
type ResultRecorder interface {
	RecordFinishedBattle(snapshot battle_models.FinishedBattle)
}

// TokenService maps one-time invite tokens to room ids and owns the
// stored guest sessions tied to a room's lifetime.
type TokenService interface {
	BindToken(token string, roomID string) error
	ResolveToken(token string) (string, error)
	ReleaseToken(token string) error
	ReleaseGuestSessions(nonces []string) error
}

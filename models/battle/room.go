package battle

import "time"

// RoomStatus is the lifecycle phase of a battle room. It governs which
// commands are currently valid.
type RoomStatus string

const (
	StatusWaiting    RoomStatus = "waiting"
	StatusCountdown  RoomStatus = "countdown"
	StatusInProgress RoomStatus = "in_progress"
	StatusFinished   RoomStatus = "finished"
	StatusInvalid    RoomStatus = "invalid"
)

// RoomSettings are fixed at creation time by the host.
type RoomSettings struct {
	Field         string `json:"field"`
	MaxPlayers    int    `json:"max_players"`
	TimeLimitType string `json:"time_limit_type"`
}

// RankingEntry is one row of the final (or intermediate) ranking,
// sorted by score descending and joined-at ascending.
type RankingEntry struct {
	ParticipantID string `json:"participant_id"`
	DisplayName   string `json:"display_name"`
	Score         int    `json:"score"`
	Rank          int    `json:"rank"`
}

// Reward is the amount granted to one participant when the game finishes.
// The account username is carried for the durable ledger only.
type Reward struct {
	ParticipantID string `json:"participant_id"`
	Username      string `json:"-"`
	RewardType    string `json:"reward_type"`
	Amount        int    `json:"amount"`
}

// FinishedBattle is the snapshot handed to the persistence layer when a
// room reaches the finished phase.
type FinishedBattle struct {
	RoomID     string
	GameNumber int
	Field      string
	FinishedAt time.Time
	Results    []FinishedResult
}

type FinishedResult struct {
	ParticipantID string
	Username      string
	DisplayName   string
	Score         int
	Rank          int
}

// Quiz is one question of the authoritative sequence, including the
// correct answer index. The answer index is never sent to clients.
type Quiz struct {
	ID       uint     `json:"id"`
	Question string   `json:"question"`
	Choices  []string `json:"choices"`
	Answer   int      `json:"-"`
}

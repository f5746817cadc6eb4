package battle_constants

import "time"

const MinPlayersToStart = 2
const DefaultMaxPlayers = 4
const MaxPlayersLimit = 8
const QuizzesPerGame = 10

// Phase durations
const (
	CountdownDuration = 5 * time.Second
	ResultHold        = 3 * time.Second
	RestartWindow     = 60 * time.Second
	ReconnectGrace    = 30 * time.Second
	IdleSweepInterval = 30 * time.Second

	// A freshly created room stays empty until its creator opens the
	// socket connection; the sweep must not reclaim it before then.
	EmptyRoomGrace = 60 * time.Second
)

// Scoring. These are configuration, not invariants: the engine only
// assumes correct > 0 and wrong <= 0.
const (
	CorrectAnswerScore = 100
	WrongAnswerScore   = 0
	MaxSpeedBonus      = 100
)

// Reward amounts by final rank (1st, 2nd, 3rd, everyone else)
const (
	RewardTypeCoins = "coins"

	FirstPlaceReward   = 100
	SecondPlaceReward  = 60
	ThirdPlaceReward   = 40
	DefaultPlaceReward = 20
)

// Time-limit tiers selectable in room settings
const (
	TimeLimitFast        = "fast"
	TimeLimitRecommended = "recommended"
	TimeLimitRelaxed     = "relaxed"
)

// QuizDuration returns the per-quiz answer window for a time-limit tier.
func QuizDuration(timeLimitType string) time.Duration {
	switch timeLimitType {
	case TimeLimitFast:
		return 10 * time.Second
	case TimeLimitRelaxed:
		return 30 * time.Second
	default:
		return 20 * time.Second
	}
}

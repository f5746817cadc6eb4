package battle

import "time"

// AnswerSubmission records one scored answer. At most one submission is
// accepted per (participant, quiz); a duplicate returns the stored result.
type AnswerSubmission struct {
	ParticipantID string    `json:"participant_id"`
	QuizID        uint      `json:"quiz_id"`
	Answer        int       `json:"answer"`
	ReceivedAt    time.Time `json:"received_at"` // server receipt time, never client-reported
	IsCorrect     bool      `json:"is_correct"`
	ScoreDelta    int       `json:"score_delta"`
	TotalScore    int       `json:"total_score"`
}

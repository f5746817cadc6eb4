package battle

import (
	battle_constants "Quizrush/constants/battle"
	battle_models "Quizrush/models/battle"
	"log"
	"time"
)

// The scoring engine. Submissions are validated against the server receipt
// time and the authoritative phase-end timestamp; client-reported time is
// never trusted. Score mutation happens under the room lock, so no two
// submissions for the same room are ever applied concurrently.

// SubmitAnswer scores one answer for the active quiz. Resubmitting an
// already-answered quiz returns the stored result unchanged.
func (r *Room) SubmitAnswer(connID string, quizID uint, answer int) (*battle_models.AnswerSubmission, *RoomError) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.participantByConnLocked(connID)
	if !ok {
		return nil, ErrInvalidState
	}

	switch r.Status {
	case battle_models.StatusWaiting, battle_models.StatusCountdown:
		return nil, ErrGameNotStarted
	case battle_models.StatusInProgress:
	default:
		return nil, ErrInvalidState
	}

	// The active quiz already resolved; the room is showing its ranking
	// until the next quiz starts
	if r.resultHold {
		return nil, ErrInvalidState
	}
	if r.CurrentQuizIndex >= len(r.Quizzes) {
		return nil, ErrInvalidState
	}
	quiz := r.Quizzes[r.CurrentQuizIndex]
	if quiz.ID != quizID {
		return nil, ErrInvalidState
	}

	// Idempotence: duplicate submission is a no-op returning the original
	if prev, answered := r.submissions[p.ID][quizID]; answered {
		return prev, nil
	}

	receivedAt := time.Now()
	if receivedAt.After(r.PhaseEndsAt) {
		// The quiz timeout is about to resolve this phase anyway
		return nil, ErrInvalidState
	}

	duration := battle_constants.QuizDuration(r.Settings.TimeLimitType)
	correct := answer == quiz.Answer
	delta := scoreDelta(correct, r.PhaseEndsAt.Sub(receivedAt), duration)

	p.Score += delta
	sub := &battle_models.AnswerSubmission{
		ParticipantID: p.ID,
		QuizID:        quizID,
		Answer:        answer,
		ReceivedAt:    receivedAt,
		IsCorrect:     correct,
		ScoreDelta:    delta,
		TotalScore:    p.Score,
	}
	if r.submissions[p.ID] == nil {
		r.submissions[p.ID] = make(map[uint]*battle_models.AnswerSubmission)
	}
	r.submissions[p.ID][quizID] = sub

	log.Printf("[SCORE] Room %s participant %s quiz %d: correct=%v delta=%d total=%d",
		r.ID, p.ID, quizID, correct, delta, p.Score)

	r.resolveQuizIfQuorumLocked()
	return sub, nil
}

// scoreDelta computes the deterministic score change for one answer: a
// fixed base for a correct answer plus a speed bonus scaled linearly by
// the remaining-time fraction, and a non-positive amount when wrong.
func scoreDelta(correct bool, remaining, total time.Duration) int {
	if !correct {
		return battle_constants.WrongAnswerScore
	}
	if remaining < 0 {
		remaining = 0
	}
	if remaining > total {
		remaining = total
	}
	bonus := int(float64(battle_constants.MaxSpeedBonus) * remaining.Seconds() / total.Seconds())
	return battle_constants.CorrectAnswerScore + bonus
}

package battle

import (
	battle_constants "Quizrush/constants/battle"
	battle_models "Quizrush/models/battle"
	"log"
	"time"

	"github.com/gin-gonic/gin"
)

// The phase scheduler. A room owns at most one pending timer; scheduling
// cancels the previous one, and every schedule bumps the phase generation
// so a firing that raced with an early transition detects it is stale.

func (r *Room) scheduleLocked(d time.Duration, fn func()) {
	r.cancelTimerLocked()
	r.phaseGen++
	gen := r.phaseGen
	r.timer = time.AfterFunc(d, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		if r.phaseGen != gen {
			log.Printf("[SCHEDULER] Stale timer fired for room %s (gen %d != %d), ignoring", r.ID, gen, r.phaseGen)
			return
		}
		r.timer = nil
		fn()
	})
}

func (r *Room) cancelTimerLocked() {
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	r.phaseGen++
}

// HasPendingTimer reports whether a phase timer is currently scheduled.
// The eviction sweep must not destroy a room that still owns one.
func (r *Room) HasPendingTimer() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.timer != nil
}

// CancelTimers drops any pending scheduler state. Called before eviction
// so a dangling timer can never fire on a destroyed room.
func (r *Room) CancelTimers() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cancelTimerLocked()
}

// Start begins the countdown. Host-only, waiting-phase-only, and the room
// must hold at least the minimum participant count.
func (r *Room) Start(connID string) *RoomError {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.participantByConnLocked(connID)
	if !ok {
		return ErrInvalidState
	}
	if p.ID != r.HostID {
		return ErrNotHost
	}
	if r.Status != battle_models.StatusWaiting {
		return ErrGameAlreadyStarted
	}
	if len(r.Participants) < battle_constants.MinPlayersToStart {
		return ErrInvalidState
	}

	quizzes, err := r.provider.QuizSequence(r.Settings.Field, r.Settings.TimeLimitType,
		battle_constants.QuizzesPerGame)
	if err != nil || len(quizzes) == 0 {
		log.Printf("[ROOM-START-ERROR] Could not load quiz sequence for room %s: %v", r.ID, err)
		return ErrInvalidState
	}
	r.Quizzes = quizzes
	r.CurrentQuizIndex = 0
	r.Status = battle_models.StatusCountdown

	now := time.Now()
	r.PhaseEndsAt = now.Add(battle_constants.CountdownDuration)
	log.Printf("[ROOM-START] Room %s entering countdown with %d quizzes", r.ID, len(quizzes))

	r.notifier.BroadcastToRoom(r.ID, "game_state", gin.H{
		"status":             r.Status,
		"countdown_ends_at":  r.PhaseEndsAt,
		"server_time":        now,
		"current_quiz_index": 0,
		"total_quizzes":      len(r.Quizzes),
	})

	r.scheduleLocked(battle_constants.CountdownDuration, func() {
		r.beginQuizLocked(0)
	})
	return nil
}

// beginQuizLocked broadcasts quiz i with a fresh server-origin end
// timestamp and arms the per-quiz timeout.
func (r *Room) beginQuizLocked(i int) {
	r.Status = battle_models.StatusInProgress
	r.CurrentQuizIndex = i
	r.resultHold = false
	q := r.Quizzes[i]

	duration := battle_constants.QuizDuration(r.Settings.TimeLimitType)
	now := time.Now()
	r.PhaseEndsAt = now.Add(duration)

	log.Printf("[QUIZ-START] Room %s quiz %d/%d (id %d), ends at %s",
		r.ID, i+1, len(r.Quizzes), q.ID, r.PhaseEndsAt.Format(time.RFC3339))

	r.notifier.BroadcastToRoom(r.ID, "quiz_question", gin.H{
		"quiz_id":     q.ID,
		"question":    q.Question,
		"choices":     q.Choices,
		"index":       i,
		"total":       len(r.Quizzes),
		"ends_at":     r.PhaseEndsAt,
		"server_time": now,
	})

	r.scheduleLocked(duration, func() {
		log.Printf("[QUIZ-TIMEOUT] Room %s quiz %d resolved by timeout", r.ID, i)
		r.endQuizLocked()
	})
}

// resolveQuizIfQuorumLocked ends the active quiz early once every
// currently-connected participant has answered it. Frozen participants
// count toward quorum-not-met but never block past the timeout.
func (r *Room) resolveQuizIfQuorumLocked() {
	if r.Status != battle_models.StatusInProgress || r.resultHold ||
		r.CurrentQuizIndex >= len(r.Quizzes) {
		return
	}
	quizID := r.Quizzes[r.CurrentQuizIndex].ID
	for _, p := range r.Participants {
		if !p.Connected {
			continue
		}
		if _, answered := r.submissions[p.ID][quizID]; !answered {
			return
		}
	}
	log.Printf("[QUIZ-QUORUM] Room %s quiz %d resolved by full quorum", r.ID, r.CurrentQuizIndex)
	r.endQuizLocked()
}

// endQuizLocked enters the result phase: broadcast the intermediate
// ranking, hold for a fixed interval, then advance or finish. A quiz
// resolves exactly once; a second resolution attempt is a no-op.
func (r *Room) endQuizLocked() {
	if r.resultHold {
		return
	}
	r.resultHold = true

	now := time.Now()
	r.PhaseEndsAt = now.Add(battle_constants.ResultHold)

	r.notifier.BroadcastToRoom(r.ID, "rankings", gin.H{
		"rankings":    r.rankingsLocked(),
		"ends_at":     r.PhaseEndsAt,
		"server_time": now,
	})

	next := r.CurrentQuizIndex + 1
	r.scheduleLocked(battle_constants.ResultHold, func() {
		if next >= len(r.Quizzes) {
			r.finishLocked()
		} else {
			r.beginQuizLocked(next)
		}
	})
}

// finishLocked computes the final ranking and the reward distribution.
// Rewards are computed exactly once; crediting happens off the room lock.
func (r *Room) finishLocked() {
	r.Status = battle_models.StatusFinished
	r.FinishedAt = time.Now()
	r.CurrentQuizIndex = len(r.Quizzes)
	r.PhaseEndsAt = time.Time{}

	rankings := r.rankingsLocked()
	if !r.rewardsGranted {
		r.rewardsGranted = true
		r.rewards = ComputeRewards(rankings)
		for i := range r.rewards {
			if p, ok := r.Participants[r.rewards[i].ParticipantID]; ok {
				r.rewards[i].Username = p.AccountUsername
			}
		}

		if r.ledger != nil {
			rewards := r.rewards
			go r.ledger.CreditRewards(r.ID, r.GameNumber, rewards)
		}
		if r.recorder != nil {
			go r.recorder.RecordFinishedBattle(r.finishedSnapshotLocked(rankings))
		}
	}

	log.Printf("[ROOM-FINISH] Room %s finished, %d participants ranked", r.ID, len(rankings))

	r.notifier.BroadcastToRoom(r.ID, "game_finished", gin.H{
		"rankings": rankings,
		"rewards":  r.rewards,
	})
}

func (r *Room) finishedSnapshotLocked(rankings []battle_models.RankingEntry) battle_models.FinishedBattle {
	snapshot := battle_models.FinishedBattle{
		RoomID:     r.ID,
		GameNumber: r.GameNumber,
		Field:      r.Settings.Field,
		FinishedAt: r.FinishedAt,
		Results:    make([]battle_models.FinishedResult, len(rankings)),
	}
	for i, entry := range rankings {
		result := battle_models.FinishedResult{
			ParticipantID: entry.ParticipantID,
			DisplayName:   entry.DisplayName,
			Score:         entry.Score,
			Rank:          entry.Rank,
		}
		if p, ok := r.Participants[entry.ParticipantID]; ok {
			result.Username = p.AccountUsername
		}
		snapshot.Results[i] = result
	}
	return snapshot
}

// Restart returns a finished room to the waiting phase, preserving the
// roster but resetting scores and quiz progress. Only valid for the host
// and only within the restart window; a second restart after the phase
// already left finished is a no-op.
func (r *Room) Restart(connID string) *RoomError {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.participantByConnLocked(connID)
	if !ok {
		return ErrInvalidState
	}
	if p.ID != r.HostID {
		return ErrNotHost
	}
	if r.Status == battle_models.StatusWaiting {
		// Already restarted, duplicate command
		return nil
	}
	if r.Status != battle_models.StatusFinished {
		return ErrInvalidState
	}
	if time.Since(r.FinishedAt) > battle_constants.RestartWindow {
		return ErrInvalidState
	}

	r.cancelTimerLocked()
	r.Status = battle_models.StatusWaiting
	r.GameNumber++
	r.resultHold = false
	r.Quizzes = nil
	r.CurrentQuizIndex = 0
	r.PhaseEndsAt = time.Time{}
	r.FinishedAt = time.Time{}
	r.submissions = make(map[string]map[uint]*battle_models.AnswerSubmission)
	r.rewards = nil
	r.rewardsGranted = false

	// Purge frozen participants whose grace window has expired; connected
	// players keep their seats with a reset score.
	for _, c := range r.Participants {
		if !c.Connected {
			r.removeParticipantLocked(c)
			continue
		}
		c.Score = 0
	}
	if r.HostID == "" {
		r.reassignHostLocked()
	}

	log.Printf("[ROOM-RESTART] Room %s reset to waiting with %d participants", r.ID, len(r.Participants))

	r.notifier.BroadcastToRoom(r.ID, "game_state", gin.H{
		"status":             r.Status,
		"current_quiz_index": 0,
		"total_quizzes":      0,
		"server_time":        time.Now(),
	})
	r.broadcastParticipantsLocked()
	return nil
}

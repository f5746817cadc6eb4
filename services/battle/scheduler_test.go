package battle

import (
	battle_constants "Quizrush/constants/battle"
	battle_models "Quizrush/models/battle"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStartRequiresHost(t *testing.T) {
	room, _ := testRoom(4)
	joinGuest(t, room, "conn1")
	joinGuest(t, room, "conn2")

	err := room.Start("conn2")
	assert.Equal(t, ErrNotHost, err)
	assert.Equal(t, battle_models.StatusWaiting, room.Status)
}

func TestStartRequiresMinimumParticipants(t *testing.T) {
	room, _ := testRoom(4)
	joinGuest(t, room, "conn1")

	err := room.Start("conn1")
	assert.Equal(t, ErrInvalidState, err)
	assert.Equal(t, battle_models.StatusWaiting, room.Status)
}

func TestStartEntersCountdownWithServerStamps(t *testing.T) {
	room, notifier := testRoom(4)
	defer room.CancelTimers()
	joinGuest(t, room, "conn1")
	joinGuest(t, room, "conn2")

	err := room.Start("conn1")
	assert.Nil(t, err)
	assert.Equal(t, battle_models.StatusCountdown, room.Status)
	assert.True(t, room.HasPendingTimer())

	states := notifier.eventsNamed("game_state")
	assert.NotEmpty(t, states)
	countdown := states[len(states)-1]
	assert.Equal(t, battle_models.StatusCountdown, countdown.Payload["status"])
	assert.Contains(t, countdown.Payload, "countdown_ends_at")
	assert.Contains(t, countdown.Payload, "server_time")
}

func TestStartRejectedOnceStarted(t *testing.T) {
	room, _ := testRoom(4)
	defer room.CancelTimers()
	joinGuest(t, room, "conn1")
	joinGuest(t, room, "conn2")

	assert.Nil(t, room.Start("conn1"))
	err := room.Start("conn1")
	assert.Equal(t, ErrGameAlreadyStarted, err)
}

func TestStartFailsWithoutQuizSequence(t *testing.T) {
	room, _ := testRoom(4)
	room.provider = &fakeProvider{err: assert.AnError}
	joinGuest(t, room, "conn1")
	joinGuest(t, room, "conn2")

	err := room.Start("conn1")
	assert.Equal(t, ErrInvalidState, err)
	assert.Equal(t, battle_models.StatusWaiting, room.Status)
}

func TestStaleTimerFiringIsIgnored(t *testing.T) {
	room, _ := testRoom(4)
	fired := make(chan struct{}, 1)

	room.mu.Lock()
	room.scheduleLocked(20*time.Millisecond, func() {
		fired <- struct{}{}
	})
	// Bump the generation as an early transition would
	room.cancelTimerLocked()
	room.scheduleLocked(time.Hour, func() {})
	room.mu.Unlock()
	defer room.CancelTimers()

	select {
	case <-fired:
		t.Fatal("stale timer callback ran after cancellation")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestQuorumResolvesQuizEarly(t *testing.T) {
	room, notifier := testRoom(4)
	defer room.CancelTimers()
	joinGuest(t, room, "conn1")
	joinGuest(t, room, "conn2")

	room.mu.Lock()
	room.Status = battle_models.StatusInProgress
	room.Quizzes = []battle_models.Quiz{
		{ID: 1, Question: "q1", Choices: []string{"a", "b"}, Answer: 0},
		{ID: 2, Question: "q2", Choices: []string{"a", "b"}, Answer: 1},
	}
	room.CurrentQuizIndex = 0
	room.PhaseEndsAt = time.Now().Add(20 * time.Second)
	room.mu.Unlock()

	_, err := room.SubmitAnswer("conn1", 1, 0)
	assert.Nil(t, err)
	assert.Empty(t, notifier.eventsNamed("rankings"))

	_, err = room.SubmitAnswer("conn2", 1, 1)
	assert.Nil(t, err)

	// Both connected participants answered, the quiz resolves immediately
	rankings := notifier.eventsNamed("rankings")
	assert.Len(t, rankings, 1)
}

func TestDisconnectedParticipantDoesNotBlockQuorum(t *testing.T) {
	room, notifier := testRoom(4)
	defer room.CancelTimers()
	joinGuest(t, room, "conn1")
	joinGuest(t, room, "conn2")
	joinGuest(t, room, "conn3")

	room.mu.Lock()
	room.Status = battle_models.StatusInProgress
	room.Quizzes = []battle_models.Quiz{
		{ID: 1, Question: "q1", Choices: []string{"a", "b"}, Answer: 0},
		{ID: 2, Question: "q2", Choices: []string{"a", "b"}, Answer: 0},
	}
	room.CurrentQuizIndex = 0
	room.PhaseEndsAt = time.Now().Add(20 * time.Second)
	room.mu.Unlock()

	_, err := room.SubmitAnswer("conn1", 1, 0)
	assert.Nil(t, err)
	_, err = room.SubmitAnswer("conn2", 1, 0)
	assert.Nil(t, err)
	assert.Empty(t, notifier.eventsNamed("rankings"))

	// The third participant vanishing completes the quorum
	room.Disconnect("conn3")
	assert.Len(t, notifier.eventsNamed("rankings"), 1)
}

func TestFinishGrantsRewardsExactlyOnce(t *testing.T) {
	room, notifier := testRoom(4)
	ledger := newFakeLedger()
	recorder := newFakeRecorder()
	room.ledger = ledger
	room.recorder = recorder
	joinGuest(t, room, "conn1")
	p2 := joinGuest(t, room, "conn2")

	room.mu.Lock()
	room.Status = battle_models.StatusInProgress
	room.Quizzes = []battle_models.Quiz{{ID: 1, Question: "q", Choices: []string{"a"}, Answer: 0}}
	p2.Score = 300
	room.finishLocked()
	// A duplicate transition attempt must not double-grant
	room.finishLocked()
	room.mu.Unlock()

	assert.Equal(t, battle_models.StatusFinished, room.Status)

	select {
	case game := <-ledger.calls:
		assert.Equal(t, 1, game)
	case <-time.After(time.Second):
		t.Fatal("ledger was never called")
	}
	select {
	case <-ledger.calls:
		t.Fatal("ledger called twice for one game")
	case <-time.After(50 * time.Millisecond):
	}

	select {
	case snapshot := <-recorder.snapshots:
		assert.Equal(t, "room01", snapshot.RoomID)
		assert.Equal(t, 1, snapshot.GameNumber)
		assert.Len(t, snapshot.Results, 2)
		assert.Equal(t, p2.ID, snapshot.Results[0].ParticipantID)
		assert.Equal(t, 1, snapshot.Results[0].Rank)
	case <-time.After(time.Second):
		t.Fatal("recorder was never called")
	}

	finished := notifier.eventsNamed("game_finished")
	assert.Len(t, finished, 2)
	rewards, ok := finished[0].Payload["rewards"].([]battle_models.Reward)
	assert.True(t, ok)
	assert.Len(t, rewards, 2)
	assert.Greater(t, rewards[0].Amount, rewards[1].Amount)
}

func TestRestartResetsRoomForNextGame(t *testing.T) {
	room, _ := testRoom(4)
	host := joinGuest(t, room, "conn1")
	p2 := joinGuest(t, room, "conn2")
	p3 := joinGuest(t, room, "conn3")

	room.mu.Lock()
	room.Status = battle_models.StatusFinished
	room.FinishedAt = time.Now()
	room.Quizzes = []battle_models.Quiz{{ID: 1}}
	room.CurrentQuizIndex = 1
	room.rewardsGranted = true
	host.Score = 100
	p2.Score = 200
	// p3 dropped mid-game and never came back
	p3.Connected = false
	left := time.Now().Add(-time.Minute)
	p3.LeftAt = &left
	room.mu.Unlock()

	err := room.Restart("conn1")
	assert.Nil(t, err)

	assert.Equal(t, battle_models.StatusWaiting, room.Status)
	assert.Equal(t, 2, room.GameNumber)
	assert.Nil(t, room.Quizzes)
	assert.Equal(t, 0, room.CurrentQuizIndex)
	assert.False(t, room.rewardsGranted)
	assert.Equal(t, 0, host.Score)
	assert.Equal(t, 0, p2.Score)
	assert.NotContains(t, room.Participants, p3.ID)
}

func TestRestartOnlyForHostWithinWindow(t *testing.T) {
	room, _ := testRoom(4)
	joinGuest(t, room, "conn1")
	joinGuest(t, room, "conn2")

	room.mu.Lock()
	room.Status = battle_models.StatusFinished
	room.FinishedAt = time.Now().Add(-battle_constants.RestartWindow - time.Second)
	room.mu.Unlock()

	assert.Equal(t, ErrNotHost, room.Restart("conn2"))
	assert.Equal(t, ErrInvalidState, room.Restart("conn1"))
}

func TestRestartDuplicateIsNoop(t *testing.T) {
	room, _ := testRoom(4)
	joinGuest(t, room, "conn1")
	joinGuest(t, room, "conn2")

	room.mu.Lock()
	room.Status = battle_models.StatusFinished
	room.FinishedAt = time.Now()
	room.mu.Unlock()

	assert.Nil(t, room.Restart("conn1"))
	assert.Equal(t, 2, room.GameNumber)

	// Second restart arrives after the room already reset
	assert.Nil(t, room.Restart("conn1"))
	assert.Equal(t, 2, room.GameNumber)
}

package battle

import (
	battle_constants "Quizrush/constants/battle"
	battle_models "Quizrush/models/battle"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// fakeTokens mimics the Redis SETNX binding semantics in memory.
type fakeTokens struct {
	mu             sync.Mutex
	bindings       map[string]string
	releasedNonces []string
}

func newFakeTokens() *fakeTokens {
	return &fakeTokens{bindings: make(map[string]string)}
}

func (f *fakeTokens) BindToken(token, roomID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.bindings[token]; exists {
		return errors.New("invite token already bound")
	}
	f.bindings[token] = roomID
	return nil
}

func (f *fakeTokens) ResolveToken(token string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.bindings[token], nil
}

func (f *fakeTokens) ReleaseToken(token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.bindings, token)
	return nil
}

func (f *fakeTokens) ReleaseGuestSessions(nonces []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.releasedNonces = append(f.releasedNonces, nonces...)
	return nil
}

func testRegistry() (*Registry, *fakeTokens, *fakeNotifier) {
	tokens := newFakeTokens()
	notifier := &fakeNotifier{}
	reg := NewRegistry(tokens, notifier, &fakeProvider{}, newFakeLedger(), newFakeRecorder())
	return reg, tokens, notifier
}

func TestCreateRoomAppliesDefaults(t *testing.T) {
	reg, _, _ := testRegistry()

	room, err := reg.CreateRoom(battle_models.RoomSettings{Field: "science"}, "")
	assert.NoError(t, err)
	assert.Equal(t, battle_constants.DefaultMaxPlayers, room.Settings.MaxPlayers)
	assert.Equal(t, battle_constants.TimeLimitRecommended, room.Settings.TimeLimitType)
	assert.NotEmpty(t, room.InviteToken)
	assert.Len(t, room.ID, 6)
	assert.Equal(t, battle_models.StatusWaiting, room.Status)
}

func TestCreateRoomDuplicateTokenIsIdempotent(t *testing.T) {
	reg, _, _ := testRegistry()

	first, err := reg.CreateRoom(battle_models.RoomSettings{Field: "science"}, "tok-1")
	assert.NoError(t, err)

	// A client retry with the same token gets the original room back
	second, err := reg.CreateRoom(battle_models.RoomSettings{Field: "history"}, "tok-1")
	assert.NoError(t, err)
	assert.Same(t, first, second)
}

func TestResolveJoin(t *testing.T) {
	reg, _, _ := testRegistry()

	room, err := reg.CreateRoom(battle_models.RoomSettings{Field: "science", MaxPlayers: 2}, "tok-1")
	assert.NoError(t, err)

	t.Run("unknown token", func(t *testing.T) {
		_, joinErr := reg.ResolveJoin("missing")
		assert.Equal(t, ErrRoomNotFound, joinErr)
	})

	t.Run("joinable", func(t *testing.T) {
		roomID, joinErr := reg.ResolveJoin("tok-1")
		assert.Nil(t, joinErr)
		assert.Equal(t, room.ID, roomID)
	})

	t.Run("full", func(t *testing.T) {
		_, _, joinErr := reg.Join("", "tok-1", JoinRequest{ConnectionID: "c1", SessionNonce: "n1"})
		assert.Nil(t, joinErr)
		_, _, joinErr = reg.Join("", "tok-1", JoinRequest{ConnectionID: "c2", SessionNonce: "n2"})
		assert.Nil(t, joinErr)

		_, precheckErr := reg.ResolveJoin("tok-1")
		assert.Equal(t, ErrRoomFull, precheckErr)
	})

	t.Run("not joinable once started", func(t *testing.T) {
		defer room.CancelTimers()
		assert.Nil(t, room.Start("c1"))

		_, precheckErr := reg.ResolveJoin("tok-1")
		assert.Equal(t, ErrRoomNotJoinable, precheckErr)
	})
}

func TestJoinByTokenIndexesConnection(t *testing.T) {
	reg, _, _ := testRegistry()

	created, err := reg.CreateRoom(battle_models.RoomSettings{Field: "science"}, "tok-1")
	assert.NoError(t, err)

	room, participant, joinErr := reg.Join("", "tok-1", JoinRequest{
		ConnectionID: "c1",
		SessionNonce: "n1",
		DisplayName:  "Guest",
	})
	assert.Nil(t, joinErr)
	assert.Same(t, created, room)
	assert.True(t, participant.IsHost)

	indexed, ok := reg.RoomByConnection("c1")
	assert.True(t, ok)
	assert.Same(t, created, indexed)

	reg.ReleaseConnection("c1")
	_, ok = reg.RoomByConnection("c1")
	assert.False(t, ok)
}

func TestEvictReleasesTokenAndConnections(t *testing.T) {
	reg, tokens, _ := testRegistry()

	room, err := reg.CreateRoom(battle_models.RoomSettings{Field: "science"}, "tok-1")
	assert.NoError(t, err)
	_, _, joinErr := reg.Join("", "tok-1", JoinRequest{ConnectionID: "c1", SessionNonce: "n1"})
	assert.Nil(t, joinErr)

	reg.Evict(room.ID)

	_, ok := reg.Lookup(room.ID)
	assert.False(t, ok)
	_, ok = reg.RoomByConnection("c1")
	assert.False(t, ok)

	bound, _ := tokens.ResolveToken("tok-1")
	assert.Empty(t, bound)

	// The guest's stored session goes with the room
	assert.Equal(t, []string{"n1"}, tokens.releasedNonces)
}

func TestEvictableRules(t *testing.T) {
	reg, _, _ := testRegistry()

	t.Run("fresh empty room stays until the creation grace passes", func(t *testing.T) {
		room, _ := reg.CreateRoom(battle_models.RoomSettings{Field: "science"}, "tok-empty")

		// Created over HTTP a moment ago; the creator has not opened the
		// socket connection yet
		assert.False(t, reg.evictable(room))

		room.mu.Lock()
		room.CreatedAt = time.Now().Add(-battle_constants.EmptyRoomGrace - time.Second)
		room.mu.Unlock()
		assert.True(t, reg.evictable(room))
	})

	t.Run("occupied waiting room stays", func(t *testing.T) {
		room, _ := reg.CreateRoom(battle_models.RoomSettings{Field: "science"}, "tok-busy")
		_, _, joinErr := reg.Join("", "tok-busy", JoinRequest{ConnectionID: "c1", SessionNonce: "n1"})
		assert.Nil(t, joinErr)
		assert.False(t, reg.evictable(room))
	})

	t.Run("finished room past the restart window", func(t *testing.T) {
		room, _ := reg.CreateRoom(battle_models.RoomSettings{Field: "science"}, "tok-done")
		_, _, joinErr := reg.Join("", "tok-done", JoinRequest{ConnectionID: "c2", SessionNonce: "n2"})
		assert.Nil(t, joinErr)

		room.mu.Lock()
		room.Status = battle_models.StatusFinished
		room.FinishedAt = time.Now().Add(-battle_constants.RestartWindow - time.Second)
		room.mu.Unlock()
		assert.True(t, reg.evictable(room))
	})

	t.Run("voided room with a connected participant stays", func(t *testing.T) {
		room, _ := reg.CreateRoom(battle_models.RoomSettings{Field: "science"}, "tok-void")
		_, _, joinErr := reg.Join("", "tok-void", JoinRequest{ConnectionID: "c3", SessionNonce: "n3"})
		assert.Nil(t, joinErr)

		room.mu.Lock()
		room.Status = battle_models.StatusInvalid
		room.mu.Unlock()
		assert.False(t, reg.evictable(room))

		room.mu.Lock()
		for _, p := range room.Participants {
			p.Connected = false
		}
		room.mu.Unlock()
		assert.True(t, reg.evictable(room))
	})
}

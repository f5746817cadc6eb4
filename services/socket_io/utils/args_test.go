package socketio_utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringField(t *testing.T) {
	payload := map[string]interface{}{
		"room_id": "aB3xYz",
		"answer":  float64(2),
	}

	assert.Equal(t, "aB3xYz", StringField(payload, "room_id"))
	assert.Equal(t, "", StringField(payload, "missing"))
	assert.Equal(t, "", StringField(payload, "answer"))
}

func TestIntField(t *testing.T) {
	payload := map[string]interface{}{
		"answer":  float64(2),
		"quiz_id": 7,
		"name":    "bob",
	}

	// JSON numbers arrive as float64
	v, ok := IntField(payload, "answer")
	assert.True(t, ok)
	assert.Equal(t, 2, v)

	v, ok = IntField(payload, "quiz_id")
	assert.True(t, ok)
	assert.Equal(t, 7, v)

	_, ok = IntField(payload, "name")
	assert.False(t, ok)

	_, ok = IntField(payload, "missing")
	assert.False(t, ok)
}

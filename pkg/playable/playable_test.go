package playable

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSimpleLogMessage(t *testing.T) {
	before := time.Now()
	lm := SimpleLogMessage(0, "test %d", 5)
	assert.Equal(t, "test 5", lm.Message)
	assert.Nil(t, lm.PlayerIDs)
	assert.NotEmpty(t, lm.UUID)
	assert.False(t, lm.Time.Before(before))
}

func TestSimpleLogMessage_withPlayerID(t *testing.T) {
	lm := SimpleLogMessage(1, "test %d", 4)
	assert.Equal(t, "test 4", lm.Message)
	assert.Equal(t, []int64{1}, lm.PlayerIDs)
}

func TestResponses(t *testing.T) {
	a := assert.New(t)
	a.Equal(&Response{Key: KeyBroadcast, Value: "hi"}, BroadcastResponse("hi"))
	a.Equal(&Response{Key: KeyPrivate, Value: "psst"}, PrivateResponse("psst"))
	a.Equal(KeyError, ErrorResponse(assert.AnError).Key)
}

func TestIdentity(t *testing.T) {
	var p Player = Identity{ID: 4, Name: "ana"}
	assert.Equal(t, int64(4), p.GetPlayerID())
	assert.Equal(t, "ana", p.GetName())
}

func TestTimerScheduler(t *testing.T) {
	ran := make(chan bool, 1)
	cancel := TimerScheduler(time.Hour, func() { ran <- true })
	assert.True(t, cancel())

	TimerScheduler(time.Millisecond, func() { ran <- true })
	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Error("expected scheduled function to run")
	}
}

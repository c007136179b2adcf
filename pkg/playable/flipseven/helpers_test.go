package flipseven

import (
	"strings"
	"sync"
	"testing"
	"time"

	"flipseven-server/pkg/deck"
	"flipseven-server/pkg/playable"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

type message struct {
	playerID int64
	text     string
}

type recordingNotifier struct {
	mu       sync.Mutex
	messages []message
}

func (r *recordingNotifier) Broadcast(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, message{text: msg})
}

func (r *recordingNotifier) Private(playerID int64, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, message{playerID: playerID, text: msg})
}

// contains returns true if any message sent to playerID (0 for broadcast) contains the text
func (r *recordingNotifier) contains(playerID int64, text string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.messages {
		if m.playerID == playerID && strings.Contains(m.text, text) {
			return true
		}
	}

	return false
}

func (r *recordingNotifier) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = nil
}

type scheduledTask struct {
	delay     time.Duration
	fn        func()
	cancelled bool
}

type fakeScheduler struct {
	tasks []*scheduledTask
}

func (f *fakeScheduler) schedule(delay time.Duration, fn func()) func() bool {
	task := &scheduledTask{delay: delay, fn: fn}
	f.tasks = append(f.tasks, task)
	return func() bool {
		if task.cancelled {
			return false
		}

		task.cancelled = true
		return true
	}
}

// fire runs the most recent task, even if it was cancelled
func (f *fakeScheduler) fire() {
	f.tasks[len(f.tasks)-1].fn()
}

type fixedGenerator int

func (f fixedGenerator) Intn(n int) int {
	return int(f) % n
}

type testGame struct {
	*Game
	notifier  *recordingNotifier
	scheduler *fakeScheduler
}

func newTestGame(t *testing.T, names ...string) *testGame {
	t.Helper()

	players := make([]playable.Player, len(names))
	for i, name := range names {
		players[i] = playable.Identity{ID: int64(i + 1), Name: name}
	}

	notifier := &recordingNotifier{}
	scheduler := &fakeScheduler{}
	opts := DefaultOptions()
	opts.DrawDelay = 0

	g, err := NewGame(logrus.StandardLogger(), "test", players, notifier, opts)
	if !assert.NoError(t, err) {
		t.FailNow()
	}

	g.rng = fixedGenerator(0)
	g.schedule = scheduler.schedule
	g.sleep = func(time.Duration) {}

	return &testGame{Game: g, notifier: notifier, scheduler: scheduler}
}

// start begins the match and places cards on top of the deck
func (tg *testGame) start(t *testing.T, cards string) {
	t.Helper()
	assert.NoError(t, tg.StartMatch())
	tg.stack(cards)
}

// stack replaces the draw pile
func (tg *testGame) stack(cards string) {
	tg.deck.Cards = deck.CardsFromString(cards)
}

func (tg *testGame) send(t *testing.T, playerID int64, text string) {
	t.Helper()
	assert.NoError(t, tg.HandleMessage(playerID, text))
}

func (tg *testGame) p(playerID int64) *Participant {
	return tg.participants[playerID]
}

func hand(cards string) deck.Hand {
	return deck.CardsFromString(cards)
}

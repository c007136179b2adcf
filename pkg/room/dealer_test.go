package room

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"flipseven-server/pkg/playable"
	"flipseven-server/pkg/playable/flipseven"
	"flipseven-server/pkg/savegame"

	"github.com/stretchr/testify/assert"
)

type failingStore struct {
	savegame.Store
}

func (failingStore) Save(ctx context.Context, game *savegame.Game) error {
	return errors.New("disk full")
}

func testOptions() Options {
	opts := DefaultOptions()
	opts.Game.RestartDelay = time.Hour
	opts.Game.DrawDelay = 0
	return opts
}

func newTestDealer(t *testing.T, opts Options) *Dealer {
	d := NewDealer(nil, "lobby", opts)
	t.Cleanup(func() {
		if d.game != nil {
			d.game.Close()
		}

		if d.pending != nil {
			d.pending.cancel()
		}
	})

	return d
}

func join(d *Dealer, id int64, name string) *Client {
	c := NewClient(nil, playable.Identity{ID: id, Name: name}, d.Name())
	d.addClient(c)
	d.clientJoined(c)
	return c
}

// leave disconnects the client and runs the queued run loop work
func leave(d *Dealer, c *Client) {
	d.RemoveClient(c)
	runQueued(d)
}

func runQueued(d *Dealer) {
	for {
		select {
		case fn := <-d.execInRunLoop:
			fn()
		default:
			return
		}
	}
}

func received(c *Client) []*playable.Response {
	var out []*playable.Response
	for {
		select {
		case msg := <-c.send:
			out = append(out, msg.(*playable.Response))
		default:
			return out
		}
	}
}

// saw drains the client's buffer and reports whether every text was in some message
func saw(c *Client, texts ...string) bool {
	responses := received(c)
	for _, text := range texts {
		found := false
		for _, r := range responses {
			if strings.Contains(r.Value, text) {
				found = true
				break
			}
		}

		if !found {
			return false
		}
	}

	return true
}

func startedDealer(t *testing.T, opts Options) (*Dealer, *Client, *Client, *Client) {
	d := newTestDealer(t, opts)
	alice := join(d, 1, "alice")
	bob := join(d, 2, "bob")
	carol := join(d, 3, "carol")

	d.handleMessage(alice, "/ready")
	d.handleMessage(bob, "/ready")
	d.handleMessage(carol, "/ready")
	if !assert.NotNil(t, d.game) {
		t.FailNow()
	}

	received(alice)
	received(bob)
	received(carol)
	return d, alice, bob, carol
}

func TestDealer_AddClient(t *testing.T) {
	d := NewDealer(NewPitBoss(DefaultOptions()), "lobby", DefaultOptions())
	c := NewClient(nil, playable.Identity{ID: 1, Name: "alice"}, "lobby")
	c2 := NewClient(nil, playable.Identity{ID: 2, Name: "bob"}, "lobby")

	d.AddClient(c)
	d.AddClient(c2)
	assert.Equal(t, []*Client{c, c2}, d.Clients())

	assert.False(t, d.RemoveClient(c))
	assert.True(t, d.RemoveClient(c2))
}

func TestDealer_ReadyStartsMatch(t *testing.T) {
	a := assert.New(t)

	d := newTestDealer(t, testOptions())
	alice := join(d, 1, "alice")
	bob := join(d, 2, "bob")
	carol := join(d, 3, "carol")
	a.True(saw(alice, "carol joined the room"))

	d.handleMessage(alice, "/ready")
	a.True(saw(bob, "alice is ready (1/3)"))
	d.handleMessage(alice, "/ready")
	a.Empty(received(bob), "a repeated vote is ignored")

	d.handleMessage(carol, "/draw")
	a.True(saw(carol, "No match is running"))

	d.handleMessage(carol, "hello")
	a.True(saw(alice, "carol: hello"))

	d.handleMessage(bob, "/ready")
	a.Nil(d.game)
	d.handleMessage(carol, "/ready")
	a.NotNil(d.game)
	a.Empty(d.ready)
	a.Equal(flipseven.StateRoundActive, d.game.State())
	a.Equal([]playable.Player{alice.Player(), bob.Player(), carol.Player()}, d.game.Roster())
	a.True(saw(alice, "The match is starting with alice, bob, carol"))

	d.handleMessage(alice, "/ready")
	a.True(saw(alice, "A match is already in progress"))

	d.handleMessage(bob, "good luck")
	a.True(saw(carol, "bob: good luck"))
}

func TestDealer_Countdown(t *testing.T) {
	a := assert.New(t)

	opts := testOptions()
	opts.StartDelay = time.Hour
	d := newTestDealer(t, opts)
	alice := join(d, 1, "alice")
	bob := join(d, 2, "bob")
	carol := join(d, 3, "carol")

	d.handleMessage(alice, "/ready")
	d.handleMessage(bob, "/ready")
	d.handleMessage(carol, "/ready")
	a.Nil(d.game)
	a.NotNil(d.pending)
	a.True(saw(alice, "The match starts in 3600 seconds"))

	d.handleMessage(bob, "/unready")
	a.Nil(d.pending)
	a.True(saw(alice, "bob is no longer ready (2/3)"))
	a.True(saw(carol, "The countdown was cancelled"))
}

func TestDealer_Spectator(t *testing.T) {
	a := assert.New(t)

	d, alice, _, _ := startedDealer(t, testOptions())
	dave := join(d, 4, "dave")

	responses := received(dave)
	a.NotEmpty(responses)
	a.Equal(playable.KeyLog, responses[0].Key)
	a.True(saw(alice, "dave joined the room"))

	last := responses[len(responses)-1]
	a.Equal(playable.KeyPrivate, last.Key)
	a.Equal("A match is in progress. You can chat while you wait for the next one", last.Value)

	d.handleMessage(dave, "nice hand")
	a.True(saw(alice, "dave (watching): nice hand"))

	d.handleMessage(dave, "/draw")
	a.True(saw(dave, "You are watching this match"))

	d.handleMessage(dave, "/players")
	responses = received(dave)
	a.Len(responses, 1)
	a.Equal("Players in lobby:\n  alice (playing)\n  bob (playing)\n  carol (playing)\n  dave", responses[0].Value)
}

func TestDealer_Help(t *testing.T) {
	d := newTestDealer(t, testOptions())
	alice := join(d, 1, "alice")
	received(alice)

	d.handleMessage(alice, "/help")
	assert.True(t, saw(alice, "/use <name>"))
}

func TestDealer_SaveAndResume(t *testing.T) {
	a := assert.New(t)

	opts := testOptions()
	store := savegame.NewMemoryStore()
	opts.Store = store

	d, alice, bob, carol := startedDealer(t, opts)
	dave := join(d, 4, "dave")

	d.handleMessage(alice, "/save")
	a.True(saw(bob, "alice voted to save and end the match (1/3)"))
	d.handleMessage(bob, "/save")
	d.handleMessage(dave, "/save")
	a.True(saw(dave, "Only players in the match can vote to save it"))
	a.NotNil(d.game)

	d.handleMessage(carol, "/save")
	a.Nil(d.game)
	a.True(saw(alice, "The match was saved"))

	saved, err := store.Load(context.Background(), "lobby")
	a.NoError(err)
	a.Len(saved.Players, 3)
	a.Equal("alice", saved.Players[0].Name)

	d.handleMessage(alice, "/save")
	a.True(saw(alice, "There is no match to save"))

	// the next match in the room resumes the save and removes it
	d.handleMessage(alice, "/ready")
	d.handleMessage(bob, "/ready")
	d.handleMessage(carol, "/ready")
	a.NotNil(d.game)
	a.True(saw(alice, "Resuming the saved match"))

	_, err = store.Load(context.Background(), "lobby")
	a.Equal(savegame.ErrNotFound, err)
}

func TestDealer_SaveFailure(t *testing.T) {
	a := assert.New(t)

	opts := testOptions()
	opts.Store = failingStore{savegame.NewMemoryStore()}

	d, alice, bob, carol := startedDealer(t, opts)
	d.handleMessage(alice, "/save")
	d.handleMessage(bob, "/save")
	d.handleMessage(carol, "/save")

	a.NotNil(d.game)
	a.Empty(d.saveVotes)
	a.True(saw(alice, "Could not save the match: disk full. Play continues"))
}

func TestDealer_SaveDisabled(t *testing.T) {
	opts := testOptions()
	opts.Store = nil

	d, alice, _, _ := startedDealer(t, opts)
	d.handleMessage(alice, "/save")
	assert.True(t, saw(alice, "Saving is disabled"))
}

func TestDealer_DepartureCompletesSaveVote(t *testing.T) {
	a := assert.New(t)

	opts := testOptions()
	store := savegame.NewMemoryStore()
	opts.Store = store

	d, alice, bob, carol := startedDealer(t, opts)
	d.handleMessage(alice, "/save")
	d.handleMessage(bob, "/save")
	leave(d, carol)

	a.Nil(d.game)
	saved, err := store.Load(context.Background(), "lobby")
	a.NoError(err)
	a.Len(saved.Players, 2)
}

func TestDealer_LastPlayerStanding(t *testing.T) {
	a := assert.New(t)

	d, alice, bob, carol := startedDealer(t, testOptions())

	leave(d, bob)
	a.NotNil(d.game)
	a.Len(d.game.Roster(), 2)
	a.True(saw(alice, "bob left the room"))

	leave(d, carol)
	a.Nil(d.game)
	a.True(saw(alice, "alice wins the match", "Type /ready to play again"))
}

func TestDealer_SecondConnection(t *testing.T) {
	a := assert.New(t)

	d, alice, _, _ := startedDealer(t, testOptions())
	alice2 := join(d, 1, "alice")

	leave(d, alice2)
	a.Len(d.game.Roster(), 3, "alice is still connected")
	a.False(saw(alice, "alice left the room"))
}

func TestDealer_LogTail(t *testing.T) {
	a := assert.New(t)

	opts := testOptions()
	opts.LogTail = 2
	d := newTestDealer(t, opts)
	alice := join(d, 1, "alice")

	d.handleMessage(alice, "one")
	d.handleMessage(alice, "two")
	d.handleMessage(alice, "three")

	tail := d.logTail()
	a.Len(tail, 2)
	a.Equal("alice: two", tail[0].Message)
	a.Equal("alice: three", tail[1].Message)
	a.NotEmpty(tail[0].UUID)
}

func TestDealer_NameTakenWatches(t *testing.T) {
	a := assert.New(t)

	d := newTestDealer(t, testOptions())
	alice := join(d, 1, "alice")
	bob := join(d, 2, "bob")
	bob2 := join(d, 3, "Bob")
	carol := join(d, 4, "carol")

	a.True(saw(bob2, "Another player is already called Bob"))
	a.False(saw(bob, "Another player is already called"))

	d.handleMessage(alice, "/ready")
	d.handleMessage(bob, "/ready")
	d.handleMessage(carol, "/ready")
	if !a.NotNil(d.game) {
		return
	}

	names := make([]string, 0, 3)
	for _, p := range d.game.Roster() {
		names = append(names, p.GetName())
	}
	a.Equal([]string{"alice", "bob", "carol"}, names)

	received(bob2)
	d.handleMessage(bob2, "/draw")
	a.True(saw(bob2, "You are watching this match"))
}

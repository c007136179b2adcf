package flipseven

import (
	"testing"
	"time"

	"flipseven-server/pkg/deck"
	"flipseven-server/pkg/playable"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestNewGame(t *testing.T) {
	a := assert.New(t)

	players := []playable.Player{
		playable.Identity{ID: 1, Name: "alice"},
		playable.Identity{ID: 1, Name: "bob"},
	}

	g, err := NewGame(logrus.StandardLogger(), "test", players, &recordingNotifier{}, DefaultOptions())
	a.Nil(g)
	a.Equal(ErrDuplicatePlayer, err)

	players = []playable.Player{
		playable.Identity{ID: 1, Name: "alice"},
		playable.Identity{ID: 2, Name: "bob"},
		playable.Identity{ID: 3, Name: "Bob"},
	}

	g, err = NewGame(logrus.StandardLogger(), "test", players, &recordingNotifier{}, DefaultOptions())
	a.Nil(g)
	a.Equal(ErrDuplicateName, err)

	players = make([]playable.Player, 7)
	for i := range players {
		players[i] = playable.Identity{ID: int64(i + 1), Name: "p"}
	}

	g, err = NewGame(logrus.StandardLogger(), "test", players, &recordingNotifier{}, DefaultOptions())
	a.Nil(g)
	a.EqualError(err, "expected 2–6 players, got 7")

	tg := newTestGame(t, "alice", "bob")
	a.Equal("test", tg.Key())
	a.Equal("Flip Seven", tg.Name())
	a.Equal(StateNotStarted, tg.State())
	a.Len(tg.Roster(), 2)
}

func TestGame_StartMatch(t *testing.T) {
	a := assert.New(t)

	tg := newTestGame(t, "alice")
	a.Equal(PlayerCountError{Min: 2, Max: 6, Got: 1}, tg.StartMatch())

	tg = newTestGame(t, "alice", "bob")
	a.Equal(ErrNotStarted, tg.HandleMessage(1, "/draw"))

	tg.rng = fixedGenerator(1)
	a.NoError(tg.StartMatch())
	a.Equal(StateRoundActive, tg.State())
	a.Equal(int64(2), tg.currentTurn().PlayerID)
	a.Equal(tg.deck.Size(), tg.deck.CardsLeft())
	a.Len(tg.participants, 2)
	a.True(tg.notifier.contains(0, "It is bob's turn"))
	a.True(tg.notifier.contains(2, "Type /draw or /stay"))

	a.Equal(ErrAlreadyStarted, tg.StartMatch())
	a.Equal(ErrPlayerNotFound, tg.HandleMessage(99, "/draw"))
}

func TestGame_ChatAndScore(t *testing.T) {
	a := assert.New(t)

	tg := newTestGame(t, "alice", "bob")
	tg.start(t, "4")
	tg.p(1).addScore(12)
	tg.notifier.reset()

	tg.send(t, 2, "hello there")
	a.True(tg.notifier.contains(0, "bob: hello there"))

	tg.send(t, 2, "/score")
	a.True(tg.notifier.contains(2, "alice: 12"))
	a.True(tg.notifier.contains(2, "bob: 0"))

	tg.send(t, 2, "/draw")
	a.True(tg.notifier.contains(2, "It is not your turn. Wait for alice"))
	a.Equal(1, tg.deck.CardsLeft(), "nothing was drawn")

	tg.send(t, 1, "/dance")
	a.True(tg.notifier.contains(1, "Type /draw or /stay"))

	tg.send(t, 1, "/use bob")
	a.True(tg.notifier.contains(1, "You have no action card to use"))
	a.Equal(StateRoundActive, tg.State())
}

// one player draws 3, 5, 3 and busts
func TestGame_Bust(t *testing.T) {
	a := assert.New(t)

	tg := newTestGame(t, "alice", "bob")
	tg.start(t, "3,5,3")

	tg.send(t, 1, "/draw")
	a.Equal(int64(2), tg.currentTurn().PlayerID)
	tg.send(t, 2, "/stay")
	a.Equal(int64(1), tg.currentTurn().PlayerID)
	tg.send(t, 1, "/draw")
	a.Equal(int64(1), tg.currentTurn().PlayerID, "bob is finished so alice keeps drawing")
	a.Equal("3,5", tg.p(1).Hand().String())

	tg.send(t, 1, "/draw")
	a.True(tg.p(1).Busted())
	a.Empty(tg.p(1).Hand())
	a.True(tg.notifier.contains(0, "alice drew a second 3 and BUSTED"))

	a.Equal(StateRoundEnded, tg.State())
	a.Equal(0, tg.p(1).Score())
	a.Equal(0, tg.p(2).Score())
}

// a hand of six distinct ranks draws a seventh
func TestGame_SevenUnique(t *testing.T) {
	a := assert.New(t)

	tg := newTestGame(t, "alice", "bob")
	tg.start(t, "7,8")
	tg.p(1).hand = hand("1,2,3,4,5,6,x2,+10")

	tg.send(t, 1, "/draw")
	a.Equal(StateRoundEnded, tg.State())
	a.Equal(28*2+10+15, tg.p(1).Score())
	a.Equal(0, tg.p(2).Score())
	a.Equal(1, tg.deck.CardsLeft())
	a.True(tg.notifier.contains(0, "alice collected seven unique cards"))
}

// the round ends as soon as the last active participant finishes
func TestGame_RoundEndsWhenAllFinished(t *testing.T) {
	a := assert.New(t)

	tg := newTestGame(t, "alice", "bob", "carol")
	tg.start(t, "5,6")

	tg.send(t, 1, "/stay")
	tg.send(t, 2, "/stay")
	a.Equal(int64(3), tg.currentTurn().PlayerID)
	tg.send(t, 3, "/draw")
	a.Equal(int64(3), tg.currentTurn().PlayerID)
	a.Empty(tg.scheduler.tasks)

	tg.send(t, 3, "/stay")
	a.Equal(StateRoundEnded, tg.State())
	a.Equal(5, tg.p(3).Score())
	a.Len(tg.scheduler.tasks, 1)
	a.Equal(15*time.Second, tg.scheduler.tasks[0].delay)
	a.True(tg.notifier.contains(0, "carol: +5 (total 5)"))
	a.True(tg.notifier.contains(0, "The next round starts in 15 seconds"))

	tg.send(t, 1, "/draw")
	a.True(tg.notifier.contains(1, "The round has ended"))
	tg.send(t, 1, "gg")
	a.True(tg.notifier.contains(0, "alice: gg"))

	tg.scheduler.fire()
	a.Equal(StateRoundActive, tg.State())
	a.Equal(tg.deck.Size(), tg.deck.CardsLeft())
	for _, p := range tg.participants {
		a.False(p.IsFinished())
		a.Empty(p.Hand())
	}
	a.Equal(5, tg.p(3).Score())
}

func TestGame_StaleRestart(t *testing.T) {
	a := assert.New(t)

	tg := newTestGame(t, "alice", "bob")
	tg.start(t, "")
	tg.send(t, 1, "/stay")
	tg.send(t, 2, "/stay")
	a.Equal(StateRoundEnded, tg.State())

	tg.scheduler.fire()
	a.Equal(StateRoundActive, tg.State())

	tg.stack("4")
	tg.send(t, 1, "/draw")
	a.Equal("4", tg.p(1).Hand().String())

	// a second firing of the same task is ignored
	tg.scheduler.fire()
	a.Equal("4", tg.p(1).Hand().String())
	a.Equal(int64(2), tg.currentTurn().PlayerID)
}

func TestGame_CloseCancelsRestart(t *testing.T) {
	a := assert.New(t)

	tg := newTestGame(t, "alice", "bob")
	tg.start(t, "")
	tg.send(t, 1, "/stay")
	tg.send(t, 2, "/stay")

	tg.Close()
	a.True(tg.scheduler.tasks[0].cancelled)
	a.Equal(StateClosed, tg.State())

	tg.scheduler.fire()
	a.Equal(StateClosed, tg.State())
	a.Equal(ErrSessionClosed, tg.HandleMessage(1, "/draw"))
	a.Equal(ErrSessionClosed, tg.RemovePlayer(1))
	a.Equal(ErrSessionClosed, tg.StartMatch())
}

func TestGame_MatchWinner(t *testing.T) {
	a := assert.New(t)

	tg := newTestGame(t, "alice", "bob", "carol")
	tg.start(t, "")
	tg.p(1).addScore(190)
	tg.p(1).hand = hand("5,6")
	tg.p(2).addScore(195)
	tg.p(2).hand = hand("12")

	tg.send(t, 1, "/stay")
	tg.send(t, 2, "/stay")
	tg.send(t, 3, "/stay")

	a.Equal(StateMatchEnded, tg.State())
	a.True(tg.IsMatchOver())
	a.Equal("bob", tg.Winner().Name)
	a.Equal(207, tg.Winner().Score())
	a.Empty(tg.scheduler.tasks)
	a.True(tg.notifier.contains(0, "bob wins the match with 207 points!"))

	tg.send(t, 1, "/draw")
	a.True(tg.notifier.contains(1, "The match is over"))

	a.NoError(tg.StartMatch(), "a finished match can be restarted")
	a.Equal(0, tg.p(2).Score())
}

func TestGame_DeckExhausted(t *testing.T) {
	a := assert.New(t)

	tg := newTestGame(t, "alice", "bob")
	a.NoError(tg.StartMatch())
	tg.deck = deck.NewWithComposition(deck.Composition{})

	tg.send(t, 1, "/draw")
	a.Equal(StateRoundEnded, tg.State())
	a.True(tg.notifier.contains(0, "The deck ran out and was reshuffled"))
	a.True(tg.notifier.contains(0, "The deck is empty even after a reshuffle"))
}

func TestGame_DeckReshuffle(t *testing.T) {
	a := assert.New(t)

	tg := newTestGame(t, "alice", "bob")
	tg.start(t, "")
	tg.deck.SetGenerator(fixedGenerator(0))

	tg.send(t, 1, "/draw")
	a.Len(tg.p(1).Hand(), 1)
	a.Equal(tg.deck.Size()-1, tg.deck.CardsLeft())
	a.True(tg.notifier.contains(0, "The deck ran out and was reshuffled"))
}

func TestGame_SecondChanceKept(t *testing.T) {
	a := assert.New(t)

	tg := newTestGame(t, "alice", "bob")
	tg.start(t, "Second Chance,4,4")

	tg.send(t, 1, "/draw")
	a.True(tg.p(1).HasExtraLife())
	a.Equal(int64(1), tg.currentTurn().PlayerID, "the turn continues")
	a.Equal(StateRoundActive, tg.State())

	tg.send(t, 1, "/draw")
	a.Equal(int64(2), tg.currentTurn().PlayerID)
	tg.send(t, 2, "/stay")

	tg.send(t, 1, "/draw")
	a.False(tg.p(1).Busted())
	a.False(tg.p(1).HasExtraLife())
	a.Equal("4,4", tg.p(1).Hand().String())
	a.True(tg.notifier.contains(0, "used their Second Chance"))
}

func TestGame_SecondChanceGiven(t *testing.T) {
	a := assert.New(t)

	tg := newTestGame(t, "alice", "bob", "carol")
	tg.start(t, "Second Chance")
	tg.p(1).setExtraLife(true)
	tg.p(3).Stay()

	tg.send(t, 1, "/draw")
	a.Equal(StateAwaitingTarget, tg.State())
	a.True(tg.notifier.contains(1, "Choose a target for Second Chance: bob"))

	tg.send(t, 1, "/use alice")
	a.True(tg.notifier.contains(1, "you cannot give a Second Chance to yourself"))
	tg.send(t, 1, "/use carol")
	a.True(tg.notifier.contains(1, "carol is already finished this round"))
	tg.send(t, 1, "/use zed")
	a.True(tg.notifier.contains(1, "There is no player named zed"))
	tg.send(t, 1, "/stay")
	a.Equal(StateAwaitingTarget, tg.State())
	a.False(tg.p(1).Stayed())

	tg.send(t, 2, "/use bob")
	a.True(tg.notifier.contains(2, "Wait for alice to choose a target"))
	a.False(tg.p(2).HasExtraLife())

	tg.send(t, 1, "/use BOB")
	a.True(tg.p(2).HasExtraLife())
	a.Equal(StateRoundActive, tg.State())
	a.Equal(int64(2), tg.currentTurn().PlayerID, "using an action ends the turn")
}

func TestGame_ActionDiscardedWithoutTargets(t *testing.T) {
	a := assert.New(t)

	tg := newTestGame(t, "alice", "bob")
	tg.start(t, "Second Chance")
	tg.p(1).setExtraLife(true)
	tg.p(2).setExtraLife(true)

	tg.send(t, 1, "/draw")
	a.Equal(StateRoundActive, tg.State())
	a.Equal(int64(1), tg.currentTurn().PlayerID)
	a.True(tg.notifier.contains(0, "alice has no one to use Second Chance on"))
}

func TestGame_FreezeSelf(t *testing.T) {
	a := assert.New(t)

	tg := newTestGame(t, "alice", "bob")
	tg.start(t, "Freeze")
	tg.p(1).hand = hand("10")

	tg.send(t, 1, "/draw")
	a.True(tg.notifier.contains(1, "Choose a target for Freeze: alice, bob"))

	tg.send(t, 1, "/use alice")
	a.True(tg.p(1).Frozen())
	a.True(tg.p(1).Stayed())
	a.Equal(int64(2), tg.currentTurn().PlayerID)
	a.True(tg.notifier.contains(0, "alice used Freeze on themselves"))

	tg.send(t, 2, "/stay")
	a.Equal(StateRoundEnded, tg.State())
	a.Equal(10, tg.p(1).Score())
}

func TestGame_ParticipantIsACopy(t *testing.T) {
	a := assert.New(t)

	tg := newTestGame(t, "alice", "bob")
	tg.start(t, "4")
	tg.send(t, 1, "/draw")

	alice := tg.Participant(1)
	a.Equal("4", alice.Hand().String())

	alice.setExtraLife(true)
	alice.addScore(50)
	alice.hand[0] = deck.NumberCard(9)
	a.False(tg.p(1).HasExtraLife())
	a.Equal(0, tg.p(1).Score())
	a.Equal("4", tg.p(1).Hand().String())

	a.Nil(tg.Participant(99))
	a.Nil(tg.Winner())
}

package flipseven

import (
	"testing"

	"flipseven-server/pkg/deck"
	"flipseven-server/pkg/playable"

	"github.com/stretchr/testify/assert"
)

func newParticipant() *Participant {
	return NewParticipant(playable.Identity{ID: 1, Name: "alice"})
}

func TestParticipant_AttemptDraw(t *testing.T) {
	a := assert.New(t)

	p := newParticipant()
	a.Equal(int64(1), p.PlayerID)
	a.Equal("alice", p.Name)

	a.Equal(DrawAccepted, p.AttemptDraw(deck.CardFromString("3")))
	a.Equal(DrawAccepted, p.AttemptDraw(deck.CardFromString("5")))
	a.Equal(DrawAccepted, p.AttemptDraw(deck.CardFromString("x2")))
	a.Equal(DrawAccepted, p.AttemptDraw(deck.CardFromString("x2")), "bonus cards never bust")
	a.Equal("3,5,x2,x2", p.Hand().String())

	a.Equal(DrawBusted, p.AttemptDraw(deck.CardFromString("3")))
	a.True(p.Busted())
	a.True(p.Stayed())
	a.True(p.IsFinished())
	a.Empty(p.Hand())

	a.Equal(DrawRejected, p.AttemptDraw(deck.CardFromString("7")))
	a.Empty(p.Hand())
}

func TestParticipant_ExtraLife(t *testing.T) {
	a := assert.New(t)

	p := newParticipant()
	p.setExtraLife(true)
	a.Equal(DrawAccepted, p.AttemptDraw(deck.CardFromString("4")))
	a.Equal(DrawSaved, p.AttemptDraw(deck.CardFromString("4")))
	a.False(p.HasExtraLife())
	a.False(p.Busted())
	a.Equal("4,4", p.Hand().String())

	a.Equal(DrawBusted, p.AttemptDraw(deck.CardFromString("4")))
}

func TestParticipant_StayAndFreeze(t *testing.T) {
	a := assert.New(t)

	p := newParticipant()
	p.Stay()
	a.True(p.Stayed())
	p.Stay()
	a.True(p.Stayed())
	a.Equal(DrawRejected, p.AttemptDraw(deck.CardFromString("1")))

	p = newParticipant()
	p.Freeze()
	a.True(p.Frozen())
	a.True(p.Stayed())
	a.True(p.IsFinished())
}

func TestParticipant_ResetForRound(t *testing.T) {
	a := assert.New(t)

	p := newParticipant()
	p.AttemptDraw(deck.CardFromString("2"))
	p.Freeze()
	p.setExtraLife(true)
	p.addScore(40)

	p.ResetForRound()
	a.Empty(p.Hand())
	a.False(p.Busted())
	a.False(p.Stayed())
	a.False(p.Frozen())
	a.True(p.HasExtraLife())
	a.Equal(40, p.Score())
}

func TestDrawResult_OK(t *testing.T) {
	assert.True(t, DrawAccepted.OK())
	assert.True(t, DrawSaved.OK())
	assert.False(t, DrawBusted.OK())
	assert.False(t, DrawRejected.OK())
}

package flipseven

import (
	"fmt"
	"math"
	"strings"
	"time"

	"flipseven-server/pkg/deck"
	"flipseven-server/pkg/playable"
)

// view renders session events as player-visible text
type view struct {
	out playable.Notifier
}

func (v *view) broadcast(format string, a ...interface{}) {
	v.out.Broadcast(fmt.Sprintf(format, a...))
}

func (v *view) private(playerID int64, format string, a ...interface{}) {
	v.out.Private(playerID, fmt.Sprintf(format, a...))
}

func handString(hand deck.Hand) string {
	if len(hand) == 0 {
		return "(empty)"
	}

	return strings.Join(strings.Split(hand.String(), ","), ", ")
}

func (v *view) chat(sender *Participant, text string) {
	v.broadcast("%s: %s", sender.Name, text)
}

func (v *view) scoreReport(playerID int64, participants []*Participant) {
	lines := make([]string, 0, len(participants)+1)
	lines = append(lines, "Scores:")
	for _, p := range participants {
		lines = append(lines, fmt.Sprintf("  %s: %d", p.Name, p.Score()))
	}

	v.private(playerID, "%s", strings.Join(lines, "\n"))
}

func (v *view) matchStarted(participants []*Participant) {
	names := make([]string, len(participants))
	for i, p := range participants {
		names[i] = p.Name
	}

	v.broadcast("The match is starting with %s", strings.Join(names, ", "))
}

func (v *view) matchResumed(participants []*Participant) {
	v.broadcast("Resuming the saved match")
	v.scoreBoard(participants)
}

func (v *view) scoreBoard(participants []*Participant) {
	for _, p := range participants {
		v.broadcast("%s has %d points", p.Name, p.Score())
	}
}

func (v *view) roundStarted() {
	v.broadcast("A new round begins")
}

func (v *view) turn(p *Participant) {
	v.broadcast(">>> It is %s's turn <<<", p.Name)
	v.private(p.PlayerID, "Your hand: %s", handString(p.hand))
	v.private(p.PlayerID, "It is your turn. Type /draw or /stay")
}

func (v *view) betweenRounds(playerID int64) {
	v.private(playerID, "The round has ended. Wait for the next one to begin")
}

func (v *view) matchOver(playerID int64) {
	v.private(playerID, "The match is over")
}

func (v *view) notYourTurn(playerID int64, current *Participant) {
	v.private(playerID, "It is not your turn. Wait for %s", current.Name)
}

func (v *view) waitForTarget(playerID int64, owner *Participant) {
	name := "another player"
	if owner != nil {
		name = owner.Name
	}

	v.private(playerID, "Wait for %s to choose a target", name)
}

func (v *view) nothingToUse(playerID int64) {
	v.private(playerID, "You have no action card to use")
}

func (v *view) drawOrStay(playerID int64) {
	v.private(playerID, "Type /draw or /stay")
}

func (v *view) drew(p *Participant, card *deck.Card) {
	v.broadcast("%s drew %s", p.Name, card)
}

func (v *view) reshuffled() {
	v.broadcast("The deck ran out and was reshuffled")
}

func (v *view) deckExhausted() {
	v.broadcast("The deck is empty even after a reshuffle. Ending the round")
}

func (v *view) busted(p *Participant, card *deck.Card) {
	v.broadcast("%s drew a second %s and BUSTED", p.Name, card)
}

func (v *view) extraLifeUsed(p *Participant, card *deck.Card) {
	v.broadcast("%s drew a second %s but used their Second Chance to survive", p.Name, card)
}

func (v *view) sevenUnique(p *Participant) {
	v.broadcast("%s collected seven unique cards! The round ends now", p.Name)
}

func (v *view) hand(p *Participant) {
	v.private(p.PlayerID, "Your hand: %s (%d points)", handString(p.hand), Score(p.hand))
}

func (v *view) stayed(p *Participant, points int) {
	v.broadcast("%s stays with %d points", p.Name, points)
}

func (v *view) keptSecondChance(p *Participant) {
	v.broadcast("%s keeps a Second Chance", p.Name)
}

func (v *view) discarded(p *Participant, card *deck.Card) {
	v.broadcast("%s has no one to use %s on. The card is discarded", p.Name, card)
}

func (v *view) chooseTarget(owner *Participant, card *deck.Card, targets []*Participant) {
	names := make([]string, len(targets))
	for i, t := range targets {
		names[i] = t.Name
	}

	v.broadcast("%s is choosing who gets %s", owner.Name, card)
	v.private(owner.PlayerID, "Choose a target for %s: %s", card, strings.Join(names, ", "))
	v.private(owner.PlayerID, "Type /use <name>")
}

func (v *view) targetNotFound(playerID int64, name string) {
	v.private(playerID, "There is no player named %s", name)
}

func (v *view) targetRejected(playerID int64, reason string) {
	v.private(playerID, "You cannot choose that target: %s", reason)
}

func (v *view) actionUsed(owner *Participant, card *deck.Card, target *Participant) {
	if owner.PlayerID == target.PlayerID {
		v.broadcast("%s used %s on themselves", owner.Name, card)
		return
	}

	v.broadcast("%s used %s on %s", owner.Name, card, target.Name)
}

func (v *view) forcedSequenceStarted(victim *Participant, draws int) {
	v.broadcast("%s must draw %d cards", victim.Name, draws)
}

func (v *view) forcedCard(victim *Participant, card *deck.Card, n int) {
	v.broadcast("Card %d for %s: %s", n, victim.Name, card)
}

func (v *view) deferred(victim *Participant, card *deck.Card) {
	v.broadcast("%s will resolve %s after the draws", victim.Name, card)
}

func (v *view) roundResults(results []roundResult) {
	lines := make([]string, 0, len(results)+1)
	lines = append(lines, "Round over:")
	for _, r := range results {
		lines = append(lines, fmt.Sprintf("  %s: +%d (total %d)", r.participant.Name, r.points, r.participant.Score()))
	}

	v.broadcast("%s", strings.Join(lines, "\n"))
}

func (v *view) matchWinner(p *Participant) {
	v.broadcast("%s wins the match with %d points!", p.Name, p.Score())
}

func (v *view) nextRoundIn(delay time.Duration) {
	v.broadcast("The next round starts in %d seconds", int(math.Round(delay.Seconds())))
}

func (v *view) left(name string) {
	v.broadcast("%s left the match", name)
}

func (v *view) turnPassed(name string) {
	v.broadcast("%s left during their turn. Play continues", name)
}

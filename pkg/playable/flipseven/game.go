package flipseven

import (
	"strings"
	"sync"
	"time"

	"flipseven-server/internal/rng"
	"flipseven-server/pkg/deck"
	"flipseven-server/pkg/playable"
	"github.com/sirupsen/logrus"
)

type phase int

const (
	phaseNotStarted phase = iota
	phaseRoundActive
	phaseRoundEnded
	phaseMatchEnded
)

// State is the effective state of the session as reported to collaborators
type State string

// State constants
const (
	StateNotStarted     State = "not-started"
	StateRoundActive    State = "round-active"
	StateAwaitingTarget State = "awaiting-target"
	StateFlipThree      State = "flip-three"
	StateRoundEnded     State = "round-ended"
	StateMatchEnded     State = "match-ended"
	StateClosed         State = "closed"
)

// pendingAction is an action card waiting for its owner to pick a target
type pendingAction struct {
	card    *deck.Card
	ownerID int64
}

// forcedSequence is a Flip Three being dealt to a victim
type forcedSequence struct {
	victimID  int64
	remaining int
	dealt     int
	deferred  []*deck.Card
}

// Game is a Flip Seven session
type Game struct {
	mu sync.Mutex

	key     string
	options Options
	logger  logrus.FieldLogger
	view    *view

	roster       []playable.Player
	participants map[int64]*Participant
	deck         *deck.Deck
	rng          rng.Generator

	phase      phase
	turnIndex  int
	pending    *pendingAction
	sequences  []*forcedSequence
	generation int
	winner     *Participant
	closed     bool

	cancelRestart func() bool
	schedule      playable.Scheduler
	sleep         func(time.Duration)
}

// NewGame returns a new session for the roster
// The match does not begin until StartMatch or ResumeMatch is called
func NewGame(logger logrus.FieldLogger, key string, players []playable.Player, notifier playable.Notifier, options Options) (*Game, error) {
	if len(players) > options.MaxPlayers {
		return nil, PlayerCountError{Min: options.MinPlayers, Max: options.MaxPlayers, Got: len(players)}
	}

	seen := make(map[int64]bool, len(players))
	names := make(map[string]bool, len(players))
	for _, p := range players {
		if seen[p.GetPlayerID()] {
			return nil, ErrDuplicatePlayer
		}

		// targets are chosen by name
		name := strings.ToLower(p.GetName())
		if names[name] {
			return nil, ErrDuplicateName
		}

		seen[p.GetPlayerID()] = true
		names[name] = true
	}

	roster := make([]playable.Player, len(players))
	copy(roster, players)

	logger = logger.WithField("session", key)
	return &Game{
		key:          key,
		options:      options,
		logger:       logger,
		view:         &view{out: notifier},
		roster:       roster,
		participants: make(map[int64]*Participant),
		deck:         deck.New(),
		rng:          rng.Crypto{},
		schedule:     playable.TimerScheduler,
		sleep:        time.Sleep,
	}, nil
}

// Key returns the session key
func (g *Game) Key() string {
	return g.key
}

// Name returns the name of the game
func (g *Game) Name() string {
	return "Flip Seven"
}

// State returns the effective state
func (g *Game) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.state()
}

func (g *Game) state() State {
	if g.closed {
		return StateClosed
	}

	switch g.phase {
	case phaseNotStarted:
		return StateNotStarted
	case phaseRoundEnded:
		return StateRoundEnded
	case phaseMatchEnded:
		return StateMatchEnded
	}

	if g.pending != nil {
		return StateAwaitingTarget
	}

	if len(g.sequences) > 0 {
		return StateFlipThree
	}

	return StateRoundActive
}

// IsMatchOver returns true once a winner has been declared
func (g *Game) IsMatchOver() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.phase == phaseMatchEnded
}

// Winner returns a copy of the match winner, or nil
func (g *Game) Winner() *Participant {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.winner == nil {
		return nil
	}

	return g.winner.clone()
}

// Roster returns the players in turn order
func (g *Game) Roster() []playable.Player {
	g.mu.Lock()
	defer g.mu.Unlock()

	roster := make([]playable.Player, len(g.roster))
	copy(roster, g.roster)
	return roster
}

// Participant returns a copy of the player's state, or nil
func (g *Game) Participant(playerID int64) *Participant {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, ok := g.participants[playerID]
	if !ok {
		return nil
	}

	return p.clone()
}

// StartMatch begins a new match with every score at zero
func (g *Game) StartMatch() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.beginMatch(); err != nil {
		return err
	}

	g.logger.WithField("players", len(g.roster)).Info("match started")
	g.view.matchStarted(g.ordered())
	g.startRound()
	return nil
}

func (g *Game) beginMatch() error {
	if g.closed {
		return ErrSessionClosed
	}

	if g.phase == phaseRoundActive || g.phase == phaseRoundEnded {
		return ErrAlreadyStarted
	}

	if len(g.roster) < g.options.MinPlayers || len(g.roster) > g.options.MaxPlayers {
		return PlayerCountError{Min: g.options.MinPlayers, Max: g.options.MaxPlayers, Got: len(g.roster)}
	}

	g.cancelPendingRestart()
	g.participants = make(map[int64]*Participant, len(g.roster))
	for _, player := range g.roster {
		g.participants[player.GetPlayerID()] = NewParticipant(player)
	}

	g.winner = nil
	g.pending = nil
	g.sequences = nil
	g.deck.Reset()
	return nil
}

// startRound deals a fresh round from a random seat
func (g *Game) startRound() {
	g.phase = phaseRoundActive
	g.pending = nil
	g.sequences = nil
	g.turnIndex = g.rng.Intn(len(g.roster))

	g.logger.WithField("generation", g.generation).Debug("round started")
	g.view.roundStarted()
	g.announceTurn()
}

// HandleMessage dispatches a line of text from a participant
// Rejected input is reported to the sender and returns a nil error
func (g *Game) HandleMessage(playerID int64, text string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed {
		return ErrSessionClosed
	}

	if g.phase == phaseNotStarted {
		return ErrNotStarted
	}

	sender, ok := g.participants[playerID]
	if !ok {
		return ErrPlayerNotFound
	}

	cmd := playable.ParseCommand(text)
	switch cmd.Kind {
	case playable.CommandChat:
		g.view.chat(sender, cmd.Text)
		return nil
	case playable.CommandScore:
		g.view.scoreReport(playerID, g.ordered())
		return nil
	}

	switch g.phase {
	case phaseRoundEnded:
		g.view.betweenRounds(playerID)
		return nil
	case phaseMatchEnded:
		g.view.matchOver(playerID)
		return nil
	}

	if g.pending != nil {
		g.handlePending(sender, cmd)
		return nil
	}

	current := g.currentTurn()
	if current.PlayerID != playerID {
		g.view.notYourTurn(playerID, current)
		return nil
	}

	switch cmd.Kind {
	case playable.CommandDraw:
		g.draw(current)
	case playable.CommandStay:
		g.stay(current)
	case playable.CommandUse:
		g.view.nothingToUse(playerID)
	default:
		g.view.drawOrStay(playerID)
	}

	return nil
}

func (g *Game) handlePending(sender *Participant, cmd playable.Command) {
	if sender.PlayerID != g.pending.ownerID {
		g.view.waitForTarget(sender.PlayerID, g.participants[g.pending.ownerID])
		return
	}

	if cmd.Kind != playable.CommandUse || cmd.Arg(0) == "" {
		g.view.chooseTarget(sender, g.pending.card, g.eligibleTargets(sender, g.pending.card))
		return
	}

	g.confirmTarget(sender, cmd.Arg(0))
}

func (g *Game) draw(p *Participant) {
	card, ok := g.drawCard()
	if !ok {
		return
	}

	g.view.drew(p, card)
	if card.IsAction() {
		if !g.playActionCard(p, card) {
			g.view.drawOrStay(p.PlayerID)
		}

		return
	}

	switch p.AttemptDraw(card) {
	case DrawBusted:
		g.view.busted(p, card)
		g.advanceTurn()
		return
	case DrawRejected:
		g.logger.WithField("playerID", p.PlayerID).Warn("turn-holder was already finished")
		g.advanceTurn()
		return
	case DrawSaved:
		g.view.extraLifeUsed(p, card)
	}

	if HasSevenUnique(p.hand) {
		g.view.sevenUnique(p)
		g.endRound()
		return
	}

	g.view.hand(p)
	g.advanceTurn()
}

func (g *Game) stay(p *Participant) {
	p.Stay()
	g.view.stayed(p, Score(p.hand))
	g.advanceTurn()
}

// drawCard draws from the deck, resetting it once if it is empty
// On persistent exhaustion the round is force-ended and ok is false
func (g *Game) drawCard() (*deck.Card, bool) {
	card, reshuffled, err := g.deck.DrawOrReset()
	if reshuffled {
		g.view.reshuffled()
	}

	if err != nil {
		g.deckExhausted(err)
		return nil, false
	}

	return card, true
}

func (g *Game) deckExhausted(err error) {
	g.logger.WithError(err).Error("deck exhausted after reset")
	g.view.deckExhausted()
	g.endRound()
}

// playActionCard resolves the owner's action card up to target selection
// Returns true if the session is now waiting for the owner to pick a target
func (g *Game) playActionCard(owner *Participant, card *deck.Card) bool {
	if card.Is(deck.SecondChance) && !owner.HasExtraLife() {
		owner.setExtraLife(true)
		g.view.keptSecondChance(owner)
		return false
	}

	targets := g.eligibleTargets(owner, card)
	if len(targets) == 0 {
		g.view.discarded(owner, card)
		return false
	}

	g.pending = &pendingAction{card: card, ownerID: owner.PlayerID}
	g.view.chooseTarget(owner, card, targets)
	return true
}

// eligibleTargets returns the participants the card may be used on, in turn order
func (g *Game) eligibleTargets(owner *Participant, card *deck.Card) []*Participant {
	targets := make([]*Participant, 0, len(g.roster))
	for _, p := range g.ordered() {
		if ineligibleReason(owner, card, p) == "" {
			targets = append(targets, p)
		}
	}

	return targets
}

func ineligibleReason(owner *Participant, card *deck.Card, target *Participant) string {
	if target.IsFinished() {
		return target.Name + " is already finished this round"
	}

	if card.Is(deck.SecondChance) {
		if target.PlayerID == owner.PlayerID {
			return "you cannot give a Second Chance to yourself"
		}

		if target.HasExtraLife() {
			return target.Name + " already has a Second Chance"
		}
	}

	return ""
}

func (g *Game) confirmTarget(owner *Participant, name string) {
	card := g.pending.card
	target := g.participantByName(name)
	if target == nil {
		g.view.targetNotFound(owner.PlayerID, name)
		return
	}

	if reason := ineligibleReason(owner, card, target); reason != "" {
		g.view.targetRejected(owner.PlayerID, reason)
		return
	}

	var outcome ActionOutcome
	var err error
	switch card.Special() {
	case deck.Freeze:
		outcome, err = Freeze(target)
	case deck.SecondChance:
		outcome, err = GrantSecondChance(target)
	case deck.FlipThree:
		g.pending = nil
		g.view.actionUsed(owner, card, target)
		g.startForcedSequence(target)
		return
	}

	if err != nil {
		g.view.targetRejected(owner.PlayerID, err.Error())
		return
	}

	g.pending = nil
	if outcome == ActionApplied {
		g.view.actionUsed(owner, card, target)
	} else {
		g.view.discarded(owner, card)
	}

	g.resume()
}

// resume continues play once a target choice has been made
func (g *Game) resume() {
	if g.phase != phaseRoundActive {
		return
	}

	if len(g.sequences) > 0 {
		g.continueSequence()
		return
	}

	g.advanceTurn()
}

func (g *Game) currentTurn() *Participant {
	if len(g.roster) == 0 {
		return nil
	}

	return g.participants[g.roster[g.turnIndex].GetPlayerID()]
}

func (g *Game) announceTurn() {
	current := g.currentTurn()
	g.view.turn(current)
}

// ordered returns the participants in roster order
func (g *Game) ordered() []*Participant {
	ordered := make([]*Participant, 0, len(g.roster))
	for _, player := range g.roster {
		if p, ok := g.participants[player.GetPlayerID()]; ok {
			ordered = append(ordered, p)
		}
	}

	return ordered
}

func (g *Game) participantByName(name string) *Participant {
	for _, p := range g.ordered() {
		if strings.EqualFold(p.Name, name) {
			return p
		}
	}

	return nil
}

func (g *Game) cancelPendingRestart() {
	if g.cancelRestart != nil {
		g.cancelRestart()
		g.cancelRestart = nil
	}
}

// Close tears the session down
// A pending round restart is cancelled and further input is refused
func (g *Game) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed {
		return
	}

	g.closed = true
	g.cancelPendingRestart()
	g.pending = nil
	g.sequences = nil
	g.logger.Debug("session closed")
}

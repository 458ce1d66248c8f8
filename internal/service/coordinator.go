package service

import (
	"errors"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/frifster/yougene/internal/bot"
	"github.com/frifster/yougene/internal/constants"
	"github.com/frifster/yougene/internal/engine"
	"github.com/frifster/yougene/internal/game"
	"github.com/frifster/yougene/internal/logging"
)

var (
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionFull        = errors.New("session is full")
	ErrSessionNotJoinable = errors.New("session is not joinable")
)

// DuelRepo is the slice of the storage repository the coordinator needs:
// archiving finished duels and keeping player stats. A nil repo disables
// persistence (used by tests).
type DuelRepo interface {
	ArchiveDuel(d *game.Duel, log *game.BattleLog) error
	UpdateStatsOnDuelEnd(d *game.Duel) error
	UpsertProfile(playerID, name string) error
}

// ParticipantInfo is what a joining client supplies: an opaque identity from
// the auth layer plus the combatant it fields.
type ParticipantInfo struct {
	ID        string
	Name      string
	Combatant *game.Combatant
}

// Coordinator owns the set of live duels: lifecycle transitions, turn
// submission, and state-change fan-out through the bus.
type Coordinator struct {
	store   *Store
	bus     *Bus
	repo    DuelRepo
	policy  *bot.Policy
	field   game.Battlefield
	botKits []game.CreatureKit

	// Seed produces the per-session random seed; tests pin it for
	// reproducible damage rolls.
	Seed func() int64
	now  func() time.Time
}

// NewCoordinator wires the coordinator with its collaborators.
func NewCoordinator(store *Store, bus *Bus, repo DuelRepo, policy *bot.Policy, field game.Battlefield, botKits []game.CreatureKit) *Coordinator {
	return &Coordinator{
		store:   store,
		bus:     bus,
		repo:    repo,
		policy:  policy,
		field:   field,
		botKits: botKits,
		Seed:    func() int64 { return time.Now().UnixNano() },
		now:     time.Now,
	}
}

// CreateSession registers a new pending duel with no participants and
// returns its ID.
func (c *Coordinator) CreateSession(vsBot bool) string {
	id := uuid.NewString()
	now := c.now()
	duel := &game.Duel{
		ID:          id,
		State:       game.StatePending,
		Battlefield: c.field,
		VsBot:       vsBot,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	rng := rand.New(rand.NewSource(c.Seed()))
	c.store.create(id, &session{
		duel:     duel,
		log:      game.NewBattleLog(id, now),
		resolver: engine.NewResolver(rng),
	})
	logging.Info("session created", logging.Fields{constants.LogFieldSessionID: id, "vs_bot": vsBot})
	return id
}

// Join seats a participant and its combatant. Unlike the rest of the
// coordinator's operations it reports failures, so clients can tell a
// missing room from a full or already-running one.
func (c *Coordinator) Join(sessionID string, info ParticipantInfo) error {
	sess, ok := c.store.get(sessionID)
	if !ok {
		return ErrSessionNotFound
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	d := sess.duel
	if d.State != game.StatePending {
		return ErrSessionNotJoinable
	}
	if len(d.Participants) >= 2 {
		return ErrSessionFull
	}

	p := &game.Participant{ID: info.ID, Name: info.Name, Combatant: info.Combatant}
	if p.Combatant != nil && p.Combatant.Position == (game.Position{}) {
		p.Combatant.Position = c.spawnPosition(len(d.Participants))
	}
	d.Participants = append(d.Participants, p)
	d.UpdatedAt = c.now()

	if c.repo != nil {
		if err := c.repo.UpsertProfile(info.ID, info.Name); err != nil {
			logging.Error("failed to upsert player profile", err, logging.Fields{constants.LogFieldPlayerID: info.ID})
		}
	}

	// A vs-bot session seats its autonomous side as soon as a human joins.
	if d.VsBot && len(d.Participants) < 2 {
		c.seatBotLocked(sess)
	}

	c.bus.Publish(Event{Type: EventParticipantJoined, SessionID: sessionID, Payload: p})
	c.maybeStartLocked(d)
	c.bus.Publish(Event{Type: EventSessionStateChanged, SessionID: sessionID, Payload: d.Snapshot()})
	return nil
}

// SetReady marks a participant ready and auto-starts the duel once both
// sides are seated and ready. Unknown sessions and participants are benign
// no-ops.
func (c *Coordinator) SetReady(sessionID, participantID string) {
	sess, ok := c.store.get(sessionID)
	if !ok {
		return
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	p := sess.duel.ParticipantByID(participantID)
	if p == nil {
		return
	}
	p.Ready = true
	sess.duel.UpdatedAt = c.now()
	c.maybeStartLocked(sess.duel)
	c.bus.Publish(Event{Type: EventSessionStateChanged, SessionID: sessionID, Payload: sess.duel.Snapshot()})
}

// StartSession forces a pending duel with both participants seated into
// progress, for the HTTP control surface.
func (c *Coordinator) StartSession(sessionID string) error {
	sess, ok := c.store.get(sessionID)
	if !ok {
		return ErrSessionNotFound
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	d := sess.duel
	if d.State != game.StatePending || len(d.Participants) != 2 {
		return ErrSessionNotJoinable
	}
	d.State = game.StateInProgress
	d.UpdatedAt = c.now()
	c.bus.Publish(Event{Type: EventSessionStateChanged, SessionID: sessionID, Payload: d.Snapshot()})
	return nil
}

// Leave removes a participant. Leaving twice, or leaving an unknown session,
// does nothing. An in-progress duel a player walks out of is cancelled; a
// session with no humans left is released.
func (c *Coordinator) Leave(sessionID, participantID string) {
	sess, ok := c.store.get(sessionID)
	if !ok {
		return
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	d := sess.duel
	idx := -1
	for i, p := range d.Participants {
		if p.ID == participantID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}
	d.Participants = append(d.Participants[:idx], d.Participants[idx+1:]...)
	if d.State == game.StateInProgress {
		d.State = game.StateCancelled
		c.archiveLocked(sess)
	}
	d.UpdatedAt = c.now()

	c.bus.Publish(Event{Type: EventParticipantLeft, SessionID: sessionID, Payload: participantID})
	c.bus.Publish(Event{Type: EventSessionStateChanged, SessionID: sessionID, Payload: d.Snapshot()})

	if !c.hasHumansLocked(d) {
		c.store.delete(sessionID)
		logging.Info("session released", logging.Fields{constants.LogFieldSessionID: sessionID})
	}
}

// EndSession forces completion, stamps the log end time, archives the result
// and releases the session. Unknown sessions are a no-op.
func (c *Coordinator) EndSession(sessionID string) {
	sess, ok := c.store.get(sessionID)
	if !ok {
		return
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	d := sess.duel
	now := c.now()
	d.State = game.StateCompleted
	d.UpdatedAt = now
	if sess.log.EndTime.IsZero() {
		sess.log.EndTime = now
	}
	c.archiveLocked(sess)
	c.bus.Publish(Event{Type: EventSessionStateChanged, SessionID: sessionID, Payload: d.Snapshot()})
	c.store.delete(sessionID)
}

// GetSession returns a snapshot of the duel, if the session exists.
func (c *Coordinator) GetSession(sessionID string) (*game.Duel, bool) {
	sess, ok := c.store.get(sessionID)
	if !ok {
		return nil, false
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.duel.Snapshot(), true
}

// GetLog returns a copy of the battle log, if the session exists.
func (c *Coordinator) GetLog(sessionID string) (*game.BattleLog, bool) {
	sess, ok := c.store.get(sessionID)
	if !ok {
		return nil, false
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	cp := *sess.log
	cp.Actions = append([]game.BattleAction(nil), sess.log.Actions...)
	cp.Stats.AbilityUsage = make(map[string]int, len(sess.log.Stats.AbilityUsage))
	for k, v := range sess.log.Stats.AbilityUsage {
		cp.Stats.AbilityUsage[k] = v
	}
	return &cp, true
}

// maybeStartLocked flips a fully seated, fully ready session into progress.
func (c *Coordinator) maybeStartLocked(d *game.Duel) {
	if d.State != game.StatePending || len(d.Participants) != 2 {
		return
	}
	for _, p := range d.Participants {
		if !p.Ready {
			return
		}
	}
	d.State = game.StateInProgress
	logging.Info("duel started", logging.Fields{constants.LogFieldSessionID: d.ID})
}

// seatBotLocked adds the autonomous side with a combatant drawn from the
// catalog roster. Bots are always ready.
func (c *Coordinator) seatBotLocked(sess *session) {
	if len(c.botKits) == 0 {
		logging.Error("no bot roster configured; vs-bot session stays single-sided", nil, logging.Fields{constants.LogFieldSessionID: sess.duel.ID})
		return
	}
	kit := c.botKits[rand.Intn(len(c.botKits))]
	combatant := kit.NewCombatant("", c.spawnPosition(len(sess.duel.Participants)))
	sess.duel.Participants = append(sess.duel.Participants, &game.Participant{
		ID:        "bot-" + uuid.NewString(),
		Name:      kit.Name,
		Ready:     true,
		IsBot:     true,
		Combatant: combatant,
	})
}

func (c *Coordinator) hasHumansLocked(d *game.Duel) bool {
	for _, p := range d.Participants {
		if !p.IsBot {
			return true
		}
	}
	return false
}

// archiveLocked persists the duel outcome and player stats. Failures are
// logged, never surfaced: archival must not break live play.
func (c *Coordinator) archiveLocked(sess *session) {
	if c.repo == nil {
		return
	}
	if err := c.repo.ArchiveDuel(sess.duel, sess.log); err != nil {
		logging.Error("failed to archive duel", err, logging.Fields{constants.LogFieldSessionID: sess.duel.ID})
	}
	if err := c.repo.UpdateStatsOnDuelEnd(sess.duel); err != nil {
		logging.Error("failed to update player stats", err, logging.Fields{constants.LogFieldSessionID: sess.duel.ID})
	}
}

// spawnPosition spreads the two sides across the battlefield.
func (c *Coordinator) spawnPosition(seat int) game.Position {
	x := c.field.Width * 0.25
	if seat == 1 {
		x = c.field.Width * 0.75
	}
	return game.Position{X: x, Y: c.field.Height * 0.5}
}

package matchgame

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/phrazzld/scry-match/internal/domain"
	"github.com/phrazzld/scry-match/internal/domain/matching"
	"github.com/phrazzld/scry-match/internal/events"
	"github.com/phrazzld/scry-match/internal/generation"
	"github.com/phrazzld/scry-match/internal/redact"
	"github.com/phrazzld/scry-match/internal/reporting"
)

// Config tunes a Controller. The zero value is usable.
type Config struct {
	// GameType is sent with every generation request and answer report.
	GameType string

	// Feedback sets how long check results stay on display.
	Feedback matching.FeedbackWindows

	// Scheduler runs feedback expiry. Nil uses the wall clock.
	Scheduler matching.Scheduler

	// Rand shuffles decks. Nil uses a time-seeded source. The controller
	// only touches it while holding its lock.
	Rand *rand.Rand

	// Now reports the current time for idle tracking. Nil uses time.Now.
	Now func() time.Time
}

// Dependencies are the collaborators a Controller talks to.
type Dependencies struct {
	// Rounds supplies batches of rounds. Required.
	Rounds generation.RoundGenerator

	// Sessions re-validates the session identifier on page load and retry.
	// Nil only checks that the identifier is present.
	Sessions generation.SessionValidator

	// Notifier receives every checked answer. Nil disables reporting.
	Notifier reporting.AnswerNotifier

	// Events receives game lifecycle events. Nil disables them.
	Events events.EventEmitter

	Logger *slog.Logger
}

// Controller runs one pair-matching game.
//
// All state is guarded by mu. Round fetches and session checks run with the
// lock released; fetchSeq discards results that a later reload or close has
// superseded.
type Controller struct {
	mu sync.Mutex

	id        string
	sessionID string
	gameType  string

	deps   Dependencies
	logger *slog.Logger
	rng    *rand.Rand
	now    func() time.Time

	state     State
	message   string
	isCorrect *bool
	why       string

	queue     []domain.Round
	round     *domain.Round
	deck      *matching.Deck
	evaluator *matching.Evaluator
	selection matching.Selection
	scoring   *matching.Session

	fetchSeq   uint64
	lastActive time.Time
	closed     bool
	pending    []*events.GameEvent
}

// New creates a game for sessionID and performs the page-load session check,
// leaving the game in ready or error. A blank or unknown session puts the
// game in error rather than failing construction, so Retry can recover once
// the session exists.
func New(ctx context.Context, id, sessionID string, deps Dependencies, cfg Config) (*Controller, error) {
	if deps.Rounds == nil {
		return nil, ErrNilGenerator
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if cfg.GameType == "" {
		cfg.GameType = domain.GameTypeMatchPairs
	}
	if cfg.Rand == nil {
		cfg.Rand = matching.NewRand()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	normalized, err := domain.NormalizeSessionID(sessionID)
	if err != nil {
		normalized = ""
	}

	c := &Controller{
		id:        id,
		sessionID: normalized,
		gameType:  cfg.GameType,
		deps:      deps,
		logger:    deps.Logger.With("component", "match_game", "game_id", id),
		rng:       cfg.Rand,
		now:       cfg.Now,
		state:     StateLoading,
		scoring:   matching.NewSession(cfg.Scheduler, cfg.Feedback),
	}
	c.lastActive = c.now()

	if _, err := c.Reload(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// ID returns the game identifier.
func (c *Controller) ID() string {
	return c.id
}

// SessionID returns the normalized session identifier, "" when none was given.
func (c *Controller) SessionID() string {
	return c.sessionID
}

// Snapshot returns the current view of the game.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

// LastActive returns the time of the last player operation.
func (c *Controller) LastActive() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastActive
}

// Reload behaves like a fresh page load: it drops all rounds and statistics,
// re-checks the session identifier and settles in ready or error. Any
// outstanding fetch is discarded.
func (c *Controller) Reload(ctx context.Context) (Snapshot, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return Snapshot{}, ErrGameClosed
	}
	c.touch()
	c.fetchSeq++
	seq := c.fetchSeq
	c.clearRound()
	c.queue = nil
	c.scoring.Reset()
	c.state = StateLoading
	c.message = ""
	c.isCorrect = nil
	c.why = ""
	c.mu.Unlock()

	found := c.checkSession(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return Snapshot{}, ErrGameClosed
	}
	if seq == c.fetchSeq {
		c.settleSession(found)
	}
	return c.snapshot(), nil
}

// Start fetches a batch of rounds and begins the first one. It is only
// allowed from ready. A failed or empty fetch leaves the game in error; that
// is reported through the snapshot, not the returned error.
func (c *Controller) Start(ctx context.Context) (Snapshot, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return Snapshot{}, ErrGameClosed
	}
	c.touch()
	if c.state != StateReady {
		snap := c.snapshot()
		c.mu.Unlock()
		return snap, ErrInvalidTransition
	}
	seq := c.beginFetch()
	c.mu.Unlock()

	return c.fetch(ctx, seq)
}

// Select picks a card. Clicks while feedback is on display and clicks on
// matched cards are ignored.
func (c *Controller) Select(ctx context.Context, cardID string) (Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return Snapshot{}, ErrGameClosed
	}
	c.touch()
	if c.state != StatePlaying {
		return c.snapshot(), ErrNotPlaying
	}
	if _, ok := c.deck.Lookup(cardID); !ok {
		return c.snapshot(), ErrUnknownCard
	}
	if c.scoring.Locked() || c.scoring.IsMatched(cardID) {
		return c.snapshot(), nil
	}

	c.selection.Add(cardID)
	return c.snapshot(), nil
}

// Check evaluates the current selection, updates the score and reports the
// answer. Completing the last pair moves the game to completed.
func (c *Controller) Check(ctx context.Context) (Snapshot, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return Snapshot{}, ErrGameClosed
	}
	c.touch()
	if c.state != StatePlaying {
		snap := c.snapshot()
		c.mu.Unlock()
		return snap, ErrNotPlaying
	}
	if c.scoring.Locked() {
		snap := c.snapshot()
		c.mu.Unlock()
		return snap, nil
	}

	eval := c.evaluator.Evaluate(c.scoring.Matched(), c.selection.IDs())
	if !eval.Outcome.IsAttempt() {
		c.message = MsgSelectTwo
		snap := c.snapshot()
		c.mu.Unlock()
		return snap, nil
	}

	c.why = eval.Rationale
	c.scoring.Apply(eval, c.onFeedbackExpired)

	correct := eval.Outcome == matching.OutcomeCorrect
	c.isCorrect = &correct
	switch eval.Outcome {
	case matching.OutcomeCorrect:
		c.message = MsgCorrect
	case matching.OutcomeAlreadyMatched:
		c.message = MsgAlreadyMatched
	default:
		c.message = MsgIncorrect
	}

	c.record(events.TypeAnswerChecked, map[string]interface{}{
		"outcome":  eval.Outcome,
		"selected": eval.IDs,
		"pair_key": eval.PairKey,
	})

	if c.scoring.Complete() {
		c.completeRound()
	}

	answer := generation.Answer{
		SessionID: c.sessionID,
		GameType:  c.gameType,
		IsCorrect: correct,
		Selected:  eval.IDs,
	}
	snap := c.snapshot()
	evts := c.takeEvents()
	c.mu.Unlock()

	c.publish(ctx, evts)
	if c.deps.Notifier != nil {
		c.deps.Notifier.Notify(ctx, answer)
	}
	return snap, nil
}

// Advance moves a completed game to the next round: the next queued round if
// there is one, otherwise a fresh fetch.
func (c *Controller) Advance(ctx context.Context) (Snapshot, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return Snapshot{}, ErrGameClosed
	}
	c.touch()
	if c.state != StateCompleted {
		snap := c.snapshot()
		c.mu.Unlock()
		return snap, ErrInvalidTransition
	}

	if len(c.queue) > 0 {
		next := c.queue[0]
		c.queue = c.queue[1:]
		c.beginRound(next)
		snap := c.snapshot()
		evts := c.takeEvents()
		c.mu.Unlock()
		c.publish(ctx, evts)
		return snap, nil
	}

	seq := c.beginFetch()
	c.mu.Unlock()
	return c.fetch(ctx, seq)
}

// ReturnToLobby leaves a completed round and goes back to ready.
func (c *Controller) ReturnToLobby(ctx context.Context) (Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return Snapshot{}, ErrGameClosed
	}
	c.touch()
	if c.state != StateCompleted {
		return c.snapshot(), ErrInvalidTransition
	}
	c.state = StateReady
	return c.snapshot(), nil
}

// Retry re-validates the session identifier after an error and moves to
// ready if it is present, staying in error otherwise.
func (c *Controller) Retry(ctx context.Context) (Snapshot, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return Snapshot{}, ErrGameClosed
	}
	c.touch()
	if c.state != StateError {
		snap := c.snapshot()
		c.mu.Unlock()
		return snap, ErrInvalidTransition
	}
	seq := c.fetchSeq
	c.mu.Unlock()

	found := c.checkSession(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return Snapshot{}, ErrGameClosed
	}
	if seq == c.fetchSeq && c.state == StateError {
		c.settleSession(found)
	}
	return c.snapshot(), nil
}

// ResetStats zeroes the score and both streaks without touching the round.
func (c *Controller) ResetStats(ctx context.Context) (Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return Snapshot{}, ErrGameClosed
	}
	c.touch()
	c.scoring.ResetStats()
	c.message = MsgStatsReset
	return c.snapshot(), nil
}

// Close discards the game. Pending feedback timers are cancelled and any
// outstanding fetch result is dropped.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	c.fetchSeq++
	c.scoring.ClearFeedback()
}

// beginFetch must be called with c.mu held.
func (c *Controller) beginFetch() uint64 {
	c.fetchSeq++
	c.clearRound()
	c.state = StateLoading
	c.message = MsgGenerating
	c.isCorrect = nil
	c.why = ""
	return c.fetchSeq
}

func (c *Controller) fetch(ctx context.Context, seq uint64) (Snapshot, error) {
	req := generation.Request{
		SessionID: c.sessionID,
		GameType:  c.gameType,
		Nuances:   []string{},
	}

	start := time.Now()
	rounds, err := c.deps.Rounds.GenerateRounds(ctx, req)
	elapsed := time.Since(start)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return Snapshot{}, ErrGameClosed
	}
	if seq != c.fetchSeq || c.state != StateLoading {
		snap := c.snapshot()
		c.mu.Unlock()
		return snap, nil
	}

	if err == nil && len(rounds) == 0 {
		err = generation.ErrNoRounds
	}
	if err == nil {
		err = rounds[0].Validate()
	}

	if err != nil {
		c.logger.Error("failed to generate rounds",
			"session_id", c.sessionID,
			"duration_ms", elapsed.Milliseconds(),
			redact.Attr(err))
		c.fail(err)
	} else {
		c.queue = c.queuedRounds(rounds[1:])
		c.logger.Debug("rounds generated",
			"session_id", c.sessionID,
			"rounds", len(rounds),
			"queued_rounds", len(c.queue),
			"duration_ms", elapsed.Milliseconds())
		c.beginRound(rounds[0])
	}

	snap := c.snapshot()
	evts := c.takeEvents()
	c.mu.Unlock()

	c.publish(ctx, evts)
	return snap, nil
}

// queuedRounds keeps the valid rounds that follow the first one. The first
// round is validated by fetch, which fails the game when it is malformed.
func (c *Controller) queuedRounds(rounds []domain.Round) []domain.Round {
	playable := make([]domain.Round, 0, len(rounds))
	for i, round := range rounds {
		if err := round.Validate(); err != nil {
			c.logger.Warn("dropping malformed queued round", "index", i+1, redact.Attr(err))
			continue
		}
		playable = append(playable, round)
	}
	return playable
}

// fail must be called with c.mu held.
func (c *Controller) fail(err error) {
	reason := MsgGenerateFailed
	switch {
	case errors.Is(err, generation.ErrNoRounds):
		reason = MsgNoGamesReturned
	case generation.Detail(err) != "":
		reason = generation.Detail(err)
	}

	c.clearRound()
	c.queue = nil
	c.state = StateError
	c.message = errorMessage(reason)
	c.isCorrect = nil
	c.record(events.TypeGenerationFailed, map[string]string{"reason": reason})
}

// beginRound must be called with c.mu held.
func (c *Controller) beginRound(round domain.Round) {
	c.round = &round
	c.deck = matching.NewDeck(round.Pairs, c.rng)
	c.evaluator = matching.NewEvaluator(c.deck, c.round)
	c.selection.Clear()
	c.scoring.StartRound(round.PairCount())

	c.state = StatePlaying
	c.message = MsgPlaying
	c.isCorrect = nil
	c.why = ""

	c.record(events.TypeRoundStarted, map[string]int{
		"pairs":         round.PairCount(),
		"queued_rounds": len(c.queue),
	})
}

// completeRound must be called with c.mu held.
func (c *Controller) completeRound() {
	c.state = StateCompleted
	c.message = MsgCompleted
	c.selection.Clear()
	c.scoring.ClearFeedback()
	correct := true
	c.isCorrect = &correct

	score := c.scoring.Score()
	c.record(events.TypeRoundCompleted, map[string]int{
		"pairs":   c.scoring.PairsTotal(),
		"correct": score.Correct,
		"total":   score.Total,
	})
}

// clearRound must be called with c.mu held.
func (c *Controller) clearRound() {
	c.round = nil
	c.deck = nil
	c.evaluator = nil
	c.selection.Clear()
	c.scoring.ClearFeedback()
}

// settleSession must be called with c.mu held.
func (c *Controller) settleSession(found bool) {
	c.isCorrect = nil
	if !found {
		c.state = StateError
		c.message = MsgNoSession
		return
	}
	c.state = StateReady
	c.message = MsgReady
}

// checkSession reports whether the session identifier may be used. Only a
// definite "not found" fails the check; other validator errors are logged
// and the generator gets to decide.
func (c *Controller) checkSession(ctx context.Context) bool {
	if c.sessionID == "" {
		return false
	}
	if c.deps.Sessions == nil {
		return true
	}

	err := c.deps.Sessions.ValidateSession(ctx, c.sessionID)
	switch {
	case err == nil:
		return true
	case errors.Is(err, generation.ErrSessionNotFound):
		c.logger.Info("session not found", "session_id", c.sessionID)
		return false
	default:
		c.logger.Warn("could not validate session, assuming it exists",
			"session_id", c.sessionID,
			redact.Attr(err))
		return true
	}
}

func (c *Controller) onFeedbackExpired(generation uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || !c.scoring.ExpireFeedback(generation) {
		return
	}
	c.selection.Clear()
	c.isCorrect = nil
}

// touch must be called with c.mu held.
func (c *Controller) touch() {
	c.lastActive = c.now()
}

// record must be called with c.mu held.
func (c *Controller) record(eventType string, payload interface{}) {
	if c.deps.Events == nil {
		return
	}
	event, err := events.NewGameEvent(eventType, c.id, c.sessionID, payload)
	if err != nil {
		c.logger.Error("failed to build game event", "event_type", eventType, redact.Attr(err))
		return
	}
	c.pending = append(c.pending, event)
}

// takeEvents must be called with c.mu held.
func (c *Controller) takeEvents() []*events.GameEvent {
	evts := c.pending
	c.pending = nil
	return evts
}

func (c *Controller) publish(ctx context.Context, evts []*events.GameEvent) {
	for _, event := range evts {
		if err := c.deps.Events.EmitEvent(ctx, event); err != nil {
			c.logger.Debug("game event handler failed",
				"event_type", event.Type,
				redact.Attr(err))
		}
	}
}

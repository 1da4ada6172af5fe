package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jaminalder/reversi/internal/ai"
	"github.com/jaminalder/reversi/internal/domain"
)

// Errors exposed by the service layer.
var (
	ErrNotFound    = errors.New("game not found")
	ErrNotYourTurn = errors.New("not your turn")
	ErrNotAPlayer  = errors.New("not a player")
	ErrNoAISeat    = errors.New("side to move is not played by the engine")

	// ErrEngineConflict means the game moved on while the engine searched.
	ErrEngineConflict = errors.New("game changed during engine search")
)

// Options configures a new game. A nil strategy leaves the seat to a human.
type Options struct {
	Red   *ai.Strategy
	White *ai.Strategy
}

// GameState is the in-memory state tracked per game.
type GameState struct {
	ID      string
	Game    *domain.Game
	Red     string
	White   string
	RedAI   *ai.Strategy
	WhiteAI *ai.Strategy
	Created time.Time
	Updated time.Time
}

func (gs *GameState) strategyFor(p domain.Player) *ai.Strategy {
	if p == domain.PlayerRed {
		return gs.RedAI
	}
	return gs.WhiteAI
}

// GameView is a read-only snapshot handed to transports and subscribers.
type GameView struct {
	ID            string        `json:"id"`
	Board         domain.Board  `json:"board"`
	Turn          domain.Player `json:"turn"`
	Status        string        `json:"status"`
	Legal         []domain.Pos  `json:"legal"`
	RedDiscs      int           `json:"red_discs"`
	WhiteDiscs    int           `json:"white_discs"`
	TotalSteps    int           `json:"total_steps"`
	DisplayedStep int           `json:"displayed_step"`
	CanUndo       bool          `json:"can_undo"`
	CanRedo       bool          `json:"can_redo"`
	Description   string        `json:"description"`
	Winner        string        `json:"winner,omitempty"`
	RedPlayer     string        `json:"red_player,omitempty"`
	WhitePlayer   string        `json:"white_player,omitempty"`
	RedAI         string        `json:"red_ai,omitempty"`
	WhiteAI       string        `json:"white_ai,omitempty"`
	Created       time.Time     `json:"created"`
	Updated       time.Time     `json:"updated"`
}

func (v GameView) TotalDiscs() int { return v.RedDiscs + v.WhiteDiscs }

// IsLegal reports whether the view marks (r, c) as playable.
func (v GameView) IsLegal(r, c int) bool {
	for _, p := range v.Legal {
		if p.Row == r && p.Col == c {
			return true
		}
	}
	return false
}

func (gs *GameState) view() GameView {
	g := gs.Game
	v := GameView{
		ID:            gs.ID,
		Board:         g.Board,
		Turn:          g.Turn(),
		Status:        g.Status().String(),
		Legal:         g.LegalMoves(),
		RedDiscs:      g.RedDiscs(),
		WhiteDiscs:    g.WhiteDiscs(),
		TotalSteps:    g.TotalSteps(),
		DisplayedStep: g.DisplayedStep(),
		CanUndo:       g.CanUndo(),
		CanRedo:       g.CanRedo(),
		Description:   g.Description(),
		RedPlayer:     gs.Red,
		WhitePlayer:   gs.White,
		Created:       gs.Created,
		Updated:       gs.Updated,
	}
	if w, over := g.Winner(); over {
		v.Winner = "Draw"
		if w != domain.Empty {
			v.Winner = w.String()
		}
	}
	if gs.RedAI != nil {
		v.RedAI = gs.RedAI.String()
	}
	if gs.WhiteAI != nil {
		v.WhiteAI = gs.WhiteAI.String()
	}
	return v
}

// Snapshot is one board of a replayed history.
type Snapshot struct {
	Step       int          `json:"step"`
	Board      domain.Board `json:"board"`
	RedDiscs   int          `json:"red_discs"`
	WhiteDiscs int          `json:"white_discs"`
}

type subscriber struct {
	ch        chan GameView
	closeOnce sync.Once
}

func (s *subscriber) close() { s.closeOnce.Do(func() { close(s.ch) }) }

// Service manages games and subscribers.
type Service struct {
	mu    sync.Mutex
	games map[string]*GameState
	subs  map[string]map[*subscriber]struct{}
	log   *zap.Logger

	// searchMu guards selector, which is not safe for concurrent use.
	searchMu sync.Mutex
	selector *ai.Selector
	// afterSearch runs between the search and the move, for tests.
	afterSearch func(id string)
}

// Option customises a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// WithSelector replaces the engine's move selector.
func WithSelector(sel *ai.Selector) Option {
	return func(s *Service) {
		if sel != nil {
			s.selector = sel
		}
	}
}

// NewService creates a service with a silent logger and a time-seeded
// selector without a search cache.
func NewService(opts ...Option) *Service {
	s := &Service{
		games:    make(map[string]*GameState),
		subs:     make(map[string]map[*subscriber]struct{}),
		selector: ai.NewSelector(uint64(time.Now().UnixNano()), 0),
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateGame creates and registers a new game.
func (s *Service) CreateGame(opts Options) (*GameView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.NewString()
	now := time.Now()
	gs := &GameState{
		ID:      id,
		Game:    domain.New(),
		RedAI:   opts.Red,
		WhiteAI: opts.White,
		Created: now,
		Updated: now,
	}
	s.games[id] = gs
	s.log.Info("game created",
		zap.String("game", id),
		zap.Stringer("red", optStrategy(opts.Red)),
		zap.Stringer("white", optStrategy(opts.White)))
	v := gs.view()
	return &v, nil
}

type humanSeat struct{}

func (humanSeat) String() string { return "human" }

func optStrategy(st *ai.Strategy) fmt.Stringer {
	if st == nil {
		return humanSeat{}
	}
	return *st
}

// Get returns a snapshot of the game if present.
func (s *Service) Get(id string) (*GameView, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	gs, ok := s.games[id]
	if !ok {
		return nil, false
	}
	v := gs.view()
	return &v, true
}

// Join assigns a free human seat to the player; returns Empty for
// spectators.
func (s *Service) Join(id, playerID string) (domain.Cell, *GameView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	gs, ok := s.games[id]
	if !ok {
		return domain.Empty, nil, ErrNotFound
	}
	side := domain.Empty
	switch {
	case playerID == "":
	case gs.Red == playerID || gs.White == playerID:
		side = s.seatOf(gs, playerID)
	case gs.Red == "" && gs.RedAI == nil:
		gs.Red = playerID
		side = domain.Red
	case gs.White == "" && gs.WhiteAI == nil:
		gs.White = playerID
		side = domain.White
	}
	gs.Updated = time.Now()
	v := gs.view()
	return side, &v, nil
}

func (s *Service) seatOf(gs *GameState, playerID string) domain.Cell {
	switch playerID {
	case gs.Red:
		return domain.Red
	case gs.White:
		return domain.White
	}
	return domain.Empty
}

// lockedGame locks the service and returns the game, or unlocks and
// returns ErrNotFound.
func (s *Service) lockedGame(id string) (*GameState, error) {
	s.mu.Lock()
	gs, ok := s.games[id]
	if !ok {
		s.mu.Unlock()
		return nil, ErrNotFound
	}
	return gs, nil
}

// seated checks that playerID holds a seat and, when turn is set, that it
// is that seat's turn.
func (s *Service) seated(gs *GameState, playerID string, turn bool) error {
	if playerID == "" {
		return ErrNotAPlayer
	}
	seat := s.seatOf(gs, playerID)
	if seat == domain.Empty {
		return ErrNotAPlayer
	}
	if turn && seat != gs.Game.Turn().Cell() {
		return ErrNotYourTurn
	}
	return nil
}

// Play validates seat and turn, applies a move, and broadcasts.
func (s *Service) Play(id, playerID string, r, c int) (*GameView, error) {
	gs, err := s.lockedGame(id)
	if err != nil {
		return nil, err
	}
	if err := s.seated(gs, playerID, true); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	res, err := gs.Game.Play(r, c)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.logMove(gs, res, "human")
	return s.commit(gs), nil
}

// Pass skips the turn of a seated player who has no legal move.
func (s *Service) Pass(id, playerID string) (*GameView, error) {
	gs, err := s.lockedGame(id)
	if err != nil {
		return nil, err
	}
	if err := s.seated(gs, playerID, true); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	passer := gs.Game.Turn()
	if err := gs.Game.Pass(); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.log.Info("turn passed", zap.String("game", id), zap.Stringer("player", passer))
	return s.commit(gs), nil
}

// Undo takes back the latest displayed move. Any seated player may review.
func (s *Service) Undo(id, playerID string) (*GameView, error) {
	gs, err := s.lockedGame(id)
	if err != nil {
		return nil, err
	}
	if err := s.seated(gs, playerID, false); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	res, err := gs.Game.Undo()
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.log.Debug("undo",
		zap.String("game", id),
		zap.Int("displayed", gs.Game.DisplayedStep()),
		zap.Int("unflipped", len(res.Flipped)),
		zap.Bool("at_start", res.AtStart))
	return s.commit(gs), nil
}

// Redo reapplies the move most recently undone.
func (s *Service) Redo(id, playerID string) (*GameView, error) {
	gs, err := s.lockedGame(id)
	if err != nil {
		return nil, err
	}
	if err := s.seated(gs, playerID, false); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	res, err := gs.Game.Redo()
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.log.Debug("redo",
		zap.String("game", id),
		zap.Int("displayed", gs.Game.DisplayedStep()),
		zap.Int("reflipped", len(res.Flipped)),
		zap.Bool("at_end", res.AtEnd))
	return s.commit(gs), nil
}

// AIMove lets the engine play for the side to move, passing when it has
// no legal move.
func (s *Service) AIMove(id string) (*GameView, error) {
	return s.engineMove(id)
}

// engineMove searches without holding s.mu so other games stay
// responsive. The move is discarded with ErrEngineConflict when the game
// changed while the engine was thinking.
func (s *Service) engineMove(id string) (*GameView, error) {
	gs, err := s.lockedGame(id)
	if err != nil {
		return nil, err
	}
	g := gs.Game
	turn := g.Turn()
	st := gs.strategyFor(turn)
	if st == nil {
		s.mu.Unlock()
		return nil, ErrNoAISeat
	}
	switch g.Status() {
	case domain.StatusReviewing:
		s.mu.Unlock()
		return nil, domain.ErrNotActive
	case domain.StatusOver:
		s.mu.Unlock()
		return nil, domain.ErrGameOver
	case domain.StatusMustPass:
		if err := g.Pass(); err != nil {
			s.mu.Unlock()
			return nil, err
		}
		s.log.Info("turn passed", zap.String("game", id), zap.Stringer("player", turn))
		return s.commit(gs), nil
	}
	strategy := *st
	board, moves, steps := g.Board, g.LegalMoves(), g.TotalSteps()
	s.mu.Unlock()

	s.searchMu.Lock()
	search := s.selector.Searcher()
	search.ResetStats()
	m, ok := s.selector.Select(board, moves, turn, strategy)
	nodes, hits := search.Nodes(), search.CacheHits()
	s.searchMu.Unlock()
	if s.afterSearch != nil {
		s.afterSearch(id)
	}
	if !ok {
		return nil, fmt.Errorf("%s found no move: %w", strategy, domain.ErrIllegalMove)
	}

	gs, err = s.lockedGame(id)
	if err != nil {
		return nil, err
	}
	g = gs.Game
	if !g.Active() || g.TotalSteps() != steps || g.Turn() != turn || g.Board != board {
		s.mu.Unlock()
		return nil, ErrEngineConflict
	}
	res, err := g.Play(m.Row, m.Col)
	if err != nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("engine move %v: %w", m, err)
	}
	s.logMove(gs, res, strategy.String(), zap.Uint64("nodes", nodes), zap.Uint64("cache_hits", hits))
	return s.commit(gs), nil
}

// Autoplay keeps asking the engine to move until the disc target is
// reached, the game ends, or a human seat is to move. A target of zero
// plays to the end.
func (s *Service) Autoplay(ctx context.Context, id string, targetDiscs int) (*GameView, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		gs, err := s.lockedGame(id)
		if err != nil {
			return nil, err
		}
		g := gs.Game
		if g.Status() == domain.StatusOver || (targetDiscs > 0 && g.Board.Discs() >= targetDiscs) ||
			gs.strategyFor(g.Turn()) == nil {
			v := gs.view()
			s.mu.Unlock()
			return &v, nil
		}
		s.mu.Unlock()
		if _, err := s.engineMove(id); err != nil {
			return nil, err
		}
	}
}

// Evaluate scores the displayed board for p.
func (s *Service) Evaluate(id string, p domain.Player, k ai.Kind) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	gs, ok := s.games[id]
	if !ok {
		return 0, ErrNotFound
	}
	b := gs.Game.Board
	return ai.Evaluate(&b, p, k), nil
}

// Replay returns the board at every step up to the displayed one.
func (s *Service) Replay(id string) ([]Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	gs, ok := s.games[id]
	if !ok {
		return nil, ErrNotFound
	}
	var out []Snapshot
	err := gs.Game.Replay(func(step int, b domain.Board) error {
		out = append(out, NewSnapshot(step, b))
		return nil
	})
	return out, err
}

func (s *Service) logMove(gs *GameState, res domain.MoveResult, by string, extra ...zap.Field) {
	b := gs.Game.Board
	fields := []zap.Field{
		zap.String("game", gs.ID),
		zap.Stringer("player", res.Player),
		zap.String("by", by),
		zap.Int("row", res.Cell.Row),
		zap.Int("col", res.Cell.Col),
		zap.Int("flipped", len(res.Flipped)),
		zap.Int("mobility", ai.MobilityScore(&b, res.Player)),
		zap.Int("positional", ai.PositionalScore(&b, res.Player)),
	}
	s.log.Info("move", append(fields, extra...)...)
}

// commit stamps the game, fans the new view out and releases the lock.
// It must be called with s.mu held. Sends and closes on subscriber
// channels only happen under s.mu; a full buffer drops the subscriber.
func (s *Service) commit(gs *GameState) *GameView {
	defer s.mu.Unlock()
	gs.Updated = time.Now()
	v := gs.view()

	dropped := 0
	set := s.subs[gs.ID]
	for sub := range set {
		select {
		case sub.ch <- v:
		default:
			sub.close()
			delete(set, sub)
			dropped++
		}
	}
	if dropped > 0 {
		s.log.Debug("dropped slow subscribers", zap.String("game", gs.ID), zap.Int("count", dropped))
	}
	return &v
}

// Subscribe registers a subscriber for a game. Returns a channel and an
// unsubscribe func.
func (s *Service) Subscribe(ctx context.Context, id string) (<-chan GameView, func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.games[id]; !ok {
		return nil, func() {}, ErrNotFound
	}
	set := s.subs[id]
	if set == nil {
		set = make(map[*subscriber]struct{})
		s.subs[id] = set
	}
	sub := &subscriber{ch: make(chan GameView, 1)}
	set[sub] = struct{}{}

	unsubOnce := &sync.Once{}
	unsub := func() {
		unsubOnce.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if set, ok := s.subs[id]; ok {
				delete(set, sub)
			}
			sub.close()
		})
	}
	go func() {
		<-ctx.Done()
		unsub()
	}()
	return sub.ch, unsub, nil
}

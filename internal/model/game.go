package model

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/benbeisheim/checkers-backend/internal/ws"
	"github.com/gofiber/websocket/v2"
	"github.com/rs/zerolog/log"
)

var (
	ErrGameFull     = errors.New("game is full")
	ErrNotAPlayer   = errors.New("player not in game")
	ErrUnauthorized = errors.New("not authorized to join this game")
	ErrNotConnected = errors.New("player has no connection")
	ErrInvalidColor = errors.New("invalid player color")
)

// The connections for a specific game
type GameConnections struct {
	connections map[string]*websocket.Conn // playerID -> connection
	mu          sync.RWMutex
	writeMu     sync.Mutex // one writer per connection at a time
	lastSeq     uint64     // newest snapshot written, guarded by writeMu
}

type GameOptions struct {
	HumanColor    PlayerColor
	OpponentDelay time.Duration
	AutoOpponent  bool
	Seed          int64
}

// Game hosts one human-versus-computer match. It owns the GameState and
// serializes every transition on it, so only one ply is ever in progress.
type Game struct {
	ID            string
	mu            sync.Mutex
	state         *GameState
	connections   *GameConnections
	human         ClientPlayer
	computer      ClientPlayer
	opponent      *RandomOpponent
	opponentDelay time.Duration
	autoOpponent  bool
	clocks        map[PlayerColor]*Clock
	pending       *time.Timer
	seq           uint64
}

// GameSnapshot is what clients see: the state plus derived fields.
type GameSnapshot struct {
	GameID string `json:"gameId"`
	// Seq increases with every snapshot taken. Clients and the broadcaster
	// discard anything older than what they already have.
	Seq uint64 `json:"seq"`
	GameState
	LegalMoves []SimpleMove `json:"legalMoves"`
	Players    struct {
		Human    ClientPlayer `json:"human"`
		Computer ClientPlayer `json:"computer"`
	} `json:"players"`
	OpponentThinking bool `json:"opponentThinking"`
}

func NewGame(id string, opts GameOptions) (*Game, error) {
	if opts.HumanColor == "" {
		opts.HumanColor = PlayerColorBlack
	}
	if !opts.HumanColor.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidColor, opts.HumanColor)
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	opponent := NewRandomOpponent(seed)

	g := &Game{
		ID:            id,
		state:         NewGameState(),
		connections:   NewGameConnections(),
		opponent:      opponent,
		opponentDelay: opts.OpponentDelay,
		autoOpponent:  opts.AutoOpponent,
		clocks: map[PlayerColor]*Clock{
			PlayerColorBlack: NewClock(),
			PlayerColorWhite: NewClock(),
		},
		human: ClientPlayer{Color: opts.HumanColor},
		computer: ClientPlayer{
			ID:       opponent.Name(),
			Color:    opts.HumanColor.Opponent(),
			Computer: true,
		},
	}
	g.clocks[g.state.ActiveColor].Start()

	if g.autoOpponent && g.state.ActiveColor == g.computer.Color {
		g.mu.Lock()
		g.scheduleOpponent()
		g.mu.Unlock()
	}
	return g, nil
}

func NewGameConnections() *GameConnections {
	return &GameConnections{
		connections: make(map[string]*websocket.Conn),
	}
}

func (g *Game) AddPlayer(playerID string) (PlayerColor, error) {
	log.Debug().Str("game", g.ID).Str("player", playerID).Msg("adding player")
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.human.ID == playerID {
		return g.human.Color, nil
	}
	if g.human.ID == "" {
		g.human.ID = playerID
		return g.human.Color, nil
	}
	return "", ErrGameFull
}

func (g *Game) IsPlayerInGame(playerID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.isPlayerInGame(playerID)
}

func (g *Game) isPlayerInGame(playerID string) bool {
	return g.human.ID != "" && g.human.ID == playerID
}

func (g *Game) canSpectate() bool {
	return g.human.ID == ""
}

func (g *Game) GetState() GameSnapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.snapshot()
}

func (g *Game) snapshot() GameSnapshot {
	g.seq++
	s := GameSnapshot{
		GameID:           g.ID,
		Seq:              g.seq,
		GameState:        g.state.Clone(),
		OpponentThinking: g.pending != nil,
	}
	if s.Winner == nil {
		if s.ForcedOrigin != nil {
			s.LegalMoves = make([]SimpleMove, 0, len(s.LegalTargets))
			for _, to := range s.LegalTargets {
				s.LegalMoves = append(s.LegalMoves, SimpleMove{From: *s.ForcedOrigin, To: to})
			}
		} else {
			s.LegalMoves = g.state.Board.LegalMoves(g.state.ActiveColor)
		}
	} else {
		s.LegalMoves = make([]SimpleMove, 0)
	}
	s.Players.Human = g.human
	s.Players.Human.TimeUsed = int(g.clocks[g.human.Color].TimeUsed().Milliseconds())
	s.Players.Computer = g.computer
	s.Players.Computer.TimeUsed = int(g.clocks[g.computer.Color].TimeUsed().Milliseconds())
	return s
}

// checkHumanTurn rejects input from anyone but the seated player, and from
// the seated player while the computer is to move.
func (g *Game) checkHumanTurn(playerID string) error {
	if !g.isPlayerInGame(playerID) {
		return ErrNotAPlayer
	}
	if g.state.ActiveColor != g.human.Color {
		return ErrNotYourTurn
	}
	return nil
}

func (g *Game) Select(playerID string, sq Square) (SelectionResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.checkHumanTurn(playerID); err != nil {
		return SelectionResult{}, err
	}
	res, err := g.state.Select(sq)
	if err != nil {
		return SelectionResult{}, err
	}
	go g.broadcastState(g.snapshot())
	return res, nil
}

func (g *Game) MakeMove(playerID string, move WSMove) (MoveResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	log.Debug().Str("game", g.ID).Str("from", move.From.String()).Str("to", move.To.String()).Msg("making move")

	if err := g.checkHumanTurn(playerID); err != nil {
		return MoveResult{}, err
	}
	mover := g.state.ActiveColor
	res, err := g.state.ApplyMove(move.From, move.To)
	if err != nil {
		return MoveResult{}, err
	}
	if res.TurnEnded {
		g.handOff(mover)
	}
	go g.broadcastState(g.snapshot())
	return res, nil
}

// PlayOpponent runs the computer's ply immediately on behalf of the seated
// player, cancelling any pending scheduled ply.
func (g *Game) PlayOpponent(playerID string) (Ply, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.isPlayerInGame(playerID) {
		return Ply{}, ErrNotAPlayer
	}
	return g.playOpponent()
}

func (g *Game) playOpponent() (Ply, error) {
	if g.pending != nil {
		g.pending.Stop()
		g.pending = nil
	}
	if g.state.Winner != nil {
		return Ply{}, ErrGameOver
	}
	if g.state.ActiveColor != g.computer.Color {
		return Ply{}, ErrNotYourTurn
	}

	ply, err := g.opponent.PlayPly(g.state)
	if err != nil {
		return Ply{}, err
	}
	log.Info().Str("game", g.ID).Int("steps", len(ply.Steps)).Int("captures", ply.Captures()).Msg("opponent played")
	g.handOff(ply.Color)
	go g.broadcastState(g.snapshot())
	return ply, nil
}

// handOff switches the clocks after color finished its ply and schedules the
// computer's reply when it is due.
func (g *Game) handOff(color PlayerColor) {
	g.clocks[color].Stop()
	if g.state.Winner != nil {
		log.Info().Str("game", g.ID).Str("winner", string(*g.state.Winner)).Msg("game over")
		return
	}
	g.clocks[g.state.ActiveColor].Start()
	if g.autoOpponent && g.state.ActiveColor == g.computer.Color {
		g.scheduleOpponent()
	}
}

// scheduleOpponent starts the cosmetic pause before the computer's ply.
// Callers hold g.mu.
func (g *Game) scheduleOpponent() {
	if g.pending != nil {
		return
	}
	var timer *time.Timer
	timer = time.AfterFunc(g.opponentDelay, func() {
		g.mu.Lock()
		defer g.mu.Unlock()
		if g.pending != timer {
			return
		}
		g.pending = nil
		if _, err := g.playOpponent(); err != nil {
			log.Error().Err(err).Str("game", g.ID).Msg("opponent ply failed")
		}
	})
	g.pending = timer
}

// Close stops any pending opponent ply.
func (g *Game) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.pending != nil {
		g.pending.Stop()
		g.pending = nil
	}
}

func (g *Game) RegisterConnection(playerID string, conn *websocket.Conn) error {
	connID := fmt.Sprintf("%p", conn)
	log.Debug().Str("game", g.ID).Str("player", playerID).Str("conn", connID).Msg("registering connection")

	g.mu.Lock()
	isAuthorized := g.isPlayerInGame(playerID) || g.canSpectate()
	g.mu.Unlock()

	if !isAuthorized {
		return ErrUnauthorized
	}

	g.connections.mu.Lock()
	if _, exists := g.connections.connections[playerID]; exists {
		// If we already have a healthy connection, keep it and reject the new one
		g.connections.mu.Unlock()
		conn.WriteMessage(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(
				websocket.CloseNormalClosure,
				"Connection already exists",
			),
		)
		conn.Close()
		return nil // Not really an error, just rejecting duplicate connection
	}

	g.connections.connections[playerID] = conn
	g.connections.mu.Unlock()

	// Taken after the connection is visible, so any newer snapshot reaches it too.
	g.mu.Lock()
	snapshot := g.snapshot()
	g.mu.Unlock()

	g.broadcastState(snapshot)
	return nil
}

func (g *Game) UnregisterConnection(playerID string, conn *websocket.Conn) {
	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()

	// Only unregister if this is still the current connection
	if current, exists := g.connections.connections[playerID]; exists && current == conn {
		log.Debug().Str("game", g.ID).Str("player", playerID).Msg("unregistering connection")
		delete(g.connections.connections, playerID)
	}
}

// Send writes msg to one player's connection.
func (g *Game) Send(playerID string, msg ws.Message) error {
	g.connections.mu.RLock()
	conn, ok := g.connections.connections[playerID]
	g.connections.mu.RUnlock()
	if !ok {
		return ErrNotConnected
	}

	g.connections.writeMu.Lock()
	defer g.connections.writeMu.Unlock()
	return conn.WriteJSON(msg)
}

// broadcastState writes snapshot to every connection unless a newer one has
// already gone out. Snapshots are taken in order under g.mu but their
// broadcasts race, so the sequence check keeps clients from ending on a stale
// position.
func (g *Game) broadcastState(snapshot GameSnapshot) {
	msg, err := ws.NewMessage(ws.MessageTypeGameState, snapshot)
	if err != nil {
		log.Error().Err(err).Str("game", g.ID).Msg("failed to marshal state")
		return
	}

	g.connections.writeMu.Lock()
	if snapshot.Seq <= g.connections.lastSeq {
		g.connections.writeMu.Unlock()
		log.Debug().Str("game", g.ID).Uint64("seq", snapshot.Seq).Msg("dropping stale state")
		return
	}
	g.connections.lastSeq = snapshot.Seq

	g.connections.mu.RLock()
	activeConnections := make(map[string]*websocket.Conn, len(g.connections.connections))
	for playerID, conn := range g.connections.connections {
		activeConnections[playerID] = conn
	}
	g.connections.mu.RUnlock()

	var failed []string
	for playerID, conn := range activeConnections {
		if err := conn.WriteJSON(msg); err != nil {
			log.Warn().Err(err).Str("game", g.ID).Str("player", playerID).Msg("failed to send state")
			failed = append(failed, playerID)
		}
	}
	g.connections.writeMu.Unlock()

	if len(failed) == 0 {
		return
	}
	g.connections.mu.Lock()
	for _, playerID := range failed {
		if g.connections.connections[playerID] == activeConnections[playerID] {
			delete(g.connections.connections, playerID)
		}
	}
	g.connections.mu.Unlock()
}

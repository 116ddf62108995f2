package usecase

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/rocketscienceinc/tetris-backend/internal/game"
	"github.com/rocketscienceinc/tetris-backend/internal/transport/websocket"
)

type leaderboardRepo interface {
	RecordScore(ctx context.Context, player string, score int) error
}

// gameSession is what the manager needs from a session; the concrete
// implementation lives in internal/game.
type gameSession interface {
	Start(now time.Time) bool
	Pause() bool
	Resume(now time.Time) bool
	Reset()
	MoveLeft() bool
	MoveRight() bool
	Rotate(clockwise bool) bool
	Hold() bool
	SoftDrop(on bool) bool
	HardDrop(now time.Time) bool
	Update(now time.Time) []game.Update
	Score() int
	IsOver() bool
}

// actionMessage is the client-to-server envelope. Reset disambiguates
// soft-drop start (absent/false) from soft-drop end (true) for the "down"
// action; Name optionally labels the player on the leaderboard.
type actionMessage struct {
	Action string `json:"action"`
	Reset  bool   `json:"reset,omitempty"`
	Name   string `json:"name,omitempty"`
}

type actionHandler func(id string, session gameSession, msg *actionMessage, sender websocket.Sender)

// SessionManager owns one game session per connection and routes inbound
// actions to it. It implements the event loop's Handler interface, so all
// of its methods run on the loop goroutine.
type SessionManager struct {
	ctx         context.Context
	logger      *slog.Logger
	leaderboard leaderboardRepo

	sessions   map[string]gameSession
	newSession func() gameSession
	names      map[string]string
	recorded   map[string]bool

	handlers map[string]actionHandler
}

func NewSessionManager(ctx context.Context, logger *slog.Logger, leaderboard leaderboardRepo) *SessionManager {
	manager := &SessionManager{
		ctx:         ctx,
		logger:      logger.With("component", "sessions"),
		leaderboard: leaderboard,
		sessions:    make(map[string]gameSession),
		newSession:  func() gameSession { return game.NewSession() },
		names:       make(map[string]string),
		recorded:    make(map[string]bool),
		handlers:    make(map[string]actionHandler),
	}

	manager.handlers["start"] = manager.handleStart
	manager.handlers["pause"] = manager.handlePause
	manager.handlers["resume"] = manager.handleResume
	manager.handlers["reset"] = manager.handleReset
	manager.handlers["left"] = manager.handleLeft
	manager.handlers["right"] = manager.handleRight
	manager.handlers["rotate"] = manager.handleRotate
	manager.handlers["rotate_ccw"] = manager.handleRotateCCW
	manager.handlers["down"] = manager.handleDown
	manager.handlers["hard_drop"] = manager.handleHardDrop
	manager.handlers["hold"] = manager.handleHold

	return manager
}

// OnOpen creates the session for a fresh connection and tells the client
// its assigned identifier.
func (that *SessionManager) OnOpen(id string, sender websocket.Sender) {
	that.sessions[id] = that.newSession()
	that.names[id] = shortName(id)

	that.send(sender, id, game.Update{Type: game.UpdateInit, Data: map[string]string{"id": id}})

	that.logger.Info("session created", "id", id)
}

// OnMessage routes one decoded action to the owning session. Malformed
// JSON, unknown actions and actions for unknown connections are dropped
// silently; the client only ever sees legitimate updates or silence.
func (that *SessionManager) OnMessage(id string, payload []byte, sender websocket.Sender) {
	session, ok := that.sessions[id]
	if !ok {
		return
	}

	var msg actionMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		that.logger.Debug("dropping malformed message", "id", id, "error", err)
		return
	}

	handler, ok := that.handlers[msg.Action]
	if !ok {
		that.logger.Debug("dropping unknown action", "id", id, "action", msg.Action)
		return
	}

	handler(id, session, &msg, sender)
}

// OnTick advances every session by one step and pushes whatever each one
// emitted to its owning connection.
func (that *SessionManager) OnTick(sender websocket.Sender) {
	now := time.Now()

	for id, session := range that.sessions {
		for _, update := range session.Update(now) {
			that.send(sender, id, update)
		}

		if session.IsOver() && !that.recorded[id] {
			that.recordScore(id, session)
		}
	}
}

// OnClose records the final score and drops the session.
func (that *SessionManager) OnClose(id string) {
	session, ok := that.sessions[id]
	if !ok {
		return
	}

	if !that.recorded[id] && session.Score() > 0 {
		that.recordScore(id, session)
	}

	delete(that.sessions, id)
	delete(that.names, id)
	delete(that.recorded, id)

	that.logger.Info("session destroyed", "id", id)
}

func (that *SessionManager) handleStart(id string, session gameSession, msg *actionMessage, sender websocket.Sender) {
	if msg.Name != "" {
		that.names[id] = msg.Name
	}

	if session.Start(time.Now()) {
		that.send(sender, id, game.Update{Type: game.UpdateStart})
	}
}

func (that *SessionManager) handlePause(id string, session gameSession, _ *actionMessage, sender websocket.Sender) {
	if session.Pause() {
		that.send(sender, id, game.Update{Type: game.UpdatePause})
	}
}

func (that *SessionManager) handleResume(id string, session gameSession, _ *actionMessage, sender websocket.Sender) {
	if session.Resume(time.Now()) {
		that.send(sender, id, game.Update{Type: game.UpdateResume})
	}
}

func (that *SessionManager) handleReset(id string, session gameSession, _ *actionMessage, _ websocket.Sender) {
	if !that.recorded[id] && session.Score() > 0 {
		that.recordScore(id, session)
	}

	session.Reset()
	delete(that.recorded, id)
}

func (that *SessionManager) handleLeft(_ string, session gameSession, _ *actionMessage, _ websocket.Sender) {
	session.MoveLeft()
}

func (that *SessionManager) handleRight(_ string, session gameSession, _ *actionMessage, _ websocket.Sender) {
	session.MoveRight()
}

func (that *SessionManager) handleRotate(_ string, session gameSession, _ *actionMessage, _ websocket.Sender) {
	session.Rotate(true)
}

func (that *SessionManager) handleRotateCCW(_ string, session gameSession, _ *actionMessage, _ websocket.Sender) {
	session.Rotate(false)
}

func (that *SessionManager) handleDown(_ string, session gameSession, msg *actionMessage, _ websocket.Sender) {
	session.SoftDrop(!msg.Reset)
}

func (that *SessionManager) handleHardDrop(_ string, session gameSession, _ *actionMessage, _ websocket.Sender) {
	session.HardDrop(time.Now())
}

func (that *SessionManager) handleHold(_ string, session gameSession, _ *actionMessage, _ websocket.Sender) {
	session.Hold()
}

func (that *SessionManager) send(sender websocket.Sender, id string, update game.Update) {
	payload, err := json.Marshal(update)
	if err != nil {
		that.logger.Error("failed to marshal update", "id", id, "type", update.Type, "error", err)
		return
	}

	sender.Send(id, payload)
}

// recordScore writes the final score to the leaderboard, best effort.
func (that *SessionManager) recordScore(id string, session gameSession) {
	that.recorded[id] = true

	if that.leaderboard == nil || session.Score() == 0 {
		return
	}

	if err := that.leaderboard.RecordScore(that.ctx, that.names[id], session.Score()); err != nil {
		that.logger.Error("failed to record score", "id", id, "error", err)
	}
}

// shortName is the default leaderboard label for an unnamed player.
func shortName(id string) string {
	if len(id) > 8 {
		return "anon-" + id[:8]
	}
	return "anon-" + id
}

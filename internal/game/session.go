package game

import "time"

const (
	statusIdle    = "idle"
	statusPlaying = "playing"
	statusPaused  = "paused"
	statusOver    = "over"
)

// softDropInterval overrides the level-derived drop interval while the
// player holds the down key.
const softDropInterval = 50 * time.Millisecond

// Session is the authoritative game state for one connection: a playfield,
// a bag, the falling piece and the score bookkeeping. It is created on
// connection open, mutated only by the dispatcher and the tick callback,
// and destroyed on close.
type Session struct {
	field   Playfield
	bag     *Bag
	current *Tetromino
	held    Shape

	holdUsed bool
	lines    int
	score    int
	status   string

	lastDrop     time.Time
	dropOverride time.Duration

	dirty dirtyFlags
}

func NewSession() *Session {
	return &Session{
		field:  NewPlayfield(),
		bag:    NewBag(),
		status: statusIdle,
	}
}

// Start spawns the first piece and marks the session playing. It is a no-op
// unless the session is idle.
func (that *Session) Start(now time.Time) bool {
	if that.status != statusIdle {
		return false
	}

	that.status = statusPlaying
	that.lastDrop = now
	that.spawn()
	that.dirty = allDirty()

	return true
}

// Pause suspends gravity without touching board state.
func (that *Session) Pause() bool {
	if that.status != statusPlaying {
		return false
	}

	that.status = statusPaused

	return true
}

// Resume unpauses; it never resets the board.
func (that *Session) Resume(now time.Time) bool {
	if that.status != statusPaused {
		return false
	}

	that.status = statusPlaying
	that.lastDrop = now

	return true
}

// Reset discards the board and returns the session to idle, waiting for the
// next Start.
func (that *Session) Reset() {
	that.field = NewPlayfield()
	that.bag = NewBag()
	that.current = nil
	that.held = nil
	that.holdUsed = false
	that.lines = 0
	that.score = 0
	that.status = statusIdle
	that.dropOverride = 0
	that.dirty = allDirty()
}

func (that *Session) Score() int {
	return that.score
}

func (that *Session) Level() int {
	return LevelForLines(that.lines)
}

func (that *Session) Lines() int {
	return that.lines
}

func (that *Session) IsOver() bool {
	return that.status == statusOver
}

// Update advances the simulation by one tick and returns the change
// notifications to push, at most one per kind.
func (that *Session) Update(now time.Time) []Update {
	if that.status == statusOver {
		return []Update{{Type: UpdateOver}}
	}

	if that.status == statusPlaying && now.Sub(that.lastDrop) >= that.dropInterval() {
		that.stepDown(now)
	}

	return that.flush()
}

// MoveLeft translates the piece one column left; rejected if it collides.
func (that *Session) MoveLeft() bool {
	return that.translate(-1)
}

// MoveRight translates the piece one column right; rejected if it collides.
func (that *Session) MoveRight() bool {
	return that.translate(1)
}

func (that *Session) translate(dx int) bool {
	if that.status != statusPlaying {
		return false
	}

	moved := that.current.Clone()
	moved.X += dx
	if IsCollided(moved, that.field) {
		return false
	}

	that.current = moved
	that.dirty.piece = true

	return true
}

// Rotate turns the piece a quarter turn; rejected if the rotated piece
// collides. No wall kicks are attempted.
func (that *Session) Rotate(clockwise bool) bool {
	if that.status != statusPlaying {
		return false
	}

	rotated := that.current.Clone()
	rotated.Shape = rotated.Shape.Rotated(clockwise)
	if IsCollided(rotated, that.field) {
		return false
	}

	that.current = rotated
	that.dirty.piece = true

	return true
}

// Hold stashes the current piece, or swaps it with the stashed one, at most
// once per lock cycle.
func (that *Session) Hold() bool {
	if that.status != statusPlaying || that.holdUsed {
		return false
	}

	stashed := that.held
	that.held = that.current.Shape.Clone()

	if stashed == nil {
		that.spawn()
	} else {
		that.current = &Tetromino{
			X:     (Columns - stashed.Width()) / 2,
			Y:     -HiddenRows,
			Shape: stashed,
		}
		if IsCollided(that.current, that.field) {
			that.status = statusOver
		}
	}

	that.holdUsed = true
	that.dirty.hold = true
	that.dirty.piece = true

	return true
}

// SoftDrop switches the drop interval to the fast constant while on, and
// back to the level-derived value when off.
func (that *Session) SoftDrop(on bool) bool {
	if that.status != statusPlaying {
		return false
	}

	if on {
		that.dropOverride = softDropInterval
	} else {
		that.dropOverride = 0
	}

	return true
}

// HardDrop steps the piece down until the move is rejected and locks it,
// fast-forwarding several natural ticks in one action.
func (that *Session) HardDrop(now time.Time) bool {
	if that.status != statusPlaying {
		return false
	}

	for that.status == statusPlaying {
		moved := that.current.Clone()
		moved.Y++

		if IsCollided(moved, that.field) {
			that.lock()
			break
		}

		that.current = moved
		that.lastDrop = now
	}

	that.dirty.piece = true

	return true
}

func (that *Session) dropInterval() time.Duration {
	if that.dropOverride != 0 {
		return that.dropOverride
	}

	return DropIntervalForLevel(that.Level())
}

func (that *Session) stepDown(now time.Time) {
	moved := that.current.Clone()
	moved.Y++

	if IsCollided(moved, that.field) {
		that.lock()
		that.lastDrop = now
		return
	}

	that.current = moved
	that.lastDrop = now
	that.dirty.piece = true
}

// lock merges the piece at its last valid position, clears full rows,
// applies scoring and deals the next piece.
func (that *Session) lock() {
	that.field.Merge(that.current)

	cleared := that.field.ClearFullLines()
	if cleared > 0 {
		that.score += ScoreForClear(cleared, that.Level())
		that.lines += cleared
		that.dropOverride = 0
	}

	that.holdUsed = false
	that.spawn()

	that.dirty.field = true
	that.dirty.status = true
}

// spawn deals the next piece from the bag; a spawn that immediately
// collides with locked cells ends the game.
func (that *Session) spawn() {
	that.current = NewTetromino(that.bag.Next(), Columns)
	that.dirty.piece = true
	that.dirty.next = true

	if IsCollided(that.current, that.field) {
		that.status = statusOver
	}
}

// ghost is the lowest non-colliding projection of the current piece.
func (that *Session) ghost() *Tetromino {
	projected := that.current.Clone()
	for {
		projected.Y++
		if IsCollided(projected, that.field) {
			projected.Y--
			return projected
		}
	}
}

func (that *Session) flush() []Update {
	updates := buildUpdates(that, that.dirty)
	that.dirty = dirtyFlags{}

	return updates
}

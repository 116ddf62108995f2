package game

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestSession builds a session whose bag deals the given kinds first,
// falling back to a seeded shuffle afterwards.
func newTestSession(kinds ...int) *Session {
	session := NewSession()
	session.bag = &Bag{
		kinds: kinds,
		rng:   rand.New(rand.NewSource(0)),
	}

	return session
}

func TestSession_Start(t *testing.T) {
	t0 := time.Now()

	t.Run("Spawns the first piece and starts playing", func(t *testing.T) {
		session := newTestSession(KindO, KindI)

		require.True(t, session.Start(t0))
		require.NotNil(t, session.current)
		assert.Equal(t, 4, session.current.X)
		assert.Equal(t, -HiddenRows, session.current.Y)
	})

	t.Run("No-op when already playing", func(t *testing.T) {
		session := newTestSession(KindO, KindI)

		require.True(t, session.Start(t0))
		assert.False(t, session.Start(t0))
	})

	t.Run("Ends immediately when the spawn collides", func(t *testing.T) {
		session := newTestSession(KindO, KindI)

		// Given: a locked cell inside the O spawn footprint
		session.field[0][4] = KindJ

		session.Start(t0)

		require.True(t, session.IsOver())

		// Then: every further tick only reports the terminal state
		updates := session.Update(t0)
		require.Len(t, updates, 1)
		assert.Equal(t, UpdateOver, updates[0].Type)
	})
}

func TestSession_Move(t *testing.T) {
	t0 := time.Now()

	t.Run("O piece walks to the wall and stops", func(t *testing.T) {
		session := newTestSession(KindO, KindI)
		session.Start(t0)

		require.Equal(t, 4, session.current.X)

		// When: moving left four times
		for i := 0; i < 4; i++ {
			require.True(t, session.MoveLeft(), "move %d", i+1)
		}

		// Then: the fifth move is rejected and the piece stays at x=0
		assert.False(t, session.MoveLeft())
		assert.Equal(t, 0, session.current.X)
	})

	t.Run("Rotating an O piece changes nothing observable", func(t *testing.T) {
		session := newTestSession(KindO, KindI)
		session.Start(t0)

		before := session.current.Shape.Clone()

		session.Rotate(true)

		assert.Equal(t, before, session.current.Shape)
	})

	t.Run("Rejected against locked cells", func(t *testing.T) {
		session := newTestSession(KindO, KindI)
		session.Start(t0)
		session.current.Y = 10

		session.field[10+HiddenRows][3] = KindZ

		assert.False(t, session.MoveLeft())
		assert.Equal(t, 4, session.current.X)
	})
}

func TestSession_Gravity(t *testing.T) {
	t0 := time.Now()

	t.Run("Piece descends once the drop interval elapses", func(t *testing.T) {
		session := newTestSession(KindT, KindO)
		session.Start(t0)
		session.Update(t0) // flush the initial state

		y := session.current.Y

		updates := session.Update(t0.Add(1100 * time.Millisecond))

		assert.Equal(t, y+1, session.current.Y)

		kinds := updateKinds(updates)
		assert.Contains(t, kinds, UpdateTetromino)
		assert.Contains(t, kinds, UpdateGhost)
	})

	t.Run("Nothing happens before the interval", func(t *testing.T) {
		session := newTestSession(KindT, KindO)
		session.Start(t0)
		session.Update(t0)

		y := session.current.Y

		updates := session.Update(t0.Add(100 * time.Millisecond))

		assert.Equal(t, y, session.current.Y)
		assert.Empty(t, updates)
	})

	t.Run("Soft drop overrides the interval and reset restores it", func(t *testing.T) {
		session := newTestSession(KindT, KindO)
		session.Start(t0)

		require.True(t, session.SoftDrop(true))
		assert.Equal(t, softDropInterval, session.dropInterval())

		require.True(t, session.SoftDrop(false))
		assert.Equal(t, DropIntervalForLevel(session.Level()), session.dropInterval())
	})
}

func TestSession_HardDrop(t *testing.T) {
	t0 := time.Now()

	t.Run("Vertical I locks without clearing anything", func(t *testing.T) {
		session := newTestSession(KindI, KindO)
		session.Start(t0)

		// Given: the I piece turned upright
		require.True(t, session.Rotate(true))

		// When: dropping it to the floor
		require.True(t, session.HardDrop(t0))

		// Then: it occupies one column of the bottom four rows, no clear
		for y := VisibleRows - 4; y < VisibleRows; y++ {
			assert.Equal(t, KindI, session.field.At(3, y))
		}
		assert.Equal(t, 0, session.Score())
		assert.Equal(t, 0, session.Lines())

		// each occupied row still has nine empty cells
		occupied := 0
		for x := 0; x < Columns; x++ {
			if session.field.At(x, VisibleRows-1) != 0 {
				occupied++
			}
		}
		assert.Equal(t, 1, occupied)
	})

	t.Run("Completing a row scores forty times the level", func(t *testing.T) {
		session := newTestSession(KindI, KindO, KindT)
		session.Start(t0)

		// Given: the bottom row full except the columns under the I piece
		for _, x := range []int{0, 1, 2, 7, 8, 9} {
			session.field[VisibleRows-1+HiddenRows][x] = KindL
		}

		// When: locking the I piece into the gap
		require.True(t, session.HardDrop(t0))

		// Then: exactly one line clears and the score reflects level 1
		assert.Equal(t, 1, session.Lines())
		assert.Equal(t, 40, session.Score())

		for x := 0; x < Columns; x++ {
			assert.Equal(t, 0, session.field.At(x, VisibleRows-1))
		}
	})
}

func TestSession_Hold(t *testing.T) {
	t0 := time.Now()

	session := newTestSession(KindO, KindI, KindT, KindS)
	session.Start(t0)

	// First hold stashes the O piece and spawns the I
	require.True(t, session.Hold())
	assert.Equal(t, kindShapes[KindO], session.held)
	assert.Equal(t, kindShapes[KindI], session.current.Shape)

	// Hold is spent until the next lock
	assert.False(t, session.Hold())

	require.True(t, session.HardDrop(t0))
	assert.Equal(t, kindShapes[KindT], session.current.Shape)

	// After locking, hold swaps the stash with the current piece
	require.True(t, session.Hold())
	assert.Equal(t, kindShapes[KindO], session.current.Shape)
	assert.Equal(t, kindShapes[KindT], session.held)
	assert.Equal(t, 4, session.current.X)
	assert.Equal(t, -HiddenRows, session.current.Y)
}

func TestSession_PauseResume(t *testing.T) {
	t0 := time.Now()

	session := newTestSession(KindT, KindO)

	// Pausing before the game starts is rejected
	assert.False(t, session.Pause())

	session.Start(t0)

	require.True(t, session.Pause())
	assert.False(t, session.Pause())

	// Actions are no-ops while paused
	assert.False(t, session.MoveLeft())
	assert.False(t, session.Rotate(true))
	assert.False(t, session.HardDrop(t0))
	assert.False(t, session.Hold())

	// Gravity is suspended too
	y := session.current.Y
	session.Update(t0.Add(5 * time.Second))
	assert.Equal(t, y, session.current.Y)

	// Resume unpauses without resetting the board
	require.True(t, session.Resume(t0.Add(5 * time.Second)))
	assert.False(t, session.Resume(t0))
	assert.True(t, session.MoveLeft())
}

func TestSession_Reset(t *testing.T) {
	t0 := time.Now()

	session := newTestSession(KindI, KindO, KindT)
	session.Start(t0)
	require.True(t, session.HardDrop(t0))

	session.Reset()

	assert.False(t, session.IsOver())
	assert.Equal(t, 0, session.Score())
	assert.Equal(t, 0, session.Lines())
	for y := 0; y < VisibleRows; y++ {
		for x := 0; x < Columns; x++ {
			require.Equal(t, 0, session.field.At(x, y))
		}
	}

	// a reset session can start fresh
	assert.True(t, session.Start(t0))
}

func TestSession_Emission(t *testing.T) {
	t0 := time.Now()

	t.Run("First tick after start emits the full state once", func(t *testing.T) {
		session := newTestSession(KindT, KindO)
		session.Start(t0)

		kinds := updateKinds(session.Update(t0))

		assert.ElementsMatch(t, []string{
			UpdateField, UpdateTetromino, UpdateGhost, UpdateNext, UpdateStatus,
		}, kinds)

		// nothing changed, nothing emitted
		assert.Empty(t, session.Update(t0.Add(time.Millisecond)))
	})

	t.Run("Hold preview appears only once a piece is held", func(t *testing.T) {
		session := newTestSession(KindT, KindO)
		session.Start(t0)
		session.Update(t0)

		require.True(t, session.Hold())

		kinds := updateKinds(session.Update(t0.Add(time.Millisecond)))
		assert.Contains(t, kinds, UpdateHold)
	})

	t.Run("Emission itself does not mutate the session", func(t *testing.T) {
		session := newTestSession(KindT, KindO)
		session.Start(t0)

		first := buildUpdates(session, allDirty())
		second := buildUpdates(session, allDirty())

		assert.Equal(t, updateKinds(first), updateKinds(second))
	})

	t.Run("Status block carries score, level and lines", func(t *testing.T) {
		session := newTestSession(KindT, KindO)
		session.Start(t0)
		session.score = 300
		session.lines = 12

		updates := buildUpdates(session, dirtyFlags{status: true})

		require.Len(t, updates, 1)
		require.Equal(t, UpdateStatus, updates[0].Type)
		assert.Equal(t, StatusData{Score: 300, Level: 2, Lines: 12}, updates[0].Data)
	})
}

func updateKinds(updates []Update) []string {
	kinds := make([]string, 0, len(updates))
	for _, update := range updates {
		kinds = append(kinds, update.Type)
	}

	return kinds
}

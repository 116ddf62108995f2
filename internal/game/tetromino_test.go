package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTetromino(t *testing.T) {
	t.Run("Spawns at top-center", func(t *testing.T) {
		// Given: the 2x2 O kind on a 10-column field
		piece := NewTetromino(KindO, Columns)

		// Then: it sits centered inside the hidden region
		assert.Equal(t, 4, piece.X)
		assert.Equal(t, -HiddenRows, piece.Y)
		assert.Equal(t, Shape{{4, 4}, {4, 4}}, piece.Shape)
	})

	t.Run("Shape is a copy, not an alias", func(t *testing.T) {
		piece := NewTetromino(KindI, Columns)
		piece.Shape[0][0] = 9

		other := NewTetromino(KindI, Columns)

		assert.Equal(t, 1, other.Shape[0][0])
	})
}

func TestShape_Rotated(t *testing.T) {
	t.Run("Clockwise turns a rectangular grid", func(t *testing.T) {
		// Given: the 2x3 J shape
		shape := kindShapes[KindJ]

		// When: rotating clockwise once
		rotated := shape.Rotated(true)

		// Then: dimensions swap and cells land as expected
		expected := Shape{
			{2, 2},
			{2, 0},
			{2, 0},
		}
		require.Equal(t, expected, rotated)
	})

	t.Run("Counter-clockwise inverts clockwise", func(t *testing.T) {
		for kind := KindI; kind <= KindZ; kind++ {
			shape := kindShapes[kind]

			assert.Equal(t, shape, shape.Rotated(true).Rotated(false))
		}
	})

	t.Run("Four clockwise turns restore the original", func(t *testing.T) {
		for kind := KindI; kind <= KindZ; kind++ {
			shape := kindShapes[kind]

			rotated := shape.Clone()
			for i := 0; i < 4; i++ {
				rotated = rotated.Rotated(true)
			}

			assert.Equal(t, shape, rotated, "kind %d", kind)
		}
	})

	t.Run("Does not mutate the receiver", func(t *testing.T) {
		shape := kindShapes[KindS].Clone()
		_ = shape.Rotated(true)

		assert.Equal(t, kindShapes[KindS], shape)
	})
}

func TestTetromino_Clone(t *testing.T) {
	piece := NewTetromino(KindT, Columns)

	cloned := piece.Clone()
	cloned.X = 0
	cloned.Shape[0][1] = 0

	assert.Equal(t, 3, piece.X)
	assert.Equal(t, 6, piece.Shape[0][1])
}

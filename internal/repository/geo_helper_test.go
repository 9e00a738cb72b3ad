package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"CensusMap-App/internal/domain/model"
)

func TestContainsPoint(t *testing.T) {
	bbox := model.BoundingBox{North: 28, South: 27, East: 86, West: 85}

	t.Run("内部の座標", func(t *testing.T) {
		assert.True(t, ContainsPoint(bbox, 27.5, 85.5))
	})

	t.Run("境界上の座標", func(t *testing.T) {
		assert.True(t, ContainsPoint(bbox, 27, 85))
		assert.True(t, ContainsPoint(bbox, 28, 86))
	})

	t.Run("外部の座標", func(t *testing.T) {
		assert.False(t, ContainsPoint(bbox, 26.9, 85.5))
		assert.False(t, ContainsPoint(bbox, 27.5, 86.1))
	})
}

func TestPadBoundingBox(t *testing.T) {
	bbox := model.BoundingBox{North: 28, South: 27, East: 86, West: 85}

	padded := PadBoundingBox(bbox, 0.001)

	assert.InDelta(t, 28.001, padded.North, 1e-9)
	assert.InDelta(t, 26.999, padded.South, 1e-9)
	assert.InDelta(t, 86.001, padded.East, 1e-9)
	assert.InDelta(t, 84.999, padded.West, 1e-9)
}

package vocgrid

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeBox(t *testing.T) {
	x, y, box := encodeBox([4]float64{5, 4, 15, 20}, 32, 4)

	assert.Equal(t, 1, x)
	assert.Equal(t, 1, y)
	assert.InDelta(t, 0.25, box[0], 1e-6)
	assert.InDelta(t, 0.5, box[1], 1e-6)
	assert.InDelta(t, math.Sqrt(10.0/32), box[2], 1e-6)
	assert.InDelta(t, math.Sqrt(16.0/32), box[3], 1e-6)
}

func TestEncodeBoxOnFarEdge(t *testing.T) {
	// A degenerate box on the right and bottom image edge maps past the last cell.
	x, y, box := encodeBox([4]float64{32, 32, 32, 32}, 32, 4)

	assert.Equal(t, 3, x)
	assert.Equal(t, 3, y)
	assert.InDelta(t, 1, box[0], 1e-6)
	assert.InDelta(t, 1, box[1], 1e-6)
	assert.Zero(t, box[2])
	assert.Zero(t, box[3])
}

func TestSetCellDuplicatesSlots(t *testing.T) {
	cfg := testConfig("")
	label := NewLabelTensor(cfg)
	require.Equal(t, []int{4, 4, 3, 25}, label.Shape())
	require.Len(t, label.Data, 4*4*3*25)

	box := [4]float32{0.1, 0.2, 0.3, 0.4}
	label.setCell(2, 1, box, 7)

	for slot := 0; slot < cfg.BoxesPerCell; slot++ {
		assert.Equal(t, float32(1), label.Objectness(2, 1, slot))
		assert.Equal(t, box, label.Box(2, 1, slot))
		assert.Equal(t, float32(1), label.At(2, 1, slot, labelClasses+7))
	}
	assert.Equal(t, 7, label.Class(2, 1))
	assert.True(t, label.Occupied(2, 1))
	assert.False(t, label.Occupied(1, 2))
	assert.Equal(t, -1, label.Class(1, 2))
}

func TestSetCellLastWriteWins(t *testing.T) {
	label := NewLabelTensor(testConfig(""))
	label.setCell(0, 0, [4]float32{0.1, 0.1, 0.1, 0.1}, 3)
	label.setCell(0, 0, [4]float32{0.9, 0.9, 0.9, 0.9}, 5)

	assert.Equal(t, [4]float32{0.9, 0.9, 0.9, 0.9}, label.Box(0, 0, 0))
	assert.Equal(t, 5, label.Class(0, 0))
	assert.Zero(t, label.At(0, 0, 0, labelClasses+3))
}

func TestDecodeBoxes(t *testing.T) {
	cfg := testConfig("")
	label := NewLabelTensor(cfg)

	coords := [4]float64{5, 4, 15, 20}
	x, y, box := encodeBox(coords, cfg.ImageSize, cfg.CellSize)
	label.setCell(x, y, box, 11)

	boxes := label.DecodeBoxes(cfg.ImageSize)
	require.Len(t, boxes, 1)
	assert.Equal(t, 1, boxes[0].CellX)
	assert.Equal(t, 1, boxes[0].CellY)
	assert.Equal(t, 11, boxes[0].Class)
	for i := range coords {
		assert.InDelta(t, coords[i], boxes[0].Coords[i], 1e-4)
	}
}

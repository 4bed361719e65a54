package vocgrid

// The dense label grid consumed by the detector loss.

import (
	"math"
)

// Offsets into the per slot label vector.
const (
	labelObjectness = 0
	labelX          = 1 // Center x offset within the cell, [0, 1].
	labelY          = 2 // Center y offset within the cell, [0, 1].
	labelW          = 3 // sqrt(width / image size).
	labelH          = 4 // sqrt(height / image size).
	labelClasses    = 5 // Start of the one-hot class vector.
)

// LabelTensor is a dense (cells, cells, boxes, 5+classes) grid stored row-major as
// [y][x][slot][k].
//
// All box slots of a cell carry identical objectness and box values. The one-hot class vector is
// stored in every slot too, so that the layout matches the network output.
type LabelTensor struct {
	Data         []float32
	CellSize     int
	BoxesPerCell int
	NumClasses   int
}

// NewLabelTensor allocates a zeroed label tensor with the geometry of cfg.
func NewLabelTensor(cfg Config) *LabelTensor {
	return &LabelTensor{
		Data:         make([]float32, cfg.CellSize*cfg.CellSize*cfg.BoxesPerCell*cfg.LabelDepth()),
		CellSize:     cfg.CellSize,
		BoxesPerCell: cfg.BoxesPerCell,
		NumClasses:   cfg.NumClasses(),
	}
}

// Depth is the length of the per slot vector.
func (l *LabelTensor) Depth() int {
	return labelClasses + l.NumClasses
}

// Shape returns the tensor dimensions.
func (l *LabelTensor) Shape() []int {
	return []int{l.CellSize, l.CellSize, l.BoxesPerCell, l.Depth()}
}

// offset is the flat index of element k of the given slot in cell (x, y).
func (l *LabelTensor) offset(x, y, slot, k int) int {
	return ((y*l.CellSize+x)*l.BoxesPerCell+slot)*l.Depth() + k
}

// At returns element k of the given slot in cell (x, y).
func (l *LabelTensor) At(x, y, slot, k int) float32 {
	return l.Data[l.offset(x, y, slot, k)]
}

// Objectness returns the objectness flag of a slot.
func (l *LabelTensor) Objectness(x, y, slot int) float32 {
	return l.At(x, y, slot, labelObjectness)
}

// Box returns the 4 box parameters of a slot.
func (l *LabelTensor) Box(x, y, slot int) [4]float32 {
	o := l.offset(x, y, slot, labelX)
	return [4]float32{l.Data[o], l.Data[o+1], l.Data[o+2], l.Data[o+3]}
}

// Class returns the index of the first set class bit in cell (x, y), or -1 if none is set.
func (l *LabelTensor) Class(x, y int) int {
	o := l.offset(x, y, 0, labelClasses)
	for c := 0; c < l.NumClasses; c++ {
		if l.Data[o+c] != 0 {
			return c
		}
	}
	return -1
}

// Occupied reports whether an object center falls into cell (x, y).
func (l *LabelTensor) Occupied(x, y int) bool {
	return l.Objectness(x, y, 0) != 0
}

// setCell writes the box into all slots of cell (x, y) and sets the class bit. An existing object
// in the cell is replaced entirely, class included, so the class vector stays one-hot.
func (l *LabelTensor) setCell(x, y int, box [4]float32, class int) {
	for slot := 0; slot < l.BoxesPerCell; slot++ {
		o := l.offset(x, y, slot, 0)
		l.Data[o+labelObjectness] = 1
		copy(l.Data[o+labelX:o+labelClasses], box[:])

		classes := l.Data[o+labelClasses : o+l.Depth()]
		for c := range classes {
			classes[c] = 0
		}
		classes[class] = 1
	}
}

// CellBox is a decoded label: the object box in pixel coordinates on the resized image.
type CellBox struct {
	CellX, CellY int
	Class        int
	Coords       [4]float64 // x1, y1, x2, y2
}

// DecodeBoxes inverts the label encoding for every occupied cell, in row-major cell order.
func (l *LabelTensor) DecodeBoxes(imageSize int) []CellBox {
	size := float64(imageSize)
	cell := size / float64(l.CellSize)

	var boxes []CellBox
	for y := 0; y < l.CellSize; y++ {
		for x := 0; x < l.CellSize; x++ {
			if !l.Occupied(x, y) {
				continue
			}
			b := l.Box(x, y, 0)
			cx := (float64(x) + float64(b[0])) * cell
			cy := (float64(y) + float64(b[1])) * cell
			w := float64(b[2]) * float64(b[2]) * size
			h := float64(b[3]) * float64(b[3]) * size
			boxes = append(boxes, CellBox{
				CellX:  x,
				CellY:  y,
				Class:  l.Class(x, y),
				Coords: [4]float64{cx - w/2, cy - h/2, cx + w/2, cy + h/2},
			})
		}
	}
	return boxes
}

// encodeBox converts clamped pixel coordinates on the resized image into the grid cell and the
// per slot box parameters.
func encodeBox(coords [4]float64, imageSize, cellSize int) (cellX, cellY int, box [4]float32) {
	size := float64(imageSize)
	x1, y1, x2, y2 := coords[0], coords[1], coords[2], coords[3]

	cx := 0.5 * (x1 + x2)
	cy := 0.5 * (y1 + y2)
	w := math.Sqrt((x2 - x1) / size)
	h := math.Sqrt((y2 - y1) / size)

	gx := cx * float64(cellSize) / size
	gy := cy * float64(cellSize) / size
	cellX = clampCell(int(math.Floor(gx)), cellSize)
	cellY = clampCell(int(math.Floor(gy)), cellSize)

	box = [4]float32{
		float32(gx - float64(cellX)),
		float32(gy - float64(cellY)),
		float32(w),
		float32(h),
	}
	return cellX, cellY, box
}

// clampCell keeps centers on the far image edge inside the last cell.
func clampCell(i, cellSize int) int {
	if i >= cellSize {
		return cellSize - 1
	}
	if i < 0 {
		return 0
	}
	return i
}

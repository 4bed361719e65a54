package vocgrid

// Fixed-size batching over a label index.

import (
	"math/rand"
)

// Batch is a fixed number of samples materialised into stacked arrays.
type Batch struct {
	Paths  []string  // The image of each sample.
	Images []float32 // Shape (Size, ImageSize, ImageSize, 3), values in [-1, 1].
	Labels []float32 // Shape (Size, CellSize, CellSize, BoxesPerCell, 5+NumClasses).
	Size   int

	imageShape []int
	labelShape []int
}

// ImageShape is the shape of Images.
func (b *Batch) ImageShape() []int {
	return append([]int{b.Size}, b.imageShape...)
}

// LabelShape is the shape of Labels.
func (b *Batch) LabelShape() []int {
	return append([]int{b.Size}, b.labelShape...)
}

// BatchIterator walks an index in order and produces batches of cfg.BatchSize samples, wrapping
// around at the end of the index.
//
// In training mode the index is reshuffled in place and the epoch counter is incremented on every
// wrap. In evaluation mode the order is never changed.
//
// A BatchIterator must not be used from more than one goroutine. Iterators sharing an index must
// not run concurrently with a training iterator over it.
type BatchIterator struct {
	cfg   Config
	index Index
	rng   *rand.Rand // Nil in evaluation mode.

	cursor int
	epoch  int
}

// NewTrainIterator returns an iterator that reshuffles index with rng after each full pass.
func NewTrainIterator(index Index, cfg Config, rng *rand.Rand) *BatchIterator {
	return &BatchIterator{cfg: cfg, index: index, rng: rng, epoch: 1}
}

// NewEvalIterator returns an iterator that cycles over index in its current order.
func NewEvalIterator(index Index, cfg Config) *BatchIterator {
	return &BatchIterator{cfg: cfg, index: index}
}

// Epoch is the number of the current pass over the index, starting at 1. It stays 1 in evaluation
// mode.
func (it *BatchIterator) Epoch() int {
	if it.rng == nil {
		return 1
	}
	return it.epoch
}

// Cursor is the position of the next sample in the index.
func (it *BatchIterator) Cursor() int {
	return it.cursor
}

// Index returns the index in its current order.
func (it *BatchIterator) Index() Index {
	return it.index
}

// Next loads the next cfg.BatchSize samples. The epoch may advance during the call.
//
// If an image fails to load, the cursor, epoch and index order are left as they were before the
// call.
func (it *BatchIterator) Next() (*Batch, error) {
	if len(it.index) == 0 {
		return nil, ErrEmptyIndex
	}

	size := it.cfg.BatchSize
	imageLen := it.cfg.ImageSize * it.cfg.ImageSize * 3
	labelLen := len(it.index[0].Label.Data)

	b := &Batch{
		Paths:      make([]string, size),
		Images:     make([]float32, size*imageLen),
		Labels:     make([]float32, size*labelLen),
		Size:       size,
		imageShape: it.cfg.ImageShape(),
		labelShape: it.cfg.LabelShape(),
	}

	// A batch that wraps reshuffles the index in place.
	cursor, epoch := it.cursor, it.epoch
	var order Index
	if it.rng != nil && cursor+size >= len(it.index) {
		order = append(Index(nil), it.index...)
	}

	for n := 0; n < size; n++ {
		entry := it.index[it.cursor]

		img, err := LoadImage(entry.ImagePath, it.cfg.ImageSize)
		if err != nil {
			it.cursor, it.epoch = cursor, epoch
			if order != nil {
				copy(it.index, order)
			}
			return nil, err
		}
		b.Paths[n] = entry.ImagePath
		copy(b.Images[n*imageLen:(n+1)*imageLen], img)
		copy(b.Labels[n*labelLen:(n+1)*labelLen], entry.Label.Data)

		it.advance()
	}

	return b, nil
}

// advance moves the cursor, wrapping at the end of the index.
func (it *BatchIterator) advance() {
	it.cursor++
	if it.cursor < len(it.index) {
		return
	}

	it.cursor = 0
	if it.rng != nil {
		it.index.Shuffle(it.rng)
		it.epoch++
	}
}

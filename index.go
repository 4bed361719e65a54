package vocgrid

import (
	"log"
	"math/rand"

	"github.com/dustin/go-humanize"
)

// IndexEntry pairs an image with its precomputed label.
type IndexEntry struct {
	ImagePath string
	Label     *LabelTensor
	Objects   int // The number of annotated objects.
}

// Index is the in-memory label index of a split. Its order is changed by Shuffle.
type Index []IndexEntry

// Shuffle reorders the index in place, uniformly at random.
func (idx Index) Shuffle(rng *rand.Rand) {
	rng.Shuffle(len(idx), func(i, j int) {
		idx[i], idx[j] = idx[j], idx[i]
	})
}

// LoadLabels parses the annotations of all images listed for split and returns the shuffled index.
// Images whose annotation contains no objects are left out.
//
// Missing files and unknown classes abort the load; there is no partial index.
func LoadLabels(cfg Config, vocab *ClassVocabulary, split Split, rng *rand.Rand) (Index, error) {
	dir, err := split.Dir(cfg.DataDir)
	if err != nil {
		return nil, err
	}

	indices, err := readIndexList(dir, split)
	if err != nil {
		return nil, err
	}
	log.Printf("Parsing VOC labels for %s %s files", humanize.Comma(int64(len(indices))), split)

	idx := make(Index, 0, len(indices))
	for _, i := range indices {
		label, num, err := ParseAnnotation(cfg, vocab, dir, i)
		if err != nil {
			return nil, err
		}
		if num == 0 {
			continue
		}

		idx = append(idx, IndexEntry{
			ImagePath: vocImagePath(dir, i),
			Label:     label,
			Objects:   num,
		})
	}

	log.Printf("Filtered out %d files without objects", len(indices)-len(idx))
	idx.Shuffle(rng)
	return idx, nil
}

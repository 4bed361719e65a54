package vocgrid

import (
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadLabelsSkipsEmptyAnnotations(t *testing.T) {
	root := t.TempDir()
	cfg := testConfig(root)
	dir, err := Train.Dir(root)
	require.NoError(t, err)

	writeVOCSample(t, dir, "000001", 32, 32, []testObject{{"dog", 0, 0, 10, 10}})
	writeVOCSample(t, dir, "000002", 32, 32, nil)
	writeVOCSample(t, dir, "000003", 64, 64, []testObject{{"cat", 4, 4, 60, 60}, {"cat", 1, 1, 3, 3}})
	writeVOCList(t, dir, Train, []string{" 000001", "000002", "", "000003 "})

	idx, err := LoadLabels(cfg, NewClassVocabulary(cfg.Classes), Train, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	require.Len(t, idx, 2)

	paths := indexPaths(idx)
	sort.Strings(paths)
	assert.Equal(t, []string{vocImagePath(dir, "000001"), vocImagePath(dir, "000003")}, paths)
	for _, e := range idx {
		assert.NotEqual(t, vocImagePath(dir, "000002"), e.ImagePath)
		assert.NotZero(t, e.Objects)
	}
}

func TestLoadLabelsTestSplit(t *testing.T) {
	root := t.TempDir()
	cfg := testConfig(root)
	dir, err := Test.Dir(root)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "VOCdevkit-test", "VOC2007"), dir)

	writeVOCSample(t, dir, "000010", 32, 32, []testObject{{"boat", 0, 0, 10, 10}})
	writeVOCList(t, dir, Test, []string{"000010"})
	assert.Equal(t, filepath.Join(dir, "ImageSets", "Main", "test.txt"), vocListPath(dir, Test))

	idx, err := LoadLabels(cfg, NewClassVocabulary(cfg.Classes), Test, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	require.Len(t, idx, 1)
	assert.Equal(t, 1, idx[0].Objects)
}

func TestLoadLabelsErrors(t *testing.T) {
	root := t.TempDir()
	cfg := testConfig(root)
	vocab := NewClassVocabulary(cfg.Classes)
	rng := rand.New(rand.NewSource(1))

	_, err := LoadLabels(cfg, vocab, Split("val"), rng)
	assert.True(t, errors.Is(err, ErrUnknownSplit))

	// No index list.
	_, err = LoadLabels(cfg, vocab, Train, rng)
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist), "unexpected error %v", err)

	dir, _ := Train.Dir(root)
	writeVOCSample(t, dir, "000001", 32, 32, []testObject{{"dog", 0, 0, 10, 10}})
	writeVOCList(t, dir, Train, []string{"000001", "000002"})

	_, err = LoadLabels(cfg, vocab, Train, rng)
	var imageErr *ImageNotFoundError
	assert.True(t, errors.As(err, &imageErr), "unexpected error %v", err)
}

func TestIndexShuffle(t *testing.T) {
	cfg := testConfig("")
	idx := make(Index, 50)
	for i := range idx {
		idx[i] = IndexEntry{ImagePath: filepath.Join("img", string(rune('A'+i))), Label: NewLabelTensor(cfg)}
	}
	before := indexPaths(idx)

	idx.Shuffle(rand.New(rand.NewSource(7)))
	after := indexPaths(idx)

	assert.NotEqual(t, before, after)
	sort.Strings(after)
	assert.Equal(t, before, after)
}

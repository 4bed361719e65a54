package vocgrid

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 20, cfg.NumClasses())
	assert.Equal(t, []int{13, 13, 5, 25}, cfg.LabelShape())
	assert.Equal(t, []int{416, 416, 3}, cfg.ImageShape())

	// The defaults do not share the package level vocabulary.
	cfg.Classes[0] = "plane"
	assert.Equal(t, "aeroplane", VOCClasses[0])
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "conf.json")
	require.NoError(t, ioutil.WriteFile(path,
		[]byte(`{"image_size": 224, "cell_size": 7, "classes": ["person", "car"]}`), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 224, cfg.ImageSize)
	assert.Equal(t, 7, cfg.CellSize)
	assert.Equal(t, DefaultBoxesPerCell, cfg.BoxesPerCell)
	assert.Equal(t, []int{7, 7, 5, 7}, cfg.LabelShape())

	require.NoError(t, ioutil.WriteFile(path, []byte(`{"batch_size": 0}`), 0644))
	_, err = LoadConfig(path)
	assert.Error(t, err)

	_, err = LoadConfig(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

package vocgrid

// Dataset and detector geometry configuration.

import (
	"encoding/json"
	"io/ioutil"

	"github.com/pkg/errors"
)

// Default geometry of the detector the labels are prepared for.
const (
	DefaultImageSize    = 416 // Network input resolution (square).
	DefaultCellSize     = 13  // Output grid is DefaultCellSize x DefaultCellSize.
	DefaultBoxesPerCell = 5   // Box slots predicted per cell.
	DefaultBatchSize    = 30
	DefaultDataDir      = "data/Pascal_voc"
)

// VOCClasses is the PASCAL VOC 2007 class vocabulary. The order defines the class indices.
var VOCClasses = []string{
	"aeroplane", "bicycle", "bird", "boat", "bottle", "bus",
	"car", "cat", "chair", "cow", "diningtable", "dog", "horse",
	"motorbike", "person", "pottedplant", "sheep", "sofa",
	"train", "tvmonitor",
}

// Config holds the constants shared by the label encoder, the batch iterator and the image loader.
// It is fixed for the lifetime of a run.
type Config struct {
	DataDir      string   `json:"data_dir"`       // Contains VOCdevkit/ and VOCdevkit-test/.
	ImageSize    int      `json:"image_size"`     // Target image width and height in pixels.
	CellSize     int      `json:"cell_size"`      // Grid cells per side.
	BoxesPerCell int      `json:"boxes_per_cell"` // Duplicated box slots per cell.
	BatchSize    int      `json:"batch_size"`
	Classes      []string `json:"classes"`
}

// DefaultConfig returns the configuration for 416x416 inputs, a 13x13 grid with 5 box slots and
// the 20 VOC classes.
func DefaultConfig() Config {
	classes := make([]string, len(VOCClasses))
	copy(classes, VOCClasses)

	return Config{
		DataDir:      DefaultDataDir,
		ImageSize:    DefaultImageSize,
		CellSize:     DefaultCellSize,
		BoxesPerCell: DefaultBoxesPerCell,
		BatchSize:    DefaultBatchSize,
		Classes:      classes,
	}
}

// LoadConfig reads a JSON file at path and overlays its fields onto DefaultConfig. Fields missing
// from the file keep their default values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := ioutil.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "cannot read config %q", path)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "failed to parse config %q", path)
	}

	return cfg, cfg.Validate()
}

// Validate checks that the geometry is usable.
func (c Config) Validate() error {
	switch {
	case c.ImageSize <= 0:
		return errors.Errorf("invalid image size %d", c.ImageSize)
	case c.CellSize <= 0:
		return errors.Errorf("invalid cell size %d", c.CellSize)
	case c.BoxesPerCell <= 0:
		return errors.Errorf("invalid number of boxes per cell %d", c.BoxesPerCell)
	case c.BatchSize <= 0:
		return errors.Errorf("invalid batch size %d", c.BatchSize)
	case len(c.Classes) == 0:
		return errors.New("empty class vocabulary")
	}
	return nil
}

// NumClasses is the size of the class vocabulary.
func (c Config) NumClasses() int {
	return len(c.Classes)
}

// LabelDepth is the length of the per slot vector: objectness, 4 box parameters and the one-hot
// class vector.
func (c Config) LabelDepth() int {
	return 5 + c.NumClasses()
}

// LabelShape is the shape of one label tensor.
func (c Config) LabelShape() []int {
	return []int{c.CellSize, c.CellSize, c.BoxesPerCell, c.LabelDepth()}
}

// ImageShape is the shape of one normalised image.
func (c Config) ImageShape() []int {
	return []int{c.ImageSize, c.ImageSize, 3}
}

package vocgrid

// TFRecord export of the precomputed label index.

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/golang/protobuf/proto"
	"github.com/pkg/errors"
	"github.com/ryszard/tfutils/go/example"
	"github.com/ryszard/tfutils/go/tfrecord"
	"github.com/ryszard/tfutils/proto/tensorflow/core/example" // package tensorflow
)

// Feature names of the exported examples.
const (
	FeatureFilename = "image/filename"
	FeatureHeight   = "image/height"
	FeatureWidth    = "image/width"
	FeatureGrid     = "label/grid"
	FeatureShape    = "label/shape"
	FeatureObjects  = "label/objects"
)

// TFFeatureMap maps feature names to their values. Values must be convertible to
// tensorflow.Feature.
type TFFeatureMap map[string]interface{}

// toTFFeatures converts a single index entry to its feature map. Height and width are the network
// input size the label was encoded for.
func toTFFeatures(entry IndexEntry, imageSize int) TFFeatureMap {
	shape := entry.Label.Shape()
	dims := make([]int64, len(shape))
	for i, d := range shape {
		dims[i] = int64(d)
	}

	return TFFeatureMap{
		FeatureFilename: entry.ImagePath,
		FeatureHeight:   imageSize,
		FeatureWidth:    imageSize,
		FeatureGrid:     entry.Label.Data,
		FeatureShape:    dims,
		FeatureObjects:  entry.Objects,
	}
}

// WriteLabelRecords does a streaming conversion, serialisation and file write for the index to one
// or more TFRecord files stored under recordFilePath (with suffixes added when numShards>1).
//
// The class vocabulary is written to labelMapPath as a prototxt label map with 1-based ids.
func WriteLabelRecords(recordFilePath, labelMapPath string, index Index, cfg Config,
	vocab *ClassVocabulary, numShards int) (err error) {
	defer func() {
		if e := recover(); e != nil {
			err = errors.Errorf("conversion to TensorFlow Example failed: %v", e)
		}
	}()

	if len(index) == 0 {
		return ErrEmptyIndex
	}
	if numShards <= 0 {
		numShards = 1
	}
	if numShards > len(index) {
		numShards = len(index)
	}

	fmtShardSuffix := func(idx int) string {
		return fmt.Sprintf("-%05d-of-%05d", idx, numShards)
	}

	var shardFile *os.File
	defer func() {
		if shardFile != nil {
			closeWithErrCheck(shardFile, &err)
		}
	}()
	shardIdx := -1

	// Convert and serialise one entry at a time.
	for i, entry := range index {
		// Check if a new shard file needs to be opened for writing. Shard sizes differ by at most one.
		if i*numShards/len(index) != shardIdx {
			shardIdx++

			// Close the previous shard file.
			if shardFile != nil {
				if err := shardFile.Close(); err != nil {
					return err
				}
				shardFile = nil
			}

			shardPath := recordFilePath
			if numShards > 1 {
				shardPath += fmtShardSuffix(shardIdx)
			}
			f, err := os.Create(shardPath)
			if err != nil {
				return errors.Wrapf(err, "failed to create shard at %q", shardPath)
			}
			shardFile = f
		}

		tfExample := example.New(toTFFeatures(entry, cfg.ImageSize))
		if err := writeTFRecordExample(shardFile, tfExample); err != nil {
			return errors.Wrapf(err, "failed to write example for %q", entry.ImagePath)
		}
	}

	log.Printf("Wrote %d examples to %d shard(s)", len(index), shardIdx+1)
	return saveLabelMap(labelMapPath, vocab)
}

// writeTFRecordExample serialises the example and writes it as a TFRecord to w.
func writeTFRecordExample(w io.Writer, e *tensorflow.Example) error {
	enc, err := proto.Marshal(e)
	if err != nil {
		return err
	}

	return tfrecord.Write(w, enc)
}

// saveLabelMap writes the vocabulary in the StringIntLabelMap prototxt format to path.
func saveLabelMap(path string, vocab *ClassVocabulary) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to create the label map file %q", path)
	}
	defer closeWithErrCheck(file, &err)

	for i, name := range vocab.Names() {
		if _, err := fmt.Fprintf(file, "item {\n  name: %q\n  id: %d\n}\n", name, i+1); err != nil {
			return errors.Wrapf(err, "failed to write the label map %q", path)
		}
	}

	return nil
}

package vocgrid

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

var testColor = color.RGBA{90, 120, 150, 255}

// testObject is an object written to a synthetic VOC annotation.
type testObject struct {
	name                   string
	xmin, ymin, xmax, ymax float64
}

// testConfig is a small geometry that keeps image work cheap.
func testConfig(dataDir string) Config {
	cfg := DefaultConfig()
	cfg.DataDir = dataDir
	cfg.ImageSize = 32
	cfg.CellSize = 4
	cfg.BoxesPerCell = 3
	cfg.BatchSize = 3
	return cfg
}

func writeJPEG(t *testing.T, path string, width, height int, c color.Color) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, jpeg.Encode(f, img, &jpeg.Options{Quality: 95}))
}

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func annotationXML(objects []testObject) string {
	var b strings.Builder
	b.WriteString("<annotation>\n  <folder>VOC2007</folder>\n")
	for _, o := range objects {
		fmt.Fprintf(&b, "  <object>\n    <name>%s</name>\n    <pose>Unspecified</pose>\n"+
			"    <truncated>0</truncated>\n    <difficult>0</difficult>\n"+
			"    <bndbox>\n      <xmin>%g</xmin>\n      <ymin>%g</ymin>\n"+
			"      <xmax>%g</xmax>\n      <ymax>%g</ymax>\n    </bndbox>\n  </object>\n",
			o.name, o.xmin, o.ymin, o.xmax, o.ymax)
	}
	b.WriteString("</annotation>\n")
	return b.String()
}

// writeVOCSample writes the image and annotation for index into the VOC2007 directory dir.
func writeVOCSample(t *testing.T, dir, index string, width, height int, objects []testObject) {
	t.Helper()
	writeJPEG(t, vocImagePath(dir, index), width, height, testColor)

	path := vocAnnotationPath(dir, index)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, ioutil.WriteFile(path, []byte(annotationXML(objects)), 0644))
}

// writeVOCList writes the index list of split.
func writeVOCList(t *testing.T, dir string, split Split, indices []string) {
	t.Helper()
	path := vocListPath(dir, split)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	content := strings.Join(indices, "\n") + "\n"
	require.NoError(t, ioutil.WriteFile(path, []byte(content), 0644))
}

// testIndex writes n images and returns an index over them, in order, with a single object in
// cell (0, 0) of every label.
func testIndex(t *testing.T, cfg Config, n int) Index {
	t.Helper()
	dir := t.TempDir()

	idx := make(Index, n)
	for i := range idx {
		path := filepath.Join(dir, fmt.Sprintf("%06d.jpg", i))
		writeJPEG(t, path, 8, 8, color.RGBA{uint8(10 * i), 0, 0, 255})

		label := NewLabelTensor(cfg)
		label.setCell(0, 0, [4]float32{0.5, 0.5, 0.1, 0.1}, i%cfg.NumClasses())
		idx[i] = IndexEntry{ImagePath: path, Label: label, Objects: 1}
	}
	return idx
}

func indexPaths(idx Index) []string {
	paths := make([]string, len(idx))
	for i, e := range idx {
		paths[i] = e.ImagePath
	}
	return paths
}

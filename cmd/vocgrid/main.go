// Builds YOLO grid labels from PASCAL VOC 2007 annotations, exports them as TFRecords and renders
// label previews.
package main

import (
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	arg "github.com/alexflint/go-arg"
	"github.com/dustin/go-humanize"

	"github.com/sensorable/vocgrid"
)

type commonArgs struct {
	Data   string `arg:"--data" help:"directory containing VOCdevkit/ and VOCdevkit-test/"`
	Split  string `arg:"--split" default:"train" help:"dataset split {train, test}"`
	Config string `arg:"--config" help:"JSON file overriding the default geometry"`
	Seed   int64  `arg:"--seed" help:"shuffle seed (0 uses the current time)"`
}

type indexCmd struct {
	commonArgs
}

type exportCmd struct {
	commonArgs
	Out      string `arg:"--out,required" help:"TFRecord output path"`
	LabelMap string `arg:"--label-map,required" help:"label map output path"`
	Shards   int    `arg:"--shards" default:"1" help:"number of shard files"`
}

type previewCmd struct {
	commonArgs
	Out   string `arg:"--out,required" help:"output directory for preview images"`
	Count int    `arg:"--count" default:"10" help:"number of previews"`
}

type args struct {
	Index   *indexCmd   `arg:"subcommand:index" help:"build the label index and print statistics"`
	Export  *exportCmd  `arg:"subcommand:export" help:"write the label index as TFRecords"`
	Preview *previewCmd `arg:"subcommand:preview" help:"render labels onto images"`
}

func noErr(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

// load reads the configuration and builds the shuffled index of the requested split.
func load(c commonArgs) (vocgrid.Config, vocgrid.Index) {
	cfg := vocgrid.DefaultConfig()
	if c.Config != "" {
		var err error
		cfg, err = vocgrid.LoadConfig(c.Config)
		noErr(err)
	}
	if c.Data != "" {
		cfg.DataDir = filepath.Clean(c.Data)
	}

	seed := c.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	vocab := vocgrid.NewClassVocabulary(cfg.Classes)
	index, err := vocgrid.LoadLabels(cfg, vocab, vocgrid.Split(c.Split), rng)
	noErr(err)

	return cfg, index
}

func runIndex(c *indexCmd) {
	cfg, index := load(c.commonArgs)

	var objects int
	perClass := make([]int, cfg.NumClasses())
	for _, e := range index {
		objects += e.Objects
		for _, b := range e.Label.DecodeBoxes(cfg.ImageSize) {
			if b.Class >= 0 {
				perClass[b.Class]++
			}
		}
	}

	log.Printf("%s images with %s objects", humanize.Comma(int64(len(index))),
		humanize.Comma(int64(objects)))
	for i, n := range perClass {
		fmt.Printf("%-12s %s\n", cfg.Classes[i], humanize.Comma(int64(n)))
	}
	fmt.Printf("%s batches of %d per epoch\n",
		humanize.Comma(int64((len(index)+cfg.BatchSize-1)/cfg.BatchSize)), cfg.BatchSize)
}

func runExport(c *exportCmd) {
	cfg, index := load(c.commonArgs)
	vocab := vocgrid.NewClassVocabulary(cfg.Classes)

	err := vocgrid.WriteLabelRecords(filepath.Clean(c.Out), filepath.Clean(c.LabelMap), index,
		cfg, vocab, c.Shards)
	noErr(err)

	log.Printf("Successfully wrote labels for %d files to %s", len(index), c.Out)
}

func runPreview(c *previewCmd) {
	cfg, index := load(c.commonArgs)

	noErr(os.MkdirAll(c.Out, 0755))
	n := previewCount(c.Count, len(index))
	for _, e := range index[:n] {
		name := filepath.Base(e.ImagePath)
		outPath := filepath.Join(c.Out, name[:len(name)-len(filepath.Ext(name))]+".png")
		noErr(vocgrid.SavePreview(outPath, e, cfg.ImageSize))
	}

	log.Printf("Wrote %d previews to %s", n, c.Out)
}

// previewCount limits the requested number of previews to [0, total].
func previewCount(count, total int) int {
	if count < 0 {
		return 0
	}
	if count > total {
		return total
	}
	return count
}

func main() {
	var a args
	p := arg.MustParse(&a)

	switch {
	case a.Index != nil:
		runIndex(a.Index)
	case a.Export != nil:
		runExport(a.Export)
	case a.Preview != nil:
		runPreview(a.Preview)
	default:
		p.WriteUsage(os.Stderr)
		os.Exit(1)
	}
}

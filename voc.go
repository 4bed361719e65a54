package vocgrid

// PASCAL VOC 2007 specific functionality.

import (
	"encoding/xml"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Split selects a partition of the dataset with its own directory and file list.
type Split string

// The known dataset splits.
const (
	Train Split = "train"
	Test  Split = "test"
)

// Dir returns the VOC2007 directory of the split below root.
func (s Split) Dir(root string) (string, error) {
	switch s {
	case Train:
		return filepath.Join(root, "VOCdevkit", "VOC2007"), nil
	case Test:
		return filepath.Join(root, "VOCdevkit-test", "VOC2007"), nil
	}
	return "", errors.Wrapf(ErrUnknownSplit, "%q", string(s))
}

// ListName is the base name of the split's index list in ImageSets/Main.
func (s Split) ListName() string {
	if s == Test {
		return "test"
	}
	return "trainval"
}

// vocListPath returns <dir>/ImageSets/Main/<list>.txt.
func vocListPath(dir string, s Split) string {
	return filepath.Join(dir, "ImageSets", "Main", s.ListName()+".txt")
}

// vocImagePath returns <dir>/JPEGImages/<index>.jpg.
func vocImagePath(dir, index string) string {
	return filepath.Join(dir, "JPEGImages", index+".jpg")
}

// vocAnnotationPath returns <dir>/Annotations/<index>.xml.
func vocAnnotationPath(dir, index string) string {
	return filepath.Join(dir, "Annotations", index+".xml")
}

// vocAnnotation is the XML structure of a VOC annotation file.
type vocAnnotation struct {
	XMLName  xml.Name `xml:"annotation"`
	Filename string   `xml:"filename"`
	Size     struct {
		Width  int `xml:"width"`
		Height int `xml:"height"`
	} `xml:"size"`
	Objects []struct {
		Name      string `xml:"name"`
		Pose      string `xml:"pose"`
		Truncated *int   `xml:"truncated"`
		Difficult *int   `xml:"difficult"`
		BndBox    struct {
			XMin string `xml:"xmin"`
			YMin string `xml:"ymin"`
			XMax string `xml:"xmax"`
			YMax string `xml:"ymax"`
		} `xml:"bndbox"`
	} `xml:"object"`
}

// readIndexList returns the trimmed, non-empty lines of the split's index list.
func readIndexList(dir string, s Split) ([]string, error) {
	lines, err := readLines(vocListPath(dir, s))
	if err != nil {
		return nil, err
	}

	indices := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			indices = append(indices, line)
		}
	}
	return indices, nil
}

// parseVOCAnnotation reads the annotation file at path into the intermediate representation.
// The returned file has no image path or size set; the annotation's <size> element is not trusted.
func parseVOCAnnotation(path string) (AnnotatedFile, error) {
	data, err := readFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return AnnotatedFile{}, &AnnotationNotFoundError{Path: path, Err: err}
		}
		return AnnotatedFile{}, errors.Wrapf(err, "cannot read annotation %q", path)
	}

	var voc vocAnnotation
	if err := xml.Unmarshal(data, &voc); err != nil {
		return AnnotatedFile{}, errors.Wrapf(err, "failed to parse VOC annotation %q", path)
	}

	fileData := AnnotatedFile{Annotations: make([]Annotation, 0, len(voc.Objects))}
	for _, obj := range voc.Objects {
		a := Annotation{
			Attributes: make(map[string]interface{}, 3),
			Label:      obj.Name,
		}

		box := obj.BndBox
		for i, v := range []string{box.XMin, box.YMin, box.XMax, box.YMax} {
			if a.Coords[i], err = strconv.ParseFloat(strings.TrimSpace(v), 64); err != nil {
				return AnnotatedFile{}, errors.Wrapf(err, "unexpected bndbox value in %q", path)
			}
		}

		if obj.Pose != "" {
			a.Attributes[Pose] = obj.Pose
		}
		if obj.Truncated != nil {
			a.Attributes[Truncated] = *obj.Truncated != 0
		}
		if obj.Difficult != nil {
			a.Attributes[Difficult] = *obj.Difficult != 0
		}

		fileData.Annotations = append(fileData.Annotations, a)
	}

	return fileData, nil
}

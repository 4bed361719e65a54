package vocgrid

// The intermediate annotation metadata representation.

import (
	"math"
)

// Keys for known annotation attributes.
const (
	Difficult = "Difficult" // VOC difficult flag. Type bool.
	Truncated = "Truncated" // VOC truncated flag. Type bool.
	Pose      = "Pose"      // VOC pose description. Type string.
)

// Annotation is the intermediate representation of an object label.
type Annotation struct {
	Attributes map[string]interface{} // Additional attributes of this annotation.
	Coords     [4]float64             // Absolute x1, y1, x2, y2 offsets from the top-left corner.
	Label      string
}

// AnnotatedFile is the intermediate representation of file metadata.
type AnnotatedFile struct {
	Annotations []Annotation // The annotations.
	FilePath    string       // The annotated image file.
	Width       int          // Source image width, if known.
	Height      int          // Source image height, if known.
}

// scaleCoords scales all Annotations.Coords by the given scale factors.
func (f *AnnotatedFile) scaleCoords(width, height float64) {
	for i := range f.Annotations {
		for j := 0; j < 4; j++ {
			if j&1 == 0 {
				f.Annotations[i].Coords[j] *= width
			} else {
				f.Annotations[i].Coords[j] *= height
			}
		}
	}
}

// clampCoords limits all Annotations.Coords to [0, max].
func (f *AnnotatedFile) clampCoords(max float64) {
	for i := range f.Annotations {
		for j := 0; j < 4; j++ {
			f.Annotations[i].Coords[j] = math.Max(math.Min(f.Annotations[i].Coords[j], max), 0)
		}
	}
}

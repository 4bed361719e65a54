package vocgrid

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrEmptyIndex is returned when batches are requested from an index without entries.
	ErrEmptyIndex = errors.New("the label index is empty")
	// ErrUnknownSplit is returned for split names other than Train and Test.
	ErrUnknownSplit = errors.New("unknown dataset split")
	// ErrDiverged stops training when the loss exceeds the configured maximum.
	ErrDiverged = errors.New("training loss diverged")
)

// AnnotationNotFoundError reports a missing annotation file.
type AnnotationNotFoundError struct {
	Path string
	Err  error
}

func (e *AnnotationNotFoundError) Error() string {
	return fmt.Sprintf("annotation %q not found: %v", e.Path, e.Err)
}

func (e *AnnotationNotFoundError) Unwrap() error { return e.Err }

// ImageNotFoundError reports a missing image file.
type ImageNotFoundError struct {
	Path string
	Err  error
}

func (e *ImageNotFoundError) Error() string {
	return fmt.Sprintf("image %q not found: %v", e.Path, e.Err)
}

func (e *ImageNotFoundError) Unwrap() error { return e.Err }

// ImageDecodeError reports an image file that exists but cannot be decoded.
type ImageDecodeError struct {
	Path string
	Err  error
}

func (e *ImageDecodeError) Error() string {
	return fmt.Sprintf("failed to decode image %q: %v", e.Path, e.Err)
}

func (e *ImageDecodeError) Unwrap() error { return e.Err }

// UnknownClassError reports an annotation with a class outside the vocabulary.
type UnknownClassError struct {
	Class string
	Path  string // The annotation file, if known.
}

func (e *UnknownClassError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("unknown class %q", e.Class)
	}
	return fmt.Sprintf("unknown class %q in %q", e.Class, e.Path)
}

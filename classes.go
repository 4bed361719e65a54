package vocgrid

import (
	"strings"
)

// ClassVocabulary maps class names to their indices and back. It is built once and read-only
// afterwards.
type ClassVocabulary struct {
	names   []string
	indices map[string]int
}

// NewClassVocabulary builds the mapping from the ordered list of class names. Names are stored as
// given; normalisation is applied at lookup time.
func NewClassVocabulary(names []string) *ClassVocabulary {
	v := &ClassVocabulary{
		names:   make([]string, len(names)),
		indices: make(map[string]int, len(names)),
	}
	copy(v.names, names)
	for i, name := range names {
		key := normaliseClassName(name)
		if _, dup := v.indices[key]; !dup {
			v.indices[key] = i
		}
	}
	return v
}

// Len is the number of classes.
func (v *ClassVocabulary) Len() int {
	return len(v.names)
}

// Index returns the index of the class, matching case-insensitively after trimming whitespace.
// Returns an *UnknownClassError if the class is not part of the vocabulary.
func (v *ClassVocabulary) Index(name string) (int, error) {
	if i, ok := v.indices[normaliseClassName(name)]; ok {
		return i, nil
	}
	return -1, &UnknownClassError{Class: name}
}

// Name returns the class name at index i, or "" if i is out of range.
func (v *ClassVocabulary) Name(i int) string {
	if i < 0 || i >= len(v.names) {
		return ""
	}
	return v.names[i]
}

// Names returns a copy of the ordered class names.
func (v *ClassVocabulary) Names() []string {
	names := make([]string, len(v.names))
	copy(names, v.names)
	return names
}

func normaliseClassName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

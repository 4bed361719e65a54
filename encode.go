package vocgrid

// Conversion of sparse box annotations into the dense label grid.

// ParseAnnotation loads the image and the annotation for index from the VOC2007 directory dir and
// encodes the objects into a label tensor.
//
// Each box is scaled from the source image to cfg.ImageSize, clamped to the image, and written to
// the grid cell containing its center. A later object in the same cell overwrites the box of an
// earlier one. Returns the label and the number of objects in the annotation; zero means the
// annotation has no usable objects.
func ParseAnnotation(cfg Config, vocab *ClassVocabulary, dir, index string) (*LabelTensor, int, error) {
	imagePath := vocImagePath(dir, index)
	img, _, err := decodeImageConfig(imagePath)
	if err != nil {
		return nil, 0, err
	}

	annotationPath := vocAnnotationPath(dir, index)
	fileData, err := parseVOCAnnotation(annotationPath)
	if err != nil {
		return nil, 0, err
	}
	fileData.FilePath = imagePath
	fileData.Width = img.Width
	fileData.Height = img.Height

	label, err := encodeLabels(cfg, vocab, &fileData)
	if err != nil {
		if e, ok := err.(*UnknownClassError); ok {
			e.Path = annotationPath
		}
		return nil, 0, err
	}

	return label, len(fileData.Annotations), nil
}

// encodeLabels rescales the annotations of fileData to the network input size in place and writes
// them into a new label tensor.
func encodeLabels(cfg Config, vocab *ClassVocabulary, fileData *AnnotatedFile) (*LabelTensor, error) {
	size := float64(cfg.ImageSize)
	fileData.scaleCoords(size/float64(fileData.Width), size/float64(fileData.Height))
	fileData.clampCoords(size)

	label := NewLabelTensor(cfg)
	for _, a := range fileData.Annotations {
		class, err := vocab.Index(a.Label)
		if err != nil {
			return nil, err
		}

		x, y, box := encodeBox(a.Coords, cfg.ImageSize, cfg.CellSize)
		label.setCell(x, y, box, class)
	}

	return label, nil
}

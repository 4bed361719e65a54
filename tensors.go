package vocgrid

import (
	"github.com/gomlx/gomlx/pkg/core/tensors"
)

// Tensors returns the images and labels of the batch as tensors with the network's input and
// label shapes. The tensors hold copies of the batch data.
func (b *Batch) Tensors() (images, labels *tensors.Tensor) {
	images = tensors.FromFlatDataAndDimensions(b.Images, b.ImageShape()...)
	labels = tensors.FromFlatDataAndDimensions(b.Labels, b.LabelShape()...)
	return images, labels
}

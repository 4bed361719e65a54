package vocgrid

// Preview rendering of encoded labels.

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/llgcode/draw2d/draw2dimg"
)

var (
	gridColor = color.RGBA{255, 255, 255, 96}
	boxColor  = color.RGBA{255, 255, 0, 255}
	cellColor = color.RGBA{255, 0, 0, 255}
)

// RenderLabels draws the grid, the decoded boxes and the center of each box onto a copy of img
// resized to imageSize.
func RenderLabels(img image.Image, label *LabelTensor, imageSize int) *image.RGBA {
	resized := resizeImage(img, imageSize)
	canvas := image.NewRGBA(resized.Bounds())
	draw.Draw(canvas, canvas.Bounds(), resized, image.Point{}, draw.Src)

	gc := draw2dimg.NewGraphicContext(canvas)
	size := float64(imageSize)
	step := size / float64(label.CellSize)

	// Grid lines.
	gc.SetStrokeColor(gridColor)
	gc.SetLineWidth(1)
	for i := 1; i < label.CellSize; i++ {
		p := float64(i) * step
		gc.MoveTo(p, 0)
		gc.LineTo(p, size)
		gc.MoveTo(0, p)
		gc.LineTo(size, p)
	}
	gc.Stroke()

	for _, b := range label.DecodeBoxes(imageSize) {
		x1, y1, x2, y2 := b.Coords[0], b.Coords[1], b.Coords[2], b.Coords[3]

		gc.SetStrokeColor(boxColor)
		gc.SetLineWidth(2)
		gc.MoveTo(x1, y1)
		gc.LineTo(x2, y1)
		gc.LineTo(x2, y2)
		gc.LineTo(x1, y2)
		gc.Close()
		gc.Stroke()

		// Mark the responsible cell.
		cx, cy := float64(b.CellX)*step, float64(b.CellY)*step
		gc.SetStrokeColor(cellColor)
		gc.SetLineWidth(1)
		gc.MoveTo(cx, cy)
		gc.LineTo(cx+step, cy)
		gc.LineTo(cx+step, cy+step)
		gc.LineTo(cx, cy+step)
		gc.Close()
		gc.Stroke()
	}

	return canvas
}

// SavePreview renders the label of entry onto its image and writes it to path, as PNG or JPEG
// depending on the file extension.
func SavePreview(path string, entry IndexEntry, imageSize int) error {
	img, err := loadImage(entry.ImagePath)
	if err != nil {
		return err
	}
	return saveImage(path, RenderLabels(img, entry.Label, imageSize), 92)
}

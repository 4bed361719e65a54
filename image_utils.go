package vocgrid

import (
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// LoadImage reads the image at path, stretches it to size x size, and returns the pixels as RGB
// float32 values in [-1, 1], laid out row-major as [y][x][channel].
//
// Returns an *ImageNotFoundError if the file does not exist and an *ImageDecodeError if it cannot
// be decoded.
func LoadImage(path string, size int) ([]float32, error) {
	img, err := loadImage(path)
	if err != nil {
		return nil, err
	}

	out := make([]float32, size*size*3)
	imageToFloats(resizeImage(img, size), out)
	return out, nil
}

// resizeImage stretches img to size x size, ignoring the aspect ratio.
func resizeImage(img image.Image, size int) *image.NRGBA {
	return imaging.Resize(img, size, size, imaging.Linear)
}

// imageToFloats writes the normalised RGB channels of img to out, which must hold
// 3 * width * height values. Alpha is dropped.
func imageToFloats(img *image.NRGBA, out []float32) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	i := 0
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+4*w]
		for x := 0; x < w; x++ {
			px := row[4*x : 4*x+3]
			out[i] = normalisePixel(px[0])
			out[i+1] = normalisePixel(px[1])
			out[i+2] = normalisePixel(px[2])
			i += 3
		}
	}
}

// normalisePixel maps [0, 255] onto [-1, 1].
func normalisePixel(v uint8) float32 {
	return float32(v)/255.0*2.0 - 1.0
}

// decodeImageConfig opens the file at path and returns the results of image.DecodeConfig.
func decodeImageConfig(path string) (config image.Config, format string, err error) {
	file, err := os.Open(path)
	if err != nil {
		return image.Config{}, "", openImageError(path, err)
	}
	defer closeWithErrCheck(file, &err)

	config, format, err = image.DecodeConfig(file)
	if err != nil {
		return image.Config{}, "", &ImageDecodeError{Path: path, Err: err}
	}
	return config, format, nil
}

// loadImage reads and decodes the image at path.
func loadImage(path string) (img image.Image, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, openImageError(path, err)
	}
	defer closeWithErrCheck(f, &err)

	img, err = imaging.Decode(f)
	if err != nil {
		return nil, &ImageDecodeError{Path: path, Err: err}
	}
	return img, nil
}

func openImageError(path string, err error) error {
	if os.IsNotExist(err) {
		return &ImageNotFoundError{Path: path, Err: err}
	}
	return &ImageDecodeError{Path: path, Err: err}
}

// Saves the image to path, encoding it as PNG or JPG, depending on the file extension of path.
func saveImage(path string, img image.Image, jpegQuality int) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer closeWithErrCheck(f, &err)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		err = png.Encode(f, img)
	default:
		err = jpeg.Encode(f, img, &jpeg.Options{Quality: jpegQuality})
	}
	return err
}

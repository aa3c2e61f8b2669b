package utils

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"golang.org/x/image/draw"
)

// ImageFromRGB converts packed 24-bit RGB pixels into an image.
func ImageFromRGB(width, height int, rgb []byte) (*image.RGBA, error) {
	if len(rgb) != width*height*3 {
		return nil, fmt.Errorf("image: expected %d bytes for %dx%d, got %d", width*height*3, width, height, len(rgb))
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for i := 0; i < width*height; i++ {
		img.Pix[i*4] = rgb[i*3]
		img.Pix[i*4+1] = rgb[i*3+1]
		img.Pix[i*4+2] = rgb[i*3+2]
		img.Pix[i*4+3] = 0xFF
	}
	return img, nil
}

// ScaleImage scales img by factor using nearest neighbour sampling,
// keeping the pixels sharp.
func ScaleImage(img image.Image, factor int) image.Image {
	if factor <= 1 {
		return img
	}

	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// SaveImage encodes img as a PNG to filename.
func SaveImage(img image.Image, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}

	if err := png.Encode(file, img); err != nil {
		file.Close()
		return fmt.Errorf("image: encoding %s: %w", filename, err)
	}

	return file.Close()
}

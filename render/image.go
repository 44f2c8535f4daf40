package render

import "fmt"

// Image is a float framebuffer with interleaved channels stored in
// row-major order.
type Image struct {
	Width    int
	Height   int
	Channels int
	Pix      []float32
}

// Create a zero-filled image.
func NewImage(width, height, channels int) *Image {
	return &Image{
		Width:    width,
		Height:   height,
		Channels: channels,
		Pix:      make([]float32, width*height*channels),
	}
}

// Create a deep copy of the image.
func (im *Image) Clone() *Image {
	out := &Image{
		Width:    im.Width,
		Height:   im.Height,
		Channels: im.Channels,
		Pix:      make([]float32, len(im.Pix)),
	}
	copy(out.Pix, im.Pix)
	return out
}

// The offset of pixel (x, y) in the Pix slice.
func (im *Image) Index(x, y int) int {
	return (y*im.Width + x) * im.Channels
}

// WriteTile copies tile into the image placing its origin at (x, y).
func (im *Image) WriteTile(tile *Image, x, y int) error {
	if tile.Channels != im.Channels {
		return fmt.Errorf("render: tile channel count %d does not match image channel count %d", tile.Channels, im.Channels)
	}
	if x < 0 || y < 0 || x+tile.Width > im.Width || y+tile.Height > im.Height {
		return fmt.Errorf("render: tile %dx%d at (%d, %d) exceeds image bounds %dx%d", tile.Width, tile.Height, x, y, im.Width, im.Height)
	}

	for row := 0; row < tile.Height; row++ {
		src := tile.Pix[row*tile.Width*tile.Channels : (row+1)*tile.Width*tile.Channels]
		dstOffset := im.Index(x, y+row)
		copy(im.Pix[dstOffset:dstOffset+len(src)], src)
	}
	return nil
}

// CopyChannel overwrites channel dstChannel with channel srcChannel of
// src. Both images must share the same dimensions.
func (im *Image) CopyChannel(dstChannel int, src *Image, srcChannel int) error {
	if src.Width != im.Width || src.Height != im.Height {
		return fmt.Errorf("render: channel copy dims %dx%d do not match %dx%d", src.Width, src.Height, im.Width, im.Height)
	}
	if dstChannel >= im.Channels || srcChannel >= src.Channels {
		return fmt.Errorf("render: channel copy index out of range")
	}

	for p := 0; p < im.Width*im.Height; p++ {
		im.Pix[p*im.Channels+dstChannel] = src.Pix[p*src.Channels+srcChannel]
	}
	return nil
}

// Flatten the image to a packed float slice with the given channel
// count. Extra channels are dropped; missing channels are zero-filled.
func (im *Image) Flatten(channels int) []float32 {
	if channels == im.Channels {
		out := make([]float32, len(im.Pix))
		copy(out, im.Pix)
		return out
	}

	out := make([]float32, im.Width*im.Height*channels)
	n := channels
	if im.Channels < n {
		n = im.Channels
	}
	for p := 0; p < im.Width*im.Height; p++ {
		for c := 0; c < n; c++ {
			out[p*channels+c] = im.Pix[p*im.Channels+c]
		}
	}
	return out
}

// Package tiffstack loads a sequence of grayscale TIFF files as an
// in-memory image stack ready for MRC encoding.  It fills the role of
// Priism's tiff2mrc for the OME-style exports that tool chokes on,
// preserving the original sample precision.
package tiffstack

import (
	"fmt"
	"image"
	"os"
	"sort"

	"golang.org/x/image/tiff"

	"github.com/MicronOxford/mrctools/internal/models"
	"github.com/MicronOxford/mrctools/pkg/imsubs"
)

// Options describe the shape and metadata of the stack being loaded.
// The file list is ordered channel-slowest (all planes of channel 0
// first), then time, then Z.
type Options struct {
	// NumChannels and NumTime default to 1; NumZ defaults to however
	// many files are left after dividing by the other two.
	NumChannels int
	NumTime     int
	NumZ        int

	// PixelSize is the physical pixel spacing per axis in micrometres.
	PixelSize struct {
		X, Y, Z float64
	}

	// Wavelengths holds one emission wavelength per channel in
	// nanometres, zero for unknown.  May be left nil.
	Wavelengths []int

	// SortPaths sorts the input files lexically before assigning them
	// to (c, t, z) triples, the usual convention for exported slice
	// sequences.
	SortPaths bool
}

// Load decodes the TIFF files into a stack.  Every file must hold a
// single grayscale image with the same dimensions and bit depth.
func Load(paths []string, opts Options) (*models.Stack, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no input files")
	}

	nchan, ntime := opts.NumChannels, opts.NumTime
	if nchan < 1 {
		nchan = 1
	}
	if ntime < 1 {
		ntime = 1
	}
	nz := opts.NumZ
	if nz < 1 {
		nz = len(paths) / (nchan * ntime)
	}
	if nchan*ntime*nz != len(paths) {
		return nil, fmt.Errorf("%d files do not fill %d channels x %d time points x %d sections",
			len(paths), nchan, ntime, nz)
	}

	if opts.SortPaths {
		paths = append([]string(nil), paths...)
		sort.Strings(paths)
	}

	var stack *models.Stack
	for i, path := range paths {
		p, err := loadPlane(path)
		if err != nil {
			return nil, err
		}
		typ, _, _ := p.Type()

		if stack == nil {
			stack = models.NewStack(p.Width, p.Height, nz, nchan, ntime, typ)
			stack.PixelSize.X = opts.PixelSize.X
			stack.PixelSize.Y = opts.PixelSize.Y
			stack.PixelSize.Z = opts.PixelSize.Z
			for c := 0; c < nchan && c < len(opts.Wavelengths); c++ {
				stack.Waves[c] = opts.Wavelengths[c]
			}
		} else if p.Width != stack.Width || p.Height != stack.Height {
			return nil, fmt.Errorf("%s is %dx%d, previous files were %dx%d",
				path, p.Width, p.Height, stack.Width, stack.Height)
		} else if typ != stack.Type {
			return nil, fmt.Errorf("%s holds %s samples, previous files held %s",
				path, typ, stack.Type)
		}

		c := i / (ntime * nz)
		t := (i / nz) % ntime
		z := i % nz
		stack.SetPlane(c, t, z, p)
	}
	return stack, nil
}

// loadPlane decodes one TIFF file into a plane, keeping the sample
// precision of the file.
func loadPlane(path string) (*imsubs.Plane, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, err := tiff.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %v", path, err)
	}

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	p := &imsubs.Plane{Width: w, Height: h}

	switch im := img.(type) {
	case *image.Gray:
		p.Uint8 = make([]uint8, w*h)
		for y := 0; y < h; y++ {
			copy(p.Uint8[y*w:(y+1)*w], im.Pix[y*im.Stride:y*im.Stride+w])
		}
	case *image.Gray16:
		p.Uint16 = make([]uint16, w*h)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				off := y*im.Stride + x*2
				// Gray16 pixels are stored big-endian.
				p.Uint16[y*w+x] = uint16(im.Pix[off])<<8 | uint16(im.Pix[off+1])
			}
		}
	default:
		return nil, fmt.Errorf("%s: only grayscale TIFF files can be converted, got %T", path, img)
	}
	return p, nil
}

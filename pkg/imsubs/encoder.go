// Package imsubs serializes multi-dimensional pixel datasets into the
// MRC "Imsubs" sub-format used by the Priism/IVE image-processing
// suite: a fixed 1024-byte little-endian header followed by raw raster
// planes in channel, time, Z order.
//
// Format reference: http://www.msg.ucsf.edu/IVE/IVE4_HTML/IM_ref2.html
package imsubs

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// HeaderSize is the fixed size of the MRC header in bytes.
const HeaderSize = 1024

// IDImsubs is the signature at byte offset 96 identifying the Imsubs
// sub-format.
const IDImsubs int16 = -16224

var (
	// ErrUnsupportedPixelType reports a dataset pixel type with no MRC
	// mode code (int8, uint32, float64, bit, complex128).
	ErrUnsupportedPixelType = errors.New("pixel type cannot be converted to mrc")

	// ErrTooManyChannels reports a dataset with more than the five
	// channels the format can describe.
	ErrTooManyChannels = errors.New("mrc file cannot have more than 5 channels")

	// ErrChannelMismatch reports a dataset whose wavelength list does
	// not have one entry per channel.
	ErrChannelMismatch = errors.New("channel wavelength count disagrees with channel count")
)

// Options control encoder behaviour beyond the defaults.
type Options struct {
	// AllowChannelMismatch accepts a wavelength list whose length
	// disagrees with the channel count, zero-padding or truncating it
	// to fit the header.  Old conversion scripts did this silently;
	// the default is to fail with ErrChannelMismatch instead.
	AllowChannelMismatch bool
}

// Encode serializes the dataset to w as an MRC Imsubs file with
// default options.
func Encode(ds Dataset, w io.Writer) error {
	return EncodeWithOptions(ds, w, Options{})
}

// EncodeWithOptions serializes the dataset to w as an MRC Imsubs file.
//
// Validation happens before any byte is written: an unrepresentable
// pixel type or channel count leaves w untouched.  I/O errors from w
// are returned unchanged and may leave a partial file behind; cleanup
// is the caller's responsibility.
func EncodeWithOptions(ds Dataset, w io.Writer, opts Options) error {
	ncols, nrows := ds.SizeX(), ds.SizeY()
	nzsec, nchan, ntime := ds.SizeZ(), ds.SizeC(), ds.SizeT()

	if ncols < 1 || nrows < 1 || nzsec < 1 || nchan < 1 || ntime < 1 {
		return fmt.Errorf("dataset dimensions %dx%dx%d c=%d t=%d must all be positive",
			ncols, nrows, nzsec, nchan, ntime)
	}
	mode, ok := ds.PixelType().Mode()
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnsupportedPixelType, ds.PixelType())
	}
	if nchan > 5 {
		return fmt.Errorf("%w: got %d", ErrTooManyChannels, nchan)
	}
	waves := ds.Wavelengths()
	if len(waves) != nchan && !opts.AllowChannelMismatch {
		return fmt.Errorf("%w: %d wavelengths for %d channels",
			ErrChannelMismatch, len(waves), nchan)
	}

	// Intensity statistics are taken from the first plane of each
	// channel, all read before the header is assembled.  The first
	// plane is read again during the main write loop.
	stats := make([][3]float64, nchan)
	for c := 0; c < nchan; c++ {
		p, err := ds.Plane(c, 0, 0)
		if err != nil {
			return fmt.Errorf("reading plane (c=%d, t=0, z=0): %w", c, err)
		}
		if err := p.check(ds.PixelType(), ncols, nrows); err != nil {
			return fmt.Errorf("plane (c=%d, t=0, z=0): %w", c, err)
		}
		min, max, mean := p.Stats()
		stats[c] = [3]float64{min, max, mean}
	}

	hdr := buildHeader(ds, mode, stats, waves)

	bw := bufio.NewWriter(w)
	if _, err := bw.Write(hdr); err != nil {
		return err
	}

	// Plane order is fixed: channel is the slowest axis, then time,
	// then Z (image sequence code 0, "ZTW").
	for c := 0; c < nchan; c++ {
		for t := 0; t < ntime; t++ {
			for z := 0; z < nzsec; z++ {
				p, err := ds.Plane(c, t, z)
				if err != nil {
					return fmt.Errorf("reading plane (c=%d, t=%d, z=%d): %w", c, t, z, err)
				}
				if err := p.check(ds.PixelType(), ncols, nrows); err != nil {
					return fmt.Errorf("plane (c=%d, t=%d, z=%d): %w", c, t, z, err)
				}
				if err := p.writeTo(bw); err != nil {
					return err
				}
			}
		}
	}
	return bw.Flush()
}

// EncodedSize returns the exact size in bytes of the file Encode
// produces for the dataset.
func EncodedSize(ds Dataset) int64 {
	stored := ds.PixelType()
	if stored == Float64 {
		stored = Float32
	}
	plane := int64(ds.SizeX()) * int64(ds.SizeY()) * int64(stored.SampleBytes())
	return HeaderSize + int64(ds.SizeZ())*int64(ds.SizeC())*int64(ds.SizeT())*plane
}

// buildHeader assembles the fixed 1024-byte header.  stats holds
// min/max/mean per channel, indexed by channel.
func buildHeader(ds Dataset, mode int32, stats [][3]float64, waves []int) []byte {
	ncols, nrows := ds.SizeX(), ds.SizeY()
	nzsec, nchan, ntime := ds.SizeZ(), ds.SizeC(), ds.SizeT()

	h := headerBuffer{buf: make([]byte, HeaderSize)}

	h.int32s(int32(ncols), int32(nrows))   // 0: width and height
	h.int32s(int32(nzsec * nchan * ntime)) // 8: number of sections
	h.int32s(mode)                         // 12: image mode/precision
	h.int32s(0, 0, 0)                      // 16: starting point of sub image

	// 28: sampling frequencies in X, Y, and Z
	h.int32s(int32(ncols), int32(nrows), int32(nzsec))

	// 40: cell dimensions in ångströms; for non-crystallographic data,
	// the sampling frequency times the pixel spacing.
	h.float32s(
		float32(float64(ncols)*ds.PixelSizeX()*10000),
		float32(float64(nrows)*ds.PixelSizeY()*10000),
		float32(float64(nzsec)*ds.PixelSizeZ()*10000),
	)

	h.float32s(90, 90, 90) // 52: cell angles
	h.int32s(1, 2, 3)      // 64: maps axis to dimension

	// 76: intensity of the first plane only
	h.float32s(float32(stats[0][0]), float32(stats[0][1]), float32(stats[0][2]))

	h.int32s(0)            // 88: space group number
	h.int32s(0)            // 92: extended header size
	h.int16s(IDImsubs)     // 96: ID value
	h.int16s(0)            // 98: unused
	h.int32s(0)            // 100: starting time index
	h.spaces(24)           // 104: blank section
	h.int16s(0, 0)         // 128: organization of extended header
	h.int16s(1, 1)         // 132: sub-resolution version of image

	// 136: minimum and maximum intensity of channels 2 to 4.  A fifth
	// channel has its slot further down the header.
	for c := 1; c <= 3; c++ {
		if c < nchan {
			h.float32s(float32(stats[c][0]), float32(stats[c][1]))
		} else {
			h.float32s(0, 0)
		}
	}

	h.int16s(0)          // 160: image type
	h.int16s(0)          // 162: lens identification number
	h.int16s(0, 0, 0, 0) // 164: type-dependent values

	// 172: minimum and maximum intensity of a 5th channel
	if nchan == 5 {
		h.float32s(float32(stats[4][0]), float32(stats[4][1]))
	} else {
		h.float32s(0, 0)
	}

	h.int16s(int16(ntime)) // 180: number of time points
	h.int16s(0)            // 182: image sequence (0 = ZTW)
	h.float32s(0, 0, 0)    // 184: X, Y, and Z tilt angle

	// 196: number and lengths of wavelengths, five slots, zero-filled
	// for channels with no wavelength information.
	h.int16s(int16(nchan))
	for c := 0; c < 5; c++ {
		if c < len(waves) && c < nchan {
			h.int16s(int16(waves[c]))
		} else {
			h.int16s(0)
		}
	}

	h.float32s(0, 0, 0) // 208: origin of image
	h.int32s(0)         // 220: number of useful titles
	h.spaces(800)       // 224: space for 10 titles

	if h.off != HeaderSize {
		// Unreachable unless the layout above is edited carelessly.
		panic(fmt.Sprintf("imsubs: header is %d bytes, want %d", h.off, HeaderSize))
	}
	return h.buf
}

// headerBuffer accumulates little-endian header fields at a running
// offset.
type headerBuffer struct {
	buf []byte
	off int
}

func (h *headerBuffer) int32s(vs ...int32) {
	for _, v := range vs {
		binary.LittleEndian.PutUint32(h.buf[h.off:], uint32(v))
		h.off += 4
	}
}

func (h *headerBuffer) int16s(vs ...int16) {
	for _, v := range vs {
		binary.LittleEndian.PutUint16(h.buf[h.off:], uint16(v))
		h.off += 2
	}
}

func (h *headerBuffer) float32s(vs ...float32) {
	for _, v := range vs {
		binary.LittleEndian.PutUint32(h.buf[h.off:], math.Float32bits(v))
		h.off += 4
	}
}

func (h *headerBuffer) spaces(n int) {
	for i := 0; i < n; i++ {
		h.buf[h.off+i] = ' '
	}
	h.off += n
}

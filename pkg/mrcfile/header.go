package mrcfile

import (
	"encoding/binary"
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/MicronOxford/mrctools/pkg/imsubs"
)

// HeaderSize is the fixed size of the MRC header in bytes.
const HeaderSize = 1024

// Header holds the fields of an MRC-family header that the tools care
// about.  Fields are stored as read from the file; derived quantities
// such as pixel spacing and Z-section count have accessor methods.
type Header struct {
	// Format is the classification of the file the header came from.
	Format Format

	// ByteOrder is the byte order of the file, detected from the
	// Imsubs signature.  Signature-less files are assumed
	// little-endian.
	ByteOrder binary.ByteOrder

	// Ncols, Nrows and Nsections are the plane dimensions and the
	// total number of 2D sections in the file.
	Ncols, Nrows, Nsections int32

	// Mode is the pixel numeric type code.
	Mode int32

	// Mx, My and Mz are the sampling frequencies per axis.
	Mx, My, Mz int32

	// Xlen, Ylen and Zlen are the cell dimension fields.  Imsubs
	// writers store sampling frequency times pixel spacing scaled by
	// 10000; Deltavision writers store the pixel spacing in
	// micrometres directly.
	Xlen, Ylen, Zlen float32

	// Amin, Amax and Amean are the intensity extrema of the first
	// plane.
	Amin, Amax, Amean float32

	// ExtSize is the size in bytes of the extended header between the
	// fixed header and the first plane.
	ExtSize int32

	// NumTimes and NumWaves are the time point and channel counts.
	NumTimes int16
	NumWaves int16

	// Sequence is the plane interleaving code; 0 means Z fastest,
	// then time, then channel.
	Sequence int16

	// Waves holds the five wavelength slots in nanometres.
	Waves [5]int16

	// dvSpacing is set when the cell dimension fields hold pixel
	// spacing directly (the Deltavision convention).
	dvSpacing bool
}

// ParseHeader decodes an MRC-family header.  filename is only used for
// the extension-based checks; pass the base name of the file the bytes
// came from.
func ParseHeader(header []byte, filename string) (*Header, error) {
	if len(header) < HeaderSize {
		return nil, fmt.Errorf("header is %d bytes, needs %d", len(header), HeaderSize)
	}

	format := Classify(header, filename)
	if format == Unknown {
		return nil, fmt.Errorf("%q is not an MRC-family file", filename)
	}

	var order binary.ByteOrder = binary.LittleEndian
	if format == DV {
		order = binary.BigEndian
	}

	isDV := format == DV || strings.EqualFold(filepath.Ext(filename), ".dv")

	h := &Header{
		Format:    format,
		ByteOrder: order,
		Ncols:     int32(order.Uint32(header[0:])),
		Nrows:     int32(order.Uint32(header[4:])),
		Nsections: int32(order.Uint32(header[8:])),
		Mode:      int32(order.Uint32(header[12:])),
		Mx:        int32(order.Uint32(header[28:])),
		My:        int32(order.Uint32(header[32:])),
		Mz:        int32(order.Uint32(header[36:])),
		Xlen:      math.Float32frombits(order.Uint32(header[40:])),
		Ylen:      math.Float32frombits(order.Uint32(header[44:])),
		Zlen:      math.Float32frombits(order.Uint32(header[48:])),
		Amin:      math.Float32frombits(order.Uint32(header[76:])),
		Amax:      math.Float32frombits(order.Uint32(header[80:])),
		Amean:     math.Float32frombits(order.Uint32(header[84:])),
		ExtSize:   int32(order.Uint32(header[92:])),
		NumTimes:  int16(order.Uint16(header[180:])),
		Sequence:  int16(order.Uint16(header[182:])),
		NumWaves:  int16(order.Uint16(header[196:])),
		dvSpacing: isDV,
	}
	for i := range h.Waves {
		h.Waves[i] = int16(order.Uint16(header[198+2*i:]))
	}

	if h.Ncols < 1 || h.Nrows < 1 || h.Nsections < 1 {
		return nil, fmt.Errorf("header declares %dx%d pixels and %d sections",
			h.Ncols, h.Nrows, h.Nsections)
	}
	return h, nil
}

// PixelType returns the pixel type encoded by the header mode.
func (h *Header) PixelType() (imsubs.PixelType, error) {
	t, ok := imsubs.PixelTypeForMode(h.Mode)
	if !ok {
		return 0, fmt.Errorf("mode %d has no pixel type", h.Mode)
	}
	return t, nil
}

// SizeC returns the channel count, treating zero (very old files) as
// one.
func (h *Header) SizeC() int {
	if h.NumWaves < 1 {
		return 1
	}
	return int(h.NumWaves)
}

// SizeT returns the time point count, treating zero as one.
func (h *Header) SizeT() int {
	if h.NumTimes < 1 {
		return 1
	}
	return int(h.NumTimes)
}

// SizeZ returns the Z-section count derived from the total section
// count and the channel and time counts.
func (h *Header) SizeZ() int {
	return int(h.Nsections) / (h.SizeC() * h.SizeT())
}

// PixelSizeX returns the X pixel spacing in micrometres, undoing
// whichever convention the writer used for the cell dimension fields.
func (h *Header) PixelSizeX() float64 { return h.spacing(h.Xlen, h.Mx) }

// PixelSizeY returns the Y pixel spacing in micrometres.
func (h *Header) PixelSizeY() float64 { return h.spacing(h.Ylen, h.My) }

// PixelSizeZ returns the Z spacing in micrometres.
func (h *Header) PixelSizeZ() float64 { return h.spacing(h.Zlen, h.Mz) }

func (h *Header) spacing(length float32, freq int32) float64 {
	if h.dvSpacing {
		return float64(length)
	}
	if freq == 0 {
		return 0
	}
	return float64(length) / (float64(freq) * 10000)
}

// Wavelengths returns one wavelength per channel in nanometres, zero
// where the file recorded none.
func (h *Header) Wavelengths() []int {
	waves := make([]int, h.SizeC())
	for i := range waves {
		if i < len(h.Waves) {
			waves[i] = int(h.Waves[i])
		}
	}
	return waves
}

package mrcfile

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/MicronOxford/mrctools/pkg/imsubs"
)

// Dataset exposes the planes of an Imsubs, DV or MRC file as an
// encodable dataset, so existing files can be normalized, split by
// channel or otherwise re-encoded.  Planes are read on demand through
// an io.ReaderAt, so a Dataset is safe for concurrent plane reads.
type Dataset struct {
	f    *os.File
	hdr  *Header
	typ  imsubs.PixelType
	path string
}

// Open opens an MRC-family file and validates that its planes can be
// addressed.  The caller must Close the dataset when done.
func Open(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	header := make([]byte, HeaderSize)
	if _, err := io.ReadFull(f, header); err != nil {
		f.Close()
		return nil, fmt.Errorf("reading header of %s: %v", path, err)
	}
	hdr, err := ParseHeader(header, filepath.Base(path))
	if err != nil {
		f.Close()
		return nil, err
	}

	typ, err := hdr.PixelType()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%s: %v", path, err)
	}
	if hdr.Sequence != 0 {
		// Interleaved (WZT etc.) plane orders exist but none of our
		// instruments produce them.
		f.Close()
		return nil, fmt.Errorf("%s: unsupported image sequence %d", path, hdr.Sequence)
	}
	if int(hdr.Nsections)%(hdr.SizeC()*hdr.SizeT()) != 0 {
		f.Close()
		return nil, fmt.Errorf("%s: %d sections do not divide into %d channels and %d time points",
			path, hdr.Nsections, hdr.SizeC(), hdr.SizeT())
	}

	return &Dataset{f: f, hdr: hdr, typ: typ, path: path}, nil
}

// Close releases the underlying file.
func (d *Dataset) Close() error {
	return d.f.Close()
}

// Header returns the parsed file header.
func (d *Dataset) Header() *Header {
	return d.hdr
}

// The Dataset implements imsubs.Dataset.

func (d *Dataset) SizeX() int { return int(d.hdr.Ncols) }
func (d *Dataset) SizeY() int { return int(d.hdr.Nrows) }
func (d *Dataset) SizeZ() int { return d.hdr.SizeZ() }
func (d *Dataset) SizeC() int { return d.hdr.SizeC() }
func (d *Dataset) SizeT() int { return d.hdr.SizeT() }
func (d *Dataset) PixelType() imsubs.PixelType { return d.typ }
func (d *Dataset) PixelSizeX() float64 { return d.hdr.PixelSizeX() }
func (d *Dataset) PixelSizeY() float64 { return d.hdr.PixelSizeY() }
func (d *Dataset) PixelSizeZ() float64 { return d.hdr.PixelSizeZ() }
func (d *Dataset) Wavelengths() []int { return d.hdr.Wavelengths() }

// Plane reads the raster for the given channel, time point and
// Z-section.  Rows come back top-first, undoing the flipped row order
// planes are stored in.
func (d *Dataset) Plane(c, t, z int) (*imsubs.Plane, error) {
	nz, nc, nt := d.SizeZ(), d.SizeC(), d.SizeT()
	if c < 0 || c >= nc || t < 0 || t >= nt || z < 0 || z >= nz {
		return nil, fmt.Errorf("%s: plane (c=%d, t=%d, z=%d) out of range", d.path, c, t, z)
	}

	width, height := d.SizeX(), d.SizeY()
	planeBytes := int64(width) * int64(height) * int64(d.typ.SampleBytes())
	idx := int64((c*nt+t)*nz + z)
	off := int64(HeaderSize) + int64(d.hdr.ExtSize) + idx*planeBytes

	buf := make([]byte, planeBytes)
	if _, err := d.f.ReadAt(buf, off); err != nil {
		return nil, fmt.Errorf("%s: reading plane (c=%d, t=%d, z=%d): %v", d.path, c, t, z, err)
	}
	return decodePlane(buf, width, height, d.typ, d.hdr.ByteOrder), nil
}

// decodePlane turns raw bottom-up rows into a top-first plane.
func decodePlane(buf []byte, width, height int, typ imsubs.PixelType, order binary.ByteOrder) *imsubs.Plane {
	p := &imsubs.Plane{Width: width, Height: height}
	n := width * height
	size := typ.SampleBytes()

	// sample i of the output row-major raster sits at raw index
	// ((height-1-y)*width + x).
	raw := func(i int) int {
		y, x := i/width, i%width
		return ((height-1-y)*width + x) * size
	}

	switch typ {
	case imsubs.Uint8:
		p.Uint8 = make([]uint8, n)
		for i := range p.Uint8 {
			p.Uint8[i] = buf[raw(i)]
		}
	case imsubs.Int16:
		p.Int16 = make([]int16, n)
		for i := range p.Int16 {
			p.Int16[i] = int16(order.Uint16(buf[raw(i):]))
		}
	case imsubs.Uint16:
		p.Uint16 = make([]uint16, n)
		for i := range p.Uint16 {
			p.Uint16[i] = order.Uint16(buf[raw(i):])
		}
	case imsubs.Int32:
		p.Int32 = make([]int32, n)
		for i := range p.Int32 {
			p.Int32[i] = int32(order.Uint32(buf[raw(i):]))
		}
	case imsubs.Float32:
		p.Float32 = make([]float32, n)
		for i := range p.Float32 {
			p.Float32[i] = math.Float32frombits(order.Uint32(buf[raw(i):]))
		}
	case imsubs.Complex64:
		p.Complex64 = make([]complex64, n)
		for i := range p.Complex64 {
			off := raw(i)
			re := math.Float32frombits(order.Uint32(buf[off:]))
			im := math.Float32frombits(order.Uint32(buf[off+4:]))
			p.Complex64[i] = complex(re, im)
		}
	}
	return p
}

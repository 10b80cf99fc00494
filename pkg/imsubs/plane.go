package imsubs

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Plane is a single 2D raster: one Z-slice of one channel at one time
// point, with samples stored in row-major order (top row first).
// Exactly one of the sample slices must be non-nil, and its length must
// equal Width*Height.
//
// A Float64 plane is accepted by the encoder even though the format has
// no 64-bit float mode: it is narrowed to float32 during serialization,
// matching what acquisition pipelines produce for float images.
type Plane struct {
	Width  int
	Height int

	Uint8     []uint8
	Int16     []int16
	Uint16    []uint16
	Int32     []int32
	Float32   []float32
	Float64   []float64
	Complex64 []complex64
}

// Type returns the pixel type of the samples held by the plane and the
// number of samples, or an error if the plane holds no samples or more
// than one sample slice.
func (p *Plane) Type() (PixelType, int, error) {
	var (
		t PixelType
		n int
		c int
	)
	if p.Uint8 != nil {
		t, n, c = Uint8, len(p.Uint8), c+1
	}
	if p.Int16 != nil {
		t, n, c = Int16, len(p.Int16), c+1
	}
	if p.Uint16 != nil {
		t, n, c = Uint16, len(p.Uint16), c+1
	}
	if p.Int32 != nil {
		t, n, c = Int32, len(p.Int32), c+1
	}
	if p.Float32 != nil {
		t, n, c = Float32, len(p.Float32), c+1
	}
	if p.Float64 != nil {
		t, n, c = Float64, len(p.Float64), c+1
	}
	if p.Complex64 != nil {
		t, n, c = Complex64, len(p.Complex64), c+1
	}
	if c != 1 {
		return 0, 0, fmt.Errorf("plane must hold exactly one sample slice, has %d", c)
	}
	return t, n, nil
}

// check validates the plane against the dimensions and pixel type
// declared by its dataset.  Float64 samples are accepted for a Float32
// dataset because they are narrowed on write.
func (p *Plane) check(want PixelType, width, height int) error {
	t, n, err := p.Type()
	if err != nil {
		return err
	}
	if p.Width != width || p.Height != height {
		return fmt.Errorf("plane is %dx%d, dataset is %dx%d", p.Width, p.Height, width, height)
	}
	if n != width*height {
		return fmt.Errorf("plane holds %d samples for %dx%d pixels", n, width, height)
	}
	if t != want && !(t == Float64 && want == Float32) {
		return fmt.Errorf("plane samples are %s, dataset is %s", t, want)
	}
	return nil
}

// float64s returns all samples widened to float64 for statistics.  The
// real component is used for complex samples.
func (p *Plane) float64s() []float64 {
	t, n, err := p.Type()
	if err != nil {
		return nil
	}
	xs := make([]float64, n)
	switch t {
	case Uint8:
		for i, v := range p.Uint8 {
			xs[i] = float64(v)
		}
	case Int16:
		for i, v := range p.Int16 {
			xs[i] = float64(v)
		}
	case Uint16:
		for i, v := range p.Uint16 {
			xs[i] = float64(v)
		}
	case Int32:
		for i, v := range p.Int32 {
			xs[i] = float64(v)
		}
	case Float32:
		for i, v := range p.Float32 {
			xs[i] = float64(v)
		}
	case Float64:
		copy(xs, p.Float64)
	case Complex64:
		for i, v := range p.Complex64 {
			xs[i] = float64(real(v))
		}
	}
	return xs
}

// Stats returns the minimum, maximum and mean intensity of the plane.
func (p *Plane) Stats() (min, max, mean float64) {
	xs := p.float64s()
	if len(xs) == 0 {
		return 0, 0, 0
	}
	return floats.Min(xs), floats.Max(xs), stat.Mean(xs, nil)
}

// writeTo serializes the plane with rows in reversed (bottom-up) order,
// samples little-endian, narrowing float64 samples to float32.
func (p *Plane) writeTo(w io.Writer) error {
	t, _, err := p.Type()
	if err != nil {
		return err
	}
	stored := t
	if stored == Float64 {
		stored = Float32
	}
	row := make([]byte, p.Width*stored.SampleBytes())
	for y := p.Height - 1; y >= 0; y-- {
		off := y * p.Width
		switch t {
		case Uint8:
			copy(row, p.Uint8[off:off+p.Width])
		case Int16:
			for x := 0; x < p.Width; x++ {
				binary.LittleEndian.PutUint16(row[x*2:], uint16(p.Int16[off+x]))
			}
		case Uint16:
			for x := 0; x < p.Width; x++ {
				binary.LittleEndian.PutUint16(row[x*2:], p.Uint16[off+x])
			}
		case Int32:
			for x := 0; x < p.Width; x++ {
				binary.LittleEndian.PutUint32(row[x*4:], uint32(p.Int32[off+x]))
			}
		case Float32:
			for x := 0; x < p.Width; x++ {
				binary.LittleEndian.PutUint32(row[x*4:], math.Float32bits(p.Float32[off+x]))
			}
		case Float64:
			for x := 0; x < p.Width; x++ {
				binary.LittleEndian.PutUint32(row[x*4:], math.Float32bits(float32(p.Float64[off+x])))
			}
		case Complex64:
			for x := 0; x < p.Width; x++ {
				v := p.Complex64[off+x]
				binary.LittleEndian.PutUint32(row[x*8:], math.Float32bits(real(v)))
				binary.LittleEndian.PutUint32(row[x*8+4:], math.Float32bits(imag(v)))
			}
		}
		if _, err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

package imsubs

// PixelType identifies the numeric type of the samples in a dataset.
// It covers every type a microscopy acquisition system may hand us,
// including types the MRC format itself cannot represent.
type PixelType int

const (
	Int8 PixelType = iota
	Uint8
	Int16
	Uint16
	Int32
	Uint32
	Float32
	Float64
	Bit
	Complex64
	Complex128
)

// String returns the conventional lowercase name of the pixel type.
func (t PixelType) String() string {
	switch t {
	case Int8:
		return "int8"
	case Uint8:
		return "uint8"
	case Int16:
		return "int16"
	case Uint16:
		return "uint16"
	case Int32:
		return "int32"
	case Uint32:
		return "uint32"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case Bit:
		return "bit"
	case Complex64:
		return "complex64"
	case Complex128:
		return "complex128"
	}
	return "unknown"
}

// modeCodes maps pixel types to the MRC header mode code.  Types that
// the format has no mode for are absent from the map; uint8 maps to
// mode zero, so presence must be tested with the second return value
// rather than a zero check.
var modeCodes = map[PixelType]int32{
	Uint8:     0,
	Int16:     1,
	Float32:   2,
	Complex64: 4,
	Uint16:    6,
	Int32:     7,
}

// Mode returns the MRC mode code for the pixel type.  The second
// return value is false for types the format cannot represent (int8,
// uint32, float64, bit, complex128).
func (t PixelType) Mode() (int32, bool) {
	m, ok := modeCodes[t]
	return m, ok
}

// PixelTypeForMode returns the pixel type encoded by an MRC mode code.
func PixelTypeForMode(mode int32) (PixelType, bool) {
	for t, m := range modeCodes {
		if m == mode {
			return t, true
		}
	}
	return 0, false
}

// SampleBytes returns the size in bytes of one sample as stored in an
// MRC file.  It is only meaningful for types with a mode code.
func (t PixelType) SampleBytes() int {
	switch t {
	case Uint8:
		return 1
	case Int16, Uint16:
		return 2
	case Int32, Float32:
		return 4
	case Complex64:
		return 8
	}
	return 0
}

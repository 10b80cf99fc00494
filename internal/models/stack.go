package models

import (
	"fmt"

	"github.com/MicronOxford/mrctools/pkg/imsubs"
)

// Stack is an in-memory multi-dimensional image stack with the
// metadata the MRC header needs.  Planes are stored in channel, time,
// Z order, the same order they are serialized in.
type Stack struct {
	// Width and Height are the plane dimensions in pixels.
	Width  int
	Height int

	// NumZ, NumChannels and NumTime are the counts along the depth,
	// channel and time axes.
	NumZ        int
	NumChannels int
	NumTime     int

	// Type is the numeric type shared by all planes.
	Type imsubs.PixelType

	// PixelSize is the physical pixel spacing per axis in micrometres.
	PixelSize struct {
		X, Y, Z float64
	}

	// Waves holds the emission wavelength of each channel in
	// nanometres, zero where unknown.
	Waves []int

	// Planes holds NumChannels*NumTime*NumZ planes indexed by
	// (c*NumTime+t)*NumZ+z.
	Planes []*imsubs.Plane
}

// NewStack allocates a stack with room for every plane.  Planes start
// out nil and must be filled in with SetPlane before encoding.
func NewStack(width, height, numZ, numChannels, numTime int, typ imsubs.PixelType) *Stack {
	return &Stack{
		Width:       width,
		Height:      height,
		NumZ:        numZ,
		NumChannels: numChannels,
		NumTime:     numTime,
		Type:        typ,
		Waves:       make([]int, numChannels),
		Planes:      make([]*imsubs.Plane, numChannels*numTime*numZ),
	}
}

// PlaneIndex returns the storage index of the plane for the given
// channel, time point and Z-section.
func (s *Stack) PlaneIndex(c, t, z int) int {
	return (c*s.NumTime+t)*s.NumZ + z
}

// SetPlane stores a plane for the given channel, time point and
// Z-section.
func (s *Stack) SetPlane(c, t, z int, p *imsubs.Plane) {
	s.Planes[s.PlaneIndex(c, t, z)] = p
}

// The Stack implements imsubs.Dataset.

func (s *Stack) SizeX() int { return s.Width }
func (s *Stack) SizeY() int { return s.Height }
func (s *Stack) SizeZ() int { return s.NumZ }
func (s *Stack) SizeC() int { return s.NumChannels }
func (s *Stack) SizeT() int { return s.NumTime }
func (s *Stack) PixelType() imsubs.PixelType { return s.Type }
func (s *Stack) PixelSizeX() float64 { return s.PixelSize.X }
func (s *Stack) PixelSizeY() float64 { return s.PixelSize.Y }
func (s *Stack) PixelSizeZ() float64 { return s.PixelSize.Z }
func (s *Stack) Wavelengths() []int { return s.Waves }

// Plane returns the stored plane for the triple, or an error if the
// indices are out of range or the plane was never set.
func (s *Stack) Plane(c, t, z int) (*imsubs.Plane, error) {
	if c < 0 || c >= s.NumChannels || t < 0 || t >= s.NumTime || z < 0 || z >= s.NumZ {
		return nil, fmt.Errorf("plane (c=%d, t=%d, z=%d) out of range for %dx%dx%d stack",
			c, t, z, s.NumChannels, s.NumTime, s.NumZ)
	}
	p := s.Planes[s.PlaneIndex(c, t, z)]
	if p == nil {
		return nil, fmt.Errorf("plane (c=%d, t=%d, z=%d) was never set", c, t, z)
	}
	return p, nil
}

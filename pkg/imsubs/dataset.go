package imsubs

// Dataset is the abstract input to the encoder: a five-dimensional
// pixel array (X, Y, Z, channel, time) with the metadata the MRC
// header needs.  Implementations are provided by internal/models for
// in-memory stacks and by pkg/mrcfile for planes read back from an
// existing MRC or DV file.
type Dataset interface {
	// SizeX and SizeY are the plane dimensions in pixels.
	SizeX() int
	SizeY() int

	// SizeZ, SizeC and SizeT are the counts along the depth, channel
	// and time axes.
	SizeZ() int
	SizeC() int
	SizeT() int

	// PixelType declares the numeric type of every plane's samples.
	PixelType() PixelType

	// PixelSizeX, PixelSizeY and PixelSizeZ are the physical pixel
	// spacings in micrometres.
	PixelSizeX() float64
	PixelSizeY() float64
	PixelSizeZ() float64

	// Wavelengths returns the emission wavelength of each channel in
	// nanometres, with zero for channels whose wavelength is unknown.
	// The encoder expects one entry per channel; see
	// Options.AllowChannelMismatch for the legacy behaviour when the
	// counts disagree.
	Wavelengths() []int

	// Plane returns the 2D raster for the given channel, time point
	// and Z-section.  It may be called any number of times for the
	// same triple; the encoder does not cache results.
	//
	// EncodeSeparateChannels calls Plane from multiple goroutines, so
	// implementations must be safe for concurrent reads.
	Plane(c, t, z int) (*Plane, error)
}

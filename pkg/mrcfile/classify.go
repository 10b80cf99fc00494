// Package mrcfile reads and classifies MRC-family image containers:
// the Priism/IVE Imsubs sub-format, Deltavision (DV) files, MRC
// image2000 files and the signature-less original MRC format.  It also
// exposes files of those formats as encodable datasets so they can be
// rewritten as Imsubs.
package mrcfile

import (
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Format is the classification of a file among the MRC-derived
// container variants.
type Format int

const (
	// Unknown marks files too short to hold an MRC header or with no
	// recognisable signature or extension.
	Unknown Format = iota

	// Imsubs is the Priism/IVE sub-format, signature -16224 at byte 96.
	// Native-order Deltavision files carry the same signature.
	Imsubs

	// DV is a byte-swapped Deltavision file: the Imsubs signature read
	// in the opposite byte order.
	DV

	// Image2000 is the modern crystallographic MRC variant with the
	// "MAP " tag at byte 208.
	Image2000

	// MRC is the original signature-less format, recognised only by
	// its file extension.
	MRC

	// TIFF is not an MRC variant at all, but turns up constantly in
	// the same directories; see IsTIFF.
	TIFF
)

// String returns the conventional name of the format.
func (f Format) String() string {
	switch f {
	case Imsubs:
		return "MRC Imsubs"
	case DV:
		return "Deltavision"
	case Image2000:
		return "MRC image2000"
	case MRC:
		return "MRC"
	case TIFF:
		return "TIFF"
	}
	return "unknown"
}

const (
	// imsubsID is the Imsubs signature at byte offset 96.
	imsubsID int16 = -16224

	// dvSwappedID is the same signature as stored by a big-endian
	// writer, read little-endian.
	dvSwappedID uint16 = 0xA0C0

	// image2000Tag sits at byte offset 208 in image2000 files.
	image2000Tag = "MAP "
)

// Classify maps a header prefix to an MRC-family format.  It is a pure
// function of its inputs: a prefix shorter than the 1024-byte header
// is Unknown, otherwise the signature checks run in a fixed order
// (Imsubs, DV, image2000) with the .mrc file extension as the final
// fallback.  TIFF detection is separate; see IsTIFF.
func Classify(header []byte, filename string) Format {
	if len(header) < HeaderSize {
		return Unknown
	}
	sig := binary.LittleEndian.Uint16(header[96:98])
	if int16(sig) == imsubsID {
		return Imsubs
	}
	if sig == dvSwappedID {
		return DV
	}
	if string(header[208:212]) == image2000Tag {
		return Image2000
	}
	if strings.EqualFold(filepath.Ext(filename), ".mrc") {
		return MRC
	}
	return Unknown
}

// IsTIFF reports whether the prefix starts with a TIFF magic number,
// in either byte order.
func IsTIFF(prefix []byte) bool {
	if len(prefix) < 4 {
		return false
	}
	switch {
	case prefix[0] == 'I' && prefix[1] == 'I':
		return binary.LittleEndian.Uint16(prefix[2:4]) == 42
	case prefix[0] == 'M' && prefix[1] == 'M':
		return binary.BigEndian.Uint16(prefix[2:4]) == 42
	}
	return false
}

// ClassifyFile reads the header prefix of the file at path and
// classifies it.  A file too short for the checks is Unknown, not an
// error; errors are reserved for files that cannot be read at all.
func ClassifyFile(path string) (Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return Unknown, err
	}
	defer f.Close()

	header := make([]byte, HeaderSize)
	n, err := io.ReadFull(f, header)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return Unknown, err
	}
	header = header[:n]

	if IsTIFF(header) {
		return TIFF, nil
	}
	return Classify(header, filepath.Base(path)), nil
}

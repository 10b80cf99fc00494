package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"github.com/MicronOxford/mrctools/pkg/mrcfile"
)

func main() {
	flag.Parse()
	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: mrcinfo file...")
		os.Exit(1)
	}

	failed := false
	for _, path := range flag.Args() {
		if err := describe(path); err != nil {
			log.Printf("%s: %v", path, err)
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
}

// describe prints the classification of one file and, for MRC-family
// files, the parsed header.
func describe(path string) error {
	format, err := mrcfile.ClassifyFile(path)
	if err != nil {
		return err
	}
	fmt.Printf("%s: %s\n", path, format)

	switch format {
	case mrcfile.Imsubs, mrcfile.DV, mrcfile.Image2000, mrcfile.MRC:
	default:
		return nil
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	header := make([]byte, mrcfile.HeaderSize)
	if _, err := io.ReadFull(f, header); err != nil {
		return err
	}
	hdr, err := mrcfile.ParseHeader(header, filepath.Base(path))
	if err != nil {
		return err
	}

	fmt.Printf("  dimensions:  %d x %d pixels, %d Z-sections, %d channels, %d time points\n",
		hdr.Ncols, hdr.Nrows, hdr.SizeZ(), hdr.SizeC(), hdr.SizeT())
	if typ, err := hdr.PixelType(); err == nil {
		fmt.Printf("  pixel type:  %s (mode %d)\n", typ, hdr.Mode)
	} else {
		fmt.Printf("  pixel type:  unknown (mode %d)\n", hdr.Mode)
	}
	fmt.Printf("  pixel size:  %.4f x %.4f x %.4f um\n",
		hdr.PixelSizeX(), hdr.PixelSizeY(), hdr.PixelSizeZ())
	fmt.Printf("  intensity:   min %g, max %g, mean %g\n", hdr.Amin, hdr.Amax, hdr.Amean)
	fmt.Printf("  wavelengths: %v nm\n", hdr.Wavelengths())

	st, err := f.Stat()
	if err != nil {
		return err
	}
	fmt.Printf("  file size:   %s (%d bytes)\n", humanize.IBytes(uint64(st.Size())), st.Size())

	if typ, err := hdr.PixelType(); err == nil {
		expected := int64(mrcfile.HeaderSize) + int64(hdr.ExtSize) +
			int64(hdr.Nsections)*int64(hdr.Ncols)*int64(hdr.Nrows)*int64(typ.SampleBytes())
		if st.Size() != expected {
			fmt.Printf("  WARNING: expected %s of data, file may be truncated or padded\n",
				humanize.IBytes(uint64(expected)))
		}
	}
	return nil
}

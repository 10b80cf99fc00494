package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/MicronOxford/mrctools/internal/fsutil"
	"github.com/MicronOxford/mrctools/pkg/config"
	"github.com/MicronOxford/mrctools/pkg/imsubs"
	"github.com/MicronOxford/mrctools/pkg/mrcfile"
	"github.com/MicronOxford/mrctools/pkg/tiffstack"
)

func main() {
	// Parse command line arguments
	output := flag.String("output", "", "Output MRC filename (default: first input renamed to .mrc)")
	configPath := flag.String("config", "", "Optional YAML configuration file")
	channels := flag.Int("channels", 1, "Number of channels in a TIFF input sequence")
	timepoints := flag.Int("timepoints", 1, "Number of time points in a TIFF input sequence")
	zsections := flag.Int("z", 0, "Number of Z-sections in a TIFF input sequence (default: inferred from file count)")
	px := flag.Float64("px", 0, "Pixel spacing along X in micrometres (default: input metadata, then config)")
	py := flag.Float64("py", 0, "Pixel spacing along Y in micrometres")
	pz := flag.Float64("pz", 0, "Pixel spacing along Z in micrometres")
	waves := flag.String("waves", "", "Comma-separated emission wavelengths in nm, one per channel")
	separate := flag.Bool("separate-channels", false, "Write one single-channel file per channel")
	allowMismatch := flag.Bool("allow-channel-mismatch", false, "Pad or truncate mismatched wavelength metadata instead of failing")
	flag.Parse()

	inputs := flag.Args()
	if len(inputs) == 0 {
		fmt.Fprintln(os.Stderr, "usage: any2mrc [options] input.dv | slice*.tif")
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *separate {
		cfg.Convert.SeparateChannels = true
	}
	if *allowMismatch {
		cfg.Convert.AllowChannelMismatch = true
	}

	wavelengths, err := parseWaves(*waves)
	if err != nil {
		log.Fatalf("Invalid -waves value: %v", err)
	}

	ds, cleanup, err := openDataset(inputs, cfg, *channels, *timepoints, *zsections,
		*px, *py, *pz, wavelengths)
	if err != nil {
		log.Fatalf("Failed to open input: %v", err)
	}
	defer cleanup()

	outPath := *output
	if outPath == "" {
		base := strings.TrimSuffix(inputs[0], filepath.Ext(inputs[0]))
		outPath = base + ".mrc"
	}

	fmt.Printf("Converting %d x %d x %d image (%d channels, %d time points, %s) ...\n",
		ds.SizeX(), ds.SizeY(), ds.SizeZ(), ds.SizeC(), ds.SizeT(), ds.PixelType())

	opts := imsubs.Options{AllowChannelMismatch: cfg.Convert.AllowChannelMismatch}

	if cfg.Convert.SeparateChannels {
		dir := filepath.Dir(outPath)
		base := strings.TrimSuffix(filepath.Base(outPath), filepath.Ext(outPath))
		paths, err := imsubs.EncodeSeparateChannels(ds, dir, base, opts)
		if err != nil {
			log.Fatalf("Conversion failed: %v", err)
		}
		for _, p := range paths {
			fmt.Printf("Wrote %s\n", p)
		}
		return
	}

	f, err := os.Create(outPath)
	if err != nil {
		log.Fatalf("Failed to create output file: %v", err)
	}
	err = imsubs.EncodeWithOptions(ds, f, opts)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		if r := fsutil.Remove(outPath); !r.Ok() {
			log.Printf("Warning: could not remove partial output %s: %v", outPath, r.Err)
		}
		log.Fatalf("Conversion failed: %v", err)
	}
	fmt.Printf("Wrote %s\n", outPath)
}

// openDataset decides whether the inputs are an existing MRC-family
// file or a TIFF slice sequence, and opens them accordingly.  The
// returned cleanup function closes whatever was opened.
func openDataset(inputs []string, cfg *config.Config, channels, timepoints, zsections int,
	px, py, pz float64, wavelengths []int) (imsubs.Dataset, func(), error) {

	if len(inputs) == 1 {
		format, err := mrcfile.ClassifyFile(inputs[0])
		if err != nil {
			return nil, nil, err
		}
		switch format {
		case mrcfile.Imsubs, mrcfile.DV, mrcfile.Image2000, mrcfile.MRC:
			fmt.Printf("Input %s detected as %s\n", inputs[0], format)
			ds, err := mrcfile.Open(inputs[0])
			if err != nil {
				return nil, nil, err
			}
			return ds, func() { ds.Close() }, nil
		}
	}

	// Anything else is treated as a TIFF slice sequence.
	opts := tiffstack.Options{
		NumChannels: channels,
		NumTime:     timepoints,
		NumZ:        zsections,
		Wavelengths: wavelengths,
		SortPaths:   true,
	}
	opts.PixelSize.X = firstNonZero(px, cfg.PixelSize.X)
	opts.PixelSize.Y = firstNonZero(py, cfg.PixelSize.Y)
	opts.PixelSize.Z = firstNonZero(pz, cfg.PixelSize.Z)

	stack, err := tiffstack.Load(inputs, opts)
	if err != nil {
		return nil, nil, err
	}
	return stack, func() {}, nil
}

// parseWaves parses a comma-separated wavelength list, returning nil
// for an empty string.
func parseWaves(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	waves := make([]int, len(parts))
	for i, p := range parts {
		w, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("wavelength %q is not an integer", p)
		}
		waves[i] = w
	}
	return waves, nil
}

func firstNonZero(vs ...float64) float64 {
	for _, v := range vs {
		if v != 0 {
			return v
		}
	}
	return 0
}

package imsubs

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

// TestEncodeSeparateChannels writes one file per channel and checks
// each holds a well-formed single-channel image.
func TestEncodeSeparateChannels(t *testing.T) {
	ds := uint8Dataset(2, 2, 3, 2, 1)
	ds.waves = []int{488, 594}

	dir := t.TempDir()
	paths, err := EncodeSeparateChannels(ds, dir, "cell01", Options{})
	if err != nil {
		t.Fatalf("split encode failed: %v", err)
	}

	want := []string{
		filepath.Join(dir, "cell01_CH_0.mrc"),
		filepath.Join(dir, "cell01_CH_1.mrc"),
	}
	if len(paths) != len(want) {
		t.Fatalf("got %d paths, want %d", len(paths), len(want))
	}
	for c, path := range paths {
		if path != want[c] {
			t.Errorf("path[%d] = %s, want %s", c, path, want[c])
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("reading %s: %v", path, err)
		}
		// Single channel, three sections of 2x2 uint8.
		if len(data) != HeaderSize+3*4 {
			t.Errorf("%s is %d bytes, want %d", path, len(data), HeaderSize+3*4)
		}
		if got := int16(binary.LittleEndian.Uint16(data[196:])); got != 1 {
			t.Errorf("%s: numwaves = %d, want 1", path, got)
		}
		wave := int16(binary.LittleEndian.Uint16(data[198:]))
		if got, want := wave, int16(ds.waves[c]); got != want {
			t.Errorf("%s: wave[0] = %d, want %d", path, got, want)
		}
		// Plane values carry the channel of the source dataset.
		for z := 0; z < 3; z++ {
			wantVal := uint8(c*3 + z)
			if got := data[HeaderSize+z*4]; got != wantVal {
				t.Errorf("%s: section %d holds %d, want %d", path, z, got, wantVal)
			}
		}
	}
}

// TestEncodeSeparateChannelsTooMany rejects six channels without
// creating any file.
func TestEncodeSeparateChannelsTooMany(t *testing.T) {
	ds := uint8Dataset(2, 2, 1, 6, 1)
	dir := t.TempDir()

	if _, err := EncodeSeparateChannels(ds, dir, "x", Options{}); err == nil {
		t.Fatal("expected error for 6 channels")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("%d files created despite validation failure", len(entries))
	}
}

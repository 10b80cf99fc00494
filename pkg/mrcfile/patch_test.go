package mrcfile

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"
)

// dvFileBytes builds a minimal byte-swapped Deltavision file: a full
// header followed by a little image data.
func dvFileBytes() []byte {
	h := make([]byte, HeaderSize)
	be := binary.BigEndian
	be.PutUint32(h[0:], 4)  // ncols
	be.PutUint32(h[4:], 4)  // nrows
	be.PutUint32(h[8:], 1)  // nsections
	be.PutUint32(h[12:], 6) // mode: uint16
	be.PutUint32(h[40:], math.Float32bits(0.1))
	be.PutUint32(h[44:], math.Float32bits(0.1))
	be.PutUint32(h[48:], math.Float32bits(0.3))
	be.PutUint16(h[96:], uint16(0xC0A0)) // signature in writer order
	be.PutUint16(h[196:], 1)             // channels
	be.PutUint16(h[198:], 525)

	data := make([]byte, 4*4*2)
	for i := range data {
		data[i] = byte(i)
	}
	return append(h, data...)
}

func writeDV(t *testing.T, path string) []byte {
	t.Helper()
	orig := dvFileBytes()
	if err := os.WriteFile(path, orig, 0644); err != nil {
		t.Fatal(err)
	}
	return orig
}

// TestPatchPixelSize checks that only the two spacing fields change
// and that they are written in the file's own byte order.
func TestPatchPixelSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cells.dv")
	orig := writeDV(t, path)

	if err := PatchPixelSize(path, 0.065, 0.065); err != nil {
		t.Fatalf("patch failed: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(orig) {
		t.Fatalf("file length changed from %d to %d", len(orig), len(got))
	}

	be := binary.BigEndian
	if bits := be.Uint32(got[40:]); bits != math.Float32bits(0.065) {
		t.Errorf("X spacing bytes = %08x, want %08x", bits, math.Float32bits(0.065))
	}
	if bits := be.Uint32(got[44:]); bits != math.Float32bits(0.065) {
		t.Errorf("Y spacing bytes = %08x, want %08x", bits, math.Float32bits(0.065))
	}
	for i := range got {
		if i >= 40 && i < 48 {
			continue
		}
		if got[i] != orig[i] {
			t.Fatalf("byte %d changed from %#x to %#x", i, orig[i], got[i])
		}
	}

	// The parsed header should now report the new spacing.
	hdr, err := ParseHeader(got[:HeaderSize], "cells.dv")
	if err != nil {
		t.Fatal(err)
	}
	if v := hdr.PixelSizeX(); math.Abs(v-0.065) > 1e-6 {
		t.Errorf("pixel size X = %g, want 0.065", v)
	}
}

// TestPatchTree patches every .dv file under a directory tree and
// leaves everything else alone.
func TestPatchTree(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0755); err != nil {
		t.Fatal(err)
	}

	writeDV(t, filepath.Join(dir, "a.dv"))
	writeDV(t, filepath.Join(dir, "sub", "b.DV"))
	mrcOrig := writeDV(t, filepath.Join(dir, "c.mrc"))
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi"), 0644); err != nil {
		t.Fatal(err)
	}

	n, err := PatchTree(dir, 0.065, 0.065)
	if err != nil {
		t.Fatalf("patch tree failed: %v", err)
	}
	if n != 2 {
		t.Errorf("patched %d files, want 2", n)
	}

	for _, name := range []string{"a.dv", filepath.Join("sub", "b.DV")} {
		got, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Fatal(err)
		}
		if bits := binary.BigEndian.Uint32(got[40:]); bits != math.Float32bits(0.065) {
			t.Errorf("%s was not patched", name)
		}
	}

	// Files with other extensions are untouched.
	got, err := os.ReadFile(filepath.Join(dir, "c.mrc"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, mrcOrig) {
		t.Error("c.mrc should not have been patched")
	}
}

// TestPatchTreeFailure stops at the first unpatchable file.
func TestPatchTreeFailure(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "broken.dv"), []byte("nope"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := PatchTree(dir, 0.065, 0.065); err == nil {
		t.Error("expected error for unparseable file")
	}
}

func TestPatchPixelSizeMissing(t *testing.T) {
	if err := PatchPixelSize(filepath.Join(t.TempDir(), "absent.dv"), 0.1, 0.1); err == nil {
		t.Error("expected error for missing file")
	}
}

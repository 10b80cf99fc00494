package reorder

import (
	"testing"
)

// at resolves a coordinate tuple into a row-major flat index.
func at(shape []int, coords ...int) int {
	idx := 0
	for d, c := range coords {
		idx = idx*shape[d] + c
	}
	return idx
}

// planeStack builds a stack of x by y planes where every sample of
// plane k holds the value k.
func planeStack(planes, x, y int) []uint8 {
	data := make([]uint8, planes*x*y)
	for i := range data {
		data[i] = uint8(i / (x * y))
	}
	return data
}

// TestReorderSIM rearranges a structured-illumination stack from
// acquisition order (Z slowest, then phase, angle fastest) to the
// order the reconstruction wants.
func TestReorderSIM(t *testing.T) {
	const a, p, z, x, y = 3, 5, 8, 2, 2
	data := planeStack(z*p*a, x, y)

	out, outShape, err := Reorder(data,
		[]int{z, p, a, x, y},
		[]string{"z", "p", "a", "x", "y"},
		[]string{"a", "z", "p", "x", "y"})
	if err != nil {
		t.Fatalf("reorder failed: %v", err)
	}

	want := []int{a, z, p, x, y}
	for d := range want {
		if outShape[d] != want[d] {
			t.Fatalf("output shape = %v, want %v", outShape, want)
		}
	}
	if len(out) != len(data) {
		t.Fatalf("output has %d elements, want %d", len(out), len(data))
	}

	// Stepping one unit along an output axis moves by that axis's
	// stride in acquisition order.
	cases := []struct {
		coords []int
		want   uint8
	}{
		{[]int{0, 0, 0, 0, 0}, 0},
		{[]int{1, 0, 0, 0, 0}, 1},     // next angle was the fastest axis
		{[]int{0, 1, 0, 0, 0}, p * a}, // next Z was the slowest
		{[]int{0, 0, 1, 0, 0}, a},     // next phase
	}
	for _, c := range cases {
		if got := out[at(outShape, c.coords...)]; got != c.want {
			t.Errorf("sample at %v = %d, want %d", c.coords, got, c.want)
		}
	}
}

// TestReorderSIMWavelengths covers the full seven-axis acquisition
// with wavelength and time axes on the outside.
func TestReorderSIMWavelengths(t *testing.T) {
	const a, p, z, w, tp, x, y = 3, 5, 8, 2, 1, 2, 2
	const zpa = z * p * a
	data := planeStack(w*tp*zpa, x, y)

	out, outShape, err := Reorder(data,
		[]int{w, tp, z, p, a, x, y},
		[]string{"w", "t", "z", "p", "a", "x", "y"},
		[]string{"w", "t", "a", "z", "p", "x", "y"})
	if err != nil {
		t.Fatalf("reorder failed: %v", err)
	}

	cases := []struct {
		coords []int
		want   uint8
	}{
		{[]int{0, 0, 0, 0, 0, 0, 0}, 0},
		{[]int{0, 0, 1, 0, 0, 0, 0}, 1},
		{[]int{0, 0, 0, 1, 0, 0, 0}, p * a},
		{[]int{0, 0, 0, 0, 1, 0, 0}, a},
		{[]int{1, 0, 0, 0, 0, 0, 0}, zpa},
		{[]int{1, 0, 1, 0, 0, 0, 0}, zpa + 1},
		{[]int{1, 0, 0, 1, 0, 0, 0}, zpa + p*a},
		{[]int{1, 0, 0, 0, 1, 0, 0}, zpa + a},
	}
	for _, c := range cases {
		if got := out[at(outShape, c.coords...)]; got != c.want {
			t.Errorf("sample at %v = %d, want %d", c.coords, got, c.want)
		}
	}
}

// TestReorderIdentity leaves data untouched when the orders match.
func TestReorderIdentity(t *testing.T) {
	data := []int16{1, 2, 3, 4, 5, 6}
	out, outShape, err := Reorder(data,
		[]int{2, 3}, []string{"z", "x"}, []string{"z", "x"})
	if err != nil {
		t.Fatalf("reorder failed: %v", err)
	}
	if outShape[0] != 2 || outShape[1] != 3 {
		t.Fatalf("output shape = %v, want [2 3]", outShape)
	}
	for i := range data {
		if out[i] != data[i] {
			t.Fatalf("sample %d = %d, want %d", i, out[i], data[i])
		}
	}
}

// TestReorderRejects covers the argument validation.
func TestReorderRejects(t *testing.T) {
	data := make([]float32, 6)
	cases := []struct {
		name              string
		shape             []int
		orderIn, orderOut []string
	}{
		{"shape length", []int{6}, []string{"z", "x"}, []string{"x", "z"}},
		{"order length", []int{2, 3}, []string{"z", "x"}, []string{"z"}},
		{"different axes", []int{2, 3}, []string{"z", "x"}, []string{"z", "y"}},
		{"repeated axis", []int{2, 3}, []string{"z", "z"}, []string{"z", "z"}},
		{"zero axis", []int{0, 6}, []string{"z", "x"}, []string{"x", "z"}},
		{"element count", []int{2, 2}, []string{"z", "x"}, []string{"x", "z"}},
	}
	for _, c := range cases {
		if _, _, err := Reorder(data, c.shape, c.orderIn, c.orderOut); err == nil {
			t.Errorf("%s: expected an error", c.name)
		}
	}
}

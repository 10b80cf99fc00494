// Package reorder rearranges the axes of multi-dimensional plane
// stacks.  Structured-illumination acquisitions interleave Z-sections,
// phases and angles in whatever order the microscope produced them,
// and downstream reconstruction software wants a different one.
package reorder

import (
	"fmt"
	"sort"
)

// Reorder transposes a row-major array from one named axis order to
// another.  orderIn names the axes of data from slowest to fastest
// varying, shape gives their lengths in the same order, and orderOut
// names the wanted axis order.  The two orders must contain exactly
// the same axis names with no repeats.
//
// It returns the transposed data along with its shape.
func Reorder[T any](data []T, shape []int, orderIn, orderOut []string) ([]T, []int, error) {
	if len(shape) != len(orderIn) {
		return nil, nil, fmt.Errorf("shape has %d axes, orderIn has %d", len(shape), len(orderIn))
	}
	if len(orderOut) != len(orderIn) {
		return nil, nil, fmt.Errorf("orderIn has %d axes, orderOut has %d", len(orderIn), len(orderOut))
	}
	if !sameAxes(orderIn, orderOut) {
		return nil, nil, fmt.Errorf("orderIn %v and orderOut %v do not name the same axes", orderIn, orderOut)
	}

	pos := make(map[string]int, len(orderIn))
	for i, name := range orderIn {
		if _, dup := pos[name]; dup {
			return nil, nil, fmt.Errorf("repeated axis %q", name)
		}
		pos[name] = i
	}

	total := 1
	for i, n := range shape {
		if n < 1 {
			return nil, nil, fmt.Errorf("axis %q has length %d", orderIn[i], n)
		}
		total *= n
	}
	if total != len(data) {
		return nil, nil, fmt.Errorf("shape %v holds %d elements, data has %d", shape, total, len(data))
	}

	// perm[i] is the input axis that becomes output axis i.
	perm := make([]int, len(orderOut))
	outShape := make([]int, len(orderOut))
	for i, name := range orderOut {
		perm[i] = pos[name]
		outShape[i] = shape[perm[i]]
	}

	// Row-major strides of the input.
	strides := make([]int, len(shape))
	stride := 1
	for i := len(shape) - 1; i >= 0; i-- {
		strides[i] = stride
		stride *= shape[i]
	}

	// Walk output indices with an odometer over the output coords and
	// gather from the permuted input offset.
	out := make([]T, len(data))
	coord := make([]int, len(outShape))
	for i := range out {
		off := 0
		for d, c := range coord {
			off += c * strides[perm[d]]
		}
		out[i] = data[off]

		for d := len(coord) - 1; d >= 0; d-- {
			coord[d]++
			if coord[d] < outShape[d] {
				break
			}
			coord[d] = 0
		}
	}
	return out, outShape, nil
}

func sameAxes(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	as := append([]string(nil), a...)
	bs := append([]string(nil), b...)
	sort.Strings(as)
	sort.Strings(bs)
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}

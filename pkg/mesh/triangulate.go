package mesh

import (
	"fmt"
	"iter"
)

// Triangulate splits a face into a fan of len(Corners)-2 triangles anchored at
// the first corner: triangle k is (c0, c[k+1], c[k+2]). Winding is preserved.
// Concave or non-planar faces are not handled; they get the same fan.
func Triangulate(f Face) (iter.Seq[Triangle], error) {
	n := len(f.Corners)
	if n < 3 {
		return nil, fmt.Errorf("%w: got %d", ErrDegenerateFace, n)
	}

	corners := f.Corners
	return func(yield func(Triangle) bool) {
		for k := 1; k < n-1; k++ {
			if !yield(Triangle{corners[0], corners[k], corners[k+1]}) {
				return
			}
		}
	}, nil
}

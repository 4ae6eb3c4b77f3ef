// Package mesh reduces polygon meshes to drawable vertex and index buffers.
//
// Faces are fan-triangulated and every triangle corner is welded onto a
// previously emitted vertex when it shares position and UV with the first
// vertex emitted at that position. The resulting Buffers hold one entry per
// unique vertex and one index per triangle corner, in traversal order.
package mesh

import (
	"errors"
	"fmt"

	"github.com/Faultbox/glarrays/pkg/math"
)

// Mesh errors.
var (
	ErrDegenerateFace    = errors.New("face has fewer than 3 corners")
	ErrMissingAttribute  = errors.New("corner is missing attribute data")
	ErrIndexOutOfRange   = errors.New("index out of range")
	ErrIndexCountInvalid = errors.New("index count is not a multiple of 3")
)

// Corner is one vertex instance of one face.
type Corner struct {
	Position math.Vec3
	Normal   math.Vec3
	UV       math.Vec2
}

// Face is a polygon with its corners in winding order.
type Face struct {
	Corners []Corner
}

// Triangle holds three corners in winding order.
type Triangle [3]Corner

// Object is a named source object made of faces.
type Object struct {
	Name  string
	Faces []Face
}

// TriangleCount returns the number of triangles the object fans into.
// Faces with fewer than 3 corners contribute nothing.
func (o *Object) TriangleCount() int {
	n := 0
	for _, f := range o.Faces {
		if len(f.Corners) >= 3 {
			n += len(f.Corners) - 2
		}
	}
	return n
}

// UniqueVertex is one entry of the deduplicated vertex buffer. The normal is
// the one carried by the corner that created the entry.
type UniqueVertex struct {
	Position math.Vec3
	Normal   math.Vec3
	UV       math.Vec2
}

// Buffers holds the vertex and index buffers of one object.
type Buffers struct {
	Vertices []UniqueVertex // First-seen order
	Indices  []uint32       // One per triangle corner
}

// VertexCount returns the number of unique vertices.
func (b *Buffers) VertexCount() int {
	return len(b.Vertices)
}

// IndexCount returns the number of indices.
func (b *Buffers) IndexCount() int {
	return len(b.Indices)
}

// TriangleCount returns the number of triangles described by the indices.
func (b *Buffers) TriangleCount() int {
	return len(b.Indices) / 3
}

// Validate checks that the indices describe whole triangles and all refer
// to an existing vertex.
func (b *Buffers) Validate() error {
	if len(b.Indices)%3 != 0 {
		return fmt.Errorf("%w: %d", ErrIndexCountInvalid, len(b.Indices))
	}
	for i, idx := range b.Indices {
		if int(idx) >= len(b.Vertices) {
			return fmt.Errorf("%w: indices[%d] = %d, vertex count %d", ErrIndexOutOfRange, i, idx, len(b.Vertices))
		}
	}
	return nil
}

// DuplicateVertices returns the number of vertices that repeat the position
// and UV of an earlier vertex. Welding only compares against the first vertex
// at a position, so a UV seam visited more than once produces duplicates.
func (b *Buffers) DuplicateVertices() int {
	type key struct {
		pos math.Vec3
		uv  math.Vec2
	}
	seen := make(map[key]struct{}, len(b.Vertices))
	dups := 0
	for _, v := range b.Vertices {
		k := key{v.Position, v.UV}
		if _, ok := seen[k]; ok {
			dups++
			continue
		}
		seen[k] = struct{}{}
	}
	return dups
}

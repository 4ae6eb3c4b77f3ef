package mesh

import (
	"fmt"

	"github.com/Faultbox/glarrays/pkg/math"
)

// Welder accumulates the buffers of a single object. Corners are welded onto
// the first unique vertex sharing their position, and only when that vertex
// also carries the same UV. A later vertex at the same position is never
// reused, even when its UV would match.
//
// A Welder is not safe for concurrent use and must not be shared between
// objects.
type Welder struct {
	vertices []UniqueVertex
	indices  []uint32

	// Index of the first unique vertex emitted at each position.
	firstAt map[math.Vec3]uint32
}

// NewWelder returns an empty welder.
func NewWelder() *Welder {
	return &Welder{
		firstAt: make(map[math.Vec3]uint32),
	}
}

// findPosition returns the index of the first unique vertex at pos.
func (w *Welder) findPosition(pos math.Vec3) (uint32, bool) {
	idx, ok := w.firstAt[pos]
	return idx, ok
}

// ResolveCorner returns the unique vertex index for c, appending a new
// vertex when c does not weld. An existing vertex keeps its normal.
func (w *Welder) ResolveCorner(c Corner) uint32 {
	if idx, ok := w.findPosition(c.Position); ok && w.vertices[idx].UV.Equal(c.UV) {
		return idx
	}

	idx := uint32(len(w.vertices))
	w.vertices = append(w.vertices, UniqueVertex{
		Position: c.Position,
		Normal:   c.Normal,
		UV:       c.UV,
	})
	if _, ok := w.firstAt[c.Position]; !ok {
		w.firstAt[c.Position] = idx
	}
	return idx
}

// AddTriangle resolves the three corners in order and appends their indices.
// The order fixes the winding of the emitted triangle.
func (w *Welder) AddTriangle(t Triangle) {
	for _, c := range t {
		w.indices = append(w.indices, w.ResolveCorner(c))
	}
}

// AddFace triangulates f and adds every triangle in fan order.
func (w *Welder) AddFace(f Face) error {
	tris, err := Triangulate(f)
	if err != nil {
		return err
	}
	for t := range tris {
		w.AddTriangle(t)
	}
	return nil
}

// Buffers returns the accumulated buffers. The welder must not be used
// afterwards.
func (w *Welder) Buffers() *Buffers {
	b := &Buffers{
		Vertices: w.vertices,
		Indices:  w.indices,
	}
	w.vertices, w.indices, w.firstAt = nil, nil, nil
	return b
}

// Build reduces an object to its buffers using a fresh welder. Any invalid
// face aborts the object; no partial buffers are returned.
func Build(o Object) (*Buffers, error) {
	w := NewWelder()
	for i, f := range o.Faces {
		if err := w.AddFace(f); err != nil {
			return nil, fmt.Errorf("object %q face %d: %w", o.Name, i, err)
		}
	}
	return w.Buffers(), nil
}

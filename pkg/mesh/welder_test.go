package mesh

import (
	"errors"
	"testing"

	"github.com/Faultbox/glarrays/pkg/math"
)

func at(pos math.Vec3, uv math.Vec2) Corner {
	return Corner{Position: pos, Normal: math.Vec3{Z: 1}, UV: uv}
}

func TestBuild_SingleTriangle(t *testing.T) {
	n := math.Vec3{Z: 1}
	obj := Object{
		Name: "tri",
		Faces: []Face{{Corners: []Corner{
			{Position: math.Vec3{}, Normal: n, UV: math.Vec2{}},
			{Position: math.Vec3{X: 1}, Normal: n, UV: math.Vec2{X: 1}},
			{Position: math.Vec3{Y: 1}, Normal: n, UV: math.Vec2{Y: 1}},
		}}},
	}

	b, err := Build(obj)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if b.VertexCount() != 3 {
		t.Errorf("vertex count = %d, want 3", b.VertexCount())
	}
	want := []uint32{0, 1, 2}
	if len(b.Indices) != len(want) {
		t.Fatalf("indices = %v, want %v", b.Indices, want)
	}
	for i := range want {
		if b.Indices[i] != want[i] {
			t.Errorf("indices = %v, want %v", b.Indices, want)
			break
		}
	}
	if err := b.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestBuild_IndexCount(t *testing.T) {
	obj := Object{Faces: []Face{polygon(3), polygon(4), polygon(5), polygon(8)}}
	b, err := Build(obj)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	want := 3 * ((3 - 2) + (4 - 2) + (5 - 2) + (8 - 2))
	if b.IndexCount() != want {
		t.Errorf("index count = %d, want %d", b.IndexCount(), want)
	}
	if b.TriangleCount() != obj.TriangleCount() {
		t.Errorf("triangle count = %d, object says %d", b.TriangleCount(), obj.TriangleCount())
	}
	if err := b.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestBuild_SharedQuadEdge(t *testing.T) {
	// Two quads sharing an edge with matching UVs: 6 unique vertices.
	p := func(x, y float32) Corner { return at(math.Vec3{X: x, Y: y}, math.Vec2{X: x, Y: y}) }
	obj := Object{Faces: []Face{
		{Corners: []Corner{p(0, 0), p(1, 0), p(1, 1), p(0, 1)}},
		{Corners: []Corner{p(1, 0), p(2, 0), p(2, 1), p(1, 1)}},
	}}

	b, err := Build(obj)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if b.VertexCount() != 6 {
		t.Errorf("vertex count = %d, want 6", b.VertexCount())
	}
	want := []uint32{0, 1, 2, 0, 2, 3, 1, 4, 5, 1, 5, 2}
	for i := range want {
		if b.Indices[i] != want[i] {
			t.Fatalf("indices = %v, want %v", b.Indices, want)
		}
	}
}

func TestWelder_IndexZeroWelds(t *testing.T) {
	w := NewWelder()
	c := at(math.Vec3{X: 1, Y: 2, Z: 3}, math.Vec2{X: 0.5, Y: 0.5})

	if got := w.ResolveCorner(c); got != 0 {
		t.Fatalf("first corner resolved to %d, want 0", got)
	}
	if got := w.ResolveCorner(c); got != 0 {
		t.Errorf("repeat of vertex 0 resolved to %d, want 0", got)
	}
	if b := w.Buffers(); b.VertexCount() != 1 {
		t.Errorf("vertex count = %d, want 1", b.VertexCount())
	}
}

func TestWelder_SamePositionDifferentUV(t *testing.T) {
	w := NewWelder()
	p := math.Vec3{X: 4}

	a := w.ResolveCorner(at(p, math.Vec2{X: 0}))
	b := w.ResolveCorner(at(p, math.Vec2{X: 1}))
	if a == b {
		t.Errorf("corners with different UVs welded onto %d", a)
	}
	if got := w.Buffers().VertexCount(); got != 2 {
		t.Errorf("vertex count = %d, want 2", got)
	}
}

func TestWelder_FirstPositionMatch(t *testing.T) {
	w := NewWelder()
	p := math.Vec3{X: 1, Y: 1, Z: 1}
	u1 := math.Vec2{X: 0, Y: 0}
	u2 := math.Vec2{X: 1, Y: 0}

	// Put an unrelated vertex first so the quirk is exercised away from index 0.
	w.ResolveCorner(at(math.Vec3{X: 9}, math.Vec2{}))

	c1 := w.ResolveCorner(at(p, u1))
	c2 := w.ResolveCorner(at(p, u2))
	c3 := w.ResolveCorner(at(p, u1))
	if c1 != 1 || c2 != 2 {
		t.Fatalf("c1, c2 = %d, %d, want 1, 2", c1, c2)
	}
	if c3 != c1 {
		t.Errorf("c3 resolved to %d, want %d (first position match)", c3, c1)
	}

	// A fourth corner matching the second vertex exactly is not welded:
	// only the first vertex at p is ever compared.
	c4 := w.ResolveCorner(at(p, u2))
	if c4 == c2 {
		t.Errorf("c4 welded onto %d, want a new vertex", c2)
	}

	b := w.Buffers()
	if b.VertexCount() != 4 {
		t.Errorf("vertex count = %d, want 4", b.VertexCount())
	}
	if got := b.DuplicateVertices(); got != 1 {
		t.Errorf("duplicate vertices = %d, want 1", got)
	}
}

func TestWelder_FirstPositionMatchAtIndexZero(t *testing.T) {
	w := NewWelder()
	p := math.Vec3{}
	u1 := math.Vec2{X: 0.25}
	u2 := math.Vec2{X: 0.75}

	got := []uint32{
		w.ResolveCorner(at(p, u1)),
		w.ResolveCorner(at(p, u2)),
		w.ResolveCorner(at(p, u1)),
	}
	want := []uint32{0, 1, 0}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("resolved = %v, want %v", got, want)
		}
	}
}

func TestWelder_NormalBoundAtFirstInsertion(t *testing.T) {
	w := NewWelder()
	p := math.Vec3{X: 1}
	uv := math.Vec2{X: 1}

	w.ResolveCorner(Corner{Position: p, Normal: math.Vec3{Z: 1}, UV: uv})
	w.ResolveCorner(Corner{Position: p, Normal: math.Vec3{Y: 1}, UV: uv})

	b := w.Buffers()
	if b.VertexCount() != 1 {
		t.Fatalf("vertex count = %d, want 1", b.VertexCount())
	}
	if n := b.Vertices[0].Normal; n != (math.Vec3{Z: 1}) {
		t.Errorf("normal = %v, want first corner's normal", n)
	}
}

func TestWelder_AddTriangleOrder(t *testing.T) {
	w := NewWelder()
	a, b, c := corner(0), corner(1), corner(2)

	w.AddTriangle(Triangle{a, b, c})
	w.AddTriangle(Triangle{c, b, a})

	got := w.Buffers().Indices
	want := []uint32{0, 1, 2, 2, 1, 0}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("indices = %v, want %v", got, want)
		}
	}
}

func TestBuild_DegenerateFaceAbortsObject(t *testing.T) {
	obj := Object{
		Name:  "broken",
		Faces: []Face{polygon(3), polygon(2), polygon(4)},
	}
	b, err := Build(obj)
	if !errors.Is(err, ErrDegenerateFace) {
		t.Fatalf("got error %v, want %v", err, ErrDegenerateFace)
	}
	if b != nil {
		t.Errorf("expected no buffers on error, got %+v", b)
	}
}

func TestBuild_Empty(t *testing.T) {
	b, err := Build(Object{Name: "empty"})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if b.VertexCount() != 0 || b.IndexCount() != 0 {
		t.Errorf("got %d vertices, %d indices, want none", b.VertexCount(), b.IndexCount())
	}
}

// linearResolve is a direct transcription of the lookup: scan for the first
// vertex at the position, then compare only that vertex's UV.
func linearResolve(vertices []UniqueVertex, c Corner) (uint32, []UniqueVertex) {
	for i, v := range vertices {
		if v.Position == c.Position {
			if v.UV == c.UV {
				return uint32(i), vertices
			}
			break
		}
	}
	vertices = append(vertices, UniqueVertex{Position: c.Position, Normal: c.Normal, UV: c.UV})
	return uint32(len(vertices) - 1), vertices
}

func TestWelder_MatchesLinearScan(t *testing.T) {
	// A small grid with seams: positions and UVs repeat in many combinations.
	var corners []Corner
	for i := 0; i < 200; i++ {
		pos := math.Vec3{X: float32(i % 5), Y: float32(i % 3)}
		uv := math.Vec2{X: float32(i % 4), Y: float32(i % 7 % 2)}
		corners = append(corners, Corner{Position: pos, Normal: math.Vec3{X: float32(i)}, UV: uv})
	}

	w := NewWelder()
	var ref []UniqueVertex
	for i, c := range corners {
		var want uint32
		want, ref = linearResolve(ref, c)
		if got := w.ResolveCorner(c); got != want {
			t.Fatalf("corner %d resolved to %d, linear scan gives %d", i, got, want)
		}
	}

	b := w.Buffers()
	if len(b.Vertices) != len(ref) {
		t.Fatalf("vertex count = %d, linear scan gives %d", len(b.Vertices), len(ref))
	}
	for i := range ref {
		if b.Vertices[i] != ref[i] {
			t.Errorf("vertex %d = %+v, want %+v", i, b.Vertices[i], ref[i])
		}
	}
}

func TestBuffers_Validate(t *testing.T) {
	tests := []struct {
		name    string
		buf     Buffers
		wantErr error
	}{
		{
			name:    "valid",
			buf:     Buffers{Vertices: make([]UniqueVertex, 3), Indices: []uint32{0, 1, 2}},
			wantErr: nil,
		},
		{
			name:    "out of range",
			buf:     Buffers{Vertices: make([]UniqueVertex, 2), Indices: []uint32{0, 1, 2}},
			wantErr: ErrIndexOutOfRange,
		},
		{
			name:    "partial triangle",
			buf:     Buffers{Vertices: make([]UniqueVertex, 2), Indices: []uint32{0, 1}},
			wantErr: ErrIndexCountInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.buf.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("got error %v, want %v", err, tt.wantErr)
			}
		})
	}
}

package mesh

import (
	"errors"
	"testing"

	"github.com/Faultbox/glarrays/pkg/math"
)

// corner returns a corner whose position encodes id, for easy identification.
func corner(id float32) Corner {
	return Corner{
		Position: math.Vec3{X: id},
		Normal:   math.Vec3{Z: 1},
		UV:       math.Vec2{X: id},
	}
}

func polygon(n int) Face {
	f := Face{Corners: make([]Corner, n)}
	for i := range f.Corners {
		f.Corners[i] = corner(float32(i))
	}
	return f
}

func TestTriangulate_Count(t *testing.T) {
	for n := 3; n <= 9; n++ {
		tris, err := Triangulate(polygon(n))
		if err != nil {
			t.Fatalf("n=%d: unexpected error: %v", n, err)
		}
		got := 0
		for range tris {
			got++
		}
		if got != n-2 {
			t.Errorf("n=%d: got %d triangles, want %d", n, got, n-2)
		}
	}
}

func TestTriangulate_QuadFan(t *testing.T) {
	a, b, c, d := corner(0), corner(1), corner(2), corner(3)
	tris, err := Triangulate(Face{Corners: []Corner{a, b, c, d}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got []Triangle
	for tri := range tris {
		got = append(got, tri)
	}
	want := []Triangle{{a, b, c}, {a, c, d}}
	if len(got) != len(want) {
		t.Fatalf("got %d triangles, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("triangle %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestTriangulate_Degenerate(t *testing.T) {
	tests := []struct {
		name string
		n    int
	}{
		{"empty", 0},
		{"point", 1},
		{"edge", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Triangulate(polygon(tt.n))
			if !errors.Is(err, ErrDegenerateFace) {
				t.Errorf("got error %v, want %v", err, ErrDegenerateFace)
			}
		})
	}
}

func TestTriangulate_StopEarly(t *testing.T) {
	tris, err := Triangulate(polygon(6))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := 0
	for range tris {
		got++
		if got == 2 {
			break
		}
	}
	if got != 2 {
		t.Errorf("got %d triangles before break, want 2", got)
	}
}

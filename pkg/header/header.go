// Package header serializes mesh buffers as a C header of constant arrays.
//
// Positions and normals are written in the (x, -z, -y) convention of the
// target; UVs are written unchanged. Floats use six-decimal fixed point.
package header

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/chewxy/math32"

	"github.com/Faultbox/glarrays/pkg/encoding"
	"github.com/Faultbox/glarrays/pkg/math"
	"github.com/Faultbox/glarrays/pkg/mesh"
)

// IndicesPerLine is the number of indices written before a line break.
const IndicesPerLine = 8

// Extension is the file extension of generated headers.
const Extension = ".h"

// ErrNonFinite is returned for a NaN or infinite attribute, which has no
// C float literal.
var ErrNonFinite = errors.New("non-finite vertex attribute")

// FileName returns the header file name for an object name.
func FileName(objectName string) string {
	return encoding.Identifier(objectName) + Extension
}

// Encode writes the header for the named object to w. Nothing is written
// when an attribute is not finite.
func Encode(w io.Writer, objectName string, b *mesh.Buffers) error {
	if err := checkFinite(b); err != nil {
		return err
	}
	e := &encoder{
		w:    bufio.NewWriter(w),
		name: encoding.Identifier(objectName),
	}
	e.write(b)
	if e.err != nil {
		return e.err
	}
	return e.w.Flush()
}

func checkFinite(b *mesh.Buffers) error {
	for i, v := range b.Vertices {
		vals := [...]float32{
			v.Position.X, v.Position.Y, v.Position.Z,
			v.Normal.X, v.Normal.Y, v.Normal.Z,
			v.UV.X, v.UV.Y,
		}
		for _, f := range vals {
			if math32.IsNaN(f) || math32.IsInf(f, 0) {
				return fmt.Errorf("%w: vertex %d: %+v", ErrNonFinite, i, v)
			}
		}
	}
	return nil
}

// encoder keeps the first write error so the layout code stays linear.
type encoder struct {
	w       *bufio.Writer
	name    string
	scratch []byte
	err     error
}

func (e *encoder) str(s string) {
	if e.err != nil {
		return
	}
	_, e.err = e.w.WriteString(s)
}

func (e *encoder) bytes(p []byte) {
	if e.err != nil {
		return
	}
	_, e.err = e.w.Write(p)
}

// floats writes the values as "%f, %f, ..." without a trailing separator.
func (e *encoder) floats(vals ...float32) {
	e.scratch = e.scratch[:0]
	for i, v := range vals {
		if i > 0 {
			e.scratch = append(e.scratch, ", "...)
		}
		e.scratch = strconv.AppendFloat(e.scratch, float64(v), 'f', 6, 64)
	}
	e.bytes(e.scratch)
}

func (e *encoder) write(b *mesh.Buffers) {
	n := e.name
	e.str("#ifndef _" + n + "_H_\n")
	e.str("#define _" + n + "_H_\n\n")

	e.str("#define " + n + "_VERTEX_COUNT " + strconv.Itoa(b.VertexCount()) + "\n")
	e.str("#define " + n + "_INDEX_COUNT " + strconv.Itoa(b.IndexCount()) + "\n\n")

	e.vec3Array(n+"_vertices", b.Vertices, func(v mesh.UniqueVertex) math.Vec3 { return v.Position })

	e.str("const float " + n + "_uvs[] = {\n")
	for i, v := range b.Vertices {
		e.floats(v.UV.X, v.UV.Y)
		e.lineEnd(i, len(b.Vertices))
	}
	e.str("};\n\n")

	e.vec3Array(n+"_normals", b.Vertices, func(v mesh.UniqueVertex) math.Vec3 { return v.Normal })

	e.str("const int " + n + "_indices[] = {\n")
	for i, idx := range b.Indices {
		e.scratch = strconv.AppendUint(e.scratch[:0], uint64(idx), 10)
		if i < len(b.Indices)-1 {
			e.scratch = append(e.scratch, ", "...)
			if (i+1)%IndicesPerLine == 0 {
				e.scratch = append(e.scratch, '\n')
			}
		} else {
			e.scratch = append(e.scratch, '\n')
		}
		e.bytes(e.scratch)
	}
	e.str("};\n")
	e.str("#endif\n")
}

func (e *encoder) vec3Array(name string, verts []mesh.UniqueVertex, attr func(mesh.UniqueVertex) math.Vec3) {
	e.str("const float " + name + "[] = {\n")
	for i, v := range verts {
		p := attr(v).ZUpToYUp()
		e.floats(p.X, p.Y, p.Z)
		e.lineEnd(i, len(verts))
	}
	e.str("};\n\n")
}

// lineEnd terminates a row of an attribute array; every row but the last
// carries a trailing comma.
func (e *encoder) lineEnd(i, n int) {
	if i < n-1 {
		e.str(",\n")
		return
	}
	e.str("\n")
}

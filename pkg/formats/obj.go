// Package formats provides parsers for mesh interchange formats.
package formats

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/chewxy/math32"

	"github.com/Faultbox/glarrays/pkg/math"
)

// OBJ format errors.
var (
	ErrMalformedOBJ  = errors.New("malformed OBJ statement")
	ErrOBJIndexRange = errors.New("OBJ index out of range")
)

// DefaultOBJObjectName names faces that appear before any "o" or "g" statement.
const DefaultOBJObjectName = "default"

// NoIndex marks a face vertex without a texture coordinate or normal reference.
const NoIndex = -1

// OBJFaceVertex holds zero-based indices into the OBJ attribute arrays.
type OBJFaceVertex struct {
	Position int
	TexCoord int // NoIndex when absent
	Normal   int // NoIndex when absent
}

// OBJFace is a polygon in winding order.
type OBJFace struct {
	Vertices []OBJFaceVertex
	Line     int // Source line, for error reporting
}

// OBJObject is a named group of faces.
type OBJObject struct {
	Name  []byte // Raw name bytes, decoded by the caller
	Faces []OBJFace
}

// OBJ represents a parsed Wavefront OBJ file. Attribute arrays are shared by
// all objects, as in the file.
type OBJ struct {
	Positions []math.Vec3
	TexCoords []math.Vec2
	Normals   []math.Vec3
	Objects   []OBJObject

	Skipped map[string]int // Unsupported statements by keyword
}

// ParseOBJ parses OBJ data from a byte slice.
func ParseOBJ(data []byte) (*OBJ, error) {
	obj := &OBJ{Skipped: make(map[string]int)}
	var cur *OBJObject
	sawObject := false

	begin := func(name []byte) {
		// Drop the implicit or previous object if nothing was added to it.
		if cur != nil && len(cur.Faces) == 0 {
			obj.Objects = obj.Objects[:len(obj.Objects)-1]
		}
		obj.Objects = append(obj.Objects, OBJObject{Name: bytes.Clone(name)})
		cur = &obj.Objects[len(obj.Objects)-1]
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if i := bytes.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		fields := bytes.Fields(line)
		if len(fields) == 0 {
			continue
		}

		keyword := string(fields[0])
		args := fields[1:]
		switch keyword {
		case "v":
			v, err := parseVec3(args)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: v: %v", ErrMalformedOBJ, lineNo, err)
			}
			obj.Positions = append(obj.Positions, v)

		case "vn":
			v, err := parseVec3(args)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: vn: %v", ErrMalformedOBJ, lineNo, err)
			}
			obj.Normals = append(obj.Normals, v)

		case "vt":
			// "vt u [v [w]]": v defaults to 0, w is ignored.
			if len(args) < 1 || len(args) > 3 {
				return nil, fmt.Errorf("%w: line %d: vt: want 1 to 3 values, got %d", ErrMalformedOBJ, lineNo, len(args))
			}
			var uv math.Vec2
			var err error
			if uv.X, err = parseFloat(args[0]); err == nil && len(args) > 1 {
				uv.Y, err = parseFloat(args[1])
			}
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: vt: %v", ErrMalformedOBJ, lineNo, err)
			}
			obj.TexCoords = append(obj.TexCoords, uv)

		case "f":
			face := OBJFace{Line: lineNo, Vertices: make([]OBJFaceVertex, 0, len(args))}
			for _, arg := range args {
				fv, err := obj.parseFaceVertex(arg)
				if err != nil {
					return nil, fmt.Errorf("line %d: f %s: %w", lineNo, arg, err)
				}
				face.Vertices = append(face.Vertices, fv)
			}
			if cur == nil {
				begin([]byte(DefaultOBJObjectName))
			}
			cur.Faces = append(cur.Faces, face)

		case "o":
			sawObject = true
			begin(bytes.Join(args, []byte(" ")))

		case "g":
			// Groups split objects only in files that never name objects.
			if sawObject {
				obj.Skipped[keyword]++
				continue
			}
			begin(bytes.Join(args, []byte(" ")))

		default:
			obj.Skipped[keyword]++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedOBJ, lineNo+1, err)
	}

	if cur != nil && len(cur.Faces) == 0 {
		obj.Objects = obj.Objects[:len(obj.Objects)-1]
	}
	return obj, nil
}

// parseFaceVertex parses "v", "v/vt", "v//vn" or "v/vt/vn". Indices are
// one-based; negative indices are relative to the end of the arrays so far.
func (o *OBJ) parseFaceVertex(arg []byte) (OBJFaceVertex, error) {
	parts := strings.Split(string(arg), "/")
	if len(parts) > 3 || parts[0] == "" {
		return OBJFaceVertex{}, ErrMalformedOBJ
	}

	fv := OBJFaceVertex{TexCoord: NoIndex, Normal: NoIndex}
	var err error
	if fv.Position, err = resolveIndex(parts[0], len(o.Positions)); err != nil {
		return fv, err
	}
	if len(parts) > 1 && parts[1] != "" {
		if fv.TexCoord, err = resolveIndex(parts[1], len(o.TexCoords)); err != nil {
			return fv, err
		}
	}
	if len(parts) > 2 && parts[2] != "" {
		if fv.Normal, err = resolveIndex(parts[2], len(o.Normals)); err != nil {
			return fv, err
		}
	}
	return fv, nil
}

func resolveIndex(s string, count int) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrMalformedOBJ, err)
	}
	switch {
	case i > 0 && i <= count:
		return i - 1, nil
	case i < 0 && -i <= count:
		return count + i, nil
	default:
		return 0, fmt.Errorf("%w: %d of %d", ErrOBJIndexRange, i, count)
	}
}

func parseVec3(args [][]byte) (math.Vec3, error) {
	// Extra values (w, or vertex colors after x y z) are ignored.
	if len(args) < 3 {
		return math.Vec3{}, fmt.Errorf("want 3 values, got %d", len(args))
	}
	var v math.Vec3
	var err error
	if v.X, err = parseFloat(args[0]); err != nil {
		return v, err
	}
	if v.Y, err = parseFloat(args[1]); err != nil {
		return v, err
	}
	if v.Z, err = parseFloat(args[2]); err != nil {
		return v, err
	}
	return v, nil
}

// parseFloat rejects nan and inf, which ParseFloat accepts but C cannot spell.
func parseFloat(b []byte) (float32, error) {
	f, err := strconv.ParseFloat(string(b), 32)
	if err != nil {
		return 0, err
	}
	v := float32(f)
	if math32.IsNaN(v) || math32.IsInf(v, 0) {
		return 0, fmt.Errorf("non-finite value %q", b)
	}
	return v, nil
}

// FaceCount returns the total number of faces across all objects.
func (o *OBJ) FaceCount() int {
	n := 0
	for i := range o.Objects {
		n += len(o.Objects[i].Faces)
	}
	return n
}

// ParseOBJFile parses an OBJ file from disk.
func ParseOBJFile(path string) (*OBJ, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading OBJ file: %w", err)
	}
	return ParseOBJ(data)
}
